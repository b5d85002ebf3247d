package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliolabs/folio-api/internal/admins"
	"github.com/foliolabs/folio-api/internal/assist"
	"github.com/foliolabs/folio-api/internal/auth"
	"github.com/foliolabs/folio-api/internal/blog"
	"github.com/foliolabs/folio-api/internal/cache"
	"github.com/foliolabs/folio-api/internal/config"
	"github.com/foliolabs/folio-api/internal/contact"
	"github.com/foliolabs/folio-api/internal/content"
	"github.com/foliolabs/folio-api/internal/database"
	"github.com/foliolabs/folio-api/internal/ids"
	"github.com/foliolabs/folio-api/internal/logging"
	"github.com/foliolabs/folio-api/internal/notify"
	"github.com/foliolabs/folio-api/internal/revalidate"
	"github.com/foliolabs/folio-api/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "folio-api",
		Short: "Folio portfolio backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Int("session-ttl-minutes", defaults.GetInt("session.ttl_minutes"), "Admin session TTL in minutes")
	cmd.PersistentFlags().String("session-secret", "", "Session signing secret (overrides env)")
	cmd.PersistentFlags().String("admin-username", defaults.GetString("admin.username"), "Admin account username")
	cmd.PersistentFlags().String("admin-password", "", "Admin account password (overrides env)")
	cmd.PersistentFlags().String("assist-model", defaults.GetString("assist.model"), "Generative text model name")
	cmd.PersistentFlags().String("revalidate-url", defaults.GetString("revalidate.url"), "Page revalidation hook URL")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "session.ttl_minutes", "session-ttl-minutes")
	bindFlag(cmd, "session.signing_secret", "session-secret")
	bindFlag(cmd, "admin.username", "admin-username")
	bindFlag(cmd, "admin.password", "admin-password")
	bindFlag(cmd, "assist.model", "assist-model")
	bindFlag(cmd, "revalidate.url", "revalidate-url")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	idProvider := ids.NewUUIDProvider()

	sessionManager, err := auth.NewSessionManager(auth.SessionManagerConfig{
		SigningSecret: []byte(appConfig.SessionSecret),
		CookieName:    appConfig.SessionCookie,
		SessionTTL:    appConfig.SessionTTL,
	})
	if err != nil {
		return err
	}

	adminService, err := admins.NewService(admins.ServiceConfig{
		Database:   db,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if err := adminService.EnsureAdmin(ctx, appConfig.AdminUsername, appConfig.AdminPassword); err != nil {
		return err
	}

	contentService, err := content.NewService(content.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	blogService, err := blog.NewService(blog.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	var relay contact.Relay
	if appConfig.BotToken != "" && appConfig.BotChatID != "" {
		botRelay, err := notify.NewBotRelay(notify.BotRelayConfig{
			Token:   appConfig.BotToken,
			ChatID:  appConfig.BotChatID,
			Timeout: appConfig.OutboundTimeout,
		})
		if err != nil {
			return err
		}
		relay = botRelay
	} else {
		logger.Warn("bot relay not configured, contact messages are stored only")
	}

	contactService, err := contact.NewService(contact.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Relay:      relay,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	var generator assist.TextGenerator
	if appConfig.AssistAPIKey != "" {
		geminiGenerator, err := assist.NewGeminiGenerator(ctx, appConfig.AssistAPIKey, appConfig.AssistModel)
		if err != nil {
			return err
		}
		generator = geminiGenerator
	} else {
		logger.Warn("assist api key not configured, chat serves fallback text only")
	}
	assistService := assist.NewService(assist.ServiceConfig{
		Generator: generator,
		Fallback:  appConfig.AssistFallback,
		Logger:    logger,
	})

	revalidator := revalidate.NewClient(revalidate.ClientConfig{
		HookURL: appConfig.RevalidateURL,
		Secret:  appConfig.RevalidateSecret,
		Timeout: appConfig.OutboundTimeout,
	})

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Sessions:       sessionManager,
		Admins:         adminService,
		ContentService: contentService,
		BlogService:    blogService,
		ContactService: contactService,
		AssistService:  assistService,
		Revalidator:    revalidator,
		Cache:          cache.NewTagCache(),
		AllowedOrigins: appConfig.AllowedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

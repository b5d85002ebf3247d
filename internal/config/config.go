package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix              = "FOLIO"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultDatabasePath    = "folio.db"
	defaultLogLevel        = "info"
	defaultCookieName      = "folio_admin_session"
	defaultSessionTTL      = 12 * time.Hour
	defaultOutboundTimeout = 10 * time.Second
	defaultAssistModel     = "gemini-2.0-flash"
	defaultAssistFallback  = "I'm unavailable right now, but feel free to reach out through the contact form."
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	LogLevel         string
	AllowedOrigins   []string
	SessionSecret    string
	SessionCookie    string
	SessionTTL       time.Duration
	AdminUsername    string
	AdminPassword    string
	AssistAPIKey     string
	AssistModel      string
	AssistFallback   string
	BotToken         string
	BotChatID        string
	RevalidateURL    string
	RevalidateSecret string
	OutboundTimeout  time.Duration
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("http.allowed_origins", []string{"*"})
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("session.cookie_name", defaultCookieName)
	configViper.SetDefault("session.ttl_minutes", int(defaultSessionTTL.Minutes()))
	configViper.SetDefault("assist.model", defaultAssistModel)
	configViper.SetDefault("assist.fallback", defaultAssistFallback)
	configViper.SetDefault("outbound.timeout_seconds", int(defaultOutboundTimeout.Seconds()))
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
		AllowedOrigins:   configViper.GetStringSlice("http.allowed_origins"),
		SessionSecret:    configViper.GetString("session.signing_secret"),
		SessionCookie:    configViper.GetString("session.cookie_name"),
		SessionTTL:       time.Duration(configViper.GetInt("session.ttl_minutes")) * time.Minute,
		AdminUsername:    configViper.GetString("admin.username"),
		AdminPassword:    configViper.GetString("admin.password"),
		AssistAPIKey:     configViper.GetString("assist.api_key"),
		AssistModel:      configViper.GetString("assist.model"),
		AssistFallback:   configViper.GetString("assist.fallback"),
		BotToken:         configViper.GetString("bot.token"),
		BotChatID:        configViper.GetString("bot.chat_id"),
		RevalidateURL:    configViper.GetString("revalidate.url"),
		RevalidateSecret: configViper.GetString("revalidate.secret"),
		OutboundTimeout:  time.Duration(configViper.GetInt("outbound.timeout_seconds")) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("session.signing_secret is required")
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.AdminUsername) == "" {
		return fmt.Errorf("admin.username is required")
	}
	if strings.TrimSpace(c.AdminPassword) == "" {
		return fmt.Errorf("admin.password is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session.ttl_minutes must be positive")
	}
	return nil
}

// Package notify relays text notifications through a Telegram-style bot
// API. Credentials come from runtime configuration.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.telegram.org"

var (
	errMissingToken  = errors.New("notify: bot token required")
	errMissingChatID = errors.New("notify: chat id required")
)

// BotRelayConfig configures the outbound bot client.
type BotRelayConfig struct {
	Token   string
	ChatID  string
	BaseURL string
	Timeout time.Duration
}

// BotRelay posts messages to a single configured chat.
type BotRelay struct {
	client *resty.Client
	token  string
	chatID string
}

// NewBotRelay validates the configuration and constructs the relay.
func NewBotRelay(cfg BotRelayConfig) (*BotRelay, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errMissingToken
	}
	if strings.TrimSpace(cfg.ChatID) == "" {
		return nil, errMissingChatID
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().SetBaseURL(baseURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &BotRelay{
		client: client,
		token:  strings.TrimSpace(cfg.Token),
		chatID: strings.TrimSpace(cfg.ChatID),
	}, nil
}

// Notify delivers text to the configured chat. Any transport failure or
// non-2xx response is an error; the caller decides how to degrade.
func (r *BotRelay) Notify(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("notify: empty message")
	}

	response, err := r.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": r.chatID,
			"text":    text,
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", r.token))
	if err != nil {
		return fmt.Errorf("notify: send message: %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("notify: send message: status %d", response.StatusCode())
	}
	return nil
}

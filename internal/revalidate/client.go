// Package revalidate invokes the page-cache invalidation hook of the
// statically rendered public site after admin edits.
package revalidate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientConfig configures the revalidation hook client.
type ClientConfig struct {
	HookURL string
	Secret  string
	Timeout time.Duration
}

// Client posts affected paths to the configured hook. With no hook URL
// configured the client is a no-op, which keeps local setups simple.
type Client struct {
	client  *resty.Client
	hookURL string
	secret  string
}

// NewClient constructs the hook client.
func NewClient(cfg ClientConfig) *Client {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{
		client:  client,
		hookURL: strings.TrimSpace(cfg.HookURL),
		secret:  cfg.Secret,
	}
}

// Enabled reports whether a hook URL is configured.
func (c *Client) Enabled() bool {
	return c.hookURL != ""
}

// Revalidate asks the site to re-render the given path.
func (c *Client) Revalidate(ctx context.Context, path string) error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("revalidate: path required")
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"path":   path,
			"secret": c.secret,
		}).
		Post(c.hookURL)
	if err != nil {
		return fmt.Errorf("revalidate: %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("revalidate: status %d", response.StatusCode())
	}
	return nil
}

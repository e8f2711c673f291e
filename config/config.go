/* config.go
 * Contains the process configuration and its defaults
 * Authors: Zachary Bower
 */

package config

import (
	"errors"
	"time"
)

// Config holds every setting the server, bot and data layer read at startup
type Config struct {
	// LogLevel is one of trace, debug, info, warn, error
	LogLevel string `koanf:"log_level"`
	// Addr is the HTTP listen address, e.g. ":8080"
	Addr string `koanf:"addr"`

	MongoURI string `koanf:"mongo_uri"`
	DBName   string `koanf:"db_name"`
	// Season selects the roster collection seasons/{season}/drivers
	Season string `koanf:"season"`

	// JWTSecret signs session cookies. SessionTTL is how long a sign-in lasts
	JWTSecret  string        `koanf:"jwt_secret"`
	SessionTTL time.Duration `koanf:"session_ttl"`

	// WebhookSecret must match the X-Webhook-Secret header of result pushes. Empty disables the webhook
	WebhookSecret string `koanf:"webhook_secret"`

	// Federated sign-in is enabled when the issuer and client id are both set
	OIDCIssuer       string `koanf:"oidc_issuer"`
	OIDCClientID     string `koanf:"oidc_client_id"`
	OIDCClientSecret string `koanf:"oidc_client_secret"`
	OIDCRedirectURL  string `koanf:"oidc_redirect_url"`

	DiscordToken          string `koanf:"discord_token"`
	DiscordStewardChannel string `koanf:"discord_steward_channel"`

	// ChatRate is the sustained messages per second one identity may send, ChatBurst the bucket size
	ChatRate  float64 `koanf:"chat_rate"`
	ChatBurst int     `koanf:"chat_burst"`

	// SecureCookies marks the session cookie Secure. Set it when serving over TLS
	SecureCookies bool `koanf:"secure_cookies"`

	// TeamColors overrides or extends the built in team palette, team name -> hex color
	TeamColors map[string]string `koanf:"team_colors"`
}

// New returns a Config filled with defaults
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Addr:       ":8080",
		MongoURI:   "mongodb://localhost:27017",
		DBName:     "race_control",
		Season:     "season_1",
		SessionTTL: 7 * 24 * time.Hour,
		ChatRate:   1,
		ChatBurst:  5,
		TeamColors: map[string]string{},
	}
}

// FederatedEnabled reports whether enough OIDC settings are present to offer federated sign-in
func (c *Config) FederatedEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Validate checks the settings every deployment needs
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("mongo_uri must not be empty"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("db_name must not be empty"))
	}
	if c.Season == "" {
		errs = append(errs, errors.New("season must not be empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.ChatRate <= 0 || c.ChatBurst <= 0 {
		errs = append(errs, errors.New("chat_rate and chat_burst must be positive"))
	}
	if c.FederatedEnabled() && c.OIDCRedirectURL == "" {
		errs = append(errs, errors.New("oidc_redirect_url is required when federated sign-in is enabled"))
	}
	return errors.Join(errs...)
}

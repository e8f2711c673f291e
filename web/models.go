/* models.go
 * Contains the server configuration and the request and response bodies of the HTTP surface
 * Authors: Zachary Bower
 */

package web

import (
	"race-control/api/api"
	"race-control/api/auth"
	"race-control/api/console"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	// SessionCookie carries the signed session token
	SessionCookie = "race_control_session"
	// WebhookSecretHeader must match the configured secret on result pushes
	WebhookSecretHeader = "X-Webhook-Secret"

	// federatedTTL is how long a started federated sign-in waits for its callback
	federatedTTL = 10 * time.Minute
	maxBodyBytes = 1 << 20
)

// Config holds the configuration for the web server
type Config struct {
	Addr     string
	API      *api.API
	Auth     *auth.Provider
	Consoles *console.Manager
	// Gatherer backs /metrics. Nil serves the default prometheus registry
	Gatherer prometheus.Gatherer
	// WebhookSecret guards /webhooks/results. Empty disables the webhook
	WebhookSecret string
	ChatRate      float64
	ChatBurst     int
	// SecureCookies marks the session cookie Secure, set it when serving over TLS
	SecureCookies bool
	Log           zerolog.Logger
}

// Server is the HTTP server for the console, the auth flows and the results webhook
type Server struct {
	api           *api.API
	auth          *auth.Provider
	consoles      *console.Manager
	gatherer      prometheus.Gatherer
	webhookSecret string
	secureCookies bool
	log           zerolog.Logger

	limiter *chatLimiter
	// pending holds started federated sign-ins keyed by state
	pending     *cache.Cache
	unsubscribe func()
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type navigateRequest struct {
	Mode     console.Mode `json:"mode"`
	TicketID string       `json:"ticketId"`
}

type profileRequest struct {
	SteamID string `json:"steamId"`
	EAID    string `json:"eaId"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type closeRequest struct {
	Ruling string `json:"ruling"`
}

type resultResponse struct {
	Applied bool `json:"applied"`
}

type errorResponse struct {
	Error string `json:"error"`
}

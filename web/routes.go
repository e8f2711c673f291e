/* routes.go
 * Builds the server and its routes
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"race-control/logger"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a Server and subscribes its console manager to the provider's session events
// Preconditions: Receives a Config with API, Auth and Consoles set
// Postconditions: Returns the Server. Close must be called to drop the session subscription
func NewServer(cfg Config) *Server {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		api:           cfg.API,
		auth:          cfg.Auth,
		consoles:      cfg.Consoles,
		gatherer:      gatherer,
		webhookSecret: cfg.WebhookSecret,
		secureCookies: cfg.SecureCookies,
		log:           logger.Component(cfg.Log, "web"),
		limiter:       newChatLimiter(cfg.ChatRate, cfg.ChatBurst),
		pending:       cache.New(federatedTTL, federatedTTL),
	}
	s.unsubscribe = s.auth.Subscribe(s.consoles.HandleSessionEvent)
	return s
}

// Close stops following session events
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Routes returns the handler for every endpoint
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/signup", s.SignUpHandler)
	mux.HandleFunc("POST /auth/signin", s.SignInHandler)
	mux.HandleFunc("GET /auth/federated", s.FederatedHandler)
	mux.HandleFunc("GET /auth/federated/callback", s.FederatedCallbackHandler)
	mux.HandleFunc("POST /auth/signout", s.withSession(s.SignOutHandler))

	mux.HandleFunc("GET /console", s.withSession(s.ConsoleHandler))
	mux.HandleFunc("POST /console/navigate", s.withSession(s.NavigateHandler))
	mux.HandleFunc("POST /onboarding", s.withSession(s.OnboardingHandler))
	mux.HandleFunc("PUT /profile", s.withSession(s.ProfileHandler))

	mux.HandleFunc("GET /standings", s.StandingsHandler)

	mux.HandleFunc("GET /tickets", s.withSession(s.ListTicketsHandler))
	mux.HandleFunc("POST /tickets", s.withSession(s.CreateTicketHandler))
	mux.HandleFunc("GET /tickets/{id}", s.withSession(s.GetTicketHandler))
	mux.HandleFunc("POST /tickets/{id}/messages", s.withSession(s.SendMessageHandler))
	mux.HandleFunc("POST /tickets/{id}/summon", s.withSession(s.SummonHandler))
	mux.HandleFunc("POST /tickets/{id}/close", s.withSession(s.CloseTicketHandler))

	mux.HandleFunc("POST /webhooks/results", s.ResultsWebhookHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

/* results.go
 * Contains the webhook the scoring process calls after each event to record a driver's finishing position
 * Authors: Zachary Bower
 */

package web

import (
	"crypto/subtle"
	"net/http"
	"race-control/api/api"
)

// ResultsWebhookHandler records one event result. Results for another season are acknowledged and ignored
// Preconditions: Receives the X-Webhook-Secret header and a JSON body {season, driverId, eventId, position, totalPoints}
// Postconditions: Responds 200 {applied}, 401 on a bad secret, 404 if the webhook is disabled or the driver is unknown
func (s *Server) ResultsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret == "" {
		writeError(w, http.StatusNotFound, "results webhook is disabled")
		return
	}
	secret := r.Header.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var event api.ResultEvent
	if err := decodeJSON(w, r, &event); err != nil {
		s.log.Warn().Err(err).Msg("failed to decode results webhook")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	applied, err := s.api.RecordResult(r.Context(), event)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Applied: applied})
}

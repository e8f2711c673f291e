/* respond.go
 * Contains the JSON helpers and the mapping from domain errors to HTTP statuses
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"race-control/api/api"
	"race-control/api/auth"
	"race-control/api/console"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeAuthError responds 401 with the user readable form of an auth error
func (s *Server) writeAuthError(w http.ResponseWriter, err error) {
	s.api.Metrics.AuthFailure(string(auth.CodeOf(err)))
	writeError(w, http.StatusUnauthorized, auth.UserMessage(err))
}

// writeDomainError maps errors from the api and console packages onto a status
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrForbidden), errors.Is(err, api.ErrNoProfile), errors.Is(err, console.ErrNotSignedIn):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, api.ErrTicketNotFound), errors.Is(err, api.ErrDriverNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, api.ErrTicketClosed), errors.Is(err, api.ErrProfileExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, api.ErrEmptyMessage), errors.Is(err, api.ErrEmptyRuling), errors.Is(err, api.ErrInvalidInput),
		errors.Is(err, api.ErrNoEmail), errors.Is(err, console.ErrUnknownMode), errors.Is(err, console.ErrNoTicket):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

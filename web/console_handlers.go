/* console_handlers.go
 * Contains the console, onboarding, profile and standings endpoints
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"race-control/api/api"
	"race-control/api/console"
)

// ConsoleHandler returns the active screen of the session's console
func (s *Server) ConsoleHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	writeJSON(w, http.StatusOK, sess.Console.Screen())
}

// NavigateHandler moves the console to another screen
// Preconditions: Receives a JSON body {mode, ticketId}
// Postconditions: Responds with the new screen, or an error if the screen is unknown or not open to the session
func (s *Server) NavigateHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Console.Navigate(req.Mode, req.TicketID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Console.Screen())
}

// OnboardingHandler creates the session's profile and roster entry
// Preconditions: Receives a JSON body {name, steamId, eaId}
// Postconditions: Responds 201 with the dashboard screen, or an error if the form is incomplete or a profile exists
func (s *Server) OnboardingHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var input api.OnboardingInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := s.api.Onboard(r.Context(), sess.Identity, input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := sess.Console.Onboarded(profile); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Console.Screen())
}

// ProfileHandler updates the session's platform ids
// Preconditions: Receives a JSON body {steamId, eaId}
// Postconditions: Responds with the updated profile
func (s *Server) ProfileHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	viewer, ok := sess.Console.Viewer()
	if !ok {
		s.writeDomainError(w, console.ErrNotSignedIn)
		return
	}
	profile, err := s.api.UpdateProfile(r.Context(), viewer, req.SteamID, req.EAID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	sess.Console.ProfileUpdated(profile)
	writeJSON(w, http.StatusOK, profile)
}

// StandingsHandler returns driver and constructor standings. It is public
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := s.api.Standings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

/* ticket_handlers.go
 * Contains the ticket endpoints
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"race-control/api/api"
	"race-control/api/console"
)

// viewerOf returns the viewer of a session or writes 403
func (s *Server) viewerOf(w http.ResponseWriter, sess requestSession) (api.Viewer, bool) {
	viewer, ok := sess.Console.Viewer()
	if !ok {
		s.writeDomainError(w, console.ErrNotSignedIn)
	}
	return viewer, ok
}

// ListTicketsHandler returns the tickets the session may see, newest first
func (s *Server) ListTicketsHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	tickets, err := s.api.ListTickets(r.Context(), viewer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// CreateTicketHandler files a ticket against the accused driver
// Preconditions: Receives a JSON body {accusedId, session, lap, description, evidence}
// Postconditions: Responds 201 with the ticket
func (s *Server) CreateTicketHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var input api.TicketInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	ticket, err := s.api.CreateTicket(r.Context(), viewer, input, sess.Console.Roster())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

// GetTicketHandler returns a ticket and its messages
func (s *Server) GetTicketHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	view, err := s.api.GetTicket(r.Context(), viewer, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SendMessageHandler appends a chat message to a ticket. Each identity is rate limited
// Preconditions: Receives a JSON body {text}
// Postconditions: Responds 201 with the message, 429 if the sender is over its rate
func (s *Server) SendMessageHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	if !s.limiter.Allow(viewer.Identity.UID) {
		writeError(w, http.StatusTooManyRequests, "Slow down, too many messages.")
		return
	}
	message, err := s.api.SendMessage(r.Context(), viewer, r.PathValue("id"), req.Text)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// SummonHandler moves a ticket to Investigating and gives the accused access. Stewards only
func (s *Server) SummonHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	ticket, err := s.api.Summon(r.Context(), viewer, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// CloseTicketHandler closes a ticket with a ruling. Stewards only
// Preconditions: Receives a JSON body {ruling}
// Postconditions: Responds with the closed ticket
func (s *Server) CloseTicketHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	var req closeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	viewer, ok := s.viewerOf(w, sess)
	if !ok {
		return
	}
	ticket, err := s.api.Close(r.Context(), viewer, r.PathValue("id"), req.Ruling)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

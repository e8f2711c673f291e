/* auth_handlers.go
 * Contains the sign-up, sign-in, federated sign-in and sign-out endpoints
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"race-control/api/auth"
)

// SignUpHandler creates an email/password account and signs it in
// Preconditions: Receives a JSON body {email, password}
// Postconditions: Sets the session cookie and responds 201, or 401 with the user readable auth error
func (s *Server) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

// SignInHandler signs in an email/password account
// Preconditions: Receives a JSON body {email, password}
// Postconditions: Sets the session cookie and responds 200, or 401 with the user readable auth error
func (s *Server) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// FederatedHandler starts a federated sign-in and redirects to the issuer
func (s *Server) FederatedHandler(w http.ResponseWriter, r *http.Request) {
	if !s.auth.FederatedEnabled() {
		writeError(w, http.StatusNotFound, "Federated sign-in is not enabled.")
		return
	}
	req, err := s.auth.BeginFederated()
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.pending.SetDefault(req.State, req)
	http.Redirect(w, r, req.URL, http.StatusFound)
}

// FederatedCallbackHandler finishes a federated sign-in. Each started sign-in can be completed once
// Preconditions: Receives the issuer's redirect with state and code, or error and error_description
// Postconditions: Sets the session cookie and redirects to /console, or responds 401 with the user readable auth error
func (s *Server) FederatedCallbackHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cb := auth.FederatedCallback{
		State:            q.Get("state"),
		Code:             q.Get("code"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	var req auth.FederatedRequest
	if v, ok := s.pending.Get(cb.State); ok {
		req = v.(auth.FederatedRequest)
		s.pending.Delete(cb.State)
	}

	session, err := s.auth.CompleteFederated(r.Context(), req, cb)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, session)
	http.Redirect(w, r, "/console", http.StatusSeeOther)
}

// SignOutHandler ends the session and drops its console
func (s *Server) SignOutHandler(w http.ResponseWriter, r *http.Request, sess requestSession) {
	if err := s.auth.SignOut(r.Context(), sess.ID); err != nil {
		s.log.Warn().Err(err).Msg("sign-out was not persisted")
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func newSessionResponse(session auth.Session) sessionResponse {
	return sessionResponse{UID: session.Identity.UID, Email: session.Identity.Email, ExpiresAt: session.ExpiresAt}
}

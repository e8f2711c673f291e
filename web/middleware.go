/* middleware.go
 * Contains the session cookie middleware and the per identity chat rate limiter
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"race-control/api/auth"
	"race-control/api/console"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const signInMessage = "Please sign in."

// requestSession is the signed-in session a request was made with
type requestSession struct {
	auth.Session
	Console *console.Console
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess requestSession)

// withSession restores the session from its cookie and finds its console. Consoles lost to a restart are rebuilt
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, signInMessage)
			return
		}
		session, err := s.auth.Restore(r.Context(), cookie.Value)
		if err != nil {
			// Only a bad or signed-out token loses the cookie, a store outage keeps it for a retry
			if auth.CodeOf(err) == auth.CodeInvalidSession {
				s.clearSessionCookie(w)
			}
			s.writeAuthError(w, err)
			return
		}
		c := s.consoles.Ensure(r.Context(), session.ID, session.Identity)
		next(w, r, requestSession{Session: session, Console: c})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// limiterIdle is how long an identity's bucket is kept after its last message
const limiterIdle = 30 * time.Minute

// chatLimiter hands out one token bucket per identity
type chatLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *cache.Cache
}

func newChatLimiter(perSecond float64, burst int) *chatLimiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &chatLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		buckets: cache.New(limiterIdle, limiterIdle),
	}
}

// Allow reports whether uid may send a message now
func (l *chatLimiter) Allow(uid string) bool {
	l.mu.Lock()
	var limiter *rate.Limiter
	if v, ok := l.buckets.Get(uid); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// Setting again pushes the expiry out
	l.buckets.SetDefault(uid, limiter)
	l.mu.Unlock()
	return limiter.Allow()
}

/* manager.go
 * Contains the console manager. It keeps one console per browser session and follows the identity provider's
 * session events
 * Authors: Zachary Bower
 */

package console

import (
	"context"
	"race-control/api/api"
	"race-control/api/auth"
	"race-control/api/shared"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// resolveTimeout bounds the role and profile lookups made when a session signs in
const resolveTimeout = 10 * time.Second

// Manager owns the consoles of every live session
type Manager struct {
	api *api.API
	log zerolog.Logger

	mu       sync.Mutex
	consoles map[string]*managed
}

// managed is a console and a channel closed once its first sign-in has resolved
type managed struct {
	console *Console
	ready   chan struct{}
}

// NewManager creates an empty manager
func NewManager(a *api.API, log zerolog.Logger) *Manager {
	return &Manager{
		api:      a,
		log:      log,
		consoles: make(map[string]*managed),
	}
}

// HandleSessionEvent applies a sign-in or sign-out reported by the identity provider
func (m *Manager) HandleSessionEvent(event auth.SessionEvent) {
	if event.Identity == nil {
		m.Drop(event.SessionID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	m.Ensure(ctx, event.SessionID, *event.Identity)
}

// Ensure returns the console of a session, creating and signing it in when it does not exist yet. Sessions restored
// from a cookie after a restart come through here. Concurrent calls for a new session wait until it has been
// resolved, or until ctx is done
func (m *Manager) Ensure(ctx context.Context, sessionID string, identity shared.Identity) *Console {
	m.mu.Lock()
	entry, ok := m.consoles[sessionID]
	if !ok {
		entry = &managed{
			console: New(m.api, m.log.With().Str("session", sessionID).Logger()),
			ready:   make(chan struct{}),
		}
		m.consoles[sessionID] = entry
	}
	m.mu.Unlock()

	if !ok {
		entry.console.SignedIn(ctx, identity)
		close(entry.ready)
		return entry.console
	}

	select {
	case <-entry.ready:
	case <-ctx.Done():
		m.log.Warn().Str("session", sessionID).Msg("gave up waiting for session to resolve")
	}
	return entry.console
}

// Get returns the console of a session
func (m *Manager) Get(sessionID string) (*Console, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.consoles[sessionID]
	if !ok {
		return nil, false
	}
	return entry.console, true
}

// Drop signs a session out and releases its subscriptions
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	entry, ok := m.consoles[sessionID]
	delete(m.consoles, sessionID)
	m.mu.Unlock()

	if ok {
		entry.console.SignedOut()
		entry.console.Close()
	}
}

// Len returns the number of live consoles
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.consoles)
}

// Close releases every console
func (m *Manager) Close() {
	m.mu.Lock()
	consoles := m.consoles
	m.consoles = make(map[string]*managed)
	m.mu.Unlock()

	for _, entry := range consoles {
		entry.console.Close()
	}
}

/* models.go
 * This file contain the interfaces, structs and helper functions that are used by api consumers
 * Authors: Zachary Bower
 */

package api

import (
	"race-control/api/shared"
	"race-control/api/store"
)

// Route is the screen a resolved session should land on
type Route string

const (
	RouteLogin      Route = "login"
	RouteOnboarding Route = "onboarding"
	RouteDashboard  Route = "dashboard"
)

// SessionState is the result of resolving an identity
type SessionState struct {
	Identity shared.Identity
	Role     shared.Role
	Profile  *store.Profile
	Route    Route
}

// Viewer is the signed-in user an operation is performed for
type Viewer struct {
	Identity shared.Identity
	Role     shared.Role
	Profile  *store.Profile
}

// Viewer returns the viewer described by a resolved session
func (s SessionState) Viewer() Viewer {
	return Viewer{Identity: s.Identity, Role: s.Role, Profile: s.Profile}
}

// OnboardingInput is the form submitted from the onboarding screen
type OnboardingInput struct {
	Name    string `json:"name"`
	SteamID string `json:"steamId"`
	EAID    string `json:"eaId"`
}

// TicketInput is the form submitted from the create ticket screen
type TicketInput struct {
	AccusedID   string `json:"accusedId"`
	Session     string `json:"session"`
	Lap         string `json:"lap"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

// TicketView is a ticket with its message log
type TicketView struct {
	Ticket   store.Ticket        `json:"ticket"`
	Messages []store.ChatMessage `json:"messages"`
}

// ResultEvent is one event result reported by the scoring process
type ResultEvent struct {
	Season      string         `json:"season"`
	DriverID    string         `json:"driverId"`
	EventID     string         `json:"eventId"`
	Position    store.Position `json:"position"`
	TotalPoints int            `json:"totalPoints"`
}

const (
	// DefaultSession is used when a ticket is filed without a session label
	DefaultSession = "Race"
	// UnknownDriverName is used when the accused is not on the roster
	UnknownDriverName = "Unknown"

	SummonedMessage     = "DRIVER SUMMONED: Access granted."
	closedMessagePrefix = "TICKET CLOSED: "
)

// Notifier is told about ticket events, the Discord bot implements it
type Notifier interface {
	TicketCreated(ticket store.Ticket)
	TicketSummoned(ticket store.Ticket)
	TicketClosed(ticket store.Ticket)
}

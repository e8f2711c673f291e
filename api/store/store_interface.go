/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"time"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// Profiles
	GetProfile(ctx context.Context, email string) (Profile, error)
	CreateProfile(ctx context.Context, profile Profile) error
	UpdateProfileIDs(ctx context.Context, email string, steamID string, eaID string) error

	// Permissions
	IsAdmin(ctx context.Context, email string) (bool, error)
	IsStewardGranted(ctx context.Context, email string) (bool, error)

	// Roster
	CreateDriver(ctx context.Context, driver Driver) error
	ListDrivers(ctx context.Context) ([]Driver, error)
	RecordEventResult(ctx context.Context, driverID string, eventID string, position Position, totalPoints int) error

	// Tickets
	CreateTicket(ctx context.Context, ticket Ticket) error
	GetTicket(ctx context.Context, ticketID string) (Ticket, error)
	ListTickets(ctx context.Context) ([]Ticket, error)
	SummonAccused(ctx context.Context, ticketID string, accusedID string) (bool, error)
	CloseTicket(ctx context.Context, ticketID string, ruling string) error

	// Messages
	AppendMessage(ctx context.Context, message ChatMessage) error
	ListMessages(ctx context.Context, ticketID string) ([]ChatMessage, error)

	// Live subscriptions
	WatchDrivers(ctx context.Context, onChange func([]Driver), onError func(error)) (Subscription, error)
	WatchTickets(ctx context.Context, onChange func([]Ticket), onError func(error)) (Subscription, error)
	WatchMessages(ctx context.Context, ticketID string, onChange func([]ChatMessage), onError func(error)) (Subscription, error)

	// Accounts
	CreateAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, email string) (Account, error)

	// Sessions
	RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)

	// Getter methods for accessing fields
	GetSeason() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetSeason returns the season the roster collection belongs to
func (s *Store) GetSeason() string {
	return s.Season
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}

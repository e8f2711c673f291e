/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package and the packages built on top of it
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"race-control/api/store"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store Interface in memory for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Profiles      map[string]store.Profile
	Admins        map[string]bool
	StewardGrants map[string]bool
	Drivers       []store.Driver
	Tickets       map[string]store.Ticket
	Messages      map[string][]store.ChatMessage
	Accounts      map[string]store.Account
	Revoked       map[string]time.Time
	Season        string

	// Error injection for testing error paths
	GetProfileError        error
	CreateProfileError     error
	UpdateProfileError     error
	IsAdminError           error
	IsStewardGrantedError  error
	CreateDriverError      error
	ListDriversError       error
	RecordEventResultError error
	CreateTicketError      error
	GetTicketError         error
	ListTicketsError       error
	SummonAccusedError     error
	CloseTicketError       error
	AppendMessageError     error
	ListMessagesError      error
	RevokeSessionError     error
	IsRevokedError         error
	WatchError             error

	// GetProfileGate, when set, blocks GetProfile until it is closed
	GetProfileGate chan struct{}

	// Live subscriptions opened through the Watch methods
	DriverWatchers  []*MockWatch[store.Driver]
	TicketWatchers  []*MockWatch[store.Ticket]
	MessageWatchers []*MockWatch[store.ChatMessage]
}

// MockWatch is a subscription opened on a MockStore. Tests push snapshots through it
type MockWatch[T any] struct {
	mu       sync.Mutex
	TicketID string
	onChange func([]T)
	onError  func(error)
	closed   bool
}

// Push delivers a snapshot to the subscriber unless the subscription was closed
func (w *MockWatch[T]) Push(items []T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.onChange(items)
	}
}

// Fail delivers an error to the subscriber unless the subscription was closed
func (w *MockWatch[T]) Fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.onError(err)
	}
}

// Close stops the subscription
func (w *MockWatch[T]) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// Closed reports whether Close was called
func (w *MockWatch[T]) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// NewMockStore creates a new MockStore with default values
func NewMockStore(season string) *MockStore {
	return &MockStore{
		Profiles:      make(map[string]store.Profile),
		Admins:        make(map[string]bool),
		StewardGrants: make(map[string]bool),
		Drivers:       []store.Driver{},
		Tickets:       make(map[string]store.Ticket),
		Messages:      make(map[string][]store.ChatMessage),
		Accounts:      make(map[string]store.Account),
		Revoked:       make(map[string]time.Time),
		Season:        season,
	}
}

// GetProfile mock implementation
func (m *MockStore) GetProfile(ctx context.Context, email string) (store.Profile, error) {
	if m.GetProfileGate != nil {
		<-m.GetProfileGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfileError != nil {
		return store.Profile{}, m.GetProfileError
	}
	p, ok := m.Profiles[email]
	if !ok {
		return store.Profile{}, mongo.ErrNoDocuments
	}
	return p, nil
}

// CreateProfile mock implementation
func (m *MockStore) CreateProfile(ctx context.Context, profile store.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateProfileError != nil {
		return m.CreateProfileError
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	if _, ok := m.Profiles[profile.Email]; ok {
		return store.ErrDuplicate
	}
	m.Profiles[profile.Email] = profile
	return nil
}

// UpdateProfileIDs mock implementation
func (m *MockStore) UpdateProfileIDs(ctx context.Context, email string, steamID string, eaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateProfileError != nil {
		return m.UpdateProfileError
	}
	p, ok := m.Profiles[email]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.SteamID, p.EAID = steamID, eaID
	m.Profiles[email] = p
	return nil
}

// IsAdmin mock implementation
func (m *MockStore) IsAdmin(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsAdminError != nil {
		return false, m.IsAdminError
	}
	return m.Admins[email], nil
}

// IsStewardGranted mock implementation
func (m *MockStore) IsStewardGranted(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsStewardGrantedError != nil {
		return false, m.IsStewardGrantedError
	}
	return m.StewardGrants[email], nil
}

// CreateDriver mock implementation
func (m *MockStore) CreateDriver(ctx context.Context, driver store.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateDriverError != nil {
		return m.CreateDriverError
	}
	if err := driver.Validate(); err != nil {
		return err
	}
	for _, d := range m.Drivers {
		if d.ID == driver.ID {
			return store.ErrDuplicate
		}
	}
	m.Drivers = append(m.Drivers, driver)
	return nil
}

// ListDrivers mock implementation
func (m *MockStore) ListDrivers(ctx context.Context) ([]store.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListDriversError != nil {
		return nil, m.ListDriversError
	}
	out := make([]store.Driver, len(m.Drivers))
	copy(out, m.Drivers)
	return out, nil
}

// RecordEventResult mock implementation
func (m *MockStore) RecordEventResult(ctx context.Context, driverID string, eventID string, position store.Position, totalPoints int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordEventResultError != nil {
		return m.RecordEventResultError
	}
	for i := range m.Drivers {
		if m.Drivers[i].ID == driverID {
			if m.Drivers[i].Results == nil {
				m.Drivers[i].Results = make(map[string]store.EventResult)
			}
			m.Drivers[i].Results[eventID] = store.EventResult{Position: position}
			m.Drivers[i].TotalPoints = totalPoints
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

// CreateTicket mock implementation
func (m *MockStore) CreateTicket(ctx context.Context, ticket store.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateTicketError != nil {
		return m.CreateTicketError
	}
	if err := ticket.Validate(); err != nil {
		return err
	}
	if _, ok := m.Tickets[ticket.ID]; ok {
		return store.ErrDuplicate
	}
	ticket.AccessList = append([]string{}, ticket.AccessList...)
	m.Tickets[ticket.ID] = ticket
	return nil
}

// GetTicket mock implementation
func (m *MockStore) GetTicket(ctx context.Context, ticketID string) (store.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTicketError != nil {
		return store.Ticket{}, m.GetTicketError
	}
	t, ok := m.Tickets[ticketID]
	if !ok {
		return store.Ticket{}, mongo.ErrNoDocuments
	}
	t.AccessList = append([]string{}, t.AccessList...)
	return t, nil
}

// ListTickets mock implementation, newest first like the real store
func (m *MockStore) ListTickets(ctx context.Context) ([]store.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListTicketsError != nil {
		return nil, m.ListTicketsError
	}
	out := make([]store.Ticket, 0, len(m.Tickets))
	for _, t := range m.Tickets {
		t.AccessList = append([]string{}, t.AccessList...)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SummonAccused mock implementation with the same conditional semantics as the real store
func (m *MockStore) SummonAccused(ctx context.Context, ticketID string, accusedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SummonAccusedError != nil {
		return false, m.SummonAccusedError
	}
	t, ok := m.Tickets[ticketID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if t.Status == store.StatusClosed {
		return false, store.ErrTicketClosed
	}
	found := false
	for _, id := range t.AccessList {
		if id == accusedID {
			found = true
		}
	}
	changed := !found || t.Status != store.StatusInvestigating
	if !found {
		t.AccessList = append(t.AccessList, accusedID)
	}
	t.Status = store.StatusInvestigating
	m.Tickets[ticketID] = t
	return changed, nil
}

// CloseTicket mock implementation with the same conditional semantics as the real store
func (m *MockStore) CloseTicket(ctx context.Context, ticketID string, ruling string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CloseTicketError != nil {
		return m.CloseTicketError
	}
	if ruling == "" {
		return fmt.Errorf("ruling cannot be empty")
	}
	t, ok := m.Tickets[ticketID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if t.Status == store.StatusClosed {
		return store.ErrTicketClosed
	}
	t.Status = store.StatusClosed
	t.Ruling = &ruling
	m.Tickets[ticketID] = t
	return nil
}

// AppendMessage mock implementation
func (m *MockStore) AppendMessage(ctx context.Context, message store.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendMessageError != nil {
		return m.AppendMessageError
	}
	if strings.TrimSpace(message.Text) == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	m.Messages[message.TicketID] = append(m.Messages[message.TicketID], message)
	return nil
}

// ListMessages mock implementation
func (m *MockStore) ListMessages(ctx context.Context, ticketID string) ([]store.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMessagesError != nil {
		return nil, m.ListMessagesError
	}
	out := make([]store.ChatMessage, len(m.Messages[ticketID]))
	copy(out, m.Messages[ticketID])
	return out, nil
}

// WatchDrivers mock implementation. The subscription is recorded in DriverWatchers
func (m *MockStore) WatchDrivers(ctx context.Context, onChange func([]store.Driver), onError func(error)) (store.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	w := &MockWatch[store.Driver]{onChange: onChange, onError: onError}
	m.DriverWatchers = append(m.DriverWatchers, w)
	return w, nil
}

// WatchTickets mock implementation. The subscription is recorded in TicketWatchers
func (m *MockStore) WatchTickets(ctx context.Context, onChange func([]store.Ticket), onError func(error)) (store.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	w := &MockWatch[store.Ticket]{onChange: onChange, onError: onError}
	m.TicketWatchers = append(m.TicketWatchers, w)
	return w, nil
}

// WatchMessages mock implementation. The subscription is recorded in MessageWatchers
func (m *MockStore) WatchMessages(ctx context.Context, ticketID string, onChange func([]store.ChatMessage), onError func(error)) (store.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	w := &MockWatch[store.ChatMessage]{TicketID: ticketID, onChange: onChange, onError: onError}
	m.MessageWatchers = append(m.MessageWatchers, w)
	return w, nil
}

// CreateAccount mock implementation
func (m *MockStore) CreateAccount(ctx context.Context, account store.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Accounts[account.Email]; ok {
		return store.ErrDuplicate
	}
	m.Accounts[account.Email] = account
	return nil
}

// GetAccount mock implementation
func (m *MockStore) GetAccount(ctx context.Context, email string) (store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[email]
	if !ok {
		return store.Account{}, mongo.ErrNoDocuments
	}
	return a, nil
}

// RevokeSession mock implementation
func (m *MockStore) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeSessionError != nil {
		return m.RevokeSessionError
	}
	m.Revoked[sessionID] = expiresAt
	return nil
}

// IsSessionRevoked mock implementation
func (m *MockStore) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.Revoked[sessionID]
	return ok, nil
}

// GetSeason mock implementation
func (m *MockStore) GetSeason() string {
	return m.Season
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return nil
}

// Ensure MockStore implements the store Interface
var _ store.Interface = (*MockStore)(nil)

// LatestDriverWatch returns the most recent roster subscription, or nil
func (m *MockStore) LatestDriverWatch() *MockWatch[store.Driver] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.DriverWatchers) == 0 {
		return nil
	}
	return m.DriverWatchers[len(m.DriverWatchers)-1]
}

// LatestTicketWatch returns the most recent ticket subscription, or nil
func (m *MockStore) LatestTicketWatch() *MockWatch[store.Ticket] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.TicketWatchers) == 0 {
		return nil
	}
	return m.TicketWatchers[len(m.TicketWatchers)-1]
}

// LatestMessageWatch returns the most recent message subscription, or nil
func (m *MockStore) LatestMessageWatch() *MockWatch[store.ChatMessage] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.MessageWatchers) == 0 {
		return nil
	}
	return m.MessageWatchers[len(m.MessageWatchers)-1]
}

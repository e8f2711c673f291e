/* test_helpers_test.go
 * Contains fakes shared by the auth package tests
 * Authors: Zachary Bower
 */

package auth

import (
	"context"
	"race-control/api/store"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryAccounts is an in memory AccountStore
type memoryAccounts struct {
	mu        sync.Mutex
	accounts  map[string]store.Account
	revoked   map[string]time.Time
	getErr    error
	createErr error
	revokeErr error
	lookups   int
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: make(map[string]store.Account), revoked: make(map[string]time.Time)}
}

func (m *memoryAccounts) CreateAccount(ctx context.Context, account store.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.accounts[account.Email]; ok {
		return store.ErrDuplicate
	}
	m.accounts[account.Email] = account
	return nil
}

func (m *memoryAccounts) GetAccount(ctx context.Context, email string) (store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return store.Account{}, m.getErr
	}
	account, ok := m.accounts[email]
	if !ok {
		return store.Account{}, mongo.ErrNoDocuments
	}
	return account, nil
}

func (m *memoryAccounts) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.revoked[sessionID] = expiresAt
	return nil
}

func (m *memoryAccounts) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.getErr != nil {
		return false, m.getErr
	}
	_, ok := m.revoked[sessionID]
	return ok, nil
}

// fakeFederated records what it was asked for and returns canned claims
type fakeFederated struct {
	claims      FederatedClaims
	err         error
	gotCode     string
	gotVerifier string
	gotNonce    string
}

func (f *fakeFederated) AuthCodeURL(state string, nonce string, pkceVerifier string) string {
	return "https://issuer.example.com/authorize?state=" + state
}

func (f *fakeFederated) Exchange(ctx context.Context, code string, pkceVerifier string, nonce string) (FederatedClaims, error) {
	f.gotCode, f.gotVerifier, f.gotNonce = code, pkceVerifier, nonce
	return f.claims, f.err
}

func newTestProvider(t *testing.T, accounts AccountStore, federated FederatedClient) *Provider {
	t.Helper()
	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	return NewProvider(accounts, tokens, federated, zerolog.Nop())
}

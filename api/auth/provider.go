/* provider.go
 * Contains the identity provider: email/password accounts, federated sign-in, sign-out and the session change
 * stream that the consoles listen to
 * Authors: Zachary Bower
 */

package auth

import (
	"context"
	"errors"
	"net/mail"
	"race-control/api/shared"
	"race-control/api/store"
	"race-control/logger"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	// MinPasswordLength is the shortest password sign-up accepts
	MinPasswordLength = 6

	ProviderPassword = "password"
	ProviderOIDC     = "oidc"
)

// sessionCheckTTL is how long a session found not revoked is trusted before the store is asked again
const sessionCheckTTL = time.Minute

// AccountStore is the part of the store the provider needs: accounts and signed-out sessions
type AccountStore interface {
	CreateAccount(ctx context.Context, account store.Account) error
	GetAccount(ctx context.Context, email string) (store.Account, error)
	RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Session is a signed-in session
type Session struct {
	ID        string
	Identity  shared.Identity
	Token     string
	ExpiresAt time.Time
}

// SessionEvent is delivered to subscribers whenever a session signs in or out. Identity is nil on sign-out
type SessionEvent struct {
	SessionID string
	Identity  *shared.Identity
}

// FederatedRequest holds the one time values of a federated sign-in that must come back with the callback
type FederatedRequest struct {
	URL      string
	State    string
	Nonce    string
	Verifier string
}

// Provider is the identity provider
type Provider struct {
	accounts  AccountStore
	tokens    *Tokens
	federated FederatedClient
	// revoked caches revocation lookups by session id: true for signed out, false for checked and still valid
	revoked   *cache.Cache
	log       zerolog.Logger

	mu        sync.Mutex
	listeners map[int]func(SessionEvent)
	nextID    int
}

// NewProvider creates a Provider. federated may be nil, in which case federated sign-in is disabled
func NewProvider(accounts AccountStore, tokens *Tokens, federated FederatedClient, log zerolog.Logger) *Provider {
	return &Provider{
		accounts:  accounts,
		tokens:    tokens,
		federated: federated,
		revoked:   cache.New(tokens.TTL(), 10*time.Minute),
		log:       logger.Component(log, "auth"),
		listeners: make(map[int]func(SessionEvent)),
	}
}

// FederatedEnabled reports whether federated sign-in is configured
func (p *Provider) FederatedEnabled() bool {
	return p.federated != nil
}

// SignUp creates an email/password account and signs it in
// Preconditions: Receives context, email and password
// Postconditions: Returns the new Session, or an *Error if the email is invalid or taken or the password is too short
func (p *Provider) SignUp(ctx context.Context, email string, password string) (Session, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return Session{}, err
	}
	if len(password) < MinPasswordLength {
		return Session{}, newError(CodeWeakPassword, "password is too short", nil)
	}

	_, err = p.accounts.GetAccount(ctx, email)
	if err == nil {
		return Session{}, newError(CodeEmailInUse, "email is already registered", nil)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Session{}, classifyStoreError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, newError(CodeInternal, "could not hash password", err)
	}
	account := store.Account{
		Email:        email,
		UID:          uuid.NewString(),
		PasswordHash: string(hash),
		Provider:     ProviderPassword,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Session{}, newError(CodeEmailInUse, "email is already registered", nil)
		}
		return Session{}, classifyStoreError(err)
	}

	p.log.Info().Str("uid", account.UID).Msg("account created")
	return p.startSession(identityOf(account))
}

// SignIn signs in an email/password account
// Preconditions: Receives context, email and password
// Postconditions: Returns the Session, or an *Error with CodeInvalidCredential if the account or password do not match
func (p *Provider) SignIn(ctx context.Context, email string, password string) (Session, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return Session{}, newError(CodeInvalidCredential, "invalid email or password", nil)
	}

	account, err := p.accounts.GetAccount(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Session{}, newError(CodeInvalidCredential, "invalid email or password", nil)
		}
		return Session{}, classifyStoreError(err)
	}
	// Federated only accounts have no password
	if account.PasswordHash == "" {
		return Session{}, newError(CodeInvalidCredential, "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Session{}, newError(CodeWrongPassword, "invalid email or password", nil)
	}
	return p.startSession(identityOf(account))
}

// BeginFederated starts a federated sign-in
// Postconditions: Returns the login url and the one time values to keep until the callback, or an *Error if federated sign-in is disabled
func (p *Provider) BeginFederated() (FederatedRequest, error) {
	if p.federated == nil {
		return FederatedRequest{}, newError(CodeFederatedDisabled, "Federated sign-in is not enabled.", nil)
	}
	req := FederatedRequest{
		State:    uuid.NewString(),
		Nonce:    uuid.NewString(),
		Verifier: oauth2.GenerateVerifier(),
	}
	req.URL = p.federated.AuthCodeURL(req.State, req.Nonce, req.Verifier)
	return req, nil
}

// FederatedCallback is what the issuer redirects back with
type FederatedCallback struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

// CompleteFederated finishes a federated sign-in. The first sign-in for an email creates an account without a password
// Preconditions: Receives context, the FederatedRequest from BeginFederated and the callback parameters
// Postconditions: Returns the Session, or an *Error describing why sign-in failed
func (p *Provider) CompleteFederated(ctx context.Context, req FederatedRequest, cb FederatedCallback) (Session, error) {
	if p.federated == nil {
		return Session{}, newError(CodeFederatedDisabled, "Federated sign-in is not enabled.", nil)
	}
	if err := CallbackError(cb.Error, cb.ErrorDescription); err != nil {
		return Session{}, err
	}
	if req.State == "" || cb.State != req.State {
		return Session{}, newError(CodeInvalidCredential, "state mismatch", nil)
	}
	if cb.Code == "" {
		return Session{}, newError(CodeInternal, "Federated sign-in failed.", nil)
	}

	claims, err := p.federated.Exchange(ctx, cb.Code, req.Verifier, req.Nonce)
	if err != nil {
		return Session{}, err
	}

	// Without a verified email there is no account to key the identity on. The session still exists and is routed to login
	if claims.Email == "" || !claims.EmailVerified {
		p.log.Info().Str("sub", claims.Subject).Bool("hasEmail", claims.Email != "").Msg("federated sign-in without a verified email")
		return p.startSession(shared.Identity{UID: ProviderOIDC + ":" + claims.Subject, DisplayName: claims.Name, Provider: ProviderOIDC})
	}
	email, err := normaliseEmail(claims.Email)
	if err != nil {
		return Session{}, err
	}

	account, err := p.accounts.GetAccount(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		account = store.Account{
			Email:       email,
			UID:         uuid.NewString(),
			DisplayName: claims.Name,
			Provider:    ProviderOIDC,
			CreatedAt:   time.Now().UTC(),
		}
		err = p.accounts.CreateAccount(ctx, account)
		if errors.Is(err, store.ErrDuplicate) {
			// Another callback for the same email won, use its account
			account, err = p.accounts.GetAccount(ctx, email)
		}
	}
	if err != nil {
		return Session{}, classifyStoreError(err)
	}

	identity := identityOf(account)
	identity.Provider = ProviderOIDC
	if identity.DisplayName == "" {
		identity.DisplayName = claims.Name
	}
	return p.startSession(identity)
}

// Restore resumes a session from its token
// Preconditions: Receives context and the session token
// Postconditions: Returns the Session, an *Error with CodeInvalidSession if it is invalid, expired or signed out, or
// an *Error describing why the revocation check failed
func (p *Provider) Restore(ctx context.Context, token string) (Session, error) {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := p.isRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, newError(CodeInvalidSession, "session has been signed out", nil)
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return Session{ID: claims.ID, Identity: claims.Identity(), Token: token, ExpiresAt: expires}, nil
}

// isRevoked reads through the cache to the store
func (p *Provider) isRevoked(ctx context.Context, sessionID string) (bool, error) {
	if v, ok := p.revoked.Get(sessionID); ok {
		return v.(bool), nil
	}
	revoked, err := p.accounts.IsSessionRevoked(ctx, sessionID)
	if err != nil {
		return false, classifyStoreError(err)
	}
	if revoked {
		p.revoked.Set(sessionID, true, p.tokens.TTL())
	} else {
		p.revoked.Set(sessionID, false, sessionCheckTTL)
	}
	return revoked, nil
}

// SignOut ends a session. Its token is rejected by Restore from now on, across restarts
// Preconditions: Receives context and the session id
// Postconditions: The session is revoked in the cache and the store, or an *Error is returned if the store write failed.
// The cache and subscribers are updated either way
func (p *Provider) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	p.revoked.Set(sessionID, true, p.tokens.TTL())
	err := p.accounts.RevokeSession(ctx, sessionID, time.Now().UTC().Add(p.tokens.TTL()))
	if err != nil {
		p.log.Error().Err(err).Str("session", sessionID).Msg("failed to persist sign-out")
		err = classifyStoreError(err)
	}
	p.emit(SessionEvent{SessionID: sessionID})
	return err
}

// Subscribe registers fn to receive every session event. Events are delivered synchronously in subscription order
// Postconditions: Returns a function that removes the subscription
func (p *Provider) Subscribe(fn func(SessionEvent)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) emit(event SessionEvent) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(SessionEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.listeners[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (p *Provider) startSession(identity shared.Identity) (Session, error) {
	sid := uuid.NewString()
	token, expires, err := p.tokens.Issue(identity, sid)
	if err != nil {
		return Session{}, newError(CodeInternal, "could not start session", err)
	}
	p.emit(SessionEvent{SessionID: sid, Identity: &identity})
	return Session{ID: sid, Identity: identity, Token: token, ExpiresAt: expires}, nil
}

func identityOf(account store.Account) shared.Identity {
	return shared.Identity{
		UID:         account.UID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Provider:    account.Provider,
	}
}

func normaliseEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", newError(CodeInvalidEmail, "email address is invalid", err)
	}
	return email, nil
}

func classifyStoreError(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeNetwork, "could not reach the account store", err)
	}
	return newError(CodeInternal, err.Error(), err)
}

/* tokens.go
 * Contains the session token logic. A signed-in session is carried by an HS256 JWT holding the identity and a
 * session id, so sessions survive a server restart
 * Authors: Zachary Bower
 */

package auth

import (
	"fmt"
	"race-control/api/shared"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "race-control"

// Claims are the JWT claims of a session token. Subject is the identity uid and ID is the session id
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	Provider    string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identity the claims were issued for
func (c Claims) Identity() shared.Identity {
	return shared.Identity{
		UID:         c.Subject,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Provider:    c.Provider,
	}
}

// Tokens issues and verifies session tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens signer
// Preconditions: Receives a non empty secret and a positive ttl
// Postconditions: Returns the signer or an error if the parameters are invalid
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long an issued token is valid for
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for an identity and session id
// Preconditions: Receives the identity and session id
// Postconditions: Returns the signed token and its expiry, or an error if signing fails
func (t *Tokens) Issue(identity shared.Identity, sessionID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Provider:    identity.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.UID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error signing session token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its claims
// Preconditions: Receives a signed token
// Postconditions: Returns the Claims, or an *Error with CodeInvalidSession if the token is invalid or expired
func (t *Tokens) Parse(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, newError(CodeInvalidSession, "session is invalid or has expired", err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return Claims{}, newError(CodeInvalidSession, "session token is missing its subject", nil)
	}
	return claims, nil
}

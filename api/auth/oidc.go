/* oidc.go
 * Contains the federated sign-in client. It runs the OIDC authorization code flow with PKCE and a nonce against the
 * configured issuer and returns the verified claims of the signed-in user
 * Authors: Zachary Bower
 */

package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// FederatedClaims are the verified claims of a federated user
type FederatedClaims struct {
	Subject string
	Email   string
	// EmailVerified is the issuer's email_verified claim. An unverified email is not used to find an account
	EmailVerified bool
	Name          string
}

// FederatedClient is the part of the OIDC flow the Provider needs. This allows for mocking in tests
type FederatedClient interface {
	AuthCodeURL(state string, nonce string, pkceVerifier string) string
	Exchange(ctx context.Context, code string, pkceVerifier string, nonce string) (FederatedClaims, error)
}

// OIDCClient is a FederatedClient backed by an OIDC issuer
type OIDCClient struct {
	config   *oauth2.Config
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewOIDCClient runs OIDC discovery against the issuer
// Preconditions: Receives context, issuer url, client id, client secret and redirect url
// Postconditions: Returns the client, or an error if discovery fails
func NewOIDCClient(ctx context.Context, issuer string, clientID string, clientSecret string, redirectURL string) (*OIDCClient, error) {
	if issuer == "" || clientID == "" || redirectURL == "" {
		return nil, fmt.Errorf("oidc issuer, client id and redirect url are required")
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery failed: %w", err)
	}
	return &OIDCClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			RedirectURL:  redirectURL,
		},
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthCodeURL builds the issuer login url for a state, nonce and PKCE verifier
func (c *OIDCClient) AuthCodeURL(state string, nonce string, pkceVerifier string) string {
	return c.config.AuthCodeURL(
		state,
		oauth2.S256ChallengeOption(pkceVerifier),
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange swaps the authorization code for tokens and verifies the id token
// Preconditions: Receives context, the code from the callback, the PKCE verifier and nonce issued with the login url
// Postconditions: Returns the verified claims, or an *Error describing why sign-in failed
func (c *OIDCClient) Exchange(ctx context.Context, code string, pkceVerifier string, nonce string) (FederatedClaims, error) {
	tok, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(pkceVerifier))
	if err != nil {
		return FederatedClaims{}, classifyExchangeError(err)
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Nonce         string `json:"nonce"`
	}
	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		idt, err := c.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return FederatedClaims{}, newError(CodeInvalidCredential, "id token verification failed", err)
		}
		if err := idt.Claims(&claims); err != nil {
			return FederatedClaims{}, newError(CodeInternal, "could not read id token claims", err)
		}
		if claims.Nonce != nonce {
			return FederatedClaims{}, newError(CodeInvalidCredential, "nonce mismatch", nil)
		}
	} else {
		// Some issuers omit the id token, use /userinfo instead
		ui, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
		if err != nil {
			return FederatedClaims{}, classifyExchangeError(err)
		}
		if err := ui.Claims(&claims); err != nil {
			return FederatedClaims{}, newError(CodeInternal, "could not read userinfo claims", err)
		}
		claims.Sub = ui.Subject
		claims.Email = ui.Email
		claims.EmailVerified = ui.EmailVerified
	}

	if claims.Sub == "" {
		return FederatedClaims{}, newError(CodeInvalidCredential, "issuer returned no subject", nil)
	}
	return FederatedClaims{
		Subject:       claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

// classifyExchangeError maps token endpoint failures onto auth codes
func classifyExchangeError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return newError(CodeNetwork, "could not reach the identity provider", err)
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "redirect_uri_mismatch", "unauthorized_client", "invalid_client":
			return newError(CodeUnauthorizedDomain, "redirect url is not authorised", err)
		case "access_denied":
			return newError(CodeCancelled, "sign-in cancelled", err)
		}
	}
	return newError(CodeInternal, "Federated sign-in failed.", err)
}

// CallbackError maps the error query parameter an issuer redirects back with onto an auth error
func CallbackError(code string, description string) error {
	switch strings.TrimSpace(code) {
	case "":
		return nil
	case "access_denied", "login_required", "interaction_required":
		return newError(CodeCancelled, "sign-in cancelled", nil)
	case "unauthorized_client", "invalid_request_uri", "redirect_uri_mismatch":
		return newError(CodeUnauthorizedDomain, "redirect url is not authorised", nil)
	default:
		if description == "" {
			description = "Federated sign-in failed."
		}
		return newError(CodeInternal, description, nil)
	}
}

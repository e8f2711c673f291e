/* errors.go
 * Contains the identity provider's error type and the mapping from error codes to messages shown on the login screen
 * Authors: Zachary Bower
 */

package auth

import (
	"errors"
	"fmt"
)

// Code identifies why an auth operation failed
type Code string

const (
	CodeInvalidCredential  Code = "auth/invalid-credential"
	CodeWrongPassword      Code = "auth/wrong-password"
	CodeEmailInUse         Code = "auth/email-already-in-use"
	CodeWeakPassword       Code = "auth/weak-password"
	CodeInvalidEmail       Code = "auth/invalid-email"
	CodeNetwork            Code = "auth/network-request-failed"
	CodeUnauthorizedDomain Code = "auth/unauthorized-domain"
	CodeCancelled          Code = "auth/popup-closed-by-user"
	CodeInvalidSession     Code = "auth/invalid-session"
	CodeFederatedDisabled  Code = "auth/operation-not-allowed"
	CodeInternal           Code = "auth/internal-error"
)

// Error is returned by every Provider operation that fails
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the Code of an auth error, or "" if err is not one
func CodeOf(err error) Code {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

const domainErrorMessage = "Domain Error: This site's sign-in redirect is not registered with the identity provider. " +
	"Federated sign-in will work once the redirect URL is authorised. Please use Email/Password for now."

// UserMessage maps an auth error to the message shown to the user. Unmapped errors fall back to the raw message
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var authErr *Error
	if !errors.As(err, &authErr) {
		return err.Error()
	}
	switch authErr.Code {
	case CodeInvalidCredential, CodeWrongPassword:
		return "Invalid email or password."
	case CodeEmailInUse:
		return "Email already exists. Please switch to 'Sign In' tab."
	case CodeWeakPassword:
		return "Password must be at least 6 characters."
	case CodeNetwork:
		return "Network error. Check your connection."
	case CodeUnauthorizedDomain:
		return domainErrorMessage
	case CodeCancelled:
		return "Sign-in cancelled."
	default:
		return authErr.Message
	}
}

/* errors.go
 * Contains the sentinel errors returned by the API. None of them are fatal, callers show them to the user and carry on
 * Authors: Zachary Bower
 */

package api

import "errors"

var (
	ErrForbidden      = errors.New("you do not have permission to do that")
	ErrTicketClosed   = errors.New("ticket is closed")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrEmptyRuling    = errors.New("a ruling is required to close a ticket")
	ErrNoProfile      = errors.New("complete onboarding first")
	ErrProfileExists  = errors.New("profile already exists")
	ErrNoEmail        = errors.New("identity has no verified email")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDriverNotFound = errors.New("driver not found")
)

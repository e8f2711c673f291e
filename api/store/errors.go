/* errors.go
 * Contains the sentinel errors returned by the store. Not found lookups return mongo.ErrNoDocuments unwrapped so
 * callers can check with errors.Is
 * Authors: Zachary Bower
 */

package store

import "errors"

var (
	// ErrTicketClosed is returned when a conditional ticket update finds the ticket already closed
	ErrTicketClosed = errors.New("ticket is closed")
	// ErrDuplicate is returned when a document with the same key already exists
	ErrDuplicate = errors.New("document already exists")
)

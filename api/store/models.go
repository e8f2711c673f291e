/* models.go
 * This file contain the structs and helper functions that relate to DB objects. Field names follow the document
 * shapes used by the league's existing data so that old documents decode without migration
 * Authors: Zachary Bower
 */

package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Profile is a driver's personal details, keyed by email
type Profile struct {
	Email     string    `bson:"_id" json:"email"`
	Name      string    `bson:"name" json:"name"`
	SteamID   string    `bson:"steamId" json:"steamId"`
	EAID      string    `bson:"eaId" json:"eaId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Validate checks the fields that every stored profile must carry
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("profile email cannot be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	return nil
}

// AdminRecord lives in the Admin collection. Absence means no privilege
type AdminRecord struct {
	Email string `bson:"_id"`
	Admin bool   `bson:"admin"`
}

// StewardGrant lives in the Driver_permissions collection. Absence means no privilege
type StewardGrant struct {
	Email   string `bson:"_id"`
	Steward bool   `bson:"steward"`
}

// Position is a finishing position. 0 means unclassified (DNF, DSQ, missing).
// Older documents store the position as text, newer ones as a number; both decode to the same value.
type Position int

// ParsePosition converts a text position such as "1" or " 3 " into a Position, anything else is unclassified
func ParsePosition(s string) Position {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return clampPosition(int64(n))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return clampPosition(int64(f))
	}
	return 0
}

// UnmarshalBSONValue accepts string, integer and double encodings of a position
func (p *Position) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*p = ParsePosition(raw.StringValue())
	case bsontype.Int32:
		*p = clampPosition(int64(raw.Int32()))
	case bsontype.Int64:
		*p = clampPosition(raw.Int64())
	case bsontype.Double:
		*p = clampPosition(int64(raw.Double()))
	case bsontype.Null, bsontype.Undefined:
		*p = 0
	default:
		return fmt.Errorf("unsupported bson type %s for position", t)
	}
	return nil
}

// MarshalBSONValue always writes the position as an int32
func (p Position) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(int32(p))
}

// UnmarshalJSON accepts both "1" and 1
func (p *Position) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = ParsePosition(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid position %s", string(data))
	}
	*p = ParsePosition(s)
	return nil
}

func clampPosition(n int64) Position {
	if n < 0 {
		return 0
	}
	return Position(n)
}

// EventResult is a driver's result for a single event
type EventResult struct {
	Position Position `bson:"position" json:"position"`
}

// Driver is a roster entry for a season, keyed by the identity's uid
type Driver struct {
	ID          string                 `bson:"_id" json:"id"`
	Name        string                 `bson:"name" json:"name"`
	Team        string                 `bson:"team" json:"team"`
	TotalPoints int                    `bson:"totalPoints" json:"totalPoints"`
	Results     map[string]EventResult `bson:"results,omitempty" json:"results,omitempty"`
	Role        string                 `bson:"role,omitempty" json:"role,omitempty"`
}

// Validate checks the fields required to place a driver in the standings
func (d Driver) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("driver id cannot be empty")
	}
	return nil
}

// TicketStatus is the workflow state of a ticket
type TicketStatus string

const (
	StatusOpen          TicketStatus = "Open"
	StatusInvestigating TicketStatus = "Investigating"
	StatusClosed        TicketStatus = "Closed"
)

// Valid reports whether s is one of the known ticket states
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusClosed:
		return true
	}
	return false
}

// Ticket is a dispute filed by a reporter against an accused driver. Chat messages are stored separately in
// the ticket_messages collection
type Ticket struct {
	ID           string       `bson:"_id" json:"id"`
	ReporterID   string       `bson:"reporterId" json:"reporterId"`
	ReporterName string       `bson:"reporterName" json:"reporterName"`
	AccusedID    string       `bson:"accusedId" json:"accusedId"`
	AccusedName  string       `bson:"accusedName" json:"accusedName"`
	Session      string       `bson:"session" json:"session"`
	Lap          string       `bson:"lap" json:"lap"`
	Description  string       `bson:"description" json:"description"`
	Evidence     string       `bson:"evidence" json:"evidence"`
	Status       TicketStatus `bson:"status" json:"status"`
	Ruling       *string      `bson:"ruling" json:"ruling"`
	AccessList   []string     `bson:"accessList" json:"accessList"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
}

// Validate checks a ticket read from or about to be written to the db
func (t Ticket) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("ticket id cannot be empty")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("ticket %s has unknown status %q", t.ID, t.Status)
	}
	if t.ReporterID == "" {
		return fmt.Errorf("ticket %s has no reporter", t.ID)
	}
	return nil
}

// ChatMessage is a single entry in a ticket's message log
type ChatMessage struct {
	ID         string    `bson:"_id" json:"id"`
	TicketID   string    `bson:"ticketId" json:"ticketId"`
	SenderID   string    `bson:"senderId" json:"senderId"`
	SenderName string    `bson:"senderName" json:"senderName"`
	Text       string    `bson:"text" json:"text"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// Account holds the credentials for an identity
type Account struct {
	Email        string    `bson:"_id"`
	UID          string    `bson:"uid"`
	DisplayName  string    `bson:"displayName,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty"`
	Provider     string    `bson:"provider"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// RevokedSession marks a signed-out session. ExpiresAt drives the TTL index
type RevokedSession struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

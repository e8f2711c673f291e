/* tickets.go
 * Contains the methods for interacting with the tickets collection. Status changes are conditional updates so a
 * closed ticket cannot be reopened or changed even if two stewards act at the same time
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateTicket stores a new ticket
// Preconditions: Receives context and a Ticket that passes Validate
// Postconditions: Inserts the ticket or returns an error if it occurs
func (s *Store) CreateTicket(ctx context.Context, ticket Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}
	if ticket.AccessList == nil {
		ticket.AccessList = []string{}
	}
	_, err := s.Collections.Tickets.InsertOne(ctx, ticket)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// GetTicket does DB lookup for a single ticket
// Preconditions: Receives context and ticket id
// Postconditions: Returns the Ticket, mongo.ErrNoDocuments if it does not exist, or another error if it occurs
func (s *Store) GetTicket(ctx context.Context, ticketID string) (Ticket, error) {
	var ticket Ticket
	err := s.Collections.Tickets.FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Ticket{}, err
		}
		return Ticket{}, fmt.Errorf("error fetching ticket from db: %w", err)
	}
	if err := ticket.Validate(); err != nil {
		return Ticket{}, fmt.Errorf("stored ticket is invalid: %w", err)
	}
	return ticket, nil
}

// ListTickets gets every ticket, newest first. Invalid documents are skipped and logged
// Preconditions: Receives context
// Postconditions: Returns slice of Tickets sorted by createdAt descending, or an error if the query failed
func (s *Store) ListTickets(ctx context.Context) ([]Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.Collections.Tickets.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching tickets from db: %w", err)
	}
	defer cursor.Close(ctx)

	tickets := []Ticket{}
	for cursor.Next(ctx) {
		var t Ticket
		if err := cursor.Decode(&t); err != nil {
			s.Log.Warn().Err(err).Msg("skipping ticket that failed to decode")
			continue
		}
		if err := t.Validate(); err != nil {
			s.Log.Warn().Err(err).Msg("skipping invalid ticket")
			continue
		}
		tickets = append(tickets, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error reading tickets cursor: %w", err)
	}
	return tickets, nil
}

// SummonAccused grants the accused driver access to the ticket and moves it to Investigating. The access list is
// treated as a set, so summoning twice leaves a single entry
// Preconditions: Receives context, ticket id and the accused driver's id
// Postconditions: Updates the ticket and returns true if the document changed. Returns ErrTicketClosed if it is closed,
// mongo.ErrNoDocuments if it does not exist, or another error
func (s *Store) SummonAccused(ctx context.Context, ticketID string, accusedID string) (bool, error) {
	update := bson.M{
		"$addToSet": bson.M{"accessList": accusedID},
		"$set":      bson.M{"status": StatusInvestigating},
	}
	return s.updateOpenTicket(ctx, ticketID, update)
}

// CloseTicket closes a ticket with a ruling
// Preconditions: Receives context, ticket id and non empty ruling
// Postconditions: Updates the ticket, returns ErrTicketClosed if it is already closed, mongo.ErrNoDocuments if it does not exist, or another error
func (s *Store) CloseTicket(ctx context.Context, ticketID string, ruling string) error {
	if ruling == "" {
		return fmt.Errorf("ruling cannot be empty")
	}
	update := bson.M{"$set": bson.M{"status": StatusClosed, "ruling": ruling}}
	_, err := s.updateOpenTicket(ctx, ticketID, update)
	return err
}

// updateOpenTicket applies update only while the ticket is not closed and works out why nothing matched.
// The bool reports whether the matched document was modified
func (s *Store) updateOpenTicket(ctx context.Context, ticketID string, update bson.M) (bool, error) {
	filter := bson.M{"_id": ticketID, "status": bson.M{"$ne": StatusClosed}}
	res, err := s.Collections.Tickets.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update ticket: %w", err)
	}
	if res.MatchedCount > 0 {
		return res.ModifiedCount > 0, nil
	}

	// Nothing matched, either the ticket is missing or it is closed
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return false, err
	}
	return false, ErrTicketClosed
}

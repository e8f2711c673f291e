/* messages.go
 * Contains the methods for interacting with the ticket_messages collection. Each message is its own document so
 * two people posting at the same time can never overwrite each other's messages
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppendMessage adds a message to a ticket's message log
// Preconditions: Receives context and ChatMessage with id, ticket id and non empty text
// Postconditions: Inserts the message or returns an error if it occurs
func (s *Store) AppendMessage(ctx context.Context, message ChatMessage) error {
	if message.ID == "" || message.TicketID == "" {
		return fmt.Errorf("message id and ticket id are required")
	}
	if strings.TrimSpace(message.Text) == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	_, err := s.Collections.Messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages gets the message log for a ticket, oldest first
// Preconditions: Receives context and ticket id
// Postconditions: Returns slice of ChatMessages (empty if there are none), or an error if it occurs
func (s *Store) ListMessages(ctx context.Context, ticketID string) ([]ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.Collections.Messages.Find(ctx, bson.M{"ticketId": ticketID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages from db: %w", err)
	}

	messages := []ChatMessage{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of messages: %w", err)
	}
	return messages, nil
}

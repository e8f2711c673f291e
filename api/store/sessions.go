/* sessions.go
 * Contains the methods for interacting with the revoked_sessions collection. A signed-out session id is kept until
 * its token would have expired anyway, after which the TTL index removes it
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RevokeSession records a signed-out session
// Preconditions: Receives context, the session id and the time its token expires
// Postconditions: Upserts the revocation, or returns an error if it occurs
func (s *Store) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	_, err := s.Collections.RevokedSessions.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{"expiresAt": expiresAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsSessionRevoked checks if a session has been signed out
// Preconditions: Receives context and the session id
// Postconditions: Returns true if a revocation exists, false if not, or an error if it occurs
func (s *Store) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	var revoked RevokedSession
	err := s.Collections.RevokedSessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&revoked)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("error fetching revoked session from db: %w", err)
	}
	return true, nil
}

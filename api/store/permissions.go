/* permissions.go
 * Contains the methods for reading the Admin and Driver_permissions collections. Both are read only from this service
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsAdmin checks the Admin collection for a global admin record
// Preconditions: Receives context and email string
// Postconditions: Returns true if a record exists with admin set to true, false if it is missing or false, or an error if the lookup failed
func (s *Store) IsAdmin(ctx context.Context, email string) (bool, error) {
	var rec AdminRecord
	err := s.Collections.Admins.FindOne(ctx, bson.M{"_id": email}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("admin lookup failed: %w", err)
	}
	return rec.Admin, nil
}

// IsStewardGranted checks the Driver_permissions collection for a steward grant
// Preconditions: Receives context and email string
// Postconditions: Returns true if a record exists with steward set to true, false if it is missing or false, or an error if the lookup failed
func (s *Store) IsStewardGranted(ctx context.Context, email string) (bool, error) {
	var rec StewardGrant
	err := s.Collections.StewardGrants.FindOne(ctx, bson.M{"_id": email}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("steward permission lookup failed: %w", err)
	}
	return rec.Steward, nil
}

/* profiles.go
 * Contains the methods for interacting with the profiles collection
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

// GetProfile does DB lookup and gets the profile stored for an email
// Preconditions: Receives context and email string
// Postconditions: Returns the Profile if it exists, mongo.ErrNoDocuments if it does not, or another error if it occurs
func (s *Store) GetProfile(ctx context.Context, email string) (Profile, error) {
	var profile Profile
	err := s.Collections.Profiles.FindOne(ctx, bson.M{"_id": email}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Profile{}, err
		}
		return Profile{}, fmt.Errorf("error fetching profile from db: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("stored profile is invalid: %w", err)
	}
	return profile, nil
}

// CreateProfile stores a new profile
// Preconditions: Receives context and a Profile with at least email and name set
// Postconditions: Inserts the profile, returns ErrDuplicate if one already exists for the email, or another error if it occurs
func (s *Store) CreateProfile(ctx context.Context, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	_, err := s.Collections.Profiles.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// UpdateProfileIDs updates the two external platform identifiers on a profile. No other field can be changed
// Preconditions: Receives context, email of the profile owner, and the new steam and EA ids
// Postconditions: Updates the profile, returns mongo.ErrNoDocuments if it does not exist, or another error if it occurs
func (s *Store) UpdateProfileIDs(ctx context.Context, email string, steamID string, eaID string) error {
	update := bson.M{"$set": bson.M{"steamId": steamID, "eaId": eaID}}
	res, err := s.Collections.Profiles.UpdateOne(ctx, bson.M{"_id": email}, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

/* accounts.go
 * Contains the methods for interacting with the accounts collection used by the identity provider
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

// CreateAccount stores a new account
// Preconditions: Receives context and an Account with email and uid set
// Postconditions: Inserts the account, returns ErrDuplicate if the email is taken, or another error if it occurs
func (s *Store) CreateAccount(ctx context.Context, account Account) error {
	if account.Email == "" || account.UID == "" {
		return fmt.Errorf("account email and uid are required")
	}
	_, err := s.Collections.Accounts.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount does DB lookup for the account registered to an email
// Preconditions: Receives context and email
// Postconditions: Returns the Account, mongo.ErrNoDocuments if it does not exist, or another error if it occurs
func (s *Store) GetAccount(ctx context.Context, email string) (Account, error) {
	var account Account
	err := s.Collections.Accounts.FindOne(ctx, bson.M{"_id": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Account{}, err
		}
		return Account{}, fmt.Errorf("error fetching account from db: %w", err)
	}
	return account, nil
}

/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into one file per
 * collection: profiles, permissions, drivers, tickets, messages and accounts. subscriptions.go contains the live
 * subscription logic shared by the collections that are watched
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"race-control/logger"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. These mirror the document paths used by the league: profiles/{email}, Admin/{email},
// Driver_permissions/{email}, seasons/{season}/drivers/{uid} and tickets/{id}
const (
	ProfilesCollection      = "profiles"
	AdminCollection         = "Admin"
	StewardGrantsCollection = "Driver_permissions"
	TicketsCollection       = "tickets"
	MessagesCollection      = "ticket_messages"
	AccountsCollection      = "accounts"
	RevokedCollection       = "revoked_sessions"
)

// DriversCollection returns the roster collection name for a season
func DriversCollection(season string) string {
	return fmt.Sprintf("seasons.%s.drivers", season)
}

type Collections struct {
	Profiles      *mongo.Collection
	Admins        *mongo.Collection
	StewardGrants *mongo.Collection
	Drivers       *mongo.Collection
	Tickets       *mongo.Collection
	Messages      *mongo.Collection
	Accounts      *mongo.Collection

	// RevokedSessions holds signed-out session ids
	RevokedSessions *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Season      string
	Log         zerolog.Logger
	Collections Collections
}

// Function for initialising Store. Connects to the db and sets the collection values
// Preconditions: Receives context used for connecting, strings containing dbName, mongoURI and season, and a logger
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string, season string, log zerolog.Logger) (*Store, error) {
	if dbName == "" || season == "" {
		return nil, fmt.Errorf("dbName or season cannot be empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return newStoreFromDatabase(client, client.Database(dbName), season, log), nil
}

func newStoreFromDatabase(client *mongo.Client, db *mongo.Database, season string, log zerolog.Logger) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Season:   season,
		Log:      logger.Component(log, "store"),
		Collections: Collections{
			Profiles:      db.Collection(ProfilesCollection),
			Admins:        db.Collection(AdminCollection),
			StewardGrants: db.Collection(StewardGrantsCollection),
			Drivers:       db.Collection(DriversCollection(season)),
			Tickets:       db.Collection(TicketsCollection),
			Messages:      db.Collection(MessagesCollection),
			Accounts:      db.Collection(AccountsCollection),

			RevokedSessions: db.Collection(RevokedCollection),
		},
	}
}

// EnsureIndexes creates the indexes the store relies on. Safe to run on every start up
// Preconditions: Receives context
// Postconditions: Indexes exist on the messages, tickets, accounts and revoked_sessions collections, or an error is returned
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Collections.Messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ticketId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create message index: %w", err)
	}

	_, err = s.Collections.Tickets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create ticket index: %w", err)
	}

	_, err = s.Collections.Accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create account index: %w", err)
	}

	_, err = s.Collections.RevokedSessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create revoked session index: %w", err)
	}
	return nil
}

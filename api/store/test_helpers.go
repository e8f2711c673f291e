/* test_helpers.go
 * Contains test helper functions and sample data for store package tests and the packages built on top of it
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewTestStore wraps an existing client and database, used with mtest mock clients or a real test database
func NewTestStore(client *mongo.Client, db *mongo.Database, season string) *Store {
	return newStoreFromDatabase(client, db, season, zerolog.Nop())
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function that drops the database.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore(context.TODO(), "test_race_control", mongoURI, "test_season", zerolog.Nop())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			store.Database.Drop(context.TODO())
			store.Client.Disconnect(context.TODO())
		}
	}
	return store, cleanup, nil
}

// CreateSampleDrivers creates a small roster for testing. D1 and D2 are on team A, D3 on team B
func CreateSampleDrivers() []Driver {
	return []Driver{
		{ID: "d1", Name: "Driver One", Team: "A", TotalPoints: 10, Results: map[string]EventResult{
			"race1": {Position: 1},
			"race2": {Position: 2},
		}},
		{ID: "d2", Name: "Driver Two", Team: "A", TotalPoints: 5},
		{ID: "d3", Name: "Driver Three", Team: "B", TotalPoints: 20},
	}
}

// CreateSampleTicket creates an open ticket filed by reporterID against accusedID
func CreateSampleTicket(id string, reporterID string, accusedID string) Ticket {
	return Ticket{
		ID:           id,
		ReporterID:   reporterID,
		ReporterName: "Reporter " + reporterID,
		AccusedID:    accusedID,
		AccusedName:  "Accused " + accusedID,
		Session:      "Race",
		Lap:          "12",
		Description:  "Divebomb into turn 1",
		Evidence:     "https://example.com/clip",
		Status:       StatusOpen,
		AccessList:   []string{reporterID},
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

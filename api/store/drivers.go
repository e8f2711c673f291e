/* drivers.go
 * Contains the methods for interacting with the season roster collection (seasons.{season}.drivers)
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateDriver stores a new roster entry for the season
// Preconditions: Receives context and a Driver with its id set to the identity uid
// Postconditions: Inserts the driver, returns ErrDuplicate if the uid already has an entry, or another error if it occurs
func (s *Store) CreateDriver(ctx context.Context, driver Driver) error {
	if err := driver.Validate(); err != nil {
		return err
	}
	_, err := s.Collections.Drivers.InsertOne(ctx, driver)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert driver: %w", err)
	}
	return nil
}

// ListDrivers gets every roster entry for the season. Documents that fail to decode or validate are skipped and logged
// so that one bad entry does not hide the rest of the standings
// Preconditions: Receives context
// Postconditions: Returns slice of Drivers in the order the db returned them, or an error if the query failed
func (s *Store) ListDrivers(ctx context.Context) ([]Driver, error) {
	cursor, err := s.Collections.Drivers.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error fetching drivers from db: %w", err)
	}
	defer cursor.Close(ctx)

	drivers := []Driver{}
	for cursor.Next(ctx) {
		var d Driver
		if err := cursor.Decode(&d); err != nil {
			s.Log.Warn().Err(err).Msg("skipping roster entry that failed to decode")
			continue
		}
		if err := d.Validate(); err != nil {
			s.Log.Warn().Err(err).Msg("skipping invalid roster entry")
			continue
		}
		drivers = append(drivers, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error reading drivers cursor: %w", err)
	}
	return drivers, nil
}

// RecordEventResult stores an event result for a driver along with the driver's new points total. Points are
// calculated by the scoring process, this only records them
// Preconditions: Receives context, driver id, event id, finishing position and the driver's total points after the event
// Postconditions: Updates the driver document, returns mongo.ErrNoDocuments if the driver does not exist, or an error if it occurs
func (s *Store) RecordEventResult(ctx context.Context, driverID string, eventID string, position Position, totalPoints int) error {
	if eventID == "" || strings.ContainsAny(eventID, ".$") {
		return fmt.Errorf("invalid event id %q", eventID)
	}
	update := bson.M{"$set": bson.M{
		"results." + eventID: EventResult{Position: position},
		"totalPoints":        totalPoints,
	}}
	res, err := s.Collections.Drivers.UpdateOne(ctx, bson.M{"_id": driverID}, update)
	if err != nil {
		return fmt.Errorf("failed to record event result: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

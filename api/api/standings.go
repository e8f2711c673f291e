/* standings.go
 * Contains the standings and roster operations
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"race-control/api/logic"
	"race-control/api/store"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Standings builds the current championship tables
// Preconditions: Receives context
// Postconditions: Returns the Standings, or an error if the roster could not be read
func (a *API) Standings(ctx context.Context) (logic.Standings, error) {
	drivers, err := a.Store.ListDrivers(ctx)
	if err != nil {
		return logic.Standings{}, err
	}
	return logic.BuildStandings(drivers, a.Colors), nil
}

// FindDriver looks up a roster entry by a name typed by a user
// Preconditions: Receives context and the typed name
// Postconditions: Returns the closest matching Driver, ErrDriverNotFound if nothing matches, or an error if the roster could not be read
func (a *API) FindDriver(ctx context.Context, name string) (store.Driver, error) {
	drivers, err := a.Store.ListDrivers(ctx)
	if err != nil {
		return store.Driver{}, err
	}
	driver, ok := logic.MatchDriver(name, drivers)
	if !ok {
		return store.Driver{}, ErrDriverNotFound
	}
	return driver, nil
}

// RecordResult stores an event result from the scoring process. Results for other seasons are ignored
// Preconditions: Receives context and the ResultEvent
// Postconditions: Returns true if the result was recorded, false if it was for another season, or an error if it occurs
func (a *API) RecordResult(ctx context.Context, event ResultEvent) (bool, error) {
	if event.Season != a.Store.GetSeason() {
		a.Log.Debug().Str("season", event.Season).Msg("ignoring result for another season")
		return false, nil
	}
	if event.DriverID == "" || event.EventID == "" {
		return false, fmt.Errorf("%w: driver id and event id are required", ErrInvalidInput)
	}
	if strings.ContainsAny(event.EventID, ".$") {
		return false, fmt.Errorf("%w: event id cannot contain '.' or '$'", ErrInvalidInput)
	}
	if event.TotalPoints < 0 {
		return false, fmt.Errorf("%w: total points cannot be negative", ErrInvalidInput)
	}

	err := a.Store.RecordEventResult(ctx, event.DriverID, event.EventID, event.Position, event.TotalPoints)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrDriverNotFound
		}
		return false, err
	}
	a.Metrics.ResultIngested()
	a.Log.Info().Str("driver", event.DriverID).Str("event", event.EventID).Int("position", int(event.Position)).Msg("result recorded")
	return true, nil
}

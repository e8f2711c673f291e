/* api.go
 * This file contains the public methods for interacting with this package. For consistent results, functions should
 * only be called from this package, not the store and logic sub packages directly
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"race-control/api/logic"
	"race-control/api/metrics"
	"race-control/api/store"
	"race-control/logger"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// API provides methods for interacting with the league data layer
type API struct {
	Store    store.Interface
	Log      zerolog.Logger
	Notifier Notifier
	Metrics  *metrics.Metrics
	Colors   logic.TeamColors

	now   func() time.Time
	// newID ids are time ordered so messages written in the same millisecond keep their order
	newID func() string
}

// NewAPI connects to the db and creates a new API instance
// Preconditions: Receives context, db name, mongo uri, season and logger
// Postconditions: Returns the API, or an error if the store could not be created or its indexes could not be built
func NewAPI(ctx context.Context, dbName string, mongoURI string, season string, log zerolog.Logger) (*API, error) {
	if dbName == "" || season == "" {
		return nil, fmt.Errorf("dbName and season are required")
	}

	s, err := store.NewStore(ctx, dbName, mongoURI, season, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return New(s, log), nil
}

// New creates an API on top of an existing store, used by tests and by callers that build the store themselves
func New(s store.Interface, log zerolog.Logger) *API {
	return &API{
		Store:  s,
		Log:    logger.Component(log, "api"),
		Colors: logic.DefaultTeamColors(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  orderedID,
	}
}

// orderedID returns a UUIDv7. Ids from one process increase strictly, even within a millisecond
func orderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

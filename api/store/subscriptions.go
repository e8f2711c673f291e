/* subscriptions.go
 * Contains the live subscription logic. A subscription opens a change stream on a collection and, on every change,
 * re-reads the full result set and pushes it to the subscriber. Change streams require the db to run as a replica set
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Subscription is a running live query. Close stops it and waits for the last push to finish
type Subscription interface {
	Close()
}

type watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (w *watcher) Close() {
	w.once.Do(w.cancel)
	<-w.done
}

// changeStream is the part of *mongo.ChangeStream used by run, split out so the loop can be tested
type changeStream interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// watch opens a change stream on coll and calls reload once straight away and again after every change event.
// Errors from reload or the stream go to onError and the previous snapshot is left with the subscriber
func (s *Store) watch(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, reload func(context.Context) error, onError func(error)) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := coll.Watch(ctx, pipeline)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream on %s: %w", coll.Name(), err)
	}
	return startWatcher(ctx, cancel, stream, reload, onError), nil
}

func startWatcher(ctx context.Context, cancel context.CancelFunc, stream changeStream, reload func(context.Context) error, onError func(error)) *watcher {
	w := &watcher{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		defer stream.Close(context.Background())

		if err := reload(ctx); err != nil && ctx.Err() == nil {
			onError(err)
		}
		for stream.Next(ctx) {
			if err := reload(ctx); err != nil && ctx.Err() == nil {
				onError(err)
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onError(fmt.Errorf("change stream stopped: %w", err))
		}
	}()
	return w
}

// WatchDrivers subscribes to the season roster
// Preconditions: Receives context, a callback for each full roster snapshot and a callback for errors
// Postconditions: Returns a running Subscription, or an error if the change stream could not be opened
func (s *Store) WatchDrivers(ctx context.Context, onChange func([]Driver), onError func(error)) (Subscription, error) {
	return s.watch(ctx, s.Collections.Drivers, mongo.Pipeline{}, func(ctx context.Context) error {
		drivers, err := s.ListDrivers(ctx)
		if err != nil {
			return err
		}
		onChange(drivers)
		return nil
	}, onError)
}

// WatchTickets subscribes to every ticket, newest first
// Preconditions: Receives context, a callback for each full ticket snapshot and a callback for errors
// Postconditions: Returns a running Subscription, or an error if the change stream could not be opened
func (s *Store) WatchTickets(ctx context.Context, onChange func([]Ticket), onError func(error)) (Subscription, error) {
	return s.watch(ctx, s.Collections.Tickets, mongo.Pipeline{}, func(ctx context.Context) error {
		tickets, err := s.ListTickets(ctx)
		if err != nil {
			return err
		}
		onChange(tickets)
		return nil
	}, onError)
}

// WatchMessages subscribes to the message log of one ticket. Messages are insert only so the stream only needs to
// match inserts for the ticket
// Preconditions: Receives context, ticket id, a callback for each full message snapshot and a callback for errors
// Postconditions: Returns a running Subscription, or an error if the change stream could not be opened
func (s *Store) WatchMessages(ctx context.Context, ticketID string, onChange func([]ChatMessage), onError func(error)) (Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fullDocument.ticketId": ticketID}}},
	}
	return s.watch(ctx, s.Collections.Messages, pipeline, func(ctx context.Context) error {
		messages, err := s.ListMessages(ctx, ticketID)
		if err != nil {
			return err
		}
		onChange(messages)
		return nil
	}, onError)
}

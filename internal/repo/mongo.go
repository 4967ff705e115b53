// Package repo implements the data persistence layer for domain entities,
// backed by the official MongoDB driver. This file contains store
// bootstrapping: client construction, liveness pings, and index creation.
//
// The Store handle is created once at startup and injected everywhere it is
// needed; it is never reinitialized mid-process. When the connection string
// is absent or the initial connect fails, the caller keeps a nil *Store and
// the HTTP layer degrades to health checks only.
package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
)

// ErrNotFound is returned when a requested document does not exist.
// It aliases mongo.ErrNoDocuments for convenience and consistency across
// the service layer and handlers.
var ErrNotFound = mongo.ErrNoDocuments

// Store bundles the Mongo client with the collections the application uses.
type Store struct {
	Client  *mongo.Client
	DB      *mongo.Database
	Users   *mongo.Collection
	Tickets *mongo.Collection
}

// Connect dials MongoDB at uri, verifies the connection with a ping, and
// returns a Store bound to dbName. The caller owns the handle and should
// Close it on shutdown.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("store not configured: MONGODB_URL is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(dbName)
	return &Store{
		Client:  client,
		DB:      db,
		Users:   db.Collection(domain.UsersCollection),
		Tickets: db.Collection(domain.TicketsCollection),
	}, nil
}

// Ready reports whether the store was successfully connected at startup.
// Safe to call on a nil receiver.
func (s *Store) Ready() bool { return s != nil && s.Client != nil }

// Ping issues a trivial liveness probe against the primary. It is read-only
// and side-effect free. On a nil or unconfigured store it returns an error
// describing the missing configuration.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Ready() {
		return errors.New("store not configured")
	}
	return s.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client. Safe to call on a nil receiver.
func (s *Store) Close(ctx context.Context) error {
	if !s.Ready() {
		return nil
	}
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique index on users.email. The HTTP surface
// still performs the pre-insert existence check (same observable 400), the
// index closes the concurrent-registration race at the store level.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if !s.Ready() {
		return errors.New("store not configured")
	}
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

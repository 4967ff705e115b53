// Package repo implements the data persistence layer for domain entities,
// backed by the official MongoDB driver. This file provides repository
// functions for the Ticket model and its embedded replies.
//
// Functions:
//
//   - InsertTicket(ctx, col, t) -> ObjectID, error
//     Inserts a new ticket document and returns the store-assigned id.
//
//   - ListTickets(ctx, col, filter) -> []domain.Ticket, error
//     Returns tickets matching filter, newest first. Pass bson.M{} to list
//     every ticket, or a created_by filter for role-scoped listings.
//
//   - UpdateTicket(ctx, col, id, set) -> error
//     Applies a partial $set to one ticket; ErrNotFound when no document
//     matched the id.
//
//   - AppendReply(ctx, col, id, reply) -> error
//     Pushes a reply onto the ticket's reply array and refreshes
//     updated_at; ErrNotFound when no document matched the id.
package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
)

// InsertTicket inserts a new ticket document and returns its id.
func InsertTicket(ctx context.Context, col *mongo.Collection, t *domain.Ticket) (primitive.ObjectID, error) {
	res, err := col.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	t.ID = id
	return id, nil
}

// ListTickets returns all tickets matching filter, ordered by creation time
// descending (most recent first). It returns an empty slice when nothing
// matches.
func ListTickets(ctx context.Context, col *mongo.Collection, filter bson.M) ([]domain.Ticket, error) {
	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Ticket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTicket applies a partial $set to the ticket identified by id.
// Returns ErrNotFound when no document matched.
func UpdateTicket(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set bson.M) error {
	res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendReply pushes reply onto the ticket's replies array and refreshes
// updated_at in the same write. Returns ErrNotFound when no document matched.
func AppendReply(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, reply domain.Reply) error {
	res, err := col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"replies": reply},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

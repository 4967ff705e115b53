// Package repo implements the data persistence layer for domain entities,
// backed by the official MongoDB driver. This file provides repository
// functions for the User model.
//
// All functions are context-aware and accept a *mongo.Collection handle,
// keeping them free of package-level state. They follow the "thin
// repository" approach: no business logic, only document reads and writes.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound
//     (alias of mongo.ErrNoDocuments).
//   - IsDuplicateKey reports unique-index violations so the service layer
//     can translate a racing duplicate insert into the same observable
//     "email taken" outcome as the pre-insert check.
package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
)

// CreateUser inserts a new user document and returns the store-assigned id.
// CreatedAt is set to UTC if the caller left it zero.
func CreateUser(ctx context.Context, col *mongo.Collection, u *domain.User) (primitive.ObjectID, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := col.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	u.ID = id
	return id, nil
}

// FindUserByEmail fetches a single user by email, or ErrNotFound if missing.
func FindUserByEmail(ctx context.Context, col *mongo.Collection, email string) (*domain.User, error) {
	var u domain.User
	if err := col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByID fetches a single user by ObjectID, or ErrNotFound if missing.
func FindUserByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

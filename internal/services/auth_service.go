// Package services – AuthService
//
// This file implements the AuthService, which manages registration, login,
// and per-request identity resolution from bearer tokens. Passwords are
// stored as bcrypt hashes and never leave the service layer; tokens are
// HS256 with the user id as subject and a fixed lifetime.
//
// Service-level errors (e.g., ErrEmailTaken, ErrInvalidCredentials) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbourn/go-helpdesk-backend/internal/auth"
	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/repo"
)

// UserRepo defines the repository contract required by AuthService.
// Implementations are responsible for persistence of user documents.
type UserRepo interface {
	// CreateUser inserts a new user and returns the store-assigned id.
	CreateUser(ctx context.Context, col *mongo.Collection, u *domain.User) (primitive.ObjectID, error)

	// FindUserByEmail fetches a user by email (repo.ErrNotFound if absent).
	FindUserByEmail(ctx context.Context, col *mongo.Collection, email string) (*domain.User, error)

	// FindUserByID fetches a user by id (repo.ErrNotFound if absent).
	FindUserByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*domain.User, error)
}

// AuthService provides registration, login, and token-based identity
// resolution. It enforces email uniqueness and the generic-credential-error
// rule on login.
type AuthService struct {
	// Store is the Mongo handle used for persistence. May be nil in a
	// degraded process; the HTTP store gate keeps requests away in that case.
	Store *repo.Store
	// Repo is the user repository used by this service.
	Repo UserRepo

	// Secret signs and verifies bearer tokens (HS256).
	Secret string
	// TokenTTL is the absolute token lifetime (24h by default).
	TokenTTL time.Duration
}

// users returns the users collection handle, or nil when the store is not
// connected (fakes in tests ignore the collection argument).
func (s *AuthService) users() *mongo.Collection {
	if s.Store.Ready() {
		return s.Store.Users
	}
	return nil
}

// Register creates a new account. The email must not be on file; the role
// defaults to "user" when empty. Returns the new user's hex id.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (string, error) {
	email = strings.TrimSpace(email)

	// Pre-insert existence check; the unique index on email closes the
	// remaining race window with the same observable outcome.
	_, err := s.Repo.FindUserByEmail(ctx, s.users(), email)
	switch {
	case err == nil:
		return "", ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if role == "" {
		role = domain.RoleUser
	}

	u := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.Repo.CreateUser(ctx, s.users(), u)
	if err != nil {
		if repo.IsDuplicateKey(err) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return id.Hex(), nil
}

// Login verifies the credentials and issues a bearer token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.Repo.FindUserByEmail(ctx, s.users(), strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.SignToken(s.Secret, u.ID.Hex(), s.TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// UserFromToken resolves a bearer token to the live user record. Any failure
// (malformed, expired, bad signature, unknown subject) is an error; the HTTP
// layer treats it as "no identity" rather than a distinguished response.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	sub, err := auth.ParseToken(s.Secret, token)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return s.Repo.FindUserByID(ctx, s.users(), id)
}

// Package services – TicketService
//
// This file implements the TicketService, which manages the ticket
// lifecycle: creation with defaults, role-scoped listing, partial
// status/priority/assignee updates, and append-only replies. It validates
// required fields and translates repository misses into ErrTicketNotFound so
// handlers can map them to 404 consistently. A malformed ticket id is
// indistinguishable from an unknown one.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/repo"
)

// TicketRepo defines the repository contract required by TicketService.
type TicketRepo interface {
	// InsertTicket inserts a new ticket and returns the store-assigned id.
	InsertTicket(ctx context.Context, col *mongo.Collection, t *domain.Ticket) (primitive.ObjectID, error)

	// ListTickets returns tickets matching filter, newest first.
	ListTickets(ctx context.Context, col *mongo.Collection, filter bson.M) ([]domain.Ticket, error)

	// UpdateTicket applies a partial $set (repo.ErrNotFound if unmatched).
	UpdateTicket(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set bson.M) error

	// AppendReply pushes a reply snapshot (repo.ErrNotFound if unmatched).
	AppendReply(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, reply domain.Reply) error
}

// CreateTicketInput carries the validated form fields for ticket creation.
// AttachmentPath is the already-persisted upload path ("" when no file was
// attached).
type CreateTicketInput struct {
	Subject        string
	Description    string
	Category       string
	Priority       string
	AttachmentPath string
}

// UpdateTicketInput carries a partial update. Nil pointers mean "leave
// unchanged". An explicit empty AssignedTo is a no-op, not clear-to-null.
type UpdateTicketInput struct {
	Status     *string
	Priority   *string
	AssignedTo *string
}

// TicketService provides ticket lifecycle operations. It is safe for
// concurrent use; each call is a single (or two) independent store
// round-trips with no cross-request coordination.
type TicketService struct {
	// Store is the Mongo handle used for persistence.
	Store *repo.Store
	// Repo is the ticket repository used by this service.
	Repo TicketRepo
}

func (s *TicketService) tickets() *mongo.Collection {
	if s.Store.Ready() {
		return s.Store.Tickets
	}
	return nil
}

// Create inserts a new ticket for creator. Subject, description, and
// category must be non-empty; priority defaults to "medium". The ticket
// starts as Open with no assignee and an empty reply sequence regardless of
// submitted fields. Returns the new ticket's hex id.
func (s *TicketService) Create(ctx context.Context, creator *domain.User, in CreateTicketInput) (string, error) {
	subject := strings.TrimSpace(in.Subject)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	if subject == "" || description == "" || category == "" {
		return "", ErrMissingFields
	}
	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	t := &domain.Ticket{
		Subject:     subject,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.StatusOpen,
		CreatedBy:   creator.ID,
		AssignedTo:  nil,
		Attachment:  in.AttachmentPath,
		Replies:     []domain.Reply{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.Repo.InsertTicket(ctx, s.tickets(), t)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// List returns the tickets visible to u: a "user" role sees only tickets it
// created, any other role sees every ticket. Reply slices are materialized
// so they serialize as [] rather than null.
func (s *TicketService) List(ctx context.Context, u *domain.User) ([]domain.Ticket, error) {
	filter := bson.M{}
	if !u.IsStaff() {
		filter["created_by"] = u.ID
	}
	tickets, err := s.Repo.ListTickets(ctx, s.tickets(), filter)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].Replies == nil {
			tickets[i].Replies = []domain.Reply{}
		}
	}
	return tickets, nil
}

// Update applies a partial update to the ticket identified by idHex.
// Only the fields present in in are changed; updated_at is always
// refreshed. Returns ErrTicketNotFound for a malformed or unmatched id.
func (s *TicketService) Update(ctx context.Context, idHex string, in UpdateTicketInput) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return ErrTicketNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Priority != nil {
		set["priority"] = *in.Priority
	}
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) != "" {
		assignee, err := primitive.ObjectIDFromHex(strings.TrimSpace(*in.AssignedTo))
		if err != nil {
			return ErrInvalidAssignee
		}
		set["assigned_to"] = assignee
	}

	if err := s.Repo.UpdateTicket(ctx, s.tickets(), id, set); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	return nil
}

// AddReply appends a reply snapshot (author id and name at post time) to the
// ticket identified by idHex. The message must be non-empty. Returns
// ErrTicketNotFound for a malformed or unmatched id.
func (s *TicketService) AddReply(ctx context.Context, idHex string, author *domain.User, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return ErrTicketNotFound
	}

	reply := domain.Reply{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.AppendReply(ctx, s.tickets(), id, reply); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	return nil
}

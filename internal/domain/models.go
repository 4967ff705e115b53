// Package domain defines the persistence models for users and tickets.
// These types are stored as MongoDB documents (bson tags) and serialized
// directly on the HTTP surface (json tags), forming the core data layer of
// the helpdesk application.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values recognized by the authorization layer. Any role other than
// RoleUser is treated as elevated (may manage every ticket).
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// Defaults applied when a ticket is created.
const (
	StatusOpen     = "Open"
	PriorityMedium = "medium"
)

// Collection names used by the repository layer.
const (
	UsersCollection   = "users"
	TicketsCollection = "tickets"
)

// User represents an account able to authenticate and open tickets.
//
// Fields:
//   - ID: store-assigned ObjectID; rendered as its hex string in JSON.
//   - Email: unique login identifier (uniqueness enforced both by a
//     pre-insert check and a unique index on the collection).
//   - PasswordHash: bcrypt hash; never serialized to JSON.
//   - Role: "user" or an elevated role ("agent", "admin", ...).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name"          json:"name"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password"      json:"-"`
	Role         string             `bson:"role"          json:"role"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
}

// IsStaff reports whether the user holds an elevated (non-"user") role.
func (u *User) IsStaff() bool { return u != nil && u.Role != RoleUser }

// Reply is an append-only message embedded in a ticket document. The author
// name is a snapshot taken at post time, not a live reference.
type Reply struct {
	AuthorID   primitive.ObjectID `bson:"author_id"   json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Message    string             `bson:"message"     json:"message"`
	CreatedAt  time.Time          `bson:"created_at"  json:"created_at"`
}

// Ticket is a support request. Replies live inside the ticket document and
// have no independent lifecycle; they are only ever appended.
//
// Fields:
//   - Status / Priority: free-form strings; new tickets start as
//     StatusOpen / PriorityMedium.
//   - CreatedBy: ObjectID of the creator.
//   - AssignedTo: optional assignee; nil renders as JSON null.
//   - Attachment: server-local path of an uploaded file (path string only,
//     the bytes live on disk).
type Ticket struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Subject     string              `bson:"subject"       json:"subject"`
	Description string              `bson:"description"   json:"description"`
	Category    string              `bson:"category"      json:"category"`
	Priority    string              `bson:"priority"      json:"priority"`
	Status      string              `bson:"status"        json:"status"`
	CreatedBy   primitive.ObjectID  `bson:"created_by"    json:"created_by"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to"   json:"assigned_to"`
	Attachment  string              `bson:"attachment,omitempty" json:"attachment,omitempty"`
	Replies     []Reply             `bson:"replies"       json:"replies"`
	CreatedAt   time.Time           `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"    json:"updated_at"`
}

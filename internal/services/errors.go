// Package services defines the business logic for accounts and tickets.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrEmailTaken indicates that a registration used an email already on
	// file. Also returned when a racing insert trips the unique index.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, deliberately indistinguishable to avoid account
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTicketNotFound indicates that the referenced ticket id matches no
	// record. A malformed id behaves the same as an unknown one.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrMissingFields is returned when a ticket is created without
	// subject, description, or category.
	ErrMissingFields = errors.New("subject, description and category are required")

	// ErrEmptyMessage is returned when a reply carries no message text.
	ErrEmptyMessage = errors.New("message is required")

	// ErrInvalidAssignee is returned when an assignee id is not a valid
	// ObjectID hex string.
	ErrInvalidAssignee = errors.New("assigned_to is not a valid user id")
)

// Ticket HTTP handlers.
//
// This file exposes REST endpoints for ticket resources:
//   - POST  /tickets              (create, multipart form with optional attachment)
//   - GET   /tickets              (list, role-scoped)
//   - PATCH /tickets/{id}/status  (partial update, staff only)
//   - POST  /tickets/{id}/reply   (append reply)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Identity is taken
// from the Gin context, set upstream by middleware.Authenticate.
package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/http/middleware"
	"github.com/tbourn/go-helpdesk-backend/internal/services"
)

// TicketService defines ticket lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TicketService interface {
	// Create inserts a new ticket for creator and returns its hex id.
	Create(ctx context.Context, creator *domain.User, in services.CreateTicketInput) (string, error)
	// List returns the tickets visible to u (role-scoped).
	List(ctx context.Context, u *domain.User) ([]domain.Ticket, error)
	// Update applies a partial status/priority/assignee update.
	Update(ctx context.Context, idHex string, in services.UpdateTicketInput) error
	// AddReply appends a reply snapshot authored by author.
	AddReply(ctx context.Context, idHex string, author *domain.User, message string) error
}

// AttachmentSaver persists an uploaded file and returns its stored path.
// Implemented by upload.Saver.
type AttachmentSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// UpdateTicketRequest is the JSON payload for the partial ticket update.
// Absent fields are left unchanged; an explicit empty assigned_to is a
// no-op, not a clear-to-null.
type UpdateTicketRequest struct {
	Status     *string `json:"status"      example:"In Progress"`
	AssignedTo *string `json:"assigned_to" example:"64b5f1c2a3d4e5f6a7b8c9d0"`
	Priority   *string `json:"priority"    example:"high"`
}

// ReplyRequest is the JSON payload for appending a reply.
type ReplyRequest struct {
	Message string `json:"message" binding:"required" example:"Have you tried turning it off and on again?"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" example:"Ticket updated"`
}

// CreateTicketResponse acknowledges ticket creation.
type CreateTicketResponse struct {
	Message  string `json:"message"   example:"Ticket created"`
	TicketID string `json:"ticket_id" example:"64b5f1c2a3d4e5f6a7b8c9d0"`
}

// CreateTicket godoc
// @ID          createTicket
// @Summary     Create a ticket
// @Description Creates a ticket from a multipart form; subject, description, and category are required. An optional attachment is stored server-side and its path recorded on the ticket.
// @Tags        Tickets
// @Accept      mpfd
// @Produce     json
// @Security    BearerAuth
//
// @Param       subject      formData  string  true   "Subject"
// @Param       description  formData  string  true   "Description"
// @Param       category     formData  string  true   "Category"
// @Param       priority     formData  string  false  "Priority (defaults to medium)"
// @Param       attachment   formData  file    false  "Attachment"
//
// @Success     201  {object}  handlers.CreateTicketResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing required field"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /tickets [post]
func (h *Handlers) CreateTicket(c *gin.Context) {
	user := middleware.CurrentUser(c)

	in := services.CreateTicketInput{
		Subject:     c.PostForm("subject"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Priority:    c.PostForm("priority"),
	}

	// Optional attachment: only the stored path goes on the record.
	if fh, err := c.FormFile("attachment"); err == nil && fh != nil {
		path, err := h.uploads.Save(fh)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "could not store attachment")
			return
		}
		in.AttachmentPath = path
	}

	id, err := h.ticketSvc.Create(c.Request.Context(), user, in)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateTicketResponse{Message: "Ticket created", TicketID: id})
}

// ListTickets godoc
// @ID          listTickets
// @Summary     List tickets
// @Description Returns the tickets visible to the caller: a "user" role sees only its own tickets, any other role sees all of them. Newest first, no pagination.
// @Tags        Tickets
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {array}   domain.Ticket
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /tickets [get]
func (h *Handlers) ListTickets(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tickets, err := h.ticketSvc.List(c.Request.Context(), user)
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, tickets)
}

// UpdateTicket godoc
// @ID          updateTicket
// @Summary     Update ticket status, priority, or assignee
// @Description Applies a partial update. Only fields present in the body are changed; updated_at is always refreshed. Requires a non-"user" role.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Ticket ID (hex)"
// @Param       body  body  handlers.UpdateTicketRequest  true  "Partial update"
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid body or assignee"
// @Failure     403  {object}  handlers.ErrorResponse  "Role not allowed"
// @Failure     404  {object}  handlers.ErrorResponse  "Ticket not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /tickets/{id}/status [patch]
func (h *Handlers) UpdateTicket(c *gin.Context) {
	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	in := services.UpdateTicketInput{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
	}
	if err := h.ticketSvc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		switch {
		case errors.Is(err, services.ErrTicketNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
		case errors.Is(err, services.ErrInvalidAssignee):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Ticket updated"})
}

// AddReply godoc
// @ID          addReply
// @Summary     Reply to a ticket
// @Description Appends a reply to the ticket's thread, snapshotting the author's id and name at post time.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Ticket ID (hex)"
// @Param       body  body  handlers.ReplyRequest  true  "Reply payload"
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing message"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Ticket not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /tickets/{id}/reply [post]
func (h *Handlers) AddReply(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}

	if err := h.ticketSvc.AddReply(c.Request.Context(), c.Param("id"), user, req.Message); err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrTicketNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Reply added"})
}

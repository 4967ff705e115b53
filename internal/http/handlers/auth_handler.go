// Auth HTTP handlers.
//
// This file exposes the public authentication endpoints:
//   - POST /auth/register (create account)
//   - POST /auth/login    (issue bearer token)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/services"
)

// AuthService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates an account and returns the new user's hex id.
	Register(ctx context.Context, name, email, password, role string) (string, error)
	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// RegisterRequest is the JSON payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required" example:"Ada Lovelace"`
	Email    string `json:"email"    binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
	// Role is optional and defaults to "user".
	Role string `json:"role" example:"user"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Message string `json:"message" example:"User registered successfully"`
	UserID  string `json:"user_id" example:"64b5f1c2a3d4e5f6a7b8c9d0"`
}

// LoginResponse carries the bearer token and the user record (sans password).
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates a user account. The email must not already be on file.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.RegisterResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing data or email already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email and password are required")
		return
	}

	id, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fail(c, http.StatusBadRequest, ErrCodeEmailTaken, "Email already registered")
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  id,
	})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a bearer token plus the user record.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing data"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password.
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: user})
}

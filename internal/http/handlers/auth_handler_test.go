package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/services"
)

// ---------- stubs ----------

type stubAuthSvc struct {
	registerID  string
	registerErr error
	// capture args
	name, email, password, role string

	loginToken string
	loginUser  *domain.User
	loginErr   error
}

func (s *stubAuthSvc) Register(ctx context.Context, name, email, password, role string) (string, error) {
	s.name, s.email, s.password, s.role = name, email, password, role
	return s.registerID, s.registerErr
}

func (s *stubAuthSvc) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	s.email, s.password = email, password
	return s.loginToken, s.loginUser, s.loginErr
}

type stubHealth struct{ err error }

func (s *stubHealth) Ping(ctx context.Context) error { return s.err }

func newAuthRouter(svc *stubAuthSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, nil, &stubHealth{}, nil)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return m
}

// ---------- Register ----------

func TestRegister_Created(t *testing.T) {
	svc := &stubAuthSvc{registerID: primitive.NewObjectID().Hex()}
	r := newAuthRouter(svc)

	w := postJSON(t, r, "/auth/register", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "s3cret", "role": "admin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201 (%s)", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "User registered successfully" || body["user_id"] != svc.registerID {
		t.Fatalf("body unexpected: %v", body)
	}
	if svc.name != "Ada" || svc.email != "ada@example.com" || svc.password != "s3cret" || svc.role != "admin" {
		t.Fatalf("payload not forwarded: %+v", svc)
	}
}

func TestRegister_BadPayload(t *testing.T) {
	svc := &stubAuthSvc{}
	r := newAuthRouter(svc)

	cases := []gin.H{
		{},
		{"name": "Ada"},
		{"name": "Ada", "email": "not-an-email", "password": "pw"},
		{"name": "Ada", "email": "ada@example.com"},
	}
	for i, payload := range cases {
		w := postJSON(t, r, "/auth/register", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d; want 400", i, w.Code)
		}
	}
	if svc.email != "" {
		t.Fatalf("invalid payloads must not reach the service")
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc := &stubAuthSvc{registerErr: services.ErrEmailTaken}
	r := newAuthRouter(svc)

	w := postJSON(t, r, "/auth/register", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "pw",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["code"] != ErrCodeEmailTaken || body["message"] != "Email already registered" {
		t.Fatalf("body unexpected: %v", body)
	}
}

func TestRegister_InternalErrorIsSanitized(t *testing.T) {
	svc := &stubAuthSvc{registerErr: errors.New("mongo exploded: topology closed")}
	r := newAuthRouter(svc)

	w := postJSON(t, r, "/auth/register", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "pw",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
}

// ---------- Login ----------

func TestLogin_Success(t *testing.T) {
	u := &domain.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser}
	svc := &stubAuthSvc{loginToken: "tok123", loginUser: u}
	r := newAuthRouter(svc)

	w := postJSON(t, r, "/auth/login", gin.H{"email": "ada@example.com", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["token"] != "tok123" {
		t.Fatalf("token missing: %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ada@example.com" {
		t.Fatalf("user record unexpected: %v", body)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked: %v", user)
	}
}

func TestLogin_BadPayload(t *testing.T) {
	r := newAuthRouter(&stubAuthSvc{})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "ada@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubAuthSvc{loginErr: services.ErrInvalidCredentials}
	r := newAuthRouter(svc)

	w := postJSON(t, r, "/auth/login", gin.H{"email": "ada@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Invalid email or password" {
		t.Fatalf("message must be the generic one: %v", body)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHealthRouter(store *stubHealth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(nil, nil, store, nil)
	r := gin.New()
	r.GET("/health", h.Health)
	return r
}

func TestHealth_Healthy(t *testing.T) {
	r := newHealthRouter(&stubHealth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "healthy" {
		t.Fatalf("body unexpected: %v", body)
	}
	if body["timestamp"] == nil || body["timestamp"] == "" {
		t.Fatalf("healthy response must carry a timestamp: %v", body)
	}
	if _, present := body["error"]; present {
		t.Fatalf("healthy response must omit error: %v", body)
	}
}

func TestHealth_Unhealthy_Still200(t *testing.T) {
	r := newHealthRouter(&stubHealth{err: errors.New("server selection timeout")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Reachability of the process itself is the contract; the body carries
	// the store state.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 even when unhealthy", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "unhealthy" {
		t.Fatalf("body unexpected: %v", body)
	}
	if body["error"] != "server selection timeout" {
		t.Fatalf("probe error missing: %v", body)
	}
	if _, present := body["timestamp"]; present {
		t.Fatalf("unhealthy response must omit timestamp: %v", body)
	}
}

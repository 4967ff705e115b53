package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-helpdesk-backend/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		GinMode:           "test",

		LogLevel:    "error",
		APIBasePath: "/api",

		MongoDatabase:  "helpdesk",
		ConnectTimeout: 5 * time.Second,

		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		UploadDir: "uploads",

		// Generous limits so the test requests never trip the limiter.
		RateRPS:   100,
		RateBurst: 100,
	}
}

// newDegradedRouter wires the full engine with a nil store, the state the
// process runs in when MONGODB_URL is absent.
func newDegradedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, nil, testConfig())
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRoutes_HealthAnswersWhileDegraded(t *testing.T) {
	r := newDegradedRouter()

	w := get(r, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "unhealthy" {
		t.Fatalf("degraded process should report unhealthy: %v", body)
	}
	if body["error"] == nil || body["error"] == "" {
		t.Fatalf("unhealthy body should explain why: %v", body)
	}
}

func TestRoutes_StoreGateBlocksDataRoutes(t *testing.T) {
	r := newDegradedRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodGet, "/api/tickets"},
		{http.MethodPost, "/api/tickets"},
	}
	for _, tc := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: status = %d; want 503", tc.method, tc.path, w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "store_unavailable" {
			t.Errorf("%s %s: code = %v; want store_unavailable", tc.method, tc.path, body["code"])
		}
	}
}

func TestRoutes_RequestIDPropagated(t *testing.T) {
	r := newDegradedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "rid-42" {
		t.Fatalf("X-Request-ID = %q; want propagated value", got)
	}
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	r := newDegradedRouter()

	w := get(r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
}

func TestRoutes_NoRouteAndNoMethod(t *testing.T) {
	r := newDegradedRouter()

	w := get(r, "/api/definitely-not-here")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: status = %d; want 404", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "not_found" {
		t.Fatalf("unknown route body: %v", body)
	}

	// Existing path, unsupported method.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("bad method: status = %d; want 405", w.Code)
	}
}

func TestRoutes_SwaggerOptIn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Disabled by default.
	r := gin.New()
	RegisterRoutes(r, nil, testConfig())
	if w := get(r, "/swagger/index.html"); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be off by default, got %d", w.Code)
	}

	// Enabled via config.
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r = gin.New()
	RegisterRoutes(r, nil, cfg)
	if w := get(r, "/swagger/index.html"); w.Code != http.StatusOK {
		t.Fatalf("swagger route: status = %d; want 200", w.Code)
	}
}

func TestRoutes_CustomBasePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.APIBasePath = "/v2"
	r := gin.New()
	RegisterRoutes(r, nil, cfg)

	if w := get(r, "/v2/health"); w.Code != http.StatusOK {
		t.Fatalf("prefixed health: status = %d; want 200", w.Code)
	}
	if w := get(r, "/api/health"); w.Code != http.StatusNotFound {
		t.Fatalf("old prefix should 404, got %d", w.Code)
	}
}

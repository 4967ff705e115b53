// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, rate limiting, and the auth/role/store request guards.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Guards applied per route group in a declared order
//     (store gate → bearer auth → RequireAuth → RequireStaff)
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-helpdesk-backend/internal/config"
	"github.com/tbourn/go-helpdesk-backend/internal/domain"
	"github.com/tbourn/go-helpdesk-backend/internal/http/handlers"
	"github.com/tbourn/go-helpdesk-backend/internal/http/middleware"
	"github.com/tbourn/go-helpdesk-backend/internal/repo"
	"github.com/tbourn/go-helpdesk-backend/internal/services"
	"github.com/tbourn/go-helpdesk-backend/internal/upload"
)

// userRepoShim adapts the repository free functions to the services.UserRepo
// interface expected by the AuthService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, col *mongo.Collection, u *domain.User) (primitive.ObjectID, error) {
	return repo.CreateUser(ctx, col, u)
}

// FindUserByEmail proxies repo.FindUserByEmail.
func (userRepoShim) FindUserByEmail(ctx context.Context, col *mongo.Collection, email string) (*domain.User, error) {
	return repo.FindUserByEmail(ctx, col, email)
}

// FindUserByID proxies repo.FindUserByID.
func (userRepoShim) FindUserByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*domain.User, error) {
	return repo.FindUserByID(ctx, col, id)
}

// ticketRepoShim adapts the repository free functions to the
// services.TicketRepo interface expected by the TicketService.
type ticketRepoShim struct{}

// InsertTicket proxies repo.InsertTicket.
func (ticketRepoShim) InsertTicket(ctx context.Context, col *mongo.Collection, t *domain.Ticket) (primitive.ObjectID, error) {
	return repo.InsertTicket(ctx, col, t)
}

// ListTickets proxies repo.ListTickets.
func (ticketRepoShim) ListTickets(ctx context.Context, col *mongo.Collection, filter bson.M) ([]domain.Ticket, error) {
	return repo.ListTickets(ctx, col, filter)
}

// UpdateTicket proxies repo.UpdateTicket.
func (ticketRepoShim) UpdateTicket(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set bson.M) error {
	return repo.UpdateTicket(ctx, col, id, set)
}

// AppendReply proxies repo.AppendReply.
func (ticketRepoShim) AppendReply(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, reply domain.Reply) error {
	return repo.AppendReply(ctx, col, id, reply)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. The store handle may be nil (degraded mode): health and metrics
// still answer, and the store gate rejects every data-touching route.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip response compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, st *repo.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (10 MiB, attachments included)
	r.Use(limitBody(10 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/store
	authSvc := &services.AuthService{
		Store:    st,
		Repo:     userRepoShim{},
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
	}
	ticketSvc := &services.TicketService{
		Store: st,
		Repo:  ticketRepoShim{},
	}
	h := handlers.New(authSvc, ticketSvc, st, &upload.Saver{Dir: cfg.UploadDir})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Health check stays reachable in degraded mode.
		api.GET("/health", h.Health)

		// Guards: store gate first, then bearer auth where identity matters.
		authGroup := api.Group("/auth", middleware.RequireStore(st))
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
		}

		tickets := api.Group("/tickets",
			middleware.RequireStore(st),
			middleware.Authenticate(authSvc),
			middleware.RequireAuth(),
		)
		{
			tickets.POST("", h.CreateTicket)
			tickets.GET("", h.ListTickets)
			tickets.POST("/:id/reply", h.AddReply)
			tickets.PATCH("/:id/status", middleware.RequireStaff(), h.UpdateTicket)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

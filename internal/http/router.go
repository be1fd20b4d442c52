// Package httpapi wires the HTTP transport (Gin) to the webhook services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging with PII redaction, panic recovery,
// metrics, compression, rate limiting, CORS, and security headers.
//
// Middleware ordering is safety-first: RequestID before logging so every log
// line carries a correlation ID, Recovery after logging so panics are
// captured with request context, and the rate limiter after metrics so 429s
// show up on dashboards.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/config"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/http/handlers"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/http/middleware"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/services"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine. The OrderStore is injected so tests can register the full stack
// against a stub instead of a live Shopify shop; db may be nil to disable
// the audit log.
//
// Middleware order:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store services.OrderStore, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging; webhook payloads carry customer phone numbers,
	// so bodies are never logged and query strings are scrubbed.
	r.Use(middleware.AccessLogger())

	// 4) Panic recovery to the opaque 500 envelope
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); MSG91 payloads are a few KB
	r.Use(limitBody(1 << 20))

	// 6) Compress responses for clients that ask for it
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured). The
	// endpoints are server-to-server, but the health route is also probed
	// from browser dashboards.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// Dependency injection: services ← store/config
	notifier := &services.NotifierService{
		Store:          store,
		TemplateName:   cfg.MSG91.TemplateName,
		OrderField:     cfg.MSG91.OrderField,
		SearchAttempts: cfg.Shopify.SearchAttempts,
		SearchDelay:    cfg.Shopify.SearchDelay,
	}
	confirmer := &services.ConfirmationService{
		Store:          store,
		TemplateName:   cfg.MSG91.TemplateName,
		SearchAttempts: cfg.Shopify.SearchAttempts,
		SearchDelay:    cfg.Shopify.SearchDelay,
	}
	h := handlers.New(notifier, confirmer, db)

	// Endpoints
	r.GET("/", h.Health)
	r.POST("/msg91/outbound", h.Outbound)
	r.POST("/msg91/webhook", h.Webhook)
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on the first downstream read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// Package handlers – response envelopes.
//
// MSG91 webhook integrations key off two things: the HTTP status and, for
// humans reading delivery logs, the response body. The envelopes here are
// therefore part of the external contract and must not change shape:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "orderName": "#V1592", "tagAdded": "MSG91_abc123" }
//
//	HTTP/1.1 200 OK
//	{ "ignored": "Not YES" }
//
//	HTTP/1.1 500 Internal Server Error
//	{ "error": "Server error" }
//
// A 200 with an "ignored" body tells MSG91 the delivery is final; a 500
// triggers its redelivery. Failure details never leak into the body, only
// into the request-scoped log.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/http/middleware"
)

// OutboundResponse acknowledges a processed delivery report.
type OutboundResponse struct {
	Success   bool   `json:"success"`
	OrderName string `json:"orderName"`
	TagAdded  string `json:"tagAdded"`
}

// ConfirmResponse acknowledges a processed confirmation reply.
type ConfirmResponse struct {
	Success bool `json:"success"`
}

// IgnoredResponse acknowledges an event that required no action.
type IgnoredResponse struct {
	Ignored string `json:"ignored"`
}

// ServerErrorResponse is the only body a 500 ever carries.
type ServerErrorResponse struct {
	Error string `json:"error"`
}

// ignored acknowledges a business non-event with 200 so MSG91 does not
// redeliver it.
func ignored(c *gin.Context, reason string) {
	c.JSON(http.StatusOK, IgnoredResponse{Ignored: reason})
}

// serverError logs the failure with request context and returns the opaque
// 500 envelope. The detail stays in the logs.
func serverError(c *gin.Context, err error) {
	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Msg("webhook processing failed")

	c.AbortWithStatusJSON(http.StatusInternalServerError, ServerErrorResponse{Error: "Server error"})
}

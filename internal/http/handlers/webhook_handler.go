// Inbound reply endpoint.
//
//   - POST /msg91/webhook
//
// MSG91 calls this when the customer interacts with the message. A YES
// button tap resolves the order through its correlation tag and marks it
// confirmed; everything else is acknowledged and dropped.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/http/middleware"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/services"
)

// Webhook handles inbound MSG91 reply events.
//
// Response contract mirrors Outbound: 200 {success} on a confirmed order,
// 200 {ignored: reason} for non-events, 500 {error: "Server error"} when the
// confirmation write failed.
func (h *Handlers) Webhook(c *gin.Context) {
	const route = "/msg91/webhook"

	var ev domain.ReplyEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		webhookEvents.WithLabelValues(route, "ignored").Inc()
		h.audit(c, route, "", "ignored", "", "Malformed payload")
		ignored(c, "Malformed payload")
		return
	}

	out, err := h.confirmer.ConfirmReply(c.Request.Context(), ev)
	if err != nil {
		if reason, ok := services.IgnoreReason(err); ok {
			webhookEvents.WithLabelValues(route, "ignored").Inc()
			h.audit(c, route, ev.RequestID, "ignored", "", reason)
			ignored(c, reason)
			return
		}
		webhookEvents.WithLabelValues(route, "error").Inc()
		h.audit(c, route, ev.RequestID, "error", "", err.Error())
		serverError(c, err)
		return
	}

	middleware.LoggerFrom(c).Info().
		Str("order_name", out.OrderName).
		Msg("order confirmed")

	webhookEvents.WithLabelValues(route, "confirmed").Inc()
	h.audit(c, route, ev.RequestID, "confirmed", out.OrderName, "")
	c.JSON(http.StatusOK, ConfirmResponse{Success: true})
}

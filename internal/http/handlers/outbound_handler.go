// Outbound delivery-report endpoint.
//
//   - POST /msg91/outbound
//
// MSG91 calls this when a WhatsApp message reaches a delivery state. For the
// confirmation template, a "delivered" event means the customer has the
// message in hand, so the matching order is tagged with the correlation tag
// that later links the reply back to it.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/http/middleware"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/repo"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/services"
)

// Outbound handles MSG91 delivery reports.
//
// Response contract:
//   - 200 {success, orderName, tagAdded} when the order was tagged
//   - 200 {ignored: reason} for anything that needs no action, including
//     malformed payloads (a retry would not fix them)
//   - 500 {error: "Server error"} when Shopify writes failed and a
//     redelivery might succeed
func (h *Handlers) Outbound(c *gin.Context) {
	const route = "/msg91/outbound"

	var ev domain.DeliveryEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		webhookEvents.WithLabelValues(route, "ignored").Inc()
		h.audit(c, route, "", "ignored", "", "Malformed payload")
		ignored(c, "Malformed payload")
		return
	}

	out, err := h.notifier.TagDelivery(c.Request.Context(), ev)
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
		Str("tag", out.TagAdded).
		Msg("order tagged")

	webhookEvents.WithLabelValues(route, "tagged").Inc()
	h.audit(c, route, ev.RequestID, "tagged", out.OrderName, out.TagAdded)
	c.JSON(http.StatusOK, OutboundResponse{
		Success:   true,
		OrderName: out.OrderName,
		TagAdded:  out.TagAdded,
	})
}

// audit appends one row to the webhook log. Failures are logged and
// swallowed: the audit trail must never fail a webhook.
func (h *Handlers) audit(c *gin.Context, route, requestID, outcome, orderName, detail string) {
	if h.db == nil {
		return
	}
	if _, err := repo.CreateWebhookLog(c.Request.Context(), h.db, route, requestID, outcome, orderName, detail); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("audit log write failed")
	}
}

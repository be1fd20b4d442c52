// Package services – ConfirmationService
//
// This file implements the inbound half of the correlation protocol: when
// the customer taps YES, the service resolves the order by its correlation
// tag, checks COD eligibility and duplicate confirmation, and appends the
// terminal "COD Confirmed" tag.
package services

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// ConfirmationService turns affirmative replies into confirmation tags.
type ConfirmationService struct {
	Store OrderStore

	// TemplateName is the only template acted on.
	TemplateName string

	// SearchAttempts and SearchDelay bound the tag search. A reply can
	// arrive before the outbound tag is visible in the store's search
	// index, so the inbound lookup retries on the same budget as the
	// outbound one.
	SearchAttempts int
	SearchDelay    time.Duration
}

// ConfirmOutcome reports a successful confirmation write.
type ConfirmOutcome struct {
	OrderName string
}

// ConfirmReply validates the reply event, resolves the order by correlation
// tag, and applies the confirmation marker at most once, only to COD orders,
// only on an affirmative reply.
func (s *ConfirmationService) ConfirmReply(ctx context.Context, ev domain.ReplyEvent) (*ConfirmOutcome, error) {
	tr := otel.Tracer("services/ConfirmationService")
	ctx, span := tr.Start(ctx, "ConfirmReply",
		trace.WithAttributes(attribute.String("msg91.request_id", ev.RequestID)),
	)
	defer span.End()

	if ev.ContentType != domain.ContentTypeButton {
		return nil, ignoredf("Not a button reply")
	}
	if ev.TemplateName != s.TemplateName {
		return nil, ignoredf("Unexpected template %q", ev.TemplateName)
	}
	if ev.RequestID == "" || ev.Button == "" {
		return nil, ignoredf("Missing requestId or button")
	}

	var btn struct {
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal([]byte(ev.Button), &btn); err != nil {
		return nil, ignoredf("Unparseable button payload")
	}
	if !domain.IsAffirmative(btn.Payload) {
		return nil, ignoredf("Not YES")
	}

	tag := domain.CorrelationTag(ev.RequestID)
	order, err := searchOrder(ctx, s.SearchAttempts, s.SearchDelay, func(ctx context.Context) (*domain.Order, error) {
		return s.Store.FindOrderByTag(ctx, tag)
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		// Legitimate when the outbound tagging has not landed yet or
		// failed silently; MSG91 must not see an error for it.
		return nil, ignoredf("Order not found for tag %s", tag)
	}
	span.SetAttributes(attribute.String("order.name", order.Name))

	if !order.IsCashOnDelivery() {
		return nil, ignoredf("Not COD order")
	}
	if order.HasTag(domain.ConfirmationMarker) {
		return nil, ignoredf("Already confirmed")
	}

	if err := s.Store.AddOrderTags(ctx, order.ID, []string{domain.ConfirmationMarker}); err != nil {
		return nil, err
	}

	return &ConfirmOutcome{OrderName: order.Name}, nil
}

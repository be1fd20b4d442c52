// Package services – NotifierService
//
// This file implements the outbound half of the correlation protocol: when
// MSG91 reports that the COD confirmation message reached the customer, the
// service resolves the order referenced in the message body and tags it
// with MSG91_<requestId>. That tag is the only link the inbound flow has
// back to the order, so this write must land before the customer replies.
//
// Observability: the public method is OpenTelemetry-instrumented; spans
// include the request id and resolved order name.
package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// NotifierService turns delivery notifications into correlation tags.
type NotifierService struct {
	Store OrderStore

	// TemplateName is the only template acted on; other templates are
	// ignored without touching the store.
	TemplateName string

	// OrderField names the content slot carrying the rendered order name,
	// e.g. "body_2".
	OrderField string

	// SearchAttempts and SearchDelay bound the order search retry loop.
	SearchAttempts int
	SearchDelay    time.Duration
}

// TagOutcome reports a successful correlation-tag write.
type TagOutcome struct {
	OrderName string
	TagAdded  string
}

// TagDelivery validates the delivery event, resolves the referenced order
// (retrying against store read lag), and appends the correlation tag.
//
// Idempotency is read-then-check against the remote tag set: an order that
// already carries this request's tag is reported as ignored without a
// second write. Two concurrent deliveries for the same request can both
// pass the check; the additive tag mutation makes that race produce a
// duplicate-free tag set rather than lost data.
func (s *NotifierService) TagDelivery(ctx context.Context, ev domain.DeliveryEvent) (*TagOutcome, error) {
	tr := otel.Tracer("services/NotifierService")
	ctx, span := tr.Start(ctx, "TagDelivery",
		trace.WithAttributes(attribute.String("msg91.request_id", ev.RequestID)),
	)
	defer span.End()

	if !strings.EqualFold(ev.EventName, domain.EventDelivered) {
		return nil, ignoredf("Not a delivered event")
	}
	if ev.TemplateName != s.TemplateName {
		return nil, ignoredf("Unexpected template %q", ev.TemplateName)
	}
	if ev.RequestID == "" || ev.Content == "" {
		return nil, ignoredf("Missing requestId or content")
	}

	ref, err := s.orderReference(ev.Content)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.reference", ref))

	order, err := searchOrder(ctx, s.SearchAttempts, s.SearchDelay, func(ctx context.Context) (*domain.Order, error) {
		return s.Store.FindOrderByName(ctx, ref)
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ignoredf("Order not found for reference %s", ref)
	}
	span.SetAttributes(attribute.String("order.name", order.Name))

	tag := domain.CorrelationTag(ev.RequestID)
	if order.HasTag(tag) {
		return nil, ignoredf("Already tagged")
	}

	if err := s.Store.AddOrderTags(ctx, order.ID, []string{tag}); err != nil {
		return nil, err
	}
	// Mirror the request id into a metafield for manual diagnostics; it is
	// never used for lookup.
	if err := s.Store.SetOrderMetafield(ctx, order.ID, domain.MetafieldNamespace, domain.MetafieldRequestKey, ev.RequestID); err != nil {
		return nil, err
	}

	return &TagOutcome{OrderName: order.Name, TagAdded: tag}, nil
}

// orderReference parses the JSON-encoded content and reduces the configured
// slot's text to a digits-only order reference. Malformed provider content
// is an ignorable condition, never a server error.
func (s *NotifierService) orderReference(content string) (string, error) {
	var slots map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &slots); err != nil {
		return "", ignoredf("Unparseable content")
	}

	field := s.OrderField
	if field == "" {
		field = "body_2"
	}
	raw, ok := slots[field]
	if !ok {
		return "", ignoredf("Content field %q missing", field)
	}

	var slot struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &slot); err != nil {
		return "", ignoredf("Unparseable content field %q", field)
	}

	ref := domain.ExtractOrderReference(slot.Text)
	if ref == "" {
		return "", ignoredf("No order reference in content")
	}
	return ref, nil
}

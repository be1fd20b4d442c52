// Package handlers provides the HTTP endpoints for the MSG91 webhook relay.
//
// Handlers are transport-thin: they bind the webhook payload, call the
// application services, and translate outcomes into the response contract
// MSG91 depends on. Business non-events (wrong template, reply of NO, order
// not found) are acknowledged with 200 so MSG91 never redelivers them; only
// genuine processing failures return 500, which MSG91 retries.
package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/services"
)

//
// Service contracts (context-aware)
//

// DeliveryTagger processes MSG91 delivery reports for the confirmation
// template and tags the matching Shopify order.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DeliveryTagger interface {
	TagDelivery(ctx context.Context, ev domain.DeliveryEvent) (*services.TagOutcome, error)
}

// ReplyConfirmer processes inbound customer replies and applies the
// confirmation marker to the correlated order.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReplyConfirmer interface {
	ConfirmReply(ctx context.Context, ev domain.ReplyEvent) (*services.ConfirmOutcome, error)
}

//
// Handler wiring
//

// Handlers groups the webhook endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from correlation logic.
// The optional db handle feeds the audit log; a nil db disables auditing.
type Handlers struct {
	notifier  DeliveryTagger
	confirmer ReplyConfirmer
	db        *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(notifier DeliveryTagger, confirmer ReplyConfirmer, db *gorm.DB) *Handlers {
	return &Handlers{notifier: notifier, confirmer: confirmer, db: db}
}

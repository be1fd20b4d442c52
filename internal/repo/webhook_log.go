// Package repo – webhook audit log.
//
// The handlers append one row per processed webhook so operators can
// reconcile what MSG91 sent against what Shopify shows. The log is
// write-only from the request path: nothing in the correlation flow ever
// reads it back, so a failed insert must never fail a webhook.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// CreateWebhookLog inserts one audit row. The row ID is a randomly generated
// UUID (string), and CreatedAt is set to UTC.
func CreateWebhookLog(ctx context.Context, db *gorm.DB, route, requestID, outcome, orderName, detail string) (*domain.WebhookLog, error) {
	l := &domain.WebhookLog{
		ID:        uuid.NewString(),
		Route:     route,
		RequestID: requestID,
		Outcome:   outcome,
		OrderName: orderName,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

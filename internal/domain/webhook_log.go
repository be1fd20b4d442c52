package domain

import "time"

// WebhookLog records the outcome of one processed webhook so that ignored
// or failed events can be reconciled against Shopify by hand. It is an
// append-only audit trail: the handlers write it best-effort and nothing
// in the request path ever reads it back. Correlation and idempotency
// decisions are made against the remote order's tags, never this table.
type WebhookLog struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Route     string    `json:"route"      gorm:"type:varchar(32);not null;index:idx_route_created,priority:1"`
	RequestID string    `json:"request_id" gorm:"type:varchar(128);not null;index"`
	Outcome   string    `json:"outcome"    gorm:"type:varchar(16);not null"`
	OrderName string    `json:"order_name" gorm:"type:varchar(64)"`
	Detail    string    `json:"detail"     gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_route_created,priority:2"`
}

// TableName returns the database table name for WebhookLog.
func (WebhookLog) TableName() string { return "webhook_logs" }

package services

import (
	"context"
	"time"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// OrderStore is the single collaborator through which every order read and
// write happens. The canonical implementation is the Shopify GraphQL client;
// tests substitute stubs. All state this service relies on lives behind this
// interface, on the remote order itself.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type OrderStore interface {
	// FindOrderByName returns the first order whose name matches the
	// digits-only reference, or (nil, nil) when none does.
	FindOrderByName(ctx context.Context, ref string) (*domain.Order, error)
	// FindOrderByTag returns the first order carrying the tag, or (nil, nil).
	FindOrderByTag(ctx context.Context, tag string) (*domain.Order, error)
	// AddOrderTags appends tags to the order without clobbering existing ones.
	AddOrderTags(ctx context.Context, orderID string, tags []string) error
	// SetOrderMetafield writes a text metafield on the order.
	SetOrderMetafield(ctx context.Context, ownerID, namespace, key, value string) error
}

// searchOrder polls find up to attempts times with a fixed delay between
// attempts, returning the first match. The store's order index can lag the
// webhook that triggered the search, so a miss is retried until the budget
// is exhausted; upstream errors are treated as transient and consume the
// same budget. The wait honors ctx so a disconnected client stops the loop.
//
// Returns (nil, nil) when the budget ends on a clean miss, and (nil, err)
// when the final attempt failed upstream.
func searchOrder(ctx context.Context, attempts int, delay time.Duration, find func(context.Context) (*domain.Order, error)) (*domain.Order, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		order, err := find(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if order != nil {
			return order, nil
		}
		lastErr = nil
	}
	return nil, lastErr
}

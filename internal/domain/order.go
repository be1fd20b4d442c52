package domain

import "strings"

// Order is the read-only snapshot of a Shopify order this service works
// with. The order itself lives in Shopify; this service only reads the
// fields below and appends tags, never removing or rewriting anything.
type Order struct {
	// ID is the Shopify GID, e.g. "gid://shopify/Order/123".
	ID string
	// Name is the display name, e.g. "#V1592".
	Name string
	// Tags is the order's current tag set. Shopify returns it unordered;
	// duplicates are the writer's responsibility to avoid.
	Tags []string
	// PaymentGatewayNames describes how the order was paid, e.g.
	// ["Cash on Delivery"].
	PaymentGatewayNames []string
}

// HasTag reports whether the order already carries tag (exact match).
func (o *Order) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsCashOnDelivery reports whether any payment gateway descriptor contains
// "cash", case-insensitively. This is the COD eligibility rule: it guards
// against confirming an order reached through a bogus correlation match.
func (o *Order) IsCashOnDelivery() bool {
	for _, gw := range o.PaymentGatewayNames {
		if strings.Contains(strings.ToLower(gw), "cash") {
			return true
		}
	}
	return false
}

package domain

import "strings"

const (
	// EventDelivered is the DeliveryEvent.EventName value that marks a
	// message as having reached the customer.
	EventDelivered = "delivered"

	// ContentTypeButton is the ReplyEvent.ContentType value for button taps.
	ContentTypeButton = "button"

	// AffirmativeReply is the only button payload treated as a confirmation.
	// The decision is binary; anything else is ignored.
	AffirmativeReply = "YES"

	// ConfirmationMarker is the terminal tag applied to a confirmed order.
	// At most one is ever written per order.
	ConfirmationMarker = "COD Confirmed"

	// MetafieldNamespace and MetafieldRequestKey identify the order
	// metafield that records the MSG91 request id for manual diagnostics.
	MetafieldNamespace  = "msg91"
	MetafieldRequestKey = "request_id"

	correlationPrefix = "MSG91_"
)

// CorrelationTag builds the order tag that links a delivery notification to
// the customer's later reply, e.g. "MSG91_abc123". It is the only artifact
// this service creates on an order besides the confirmation marker.
func CorrelationTag(requestID string) string {
	return correlationPrefix + requestID
}

// ExtractOrderReference reduces a rendered order name like "#V1592" to the
// digits-only reference used to search Shopify ("1592"). Digits-only is the
// one rule that resolves prefixed order names ("#V1592") via a wildcard
// name filter; it returns "" when the text carries no digits.
func ExtractOrderReference(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAffirmative reports whether a button payload counts as a YES, ignoring
// surrounding whitespace and case.
func IsAffirmative(payload string) bool {
	return strings.EqualFold(strings.TrimSpace(payload), AffirmativeReply)
}

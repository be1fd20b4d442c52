// Package domain defines the webhook payloads received from MSG91, the
// snapshot of the Shopify order this service reads, and the correlation
// rules that link an outbound delivery notification to the customer's
// eventual reply.
package domain

// DeliveryEvent is the MSG91 callback posted when an outbound WhatsApp/SMS
// message reaches the customer. Only delivery confirmations for the COD
// template are acted on; everything else is ignored at the handler level.
//
// Content is a JSON-encoded string of rendered template slots, e.g.
// {"body_2":{"text":"#V1592"}}; the slot carrying the order name is
// configurable (MSG91_ORDER_FIELD).
type DeliveryEvent struct {
	// RequestID is the provider-issued correlation string for this send.
	RequestID string `json:"requestId"`
	// EventName must equal "delivered" for the event to be processed.
	EventName string `json:"eventName"`
	// TemplateName identifies the message template that was sent.
	TemplateName string `json:"templateName"`
	// Content holds the rendered template body as a JSON-encoded string.
	Content string `json:"content"`
}

// ReplyEvent is the MSG91 callback posted when the customer interacts with
// the message, e.g. taps the YES button. Button is a JSON-encoded string
// with a "payload" field carrying the button value.
type ReplyEvent struct {
	RequestID    string `json:"requestId"`
	ContentType  string `json:"contentType"`
	Button       string `json:"button"`
	TemplateName string `json:"templateName"`
}

// Package services implements the two webhook flows: tagging an order when
// a COD confirmation message is delivered, and marking it confirmed when
// the customer replies YES. This file defines the error vocabulary shared
// by both flows.
//
// The key distinction is between conditions that are normal business
// outcomes (wrong template, no matching order, duplicate event, non-COD
// order, a reply that isn't YES) and genuine failures (transport errors,
// mutation rejections). The former become IgnoredError and must surface to
// MSG91 as HTTP 200 so the provider never retry-storms; only the latter
// may become HTTP 500.
package services

import (
	"errors"
	"fmt"
)

// IgnoredError marks a webhook that was understood but deliberately not
// acted on. Reason is safe to return to the caller verbatim.
type IgnoredError struct {
	Reason string
}

// Error implements the error interface.
func (e *IgnoredError) Error() string { return e.Reason }

// ignoredf builds an IgnoredError with a formatted reason.
func ignoredf(format string, args ...any) error {
	return &IgnoredError{Reason: fmt.Sprintf(format, args...)}
}

// IgnoreReason returns the ignore reason and true when err (or anything it
// wraps) is an IgnoredError. Handlers use it to pick between the 200
// "ignored" envelope and the 500 error envelope.
func IgnoreReason(err error) (string, bool) {
	var ie *IgnoredError
	if errors.As(err, &ie) {
		return ie.Reason, true
	}
	return "", false
}

// Package normalize provides canonical forms for user-entered identity
// fields before they are stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address. The result is the
// idempotency key for learner-account provisioning, so every lookup and
// every write must pass through here.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Code uppercases and trims a promo code. Codes are normalized at creation
// and at lookup so matching is effectively case-insensitive.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

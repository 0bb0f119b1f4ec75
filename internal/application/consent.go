package application

import "strings"

// ParseConsent accepts "true" or "false" in any case. Everything else,
// including an empty header, is unspecified.
func ParseConsent(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// ResolveConsent returns the first explicit consent flag in precedence order.
//
// A nil result means the caller said nothing, and dispatch proceeds: the
// relay follows an opt-out model. Only an explicit false suppresses delivery.
func ResolveConsent(flags ...*bool) *bool {
	for _, f := range flags {
		if f != nil {
			return f
		}
	}
	return nil
}

// ConsentDenied reports whether consent resolved to an explicit false.
func ConsentDenied(consent *bool) bool {
	return consent != nil && !*consent
}

package handlers

import (
	"net/http"
	"strings"
)

// ResolveClientIP prefers the caller-supplied address, then the first
// X-Forwarded-For hop, then X-Real-IP.
func ResolveClientIP(h http.Header, explicit string) string {
	if ip := strings.TrimSpace(explicit); ip != "" {
		return ip
	}

	if forwarded := h.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	return strings.TrimSpace(h.Get("X-Real-IP"))
}

func ResolveUserAgent(h http.Header, explicit string) string {
	if ua := strings.TrimSpace(explicit); ua != "" {
		return ua
	}
	return strings.TrimSpace(h.Get("User-Agent"))
}

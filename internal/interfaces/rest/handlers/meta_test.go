package handlers_test

import (
	"net/http"
	"testing"

	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest/handlers"
	"github.com/stretchr/testify/assert"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name     string
		header   http.Header
		explicit string
		want     string
	}{
		{"explicit wins", http.Header{"X-Forwarded-For": {"1.1.1.1"}}, " 9.9.9.9 ", "9.9.9.9"},
		{"first forwarded hop", http.Header{"X-Forwarded-For": {" 1.1.1.1 , 2.2.2.2"}}, "", "1.1.1.1"},
		{"real ip fallback", http.Header{"X-Real-Ip": {"3.3.3.3"}}, "", "3.3.3.3"},
		{"empty forwarded falls through", http.Header{"X-Forwarded-For": {" , 2.2.2.2"}, "X-Real-Ip": {"3.3.3.3"}}, "", "3.3.3.3"},
		{"nothing", http.Header{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handlers.ResolveClientIP(tt.header, tt.explicit))
		})
	}
}

func TestResolveUserAgent(t *testing.T) {
	h := http.Header{"User-Agent": {" Mozilla/5.0 "}}

	assert.Equal(t, "custom", handlers.ResolveUserAgent(h, "custom"))
	assert.Equal(t, "Mozilla/5.0", handlers.ResolveUserAgent(h, "  "))
	assert.Equal(t, "", handlers.ResolveUserAgent(http.Header{}, ""))
}

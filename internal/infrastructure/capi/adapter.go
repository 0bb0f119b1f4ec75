package capi

import "github.com/DanielPopoola/capi-relay/internal/application"

var (
	_ application.ProviderAdapter = (*LinkedInAdapter)(nil)
	_ application.ProviderAdapter = (*QuoraAdapter)(nil)
	_ application.ProviderClient  = (*HTTPClient)(nil)
	_ application.ProviderClient  = (*RetryClient)(nil)
)

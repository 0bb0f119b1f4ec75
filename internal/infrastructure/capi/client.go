package capi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/config"
)

// Provider responses are small JSON documents; anything beyond this is not
// needed for warnings or error messages.
const maxResponseBytes = 1 << 20

// HTTPClient performs exactly one delivery attempt.
type HTTPClient struct {
	httpClient *http.Client
}

func NewHTTPClient(cfg config.ProviderConfig) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func NewHTTPClientWith(httpClient *http.Client) *HTTPClient {
	return &HTTPClient{httpClient: httpClient}
}

func (c *HTTPClient) Send(ctx context.Context, req application.DispatchRequest) (*application.ProviderResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	// A failed body read after a 2xx still means the event was accepted.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &application.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.StatusCode),
			Header:     resp.Header,
			Body:       body,
		}
	}

	return &application.ProviderResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// errorMessage picks the most descriptive field a provider error body offers.
func errorMessage(body []byte, status int) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"message", "error", "details"} {
			if msg := describe(parsed[key]); msg != "" {
				return msg
			}
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unknown"
}

func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

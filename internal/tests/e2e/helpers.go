package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/stretchr/testify/require"
)

const (
	testPixelID       = "pixel-e2e"
	testLinkedInToken = "li-token"
	testQuoraToken    = "quora-token"
)

// providerCall is one request received by a fake provider.
type providerCall struct {
	Header http.Header
	Body   []byte
}

// fakeProvider answers with a scripted sequence of statuses; the last one
// repeats once the script runs out.
type fakeProvider struct {
	server *httptest.Server

	mu       sync.Mutex
	statuses []int
	delay    time.Duration
	calls    []providerCall
}

func newFakeProvider(t *testing.T, statuses ...int) *fakeProvider {
	t.Helper()
	if len(statuses) == 0 {
		statuses = []int{http.StatusOK}
	}

	p := &fakeProvider{statuses: statuses}
	p.server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.calls = append(p.calls, providerCall{Header: r.Header.Clone(), Body: body})
	status := p.statuses[0]
	if len(p.statuses) > 1 {
		p.statuses = p.statuses[1:]
	}
	delay := p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Restli-Request-Id", "req-e2e")
	w.WriteHeader(status)
	if status >= 400 {
		_, _ = w.Write([]byte(`{"message":"provider says no"}`))
		return
	}
	_, _ = w.Write([]byte(`{"warnings":["field ignored"]}`))
}

func (p *fakeProvider) setDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delay = d
}

func (p *fakeProvider) Calls() []providerCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]providerCall, len(p.calls))
	copy(out, p.calls)
	return out
}

// memoryDeliveryLog keeps recorded outcomes for assertions.
type memoryDeliveryLog struct {
	mu       sync.Mutex
	outcomes []domain.DispatchOutcome
}

func (l *memoryDeliveryLog) Record(_ context.Context, outcome *domain.DispatchOutcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, *outcome)
	return nil
}

func (l *memoryDeliveryLog) Outcomes() []domain.DispatchOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.DispatchOutcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

func testConfig(linkedInURL, quoraURL string) *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:           "0",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			IdleTimeout:    5 * time.Second,
			RequestTimeout: 3 * time.Second,
			MaxBodyBytes:   64 << 10,
		},
		Retry:    config.RetryConfig{BaseDelay: time.Millisecond, MaxAttempts: 3},
		Provider: config.ProviderConfig{Timeout: 2 * time.Second},
		LinkedIn: config.LinkedInConfig{
			Token:    testLinkedInToken,
			Endpoint: linkedInURL,
			Version:  "202405",
		},
		Quora: config.QuoraConfig{
			Token:    testQuoraToken,
			PixelID:  testPixelID,
			Endpoint: quoraURL,
		},
		DeliveryLog: config.DeliveryLogConfig{Driver: "none"},
		Metrics:     config.MetricsConfig{Enabled: true},
	}
}

// TestClient wraps HTTP calls to the relay.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do sends body (marshalled when not nil) and returns the response with its
// body already read.
func (c *TestClient) Do(t *testing.T, method, path string, body any, header http.Header) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func (c *TestClient) PostJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	resp, raw := c.Do(t, http.MethodPost, path, body, nil)
	return resp, decodeObject(t, raw)
}

func decodeObject(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

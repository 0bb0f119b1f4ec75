package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHash(t *testing.T) {
	// sha256("test@example.com")
	const digest = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"

	t.Run("normalizes and hashes", func(t *testing.T) {
		out, err := execute(t, "", "hash", "  Test@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, digest+"\n", out)
	})

	t.Run("hashed flag trusts input", func(t *testing.T) {
		out, err := execute(t, "", "hash", "--hashed", "ABC")
		require.NoError(t, err)
		assert.Equal(t, "abc\n", out)
	})

	t.Run("detect keeps digests", func(t *testing.T) {
		out, err := execute(t, "", "hash", "--detect", strings.ToUpper(digest), "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, digest+"\n"+digest+"\n", out)
	})

	t.Run("blank identifier fails", func(t *testing.T) {
		_, err := execute(t, "", "hash", "   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blank")
	})

	t.Run("flags are exclusive", func(t *testing.T) {
		_, err := execute(t, "", "hash", "--hashed", "--detect", "x")
		require.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quora/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"hasToken":false,"now":1700000000,"env":"prod","pixelId":"px-1"}`))
	}))
	defer server.Close()

	out, err := execute(t, "", "status", "quora", "--url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Env:       prod")
	assert.Contains(t, out, "Token:     MISSING")
	assert.Contains(t, out, "Now:       2023-11-14T22:13:20Z")
	assert.Contains(t, out, "Pixel ID:  px-1")
}

func TestStatus_UnknownProvider(t *testing.T) {
	_, err := execute(t, "", "status", "meta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestSend(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/linkedin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"ok":true,"eventId":"e1","status":"dry_run","payload":{}}`))
	}))
	defer server.Close()

	out, err := execute(t, `{"conversionId":"123","email":"a@b.c"}`, "send", "linkedin", "--dry-run", "--url", server.URL)
	require.NoError(t, err)
	assert.Equal(t, true, received["dryRun"])
	assert.Equal(t, "123", received["conversionId"])
	assert.Contains(t, out, `"status": "dry_run"`)
}

func TestSend_Skipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Capi-Skipped", "no_consent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	out, err := execute(t, `{"conversionId":"123"}`, "send", "linkedin", "--url", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "skipped: no consent\n", out)
}

func TestSend_RelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"code":"missing_token"}`))
	}))
	defer server.Close()

	_, err := execute(t, `{"conversionId":"123"}`, "send", "linkedin", "--url", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "missing_token")
}

func TestPrepareEvent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		dryRun  bool
		wantErr bool
		want    string
	}{
		{name: "passes through", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "forces dry run", raw: `{"dryRun":false}`, dryRun: true, want: `{"dryRun":true}`},
		{name: "rejects array", raw: `[1]`, wantErr: true},
		{name: "rejects null", raw: `null`, wantErr: true},
		{name: "rejects garbage", raw: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepareEvent([]byte(tt.raw), tt.dryRun)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestClientFromFlags_InvalidURL(t *testing.T) {
	_, err := execute(t, "", "status", "linkedin", "--url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid relay url")
}

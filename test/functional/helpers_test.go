//go:build functional

// Package functional provides functional tests for the bookshelf REST API.
package functional

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/config"
	"bookshelf/internal/server"
	"bookshelf/internal/store"
)

// DefaultRequestTimeout bounds a single test request.
const DefaultRequestTimeout = 5 * time.Second

// TestServer wraps a real server router over a file-backed SQLite store.
type TestServer struct {
	BaseURL string
	Store   *store.SQLiteStore

	httpServer *httptest.Server
}

// NewTestServer boots the full stack: SQLite store in a temp directory
// (bootstrap included) and the production router on an ephemeral port.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "books.db")
	bookStore, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = bookStore.Close()
	})

	cfg := &config.Config{
		ServerPort:      8080,
		LogLevel:        "error",
		ShutdownTimeout: 5 * time.Second,
		MetricsEnabled:  false,
		DBPath:          dbPath,
	}

	srv := server.New(cfg, zap.NewNop(), bookStore)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &TestServer{
		BaseURL:    ts.URL,
		Store:      bookStore,
		httpServer: ts,
	}
}

// DoRequest issues an HTTP request against the test server and returns the
// status code and raw body.
func (ts *TestServer) DoRequest(t *testing.T, method, path string, body any) (int, []byte, http.Header) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, ts.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp.StatusCode, data, resp.Header
}

// BookPath returns the path for a single book resource.
func BookPath(id int64) string {
	return fmt.Sprintf("/api/v1/books/%d", id)
}

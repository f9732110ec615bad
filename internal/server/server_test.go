package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/highlights/pkg/adapters/fs"
	"github.com/aretw0/highlights/pkg/core"
)

var testDay = time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer wires a server to a real filesystem repository.
func setupTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	repo := fs.NewRepository(fs.Config{Path: dir, Logger: discardLogger()})
	require.NoError(t, repo.Initialize(context.Background()))

	svc := core.NewService(repo,
		core.WithClock(func() time.Time { return testDay }),
		core.WithLocation(time.UTC),
		core.WithServiceLogger(discardLogger()),
	)

	s, err := New(svc, discardLogger(), Config{}, nil)
	require.NoError(t, err)
	return s, dir
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	t.Run("rejects nil service", func(t *testing.T) {
		_, err := New(nil, discardLogger(), Config{}, nil)
		assert.ErrorContains(t, err, "note service cannot be nil")
	})

	t.Run("applies defaults", func(t *testing.T) {
		s, _ := setupTestServer(t)
		assert.Equal(t, "localhost:3000", s.config.Addr)
		assert.Equal(t, []string{"*"}, s.config.CORSOrigins)
	})
}

func TestHandleHealth(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := get(s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "service", resp.Component)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	state, ok := resp.State.(map[string]any)
	require.True(t, ok, "service state is reported")
	assert.Equal(t, "2024-04-20", state["today"])
	assert.Equal(t, "fs-repository", state["repository_type"])
	assert.Equal(t, true, state["transactional"])
	repoState, ok := state["repository"].(map[string]any)
	require.True(t, ok, "repository state is nested")
	assert.Equal(t, float64(0), repoState["locked_notes"])
}

func TestHandleCapture(t *testing.T) {
	t.Run("saves and confirms", func(t *testing.T) {
		s, dir := setupTestServer(t)

		rec := postJSON(t, s, "/save-text", map[string]any{"text": "Hello", "url": "http://x.com", "includeLink": true})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, SavedMessage, rec.Body.String())

		rec = postJSON(t, s, "/api/v1/captures", map[string]any{"text": "World", "url": "http://x.com", "includeLink": true})
		assert.Equal(t, http.StatusOK, rec.Code)

		raw, err := os.ReadFile(filepath.Join(dir, "2024-04-20.md"))
		require.NoError(t, err)
		assert.Equal(t, "## Highlights\n\nHello\n\nWorld\n\nhttp://x.com\n\n", string(raw))
	})

	t.Run("extension-style text with embedded link", func(t *testing.T) {
		s, dir := setupTestServer(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-04-20.md"), []byte("## Highlights\n\nearlier"), 0644))

		text := "quote\n\nhttp://y.com\n\n"
		rec := postJSON(t, s, "/save-text", map[string]any{"text": text, "url": "http://y.com", "includeLink": true})
		require.Equal(t, http.StatusOK, rec.Code)

		raw, err := os.ReadFile(filepath.Join(dir, "2024-04-20.md"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(raw), "http://y.com"))
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		s, _ := setupTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/save-text", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		s, dir := setupTestServer(t)
		rec := postJSON(t, s, "/save-text", map[string]any{"text": "   ", "url": "", "includeLink": false})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		_, err := os.Stat(filepath.Join(dir, "2024-04-20.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects link without url", func(t *testing.T) {
		s, _ := setupTestServer(t)
		rec := postJSON(t, s, "/save-text", map[string]any{"text": "x", "includeLink": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type failingService struct{ err error }

func (f failingService) Capture(context.Context, core.Capture) (core.Result, error) {
	return core.Result{}, f.err
}

func (f failingService) GetNote(context.Context, string) (core.Note, error) {
	return core.Note{}, f.err
}

func (f failingService) ListNotes(context.Context, string) ([]string, error) { return nil, f.err }

func TestStorageFailuresAreSurfaced(t *testing.T) {
	s, err := New(failingService{err: errors.New("write note: disk full")}, discardLogger(), Config{}, nil)
	require.NoError(t, err)

	rec := postJSON(t, s, "/save-text", map[string]any{"text": "x"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEqual(t, SavedMessage, rec.Body.String())

	assert.Equal(t, http.StatusInternalServerError, get(s, "/api/v1/notes").Code)
	assert.Equal(t, http.StatusInternalServerError, get(s, "/api/v1/notes/2024-01-01").Code)
}

func TestNotesEndpoints(t *testing.T) {
	s, dir := setupTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-04-19.md"), []byte("## Highlights\n\nyesterday\n\n"), 0644))
	require.Equal(t, http.StatusOK, postJSON(t, s, "/save-text", map[string]any{"text": "today"}).Code)

	t.Run("list", func(t *testing.T) {
		rec := get(s, "/api/v1/notes")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp NotesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, NotesResponse{Count: 2, Notes: []string{"2024-04-19", "2024-04-20"}}, resp)
	})

	t.Run("list with match", func(t *testing.T) {
		rec := get(s, "/api/v1/notes?match=*-19")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp NotesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, NotesResponse{Count: 1, Notes: []string{"2024-04-19"}}, resp)

		rec = get(s, "/api/v1/notes?match=2023-*")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, NotesResponse{Count: 0, Notes: []string{}}, resp)
	})

	t.Run("list with malformed match", func(t *testing.T) {
		rec := get(s, "/api/v1/notes?match=2024-%5B04")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := get(s, "/api/v1/notes/2024-04-19")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "## Highlights\n\nyesterday\n\n", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	})

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(s, "/api/v1/notes/1999-01-01").Code)
	})

	t.Run("bad id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(s, "/api/v1/notes/yesterday").Code)
	})
}

func TestCORS(t *testing.T) {
	t.Run("preflight", func(t *testing.T) {
		s, _ := setupTestServer(t)
		req := httptest.NewRequest(http.MethodOptions, "/save-text", nil)
		req.Header.Set("Origin", "chrome-extension://abc")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		svc := failingService{}
		s, err := New(svc, discardLogger(), Config{CORSOrigins: []string{"chrome-extension://abc"}}, nil)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "chrome-extension://abc")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "chrome-extension://abc", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec = httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMetrics(t *testing.T) {
	s, _ := setupTestServer(t)
	require.Equal(t, http.StatusOK, postJSON(t, s, "/save-text", map[string]any{"text": "a", "url": "http://x.com", "includeLink": true}).Code)
	require.Equal(t, http.StatusOK, postJSON(t, s, "/save-text", map[string]any{"text": "b"}).Code)
	require.Equal(t, http.StatusBadRequest, postJSON(t, s, "/save-text", map[string]any{"text": ""}).Code)

	rec := get(s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `highlights_captures_total{outcome="created"} 1`)
	assert.Contains(t, body, `highlights_captures_total{outcome="appended"} 1`)
	assert.Contains(t, body, `highlights_captures_total{outcome="invalid"} 1`)
	assert.Contains(t, body, `highlights_links_recorded_total 1`)
	assert.Contains(t, body, `highlights_http_request_duration_seconds`)
}

func TestRun(t *testing.T) {
	s, _ := setupTestServer(t)
	s.config.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}

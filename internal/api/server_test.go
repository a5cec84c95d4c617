package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaplexa/voicetyprd/internal/events"
	"github.com/ideaplexa/voicetyprd/internal/log"
	"github.com/ideaplexa/voicetyprd/internal/reset"
)

type fakeResetter struct {
	result reset.Result
}

func (f *fakeResetter) Run(context.Context) reset.Result { return f.result }

type fakeLogService struct {
	deleted  int
	sweepErr error
	dir      string
	dirErr   error
	openErr  error
	gotDays  int
}

func (f *fakeLogService) ClearOld(days int) (int, error) {
	f.gotDays = days
	return f.deleted, f.sweepErr
}
func (f *fakeLogService) Dir() (string, error) { return f.dir, f.dirErr }
func (f *fakeLogService) OpenFolder() error    { return f.openErr }

func testServer(resetter Resetter, logs LogService) (*Server, http.Handler) {
	s := New(Config{Listen: "127.0.0.1:0", APIKey: "test-key", RetentionDays: 30},
		resetter, logs, events.NewHub(16), log.WithComponent("api"))
	return s, s.setupRoutes()
}

func authed(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Authorization", "Bearer test-key")
	return r
}

func TestHealthzNoAuth(t *testing.T) {
	_, h := testServer(&fakeResetter{}, &fakeLogService{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthzResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestProtectedRoutesRequireKey(t *testing.T) {
	_, h := testServer(&fakeResetter{}, &fakeLogService{})
	for _, route := range []struct{ method, path string }{
		{"POST", "/v1/reset"},
		{"POST", "/v1/logs/sweep"},
		{"GET", "/v1/logs/dir"},
		{"POST", "/v1/logs/open"},
		{"GET", "/v1/events"},
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without key", route.method, route.path)

		w = httptest.NewRecorder()
		r := httptest.NewRequest(route.method, route.path, nil)
		r.Header.Set("Authorization", "Bearer wrong")
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with wrong key", route.method, route.path)
	}
}

func TestResetReturnsAggregateResult(t *testing.T) {
	resetter := &fakeResetter{result: reset.Result{
		RunID:        "run-1",
		Success:      false,
		Errors:       []string{"Failed to clear license: boom"},
		ClearedItems: []string{"Runtime state"},
	}}
	_, h := testServer(resetter, &fakeLogService{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authed("POST", "/v1/reset"))

	// Step failures ride in the body; the HTTP call itself succeeded.
	assert.Equal(t, http.StatusOK, w.Code)
	var res reset.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Failed to clear license: boom"}, res.Errors)
	assert.Equal(t, []string{"Runtime state"}, res.ClearedItems)
}

func TestLogsSweep(t *testing.T) {
	t.Run("explicit days", func(t *testing.T) {
		logs := &fakeLogService{deleted: 3}
		_, h := testServer(&fakeResetter{}, logs)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authed("POST", "/v1/logs/sweep?days=7"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 7, logs.gotDays)
		var resp SweepResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Deleted)
		assert.Equal(t, 7, resp.RetentionDays)
	})

	t.Run("default days from config", func(t *testing.T) {
		logs := &fakeLogService{}
		_, h := testServer(&fakeResetter{}, logs)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authed("POST", "/v1/logs/sweep"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 30, logs.gotDays)
	})

	t.Run("negative days rejected", func(t *testing.T) {
		_, h := testServer(&fakeResetter{}, &fakeLogService{})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authed("POST", "/v1/logs/sweep?days=-1"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric days rejected", func(t *testing.T) {
		_, h := testServer(&fakeResetter{}, &fakeLogService{})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authed("POST", "/v1/logs/sweep?days=soon"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("sweep failure is a server error", func(t *testing.T) {
		logs := &fakeLogService{sweepErr: errors.New("delete voicetypr-2024-01-01.log: permission denied")}
		_, h := testServer(&fakeResetter{}, logs)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authed("POST", "/v1/logs/sweep"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLogsDirAndOpen(t *testing.T) {
	logs := &fakeLogService{dir: "/home/u/.local/share/com.ideaplexa.voicetypr/logs"}
	_, h := testServer(&fakeResetter{}, logs)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authed("GET", "/v1/logs/dir"))
	assert.Equal(t, http.StatusOK, w.Code)
	var dirResp LogDirResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dirResp))
	assert.Equal(t, logs.dir, dirResp.Dir)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, authed("POST", "/v1/logs/open"))
	assert.Equal(t, http.StatusOK, w.Code)

	logs.openErr = errors.New("xdg-open: not found")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, authed("POST", "/v1/logs/open"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEventsReplaysBufferedEvents(t *testing.T) {
	hub := events.NewHub(16)
	s := New(Config{APIKey: "test-key"}, &fakeResetter{}, &fakeLogService{}, hub, log.WithComponent("api"))
	h := s.setupRoutes()

	require.NoError(t, hub.Emit("app-reset", map[string]string{"run_id": "run-1"}))

	ctx, cancel := context.WithCancel(context.Background())
	r := authed("GET", "/v1/events").WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, r)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: app-reset"), "body: %q", body)
	assert.True(t, strings.Contains(body, `"run_id":"run-1"`), "body: %q", body)
}

func TestOpenAPIDocListsRoutes(t *testing.T) {
	_, h := testServer(&fakeResetter{}, &fakeLogService{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/healthz", "/v1/reset", "/v1/logs/sweep", "/v1/logs/dir", "/v1/logs/open", "/v1/events"} {
		assert.Contains(t, paths, p)
	}
}

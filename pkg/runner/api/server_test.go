package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/store"
)

var fixedNow = time.Date(2025, 6, 15, 18, 0, 0, 0, time.Local)

func setupServer(t *testing.T) *Server {
	t.Helper()
	p, err := store.Load(store.PathConfig(t.TempDir()))
	require.NoError(t, err)
	svc := &app.Service{Persistence: p}
	return NewServer(Config{Now: func() time.Time { return fixedNow }}, svc, nil)
}

func do(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRecordAndGetEntry(t *testing.T) {
	srv := setupServer(t)

	rec, _ := do(t, srv, http.MethodPut, "/api/entries/2025-06-15/morning", map[string]int{"value": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, body := do(t, srv, http.MethodGet, "/api/entries/2025-06-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2025-06-15", data["date"])
	assert.Equal(t, float64(6), data["startOfWork"])
	assert.Nil(t, data["endOfWork"])
}

func TestRecordValidation(t *testing.T) {
	srv := setupServer(t)

	rec, _ := do(t, srv, http.MethodPut, "/api/entries/today/evening", map[string]int{"value": 11})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, srv, http.MethodPut, "/api/entries/today/evening", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, srv, http.MethodPut, "/api/entries/today/noon", map[string]int{"value": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, srv, http.MethodGet, "/api/entries/not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingEntry(t *testing.T) {
	srv := setupServer(t)

	rec, _ := do(t, srv, http.MethodGet, "/api/entries/2025-06-14", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, srv, http.MethodDelete, "/api/entries/2025-06-14", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOverrideLifecycle(t *testing.T) {
	srv := setupServer(t)

	rec, body := do(t, srv, http.MethodPut, "/api/schedule/overrides/2025-06-15", map[string]any{"morningTime": "09:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "09:00:00", data["morningTime"])
	assert.Equal(t, "17:20:00", data["eveningTime"])

	rec, body = do(t, srv, http.MethodGet, "/api/schedule", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overrides := body["data"].(map[string]any)["overrides"].([]any)
	assert.Len(t, overrides, 1)

	rec, _ = do(t, srv, http.MethodDelete, "/api/schedule/overrides/2025-06-15", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, body = do(t, srv, http.MethodGet, "/api/schedule/effective/2025-06-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "08:20:00", body["data"].(map[string]any)["morningTime"])

	rec, _ = do(t, srv, http.MethodPut, "/api/schedule/overrides/2025-06-15", map[string]any{"morningTime": "nine"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderAtEvening(t *testing.T) {
	srv := setupServer(t)

	rec, body := do(t, srv, http.MethodGet, "/api/reminder", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "evening", data["type"])
	assert.Equal(t, "evening-and-missed-morning", data["kind"])

	do(t, srv, http.MethodPut, "/api/entries/today/morning", map[string]int{"value": 5})
	do(t, srv, http.MethodPut, "/api/entries/today/evening", map[string]int{"value": 7})

	_, body = do(t, srv, http.MethodGet, "/api/reminder", nil)
	assert.Equal(t, "none", body["data"].(map[string]any)["type"])
}

func TestReport(t *testing.T) {
	srv := setupServer(t)
	do(t, srv, http.MethodPut, "/api/entries/today/morning", map[string]int{"value": 6})
	do(t, srv, http.MethodPut, "/api/entries/today/evening", map[string]int{"value": 8})

	rec, body := do(t, srv, http.MethodGet, "/api/report?last=1w", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(7), data["averageMood"])
	assert.Equal(t, "1w", body["meta"].(map[string]any)["window"])

	rec, _ = do(t, srv, http.MethodGet, "/api/report?last=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

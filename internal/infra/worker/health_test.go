package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthServer_Liveness(t *testing.T) {
	server := NewHealthServer(":0", discardLogger())

	code, body := getHealth(t, server.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	server := NewHealthServer(":0", discardLogger())
	handler := server.Handler()

	code, body := getHealth(t, handler, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body.Status)

	server.SetReady(true)
	code, body = getHealth(t, handler, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Nil(t, body.LastRun)
}

func TestHealthServer_ReportsLastRun(t *testing.T) {
	server := NewHealthServer(":0", discardLogger())
	server.SetReady(true)

	finished := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	server.RecordRun(RunReport{
		FinishedAt:      finished,
		Status:          "success",
		PresentationURL: "https://docs.google.com/presentation/d/abc",
		Articles:        12,
	})

	_, body := getHealth(t, server.Handler(), "/health/ready")
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "success", body.LastRun.Status)
	assert.Equal(t, 12, body.LastRun.Articles)
	assert.True(t, finished.Equal(body.LastRun.FinishedAt))
}

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/BodyComp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRejectedWhenBusy(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Minute},
		Ingest: config.IngestConfig{
			DataDir:       t.TempDir(),
			SystemDir:     t.TempDir(),
			MaxFileSize:   1 << 20,
			MaxConcurrent: 1,
			MaxWait:       10 * time.Millisecond,
		},
	}
	s := NewServer(nil, cfg)

	require.NoError(t, s.runs.Acquire(context.Background()))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RATE002", resp.Code)

	s.runs.Release()
	assert.Equal(t, 0, s.runs.ActiveCount())
}

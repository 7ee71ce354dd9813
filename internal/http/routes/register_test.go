package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmylchreest/bulbctl/internal/http/handlers"
	"github.com/jmylchreest/bulbctl/internal/http/mw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus handlers.HealthStatus

func (f fixedStatus) Health() handlers.HealthStatus { return handlers.HealthStatus(f) }

func testRouter(status fixedStatus, rl mw.ScrapeLimit) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bulbctl_bulb_up 1\n"))
	})
	return NewRouter(logger, Handlers{Metrics: metrics, Status: status}, rl)
}

func TestRouterMetrics(t *testing.T) {
	router := testRouter(fixedStatus{Status: "ok"}, mw.ScrapeLimit{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bulbctl_bulb_up 1")
}

func TestRouterHealth(t *testing.T) {
	tests := []struct {
		name   string
		status fixedStatus
		code   int
	}{
		{"up", fixedStatus{Status: "ok", Device: "192.168.1.40"}, http.StatusOK},
		{"down", fixedStatus{Status: "down", Device: "192.168.1.40", LastError: "timeout"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(tt.status, mw.ScrapeLimit{})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body handlers.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status.Status, body.Status)
			assert.Equal(t, "192.168.1.40", body.Device)
			assert.Equal(t, tt.status.LastError, body.LastError)
		})
	}
}

func TestRouterIndexAndUnknown(t *testing.T) {
	router := testRouter(fixedStatus{Status: "ok"}, mw.ScrapeLimit{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/metrics"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterRateLimit(t *testing.T) {
	router := testRouter(fixedStatus{Status: "ok"}, mw.ScrapeLimitPerMinute(1))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

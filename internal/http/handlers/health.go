package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// --- Health Check ---

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status    string     `json:"status"`
	Device    string     `json:"device"`
	LastPoll  *time.Time `json:"last_poll,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// StatusSource reports the current poller status
type StatusSource interface {
	Health() HealthStatus
}

// HealthCheck answers 200 while the bulb is reachable and 503 otherwise.
func HealthCheck(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := src.Health()
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}

// Index lists the exporter endpoints
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<html><head><title>bulbctl exporter</title></head><body>` +
		`<h1>bulbctl exporter</h1><p><a href="/metrics">Metrics</a></p>` +
		`<p><a href="/healthz">Health</a></p></body></html>`))
}

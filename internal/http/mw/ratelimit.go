package mw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// ScrapeLimit bounds how often one client may hit the exporter
type ScrapeLimit struct {
	// Requests allowed per Window for each client IP. Zero or less disables the limit.
	Requests int
	Window   time.Duration
}

// DefaultScrapeLimit allows 120 requests a minute per client
func DefaultScrapeLimit() ScrapeLimit {
	return ScrapeLimit{Requests: 120, Window: time.Minute}
}

// ScrapeLimitPerMinute returns a limit of n requests a minute per client
func ScrapeLimitPerMinute(n int) ScrapeLimit {
	return ScrapeLimit{Requests: n, Window: time.Minute}
}

// LimitScrapes returns a Chi middleware that answers clients over the limit
// with 429 and logs them at warn level.
func LimitScrapes(logger *slog.Logger, limit ScrapeLimit) func(http.Handler) http.Handler {
	if limit.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if limit.Window <= 0 {
		limit.Window = time.Minute
	}
	return httprate.Limit(limit.Requests, limit.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("http: scrape limit exceeded",
				"remote_addr", r.RemoteAddr,
				"limit", limit.Requests,
				"window", limit.Window,
			)
			http.Error(w, "scrape limit exceeded, slow down", http.StatusTooManyRequests)
		}),
	)
}

package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/bulbctl/internal/errors"
	"github.com/jmylchreest/bulbctl/internal/http/handlers"
	"github.com/jmylchreest/bulbctl/internal/metrics"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
)

// Poller reads the bulb state on an interval and publishes it as metrics
type Poller struct {
	logger   *slog.Logger
	bulb     *bulb.Bulb
	metrics  *metrics.Metrics
	device   string
	interval time.Duration

	mu       sync.RWMutex
	lastPoll time.Time
	lastErr  error
}

// NewPoller creates a poller for one bulb
func NewPoller(logger *slog.Logger, b *bulb.Bulb, m *metrics.Metrics, device string, interval time.Duration) *Poller {
	return &Poller{
		logger:   logger.With("device", device),
		bulb:     b,
		metrics:  m,
		device:   device,
		interval: interval,
	}
}

// Run polls immediately and then on every tick until ctx is done
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one poll cycle. Power is only read from bulbs that meter it and
// a failed power read does not mark the bulb down.
func (p *Poller) Poll(ctx context.Context) error {
	p.metrics.RecordPoll()

	info, err := p.bulb.Info(ctx)
	if err != nil {
		p.metrics.RecordPollError(errorKind(err))
		p.logger.Warn("poll failed", "error", err)
		p.record(err)
		return err
	}
	p.metrics.RecordSysInfo(info)

	if info.HasEmeter() {
		usage, err := p.bulb.Power(ctx)
		if err != nil {
			p.logger.Debug("power read failed", "error", err)
		} else {
			p.metrics.RecordPower(usage)
		}
	}

	p.logger.Debug("poll complete", "alias", info.Alias, "on", info.LightState.IsOn())
	p.record(nil)
	return nil
}

func (p *Poller) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPoll = time.Now()
	p.lastErr = err
}

// Health reports the outcome of the last poll
func (p *Poller) Health() handlers.HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := handlers.HealthStatus{Status: "ok", Device: p.device}
	switch {
	case p.lastPoll.IsZero():
		status.Status = "starting"
	case p.lastErr != nil:
		status.Status = "down"
		status.LastError = p.lastErr.Error()
	}
	if !p.lastPoll.IsZero() {
		last := p.lastPoll
		status.LastPoll = &last
	}
	return status
}

// errorKind maps an error to the label used on poll_errors_total
func errorKind(err error) string {
	switch {
	case errors.IsTimeout(err):
		return "timeout"
	case errors.IsTransport(err):
		return "transport"
	case errors.IsProtocol(err):
		return "protocol"
	case errors.IsDevice(err):
		return "device"
	case errors.IsConfiguration(err):
		return "configuration"
	default:
		return "other"
	}
}

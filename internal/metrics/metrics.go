// Package metrics provides Prometheus metrics for bulb exchanges and the
// state of a polled bulb.
package metrics

import (
	"net/http"
	"time"

	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "bulbctl"
)

// Metrics contains all Prometheus metrics for the exporter.
type Metrics struct {
	// Exchange metrics
	Exchanges       *prometheus.CounterVec
	ExchangeLatency *prometheus.HistogramVec

	// Poll metrics
	Polls      prometheus.Counter
	PollErrors *prometheus.CounterVec

	// Bulb state
	BulbUp         prometheus.Gauge
	BulbOn         prometheus.Gauge
	BulbBrightness prometheus.Gauge
	BulbHue        prometheus.Gauge
	BulbSaturation prometheus.Gauge
	BulbColorTemp  prometheus.Gauge
	BulbRSSI       prometheus.Gauge
	BulbPowerMW    prometheus.Gauge
	BulbInfo       *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

var _ bulb.Observer = (*Metrics)(nil)

// NewMetrics creates a Metrics instance registered on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewMetricsWithRegistry(reg, reg)
}

// NewMetricsWithRegistry creates a new Metrics instance with a custom registry.
func NewMetricsWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Exchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_total",
			Help:      "Total UDP exchanges by outcome",
		}, []string{"outcome"}),
		ExchangeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Histogram of UDP exchange duration by outcome",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"outcome"}),

		Polls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total poll cycles run",
		}),
		PollErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Total failed polls by kind",
		}, []string{"kind"}),

		BulbUp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_up",
			Help:      "Whether the last poll of the bulb succeeded",
		}),
		BulbOn: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_on",
			Help:      "Whether the light is on",
		}),
		BulbBrightness: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_brightness_percent",
			Help:      "Light brightness in percent",
		}),
		BulbHue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_hue_degrees",
			Help:      "Light hue in degrees",
		}),
		BulbSaturation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_saturation_percent",
			Help:      "Light saturation in percent",
		}),
		BulbColorTemp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_color_temp_kelvin",
			Help:      "White colour temperature, 0 in colour mode",
		}),
		BulbRSSI: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_rssi_dbm",
			Help:      "Wi-Fi signal strength reported by the bulb",
		}),
		BulbPowerMW: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_power_mw",
			Help:      "Instantaneous power draw in milliwatts",
		}),
		BulbInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bulb_info",
			Help:      "Static bulb description, always 1",
		}, []string{"alias", "model", "sw_ver", "mac"}),

		gatherer: gatherer,
	}
}

// ObserveExchange records the outcome of one exchange
func (m *Metrics) ObserveExchange(outcome string, duration time.Duration) {
	m.Exchanges.WithLabelValues(outcome).Inc()
	m.ExchangeLatency.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordPoll counts a poll cycle
func (m *Metrics) RecordPoll() {
	m.Polls.Inc()
}

// RecordPollError marks the bulb down and counts the failure
func (m *Metrics) RecordPollError(kind string) {
	m.PollErrors.WithLabelValues(kind).Inc()
	m.BulbUp.Set(0)
}

// RecordSysInfo updates the bulb gauges from a get_sysinfo result
func (m *Metrics) RecordSysInfo(info *bulb.SysInfo) {
	state := info.LightState.Effective()

	m.BulbUp.Set(1)
	m.BulbOn.Set(boolToFloat(info.LightState.IsOn()))
	m.BulbBrightness.Set(float64(state.Brightness))
	m.BulbHue.Set(float64(state.Hue))
	m.BulbSaturation.Set(float64(state.Saturation))
	m.BulbColorTemp.Set(float64(state.ColorTemp))
	m.BulbRSSI.Set(float64(info.RSSI))

	m.BulbInfo.Reset()
	m.BulbInfo.WithLabelValues(info.Alias, info.Model, info.SoftwareVersion, info.MAC).Set(1)
}

// RecordPower updates the power gauge
func (m *Metrics) RecordPower(usage *bulb.RealtimeUsage) {
	m.BulbPowerMW.Set(float64(usage.PowerMW))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

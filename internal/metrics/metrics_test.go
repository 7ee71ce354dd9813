package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if m.Exchanges == nil || m.BulbUp == nil || m.BulbInfo == nil {
		t.Error("metrics not initialised")
	}

	// A second instance uses its own registry and must not panic
	_ = NewMetrics()
}

func TestObserveExchange(t *testing.T) {
	m := NewMetrics()
	m.ObserveExchange(bulb.OutcomeOK, 20*time.Millisecond)
	m.ObserveExchange(bulb.OutcomeOK, 30*time.Millisecond)
	m.ObserveExchange(bulb.OutcomeTimeout, 3500*time.Millisecond)

	if got := testutil.ToFloat64(m.Exchanges.WithLabelValues(bulb.OutcomeOK)); got != 2 {
		t.Errorf("ok exchanges = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Exchanges.WithLabelValues(bulb.OutcomeTimeout)); got != 1 {
		t.Errorf("timeout exchanges = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ExchangeLatency); got != 2 {
		t.Errorf("latency series = %v, want 2", got)
	}
}

func TestRecordSysInfo(t *testing.T) {
	m := NewMetrics()
	m.RecordSysInfo(&bulb.SysInfo{
		Alias:           "Kitchen",
		Model:           "KL130(EU)",
		SoftwareVersion: "1.8.11",
		MAC:             "B09575000000",
		RSSI:            -61,
		LightState: bulb.LightStateInfo{
			OnOff: 0,
			DftOnState: &bulb.LightStateInfo{
				Hue: 120, Saturation: 90, Brightness: 40,
			},
		},
	})

	if got := testutil.ToFloat64(m.BulbUp); got != 1 {
		t.Errorf("BulbUp = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.BulbOn); got != 0 {
		t.Errorf("BulbOn = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.BulbBrightness); got != 40 {
		t.Errorf("BulbBrightness = %v, want 40 from dft_on_state", got)
	}
	if got := testutil.ToFloat64(m.BulbHue); got != 120 {
		t.Errorf("BulbHue = %v, want 120", got)
	}
	if got := testutil.ToFloat64(m.BulbRSSI); got != -61 {
		t.Errorf("BulbRSSI = %v, want -61", got)
	}
	if got := testutil.ToFloat64(m.BulbInfo.WithLabelValues("Kitchen", "KL130(EU)", "1.8.11", "B09575000000")); got != 1 {
		t.Errorf("BulbInfo = %v, want 1", got)
	}
}

func TestRecordPollError(t *testing.T) {
	m := NewMetrics()
	m.BulbUp.Set(1)
	m.RecordPoll()
	m.RecordPollError("timeout")

	if got := testutil.ToFloat64(m.BulbUp); got != 0 {
		t.Errorf("BulbUp = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.Polls); got != 1 {
		t.Errorf("Polls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PollErrors.WithLabelValues("timeout")); got != 1 {
		t.Errorf("PollErrors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordPower(&bulb.RealtimeUsage{PowerMW: 10800})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "bulbctl_bulb_power_mw 10800") {
		t.Errorf("metrics output missing power gauge:\n%s", body)
	}
}

package bulb

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBulb is a loopback UDP peer that answers like a bulb
type fakeBulb struct {
	conn *net.UDPConn

	mu       sync.Mutex
	requests []Command
	sources  []*net.UDPAddr
}

// replyFunc turns a decoded request into raw datagrams sent back to the client
type replyFunc func(req Command) [][]byte

func newFakeBulb(t *testing.T, reply replyFunc) *fakeBulb {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	f := &fakeBulb{conn: conn}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, maxDatagramSize)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			var req Command
			_ = json.Unmarshal(Decrypt(buf[:n], DefaultKey), &req)

			f.mu.Lock()
			f.requests = append(f.requests, req)
			f.sources = append(f.sources, from)
			f.mu.Unlock()

			if reply == nil {
				continue
			}
			for _, d := range reply(req) {
				_, _ = conn.WriteToUDP(d, from)
			}
		}
	}()
	return f
}

func (f *fakeBulb) port() int {
	return f.conn.LocalAddr().(*net.UDPAddr).Port
}

func (f *fakeBulb) endpoint(timeout time.Duration) Endpoint {
	return Endpoint{IP: "127.0.0.1", Port: f.port(), Timeout: timeout}
}

func (f *fakeBulb) lastSource() *net.UDPAddr {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sources) == 0 {
		return nil
	}
	return f.sources[len(f.sources)-1]
}

func (f *fakeBulb) lastRequest() Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// ciphered encodes v as JSON and runs it through the cipher
func ciphered(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return Encrypt(raw, DefaultKey)
}

// answer replies to every request with method results taken from results,
// keyed by namespace and method
func answer(t *testing.T, results map[string]map[string]any) replyFunc {
	return func(req Command) [][]byte {
		resp := Command{}
		for ns, body := range req {
			methods, ok := body.(map[string]any)
			if !ok {
				continue
			}
			out := map[string]any{}
			for m := range methods {
				if r, ok := results[ns][m]; ok {
					out[m] = r
				}
			}
			if len(out) > 0 {
				resp[ns] = out
			}
		}
		return [][]byte{ciphered(t, resp)}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingObserver collects exchange outcomes
type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveExchange(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.outcomes...)
}

// sysinfoReply is a trimmed get_sysinfo answer from a colour bulb
var sysinfoReply = map[string]any{
	"sw_ver":                 "1.8.11 Build 191113 Rel.105336",
	"hw_ver":                 "2.0",
	"model":                  "KL130(EU)",
	"description":            "Smart Wi-Fi LED Bulb with Color Changing",
	"alias":                  "Kitchen",
	"mic_type":               "IOT.SMARTBULB",
	"dev_state":              "normal",
	"mic_mac":                "B09575000000",
	"deviceId":               "8012ABCDEF",
	"oemId":                  "D5C424D3C480911C",
	"hwId":                   "111E35908497A05512E259BB76801E10",
	"is_factory":             false,
	"is_dimmable":            1,
	"is_color":               1,
	"is_variable_color_temp": 1,
	"light_state": map[string]any{
		"on_off":     1,
		"mode":       "normal",
		"hue":        0,
		"saturation": 0,
		"color_temp": 2700,
		"brightness": 50,
	},
	"rssi":        -52,
	"active_mode": "none",
	"heapsize":    290784,
	"err_code":    0,
}

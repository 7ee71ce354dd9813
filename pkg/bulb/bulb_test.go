package bulb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSender records commands and answers from a canned reply
type stubSender struct {
	mu    sync.Mutex
	cmds  []Command
	reply Command
	err   error
}

var _ Sender = (*stubSender)(nil)

func (s *stubSender) Send(_ context.Context, cmd Command) (Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmd)
	return s.reply, s.err
}

func TestBulbInfoOverUDP(t *testing.T) {
	fake := newFakeBulb(t, answer(t, map[string]map[string]any{
		NamespaceSystem: {MethodGetSysInfo: sysinfoReply},
	}))
	b := NewForEndpoint(fake.endpoint(time.Second), discardLogger())

	info, err := b.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KL130(EU)", info.Model)
	assert.Equal(t, "Kitchen", info.Alias)
	assert.Equal(t, -52, info.RSSI)
	assert.Equal(t, 1, info.IsColor)
	assert.True(t, info.LightState.IsOn())
	assert.Equal(t, 2700, info.LightState.ColorTemp)
	assert.True(t, info.HasEmeter())
}

func TestBulbSetBrightnessOverUDP(t *testing.T) {
	fake := newFakeBulb(t, answer(t, map[string]map[string]any{
		NamespaceLighting: {MethodTransitionState: map[string]any{
			"on_off": 1, "mode": "normal", "hue": 0, "saturation": 0,
			"color_temp": 2700, "brightness": 30, "err_code": 0,
		}},
	}))
	b := NewForEndpoint(fake.endpoint(time.Second), discardLogger())
	b.Transition = 500 * time.Millisecond

	state, err := b.SetBrightness(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, state.Brightness)

	req := fake.lastRequest()
	params := req[NamespaceLighting].(map[string]any)[MethodTransitionState].(map[string]any)
	assert.Equal(t, float64(30), params["brightness"])
	assert.Equal(t, float64(500), params["transition_period"])
	assert.Contains(t, req, "context")
}

func TestBulbOperations(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		method    string
		result    map[string]any
		call      func(b *Bulb) (any, error)
		check     func(t *testing.T, v any)
	}{
		{
			name: "state", namespace: NamespaceLighting, method: MethodGetLightState,
			result: map[string]any{"on_off": float64(1), "brightness": float64(10)},
			call:   func(b *Bulb) (any, error) { return b.State(context.Background()) },
			check:  func(t *testing.T, v any) { assert.Equal(t, 10, v.(*LightStateInfo).Brightness) },
		},
		{
			name: "power off", namespace: NamespaceLighting, method: MethodTransitionState,
			result: map[string]any{"on_off": float64(0)},
			call:   func(b *Bulb) (any, error) { return b.SetPower(context.Background(), false) },
			check:  func(t *testing.T, v any) { assert.False(t, v.(*LightStateInfo).IsOn()) },
		},
		{
			name: "color", namespace: NamespaceLighting, method: MethodTransitionState,
			result: map[string]any{"on_off": float64(1), "hue": float64(94), "saturation": float64(54)},
			call:   func(b *Bulb) (any, error) { return b.SetColor(context.Background(), 94, 54) },
			check:  func(t *testing.T, v any) { assert.Equal(t, 94, v.(*LightStateInfo).Hue) },
		},
		{
			name: "temperature", namespace: NamespaceLighting, method: MethodTransitionState,
			result: map[string]any{"on_off": float64(1), "color_temp": float64(6490)},
			call:   func(b *Bulb) (any, error) { return b.SetTemperature(context.Background(), 6490) },
			check:  func(t *testing.T, v any) { assert.Equal(t, 6490, v.(*LightStateInfo).ColorTemp) },
		},
		{
			name: "apply", namespace: NamespaceLighting, method: MethodTransitionState,
			result: map[string]any{"on_off": float64(1), "hue": float64(200), "color_temp": float64(0)},
			call: func(b *Bulb) (any, error) {
				hue, temp := 200, 0
				return b.Apply(context.Background(), LightTransition{Hue: &hue, ColorTemp: &temp})
			},
			check: func(t *testing.T, v any) { assert.Equal(t, 200, v.(*LightStateInfo).Hue) },
		},
		{
			name: "schedule", namespace: NamespaceSchedule, method: MethodGetRules,
			result: map[string]any{"enable": float64(1), "version": float64(2), "rule_list": []any{
				map[string]any{"id": "A1", "name": "Morning", "enable": float64(1), "wday": []any{float64(0), float64(1)}, "smin": float64(420)},
			}},
			call: func(b *Bulb) (any, error) { return b.Schedule(context.Background()) },
			check: func(t *testing.T, v any) {
				rules := v.(*ScheduleRules)
				require.Len(t, rules.RuleList, 1)
				assert.Equal(t, "Morning", rules.RuleList[0].Name)
				assert.Equal(t, 420, rules.RuleList[0].StartMin)
			},
		},
		{
			name: "cloud", namespace: NamespaceCloud, method: MethodGetCloudInfo,
			result: map[string]any{"username": "me@example.com", "server": "n-devs.tplinkcloud.com", "binded": float64(1), "cld_connection": float64(1)},
			call:   func(b *Bulb) (any, error) { return b.Cloud(context.Background()) },
			check:  func(t *testing.T, v any) { assert.Equal(t, "n-devs.tplinkcloud.com", v.(*CloudStatus).Server) },
		},
		{
			name: "usage", namespace: NamespaceEmeter, method: MethodGetDayStat,
			result: map[string]any{"day_list": []any{
				map[string]any{"year": float64(2022), "month": float64(8), "day": float64(1), "energy_wh": float64(3)},
				map[string]any{"year": float64(2022), "month": float64(8), "day": float64(7), "energy_wh": float64(78)},
			}},
			call:  func(b *Bulb) (any, error) { return b.Usage(context.Background(), 2022, 8) },
			check: func(t *testing.T, v any) { assert.Equal(t, 81, v.(*DayStats).TotalWh()) },
		},
		{
			name: "power", namespace: NamespaceEmeter, method: MethodGetRealtime,
			result: map[string]any{"power_mw": float64(10800)},
			call:   func(b *Bulb) (any, error) { return b.Power(context.Background()) },
			check:  func(t *testing.T, v any) { assert.Equal(t, 10800, v.(*RealtimeUsage).PowerMW) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSender{reply: Command{tt.namespace: map[string]any{tt.method: tt.result}}}
			v, err := tt.call(New(s, discardLogger()))
			require.NoError(t, err)
			tt.check(t, v)

			require.Len(t, s.cmds, 1, "each operation is exactly one exchange")
			_, ok := s.cmds[0][tt.namespace].(map[string]any)[tt.method]
			assert.True(t, ok, "command should target %s.%s", tt.namespace, tt.method)
		})
	}
}

func TestBulbPropagatesSendError(t *testing.T) {
	s := &stubSender{err: ErrTimeout}
	_, err := New(s, nil).Info(context.Background())
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestBulbRejectsInvalidInputWithoutSending(t *testing.T) {
	s := &stubSender{}
	b := New(s, discardLogger())

	_, err := b.SetBrightness(context.Background(), 150)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = b.Usage(context.Background(), 2022, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Empty(t, s.cmds)
}

func TestBulbDeviceError(t *testing.T) {
	s := &stubSender{reply: Command{NamespaceEmeter: map[string]any{"err_code": float64(-1), "err_msg": "module not support"}}}
	_, err := New(s, discardLogger()).Power(context.Background())
	assert.True(t, errors.Is(err, ErrDevice))
}

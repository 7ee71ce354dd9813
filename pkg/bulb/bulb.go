package bulb

import (
	"context"
	"log/slog"
	"time"
)

// Bulb offers the common bulb operations on top of a Sender. Every method is
// exactly one exchange.
type Bulb struct {
	sender Sender
	logger *slog.Logger

	// Transition is applied to every state change made through this Bulb
	Transition time.Duration
}

// New creates a Bulb that talks through sender
func New(sender Sender, logger *slog.Logger) *Bulb {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bulb{sender: sender, logger: logger}
}

// NewForEndpoint creates a Bulb with its own Client for endpoint
func NewForEndpoint(endpoint Endpoint, logger *slog.Logger, observer ...Observer) *Bulb {
	return New(NewClient(endpoint, logger, observer...), logger)
}

func (b *Bulb) call(ctx context.Context, cmd Command, namespace, method string, out any) error {
	resp, err := b.sender.Send(ctx, cmd)
	if err != nil {
		return err
	}
	if err := Decode(resp, namespace, method, out); err != nil {
		b.logger.Debug("bulb: unexpected reply", "namespace", namespace, "method", method, "error", err)
		return err
	}
	return nil
}

func (b *Bulb) transition(ctx context.Context, cmd Command, err error) (*LightStateInfo, error) {
	if err != nil {
		return nil, err
	}
	var state LightStateInfo
	if err := b.call(ctx, cmd, NamespaceLighting, MethodTransitionState, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Info retrieves the device description
func (b *Bulb) Info(ctx context.Context) (*SysInfo, error) {
	var info SysInfo
	if err := b.call(ctx, GetSysInfo(), NamespaceSystem, MethodGetSysInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// State retrieves the current light state
func (b *Bulb) State(ctx context.Context) (*LightStateInfo, error) {
	var state LightStateInfo
	if err := b.call(ctx, GetLightState(), NamespaceLighting, MethodGetLightState, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetPower switches the light on or off and returns the resulting state
func (b *Bulb) SetPower(ctx context.Context, on bool) (*LightStateInfo, error) {
	cmd, err := SetPower(on, b.Transition)
	return b.transition(ctx, cmd, err)
}

// SetBrightness sets brightness in percent
func (b *Bulb) SetBrightness(ctx context.Context, brightness int) (*LightStateInfo, error) {
	cmd, err := SetBrightness(brightness, b.Transition)
	return b.transition(ctx, cmd, err)
}

// SetColor sets hue in degrees and saturation in percent
func (b *Bulb) SetColor(ctx context.Context, hue, saturation int) (*LightStateInfo, error) {
	cmd, err := SetColor(hue, saturation, b.Transition)
	return b.transition(ctx, cmd, err)
}

// SetTemperature sets the white colour temperature in kelvin
func (b *Bulb) SetTemperature(ctx context.Context, kelvin int) (*LightStateInfo, error) {
	cmd, err := SetTemperature(kelvin, b.Transition)
	return b.transition(ctx, cmd, err)
}

// Apply runs an arbitrary transition. Period defaults to b.Transition.
func (b *Bulb) Apply(ctx context.Context, t LightTransition) (*LightStateInfo, error) {
	if t.Period == 0 {
		t.Period = b.Transition
	}
	cmd, err := Transition(t)
	return b.transition(ctx, cmd, err)
}

// Schedule retrieves the schedule rules
func (b *Bulb) Schedule(ctx context.Context) (*ScheduleRules, error) {
	var rules ScheduleRules
	if err := b.call(ctx, GetRules(), NamespaceSchedule, MethodGetRules, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Cloud retrieves the cloud binding status
func (b *Bulb) Cloud(ctx context.Context) (*CloudStatus, error) {
	var status CloudStatus
	if err := b.call(ctx, GetCloudInfo(), NamespaceCloud, MethodGetCloudInfo, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Usage retrieves per-day energy use for a month
func (b *Bulb) Usage(ctx context.Context, year, month int) (*DayStats, error) {
	cmd, err := GetDayStat(year, month)
	if err != nil {
		return nil, err
	}
	var stats DayStats
	if err := b.call(ctx, cmd, NamespaceEmeter, MethodGetDayStat, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Power retrieves the instantaneous power draw
func (b *Bulb) Power(ctx context.Context) (*RealtimeUsage, error) {
	var usage RealtimeUsage
	if err := b.call(ctx, GetRealtime(), NamespaceEmeter, MethodGetRealtime, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

package bulb

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmylchreest/bulbctl/internal/errors"
)

// Protocol namespaces
const (
	NamespaceSystem   = "system"
	NamespaceLighting = "smartlife.iot.smartbulb.lightingservice"
	NamespaceSchedule = "smartlife.iot.common.schedule"
	NamespaceCloud    = "smartlife.iot.common.cloud"
	NamespaceEmeter   = "smartlife.iot.common.emeter"
)

// Protocol methods
const (
	MethodGetSysInfo      = "get_sysinfo"
	MethodGetLightState   = "get_light_state"
	MethodTransitionState = "transition_light_state"
	MethodGetRules        = "get_rules"
	MethodGetCloudInfo    = "get_info"
	MethodGetDayStat      = "get_daystat"
	MethodGetRealtime     = "get_realtime"
)

// Light constraints
const (
	MinBrightness  = 0
	MaxBrightness  = 100
	MaxHue         = 360
	MaxSaturation  = 100
	MinTemperature = 2500
	MaxTemperature = 9000
)

// LightTransition describes a transition_light_state call. Nil fields are
// left out of the command so the bulb keeps their current value.
type LightTransition struct {
	On            *bool
	Brightness    *int
	Hue           *int
	Saturation    *int
	ColorTemp     *int
	Mode          string
	Period        time.Duration
	IgnoreDefault bool
}

func method(namespace, name string, params map[string]any) Command {
	if params == nil {
		params = map[string]any{}
	}
	return Command{namespace: map[string]any{name: params}}
}

// GetSysInfo asks for the device description
func GetSysInfo() Command {
	return method(NamespaceSystem, MethodGetSysInfo, nil)
}

// GetLightState asks for the current light state
func GetLightState() Command {
	return method(NamespaceLighting, MethodGetLightState, nil)
}

// GetRules asks for the configured schedule
func GetRules() Command {
	return method(NamespaceSchedule, MethodGetRules, nil)
}

// GetCloudInfo asks for the cloud binding status
func GetCloudInfo() Command {
	return method(NamespaceCloud, MethodGetCloudInfo, nil)
}

// GetDayStat asks for per-day energy use within one month
func GetDayStat(year, month int) (Command, error) {
	if month < 1 || month > 12 {
		return nil, errors.InvalidInputf("month %d out of range 1-12", month)
	}
	if year < 2000 {
		return nil, errors.InvalidInputf("year %d out of range", year)
	}
	return method(NamespaceEmeter, MethodGetDayStat, map[string]any{
		"year":  year,
		"month": month,
	}), nil
}

// GetRealtime asks for the instantaneous power draw
func GetRealtime() Command {
	return method(NamespaceEmeter, MethodGetRealtime, nil)
}

// Transition builds a transition_light_state command from t after checking
// every set value against the light constraints.
func Transition(t LightTransition) (Command, error) {
	params := map[string]any{}
	if t.On != nil {
		params["on_off"] = boolToInt(*t.On)
	}
	if t.Brightness != nil {
		if *t.Brightness < MinBrightness || *t.Brightness > MaxBrightness {
			return nil, errors.InvalidInputf("brightness %d out of range %d-%d", *t.Brightness, MinBrightness, MaxBrightness)
		}
		params["brightness"] = *t.Brightness
	}
	if t.Hue != nil {
		if *t.Hue < 0 || *t.Hue > MaxHue {
			return nil, errors.InvalidInputf("hue %d out of range 0-%d", *t.Hue, MaxHue)
		}
		params["hue"] = *t.Hue
	}
	if t.Saturation != nil {
		if *t.Saturation < 0 || *t.Saturation > MaxSaturation {
			return nil, errors.InvalidInputf("saturation %d out of range 0-%d", *t.Saturation, MaxSaturation)
		}
		params["saturation"] = *t.Saturation
	}
	if t.ColorTemp != nil {
		// 0 switches the bulb from white to colour mode
		if *t.ColorTemp != 0 && (*t.ColorTemp < MinTemperature || *t.ColorTemp > MaxTemperature) {
			return nil, errors.InvalidInputf("color temperature %dK out of range %d-%d", *t.ColorTemp, MinTemperature, MaxTemperature)
		}
		params["color_temp"] = *t.ColorTemp
	}
	if t.Period < 0 {
		return nil, errors.InvalidInputf("transition period %s is negative", t.Period)
	}
	if t.Mode != "" {
		params["mode"] = t.Mode
	}
	params["transition_period"] = t.Period.Milliseconds()
	params["ignore_default"] = boolToInt(t.IgnoreDefault)

	cmd := method(NamespaceLighting, MethodTransitionState, params)
	cmd["context"] = map[string]any{"source": uuid.NewString()}
	return cmd, nil
}

// SetPower switches the light on or off
func SetPower(on bool, period time.Duration) (Command, error) {
	return Transition(LightTransition{On: &on, Period: period})
}

// SetBrightness turns the light on at brightness percent
func SetBrightness(brightness int, period time.Duration) (Command, error) {
	on := true
	return Transition(LightTransition{
		On:            &on,
		Brightness:    &brightness,
		Mode:          "normal",
		Period:        period,
		IgnoreDefault: true,
	})
}

// SetColor turns the light on in colour mode with hue in degrees and
// saturation in percent
func SetColor(hue, saturation int, period time.Duration) (Command, error) {
	on := true
	temp := 0
	return Transition(LightTransition{
		On:            &on,
		Hue:           &hue,
		Saturation:    &saturation,
		ColorTemp:     &temp,
		Mode:          "normal",
		Period:        period,
		IgnoreDefault: true,
	})
}

// SetTemperature turns the light on in white mode at kelvin
func SetTemperature(kelvin int, period time.Duration) (Command, error) {
	if kelvin == 0 {
		return nil, errors.InvalidInputf("color temperature must be set")
	}
	on := true
	return Transition(LightTransition{
		On:            &on,
		ColorTemp:     &kelvin,
		Mode:          "normal",
		Period:        period,
		IgnoreDefault: true,
	})
}

// boolToInt converts a bool to int (true=1, false=0)
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

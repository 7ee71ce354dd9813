package bulb

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/bulbctl/internal/errors"
)

// LightStateInfo is the light state reported by get_light_state and
// transition_light_state
type LightStateInfo struct {
	OnOff      int             `json:"on_off"`
	Mode       string          `json:"mode,omitempty"`
	Hue        int             `json:"hue"`
	Saturation int             `json:"saturation"`
	ColorTemp  int             `json:"color_temp"`
	Brightness int             `json:"brightness"`
	DftOnState *LightStateInfo `json:"dft_on_state,omitempty"`
}

// IsOn reports whether the light is lit
func (s LightStateInfo) IsOn() bool {
	return s.OnOff == 1
}

// Effective returns the state the light shows or will show when switched on.
// Bulbs that are off report their colour in dft_on_state.
func (s LightStateInfo) Effective() LightStateInfo {
	if !s.IsOn() && s.DftOnState != nil {
		eff := *s.DftOnState
		eff.OnOff = s.OnOff
		return eff
	}
	return s
}

// SysInfo is the get_sysinfo result
type SysInfo struct {
	SoftwareVersion     string         `json:"sw_ver"`
	HardwareVersion     string         `json:"hw_ver"`
	Model               string         `json:"model"`
	Description         string         `json:"description"`
	Alias               string         `json:"alias"`
	MicType             string         `json:"mic_type"`
	DevState            string         `json:"dev_state"`
	MAC                 string         `json:"mic_mac"`
	DeviceID            string         `json:"deviceId"`
	OEMID               string         `json:"oemId"`
	HardwareID          string         `json:"hwId"`
	IsFactory           bool           `json:"is_factory"`
	IsDimmable          int            `json:"is_dimmable"`
	IsColor             int            `json:"is_color"`
	IsVariableColorTemp int            `json:"is_variable_color_temp"`
	LightState          LightStateInfo `json:"light_state"`
	RSSI                int            `json:"rssi"`
	ActiveMode          string         `json:"active_mode"`
	HeapSize            int            `json:"heapsize"`
	ErrCode             int            `json:"err_code"`
}

// HasEmeter reports whether the bulb meters its power draw. Every bulb model
// with the smartbulb lighting service does.
func (s SysInfo) HasEmeter() bool {
	return s.MicType == "IOT.SMARTBULB"
}

// ScheduleRule is one entry of get_rules
type ScheduleRule struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Enable    int            `json:"enable"`
	WeekDays  []int          `json:"wday"`
	StartOpt  int            `json:"stime_opt"`
	StartMin  int            `json:"smin"`
	EndOpt    int            `json:"etime_opt"`
	EndMin    int            `json:"emin"`
	Repeat    int            `json:"repeat"`
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Day       int            `json:"day"`
	StartAct  int            `json:"sact"`
	LightArgs map[string]any `json:"s_light,omitempty"`
}

// ScheduleRules is the get_rules result
type ScheduleRules struct {
	Enable   int            `json:"enable"`
	Version  int            `json:"version"`
	RuleList []ScheduleRule `json:"rule_list"`
}

// CloudStatus is the cloud get_info result
type CloudStatus struct {
	Username      string `json:"username"`
	Server        string `json:"server"`
	Binded        int    `json:"binded"`
	CldConnection int    `json:"cld_connection"`
	IllegalType   int    `json:"illegalType"`
	TCSPStatus    int    `json:"tcspStatus"`
	FwDlPage      string `json:"fwDlPage"`
	StopConnect   int    `json:"stopConnect"`
	FwNotifyType  int    `json:"fwNotifyType"`
}

// DayStat is the energy use of one day
type DayStat struct {
	Year     int `json:"year"`
	Month    int `json:"month"`
	Day      int `json:"day"`
	EnergyWh int `json:"energy_wh"`
}

// DayStats is the get_daystat result
type DayStats struct {
	DayList []DayStat `json:"day_list"`
}

// TotalWh sums the energy of every listed day
func (d DayStats) TotalWh() int {
	total := 0
	for _, day := range d.DayList {
		total += day.EnergyWh
	}
	return total
}

// RealtimeUsage is the get_realtime result
type RealtimeUsage struct {
	PowerMW int `json:"power_mw"`
}

// Extract returns the method object of resp for namespace and method. A
// missing namespace or method is a protocol error; a non-zero err_code is
// a device error.
func Extract(resp Command, namespace, method string) (map[string]any, error) {
	ns, ok := resp[namespace].(map[string]any)
	if !ok {
		return nil, errors.Protocolf("reply has no %q namespace", namespace)
	}
	if code, msg, failed := errCode(ns); failed {
		return nil, errors.Devicef("%s: err_code %d: %s", namespace, code, msg)
	}
	result, ok := ns[method].(map[string]any)
	if !ok {
		return nil, errors.Protocolf("reply has no %s.%s result", namespace, method)
	}
	if code, msg, failed := errCode(result); failed {
		return nil, errors.Devicef("%s.%s: err_code %d: %s", namespace, method, code, msg)
	}
	return result, nil
}

// Decode extracts the method object of resp and unmarshals it into out
func Decode(resp Command, namespace, method string, out any) error {
	result, err := Extract(resp, namespace, method)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(errors.ErrProtocol, err, "failed to re-encode %s.%s", namespace, method)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(errors.ErrProtocol, err, "failed to decode %s.%s", namespace, method)
	}
	return nil
}

// errCode reads err_code/err_msg from a reply object
func errCode(v any) (int, string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0, "", false
	}
	raw, ok := obj["err_code"]
	if !ok {
		return 0, "", false
	}
	code, ok := raw.(float64)
	if !ok || code == 0 {
		return 0, "", false
	}
	msg := ""
	if m, ok := obj["err_msg"]; ok {
		msg = fmt.Sprint(m)
	}
	return int(code), msg, true
}

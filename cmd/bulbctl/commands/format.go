package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/pterm/pterm"
)

var weekDays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// SysInfoTableData returns the table data for a device description
func SysInfoTableData(info *bulb.SysInfo) pterm.TableData {
	return pterm.TableData{
		[]string{pterm.Bold.Sprint("Alias"), pterm.Bold.Sprint(info.Alias)},
		[]string{"Model", info.Model},
		[]string{"Description", info.Description},
		[]string{"Hardware", info.HardwareVersion},
		[]string{"Software", info.SoftwareVersion},
		[]string{"MAC", info.MAC},
		[]string{"Device ID", info.DeviceID},
		[]string{"Signal", fmt.Sprintf("%d dBm", info.RSSI)},
		[]string{"Features", features(info)},
		[]string{"On", strconv.FormatBool(info.LightState.IsOn())},
	}
}

// SysInfoParseable returns the parseable key=value string for a device description
func SysInfoParseable(info *bulb.SysInfo) string {
	return fmt.Sprintf(
		"alias=%q model=%q sw_ver=%q hw_ver=%q mac=%q device_id=%q rssi=%d on=%t",
		info.Alias,
		info.Model,
		info.SoftwareVersion,
		info.HardwareVersion,
		info.MAC,
		info.DeviceID,
		info.RSSI,
		info.LightState.IsOn(),
	)
}

func features(info *bulb.SysInfo) string {
	var f []string
	if info.IsDimmable == 1 {
		f = append(f, "dimmable")
	}
	if info.IsColor == 1 {
		f = append(f, "color")
	}
	if info.IsVariableColorTemp == 1 {
		f = append(f, "variable color temp")
	}
	if len(f) == 0 {
		return "none"
	}
	return strings.Join(f, ", ")
}

// StateTableData returns the table data for a light state. Bulbs that are off
// show the state they return to.
func StateTableData(state *bulb.LightStateInfo) pterm.TableData {
	eff := state.Effective()
	return pterm.TableData{
		[]string{"Property", "Value"},
		[]string{"On", strconv.FormatBool(state.IsOn())},
		[]string{"Mode", orNA(eff.Mode)},
		[]string{"Brightness", fmt.Sprintf("%d%%", eff.Brightness)},
		[]string{"Hue", fmt.Sprintf("%d", eff.Hue)},
		[]string{"Saturation", fmt.Sprintf("%d%%", eff.Saturation)},
		[]string{"Temperature", temperature(eff.ColorTemp)},
	}
}

// StateParseable returns the parseable key=value string for a light state
func StateParseable(state *bulb.LightStateInfo) string {
	eff := state.Effective()
	return fmt.Sprintf(
		"on=%t mode=%q brightness=%d hue=%d saturation=%d color_temp=%d",
		state.IsOn(),
		eff.Mode,
		eff.Brightness,
		eff.Hue,
		eff.Saturation,
		eff.ColorTemp,
	)
}

func temperature(kelvin int) string {
	if kelvin == 0 {
		return "color mode"
	}
	return fmt.Sprintf("%dK", kelvin)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// ScheduleTableData returns the table data for the schedule rules
func ScheduleTableData(rules *bulb.ScheduleRules) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Enabled", "Days", "Start", "Action"}}
	for _, r := range rules.RuleList {
		data = append(data, []string{
			r.ID,
			r.Name,
			strconv.FormatBool(r.Enable == 1),
			days(r.WeekDays),
			clock(r.StartMin),
			action(r.StartAct),
		})
	}
	return data
}

// ScheduleParseable returns one key=value line per rule
func ScheduleParseable(r bulb.ScheduleRule) string {
	return fmt.Sprintf("id=%q name=%q enabled=%t days=%q start=%q action=%q",
		r.ID, r.Name, r.Enable == 1, days(r.WeekDays), clock(r.StartMin), action(r.StartAct))
}

func days(wday []int) string {
	var d []string
	for i, set := range wday {
		if set == 1 && i < len(weekDays) {
			d = append(d, weekDays[i])
		}
	}
	if len(d) == 0 {
		return "-"
	}
	return strings.Join(d, ",")
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func action(sact int) string {
	if sact == 1 {
		return "on"
	}
	return "off"
}

// CloudTableData returns the table data for the cloud binding status
func CloudTableData(status *bulb.CloudStatus) pterm.TableData {
	return pterm.TableData{
		[]string{"Property", "Value"},
		[]string{"Server", orNA(status.Server)},
		[]string{"Username", orNA(status.Username)},
		[]string{"Bound", strconv.FormatBool(status.Binded == 1)},
		[]string{"Connected", strconv.FormatBool(status.CldConnection == 1)},
	}
}

// CloudParseable returns the parseable key=value string for the cloud status
func CloudParseable(status *bulb.CloudStatus) string {
	return fmt.Sprintf("server=%q username=%q bound=%t connected=%t",
		status.Server, status.Username, status.Binded == 1, status.CldConnection == 1)
}

// UsageTableData returns the table data for a month of energy use
func UsageTableData(stats *bulb.DayStats) pterm.TableData {
	data := pterm.TableData{{"Date", "Energy"}}
	for _, d := range stats.DayList {
		data = append(data, []string{
			fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day),
			humanize.Comma(int64(d.EnergyWh)) + " Wh",
		})
	}
	data = append(data, []string{pterm.Bold.Sprint("Total"), pterm.Bold.Sprint(humanize.Comma(int64(stats.TotalWh())) + " Wh")})
	return data
}

// DeviceTableData returns the table data for discovered devices
func DeviceTableData(devices []bulb.DiscoveredDevice) pterm.TableData {
	data := pterm.TableData{{"IP", "Alias", "Model", "On", "Signal"}}
	for _, d := range devices {
		data = append(data, []string{
			d.IP,
			d.SysInfo.Alias,
			d.SysInfo.Model,
			strconv.FormatBool(d.SysInfo.LightState.IsOn()),
			fmt.Sprintf("%d dBm", d.SysInfo.RSSI),
		})
	}
	return data
}

// DeviceParseable returns the parseable key=value string for a discovered device
func DeviceParseable(d bulb.DiscoveredDevice) string {
	return fmt.Sprintf("ip=%q alias=%q model=%q on=%t rssi=%d",
		d.IP, d.SysInfo.Alias, d.SysInfo.Model, d.SysInfo.LightState.IsOn(), d.SysInfo.RSSI)
}

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Persisted setting keys.
const (
	KEY_BATTERY_PERCENTAGE = 0
	KEY_SHOW_DATE          = 1
	KEY_INVERT_COLOURS     = 2
	KEY_BLUETOOTH_VIBRATE  = 3
	KEY_HOURLY_VIBRATE     = 4
)

// DisplayOptions are the user-facing switches of the face.
type DisplayOptions struct {
	ShowBatteryPercentage bool `json:"batteryPercentage"`
	ShowDate              bool `json:"showDate"`
	InvertColours         bool `json:"invertColours"`
	BluetoothVibrate      bool `json:"bluetoothVibrate"`
	HourlyVibrate         bool `json:"hourlyVibrate"`
}

// DefaultOptions is what a first run shows.
func DefaultOptions() DisplayOptions {
	return DisplayOptions{
		ShowBatteryPercentage: true,
		ShowDate:              true,
	}
}

// SettingsPatch is a sparse update; a nil field leaves the option alone.
type SettingsPatch struct {
	ShowBatteryPercentage *bool
	ShowDate              *bool
	InvertColours         *bool
	BluetoothVibrate      *bool
	HourlyVibrate         *bool
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.ShowBatteryPercentage == nil && p.ShowDate == nil && p.InvertColours == nil &&
		p.BluetoothVibrate == nil && p.HourlyVibrate == nil
}

// Merge applies the present fields of p on top of o.
func (p SettingsPatch) Merge(o DisplayOptions) DisplayOptions {
	if p.ShowBatteryPercentage != nil {
		o.ShowBatteryPercentage = *p.ShowBatteryPercentage
	}
	if p.ShowDate != nil {
		o.ShowDate = *p.ShowDate
	}
	if p.InvertColours != nil {
		o.InvertColours = *p.InvertColours
	}
	if p.BluetoothVibrate != nil {
		o.BluetoothVibrate = *p.BluetoothVibrate
	}
	if p.HourlyVibrate != nil {
		o.HourlyVibrate = *p.HourlyVibrate
	}
	return o
}

// fields pairs every persisted key with its patch field.
func (p *SettingsPatch) fields() []struct {
	key int
	val **bool
} {
	return []struct {
		key int
		val **bool
	}{
		{KEY_BATTERY_PERCENTAGE, &p.ShowBatteryPercentage},
		{KEY_SHOW_DATE, &p.ShowDate},
		{KEY_INVERT_COLOURS, &p.InvertColours},
		{KEY_BLUETOOTH_VIBRATE, &p.BluetoothVibrate},
		{KEY_HOURLY_VIBRATE, &p.HourlyVibrate},
	}
}

// LoadOptions reads every option from the store, falling back to the default
// of each missing key on its own.
func LoadOptions(store Store) DisplayOptions {
	o := DefaultOptions()
	read := func(key int, dst *bool) {
		if store.Exists(key) {
			*dst = store.ReadInt(key) != 0
		}
	}
	read(KEY_BATTERY_PERCENTAGE, &o.ShowBatteryPercentage)
	read(KEY_SHOW_DATE, &o.ShowDate)
	read(KEY_INVERT_COLOURS, &o.InvertColours)
	read(KEY_BLUETOOTH_VIBRATE, &o.BluetoothVibrate)
	read(KEY_HOURLY_VIBRATE, &o.HourlyVibrate)
	return o
}

// ApplyIncomingSettings persists only the keys present in patch and then
// reloads the options from the store.
func ApplyIncomingSettings(store Store, patch SettingsPatch) (DisplayOptions, error) {
	for _, f := range patch.fields() {
		if *f.val == nil {
			continue
		}
		if err := store.WriteInt(f.key, boolToInt(**f.val)); err != nil {
			return LoadOptions(store), fmt.Errorf("persisting setting %d: %w", f.key, err)
		}
	}
	return LoadOptions(store), nil
}

// message names accepted for each key, in addition to the numeric key id
var settingAliases = map[string]int{
	"KEY_BATTERY_PERCENTAGE": KEY_BATTERY_PERCENTAGE,
	"batteryPercentage":      KEY_BATTERY_PERCENTAGE,
	"KEY_SHOW_DATE":          KEY_SHOW_DATE,
	"showDate":               KEY_SHOW_DATE,
	"KEY_INVERT_COLOURS":     KEY_INVERT_COLOURS,
	"invertColours":          KEY_INVERT_COLOURS,
	"KEY_BLUETOOTH_VIBRATE":  KEY_BLUETOOTH_VIBRATE,
	"bluetoothVibrate":       KEY_BLUETOOTH_VIBRATE,
	"KEY_HOURLY_VIBRATE":     KEY_HOURLY_VIBRATE,
	"hourlyVibrate":          KEY_HOURLY_VIBRATE,
}

// ParseSettingsMessage turns an inbound key/value message into a patch.
// Unknown keys and values that are not boolean-like are skipped. When a key
// is given both by name and by numeric id, the name wins.
func ParseSettingsMessage(msg map[string]interface{}) SettingsPatch {
	var p SettingsPatch
	slots := p.fields()
	named := make(map[int]bool)
	set := func(key int, raw interface{}, byName bool) {
		if key < 0 || key >= len(slots) {
			return
		}
		if !byName && named[key] {
			return
		}
		v, ok := messageBool(raw)
		if !ok {
			return
		}
		*slots[key].val = &v
		if byName {
			named[key] = true
		}
	}

	// sorted so two names for one key resolve the same way every time
	names := make([]string, 0, len(msg))
	for k := range msg {
		if _, ok := settingAliases[k]; ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	for _, k := range names {
		set(settingAliases[k], msg[k], true)
	}
	for k, raw := range msg {
		if _, ok := settingAliases[k]; ok {
			continue
		}
		if n, err := strconv.Atoi(k); err == nil {
			set(n, raw, false)
		}
	}
	return p
}

func messageBool(raw interface{}) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case int:
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on":
			return true, true
		case "0", "false", "off":
			return false, true
		}
	}
	return false, false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

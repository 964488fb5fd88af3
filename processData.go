package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-ping/ping"
)

const (
	DEFAULT_BATTERY_PATH     = "/sys/class/power_supply/battery"
	DEFAULT_BATTERY_INTERVAL = 10 * time.Second
	DEFAULT_LINK_INTERVAL    = 15 * time.Second
	LINK_PING_TIMEOUT        = 2 * time.Second
)

// BatteryState is one reading of the battery.
type BatteryState struct {
	Percent  int
	Charging bool
}

// readSysfsString reads one trimmed sysfs attribute.
func readSysfsString(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

// getBatteryState reads capacity and status from a power_supply directory.
func getBatteryState(dir string) (BatteryState, error) {
	capacity, err := readSysfsString(filepath.Join(dir, "capacity"))
	if err != nil {
		return BatteryState{}, fmt.Errorf("reading battery capacity: %w", err)
	}
	soc, err := strconv.Atoi(capacity)
	if err != nil {
		return BatteryState{}, fmt.Errorf("parsing battery capacity %q: %w", capacity, err)
	}
	// status is optional on some gauges
	status, err := readSysfsString(filepath.Join(dir, "status"))
	if err != nil {
		status = ""
	}
	return BatteryState{Percent: soc, Charging: status == "Charging" || status == "Full"}, nil
}

// pollBattery reports the battery state on out whenever it differs from the
// last report, checking every interval until ctx is done.
func pollBattery(ctx context.Context, dir string, interval time.Duration, out chan<- BatteryState) {
	if interval <= 0 {
		interval = DEFAULT_BATTERY_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last BatteryState
	known := false
	for {
		state, err := getBatteryState(dir)
		if err != nil {
			log.Printf("Could not get battery state: %v", err)
		} else if !known || state != last {
			select {
			case out <- state:
				last, known = state, true
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// linkProbe reports whether the companion is reachable.
type linkProbe func(host string) bool

// pingICMP uses github.com/go-ping/ping to perform an ICMP ping.
// Note: raw ICMP ping usually requires root privileges.
func pingICMP(host string) bool {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		log.Printf("ping %s: %v", host, err)
		return false
	}
	pinger.SetPrivileged(true)
	pinger.Count = 1
	pinger.Timeout = LINK_PING_TIMEOUT

	if err := pinger.Run(); err != nil {
		log.Printf("ping %s: %v", host, err)
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// monitorLink probes host every interval and reports the connection state on
// out only when it changes. The first probe is always reported.
func monitorLink(ctx context.Context, host string, interval time.Duration, probe linkProbe, out chan<- bool) {
	if interval <= 0 {
		interval = DEFAULT_LINK_INTERVAL
	}
	if probe == nil {
		probe = pingICMP
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last bool
	known := false
	for {
		up := probe(host)
		if !known || up != last {
			log.Printf("companion %s connected: %v", host, up)
			select {
			case out <- up:
				last, known = up, true
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

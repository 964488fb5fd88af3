package main

import (
	"context"
	"time"
)

// Clock provides the current wall-clock time. The face never calls
// time.Now directly so ticks can be replayed in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ArcValues is the fraction of a full circle each time source fills.
type ArcValues struct {
	Hour   float64
	Minute float64
	Second float64
}

// Of returns the value for an arc source.
func (v ArcValues) Of(src ArcSource) float64 {
	switch src {
	case SOURCE_HOURS:
		return v.Hour
	case SOURCE_MINUTES:
		return v.Minute
	default:
		return v.Second
	}
}

// ComputeArcValues maps local wall-clock time onto arc fractions.
func ComputeArcValues(now time.Time) ArcValues {
	hour, minute, second := now.Clock()
	return ArcValues{
		Hour:   float64(hour%12) / 12,
		Minute: float64(minute) / 60,
		Second: float64(second) / 60,
	}
}

//---------------- Tick source ----------------

// runTicker sends the clock time on out at every unit boundary until ctx is
// done. The first tick is aligned to the next boundary.
func runTicker(ctx context.Context, clk Clock, unit time.Duration, out chan<- time.Time) {
	if unit <= 0 {
		unit = time.Minute
	}
	for {
		now := clk.Now()
		next := now.Truncate(unit).Add(unit)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		select {
		case out <- clk.Now():
		case <-ctx.Done():
			return
		}
	}
}

func tickUnit(name string) time.Duration {
	if name == "second" || name == "seconds" {
		return time.Second
	}
	return time.Minute
}

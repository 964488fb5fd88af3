package main

import (
	"fmt"
	"strings"
)

// ArcSource selects which time fraction drives an arc.
type ArcSource int

const (
	SOURCE_HOURS ArcSource = iota
	SOURCE_MINUTES
	SOURCE_SECONDS
)

func (s ArcSource) String() string {
	switch s {
	case SOURCE_HOURS:
		return "hours"
	case SOURCE_MINUTES:
		return "minutes"
	case SOURCE_SECONDS:
		return "seconds"
	default:
		return fmt.Sprintf("ArcSource(%d)", int(s))
	}
}

func parseArcSource(name string) (ArcSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hours", "hour":
		return SOURCE_HOURS, nil
	case "minutes", "minute":
		return SOURCE_MINUTES, nil
	case "seconds", "second":
		return SOURCE_SECONDS, nil
	}
	return 0, fmt.Errorf("unknown arc source %q", name)
}

// ArcSpec is one row of the arc table a face is built from.
type ArcSpec struct {
	Name   string `mapstructure:"name" yaml:"name"`
	Radius int    `mapstructure:"radius" yaml:"radius"`
	Source string `mapstructure:"source" yaml:"source"`
}

// Arc holds the filled fraction of one ring. Radius and zero reference are
// fixed at creation; only the percentage moves.
type Arc struct {
	name    string
	radius  int
	zeroRef float64
	source  ArcSource
	percent float64
	dirty   bool
}

func newArc(spec ArcSpec, zeroRef float64) (*Arc, error) {
	if spec.Radius <= 0 {
		return nil, fmt.Errorf("arc %q: radius must be positive, got %d", spec.Name, spec.Radius)
	}
	src, err := parseArcSource(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("arc %q: %w", spec.Name, err)
	}
	return &Arc{
		name:    spec.Name,
		radius:  spec.Radius,
		zeroRef: zeroRef,
		source:  src,
		dirty:   true,
	}, nil
}

func (a *Arc) Name() string        { return a.name }
func (a *Arc) Radius() int         { return a.radius }
func (a *Arc) Source() ArcSource   { return a.source }
func (a *Arc) Percentage() float64 { return a.percent }
func (a *Arc) Dirty() bool         { return a.dirty }

// SetPercentage clamps v into [0,1] and stores it. It reports whether the
// stored value changed; only then is the arc marked dirty.
func (a *Arc) SetPercentage(v float64) bool {
	v = clampUnit(v)
	if v == a.percent {
		return false
	}
	a.percent = v
	a.dirty = true
	return true
}

// Sweep returns the start and end angles for the current percentage.
func (a *Arc) Sweep() (start, end float64) {
	return a.zeroRef, a.zeroRef + 360*a.percent
}

func (a *Arc) markClean() { a.dirty = false }

func (a *Arc) markDirty() { a.dirty = true }

func clampUnit(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

package main

import (
	"math"
	"testing"
)

func mustArc(t *testing.T, spec ArcSpec, zeroRef float64) *Arc {
	t.Helper()
	a, err := newArc(spec, zeroRef)
	if err != nil {
		t.Fatalf("newArc(%+v): %v", spec, err)
	}
	return a
}

func TestNewArc(t *testing.T) {
	a := mustArc(t, ArcSpec{Name: "hours", Radius: 40, Source: "hours"}, ZERO_REF_LEFT)
	if a.Radius() != 40 || a.Source() != SOURCE_HOURS || a.Name() != "hours" {
		t.Errorf("unexpected arc %+v", a)
	}
	if a.Percentage() != 0 {
		t.Errorf("new arc percentage = %v; want 0", a.Percentage())
	}
	if !a.Dirty() {
		t.Error("new arc should be dirty so the first frame draws it")
	}

	if _, err := newArc(ArcSpec{Name: "bad", Radius: 0, Source: "hours"}, 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := newArc(ArcSpec{Name: "bad", Radius: 10, Source: "days"}, 0); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestSetPercentage(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		set     float64
		want    float64
		changed bool
	}{
		{"same value", 0.25, 0.25, 0.25, false},
		{"new value", 0.25, 0.5, 0.5, true},
		{"above one clamps", 0.25, 1.7, 1, true},
		{"already full", 1, 3, 1, false},
		{"below zero clamps", 0.5, -0.2, 0, true},
		{"already empty", 0, -1, 0, false},
		{"NaN is empty", 0.5, math.NaN(), 0, true},
		{"tiny change counts", 0.5, 0.5 + 1e-12, 0.5 + 1e-12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustArc(t, ArcSpec{Name: "m", Radius: 60, Source: "minutes"}, ZERO_REF_TOP)
			a.SetPercentage(tt.start)
			a.markClean()

			if got := a.SetPercentage(tt.set); got != tt.changed {
				t.Errorf("SetPercentage(%v) changed = %v; want %v", tt.set, got, tt.changed)
			}
			if a.Percentage() != tt.want {
				t.Errorf("Percentage() = %v; want %v", a.Percentage(), tt.want)
			}
			if a.Dirty() != tt.changed {
				t.Errorf("Dirty() = %v; want %v", a.Dirty(), tt.changed)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	a := mustArc(t, ArcSpec{Name: "h", Radius: 40, Source: "hour"}, ZERO_REF_LEFT)
	a.SetPercentage(0.5)
	start, end := a.Sweep()
	if start != -90 || end != 90 {
		t.Errorf("Sweep() = %v, %v; want -90, 90", start, end)
	}

	a.SetPercentage(0)
	start, end = a.Sweep()
	if start != end {
		t.Errorf("empty arc should have zero sweep, got %v..%v", start, end)
	}
}

func TestParseArcSource(t *testing.T) {
	tests := []struct {
		in      string
		want    ArcSource
		wantErr bool
	}{
		{"hours", SOURCE_HOURS, false},
		{"Hour", SOURCE_HOURS, false},
		{" minutes ", SOURCE_MINUTES, false},
		{"second", SOURCE_SECONDS, false},
		{"", 0, true},
		{"days", 0, true},
	}
	for _, tt := range tests {
		got, err := parseArcSource(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseArcSource(%q) err = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseArcSource(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
	if SOURCE_MINUTES.String() != "minutes" {
		t.Errorf("String() = %q", SOURCE_MINUTES.String())
	}
}

package main

import (
	"image"
	"image/color"
	"math"
)

// Zero references, in degrees on the renderer's raw frame where 0 is
// 12 o'clock and angles grow clockwise.
const (
	ZERO_REF_TOP      = 0.0
	ZERO_REF_RIGHT    = 90.0
	ZERO_REF_LEFT     = -90.0
	ZERO_REF_LEFT_ALT = 270.0

	DEFAULT_ARC_STEP = 0.5
)

// Segment is one radial stroke of an arc, from the inner edge to the outer edge.
type Segment struct {
	Inner image.Point
	Outer image.Point
}

// clampThickness keeps the stroke inside [1, 2*radius].
func clampThickness(radius, thickness int) int {
	if thickness < 1 {
		thickness = 1
	}
	if thickness > 2*radius {
		thickness = 2 * radius
	}
	return thickness
}

// arcStep returns the sampling step in degrees for an outer radius. The
// configured step is tightened so that neighbouring strokes are never more
// than one pixel apart on the outer edge.
func arcStep(step float64, outerRadius float64) float64 {
	if !(step > 0) || math.IsInf(step, 0) {
		step = DEFAULT_ARC_STEP
	}
	if outerRadius <= 0 {
		return step
	}
	maxStep := 180 / (math.Pi * outerRadius)
	if step > maxStep {
		return maxStep
	}
	return step
}

// ArcSegments samples [startAngle, endAngle] and returns one radial segment
// per sample. A zero or negative sweep yields no segments.
func ArcSegments(center image.Point, radius, thickness int, startAngle, endAngle, step float64) []Segment {
	if radius <= 0 || endAngle <= startAngle {
		return nil
	}
	thickness = clampThickness(radius, thickness)

	// +0.5 so the truncating conversions below round to nearest
	minusBit := float64(radius-thickness/2) + 0.5
	addBit := float64(radius+thickness/2) + 0.5

	// Spread samples evenly so the first and last land exactly on the ends.
	sweep := endAngle - startAngle
	n := int(math.Ceil(sweep / arcStep(step, addBit)))
	segments := make([]Segment, 0, n+1)
	for k := 0; k <= n; k++ {
		angle := degToTrigAngle(startAngle + sweep*float64(k)/float64(n))
		sin := float64(sinLookup(angle))
		cos := float64(cosLookup(angle))

		segments = append(segments, Segment{
			Inner: image.Point{
				X: int(sin*minusBit/TRIG_MAX_RATIO) + center.X,
				Y: int(-cos*minusBit/TRIG_MAX_RATIO) + center.Y,
			},
			Outer: image.Point{
				X: int(sin*addBit/TRIG_MAX_RATIO) + center.X,
				Y: int(-cos*addBit/TRIG_MAX_RATIO) + center.Y,
			},
		})
	}
	return segments
}

// RenderArc draws a ring arc as a fan of radial lines onto surface.
// Percentages must already be clamped by the caller.
func RenderArc(surface Surface, center image.Point, radius, thickness int, startAngle, endAngle float64, clr color.Color) {
	renderArcStep(surface, center, radius, thickness, startAngle, endAngle, DEFAULT_ARC_STEP, clr)
}

func renderArcStep(surface Surface, center image.Point, radius, thickness int, startAngle, endAngle, step float64, clr color.Color) {
	segments := ArcSegments(center, radius, thickness, startAngle, endAngle, step)
	if len(segments) == 0 {
		return
	}
	surface.SetStrokeColor(clr)
	surface.SetStrokeWidth(1)
	for _, s := range segments {
		surface.DrawLine(s.Inner, s.Outer)
	}
}

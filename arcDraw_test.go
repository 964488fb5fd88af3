package main

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

// recordingSurface keeps every call the renderer makes.
type recordingSurface struct {
	colors []color.Color
	widths []int
	lines  []Segment
}

func (r *recordingSurface) SetStrokeColor(c color.Color) { r.colors = append(r.colors, c) }
func (r *recordingSurface) SetStrokeWidth(w int)         { r.widths = append(r.widths, w) }
func (r *recordingSurface) DrawLine(p1, p2 image.Point) {
	r.lines = append(r.lines, Segment{Inner: p1, Outer: p2})
}

func lit(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y).R != 0
}

func TestArcSegmentsEmptySweep(t *testing.T) {
	c := image.Pt(72, 84)
	if s := ArcSegments(c, 60, 5, -90, -90, DEFAULT_ARC_STEP); len(s) != 0 {
		t.Errorf("zero sweep produced %d segments", len(s))
	}
	if s := ArcSegments(c, 60, 5, 10, 5, DEFAULT_ARC_STEP); len(s) != 0 {
		t.Errorf("negative sweep produced %d segments", len(s))
	}
	if s := ArcSegments(c, 0, 5, 0, 90, DEFAULT_ARC_STEP); len(s) != 0 {
		t.Errorf("zero radius produced %d segments", len(s))
	}
}

func TestArcSegmentsEndpoints(t *testing.T) {
	c := image.Pt(72, 84)
	segs := ArcSegments(c, 60, 5, -90, 0, DEFAULT_ARC_STEP)

	// 90 degrees at 0.5 degree steps, both ends included
	if len(segs) != 181 {
		t.Fatalf("got %d segments; want 181", len(segs))
	}

	first := Segment{Inner: image.Pt(14, 84), Outer: image.Pt(10, 84)}
	if segs[0] != first {
		t.Errorf("first segment = %v; want %v", segs[0], first)
	}
	last := Segment{Inner: image.Pt(72, 26), Outer: image.Pt(72, 22)}
	if segs[len(segs)-1] != last {
		t.Errorf("last segment = %v; want %v", segs[len(segs)-1], last)
	}
}

func TestArcSegmentsNaNStep(t *testing.T) {
	segs := ArcSegments(image.Pt(72, 84), 60, 5, -90, 0, math.NaN())
	if len(segs) != 181 {
		t.Errorf("got %d segments; want the default-step 181", len(segs))
	}
}

func TestArcSegmentsFullRingCloses(t *testing.T) {
	segs := ArcSegments(image.Pt(50, 50), 30, 4, ZERO_REF_LEFT, ZERO_REF_LEFT+360, DEFAULT_ARC_STEP)
	if len(segs) != 721 {
		t.Fatalf("got %d segments; want 721", len(segs))
	}
	if segs[0] != segs[len(segs)-1] {
		t.Errorf("full ring does not close: %v vs %v", segs[0], segs[len(segs)-1])
	}
}

func TestArcStep(t *testing.T) {
	tests := []struct {
		name  string
		step  float64
		outer float64
		want  float64
	}{
		{"small radius keeps configured step", 0.5, 62.5, 0.5},
		{"unset step falls back to default", 0, 20, DEFAULT_ARC_STEP},
		{"large radius tightens step", 0.5, 202.5, 180 / (math.Pi * 202.5)},
		{"coarse step tightened", 5, 62.5, 180 / (math.Pi * 62.5)},
		{"NaN step falls back to default", math.NaN(), 20, DEFAULT_ARC_STEP},
		{"infinite step falls back to default", math.Inf(1), 20, DEFAULT_ARC_STEP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := arcStep(tt.step, tt.outer)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("arcStep(%v, %v) = %v; want %v", tt.step, tt.outer, got, tt.want)
			}
			if got > tt.step && tt.step > 0 && !math.IsInf(tt.step, 0) {
				t.Errorf("arcStep widened the step: %v > %v", got, tt.step)
			}
		})
	}
}

func TestClampThickness(t *testing.T) {
	tests := []struct {
		radius, thickness, want int
	}{
		{60, 5, 5},
		{3, 10, 6},
		{10, 0, 1},
		{10, -4, 1},
	}
	for _, tt := range tests {
		if got := clampThickness(tt.radius, tt.thickness); got != tt.want {
			t.Errorf("clampThickness(%d, %d) = %d; want %d", tt.radius, tt.thickness, got, tt.want)
		}
	}
}

func TestRenderArcFullRing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := image.Pt(32, 32)
	RenderArc(newImageSurface(img), c, 20, 3, 0, 360, PCAT_WHITE)

	for _, p := range []image.Point{{32, 12}, {52, 32}, {32, 52}, {12, 32}} {
		if !lit(img, p.X, p.Y) {
			t.Errorf("ring pixel %v not drawn", p)
		}
	}
	if lit(img, 32, 32) {
		t.Error("centre should stay empty")
	}
}

func TestRenderArcZeroPercentDrawsNothing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	rec := &recordingSurface{}
	RenderArc(rec, image.Pt(32, 32), 20, 3, ZERO_REF_TOP, ZERO_REF_TOP, PCAT_WHITE)
	RenderArc(newImageSurface(img), image.Pt(32, 32), 20, 3, ZERO_REF_TOP, ZERO_REF_TOP, PCAT_WHITE)

	if len(rec.lines) != 0 || len(rec.colors) != 0 {
		t.Errorf("empty arc touched the surface: %d lines, %d colours", len(rec.lines), len(rec.colors))
	}
	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("empty arc wrote pixels")
		}
	}
}

func TestRenderArcQuarterFromTop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	RenderArc(newImageSurface(img), image.Pt(32, 32), 20, 3, ZERO_REF_TOP, ZERO_REF_TOP+90, PCAT_WHITE)

	if !lit(img, 32, 12) {
		t.Error("12 o'clock should be drawn")
	}
	if !lit(img, 52, 32) {
		t.Error("3 o'clock should be drawn")
	}
	if lit(img, 32, 52) {
		t.Error("6 o'clock should not be drawn")
	}
	if lit(img, 12, 32) {
		t.Error("9 o'clock should not be drawn")
	}
}

func TestRenderArcSetsStroke(t *testing.T) {
	rec := &recordingSurface{}
	red := color.RGBA{255, 0, 0, 255}
	RenderArc(rec, image.Pt(32, 32), 20, 3, 0, 45, red)

	if len(rec.colors) != 1 || rec.colors[0] != red {
		t.Errorf("stroke colours = %v; want [%v]", rec.colors, red)
	}
	if len(rec.widths) != 1 || rec.widths[0] != 1 {
		t.Errorf("stroke widths = %v; want [1]", rec.widths)
	}
	want := ArcSegments(image.Pt(32, 32), 20, 3, 0, 45, DEFAULT_ARC_STEP)
	if len(rec.lines) != len(want) {
		t.Errorf("drew %d lines; want %d", len(rec.lines), len(want))
	}
}

func TestDrawLineClipsToBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	drawLine(img, -5, 5, 15, 5, PCAT_WHITE)
	for x := 0; x < 10; x++ {
		if !lit(img, x, 5) {
			t.Errorf("pixel (%d,5) not drawn", x)
		}
	}
}

func TestImageSurfaceWideStroke(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	s := newImageSurface(img)
	s.SetStrokeWidth(3)
	s.DrawLine(image.Pt(2, 10), image.Pt(17, 10))
	for _, y := range []int{9, 10, 11} {
		if !lit(img, 10, y) {
			t.Errorf("pixel (10,%d) not covered by wide stroke", y)
		}
	}
	if lit(img, 10, 13) {
		t.Error("wide stroke too wide")
	}
}

func TestDraw2dSurfaceStrokes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 24, 12))
	clearFrame(img, PCAT_BLACK)
	s := newDraw2dSurface(img)
	s.SetStrokeColor(PCAT_WHITE)
	s.SetStrokeWidth(1)
	s.DrawLine(image.Pt(2, 5), image.Pt(20, 5))

	if !lit(img, 10, 5) {
		t.Errorf("draw2d line missing at (10,5): %v", img.RGBAAt(10, 5))
	}
	if lit(img, 10, 1) {
		t.Error("draw2d line bled far from its row")
	}
}

func TestNewFrameSurface(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, ok := newFrameSurface(SURFACE_DRAW2D, img).(*draw2dSurface); !ok {
		t.Error("draw2d name should give a draw2d surface")
	}
	for _, kind := range []string{SURFACE_IMAGE, "", "opengl"} {
		if _, ok := newFrameSurface(kind, img).(*imageSurface); !ok {
			t.Errorf("%q should give an image surface", kind)
		}
	}
}

func TestSVGSurfaceOneLinePerSegment(t *testing.T) {
	var buf bytes.Buffer
	s := newSVGSurface(&buf, 64, 64, PCAT_BLACK)
	RenderArc(s, image.Pt(32, 32), 20, 3, 0, 90, PCAT_WHITE)
	s.Close()

	out := buf.String()
	want := len(ArcSegments(image.Pt(32, 32), 20, 3, 0, 90, DEFAULT_ARC_STEP))
	if got := strings.Count(out, "<line"); got != want {
		t.Errorf("svg has %d lines; want %d", got, want)
	}
	if !strings.Contains(out, "#FFFFFF") {
		t.Error("svg lines should carry the stroke colour")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("svg document not closed")
	}
}

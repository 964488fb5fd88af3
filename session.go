package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"time"
)

const (
	DEFAULT_THICKNESS   = 5
	DEFAULT_DATE_MARGIN = 10
	LABEL_BOX_HEIGHT    = 20
	DATE_LABEL_OFFSET   = 30 // from the bottom edge
	DATE_LAYOUT         = "January _2"
)

// FaceConfig describes the arcs and their shared geometry.
type FaceConfig struct {
	Thickness     int        `mapstructure:"thickness" yaml:"thickness"`
	ZeroReference float64    `mapstructure:"zero_reference" yaml:"zero_reference"`
	Step          float64    `mapstructure:"step" yaml:"step"`
	TickUnit      string     `mapstructure:"tick_unit" yaml:"tick_unit"`
	DateMargin    int        `mapstructure:"date_margin" yaml:"date_margin"`
	Surface       string     `mapstructure:"surface" yaml:"surface"` // image or draw2d
	Arcs          []ArcSpec  `mapstructure:"arcs" yaml:"arcs"`
	Font          FontConfig `mapstructure:"font" yaml:"font"`
}

// Palette is the colour pairing used for one frame.
type Palette struct {
	Background color.RGBA
	Stroke     color.RGBA
	Text       color.RGBA
}

func paletteFor(opts DisplayOptions) Palette {
	if opts.InvertColours {
		return Palette{Background: PCAT_WHITE, Stroke: PCAT_BLACK, Text: PCAT_BLACK}
	}
	return Palette{Background: PCAT_BLACK, Stroke: PCAT_WHITE, Text: PCAT_WHITE}
}

// ArcSnapshot is an arc as it will be drawn in one frame.
type ArcSnapshot struct {
	Name       string
	Radius     int
	Percentage float64
	Start      float64
	End        float64
}

// RenderFrame is everything one redraw pass reads. It is never retained by the session.
type RenderFrame struct {
	Bounds      image.Rectangle
	Center      image.Point
	Thickness   int
	Step        float64
	Margin      int
	Surface     string
	Palette     Palette
	Arcs        []ArcSnapshot
	Options     DisplayOptions
	BatteryText string
	DateText    string
	Connected   bool
}

// Session is one watch-face lifetime: created by Load, dropped by Unload.
// It is driven from a single goroutine and does no locking of its own.
type Session struct {
	cfg    FaceConfig
	store  Store
	haptic Haptic
	clock  Clock
	labels *labelRenderer

	loaded bool
	bounds image.Rectangle
	arcs   []*Arc
	opts   DisplayOptions
	margin int

	batteryText string
	dateText    string

	connected      bool
	connectedKnown bool

	lastMinute  float64
	minuteKnown bool

	layoutDirty bool
}

// NewSession wires a face to its collaborators. labels may be nil to skip text.
func NewSession(cfg FaceConfig, store Store, haptic Haptic, clock Clock, labels *labelRenderer) *Session {
	if cfg.Thickness == 0 {
		cfg.Thickness = DEFAULT_THICKNESS
	}
	if haptic == nil {
		haptic = logHaptic{}
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Session{cfg: cfg, store: store, haptic: haptic, clock: clock, labels: labels}
}

// Load creates the arcs for a surface of the given bounds, reads the options
// and applies the current time.
func (s *Session) Load(bounds image.Rectangle) error {
	arcs := make([]*Arc, 0, len(s.cfg.Arcs))
	for _, spec := range s.cfg.Arcs {
		a, err := newArc(spec, s.cfg.ZeroReference)
		if err != nil {
			return err
		}
		arcs = append(arcs, a)
	}

	s.bounds = bounds
	s.arcs = arcs
	s.loaded = true
	s.connectedKnown = false
	s.minuteKnown = false
	s.batteryText = ""
	s.setOptions(LoadOptions(s.store))
	s.layoutDirty = true
	s.HandleTick(s.clock.Now())

	log.Printf("face loaded: %d arcs, bounds %v, options %+v", len(arcs), bounds, s.opts)
	return nil
}

// Unload drops every arc and cached value.
func (s *Session) Unload() {
	s.arcs = nil
	s.loaded = false
	s.layoutDirty = false
	s.opts = DisplayOptions{}
	s.margin = 0
	s.dateText = ""
	s.batteryText = ""
	s.connected = false
	s.connectedKnown = false
	s.lastMinute = 0
	s.minuteKnown = false
	log.Println("face unloaded")
}

func (s *Session) Loaded() bool { return s.loaded }

func (s *Session) Options() DisplayOptions { return s.opts }

func (s *Session) Arcs() []*Arc { return s.arcs }

// HandleTick moves every arc to now before anything is redrawn.
func (s *Session) HandleTick(now time.Time) {
	if !s.loaded {
		return
	}
	v := ComputeArcValues(now)
	for _, a := range s.arcs {
		a.SetPercentage(v.Of(a.Source()))
	}

	if date := now.Format(DATE_LAYOUT); date != s.dateText {
		s.dateText = date
		s.layoutDirty = true
	}

	if s.minuteKnown && s.opts.HourlyVibrate && v.Minute == 0 && s.lastMinute != 0 {
		s.haptic.ShortPulse()
	}
	s.lastMinute = v.Minute
	s.minuteKnown = true
}

// HandleSettings persists an inbound patch and refreshes the cached options.
func (s *Session) HandleSettings(patch SettingsPatch) (DisplayOptions, error) {
	opts, err := ApplyIncomingSettings(s.store, patch)
	if s.loaded {
		s.setOptions(opts)
	}
	return opts, err
}

// HandleBattery updates the battery label.
func (s *Session) HandleBattery(b BatteryState) {
	text := fmt.Sprintf("%d%%", b.Percent)
	if text != s.batteryText {
		s.batteryText = text
		s.layoutDirty = true
	}
}

// HandleBluetooth records the link state. Only a real transition after the
// first report can vibrate.
func (s *Session) HandleBluetooth(connected bool) {
	if s.connectedKnown && s.connected == connected {
		return
	}
	transition := s.connectedKnown
	s.connected = connected
	s.connectedKnown = true
	s.layoutDirty = true

	if transition && s.opts.BluetoothVibrate {
		s.haptic.DoublePulse()
	}
}

func (s *Session) setOptions(opts DisplayOptions) {
	prev := s.opts
	s.opts = opts
	margin := 0
	if opts.ShowDate {
		margin = s.cfg.DateMargin
	}
	if margin != s.margin || prev.InvertColours != opts.InvertColours {
		// centre or colour moved: every arc needs repainting
		for _, a := range s.arcs {
			a.markDirty()
		}
	}
	s.margin = margin
	if prev != opts {
		s.layoutDirty = true
	}
}

// NeedsRedraw reports whether any arc or label changed since the last Render.
func (s *Session) NeedsRedraw() bool {
	if !s.loaded {
		return false
	}
	if s.layoutDirty {
		return true
	}
	for _, a := range s.arcs {
		if a.Dirty() {
			return true
		}
	}
	return false
}

func (s *Session) center() image.Point {
	return image.Pt(s.bounds.Min.X+s.bounds.Dx()/2, s.bounds.Min.Y+s.bounds.Dy()/2-s.margin)
}

// Frame snapshots the state one redraw pass needs.
func (s *Session) Frame() RenderFrame {
	f := RenderFrame{
		Bounds:      s.bounds,
		Center:      s.center(),
		Thickness:   s.cfg.Thickness,
		Step:        s.cfg.Step,
		Margin:      s.margin,
		Surface:     s.cfg.Surface,
		Palette:     paletteFor(s.opts),
		Options:     s.opts,
		BatteryText: s.batteryText,
		DateText:    s.dateText,
		Connected:   !s.connectedKnown || s.connected,
		Arcs:        make([]ArcSnapshot, 0, len(s.arcs)),
	}
	for _, a := range s.arcs {
		start, end := a.Sweep()
		f.Arcs = append(f.Arcs, ArcSnapshot{
			Name:       a.Name(),
			Radius:     a.Radius(),
			Percentage: a.Percentage(),
			Start:      start,
			End:        end,
		})
	}
	return f
}

// Render draws the current state into dst and clears every dirty flag.
func (s *Session) Render(dst *image.RGBA) RenderFrame {
	f := s.Frame()
	drawFrame(dst, f, s.labels)
	for _, a := range s.arcs {
		a.markClean()
	}
	s.layoutDirty = false
	return f
}

// drawFrame paints a whole frame: background, arcs, then labels.
func drawFrame(dst *image.RGBA, f RenderFrame, labels *labelRenderer) {
	clearFrame(dst, f.Palette.Background)
	drawArcs(newFrameSurface(f.Surface, dst), f)
	if labels != nil {
		labels.draw(dst, f)
	}
}

func drawArcs(surface Surface, f RenderFrame) {
	for _, a := range f.Arcs {
		renderArcStep(surface, f.Center, a.Radius, f.Thickness, a.Start, a.End, f.Step, f.Palette.Stroke)
	}
}

// writeFrameSVG exports the arcs of a frame as an SVG document.
func writeFrameSVG(w io.Writer, f RenderFrame) {
	surface := newSVGSurface(w, f.Bounds.Dx(), f.Bounds.Dy(), f.Palette.Background)
	drawArcs(surface, f)
	surface.Close()
}

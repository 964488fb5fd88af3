package main

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"
)

var errLoopStopped = errors.New("face loop stopped")

type settingsReply struct {
	opts DisplayOptions
	err  error
}

type settingsRequest struct {
	patch SettingsPatch
	reply chan settingsReply
}

// Loop is the face's event loop. Every event is handled on the goroutine
// running Run, so the session is never touched concurrently; other
// goroutines only read the published frame and options.
type Loop struct {
	session *Session
	bounds  image.Rectangle
	outputs []Output

	ticks     chan time.Time
	settings  chan settingsRequest
	battery   chan BatteryState
	bluetooth chan bool
	buttons   chan struct{}
	done      chan struct{}

	frame *image.RGBA // render target, owned by Run

	mu        sync.RWMutex
	published *image.RGBA
	render    RenderFrame
	opts      DisplayOptions
	frames    int
}

func newLoop(session *Session, bounds image.Rectangle, outputs ...Output) *Loop {
	return &Loop{
		session:   session,
		bounds:    bounds,
		outputs:   outputs,
		ticks:     make(chan time.Time, 1),
		settings:  make(chan settingsRequest),
		battery:   make(chan BatteryState, 1),
		bluetooth: make(chan bool, 1),
		buttons:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		frame:     image.NewRGBA(bounds),
	}
}

// Run loads the face, then serves events until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	if err := l.session.Load(l.bounds); err != nil {
		return err
	}
	defer l.session.Unload()
	l.publishOptions()
	l.redraw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-l.ticks:
			l.session.HandleTick(now)
		case req := <-l.settings:
			opts, err := l.session.HandleSettings(req.patch)
			if err != nil {
				log.Printf("Error applying settings: %v", err)
			}
			req.reply <- settingsReply{opts: opts, err: err}
			l.publishOptions()
		case b := <-l.battery:
			l.session.HandleBattery(b)
		case up := <-l.bluetooth:
			l.session.HandleBluetooth(up)
		case <-l.buttons:
			invert := !l.session.Options().InvertColours
			if _, err := l.session.HandleSettings(SettingsPatch{InvertColours: &invert}); err != nil {
				log.Printf("Error toggling colours: %v", err)
			}
			l.publishOptions()
		}
		l.redraw()
	}
}

// redraw renders only when something changed, then pushes the frame out.
func (l *Loop) redraw() {
	if !l.session.NeedsRedraw() {
		return
	}
	f := l.session.Render(l.frame)

	for _, out := range l.outputs {
		if err := out.Show(l.frame); err != nil {
			log.Printf("Error showing frame: %v", err)
		}
	}

	cp := image.NewRGBA(l.frame.Bounds())
	copy(cp.Pix, l.frame.Pix)
	l.mu.Lock()
	l.published = cp
	l.render = f
	l.frames++
	l.mu.Unlock()
}

func (l *Loop) publishOptions() {
	opts := l.session.Options()
	l.mu.Lock()
	l.opts = opts
	l.mu.Unlock()
}

// ApplySettings hands a patch to the loop and waits for the merged options.
func (l *Loop) ApplySettings(ctx context.Context, patch SettingsPatch) (DisplayOptions, error) {
	req := settingsRequest{patch: patch, reply: make(chan settingsReply, 1)}
	select {
	case l.settings <- req:
	case <-l.done:
		return DisplayOptions{}, errLoopStopped
	case <-ctx.Done():
		return DisplayOptions{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.opts, r.err
	case <-ctx.Done():
		return DisplayOptions{}, ctx.Err()
	}
}

// LastFrame returns the most recently published frame, or nil before the first one.
func (l *Loop) LastFrame() (*image.RGBA, RenderFrame) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.published, l.render
}

// Options returns the options as of the last handled event.
func (l *Loop) Options() DisplayOptions {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.opts
}

// Frames counts published frames.
func (l *Loop) Frames() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frames
}

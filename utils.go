package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

const (
	POWER_KEY_DEVICE       = "rk805 pwrkey"
	KEYBOARD_DEBOUNCE_TIME = 200 * time.Millisecond
	KEYBOARD_RETRY_DELAY   = 100 * time.Millisecond

	KEYBOARD_MAX_READ_FAILURES = 5
)

// findInputDevice returns the event node path of the named input device.
func findInputDevice(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("listing input devices: %w", err)
	}
	for _, ip := range paths {
		if ip.Name == name {
			return ip.Path, nil
		}
	}
	return "", fmt.Errorf("input device %q not found", name)
}

// monitorPowerKey sends on presses for every debounced press of the power
// key. It returns when ctx is done or the device goes away.
func monitorPowerKey(ctx context.Context, deviceName string, presses chan<- struct{}) {
	devPath, err := findInputDevice(deviceName)
	if err != nil {
		log.Printf("power key disabled: %v", err)
		return
	}

	keyboard, err := evdev.Open(devPath)
	if err != nil {
		log.Printf("Open(%s) error: %v", devPath, err)
		return
	}
	// closing the node also releases the grab
	var closeOnce sync.Once
	closeDevice := func() {
		closeOnce.Do(func() { keyboard.Close() })
	}
	defer closeDevice()

	if err := keyboard.Grab(); err != nil {
		log.Printf("warning: failed to grab device: %v", err)
	}

	name, _ := keyboard.Name()
	log.Printf("using input device: %s (%s)", devPath, name)

	// unblock ReadOne on shutdown
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			closeDevice()
		case <-stop:
		}
	}()

	readPowerKey(ctx, keyboard, presses)
	log.Printf("power key monitor on %s stopped", devPath)
}

// keyEventReader is the part of an evdev device the key loop reads from.
type keyEventReader interface {
	ReadOne() (*evdev.InputEvent, error)
}

// readPowerKey forwards debounced power key presses until ctx is done, the
// device is gone, or reads keep failing.
func readPowerKey(ctx context.Context, r keyEventReader, presses chan<- struct{}) {
	var lastPress time.Time
	failures := 0
	for {
		ev, err := r.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, syscall.ENODEV) || errors.Is(err, os.ErrClosed) {
				log.Printf("input device gone: %v", err)
				return
			}
			failures++
			if failures >= KEYBOARD_MAX_READ_FAILURES {
				log.Printf("giving up on input device after %d read errors: %v", failures, err)
				return
			}
			log.Printf("read error: %v", err)
			time.Sleep(KEYBOARD_RETRY_DELAY)
			continue
		}
		failures = 0
		if ev.Type != evdev.EV_KEY || ev.Code != evdev.KEY_POWER || ev.Value != 1 {
			continue
		}

		now := time.Now()
		if now.Sub(lastPress) < KEYBOARD_DEBOUNCE_TIME {
			continue
		}
		lastPress = now
		log.Println("POWER pressed")

		select {
		case presses <- struct{}{}:
		case <-ctx.Done():
			return
		}
	}
}

package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

const (
	VIBE_PULSE_TIME = 100 * time.Millisecond
	VIBE_GAP_TIME   = 100 * time.Millisecond
)

// Haptic fires vibration patterns. Calls never block and report nothing.
type Haptic interface {
	ShortPulse()
	DoublePulse()
}

// gpioHaptic drives a vibration motor switched by a GPIO pin.
type gpioHaptic struct {
	pin gpio.PinOut
	mu  sync.Mutex // one pattern at a time
}

func newGPIOHaptic(pinName string) (*gpioHaptic, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("haptic pin %s not found", pinName)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("haptic pin %s: %w", pinName, err)
	}
	return &gpioHaptic{pin: pin}, nil
}

func (h *gpioHaptic) ShortPulse() {
	go h.play([]time.Duration{VIBE_PULSE_TIME})
}

func (h *gpioHaptic) DoublePulse() {
	go h.play([]time.Duration{VIBE_PULSE_TIME, VIBE_GAP_TIME, VIBE_PULSE_TIME})
}

// play alternates on/off durations starting with on.
func (h *gpioHaptic) play(pattern []time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, d := range pattern {
		level := gpio.Low
		if i%2 == 0 {
			level = gpio.High
		}
		if err := h.pin.Out(level); err != nil {
			log.Printf("haptic write error: %v", err)
			break
		}
		time.Sleep(d)
	}
	if err := h.pin.Out(gpio.Low); err != nil {
		log.Printf("haptic write error: %v", err)
	}
}

// logHaptic stands in when no motor is wired.
type logHaptic struct{}

func (logHaptic) ShortPulse()  { log.Println("vibe: short pulse") }
func (logHaptic) DoublePulse() { log.Println("vibe: double pulse") }

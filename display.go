package main

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

const (
	PANEL_NONE    = "none"
	PANEL_SSD1306 = "ssd1306"
)

// Output receives every frame the face renders.
type Output interface {
	Show(frame *image.RGBA) error
	Close() error
}

// oledPanel pushes frames to an SSD1306 over I2C as 1-bit images.
type oledPanel struct {
	bus  i2c.BusCloser
	dev  *ssd1306.Dev
	mono *image1bit.VerticalLSB
}

// openOLEDPanel initialises the host and the panel on the named I2C bus
// ("" picks the first one).
func openOLEDPanel(busName string, width, height int) (*oledPanel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("opening i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = width
	opts.H = height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	log.Printf("panel: %s", dev)
	return &oledPanel{
		bus:  bus,
		dev:  dev,
		mono: image1bit.NewVerticalLSB(dev.Bounds()),
	}, nil
}

// toMono thresholds a colour frame into a 1-bit buffer.
func toMono(dst *image1bit.VerticalLSB, frame *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), frame, frame.Bounds().Min, draw.Src)
}

func (p *oledPanel) Show(frame *image.RGBA) error {
	toMono(p.mono, frame)
	if err := p.dev.Draw(p.mono.Bounds(), p.mono, image.Point{}); err != nil {
		return fmt.Errorf("panel draw: %w", err)
	}
	return nil
}

func (p *oledPanel) Close() error {
	if err := p.dev.Halt(); err != nil {
		log.Printf("panel halt: %v", err)
	}
	return p.bus.Close()
}

package main

import (
	"fmt"
	"image"
	"log"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// bluetooth glyph with a strike-through, shown while the companion is away
const bluetoothOffSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="12" height="16" viewBox="0 0 12 16">
<path d="M2 4 L10 12 L6 15 L6 1 L10 4 L2 12" fill="none" stroke="%[1]s" stroke-width="1.5"/>
<path d="M1 1 L11 15" fill="none" stroke="%[1]s" stroke-width="1.5"/>
</svg>`

// labelRenderer draws the text and icons that sit around the arcs.
type labelRenderer struct {
	face     font.Face
	ttf      *truetype.Font
	size     float64
	lineHigh int
}

func newLabelRenderer(cfg FontConfig) (*labelRenderer, error) {
	if cfg.FontSize <= 0 {
		cfg.FontSize = 18
	}
	face, err := getFontFace(cfg)
	if err != nil {
		return nil, err
	}
	ttf, err := getTrueTypeFont(cfg)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	return &labelRenderer{
		face:     face,
		ttf:      ttf,
		size:     cfg.FontSize,
		lineHigh: m.Ascent.Round() + m.Descent.Round(),
	}, nil
}

// boxTop vertically centres a line of text in a LABEL_BOX_HEIGHT box.
func (l *labelRenderer) boxTop(top int) int {
	return top + (LABEL_BOX_HEIGHT-l.lineHigh)/2
}

func (l *labelRenderer) draw(dst *image.RGBA, f RenderFrame) {
	b := f.Bounds
	midX := b.Min.X + b.Dx()/2

	if f.Options.ShowBatteryPercentage && f.BatteryText != "" {
		top := b.Min.Y + b.Dy()/2 - (10 + f.Margin)
		drawText(dst, f.BatteryText, midX, l.boxTop(top), l.face, f.Palette.Text, true)
	}

	if f.Options.ShowDate && f.DateText != "" {
		top := b.Max.Y - DATE_LABEL_OFFSET
		if err := drawTextFreetype(dst, f.DateText, midX, l.boxTop(top), l.ttf, l.size, f.Palette.Text); err != nil {
			log.Printf("Error drawing date label: %v", err)
		}
	}

	if !f.Connected {
		icon, err := renderSVG("bt-off-"+hexColor(f.Palette.Text), fmt.Sprintf(bluetoothOffSVG, hexColor(f.Palette.Text)))
		if err != nil {
			log.Printf("Error loading bluetooth icon: %v", err)
			return
		}
		x := midX - icon.Bounds().Dx()/2
		y := f.Center.Y + LABEL_BOX_HEIGHT/2
		if err := copyImageToImageAt(dst, icon, x, y); err != nil {
			log.Printf("Error placing bluetooth icon: %v", err)
		}
	}
}

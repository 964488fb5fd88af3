package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	svgCacheMu sync.Mutex
	svgCache   = make(map[string]*image.RGBA)
)

//---------------- Font Loader ----------------

// FontConfig holds parameters for a font.
type FontConfig struct {
	FontPath string  `mapstructure:"path" yaml:"path"` // TTF file, empty for Go Regular
	FontSize float64 `mapstructure:"size" yaml:"size"` // in points
}

func fontBytes(path string) ([]byte, error) {
	if path == "" {
		return goregular.TTF, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading font file: %w", err)
	}
	return b, nil
}

// getFontFace loads an opentype face for the configured font.
func getFontFace(cfg FontConfig) (font.Face, error) {
	b, err := fontBytes(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	ttf, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %w", err)
	}
	return opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// getTrueTypeFont loads the same font for freetype contexts.
func getTrueTypeFont(cfg FontConfig) (*truetype.Font, error) {
	b, err := fontBytes(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %w", err)
	}
	return f, nil
}

//---------------- Drawing Functions ----------------

// drawText draws a string onto an *image.RGBA at (x,y) using the specified font face and color.
// (x,y) is the top of the text; with center set x is the horizontal middle.
func drawText(img *image.RGBA, text string, posX, posY int, face font.Face, clr color.Color, center bool) (finishX, finishY int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}

	metrics := face.Metrics()
	textWidth := d.MeasureString(text).Round()

	x := posX
	if center {
		x = posX - textWidth/2
	}
	d.Dot = fixed.P(x, posY+metrics.Ascent.Round())
	d.DrawString(text)

	return x + textWidth, posY + metrics.Ascent.Round() + metrics.Descent.Round()
}

// drawTextFreetype renders centred text through a freetype context.
func drawTextFreetype(img *image.RGBA, text string, centerX, posY int, f *truetype.Font, size float64, clr color.Color) error {
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()
	width := font.MeasureString(face, text).Round()
	ascent := face.Metrics().Ascent.Round()

	fc := freetype.NewContext()
	fc.SetDPI(72)
	fc.SetFont(f)
	fc.SetFontSize(size)
	fc.SetClip(img.Bounds())
	fc.SetDst(img)
	fc.SetSrc(image.NewUniform(clr))
	fc.SetHinting(font.HintingFull)

	_, err := fc.DrawString(text, freetype.Pt(centerX-width/2, posY+ascent))
	return err
}

func clearFrame(frame *image.RGBA, bg color.Color) {
	b := frame.Bounds()
	drawRect(frame, b.Min.X, b.Min.Y, b.Dx(), b.Dy(), bg)
}

func drawRect(img *image.RGBA, x0, y0, width, height int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x0+width, y0+height), image.NewUniform(c), image.Point{}, draw.Src)
}

// renderSVG rasterizes SVG markup at its intrinsic size and caches the result by key.
func renderSVG(key, markup string) (*image.RGBA, error) {
	svgCacheMu.Lock()
	defer svgCacheMu.Unlock()
	if img, ok := svgCache[key]; ok {
		return img, nil
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing svg %s: %w", key, err)
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	svgCache[key] = img
	return img, nil
}

// copyImageToImageAt copies an image to an image at a specified offset. frame is the destination image, img is the source image. x0, y0 is the offset.
func copyImageToImageAt(frame *image.RGBA, img *image.RGBA, x0, y0 int) error {
	if frame == nil || img == nil {
		return fmt.Errorf("nil image provided")
	}
	if x0 < 0 || y0 < 0 {
		return fmt.Errorf("x, y is negative: %d,%d", x0, y0)
	}
	src := img.Bounds()
	dst := image.Rect(x0, y0, x0+src.Dx(), y0+src.Dy())
	draw.Draw(frame, dst, img, src.Min, draw.Over)
	return nil
}

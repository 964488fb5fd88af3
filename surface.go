package main

import (
	"fmt"
	"image"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/llgcode/draw2d/draw2dimg"
)

// Surface is the minimal line-drawing target the arc renderer needs.
type Surface interface {
	SetStrokeColor(c color.Color)
	SetStrokeWidth(w int)
	DrawLine(p1, p2 image.Point)
}

const (
	SURFACE_IMAGE  = "image"
	SURFACE_DRAW2D = "draw2d"
)

// newFrameSurface returns the named surface over img; unknown names fall
// back to the Bresenham image surface.
func newFrameSurface(kind string, img *image.RGBA) Surface {
	if kind == SURFACE_DRAW2D {
		return newDraw2dSurface(img)
	}
	return newImageSurface(img)
}

//---------------- image.RGBA surface ----------------

// imageSurface strokes Bresenham lines straight into a frame buffer.
type imageSurface struct {
	img   *image.RGBA
	color color.RGBA
	width int
}

func newImageSurface(img *image.RGBA) *imageSurface {
	return &imageSurface{img: img, color: PCAT_WHITE, width: 1}
}

func (s *imageSurface) SetStrokeColor(c color.Color) {
	s.color = toRGBA(c)
}

func (s *imageSurface) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.width = w
}

func (s *imageSurface) DrawLine(p1, p2 image.Point) {
	if s.width == 1 {
		drawLine(s.img, p1.X, p1.Y, p2.X, p2.Y, s.color)
		return
	}
	// square brush centred on the line
	off := s.width / 2
	for dy := 0; dy < s.width; dy++ {
		for dx := 0; dx < s.width; dx++ {
			drawLine(s.img, p1.X+dx-off, p1.Y+dy-off, p2.X+dx-off, p2.Y+dy-off, s.color)
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, clr color.RGBA) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	b := img.Bounds()
	for {
		if image.Pt(x0, y0).In(b) {
			img.SetRGBA(x0, y0, clr)
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

//---------------- draw2d surface ----------------

// draw2dSurface strokes through a draw2d graphic context. Lines are stroked
// one by one, which keeps square caps on every radial stroke.
type draw2dSurface struct {
	gc *draw2dimg.GraphicContext
}

func newDraw2dSurface(img *image.RGBA) *draw2dSurface {
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineWidth(1)
	return &draw2dSurface{gc: gc}
}

func (s *draw2dSurface) SetStrokeColor(c color.Color) {
	s.gc.SetStrokeColor(c)
}

func (s *draw2dSurface) SetStrokeWidth(w int) {
	s.gc.SetLineWidth(float64(w))
}

func (s *draw2dSurface) DrawLine(p1, p2 image.Point) {
	// pixel centres
	s.gc.MoveTo(float64(p1.X)+0.5, float64(p1.Y)+0.5)
	s.gc.LineTo(float64(p2.X)+0.5, float64(p2.Y)+0.5)
	s.gc.Stroke()
}

//---------------- SVG surface ----------------

// svgSurface records every line as an SVG <line> element.
type svgSurface struct {
	canvas *svg.SVG
	color  color.RGBA
	width  int
}

func newSVGSurface(w io.Writer, width, height int, background color.Color) *svgSurface {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+hexColor(background))
	return &svgSurface{canvas: canvas, color: PCAT_WHITE, width: 1}
}

func (s *svgSurface) SetStrokeColor(c color.Color) {
	s.color = toRGBA(c)
}

func (s *svgSurface) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.width = w
}

func (s *svgSurface) DrawLine(p1, p2 image.Point) {
	s.canvas.Line(p1.X, p1.Y, p2.X, p2.Y, fmt.Sprintf("stroke:%s;stroke-width:%d", hexColor(s.color), s.width))
}

// Close terminates the SVG document.
func (s *svgSurface) Close() {
	s.canvas.End()
}

func hexColor(c color.Color) string {
	rgba := toRGBA(c)
	return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
}

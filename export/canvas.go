package export

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoMedia means a frame had no decoded media handle to draw. The frame
// loop treats it as a soft failure: background and caption still render.
var ErrNoMedia = errors.New("no decoded media for segment")

// Canvas is the offscreen drawing surface the exporter composites frames
// on. It is exclusively owned by one export pass at a time.
type Canvas struct {
	img           *image.RGBA
	width, height int
	captionHeight int
}

// NewCanvas allocates a canvas of the export dimensions.
func NewCanvas(width, height, captionHeight int) *Canvas {
	return &Canvas{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		width:         width,
		height:        height,
		captionHeight: captionHeight,
	}
}

// Clear paints the whole surface black.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// DrawCover draws src scaled with cover fit: scale = max(w/sw, h/sh),
// centered, cropping whatever overflows the frame.
func (c *Canvas) DrawCover(src image.Image) error {
	if src == nil {
		return ErrNoMedia
	}
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return ErrNoMedia
	}

	scale := float64(c.width) / float64(sw)
	if s := float64(c.height) / float64(sh); s > scale {
		scale = s
	}
	drawnW := float64(sw) * scale
	drawnH := float64(sh) * scale
	offX := (float64(c.width) - drawnW) / 2
	offY := (float64(c.height) - drawnH) / 2

	// Cover fit fills the whole frame, so walk every canvas pixel and map
	// it back into the source.
	for y := 0; y < c.height; y++ {
		sy := int((float64(y) - offY) / scale)
		if sy < 0 {
			sy = 0
		}
		if sy >= sh {
			sy = sh - 1
		}
		for x := 0; x < c.width; x++ {
			sx := int((float64(x) - offX) / scale)
			if sx < 0 {
				sx = 0
			}
			if sx >= sw {
				sx = sw - 1
			}
			c.img.Set(x, y, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return nil
}

// DrawCaption renders the semi-opaque caption bar near the bottom with the
// narration text centered inside it.
func (c *Canvas) DrawCaption(text string) {
	barTop := c.height - c.captionHeight
	bar := image.Rect(0, barTop, c.width, c.height)
	draw.Draw(c.img, bar, image.NewUniform(color.NRGBA{0, 0, 0, 178}), image.Point{}, draw.Over)

	if text == "" {
		return
	}

	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	x := (c.width - width) / 2
	if x < 0 {
		x = 0
	}
	y := barTop + c.captionHeight/2 + face.Metrics().Ascent.Ceil()/2
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// Frame exposes the composited RGBA frame for the recorder.
func (c *Canvas) Frame() *image.RGBA {
	return c.img
}

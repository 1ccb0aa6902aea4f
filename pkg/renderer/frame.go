package renderer

import (
	"image"
	"image/color"
	"image/draw"
)

// Frame is an immutable snapshot published after a completed pass.
// Readers must not modify Image.
type Frame struct {
	Image   *image.RGBA
	Samples int // Samples per pixel behind Image
	Pass    int
	Stats   FrameStats
}

// newBlankFrame returns the black frame shown before the first pass completes
func newBlankFrame(width, height int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	return &Frame{Image: img}
}

package display

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// Caption position in pixels, measured from the top-left corner to the text baseline
const (
	captionX       = 10
	captionY       = 20
	captionLeading = 15
)

// Caption returns the status text painted over a frame
func Caption(samples int) string {
	return fmt.Sprintf("Samples: %d", samples)
}

// Annotate returns a copy of the frame's image with the sample count painted in the corner.
// The frame itself is left untouched.
func Annotate(frame *renderer.Frame) *image.RGBA {
	bounds := frame.Image.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(frame.Image, 0, 0)

	dc.SetColor(colornames.White)
	dc.DrawString(Caption(frame.Samples), captionX, captionY)
	if frame.Samples == 0 {
		dc.DrawString("Wait for image to clear...", captionX, captionY+captionLeading)
	}

	return toRGBA(dc.Image())
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// SavePNG writes an image to a PNG file
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

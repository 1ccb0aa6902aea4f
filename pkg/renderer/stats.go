package renderer

import (
	"image"
	"time"
)

// FrameStats contains statistics about the rendering process up to a frame
type FrameStats struct {
	Pass       int           // Passes completed
	Samples    int           // Samples per pixel
	PassTime   time.Duration // Time spent on the latest pass
	TotalTime  time.Duration // Time spent on all passes
	RaysTraced int64         // Camera rays traced over all passes
	NonFinite  int64         // Samples replaced with black over all passes
}

// RaysPerSecond returns the camera ray throughput over all passes
func (s FrameStats) RaysPerSecond() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.RaysTraced) / s.TotalTime.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}

	return total / float64(pixels)
}

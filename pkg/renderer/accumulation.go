package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// AccumulationBuffer holds the running radiance sums of every pixel.
// It has a single writer and is never shared with readers; frames are copied out of it.
type AccumulationBuffer struct {
	width, height int
	sums          []core.Vec3 // Row-major, row 0 at the top
	samples       int         // Samples per pixel so far, one per completed pass
}

// NewAccumulationBuffer creates an empty buffer for a width x height image
func NewAccumulationBuffer(width, height int) *AccumulationBuffer {
	return &AccumulationBuffer{
		width:  width,
		height: height,
		sums:   make([]core.Vec3, width*height),
	}
}

// Samples returns the number of passes accumulated
func (b *AccumulationBuffer) Samples() int {
	return b.samples
}

// Sum returns the accumulated radiance of pixel (x, y)
func (b *AccumulationBuffer) Sum(x, y int) core.Vec3 {
	return b.sums[y*b.width+x]
}

// AddPass adds one sample per pixel and increments the sample count once
func (b *AccumulationBuffer) AddPass(pass []core.Vec3) {
	for i, c := range pass {
		b.sums[i] = b.sums[i].Add(c)
	}
	b.samples++
}

// Image converts the buffer into a new display image
func (b *AccumulationBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetRGBA(x, y, ToRGBA(b.sums[y*b.width+x], b.samples))
		}
	}
	return img
}

// ToRGBA converts an accumulated radiance sum into an 8-bit display color:
// average, gamma 2 via square root, clamp to [0, 0.999] and scale by 255.999
func ToRGBA(sum core.Vec3, samples int) color.RGBA {
	if samples <= 0 {
		return color.RGBA{A: 255}
	}
	scale := 1.0 / float64(samples)
	return color.RGBA{
		R: channelToByte(sum.X * scale),
		G: channelToByte(sum.Y * scale),
		B: channelToByte(sum.Z * scale),
		A: 255,
	}
}

func channelToByte(linear float64) uint8 {
	v := math.Sqrt(linear)
	if !(v > 0) {
		return 0 // negative, zero or NaN
	}
	v = math.Min(v, 0.999)
	return uint8(math.Floor(255.999 * v))
}

package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		sum      core.Vec3
		samples  int
		expected color.RGBA
	}{
		{"no samples", core.NewVec3(5, 5, 5), 0, color.RGBA{0, 0, 0, 255}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), 1, color.RGBA{255, 255, 255, 255}},
		{"overexposed", core.NewVec3(7, 2, 1.5), 1, color.RGBA{255, 255, 255, 255}},
		{"gamma 2", core.NewVec3(0.25, 0.5, 0), 1, color.RGBA{127, 181, 0, 255}},
		{"averaged", core.NewVec3(1, 0, 4), 4, color.RGBA{127, 0, 255, 255}},
		{"negative and NaN", core.NewVec3(-1, math.NaN(), 0), 1, color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGBA(tt.sum, tt.samples); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAccumulationBuffer(t *testing.T) {
	buf := NewAccumulationBuffer(3, 2)
	if buf.Samples() != 0 {
		t.Fatalf("Expected an empty buffer, got %d samples", buf.Samples())
	}

	pass := make([]core.Vec3, 6)
	pass[1*3+2] = core.NewVec3(1, 0.25, 0) // pixel (2,1)

	buf.AddPass(pass)
	buf.AddPass(pass)

	if buf.Samples() != 2 {
		t.Errorf("Expected one sample per pass, got %d", buf.Samples())
	}
	if got := buf.Sum(2, 1); !got.Equals(core.NewVec3(2, 0.5, 0)) {
		t.Errorf("Expected accumulated (2,0.5,0), got %v", got)
	}

	img := buf.Image()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{255, 127, 0, 255}) {
		t.Errorf("Unexpected pixel color %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected opaque black, got %v", got)
	}
}

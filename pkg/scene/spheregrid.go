package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	lp = lp * lp * lp
	mp = mp * mp * mp
	sp = sp * sp * sp

	// LMS to linear RGB
	r := +4.0767416621*lp - 3.3077115913*mp + 0.2309699292*sp
	g := -1.2684380046*lp + 2.6097574011*mp - 0.3413193965*sp
	blue := -0.0041960863*lp - 0.7034186147*mp + 1.7076147010*sp

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of colored metal spheres on a diffuse ground sphere.
// Every sphere is tested for every ray, so the grid is kept small.
func NewSphereGridScene() *Scene {
	width, height := 640, 360
	gridSize := 6

	s := &Scene{
		Name:  "sphere-grid",
		World: geometry.NewHittableList(),
		Camera: geometry.CameraConfig{
			LookFrom:    core.NewVec3(2.5, 4, 11),
			LookAt:      core.NewVec3(2.5, 0.3, 2.5),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        35,
			AspectRatio: float64(width) / float64(height),
		},
		Width:    width,
		Height:   height,
		MaxDepth: 30,
	}

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddSphere(core.NewVec3(2.5, -1000, 2.5), 1000, ground)

	spacing := 1.0
	radius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			position := core.NewVec3(float64(i)*spacing, radius, float64(j)*spacing)

			// Hue varies along X, chroma along Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := 0.05 + 0.1*float64((i+j)%3)/2.0
			s.AddSphere(position, radius, material.NewMetal(oklchToRGB(lightness, chroma, hue), fuzz))
		}
	}

	return s
}

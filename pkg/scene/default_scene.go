package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// NewDefaultScene creates the classic three-sphere scene on a large ground sphere:
// a diffuse blue sphere, a hollow glass sphere and a polished gold sphere
func NewDefaultScene() *Scene {
	width, height := 800, 450

	s := &Scene{
		Name:  "default",
		World: geometry.NewHittableList(),
		Camera: geometry.CameraConfig{
			LookFrom:    core.NewVec3(3, 3, 2),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        20,
			AspectRatio: float64(width) / float64(height),
		},
		Width:    width,
		Height:   height,
		MaxDepth: 20,
	}

	materialGround := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, materialGround)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, materialLeft)
	// Negative radius flips the normals inward, leaving a thin glass shell
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.45, materialLeft)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, materialRight)

	return s
}

// NewDiffuseScene creates a single grey diffuse sphere resting on a grey ground sphere,
// viewed head-on from the origin
func NewDiffuseScene() *Scene {
	width, height := 400, 400
	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	s := &Scene{
		Name:  "diffuse",
		World: geometry.NewHittableList(),
		Camera: geometry.CameraConfig{
			LookFrom:    core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        90,
			AspectRatio: float64(width) / float64(height),
		},
		Width:    width,
		Height:   height,
		MaxDepth: 20,
	}

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, gray)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, gray)

	return s
}

// NewMirrorScene places the camera inside a perfect white mirror sphere.
// No path ever escapes to the sky, so every pixel renders black once the bounce budget runs out.
func NewMirrorScene() *Scene {
	width, height := 200, 200
	mirror := material.NewMetal(core.NewVec3(1, 1, 1), 0.0)

	s := &Scene{
		Name:  "mirror",
		World: geometry.NewHittableList(),
		Camera: geometry.CameraConfig{
			LookFrom:    core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        90,
			AspectRatio: float64(width) / float64(height),
		},
		Width:    width,
		Height:   height,
		MaxDepth: 50,
	}

	s.AddSphere(core.NewVec3(0, 0, 0), 2, mirror)
	s.AddSphere(core.NewVec3(0.5, -0.5, -1), 0.3, mirror)

	return s
}

package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// ErrInvalidScene is returned for scene descriptions that cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// The world is built once and treated as read-only while rendering.
type Scene struct {
	Name     string
	World    *geometry.HittableList
	Camera   geometry.CameraConfig
	Width    int // Image width in pixels
	Height   int // Image height in pixels
	MaxDepth int // Maximum ray bounce depth
}

// AspectRatio returns width / height of the scene's image
func (s *Scene) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// AddSphere appends a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	if s.World == nil {
		s.World = geometry.NewHittableList()
	}
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// Validate checks that the scene can be handed to a renderer
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	if s.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidScene, s.MaxDepth)
	}
	if s.World == nil || s.World.Len() == 0 {
		return fmt.Errorf("%w: scene %q has no objects", ErrInvalidScene, s.Name)
	}
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera configuration cannot produce a view
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	LookFrom    core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // World up reference
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("%w: aspect ratio must be positive, got %v", ErrInvalidCamera, c.AspectRatio)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("%w: vertical fov must be in (0, 180) degrees, got %v", ErrInvalidCamera, c.VFov)
	}
	view := c.LookFrom.Subtract(c.LookAt)
	if view.NearZero() {
		return fmt.Errorf("%w: lookFrom and lookAt coincide at %v", ErrInvalidCamera, c.LookFrom)
	}
	if c.Up.Cross(view).NearZero() {
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidCamera, c.Up)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from the given configuration.
// The configuration is assumed to be valid; see CameraConfig.Validate.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          config.LookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
	}
}

// GetRay generates a ray for image plane coordinates (s, t); [0,1] spans the viewport
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

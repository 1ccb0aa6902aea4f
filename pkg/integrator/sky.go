package integrator

import "github.com/df07/go-progressive-pathtracer/pkg/core"

// Sky is a vertical gradient background and the only light source in a scene
type Sky struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// DefaultSky blends white at the horizon-down into light blue overhead
func DefaultSky() Sky {
	return Sky{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the background radiance seen along the ray
func (s Sky) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return s.Bottom.Multiply(1.0 - t).Add(s.Top.Multiply(t))
}

package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Hittable interface for objects that can be hit by rays.
// Implemented by Sphere and HittableList only.
type Hittable interface {
	// Hit reports the intersection within [tMin, tMax], if any
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)

	sealed()
}

package integrator

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// ShadowAcneEpsilon is the minimum ray parameter accepted for a hit.
// Scattered rays start on a surface and would otherwise re-hit it through rounding error.
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements recursive unidirectional path tracing
type PathTracingIntegrator struct {
	world    geometry.Hittable
	maxDepth int
	sky      Sky
}

// NewPathTracingIntegrator creates a path tracer over the given world
func NewPathTracingIntegrator(world geometry.Hittable, maxDepth int, sky Sky) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		world:    world,
		maxDepth: maxDepth,
		sky:      sky,
	}
}

// MaxDepth returns the bounce budget given to each camera ray
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a camera ray with the configured bounce budget
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return pt.RayColorDepth(ray, pt.maxDepth, sampler)
}

// RayColorDepth computes the color for a ray with an explicit bounce budget
func (pt *PathTracingIntegrator) RayColorDepth(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := pt.world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.sky.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColorDepth(scatter.Scattered, depth-1, sampler))
}

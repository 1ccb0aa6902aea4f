package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// HittableList is an ordered collection of primitives tested by linear scan
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list from the given objects, preserving their order
func NewHittableList(objects ...Hittable) *HittableList {
	list := &HittableList{}
	for _, object := range objects {
		list.Add(object)
	}
	return list
}

// Add appends an object; lists are built once before rendering
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
}

// Len returns the number of members
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the closest hit among all members.
// Members are scanned in order and a later member only wins with a strictly closer t.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, object := range l.Objects {
		hit, isHit := object.Hit(ray, tMin, closestSoFar)
		if !isHit {
			continue
		}
		if hitAnything && hit.T >= closest.T {
			continue
		}
		hitAnything = true
		closestSoFar = hit.T
		closest = hit
	}

	return closest, hitAnything
}

func (l *HittableList) sealed() {}

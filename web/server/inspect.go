package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// inspectTMin matches the self-intersection offset used by the integrator
const inspectTMin = 0.001

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult describes the first surface seen through a pixel
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Sphere    *geometry.Sphere // nil if the hit could not be matched to a sphere
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo.X, m.Albedo.Y, m.Albedo.Z)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo.X, m.Albedo.Y, m.Albedo.Z)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

func hexColor(r, g, b float64) string {
	toByte := func(x float64) int {
		return int(255 * math.Max(0, math.Min(1, x)))
	}
	return fmt.Sprintf("#%02x%02x%02x", toByte(r), toByte(g), toByte(b))
}

// inspectPixel casts the center ray of a pixel and reports the first surface it hits
func (s *Server) inspectPixel(x, y int) InspectResult {
	ray := s.renderer.PixelRay(x, y)
	world := s.renderer.World()

	hit, isHit := world.Hit(ray, inspectTMin, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The list does not report which member won, so rescan for the matching t
	for _, object := range world.Objects {
		sphere, ok := object.(*geometry.Sphere)
		if !ok {
			continue
		}
		if sphereHit, sphereIsHit := sphere.Hit(ray, inspectTMin, hit.T); sphereIsHit && sphereHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Sphere: sphere}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	config := s.renderer.Config()
	query := r.URL.Query()

	if query.Get("x") == "" || query.Get("y") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required"})
		return
	}
	pixelX, err := parseIntParam(query, "x", 0, 0, config.Width-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pixelY, err := parseIntParam(query, "y", 0, 0, config.Height-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := s.inspectPixel(pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType := "unknown"
	geometryProps := make(map[string]interface{})
	if result.Sphere != nil {
		geometryType = "sphere"
		geometryProps["center"] = [3]float64{result.Sphere.Center.X, result.Sphere.Center.Y, result.Sphere.Center.Z}
		geometryProps["radius"] = result.Sphere.Radius
	}

	hit := result.HitRecord
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

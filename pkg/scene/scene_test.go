package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func spheres(t *testing.T, s *Scene) []*geometry.Sphere {
	t.Helper()
	var out []*geometry.Sphere
	for _, obj := range s.World.Objects {
		sphere, ok := obj.(*geometry.Sphere)
		if !ok {
			t.Fatalf("Expected only spheres in the world, got %T", obj)
		}
		out = append(out, sphere)
	}
	return out
}

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	if err := s.Validate(); err != nil {
		t.Fatalf("Default scene should be valid: %v", err)
	}
	if s.Width != 800 || s.Height != 450 || s.MaxDepth != 20 {
		t.Errorf("Expected 800x450 at depth 20, got %dx%d at depth %d", s.Width, s.Height, s.MaxDepth)
	}
	if !s.Camera.LookFrom.Equals(core.NewVec3(3, 3, 2)) || !s.Camera.LookAt.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Unexpected camera placement %v -> %v", s.Camera.LookFrom, s.Camera.LookAt)
	}
	if s.Camera.VFov != 20 {
		t.Errorf("Expected vfov 20, got %f", s.Camera.VFov)
	}

	objects := spheres(t, s)
	if len(objects) != 5 {
		t.Fatalf("Expected 5 spheres, got %d", len(objects))
	}

	ground := objects[0]
	if ground.Radius != 100 || !ground.Center.Equals(core.NewVec3(0, -100.5, -1)) {
		t.Errorf("Unexpected ground sphere %+v", ground)
	}

	// The glass sphere and its hollow bubble share one material
	outer, bubble := objects[2], objects[3]
	if outer.Material != bubble.Material {
		t.Error("Expected the glass shell to share its material")
	}
	if bubble.Radius != -0.45 {
		t.Errorf("Expected hollow bubble radius -0.45, got %f", bubble.Radius)
	}
	glass, ok := outer.Material.(*material.Dielectric)
	if !ok || glass.RefractiveIndex != 1.5 {
		t.Errorf("Expected dielectric 1.5, got %#v", outer.Material)
	}

	metal, ok := objects[4].Material.(*material.Metal)
	if !ok || metal.Fuzzness != 0 || !metal.Albedo.Equals(core.NewVec3(0.8, 0.6, 0.2)) {
		t.Errorf("Expected polished gold metal, got %#v", objects[4].Material)
	}
}

func TestBuiltinScenesAreValid(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", name, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Scene %q is invalid: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if s.Camera.AspectRatio != s.AspectRatio() {
				t.Errorf("Camera aspect %f does not match image aspect %f", s.Camera.AspectRatio, s.AspectRatio())
			}
		})
	}
}

func TestMirrorScene_AllMirrors(t *testing.T) {
	for _, sphere := range spheres(t, NewMirrorScene()) {
		metal, ok := sphere.Material.(*material.Metal)
		if !ok {
			t.Fatalf("Expected metal, got %T", sphere.Material)
		}
		if metal.Fuzzness != 0 || !metal.Albedo.Equals(core.NewVec3(1, 1, 1)) {
			t.Errorf("Expected a perfect white mirror, got %+v", metal)
		}
	}
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Scene)
	}{
		{"zero width", func(s *Scene) { s.Width = 0 }},
		{"negative height", func(s *Scene) { s.Height = -1 }},
		{"zero depth", func(s *Scene) { s.MaxDepth = 0 }},
		{"nil world", func(s *Scene) { s.World = nil }},
		{"empty world", func(s *Scene) { s.World = geometry.NewHittableList() }},
		{"degenerate camera", func(s *Scene) { s.Camera.LookAt = s.Camera.LookFrom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDiffuseScene()
			tt.modify(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Expected ErrInvalidScene, got %v", err)
			}
		})
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for h := 0.0; h < 360; h += 15 {
		c := oklchToRGB(0.65, 0.25, h)
		if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 || c.Z < 0 || c.Z > 1 {
			t.Errorf("Hue %f produced out of range color %v", h, c)
		}
	}

	// Zero chroma is a neutral grey
	grey := oklchToRGB(0.5, 0, 0)
	if diff := grey.X - grey.Z; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Expected neutral grey, got %v", grey)
	}
}

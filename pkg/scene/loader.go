package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Vec3Cfg is a vector written as a three element JSON array
type Vec3Cfg [3]float64

func (v Vec3Cfg) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

type CameraCfg struct {
	LookFrom Vec3Cfg  `json:"lookFrom"`
	LookAt   Vec3Cfg  `json:"lookAt"`
	Up       *Vec3Cfg `json:"up,omitempty"` // defaults to +Y
	VFov     float64  `json:"vfov"`
}

// MaterialCfg describes one named material. Fields not used by Type are ignored.
type MaterialCfg struct {
	Type            string  `json:"type"` // lambertian, metal or dielectric
	Albedo          Vec3Cfg `json:"albedo"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

type SphereCfg struct {
	Center   Vec3Cfg `json:"center"`
	Radius   float64 `json:"radius"` // negative for hollow shells
	Material string  `json:"material"`
}

// Config is the on-disk scene description
type Config struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	MaxDepth    int                    `json:"maxDepth,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Spheres     []SphereCfg            `json:"spheres"`
}

const defaultMaxDepth = 20

// Build validates the material description and constructs it
func (mc MaterialCfg) Build() (material.Material, error) {
	switch strings.ToLower(mc.Type) {
	case "lambertian":
		return material.NewLambertian(mc.Albedo.Vec3()), nil
	case "metal":
		return material.NewMetal(mc.Albedo.Vec3(), mc.Fuzz), nil
	case "dielectric":
		if !(mc.RefractiveIndex > 0) {
			return nil, fmt.Errorf("dielectric needs a positive refractiveIndex, got %v", mc.RefractiveIndex)
		}
		return material.NewDielectric(mc.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", mc.Type)
	}
}

// Build validates the description and constructs the scene.
// Spheres referring to the same material name share one material value.
func (c Config) Build() (*Scene, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidScene, c.Width, c.Height)
	}
	if len(c.Spheres) == 0 {
		return nil, fmt.Errorf("%w: no spheres", ErrInvalidScene)
	}

	maxDepth := c.MaxDepth
	if maxDepth == 0 {
		maxDepth = defaultMaxDepth
	}

	materials := make(map[string]material.Material, len(c.Materials))
	for name, mc := range c.Materials {
		mat, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrInvalidScene, name, err)
		}
		materials[name] = mat
	}

	up := core.NewVec3(0, 1, 0)
	if c.Camera.Up != nil {
		up = c.Camera.Up.Vec3()
	}

	s := &Scene{
		Name:  c.Name,
		World: geometry.NewHittableList(),
		Camera: geometry.CameraConfig{
			LookFrom:    c.Camera.LookFrom.Vec3(),
			LookAt:      c.Camera.LookAt.Vec3(),
			Up:          up,
			VFov:        c.Camera.VFov,
			AspectRatio: float64(c.Width) / float64(c.Height),
		},
		Width:    c.Width,
		Height:   c.Height,
		MaxDepth: maxDepth,
	}

	for i, sc := range c.Spheres {
		mat, ok := materials[sc.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references unknown material %q", ErrInvalidScene, i, sc.Material)
		}
		if sc.Radius == 0 {
			return nil, fmt.Errorf("%w: sphere %d has zero radius", ErrInvalidScene, i)
		}
		s.AddSphere(sc.Center.Vec3(), sc.Radius, mat)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseScene decodes a JSON scene description and builds it
func ParseScene(r io.Reader) (*Scene, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidScene, err)
	}
	return cfg.Build()
}

// LoadSceneFile reads and builds a JSON scene file.
// A scene without a name is named after its file.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := ParseScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

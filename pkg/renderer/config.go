package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

var (
	// ErrInvalidConfig is returned by NewProgressive for unusable configurations
	ErrInvalidConfig = errors.New("invalid render configuration")
	// ErrEmptyScene is returned by NewProgressive for a scene without objects
	ErrEmptyScene = errors.New("scene has no objects")
	// ErrAlreadyStarted is returned by Start unless the renderer is idle
	ErrAlreadyStarted = errors.New("renderer already started")
)

// Config contains configuration for progressive rendering
type Config struct {
	Width      int   // Image width in pixels
	Height     int   // Image height in pixels
	MaxDepth   int   // Maximum ray bounce depth
	Seed       int64 // Base seed for the per-tile samplers
	TileSize   int   // Size of each tile (64x64 recommended)
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	MaxPasses  int   // Passes before the background loop stops (0 = unbounded)

	// NewSampler creates the sampler owned by one tile. Nil uses core.NewSeededSampler.
	NewSampler func(seed int64) core.Sampler
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     450,
		MaxDepth:   20,
		Seed:       42,
		TileSize:   64,
		NumWorkers: 1,
		MaxPasses:  0,
	}
}

// ConfigForScene returns the default configuration sized for the scene
func ConfigForScene(s *scene.Scene) Config {
	config := DefaultConfig()
	if s.Width > 0 {
		config.Width = s.Width
	}
	if s.Height > 0 {
		config.Height = s.Height
	}
	if s.MaxDepth > 0 {
		config.MaxDepth = s.MaxDepth
	}
	return config
}

// Validate checks the configuration before any rendering starts
func (c Config) Validate() error {
	// Jittered coordinates divide by width-1 and height-1
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("%w: image must be at least 2x2, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.TileSize < 1 {
		return fmt.Errorf("%w: tile size must be at least 1, got %d", ErrInvalidConfig, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("%w: max passes must not be negative, got %d", ErrInvalidConfig, c.MaxPasses)
	}
	return nil
}

func (c Config) sampler(seed int64) core.Sampler {
	if c.NewSampler != nil {
		return c.NewSampler(seed)
	}
	return core.NewSeededSampler(seed)
}

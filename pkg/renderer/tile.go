package renderer

import (
	"image"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID      int             // Unique tile identifier
	Bounds  image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Sampler core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile with the specified bounds and its own sampler
func NewTile(id int, bounds image.Rectangle, sampler core.Sampler) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: sampler,
	}
}

// tileSeed derives a tile's sampler seed from the render seed
func tileSeed(seed int64, id int) int64 {
	return seed*1_000_003 + int64(id)
}

// NewTileGrid creates a grid of tiles covering the entire image.
// Each tile samples from its own sequence, so the image does not depend on how tiles are scheduled.
func NewTileGrid(config Config) []*Tile {
	var tiles []*Tile
	tileID := 0
	tileSize := config.TileSize

	tilesX := (config.Width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (config.Height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, config.Width) // Don't exceed image bounds
			y1 := min(y0+tileSize, config.Height)

			sampler := config.sampler(tileSeed(config.Seed, tileID))
			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), sampler))
			tileID++
		}
	}

	return tiles
}

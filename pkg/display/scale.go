package display

import (
	"image"

	"golang.org/x/image/draw"
)

// MaxScale bounds the upscaling factor accepted by Scale
const MaxScale = 16

// Scale enlarges an image by an integer factor with nearest-neighbour sampling,
// keeping pixels crisp for small previews. Factors below 1 are treated as 1.
func Scale(img image.Image, factor int) *image.RGBA {
	factor = max(1, min(factor, MaxScale))

	src := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, src.Dx()*factor, src.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

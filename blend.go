package hatch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrSeamOverlap is returned when the requested overlap does not fit inside
// both tiles.
var ErrSeamOverlap = errors.New("overlap must be positive and smaller than both tile widths")

// BlendSeam joins two tiles horizontally with a linear cross-fade across an
// overlap band, hiding the hard edge where independently generated tiles
// meet. The output is leftWidth + rightWidth - overlap pixels wide; outside
// the band each side is copied unchanged.
func BlendSeam(left, right image.Image, overlap int) (*image.RGBA, error) {
	lb, rb := left.Bounds(), right.Bounds()
	if lb.Dy() != rb.Dy() {
		return nil, fmt.Errorf("tile heights differ: %d vs %d", lb.Dy(), rb.Dy())
	}
	if overlap <= 0 || overlap >= lb.Dx() || overlap >= rb.Dx() {
		return nil, ErrSeamOverlap
	}

	width := lb.Dx() + rb.Dx() - overlap
	height := lb.Dy()
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	// Unblended regions are straight copies.
	draw.Draw(out, image.Rect(0, 0, lb.Dx()-overlap, height), left, lb.Min, draw.Src)
	draw.Draw(out,
		image.Rect(lb.Dx(), 0, width, height),
		right, rb.Min.Add(image.Pt(overlap, 0)), draw.Src)

	// Cross-fade the band: t runs 0→1 left to right.
	bandStart := lb.Dx() - overlap
	for x := 0; x < overlap; x++ {
		t := 1.0
		if overlap > 1 {
			t = float64(x) / float64(overlap-1)
		}
		for y := 0; y < height; y++ {
			lr, lg, lbl, la := left.At(lb.Min.X+bandStart+x, lb.Min.Y+y).RGBA()
			rr, rg, rbl, ra := right.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			out.Set(bandStart+x, y, rgba8(
				lerp16(lr, rr, t),
				lerp16(lg, rg, t),
				lerp16(lbl, rbl, t),
				lerp16(la, ra, t),
			))
		}
	}
	return out, nil
}

// BlendTileRow folds a slice of equal-height tiles into one strip, blending
// every adjacent seam.
func BlendTileRow(tiles []image.Image, overlap int) (*image.RGBA, error) {
	if len(tiles) == 0 {
		return nil, errors.New("no tiles to blend")
	}

	acc := image.NewRGBA(tiles[0].Bounds().Sub(tiles[0].Bounds().Min))
	draw.Draw(acc, acc.Bounds(), tiles[0], tiles[0].Bounds().Min, draw.Src)

	for _, tile := range tiles[1:] {
		blended, err := BlendSeam(acc, tile, overlap)
		if err != nil {
			return nil, err
		}
		acc = blended
	}
	return acc, nil
}

// lerp16 interpolates two 16-bit channel values.
func lerp16(a, b uint32, t float64) uint8 {
	v := float64(a)*(1-t) + float64(b)*t
	return uint8(uint32(v) >> 8)
}

func rgba8(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}

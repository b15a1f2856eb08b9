package geo

import (
	"fmt"
	"math"
)

// Channel counts for Raster.Pix
const (
	ChannelsGray = 1
	ChannelsRGB  = 3
)

// BoundingBox represents geographic bounds in lon/lat degrees
type BoundingBox struct {
	West, South, East, North float64
}

// ValidationError reports a malformed input detected before any I/O
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks that all components are finite and ordered.
// West must be less than East, South less than North.
func (b BoundingBox) Validate() error {
	for _, c := range []struct {
		name string
		val  float64
	}{
		{"west", b.West},
		{"south", b.South},
		{"east", b.East},
		{"north", b.North},
	} {
		if math.IsNaN(c.val) || math.IsInf(c.val, 0) {
			return &ValidationError{Field: "bbox", Message: fmt.Sprintf("%s is not a finite number", c.name)}
		}
	}
	if b.West >= b.East {
		return &ValidationError{Field: "bbox", Message: fmt.Sprintf("west (%v) must be less than east (%v)", b.West, b.East)}
	}
	if b.South >= b.North {
		return &ValidationError{Field: "bbox", Message: fmt.Sprintf("south (%v) must be less than north (%v)", b.South, b.North)}
	}
	return nil
}

// Raster is a decoded pixel grid with the originating bounding box attached.
// Pix is row-major, Channels samples per pixel (3=RGB, 1=grayscale).
type Raster struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
	BBox     BoundingBox
}

// Luminance weights for grayscale conversion (ITU-R 601 convention)
const (
	lumR = 0.30
	lumG = 0.59
	lumB = 0.11
)

// Grayscale returns a new single-channel raster of the same dimensions.
// The receiver is not modified; the bounding box carries over unchanged.
func (r *Raster) Grayscale() *Raster {
	if r.Channels == ChannelsGray {
		out := &Raster{
			Pix:      make([]uint8, len(r.Pix)),
			Width:    r.Width,
			Height:   r.Height,
			Channels: ChannelsGray,
			BBox:     r.BBox,
		}
		copy(out.Pix, r.Pix)
		return out
	}

	pix := make([]uint8, r.Width*r.Height)
	for i := 0; i < r.Width*r.Height; i++ {
		idx := i * r.Channels
		v := lumR*float64(r.Pix[idx]) + lumG*float64(r.Pix[idx+1]) + lumB*float64(r.Pix[idx+2])
		pix[i] = uint8(math.Round(v))
	}

	return &Raster{
		Pix:      pix,
		Width:    r.Width,
		Height:   r.Height,
		Channels: ChannelsGray,
		BBox:     r.BBox,
	}
}

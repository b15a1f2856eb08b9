// Package frame computes the geometry an external plotting grammar needs to
// render a georeferenced raster as a background layer: corner coordinates,
// axis limits, legend placement offsets, and darken-overlay instructions.
// Pure data, no I/O, no rendering.
package frame

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/geoplot/tileframe/pkg/geo"
)

// LegendPosition names a legend placement
type LegendPosition string

// Corner positions get a computed offset; edge positions and none are
// delegated to the renderer's built-in placement.
const (
	LegendBottomLeft  LegendPosition = "bottomleft"
	LegendTopLeft     LegendPosition = "topleft"
	LegendBottomRight LegendPosition = "bottomright"
	LegendTopRight    LegendPosition = "topright"
	LegendLeft        LegendPosition = "left"
	LegendRight       LegendPosition = "right"
	LegendTop         LegendPosition = "top"
	LegendBottom      LegendPosition = "bottom"
	LegendNone        LegendPosition = "none"
)

// Extent selects how the plotting region is clamped to the raster
type Extent string

const (
	// ExtentUnconstrained leaves axis limits untouched
	ExtentUnconstrained Extent = "unconstrained"
	// ExtentPanel clamps the visible region exactly to the bounding box
	ExtentPanel Extent = "panel"
	// ExtentDevice clamps like panel and removes all chrome except the legend
	ExtentDevice Extent = "device"
)

// DefaultDarkenColor is used when an intensity is given without a color
const DefaultDarkenColor = "black"

// Point is a coordinate pair, either lon/lat degrees (corners) or
// normalized screen space in [0,1] (legend offsets).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LegendSpec describes where the renderer should place the legend. When
// Builtin is true the renderer uses its own placement for Position and the
// offset fields are meaningless.
type LegendSpec struct {
	Position      LegendPosition `json:"position"`
	Builtin       bool           `json:"builtin"`
	Offset        Point          `json:"offset"`
	Justification Point          `json:"justification"`
}

// DarkenSpec instructs the renderer to draw a semi-transparent rectangle
// covering the full bounding box.
type DarkenSpec struct {
	Intensity float64    `json:"intensity"`
	ColorName string     `json:"color"`
	Color     color.RGBA `json:"-"`
	Rect      [2]Point   `json:"rect"` // SW and NE corners
}

// Geometry is the frame computed from a raster's bounding box. XLim and
// YLim are nil in unconstrained mode.
type Geometry struct {
	// Corners in order SW, NW, SE, NE
	Corners    [4]Point    `json:"corners"`
	XLim       *[2]float64 `json:"xlim,omitempty"`
	YLim       *[2]float64 `json:"ylim,omitempty"`
	Extent     Extent      `json:"extent"`
	HideChrome bool        `json:"hide_chrome"`
	Legend     LegendSpec  `json:"legend"`
	Darken     *DarkenSpec `json:"darken,omitempty"`
}

// Options configures frame computation
type Options struct {
	Legend      LegendPosition
	Padding     float64
	Extent      Extent
	Darken      float64
	DarkenColor string
}

// Compute derives the frame geometry from a raster. The raster is never
// mutated; only its bounding box is consulted.
func Compute(r *geo.Raster, opts Options) (*Geometry, error) {
	return ComputeBBox(r.BBox, opts)
}

// ComputeBBox derives the frame geometry directly from a bounding box.
// Longitude/latitude are treated as a locally Euclidean plotting plane;
// there is no reprojection.
func ComputeBBox(bbox geo.BoundingBox, opts Options) (*Geometry, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if opts.Padding < 0 || opts.Padding > 1 {
		return nil, &geo.ValidationError{Field: "padding", Message: fmt.Sprintf("must be in [0, 1], got %v", opts.Padding)}
	}
	if opts.Darken < 0 || opts.Darken > 1 {
		return nil, &geo.ValidationError{Field: "darken", Message: fmt.Sprintf("must be in [0, 1], got %v", opts.Darken)}
	}

	if opts.Legend == "" {
		opts.Legend = LegendRight
	}
	if opts.Extent == "" {
		opts.Extent = ExtentPanel
	}

	g := &Geometry{
		Corners: [4]Point{
			{X: bbox.West, Y: bbox.South},
			{X: bbox.West, Y: bbox.North},
			{X: bbox.East, Y: bbox.South},
			{X: bbox.East, Y: bbox.North},
		},
		Extent: opts.Extent,
	}

	switch opts.Extent {
	case ExtentUnconstrained:
		// no limit changes
	case ExtentPanel:
		g.XLim = &[2]float64{bbox.West, bbox.East}
		g.YLim = &[2]float64{bbox.South, bbox.North}
	case ExtentDevice:
		g.XLim = &[2]float64{bbox.West, bbox.East}
		g.YLim = &[2]float64{bbox.South, bbox.North}
		g.HideChrome = true
	default:
		return nil, &geo.ValidationError{Field: "extent", Message: fmt.Sprintf("unknown extent %q", opts.Extent)}
	}

	legend, err := legendSpec(opts.Legend, opts.Padding)
	if err != nil {
		return nil, err
	}
	g.Legend = legend

	if opts.Darken > 0 {
		darken, err := darkenSpec(bbox, opts.Darken, opts.DarkenColor)
		if err != nil {
			return nil, err
		}
		g.Darken = darken
	}

	return g, nil
}

func legendSpec(pos LegendPosition, padding float64) (LegendSpec, error) {
	p := padding
	switch pos {
	case LegendBottomLeft:
		return LegendSpec{Position: pos, Offset: Point{p, p}, Justification: Point{0, 0}}, nil
	case LegendTopLeft:
		return LegendSpec{Position: pos, Offset: Point{p, 1 - p}, Justification: Point{0, 1}}, nil
	case LegendBottomRight:
		return LegendSpec{Position: pos, Offset: Point{1 - p, p}, Justification: Point{1, 0}}, nil
	case LegendTopRight:
		return LegendSpec{Position: pos, Offset: Point{1 - p, 1 - p}, Justification: Point{1, 1}}, nil
	case LegendLeft, LegendRight, LegendTop, LegendBottom, LegendNone:
		return LegendSpec{Position: pos, Builtin: true}, nil
	default:
		return LegendSpec{}, &geo.ValidationError{Field: "legend", Message: fmt.Sprintf("unknown position %q", pos)}
	}
}

func darkenSpec(bbox geo.BoundingBox, intensity float64, name string) (*DarkenSpec, error) {
	if name == "" {
		name = DefaultDarkenColor
	}
	c, ok := colornames.Map[name]
	if !ok {
		return nil, &geo.ValidationError{Field: "darken_color", Message: fmt.Sprintf("unknown color name %q", name)}
	}
	return &DarkenSpec{
		Intensity: intensity,
		ColorName: name,
		Color:     c,
		Rect: [2]Point{
			{X: bbox.West, Y: bbox.South},
			{X: bbox.East, Y: bbox.North},
		},
	}, nil
}

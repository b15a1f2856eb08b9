// Package scale translates slippy-map zoom levels into the scale-denominator
// convention used by the OSM export endpoint.
package scale

import "fmt"

// Zoom levels with a defined scale mapping
const (
	MinZoom = 2
	MaxZoom = 20
)

// Empirically tuned per provider; an exact lookup, not a formula.
var denominators = map[int]int{
	2:  175000000,
	3:  47500000,
	4:  32500000,
	5:  15000000,
	6:  10000000,
	7:  5000000,
	8:  2800000,
	9:  1200000,
	10: 575000,
	11: 220000,
	12: 110000,
	13: 70000,
	14: 31000,
	15: 15000,
	16: 7500,
	17: 4000,
	18: 2500,
	19: 1750,
	20: 1000,
}

// OutOfRangeError reports a zoom level with no defined scale mapping
type OutOfRangeError struct {
	Zoom int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("zoom %d out of range [%d, %d]", e.Zoom, MinZoom, MaxZoom)
}

// Resolve returns the provider scale denominator for a zoom level in [2, 20].
func Resolve(zoom int) (int, error) {
	d, ok := denominators[zoom]
	if !ok {
		return 0, &OutOfRangeError{Zoom: zoom}
	}
	return d, nil
}

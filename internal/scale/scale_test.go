package scale

import "testing"

func TestResolveAllZoomLevels(t *testing.T) {
	expected := map[int]int{
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

	for zoom := MinZoom; zoom <= MaxZoom; zoom++ {
		got, err := Resolve(zoom)
		if err != nil {
			t.Errorf("Resolve(%d) returned error: %v", zoom, err)
			continue
		}
		if got != expected[zoom] {
			t.Errorf("Resolve(%d) = %d, expected %d", zoom, got, expected[zoom])
		}
	}
}

func TestResolveOutOfRange(t *testing.T) {
	for _, zoom := range []int{-1, 0, 1, 21, 100} {
		_, err := Resolve(zoom)
		if err == nil {
			t.Errorf("Resolve(%d) expected error, got nil", zoom)
			continue
		}
		oor, ok := err.(*OutOfRangeError)
		if !ok {
			t.Errorf("Resolve(%d) expected *OutOfRangeError, got %T", zoom, err)
			continue
		}
		if oor.Zoom != zoom {
			t.Errorf("Expected error to carry zoom %d, got %d", zoom, oor.Zoom)
		}
	}
}

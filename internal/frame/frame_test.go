package frame

import (
	"errors"
	"testing"

	"golang.org/x/image/colornames"

	"github.com/geoplot/tileframe/pkg/geo"
)

var testBBox = geo.BoundingBox{West: -95.8, South: 29.4, East: -94.9, North: 30.1}

func testRaster() *geo.Raster {
	return &geo.Raster{
		Pix:      make([]uint8, 2*2*3),
		Width:    2,
		Height:   2,
		Channels: geo.ChannelsRGB,
		BBox:     testBBox,
	}
}

func TestCorners(t *testing.T) {
	g, err := Compute(testRaster(), Options{})
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	expected := [4]Point{
		{X: -95.8, Y: 29.4}, // SW
		{X: -95.8, Y: 30.1}, // NW
		{X: -94.9, Y: 29.4}, // SE
		{X: -94.9, Y: 30.1}, // NE
	}
	if g.Corners != expected {
		t.Errorf("Expected corners %v, got %v", expected, g.Corners)
	}
}

func TestLegendOffsets(t *testing.T) {
	testCases := []struct {
		position LegendPosition
		offset   Point
		just     Point
	}{
		{LegendBottomLeft, Point{0.02, 0.02}, Point{0, 0}},
		{LegendTopLeft, Point{0.02, 0.98}, Point{0, 1}},
		{LegendBottomRight, Point{0.98, 0.02}, Point{1, 0}},
		{LegendTopRight, Point{0.98, 0.98}, Point{1, 1}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.position), func(t *testing.T) {
			g, err := Compute(testRaster(), Options{Legend: tc.position, Padding: 0.02})
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			if g.Legend.Builtin {
				t.Error("Corner positions must not delegate to the renderer")
			}
			if g.Legend.Offset != tc.offset {
				t.Errorf("Expected offset %v, got %v", tc.offset, g.Legend.Offset)
			}
			if g.Legend.Justification != tc.just {
				t.Errorf("Expected justification %v, got %v", tc.just, g.Legend.Justification)
			}
		})
	}
}

func TestLegendEdgePositionsDelegate(t *testing.T) {
	for _, pos := range []LegendPosition{LegendLeft, LegendRight, LegendTop, LegendBottom, LegendNone} {
		t.Run(string(pos), func(t *testing.T) {
			g, err := Compute(testRaster(), Options{Legend: pos, Padding: 0.02})
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			if !g.Legend.Builtin {
				t.Errorf("Expected %q to delegate to the renderer", pos)
			}
			if g.Legend.Position != pos {
				t.Errorf("Expected position %q preserved, got %q", pos, g.Legend.Position)
			}
		})
	}
}

func TestExtentModes(t *testing.T) {
	t.Run("unconstrained", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{Extent: ExtentUnconstrained})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.XLim != nil || g.YLim != nil {
			t.Error("Unconstrained mode must not set axis limits")
		}
		if g.HideChrome {
			t.Error("Unconstrained mode must not hide chrome")
		}
	})

	t.Run("panel", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{Extent: ExtentPanel})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.XLim == nil || g.YLim == nil {
			t.Fatal("Panel mode must set axis limits")
		}
		if *g.XLim != [2]float64{-95.8, -94.9} {
			t.Errorf("Expected xlim [-95.8 -94.9], got %v", *g.XLim)
		}
		if *g.YLim != [2]float64{29.4, 30.1} {
			t.Errorf("Expected ylim [29.4 30.1], got %v", *g.YLim)
		}
		if g.HideChrome {
			t.Error("Panel mode must not hide chrome")
		}
	})

	t.Run("device", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{Extent: ExtentDevice})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.XLim == nil || g.YLim == nil {
			t.Fatal("Device mode must set axis limits")
		}
		if !g.HideChrome {
			t.Error("Device mode must hide chrome")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Compute(testRaster(), Options{Extent: Extent("fullscreen")})
		var ve *geo.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Expected *geo.ValidationError, got %v", err)
		}
	})
}

func TestDarken(t *testing.T) {
	t.Run("default color", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{Darken: 0.3})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.Darken == nil {
			t.Fatal("Expected darken spec")
		}
		if g.Darken.Intensity != 0.3 {
			t.Errorf("Expected intensity 0.3, got %v", g.Darken.Intensity)
		}
		if g.Darken.ColorName != "black" {
			t.Errorf("Expected default color black, got %q", g.Darken.ColorName)
		}
		wantRect := [2]Point{{X: -95.8, Y: 29.4}, {X: -94.9, Y: 30.1}}
		if g.Darken.Rect != wantRect {
			t.Errorf("Expected overlay rect %v, got %v", wantRect, g.Darken.Rect)
		}
	})

	t.Run("named color", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{Darken: 0.5, DarkenColor: "navy"})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.Darken.Color != colornames.Navy {
			t.Errorf("Expected navy RGBA, got %v", g.Darken.Color)
		}
	})

	t.Run("unknown color", func(t *testing.T) {
		_, err := Compute(testRaster(), Options{Darken: 0.5, DarkenColor: "blurple"})
		var ve *geo.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Expected *geo.ValidationError, got %v", err)
		}
	})

	t.Run("zero intensity omits overlay", func(t *testing.T) {
		g, err := Compute(testRaster(), Options{})
		if err != nil {
			t.Fatalf("Compute returned error: %v", err)
		}
		if g.Darken != nil {
			t.Error("Expected no darken spec for zero intensity")
		}
	})

	t.Run("out of range intensity", func(t *testing.T) {
		for _, v := range []float64{-0.1, 1.5} {
			_, err := Compute(testRaster(), Options{Darken: v})
			var ve *geo.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Darken=%v: expected *geo.ValidationError, got %v", v, err)
			}
		}
	})
}

func TestPaddingValidation(t *testing.T) {
	for _, v := range []float64{-0.01, 1.01} {
		_, err := Compute(testRaster(), Options{Padding: v})
		var ve *geo.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Padding=%v: expected *geo.ValidationError, got %v", v, err)
		}
	}
}

func TestComputeDoesNotMutateRaster(t *testing.T) {
	r := testRaster()
	r.Pix[0] = 42

	if _, err := Compute(r, Options{Darken: 0.5, Legend: LegendTopLeft, Padding: 0.02}); err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if r.Pix[0] != 42 || r.BBox != testBBox || r.Channels != geo.ChannelsRGB {
		t.Error("Compute must not mutate the input raster")
	}
}

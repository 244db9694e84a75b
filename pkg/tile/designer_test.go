package tile

import (
	"errors"
	"math"
	"testing"

	"github.com/kotaroy/geomesh/pkg/model"
	"github.com/kotaroy/geomesh/pkg/proj"
)

func newTestDesigner(t *testing.T) *Designer {
	t.Helper()

	d, err := NewDesigner(DefaultDesignerOptions())
	if err != nil {
		t.Fatalf("NewDesigner: %v", err)
	}

	return d
}

func TestIndex(t *testing.T) {
	d := newTestDesigner(t)

	data := []struct {
		lon, lat float64
		zoom     int
		x, y     int
	}{
		{139.7, 35.6, 10, 909, 403},
		{139.7, 35.6, 12, 3637, 1613},
		{0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1},
		{-180, 85.06, 2, 0, 0},
		{180, -85.06, 2, 3, 3},
	}

	for _, td := range data {
		x, y, err := d.Index(td.lon, td.lat, td.zoom)
		if err != nil {
			t.Fatalf("Index(%g, %g, %d): %v", td.lon, td.lat, td.zoom, err)
		}

		if x != td.x || y != td.y {
			t.Errorf("Index(%g, %g, %d) = %d/%d, want %d/%d", td.lon, td.lat, td.zoom, x, y, td.x, td.y)
		}
	}
}

func TestIndexDeterministic(t *testing.T) {
	d := newTestDesigner(t)

	x0, y0, err := d.Index(139.7, 35.6, 10)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		x, y, err := d.Index(139.7, 35.6, 10)
		if err != nil {
			t.Fatal(err)
		}
		if x != x0 || y != y0 {
			t.Fatalf("run %d: %d/%d, want %d/%d", i, x, y, x0, y0)
		}
	}
}

func TestWorldTile(t *testing.T) {
	d := newTestDesigner(t)

	tl, err := d.FromIndex(0, 0, 0)
	if err != nil {
		t.Fatalf("FromIndex: %v", err)
	}

	if tl.ZXY() != "0/0/0" {
		t.Errorf("ZXY = %q", tl.ZXY())
	}

	// The single zoom-0 tile spans the whole mercator square. Bounds are
	// floored, so the max edge loses the last fractional digit.
	if tl.Bounds.XMin != -20037508.3428 {
		t.Errorf("XMin = %.4f", tl.Bounds.XMin)
	}
	if tl.Bounds.XMax != 20037508.3427 {
		t.Errorf("XMax = %.4f", tl.Bounds.XMax)
	}

	if math.Abs(tl.Bounds.YMax-20037508.3427) > 0.001 {
		t.Errorf("YMax = %.4f", tl.Bounds.YMax)
	}
	if math.Abs(tl.Bounds.YMin+20037508.3428) > 0.001 {
		t.Errorf("YMin = %.4f", tl.Bounds.YMin)
	}

	if tl.Width != 256 || tl.Height != 256 {
		t.Errorf("dimensions %dx%d", tl.Width, tl.Height)
	}
}

func TestResolution(t *testing.T) {
	d := newTestDesigner(t)

	tl, err := d.FromIndex(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	// World width / 256 pixels, about 156543 meters per pixel.
	if r := tl.XRes(); math.Abs(r-156543.0339) > 0.01 {
		t.Errorf("XRes = %.4f", r)
	}
}

func TestFromLonLat(t *testing.T) {
	d := newTestDesigner(t)

	tl, err := d.FromLonLat(139.7, 35.6, 10)
	if err != nil {
		t.Fatalf("FromLonLat: %v", err)
	}

	if tl.X != 909 || tl.Y != 403 || tl.Zoom != 10 {
		t.Errorf("tile = %s", tl.ZXY())
	}

	if !tl.Bounds.Valid() {
		t.Errorf("invalid bounds %v", tl.Bounds)
	}
}

func TestCentroidRoundTrip(t *testing.T) {
	d := newTestDesigner(t)

	for _, zoom := range []int{4, 8, 10, 14, 18} {
		tl, err := d.FromLonLat(139.7671, 35.6812, zoom)
		if err != nil {
			t.Fatalf("zoom %d: %v", zoom, err)
		}

		c := tl.Bounds.Centroid()

		x, y, err := d.IndexFrom(proj.WebMercator, c.X, c.Y, zoom)
		if err != nil {
			t.Fatalf("zoom %d: IndexFrom: %v", zoom, err)
		}

		if x != tl.X || y != tl.Y {
			t.Errorf("zoom %d: centroid maps to %d/%d, tile is %d/%d", zoom, x, y, tl.X, tl.Y)
		}
	}
}

func TestIndexFromParsesCRS(t *testing.T) {
	d := newTestDesigner(t)

	x0, y0, err := d.Index(139.7, 35.6, 10)
	if err != nil {
		t.Fatal(err)
	}

	for _, crs := range []any{proj.WGS84, 4326, "EPSG:4326", "epsg:4326"} {
		x, y, err := d.IndexFrom(crs, 139.7, 35.6, 10)
		if err != nil {
			t.Fatalf("IndexFrom(%v): %v", crs, err)
		}
		if x != x0 || y != y0 {
			t.Errorf("IndexFrom(%v) = %d/%d, want %d/%d", crs, x, y, x0, y0)
		}
	}

	if _, _, err := d.IndexFrom("EPSG:bogus", 0, 0, 10); err == nil {
		t.Error("bogus CRS accepted")
	}
}

func TestTiles(t *testing.T) {
	d := newTestDesigner(t)

	tiles, err := d.Tiles(model.Bounds{XMin: 139.7, YMin: 35.6, XMax: 139.8, YMax: 35.7}, 12)
	if err != nil {
		t.Fatalf("Tiles: %v", err)
	}

	want := []string{"12/3637/1612", "12/3637/1613", "12/3638/1612", "12/3638/1613"}

	if len(tiles) != len(want) {
		t.Fatalf("got %d tiles, want %d", len(tiles), len(want))
	}

	for i, tl := range tiles {
		if tl.ZXY() != want[i] {
			t.Errorf("tile %d = %q, want %q", i, tl.ZXY(), want[i])
		}
	}
}

func TestTilesInvalidRange(t *testing.T) {
	d := newTestDesigner(t)

	_, err := d.Tiles(model.Bounds{XMin: 140, YMin: 35, XMax: 139, YMax: 36}, 10)

	var rangeErr *model.ErrInvalidRange
	if !errors.As(err, &rangeErr) {
		t.Errorf("error = %v, want ErrInvalidRange", err)
	}
}

func TestInvalidZoom(t *testing.T) {
	d := newTestDesigner(t)

	var zoomErr *ErrInvalidZoomLevel

	if _, _, err := d.Index(139.7, 35.6, 25); !errors.As(err, &zoomErr) {
		t.Errorf("zoom 25: error = %v, want ErrInvalidZoomLevel", err)
	}

	if _, err := d.FromIndex(0, 0, -1); !errors.As(err, &zoomErr) {
		t.Errorf("zoom -1: error = %v, want ErrInvalidZoomLevel", err)
	}
}

func TestInvalidDimension(t *testing.T) {
	_, err := NewDesigner(DesignerOptions{Width: -256})

	var dimErr *ErrInvalidDimension
	if !errors.As(err, &dimErr) {
		t.Errorf("error = %v, want ErrInvalidDimension", err)
	}
}

func TestZoomZeroOnly(t *testing.T) {
	d, err := NewDesigner(DesignerOptions{MinZoom: 0, MaxZoom: 0})
	if err != nil {
		t.Fatalf("NewDesigner: %v", err)
	}

	if _, _, err := d.Index(139.7, 35.6, 0); err != nil {
		t.Errorf("zoom 0 rejected: %v", err)
	}

	var zoomErr *ErrInvalidZoomLevel
	if _, _, err := d.Index(139.7, 35.6, 1); !errors.As(err, &zoomErr) {
		t.Errorf("zoom 1: error = %v, want ErrInvalidZoomLevel", err)
	}
}

func TestInvertedZoomRange(t *testing.T) {
	_, err := NewDesigner(DesignerOptions{MinZoom: 5, MaxZoom: 1})

	var zoomErr *ErrInvalidZoomLevel
	if !errors.As(err, &zoomErr) {
		t.Errorf("error = %v, want ErrInvalidZoomLevel", err)
	}
}

func TestCustomDimensions(t *testing.T) {
	d, err := NewDesigner(DesignerOptions{Width: 512, Height: 512})
	if err != nil {
		t.Fatal(err)
	}

	tl, err := d.FromIndex(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if tl.Width != 512 || tl.Height != 512 {
		t.Errorf("dimensions %dx%d, want 512x512", tl.Width, tl.Height)
	}
}

func TestGridInterface(t *testing.T) {
	var g model.Grid = Grid{Designer: newTestDesigner(t)}

	if g.GetKey() != "tiles" {
		t.Errorf("key = %q", g.GetKey())
	}

	if g.GetCRS() != "EPSG:3857" {
		t.Errorf("crs = %q", g.GetCRS())
	}

	cells, err := g.Cells(model.Bounds{XMin: 139.7, YMin: 35.6, XMax: 139.8, YMax: 35.7}, "12")
	if err != nil {
		t.Fatalf("Cells: %v", err)
	}

	if len(cells) != 4 {
		t.Errorf("got %d cells, want 4", len(cells))
	}

	if cells[0].Code != "12/3637/1612" {
		t.Errorf("first cell %q", cells[0].Code)
	}

	var zoomErr *ErrInvalidZoomLevel
	if _, err := g.Cells(model.Bounds{XMin: 139.7, YMin: 35.6, XMax: 139.8, YMax: 35.7}, "deep"); !errors.As(err, &zoomErr) {
		t.Errorf("non-numeric level error = %v, want ErrInvalidZoomLevel", err)
	}
}

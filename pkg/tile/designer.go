// Package tile maps geographic coordinates to slippy-map tile indices
// (zoom/x/y) and tile indices back to projected bounding boxes.
package tile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kotaroy/geomesh/pkg/fixed"
	"github.com/kotaroy/geomesh/pkg/model"
	"github.com/kotaroy/geomesh/pkg/proj"
)

// boundsPrecision is the number of decimal places kept on projected tile
// bounds and resolutions, to normalize floating noise from reprojection.
const boundsPrecision = 4

// Design is one tile: its index, projected bounds and pixel dimensions.
type Design struct {
	Zoom   int          `json:"zoom"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Bounds model.Bounds `json:"bounds"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// ZXY returns the tile identifier in "z/x/y" form.
func (d Design) ZXY() string {
	return fmt.Sprintf("%d/%d/%d", d.Zoom, d.X, d.Y)
}

// XRes returns the ground units covered per pixel in x.
func (d Design) XRes() float64 {
	return fixed.FloorTo((d.Bounds.XMax-d.Bounds.XMin)/float64(d.Width), boundsPrecision)
}

// YRes returns the ground units covered per pixel in y.
func (d Design) YRes() float64 {
	return fixed.FloorTo((d.Bounds.YMax-d.Bounds.YMin)/float64(d.Height), boundsPrecision)
}

// DesignerOptions configures a Designer. Zero width/height select 256 pixel
// tiles and a nil Transformer selects the built-in spherical mercator. The
// zoom range is taken as given, so a designer restricted to zoom 0 alone is
// expressible; start from DefaultDesignerOptions for the usual [0, 24].
type DesignerOptions struct {
	Width       int
	Height      int
	MinZoom     int
	MaxZoom     int
	Transformer proj.Transformer
}

// DefaultDesignerOptions returns the standard tiling setup: 256x256 pixel
// tiles over zoom levels 0 through 24.
func DefaultDesignerOptions() DesignerOptions {
	return DesignerOptions{
		Width:   256,
		Height:  256,
		MinZoom: 0,
		MaxZoom: 24,
	}
}

// Designer computes tile designs. It is immutable and safe for concurrent use.
type Designer struct {
	width   int
	height  int
	minZoom int
	maxZoom int
	tr      proj.Transformer
	crs     proj.CRS
}

// NewDesigner validates the options and builds a Designer.
func NewDesigner(opts DesignerOptions) (*Designer, error) {
	d := &Designer{
		width:   opts.Width,
		height:  opts.Height,
		minZoom: opts.MinZoom,
		maxZoom: opts.MaxZoom,
		tr:      opts.Transformer,
		crs:     proj.WebMercator,
	}

	if d.width == 0 {
		d.width = 256
	}
	if d.height == 0 {
		d.height = 256
	}
	if d.tr == nil {
		d.tr = proj.SphericalMercator{}
	}

	if d.width < 0 || d.height < 0 {
		return nil, &ErrInvalidDimension{Width: d.width, Height: d.height}
	}

	if d.maxZoom < d.minZoom {
		return nil, &ErrInvalidZoomLevel{Zoom: d.maxZoom, Min: d.minZoom, Max: d.maxZoom}
	}

	return d, nil
}

// CRS returns the tiling projection.
func (d *Designer) CRS() proj.CRS {
	return d.crs
}

func (d *Designer) checkZoom(zoom int) error {
	if zoom < d.minZoom || zoom > d.maxZoom {
		return &ErrInvalidZoomLevel{Zoom: zoom, Min: d.minZoom, Max: d.maxZoom}
	}
	return nil
}

// Index returns the tile index containing a WGS84 coordinate at a zoom level.
func (d *Designer) Index(lon, lat float64, zoom int) (x, y int, err error) {
	if err := d.checkZoom(zoom); err != nil {
		return 0, 0, err
	}

	n := float64(int64(1) << uint(zoom))

	x = int(math.Floor((lon + 180.0) / 360.0 * n))

	latRad := lat * math.Pi / 180.0
	y = int(math.Floor(n * (1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0))

	// Points on the anti-meridian or at the mercator poles land one past
	// the last tile; keep indices inside [0, 2^zoom).
	x = clamp(x, 0, int(n)-1)
	y = clamp(y, 0, int(n)-1)

	return x, y, nil
}

// IndexFrom is Index for a coordinate in an arbitrary CRS, reprojected to
// WGS84 through the designer's transformer first.
func (d *Designer) IndexFrom(crs any, x, y float64, zoom int) (int, int, error) {
	src, err := proj.ParseCRS(crs)
	if err != nil {
		return 0, 0, err
	}

	lon, lat, err := d.tr.Transform(x, y, src, proj.WGS84)
	if err != nil {
		return 0, 0, err
	}

	return d.Index(lon, lat, zoom)
}

// FromIndex returns the design of a tile index: its bounds in the tiling
// CRS, floored to a fixed decimal precision.
func (d *Designer) FromIndex(x, y, zoom int) (Design, error) {
	if err := d.checkZoom(zoom); err != nil {
		return Design{}, err
	}

	n := float64(int64(1) << uint(zoom))

	lonMin := float64(x)/n*360.0 - 180.0
	lonMax := float64(x+1)/n*360.0 - 180.0
	latMax := math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y)/n))) * 180.0 / math.Pi
	latMin := math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(y+1)/n))) * 180.0 / math.Pi

	swX, swY, err := d.tr.Transform(lonMin, latMin, proj.WGS84, d.crs)
	if err != nil {
		return Design{}, err
	}

	neX, neY, err := d.tr.Transform(lonMax, latMax, proj.WGS84, d.crs)
	if err != nil {
		return Design{}, err
	}

	return Design{
		Zoom: zoom,
		X:    x,
		Y:    y,
		Bounds: model.Bounds{
			XMin: fixed.FloorTo(swX, boundsPrecision),
			YMin: fixed.FloorTo(swY, boundsPrecision),
			XMax: fixed.FloorTo(neX, boundsPrecision),
			YMax: fixed.FloorTo(neY, boundsPrecision),
		},
		Width:  d.width,
		Height: d.height,
	}, nil
}

// FromLonLat returns the design of the tile containing a WGS84 coordinate.
func (d *Designer) FromLonLat(lon, lat float64, zoom int) (Design, error) {
	x, y, err := d.Index(lon, lat, zoom)
	if err != nil {
		return Design{}, err
	}

	return d.FromIndex(x, y, zoom)
}

// Tiles returns every tile at the zoom level whose cell intersects the
// query box (given in WGS84 degrees). Tile y grows southward, so the range
// runs from the northeast tile's y to the southwest tile's y.
func (d *Designer) Tiles(bounds model.Bounds, zoom int) ([]Design, error) {
	if !bounds.Valid() {
		return nil, &model.ErrInvalidRange{Bounds: bounds}
	}

	swX, swY, err := d.Index(bounds.XMin, bounds.YMin, zoom)
	if err != nil {
		return nil, err
	}

	neX, neY, err := d.Index(bounds.XMax, bounds.YMax, zoom)
	if err != nil {
		return nil, err
	}

	designs := make([]Design, 0, (swY-neY+1)*(neX-swX+1))
	for x := swX; x <= neX; x++ {
		for y := neY; y <= swY; y++ {
			t, err := d.FromIndex(x, y, zoom)
			if err != nil {
				return nil, err
			}
			designs = append(designs, t)
		}
	}

	return designs, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Grid exposes the tile scheme through the model.Grid interface; the level
// string is the zoom level.
type Grid struct {
	Designer *Designer
}

func (Grid) GetKey() string {
	return "tiles"
}

func (g Grid) GetCRS() string {
	return g.Designer.CRS().String()
}

func (g Grid) Cells(bounds model.Bounds, level string) ([]model.Cell, error) {
	zoom, err := strconv.Atoi(level)
	if err != nil {
		return nil, &ErrInvalidZoomLevel{Zoom: -1, Min: g.Designer.minZoom, Max: g.Designer.maxZoom}
	}

	designs, err := g.Designer.Tiles(bounds, zoom)
	if err != nil {
		return nil, err
	}

	cells := make([]model.Cell, len(designs))
	for i, t := range designs {
		cells[i] = model.Cell{Code: t.ZXY(), Bounds: t.Bounds}
	}

	return cells, nil
}

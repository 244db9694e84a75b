package model

import "fmt"

// XY is a 2D coordinate pair.
type XY struct {
	X float64
	Y float64
}

// Bounds is an axis-aligned bounding box in decimal degrees or projected units.
// For any valid cell XMin < XMax and YMin < YMax.
type Bounds struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

func (b Bounds) Valid() bool {
	return b.XMin < b.XMax && b.YMin < b.YMax
}

// Centroid returns the center point of the box.
func (b Bounds) Centroid() XY {
	return XY{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2}
}

// Contains reports whether the point lies inside the box under the grid
// boundary convention: the lower-left edge is exclusive, the upper-right
// edge inclusive.
func (b Bounds) Contains(p XY) bool {
	return b.XMin < p.X && p.X <= b.XMax && b.YMin < p.Y && p.Y <= b.YMax
}

// Covers reports whether b fully contains o.
func (b Bounds) Covers(o Bounds) bool {
	return b.XMin <= o.XMin && o.XMax <= b.XMax && b.YMin <= o.YMin && o.YMax <= b.YMax
}

// Intersects reports whether the two boxes share any area.
func (b Bounds) Intersects(o Bounds) bool {
	return b.XMin < o.XMax && o.XMin < b.XMax && b.YMin < o.YMax && o.YMin < b.YMax
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Cell is one grid cell: an identifier (mesh code or z/x/y) plus its box.
type Cell struct {
	Code   string `json:"code"`
	Bounds Bounds `json:"bounds"`
}

// Grid enumerates the cells of one grid system intersecting a bounding box.
// The level parameter is grid-specific: a mesh level name for the regional
// mesh, a zoom level for slippy tiles.
type Grid interface {
	GetKey() string
	GetCRS() string
	Cells(bounds Bounds, level string) ([]Cell, error)
}

// ErrInvalidRange indicates a degenerate or inverted query box.
type ErrInvalidRange struct {
	Bounds Bounds
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range %s: min values must be less than max values", e.Bounds)
}

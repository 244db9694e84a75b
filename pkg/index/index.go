// Package index provides an R-tree spatial index over grid cells, so a point
// or box lookup does not have to re-enumerate the grid.
package index

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/kotaroy/geomesh/pkg/model"
)

// CellIndex answers spatial queries over a fixed set of grid cells.
// Build it once with NewCellIndex, then query from any goroutine.
type CellIndex struct {
	cells []model.Cell
	rtree *rtreego.Rtree
}

type indexedCell struct {
	cell model.Cell
}

func (c indexedCell) Bounds() rtreego.Rect {
	point := rtreego.Point{c.cell.Bounds.XMin, c.cell.Bounds.YMin}
	lengths := []float64{
		c.cell.Bounds.XMax - c.cell.Bounds.XMin,
		c.cell.Bounds.YMax - c.cell.Bounds.YMin,
	}

	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// NewCellIndex builds an index over the given cells.
func NewCellIndex(cells []model.Cell) *CellIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for _, c := range cells {
		rtree.Insert(indexedCell{cell: c})
	}

	return &CellIndex{
		cells: cells,
		rtree: rtree,
	}
}

// Query returns the cells intersecting the box, sorted by code.
func (idx *CellIndex) Query(bounds model.Bounds) []model.Cell {
	point := rtreego.Point{bounds.XMin, bounds.YMin}
	lengths := []float64{
		bounds.XMax - bounds.XMin,
		bounds.YMax - bounds.YMin,
	}

	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	spatials := idx.rtree.SearchIntersect(queryRect)

	result := make([]model.Cell, 0, len(spatials))
	for _, spatial := range spatials {
		c := spatial.(indexedCell).cell
		if c.Bounds.Intersects(bounds) {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result
}

// At returns the cell containing the point, honoring the grid boundary
// convention (lower-left exclusive, upper-right inclusive). The second
// return is false when no indexed cell contains the point.
func (idx *CellIndex) At(x, y float64) (model.Cell, bool) {
	// The R-tree rejects zero-size rectangles, so probe with a tiny box
	// around the point and let Contains apply the boundary convention.
	const eps = 1e-9
	queryRect, err := rtreego.NewRect(rtreego.Point{x - eps, y - eps}, []float64{2 * eps, 2 * eps})
	if err != nil {
		return model.Cell{}, false
	}

	p := model.XY{X: x, Y: y}
	for _, spatial := range idx.rtree.SearchIntersect(queryRect) {
		c := spatial.(indexedCell).cell
		if c.Bounds.Contains(p) {
			return c, true
		}
	}

	return model.Cell{}, false
}

// Count returns the number of indexed cells.
func (idx *CellIndex) Count() int {
	return len(idx.cells)
}

// Bounds returns the union of all indexed cell bounds.
func (idx *CellIndex) Bounds() model.Bounds {
	if len(idx.cells) == 0 {
		return model.Bounds{}
	}

	union := idx.cells[0].Bounds
	for _, c := range idx.cells[1:] {
		if c.Bounds.XMin < union.XMin {
			union.XMin = c.Bounds.XMin
		}
		if c.Bounds.YMin < union.YMin {
			union.YMin = c.Bounds.YMin
		}
		if c.Bounds.XMax > union.XMax {
			union.XMax = c.Bounds.XMax
		}
		if c.Bounds.YMax > union.YMax {
			union.YMax = c.Bounds.YMax
		}
	}

	return union
}

// All returns every indexed cell.
func (idx *CellIndex) All() []model.Cell {
	return idx.cells
}

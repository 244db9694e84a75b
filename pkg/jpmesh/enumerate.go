package jpmesh

import (
	"runtime"
	"sort"
	"sync"

	"github.com/kotaroy/geomesh/pkg/fixed"
	"github.com/kotaroy/geomesh/pkg/model"
)

// EnumerateOptions controls grid-range enumeration.
type EnumerateOptions struct {
	// Parallel enables concurrent sampling across latitude rows.
	Parallel bool

	// Workers is the number of sampling goroutines. If 0, defaults to
	// runtime.NumCPU(). Only used when Parallel is true.
	Workers int
}

// DefaultEnumerateOptions returns enumeration options with sensible defaults.
func DefaultEnumerateOptions() EnumerateOptions {
	return EnumerateOptions{
		Parallel: true,
		Workers:  0,
	}
}

// Enumerate returns every mesh cell at the named level that intersects the
// query box, deduplicated and sorted by code. The union of the returned cell
// bounds always covers the box.
func Enumerate(bounds model.Bounds, levelName string) ([]model.Cell, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	return EnumerateLevel(bounds, level, DefaultEnumerateOptions())
}

// EnumerateLevel is Enumerate with an explicit level and options.
func EnumerateLevel(bounds model.Bounds, level Level, opts EnumerateOptions) ([]model.Cell, error) {
	if !bounds.Valid() {
		return nil, &model.ErrInvalidRange{Bounds: bounds}
	}

	lonStep := level.LonStep()
	latStep := level.LatStep()

	// Snap the box to the level's grid and sample one step in from the lower
	// edge: a sample on a grid line belongs to the cell below/left of it, so
	// the walk visits exactly the cells that intersect the box.
	x0 := snapDown(fixed.FromDegrees(bounds.XMin), lonStep) + lonStep
	x1 := snapUp(fixed.FromDegrees(bounds.XMax), lonStep)
	y0 := snapDown(fixed.FromDegrees(bounds.YMin), latStep) + latStep
	y1 := snapUp(fixed.FromDegrees(bounds.YMax), latStep)

	var rows []int64
	for y := y0; y <= y1; y += latStep {
		rows = append(rows, y)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !opts.Parallel || workers > len(rows) {
		workers = 1
	}

	set := make(map[string]model.Bounds)

	if workers == 1 {
		for _, y := range rows {
			sampleRow(y, x0, x1, lonStep, level, set)
		}
	} else {
		jobs := make(chan int64, len(rows))
		results := make(chan map[string]model.Bounds, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				part := make(map[string]model.Bounds)
				for y := range jobs {
					sampleRow(y, x0, x1, lonStep, level, part)
				}
				results <- part
			}()
		}

		for _, y := range rows {
			jobs <- y
		}
		close(jobs)

		go func() {
			wg.Wait()
			close(results)
		}()

		for part := range results {
			for code, b := range part {
				set[code] = b
			}
		}
	}

	cells := make([]model.Cell, 0, len(set))
	for code, b := range set {
		cells = append(cells, model.Cell{Code: code, Bounds: b})
	}

	sort.Slice(cells, func(i, j int) bool { return cells[i].Code < cells[j].Code })

	return cells, nil
}

// sampleRow encodes every sample point of one latitude row and records each
// newly seen cell.
func sampleRow(y, x0, x1, lonStep int64, level Level, set map[string]model.Bounds) {
	for x := x0; x <= x1; x += lonStep {
		code := encodeScaled(x, y).Code(level)
		if _, ok := set[code]; ok {
			continue
		}

		b, err := Decode(code)
		if err != nil {
			// Codes with negative digits (south of the equator, west of
			// 100E) have no decodable form; skip them.
			continue
		}

		set[code] = b
	}
}

func snapDown(v, step int64) int64 {
	return v - fixed.FloorMod(v, step)
}

func snapUp(v, step int64) int64 {
	if m := fixed.FloorMod(v, step); m != 0 {
		return v + step - m
	}
	return v
}

// Grid exposes the regional mesh through the model.Grid interface.
type Grid struct{}

func (Grid) GetKey() string {
	return "jpmesh"
}

func (Grid) GetCRS() string {
	return "EPSG:4326"
}

func (Grid) Cells(bounds model.Bounds, level string) ([]model.Cell, error) {
	return Enumerate(bounds, level)
}

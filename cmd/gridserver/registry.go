package main

import (
	"sync"

	"github.com/kotaroy/geomesh/pkg/index"
	"github.com/kotaroy/geomesh/pkg/model"
)

func NewGrids() *Grids {
	return &Grids{
		data: sync.Map{},
	}
}

// Grids is a registry of the grid systems the server can enumerate.
type Grids struct {
	data sync.Map
}

func (h *Grids) Get(key string) (model.Grid, bool) {
	if v, ok := h.data.Load(key); ok {
		if g, ok1 := v.(model.Grid); ok1 {
			return g, true
		}
	}

	return nil, false
}

func (h *Grids) Add(g model.Grid) {
	if g == nil {
		return
	}

	h.data.Store(g.GetKey(), g)
}

func (h *Grids) All(f func(g model.Grid) bool) {
	h.data.Range(func(_, value any) bool {
		if g, ok := value.(model.Grid); ok {
			return f(g)
		}

		return true
	})
}

// Dataset is a pre-enumerated cell set held in a spatial index.
type Dataset struct {
	Name  string
	Grid  string
	Level string
	CRS   string
	Index *index.CellIndex
}

func NewDatasets() *Datasets {
	return &Datasets{
		data: sync.Map{},
	}
}

type Datasets struct {
	data sync.Map
}

func (h *Datasets) Get(name string) (*Dataset, bool) {
	if v, ok := h.data.Load(name); ok {
		if d, ok1 := v.(*Dataset); ok1 {
			return d, true
		}
	}

	return nil, false
}

func (h *Datasets) Add(d *Dataset) {
	if d == nil {
		return
	}

	h.data.Store(d.Name, d)
}

func (h *Datasets) Remove(name string) {
	h.data.Delete(name)
}

func (h *Datasets) All(f func(d *Dataset) bool) {
	h.data.Range(func(_, value any) bool {
		if d, ok := value.(*Dataset); ok {
			return f(d)
		}

		return true
	})
}

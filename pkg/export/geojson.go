// Package export serializes grid cells to GeoJSON.
package export

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kotaroy/geomesh/pkg/model"
)

// FeatureCollection converts cells into a GeoJSON feature collection.
// Each cell becomes a polygon feature carrying its code under codeProperty
// (for example "mesh_code" or "zxy").
func FeatureCollection(cells []model.Cell, codeProperty string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range cells {
		bound := orb.Bound{
			Min: orb.Point{c.Bounds.XMin, c.Bounds.YMin},
			Max: orb.Point{c.Bounds.XMax, c.Bounds.YMax},
		}

		f := geojson.NewFeature(bound.ToPolygon())
		f.Properties[codeProperty] = c.Code
		fc.Append(f)
	}

	return fc
}

// Marshal renders cells as a GeoJSON document.
func Marshal(cells []model.Cell, codeProperty string) ([]byte, error) {
	return FeatureCollection(cells, codeProperty).MarshalJSON()
}

// Write streams the GeoJSON document for cells to w.
func Write(w io.Writer, cells []model.Cell, codeProperty string) error {
	data, err := Marshal(cells, codeProperty)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"

	"github.com/kotaroy/geomesh/pkg/model"
)

var sampleCells = []model.Cell{
	{Code: "53394611", Bounds: model.Bounds{XMin: 139.75, YMin: 35.675, XMax: 139.7625, YMax: 35.683333333}},
	{Code: "53394612", Bounds: model.Bounds{XMin: 139.7625, YMin: 35.675, XMax: 139.775, YMax: 35.683333333}},
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(sampleCells, "mesh_code")

	if len(fc.Features) != len(sampleCells) {
		t.Fatalf("got %d features, want %d", len(fc.Features), len(sampleCells))
	}

	for i, f := range fc.Features {
		if code := f.Properties.MustString("mesh_code"); code != sampleCells[i].Code {
			t.Errorf("feature %d: code %q, want %q", i, code, sampleCells[i].Code)
		}

		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			t.Fatalf("feature %d: geometry is %T, want orb.Polygon", i, f.Geometry)
		}

		b := poly.Bound()
		want := sampleCells[i].Bounds
		if b.Min[0] != want.XMin || b.Min[1] != want.YMin || b.Max[0] != want.XMax || b.Max[1] != want.YMax {
			t.Errorf("feature %d: bound %v, want %v", i, b, want)
		}
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(sampleCells, "zxy")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type       string `json:"type"`
			Properties struct {
				ZXY string `json:"zxy"`
			} `json:"properties"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Type != "FeatureCollection" {
		t.Errorf("type = %q", doc.Type)
	}

	if len(doc.Features) != 2 {
		t.Fatalf("got %d features", len(doc.Features))
	}

	if doc.Features[0].Geometry.Type != "Polygon" {
		t.Errorf("geometry type = %q", doc.Features[0].Geometry.Type)
	}

	if doc.Features[0].Properties.ZXY != "53394611" {
		t.Errorf("property = %q", doc.Features[0].Properties.ZXY)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer

	if err := Write(&buf, nil, "mesh_code"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var doc struct {
		Features []any `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(doc.Features) != 0 {
		t.Errorf("empty input produced %d features", len(doc.Features))
	}
}

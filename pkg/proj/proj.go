// Package proj resolves coordinate reference systems and transforms
// coordinates between them. The shipped transformer covers the closed-form
// pair the grid systems need, WGS84 (EPSG:4326) and spherical web mercator
// (EPSG:3857); anything else must come from a real projection engine behind
// the same interface.
package proj

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CRS is a resolved coordinate reference system handle.
type CRS struct {
	epsg int
}

var (
	// WGS84 is geographic lon/lat in degrees.
	WGS84 = CRS{epsg: 4326}

	// WebMercator is the spherical mercator tiling projection in meters.
	WebMercator = CRS{epsg: 3857}
)

// EPSG returns the EPSG code of the CRS.
func (c CRS) EPSG() int {
	return c.epsg
}

func (c CRS) String() string {
	return fmt.Sprintf("EPSG:%d", c.epsg)
}

// ErrInvalidCRS indicates an unrecognized CRS identifier.
type ErrInvalidCRS struct {
	Value any
}

func (e *ErrInvalidCRS) Error() string {
	return fmt.Sprintf("invalid CRS %v: must be an EPSG code, an \"EPSG:n\" string or a resolved CRS", e.Value)
}

// ParseCRS resolves a CRS identifier given as an EPSG integer, an "EPSG:n"
// string (case-insensitive) or an already-resolved CRS.
func ParseCRS(v any) (CRS, error) {
	switch t := v.(type) {
	case CRS:
		return t, nil
	case int:
		return CRS{epsg: t}, nil
	case string:
		s := strings.TrimSpace(t)
		if rest, ok := cutPrefixFold(s, "epsg:"); ok {
			s = rest
		}
		if code, err := strconv.Atoi(s); err == nil {
			return CRS{epsg: code}, nil
		}
	}

	return CRS{}, &ErrInvalidCRS{Value: v}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// Transformer converts a coordinate from one CRS to another.
type Transformer interface {
	Transform(x, y float64, src, dst CRS) (float64, float64, error)
}

const (
	earthRadius = 6378137.0
	originShift = math.Pi * earthRadius
)

// SphericalMercator is a Transformer for the EPSG:4326 <-> EPSG:3857 pair.
type SphericalMercator struct{}

func (SphericalMercator) Transform(x, y float64, src, dst CRS) (float64, float64, error) {
	if src == dst {
		return x, y, nil
	}

	switch {
	case src == WGS84 && dst == WebMercator:
		mx := x * originShift / 180.0
		my := math.Log(math.Tan((90.0+y)*math.Pi/360.0)) * earthRadius
		return mx, my, nil

	case src == WebMercator && dst == WGS84:
		lon := x / originShift * 180.0
		lat := 2.0*math.Atan(math.Exp(y/earthRadius))*180.0/math.Pi - 90.0
		return lon, lat, nil
	}

	return 0, 0, &ErrInvalidCRS{Value: fmt.Sprintf("%s -> %s", src, dst)}
}

// TransformXY applies the transform to a slice of coordinate pairs.
func TransformXY(tr Transformer, xs, ys []float64, src, dst CRS) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("coordinate slices differ in length: %d vs %d", len(xs), len(ys))
	}

	outX := make([]float64, len(xs))
	outY := make([]float64, len(ys))

	for i := range xs {
		x, y, err := tr.Transform(xs[i], ys[i], src, dst)
		if err != nil {
			return nil, nil, err
		}
		outX[i] = x
		outY[i] = y
	}

	return outX, outY, nil
}

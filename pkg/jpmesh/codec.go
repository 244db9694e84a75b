package jpmesh

import (
	"math"
	"strconv"

	"github.com/kotaroy/geomesh/pkg/fixed"
	"github.com/kotaroy/geomesh/pkg/model"
)

// lonOrigin anchors the longitude digits at 100 degrees east.
const lonOrigin = 100 * fixed.Degree

// Address holds the five mesh codes of one coordinate. Each code extends the
// previous one: Second starts with First, and so on down to Quarter.
type Address struct {
	First    string `json:"first"`
	Second   string `json:"second"`
	Standard string `json:"standard"`
	Half     string `json:"half"`
	Quarter  string `json:"quarter"`
}

// Code returns the code at the given level.
func (a Address) Code(level Level) string {
	switch level {
	case LevelFirst:
		return a.First
	case LevelSecond:
		return a.Second
	case LevelStandard:
		return a.Standard
	case LevelHalf:
		return a.Half
	default:
		return a.Quarter
	}
}

// Encode computes the mesh address of a coordinate in WGS84 degrees.
func Encode(lon, lat float64) (Address, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) ||
		lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return Address{}, &ErrInvalidCoordinate{Lon: lon, Lat: lat}
	}

	return encodeScaled(fixed.FromDegrees(lon), fixed.FromDegrees(lat)), nil
}

// encodeScaled decomposes a coordinate given in scaled minutes. Each cellDiv
// peels off one level's digit and leaves the in-cell remainder for the next;
// a point exactly on a grid line belongs to the cell below/left of it.
func encodeScaled(lonm, latm int64) Address {
	p, a := fixed.CellDiv(latm, latSteps[LevelFirst])
	q, b := fixed.CellDiv(a, latSteps[LevelSecond])
	r, c := fixed.CellDiv(b, latSteps[LevelStandard])
	halfRow, d := fixed.CellDiv(c, latSteps[LevelHalf])
	quarterRow, _ := fixed.CellDiv(d, latSteps[LevelQuarter])

	u, f := fixed.CellDiv(lonm-lonOrigin, lonSteps[LevelFirst])
	v, g := fixed.CellDiv(f, lonSteps[LevelSecond])
	w, h := fixed.CellDiv(g, lonSteps[LevelStandard])
	halfCol, j := fixed.CellDiv(h, lonSteps[LevelHalf])
	quarterCol, _ := fixed.CellDiv(j, lonSteps[LevelQuarter])

	first := strconv.FormatInt(p, 10) + strconv.FormatInt(u, 10)
	second := first + strconv.FormatInt(q, 10) + strconv.FormatInt(v, 10)
	standard := second + strconv.FormatInt(r, 10) + strconv.FormatInt(w, 10)
	half := standard + strconv.FormatInt(2*halfRow+halfCol+1, 10)
	quarter := half + strconv.FormatInt(2*quarterRow+quarterCol+1, 10)

	return Address{
		First:    first,
		Second:   second,
		Standard: standard,
		Half:     half,
		Quarter:  quarter,
	}
}

// Decode returns the bounding box of a mesh code at any of the five levels.
// The level is inferred from the code length.
func Decode(code string) (model.Bounds, error) {
	level, ok := levelForLen(len(code))
	if !ok {
		return model.Bounds{}, &ErrInvalidCodeLength{Code: code}
	}

	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return model.Bounds{}, &ErrInvalidCodeLength{Code: code}
		}
	}

	latO := digits2(code[0:2]) * latSteps[LevelFirst]
	lonO := digits2(code[2:4]) * lonSteps[LevelFirst]

	if level >= LevelSecond {
		latO += digit(code[4]) * latSteps[LevelSecond]
		lonO += digit(code[5]) * lonSteps[LevelSecond]
	}

	if level >= LevelStandard {
		latO += digit(code[6]) * latSteps[LevelStandard]
		lonO += digit(code[7]) * lonSteps[LevelStandard]
	}

	if level >= LevelHalf {
		row, col, err := quadrant(code, 8)
		if err != nil {
			return model.Bounds{}, err
		}
		latO += row * latSteps[LevelHalf]
		lonO += col * lonSteps[LevelHalf]
	}

	if level >= LevelQuarter {
		row, col, err := quadrant(code, 9)
		if err != nil {
			return model.Bounds{}, err
		}
		latO += row * latSteps[LevelQuarter]
		lonO += col * lonSteps[LevelQuarter]
	}

	return model.Bounds{
		XMin: fixed.ToDegrees(lonOrigin + lonO),
		YMin: fixed.ToDegrees(latO),
		XMax: fixed.ToDegrees(lonOrigin + lonO + lonSteps[level]),
		YMax: fixed.ToDegrees(latO + latSteps[level]),
	}, nil
}

// quadrant maps a half/quarter digit (SW=1, SE=2, NW=3, NE=4) to row and
// column offsets within the parent cell.
func quadrant(code string, pos int) (row, col int64, err error) {
	d := int(code[pos] - '0')
	if d < 1 || d > 4 {
		return 0, 0, &ErrInvalidQuadrantDigit{Code: code, Digit: d}
	}
	return int64((d - 1) / 2), int64((d - 1) % 2), nil
}

func digit(b byte) int64 {
	return int64(b - '0')
}

func digits2(s string) int64 {
	return digit(s[0])*10 + digit(s[1])
}

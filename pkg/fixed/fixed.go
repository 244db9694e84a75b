// Package fixed provides integer-scaled grid arithmetic.
//
// Coordinates are held as int64 "scaled minutes": degrees * 60 * Scale. With
// Scale = 10^10 every mesh step down to 7.5 arc seconds is an exact integer,
// so the nested divisions of the mesh decomposition never accumulate floating
// point drift (an int64 comfortably covers ±180 degrees at this resolution).
package fixed

import "math"

// Scale is the fixed-point scale factor applied to coordinate minutes.
const Scale int64 = 10_000_000_000

// Minute is one arc minute in scaled units.
const Minute = Scale

// Degree is one degree in scaled units.
const Degree = 60 * Scale

// Second is one arc second in scaled units.
const Second = Scale / 60

// FromDegrees converts a decimal-degree value to scaled minutes.
func FromDegrees(deg float64) int64 {
	return int64(math.Round(deg * float64(Degree)))
}

// ToDegrees converts scaled minutes back to decimal degrees.
func ToDegrees(v int64) float64 {
	return float64(v) / float64(Degree)
}

// FloorDiv returns the floored quotient of a/b (Python // semantics).
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the floored remainder of a/b, always in [0, b) for b > 0.
func FloorMod(a, b int64) int64 {
	return a - FloorDiv(a, b)*b
}

// CellDiv splits an ordinate into a cell index and an in-cell remainder for
// a grid with the given step. The remainder lies in (0, step]: a value exactly
// on a grid line belongs to the cell below/left of it, which makes the lower
// cell edge exclusive and the upper edge inclusive.
func CellDiv(v, step int64) (idx, rem int64) {
	idx = FloorDiv(v-1, step)
	rem = v - idx*step
	return idx, rem
}

// FloorTo truncates v to the given number of decimal places.
func FloorTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p) / p
}

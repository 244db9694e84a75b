package jpmesh

import "fmt"

// ErrInvalidCoordinate indicates a non-finite or out-of-range lon/lat pair.
type ErrInvalidCoordinate struct {
	Lon, Lat float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lon=%f lat=%f (lon must be ±180, lat must be ±90)",
		e.Lon, e.Lat)
}

// ErrInvalidCodeLength indicates a mesh code whose length matches no level,
// or one containing non-digit characters.
type ErrInvalidCodeLength struct {
	Code string
}

func (e *ErrInvalidCodeLength) Error() string {
	return fmt.Sprintf("invalid mesh code %q: length must be one of 4, 6, 8, 9, 10 digits", e.Code)
}

// ErrInvalidQuadrantDigit indicates a half or quarter mesh digit outside 1-4.
type ErrInvalidQuadrantDigit struct {
	Code  string
	Digit int
}

func (e *ErrInvalidQuadrantDigit) Error() string {
	return fmt.Sprintf("invalid quadrant digit %d in mesh code %q (must be 1-4)", e.Digit, e.Code)
}

// ErrUnknownLevel indicates an unrecognized mesh level name.
type ErrUnknownLevel struct {
	Name string
}

func (e *ErrUnknownLevel) Error() string {
	return fmt.Sprintf("unknown mesh level %q (must be one of 1st, 2nd, standard, half, quarter)", e.Name)
}

package tile

import "fmt"

// ErrInvalidZoomLevel indicates a zoom outside the designer's configured range.
type ErrInvalidZoomLevel struct {
	Zoom     int
	Min, Max int
}

func (e *ErrInvalidZoomLevel) Error() string {
	return fmt.Sprintf("invalid zoom level %d: must be in [%d, %d]", e.Zoom, e.Min, e.Max)
}

// ErrInvalidDimension indicates a non-positive tile pixel size.
type ErrInvalidDimension struct {
	Width, Height int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid tile dimension %dx%d: width and height must be positive", e.Width, e.Height)
}

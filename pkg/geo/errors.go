package geo

import "fmt"

// InvalidCoordinateError reports a malformed or out-of-range geographic input.
// It is fatal to route construction and is never substituted with a default
// coordinate, so a failed lookup stays distinguishable from a legitimate (0,0).
type InvalidCoordinateError struct {
	Point  Point
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate (%.6f, %.6f): %s", e.Point.Lat, e.Point.Lon, e.Reason)
}

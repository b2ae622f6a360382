package render

import "fmt"

// MixedPairError reports a coordinate pair where one axis is a scalar and
// the other an array. Translating such a pair would silently mis-project,
// so it is rejected instead.
type MixedPairError struct {
	XKey string
	YKey string
}

func (e MixedPairError) Error() string {
	return fmt.Sprintf("mixed scalar/array coordinate pair '%s'/'%s' is not supported", e.XKey, e.YKey)
}

// EmptyCoordinateArrayError reports a coordinate array slot holding no
// values; padding the arrays against each other would have nothing to
// repeat.
type EmptyCoordinateArrayError string

func (e EmptyCoordinateArrayError) Error() string {
	return fmt.Sprintf("coordinate array '%s' is empty", string(e))
}

// MissingGeometryError reports a drawing command without any translated
// coordinates, leaving no bounding box to rasterize into.
type MissingGeometryError string

func (e MissingGeometryError) Error() string {
	return fmt.Sprintf("drawing command '%s' carries no pixel geometry", string(e))
}

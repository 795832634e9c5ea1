package geom

import "errors"

// Precondition violations. These are batch-level failures; per-ray
// geometric misses are reported through validity masks instead.
var (
	// ErrShapeMismatch is returned when parallel inputs disagree in length.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrZeroDirection is returned for a ray whose direction has zero length.
	ErrZeroDirection = errors.New("zero-length direction")

	// ErrInvalidPrimitive is returned for a sphere with a non-positive
	// radius or a box whose min exceeds its max on some axis.
	ErrInvalidPrimitive = errors.New("invalid primitive")
)

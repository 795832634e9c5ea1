package trace

import (
	"fmt"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
)

// SphereTraceBox sphere traces only the part of every ray inside box,
// starting no earlier than the ray origin. Rays that miss the box are
// invalid.
func SphereTraceBox(b geom.Bundle, f field.Field, box geom.Box, opts TraceOptions) (*Crossings, error) {
	span, err := BoxSpan(b, box)
	if err != nil {
		return nil, fmt.Errorf("trace: sphere trace box: %w", err)
	}
	return SphereTraceSpan(b, f, span, opts)
}

// SecantRootBox runs the secant finder over the part of every ray inside
// box, starting no earlier than the ray origin.
func SecantRootBox(b geom.Bundle, f field.Field, box geom.Box, opts SecantOptions) (*Crossings, error) {
	span, err := BoxSpan(b, box)
	if err != nil {
		return nil, fmt.Errorf("trace: secant box: %w", err)
	}
	return SecantRootSpan(b, f, span, opts)
}

// SphereTraceBounded sphere traces f within its own bounds.
func SphereTraceBounded(b geom.Bundle, f BoundedField, opts TraceOptions) (*Crossings, error) {
	return SphereTraceBox(b, f, f.Bounds(), opts)
}

// SecantRootBounded runs the secant finder on f within its own bounds.
func SecantRootBounded(b geom.Bundle, f BoundedField, opts SecantOptions) (*Crossings, error) {
	return SecantRootBox(b, f, f.Bounds(), opts)
}

// BoundedField is a field that knows its bounding box.
type BoundedField interface {
	field.Field
	field.Bounded
}

// Package field defines the scalar-field capability consumed by the
// surface finders. A field is an opaque batch evaluator: the tracers
// depend only on the Field interface, never on a concrete field type.
// Implementations (analytic shapes, sdfx solids, scripted fields) live
// behind this interface so they can be swapped without touching the
// tracers.
package field

import (
	"fmt"

	"github.com/chazu/raygeo/pkg/geom"
)

// Field evaluates a scalar per point for a batch of points.
//
// Evaluate writes one value per point into dst; len(dst) must equal
// len(pts). Implementations must be deterministic and free of side
// effects. Violating that is a caller error the tracers do not detect.
type Field interface {
	Evaluate(pts []geom.Vec3, dst []float64) error
}

// Bounded is implemented by fields that know an axis-aligned box
// enclosing their surface.
type Bounded interface {
	Bounds() geom.Box
}

// Func adapts a per-point function into a Field.
type Func func(p geom.Vec3) float64

// Evaluate applies f to every point.
func (f Func) Evaluate(pts []geom.Vec3, dst []float64) error {
	if err := checkLen(pts, dst); err != nil {
		return err
	}
	for i, p := range pts {
		dst[i] = f(p)
	}
	return nil
}

// BatchFunc adapts a batch function into a Field.
type BatchFunc func(pts []geom.Vec3, dst []float64) error

// Evaluate calls f after checking shapes.
func (f BatchFunc) Evaluate(pts []geom.Vec3, dst []float64) error {
	if err := checkLen(pts, dst); err != nil {
		return err
	}
	return f(pts, dst)
}

// Eval evaluates f over pts into a freshly allocated slice.
func Eval(f Field, pts []geom.Vec3) ([]float64, error) {
	dst := make([]float64, len(pts))
	if len(pts) == 0 {
		return dst, nil
	}
	if err := f.Evaluate(pts, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func checkLen(pts []geom.Vec3, dst []float64) error {
	if len(pts) != len(dst) {
		return fmt.Errorf("field: %d points vs %d outputs: %w", len(pts), len(dst), geom.ErrShapeMismatch)
	}
	return nil
}

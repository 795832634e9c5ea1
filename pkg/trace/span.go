package trace

import (
	"fmt"
	"math"

	"github.com/chazu/raygeo/pkg/geom"
	"github.com/chazu/raygeo/pkg/intersect"
)

// Span is a per-ray search interval [Near[i], Far[i]]. A lane whose
// interval is empty or NaN is never searched and comes back invalid.
type Span struct {
	Near []float64
	Far  []float64
}

// UniformSpan returns n copies of [tMin, tMax].
func UniformSpan(n int, tMin, tMax float64) Span {
	s := Span{Near: make([]float64, n), Far: make([]float64, n)}
	for i := 0; i < n; i++ {
		s.Near[i], s.Far[i] = tMin, tMax
	}
	return s
}

// SpanFromHits takes the search interval of every ray from one primitive
// column of an intersection result. Missed rays get NaN bounds; the
// returned mask is the column's validity.
func SpanFromHits(res *intersect.Result, prim int) (Span, []bool) {
	hits := res.Column(prim)
	s := Span{Near: make([]float64, len(hits)), Far: make([]float64, len(hits))}
	mask := make([]bool, len(hits))
	for i, h := range hits {
		s.Near[i], s.Far[i], mask[i] = h.Near, h.Far, h.Valid
	}
	return s, mask
}

// BoxSpan intersects every ray with box and returns the hit intervals
// clipped to start at the ray origin.
func BoxSpan(b geom.Bundle, box geom.Box) (Span, error) {
	res, err := intersect.Boxes(b, []geom.Box{box})
	if err != nil {
		return Span{}, err
	}
	s, _ := SpanFromHits(res, 0)
	return s.ClipNear(0), nil
}

// Len returns the number of lanes.
func (s Span) Len() int { return len(s.Near) }

// ClipNear returns a copy with every near bound raised to at least min.
// Lanes whose far bound falls below min become empty.
func (s Span) ClipNear(min float64) Span {
	out := Span{Near: make([]float64, len(s.Near)), Far: append([]float64(nil), s.Far...)}
	for i, n := range s.Near {
		if n < min {
			n = min
		}
		out.Near[i] = n
	}
	return out
}

// Open reports whether lane i has a non-empty interval with a finite
// start. The far bound may be +Inf.
func (s Span) Open(i int) bool {
	n, f := s.Near[i], s.Far[i]
	return n <= f && !math.IsInf(n, 0)
}

func (s Span) check(n int) error {
	if len(s.Near) != n || len(s.Far) != n {
		return fmt.Errorf("trace: span of %d/%d lanes for %d rays: %w",
			len(s.Near), len(s.Far), n, geom.ErrShapeMismatch)
	}
	return nil
}

func checkRange(tMin, tMax float64) error {
	if math.IsNaN(tMin) || math.IsNaN(tMax) || tMin > tMax {
		return fmt.Errorf("trace: search range [%g, %g]: %w", tMin, tMax, ErrInvalidOptions)
	}
	return nil
}

package trace

import (
	"fmt"
	"math"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
)

// SphereTrace marches every ray through a signed distance field over
// [tMin, tMax]. See SphereTraceSpan.
func SphereTrace(b geom.Bundle, f field.Field, tMin, tMax float64, opts TraceOptions) (*Crossings, error) {
	if err := checkRange(tMin, tMax); err != nil {
		return nil, err
	}
	return SphereTraceSpan(b, f, UniformSpan(b.Len(), tMin, tMax), opts)
}

// SphereTraceSpan marches ray i over [span.Near[i], span.Far[i]].
//
// All active rays advance in lockstep, one batched field evaluation per
// step. A ray converges when |f| <= Epsilon. It misses when t leaves its
// interval: past Far, or behind Near after a negative step (the ray
// started inside the surface). Rays still marching after MaxSteps also
// miss. Converged and missed rays are frozen. Field errors abort the
// whole batch.
//
// Directions must be unit vectors and f must bound the distance to its
// surface, or the march can step through it.
func SphereTraceSpan(b geom.Bundle, f field.Field, span Span, opts TraceOptions) (*Crossings, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("trace: sphere trace: %w", err)
	}
	n := b.Len()
	if err := span.check(n); err != nil {
		return nil, err
	}

	out := newCrossings(n)
	t := append([]float64(nil), span.Near...)
	active := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if span.Open(i) {
			active = append(active, i)
		}
	}

	vals := make([]float64, 0, n)
	lanes := make([]float64, 0, n)
	for step := 0; step < opts.MaxSteps && len(active) > 0; step++ {
		lanes = lanes[:0]
		for _, i := range active {
			lanes = append(lanes, t[i])
		}
		pts, err := geom.PointsAt(b.Subset(active), lanes)
		if err != nil {
			return nil, fmt.Errorf("trace: sphere trace step %d: %w", step, err)
		}
		vals = vals[:len(pts)]
		if err := f.Evaluate(pts, vals); err != nil {
			return nil, fmt.Errorf("trace: sphere trace step %d: %w", step, err)
		}
		out.Steps = step + 1

		next := active[:0]
		for k, i := range active {
			s := vals[k]
			switch {
			case math.Abs(s) <= opts.Epsilon:
				out.Valid[i], out.Converged[i] = true, true
				out.Points[i] = pts[k]
				continue
			case math.IsNaN(s):
				continue
			}
			t[i] += s
			if t[i] > span.Far[i] || t[i] < span.Near[i] {
				continue
			}
			next = append(next, i)
		}
		active = next
	}
	copy(out.Z, t)

	if opts.Logger != nil {
		opts.Logger.Printf("trace: sphere trace: %d/%d rays converged in %d steps",
			out.CountValid(), n, out.Steps)
	}
	return out, nil
}

package trace

import (
	"fmt"
	"math"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
)

// SecantRoot finds the first crossing of opts.Level along every ray over
// [tMin, tMax]. See SecantRootSpan.
func SecantRoot(b geom.Bundle, f field.Field, tMin, tMax float64, opts SecantOptions) (*Crossings, error) {
	if err := checkRange(tMin, tMax); err != nil {
		return nil, err
	}
	return SecantRootSpan(b, f, UniformSpan(b.Len(), tMin, tMax), opts)
}

// bracket is one lane's secant state. g values are field - level.
type bracket struct {
	ta, ga float64
	tb, gb float64
	best   float64
	bestG  float64
}

// SecantRootSpan finds the first crossing of opts.Level along ray i
// within [span.Near[i], span.Far[i]]. Lanes with an infinite far bound
// cannot be sampled and come back invalid.
//
// The coarse scan evaluates NumCoarse evenly spaced samples of every ray
// in one batch and keeps the first adjacent pair crossing Level in the
// expected Direction. Rays with no such pair are invalid. When an end of
// that pair is already within Threshold of Level it is returned as is.
//
// Bracketed rays are then refined in lockstep with the secant update,
// replacing the endpoint on the same side of Level as the new sample,
// until |f - Level| < Threshold or NumIter iterations have run. Rays
// that run out of iterations are still valid and report the sample
// closest to Level; Converged tells them apart. This best-effort policy
// differs from SphereTrace, where non-convergence is a miss.
func SecantRootSpan(b geom.Bundle, f field.Field, span Span, opts SecantOptions) (*Crossings, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("trace: secant: %w", err)
	}
	n := b.Len()
	if err := span.check(n); err != nil {
		return nil, err
	}

	out := newCrossings(n)
	copy(out.Z, span.Near)

	var scan []int
	for i := 0; i < n; i++ {
		if span.Open(i) && !math.IsInf(span.Far[i], 0) {
			scan = append(scan, i)
		}
	}
	brackets, refine, err := coarseScan(b, f, span, scan, opts, out)
	if err != nil {
		return nil, err
	}

	vals := make([]float64, 0, len(refine))
	lanes := make([]float64, 0, len(refine))
	for iter := 0; iter < opts.NumIter && len(refine) > 0; iter++ {
		lanes = lanes[:0]
		for _, i := range refine {
			br := brackets[i]
			lanes = append(lanes, br.ta-br.ga*(br.tb-br.ta)/(br.gb-br.ga))
		}
		pts, err := geom.PointsAt(b.Subset(refine), lanes)
		if err != nil {
			return nil, fmt.Errorf("trace: secant iteration %d: %w", iter, err)
		}
		vals = vals[:len(pts)]
		if err := f.Evaluate(pts, vals); err != nil {
			return nil, fmt.Errorf("trace: secant iteration %d: %w", iter, err)
		}
		out.Steps = iter + 1

		next := refine[:0]
		for k, i := range refine {
			tn, gn := lanes[k], vals[k]-opts.Level
			br := brackets[i]
			if math.IsNaN(gn) {
				continue
			}
			if math.Abs(gn) < math.Abs(br.bestG) {
				br.best, br.bestG = tn, gn
			}
			if math.Abs(gn) < opts.Threshold {
				out.Converged[i] = true
				continue
			}
			if (gn > 0) == (br.ga > 0) {
				br.ta, br.ga = tn, gn
			} else {
				br.tb, br.gb = tn, gn
			}
			next = append(next, i)
		}
		refine = next
	}

	for i, br := range brackets {
		if br == nil {
			continue
		}
		out.Z[i] = br.best
	}
	for i := 0; i < n; i++ {
		if out.Valid[i] {
			out.Points[i] = b.Ray(i).At(out.Z[i])
		}
	}

	if opts.Logger != nil {
		opts.Logger.Printf("trace: secant %v: %d/%d rays valid, %d converged after %d iterations",
			opts.Direction, out.CountValid(), n, out.CountConverged(), out.Steps)
	}
	return out, nil
}

// coarseScan samples every lane in scan and records its first bracket.
// Lanes whose bracket already meets Threshold are resolved in out. It
// returns the brackets indexed by ray and the lanes left to refine.
func coarseScan(b geom.Bundle, f field.Field, span Span, scan []int, opts SecantOptions, out *Crossings) ([]*bracket, []int, error) {
	brackets := make([]*bracket, b.Len())
	if len(scan) == 0 {
		return brackets, nil, nil
	}

	zvals := make([][]float64, len(scan))
	for k, i := range scan {
		zvals[k] = geom.Linspace(span.Near[i], span.Far[i], opts.NumCoarse)
	}
	rows, err := geom.Points(b.Subset(scan), zvals)
	if err != nil {
		return nil, nil, fmt.Errorf("trace: secant coarse scan: %w", err)
	}
	pts := make([]geom.Vec3, 0, len(scan)*opts.NumCoarse)
	for _, row := range rows {
		pts = append(pts, row...)
	}
	vals, err := field.Eval(f, pts)
	if err != nil {
		return nil, nil, fmt.Errorf("trace: secant coarse scan: %w", err)
	}

	var refine []int
	for k, i := range scan {
		z := zvals[k]
		g := vals[k*opts.NumCoarse : (k+1)*opts.NumCoarse]
		for j := 0; j+1 < len(g); j++ {
			ga, gb := g[j]-opts.Level, g[j+1]-opts.Level
			if !crosses(ga, gb, opts.Direction) {
				continue
			}
			out.Valid[i] = true
			br := &bracket{ta: z[j], ga: ga, tb: z[j+1], gb: gb, best: z[j], bestG: ga}
			if math.Abs(gb) <= math.Abs(ga) {
				br.best, br.bestG = z[j+1], gb
			}
			brackets[i] = br
			if math.Abs(br.bestG) < opts.Threshold {
				out.Converged[i] = true
				break
			}
			refine = append(refine, i)
			break
		}
	}
	return brackets, refine, nil
}

func crosses(ga, gb float64, dir Direction) bool {
	if dir == Ascent {
		return ga < 0 && gb >= 0
	}
	return ga > 0 && gb <= 0
}

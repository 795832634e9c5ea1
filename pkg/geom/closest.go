package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// rankCond is the relative singular-value cutoff used to decide whether
// the accumulated projector system of ClosestPointToRays is full rank.
const rankCond = 1e-9

// parallelEps is the relative tolerance on a·c - b² below which two rays
// are treated as parallel.
const parallelEps = 1e-12

// ClosestPointResult is the answer of a closest-point query shared by a
// set of rays.
type ClosestPointResult struct {
	// Point is the closest point to all rays in the query.
	Point Vec3
	// Distance is the residual. See the producing function for its exact
	// definition.
	Distance float64
	// ZVals holds, per ray, the parameter of the foot of the perpendicular
	// from Point. Not clamped to the forward half of the ray.
	ZVals []float64
	// Valid is false when the problem is degenerate (parallel rays).
	// Point, Distance and ZVals are still finite in that case.
	Valid bool
}

// ClosestPointOnRay projects every point in pts onto the infinite line
// through every ray. It returns the projections and their parameters,
// both indexed [ray][point]. Parameters may be negative.
func ClosestPointOnRay(b Bundle, pts []Vec3) ([][]Vec3, [][]float64, error) {
	if err := b.Validate(); err != nil {
		return nil, nil, fmt.Errorf("geom: closest point on ray: %w", err)
	}
	proj := make([][]Vec3, b.Len())
	zvals := make([][]float64, b.Len())
	for i := range b.Origins {
		o, d := b.Origins[i], b.Dirs[i]
		dd := d.Dot(d)
		proj[i] = make([]Vec3, len(pts))
		zvals[i] = make([]float64, len(pts))
		for k, p := range pts {
			t := p.Sub(o).Dot(d) / dd
			zvals[i][k] = t
			proj[i][k] = o.Add(d.Scale(t))
		}
	}
	return proj, zvals, nil
}

// ClosestPointToRays finds the point X minimizing the sum of squared
// perpendicular distances from X to every ray. Each ray contributes the
// projector P = I - d̂d̂ᵀ and X solves (Σ P_i) X = Σ P_i o_i.
//
// The system is solved through an SVD. When it is rank deficient (a
// single ray, or all rays parallel) the minimum-norm solution is
// returned with Valid=false.
//
// Distance is the sum of squared perpendicular distances, not its square
// root.
func ClosestPointToRays(b Bundle) (ClosestPointResult, error) {
	if err := b.Validate(); err != nil {
		return ClosestPointResult{}, fmt.Errorf("geom: closest point to rays: %w", err)
	}
	if b.Len() == 0 {
		return ClosestPointResult{}, fmt.Errorf("geom: closest point to rays: no rays: %w", ErrShapeMismatch)
	}

	a := mat.NewDense(3, 3, nil)
	rhs := mat.NewVecDense(3, nil)
	for i := range b.Origins {
		o := b.Origins[i].Array()
		d := b.Dirs[i].Scale(1 / b.Dirs[i].Length()).Array()
		for r := 0; r < 3; r++ {
			var acc float64
			for c := 0; c < 3; c++ {
				p := -d[r] * d[c]
				if r == c {
					p++
				}
				a.Set(r, c, a.At(r, c)+p)
				acc += p * o[c]
			}
			rhs.SetVec(r, rhs.AtVec(r)+acc)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return ClosestPointResult{}, fmt.Errorf("geom: closest point to rays: SVD factorization failed")
	}
	rank := svd.Rank(rankCond)

	var x Vec3
	if rank > 0 {
		var sol mat.VecDense
		svd.SolveVecTo(&sol, rhs, rank)
		x = V(sol.AtVec(0), sol.AtVec(1), sol.AtVec(2))
	}

	res := ClosestPointResult{
		Point: x,
		ZVals: make([]float64, b.Len()),
		Valid: rank == 3,
	}
	for i := range b.Origins {
		o, d := b.Origins[i], b.Dirs[i]
		w := x.Sub(o)
		t := w.Dot(d) / d.Dot(d)
		res.ZVals[i] = t
		res.Distance += w.Sub(d.Scale(t)).Length2()
	}
	return res, nil
}

// ClosestPointToTwoRays solves the two-ray case in closed form through
// the common perpendicular. Point is the midpoint of the two feet,
// Distance their separation and ZVals the two ray parameters.
//
// Parallel rays have no unique common perpendicular: the result then
// measures from the first origin to the second line and is marked
// invalid.
func ClosestPointToTwoRays(b Bundle) (ClosestPointResult, error) {
	if err := b.Validate(); err != nil {
		return ClosestPointResult{}, fmt.Errorf("geom: closest point to two rays: %w", err)
	}
	if b.Len() != 2 {
		return ClosestPointResult{}, fmt.Errorf("geom: closest point to two rays: got %d rays: %w", b.Len(), ErrShapeMismatch)
	}
	o0, d0 := b.Origins[0], b.Dirs[0]
	o1, d1 := b.Origins[1], b.Dirs[1]

	w0 := o1.Sub(o0)
	aa := d0.Dot(d0)
	bb := d0.Dot(d1)
	cc := d1.Dot(d1)
	dd := d0.Dot(w0)
	ee := d1.Dot(w0)
	denom := aa*cc - bb*bb

	var t0, t1 float64
	valid := math.Abs(denom) > parallelEps*aa*cc
	if valid {
		t0 = (cc*dd - bb*ee) / denom
		t1 = (bb*dd - aa*ee) / denom
	} else {
		t1 = -ee / cc
	}

	p0 := o0.Add(d0.Scale(t0))
	p1 := o1.Add(d1.Scale(t1))
	return ClosestPointResult{
		Point:    p0.Add(p1).Scale(0.5),
		Distance: p0.Sub(p1).Length(),
		ZVals:    []float64{t0, t1},
		Valid:    valid,
	}, nil
}

// Package intersect computes batched ray/primitive intersections. Every
// query tests N rays against P primitives and returns a Result indexed
// explicitly by (ray, primitive).
//
// Intersectors never clip near to the ray origin: a ray starting inside
// a primitive reports a negative near. Clipping is left to the caller
// (see trace.Span.ClipNear).
package intersect

import (
	"math"

	"github.com/chazu/raygeo/pkg/geom"
)

// Hit is the intersection of one ray with one primitive.
type Hit struct {
	// Near and Far are the entry and exit parameters. Both are NaN when
	// the ray misses. Near <= Far whenever Valid.
	Near, Far float64
	// Points holds the near and far points. Only meaningful when Valid.
	Points [2]geom.Vec3
	Valid  bool
}

var miss = Hit{Near: math.NaN(), Far: math.NaN()}

// Result is a two-dimensional grid of hits, rays by primitives.
type Result struct {
	numRays  int
	numPrims int
	hits     []Hit // row-major: hits[ray*numPrims+prim]
}

func newResult(numRays, numPrims int) *Result {
	return &Result{
		numRays:  numRays,
		numPrims: numPrims,
		hits:     make([]Hit, numRays*numPrims),
	}
}

func (r *Result) set(ray, prim int, h Hit) {
	r.hits[ray*r.numPrims+prim] = h
}

// NumRays returns the number of rays (rows).
func (r *Result) NumRays() int { return r.numRays }

// NumPrims returns the number of primitives (columns).
func (r *Result) NumPrims() int { return r.numPrims }

// At returns the hit of ray against prim.
func (r *Result) At(ray, prim int) Hit {
	return r.hits[ray*r.numPrims+prim]
}

// Valid reports whether ray intersects prim.
func (r *Result) Valid(ray, prim int) bool { return r.At(ray, prim).Valid }

// Near returns the entry parameter of ray against prim.
func (r *Result) Near(ray, prim int) float64 { return r.At(ray, prim).Near }

// Far returns the exit parameter of ray against prim.
func (r *Result) Far(ray, prim int) float64 { return r.At(ray, prim).Far }

// Column returns the hits of every ray against a single primitive.
func (r *Result) Column(prim int) []Hit {
	col := make([]Hit, r.numRays)
	for i := range col {
		col[i] = r.At(i, prim)
	}
	return col
}

// Mask returns the validity grid as [ray][prim].
func (r *Result) Mask() [][]bool {
	m := make([][]bool, r.numRays)
	for i := range m {
		m[i] = make([]bool, r.numPrims)
		for j := range m[i] {
			m[i][j] = r.At(i, j).Valid
		}
	}
	return m
}

// CountValid returns the number of valid (ray, primitive) pairs.
func (r *Result) CountValid() int {
	n := 0
	for _, h := range r.hits {
		if h.Valid {
			n++
		}
	}
	return n
}

// assemble turns per-pair parameters into a Result. The near and far
// points of every valid pair come from a single batched sampler call.
func assemble(b geom.Bundle, numPrims int, near, far []float64, valid []bool) *Result {
	res := newResult(b.Len(), numPrims)
	zvals := make([][]float64, b.Len())
	for i := range zvals {
		row := make([]float64, 2*numPrims)
		for j := 0; j < numPrims; j++ {
			k := i*numPrims + j
			if valid[k] {
				row[2*j], row[2*j+1] = near[k], far[k]
			}
		}
		zvals[i] = row
	}
	pts, err := geom.Points(b, zvals)
	if err != nil {
		// Shapes are built above from the bundle itself.
		panic(err)
	}
	for i := range zvals {
		for j := 0; j < numPrims; j++ {
			k := i*numPrims + j
			if !valid[k] {
				res.set(i, j, miss)
				continue
			}
			res.set(i, j, Hit{
				Near:   near[k],
				Far:    far[k],
				Points: [2]geom.Vec3{pts[i][2*j], pts[i][2*j+1]},
				Valid:  true,
			})
		}
	}
	return res
}

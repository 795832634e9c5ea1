package geom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Points samples M depths along every ray: out[i][j] = o_i + zvals[i][j]·d_i.
// zvals must have one row per ray and every row the same length.
func Points(b Bundle, zvals [][]float64) ([][]Vec3, error) {
	if len(b.Origins) != len(b.Dirs) {
		return nil, fmt.Errorf("geom: points: %d origins vs %d directions: %w", len(b.Origins), len(b.Dirs), ErrShapeMismatch)
	}
	if len(zvals) != b.Len() {
		return nil, fmt.Errorf("geom: points: %d zval rows for %d rays: %w", len(zvals), b.Len(), ErrShapeMismatch)
	}
	out := make([][]Vec3, len(zvals))
	if len(zvals) == 0 {
		return out, nil
	}
	m := len(zvals[0])
	for i, row := range zvals {
		if len(row) != m {
			return nil, fmt.Errorf("geom: points: row %d has %d samples, want %d: %w", i, len(row), m, ErrShapeMismatch)
		}
		o, d := b.Origins[i], b.Dirs[i]
		pts := make([]Vec3, m)
		for j, z := range row {
			pts[j] = o.Add(d.Scale(z))
		}
		out[i] = pts
	}
	return out, nil
}

// PointsAt samples one depth per ray.
func PointsAt(b Bundle, z []float64) ([]Vec3, error) {
	if len(z) != b.Len() || len(b.Dirs) != b.Len() {
		return nil, fmt.Errorf("geom: points: %d depths for %d rays: %w", len(z), b.Len(), ErrShapeMismatch)
	}
	out := make([]Vec3, len(z))
	for i, t := range z {
		out[i] = b.Origins[i].Add(b.Dirs[i].Scale(t))
	}
	return out, nil
}

// Linspace returns n evenly spaced values covering [lo, hi] inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

package field

import (
	"math"
	"sync/atomic"

	"github.com/chazu/raygeo/pkg/geom"
)

// Compile-time interface checks.
var (
	_ Field   = SphereSDF{}
	_ Bounded = SphereSDF{}
	_ Field   = BoxSDF{}
	_ Bounded = BoxSDF{}
	_ Field   = Density{}
	_ Field   = (*Counter)(nil)
)

// SphereSDF is the exact signed distance to a sphere: |p-c| - r.
type SphereSDF struct {
	Center geom.Vec3
	Radius float64
}

// Evaluate computes the signed distance at every point.
func (s SphereSDF) Evaluate(pts []geom.Vec3, dst []float64) error {
	if err := checkLen(pts, dst); err != nil {
		return err
	}
	for i, p := range pts {
		dst[i] = p.Sub(s.Center).Length() - s.Radius
	}
	return nil
}

// Bounds returns the sphere's bounding box.
func (s SphereSDF) Bounds() geom.Box {
	r := geom.V(s.Radius, s.Radius, s.Radius)
	return geom.Box{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// BoxSDF is the exact signed distance to an axis-aligned box.
type BoxSDF struct {
	Box geom.Box
}

// Evaluate computes the signed distance at every point.
func (b BoxSDF) Evaluate(pts []geom.Vec3, dst []float64) error {
	if err := checkLen(pts, dst); err != nil {
		return err
	}
	c := b.Box.Center()
	h := b.Box.Size().Scale(0.5)
	for i, p := range pts {
		q := p.Sub(c)
		q = geom.V(math.Abs(q.X)-h.X, math.Abs(q.Y)-h.Y, math.Abs(q.Z)-h.Z)
		outside := geom.V(math.Max(q.X, 0), math.Max(q.Y, 0), math.Max(q.Z, 0)).Length()
		inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
		dst[i] = outside + inside
	}
	return nil
}

// Bounds returns the box itself.
func (b BoxSDF) Bounds() geom.Box {
	return b.Box
}

// Density turns a signed distance field into a density-style field,
// Level - sdf(p): above Level inside the surface, below it outside, and
// crossing Level exactly where the SDF crosses zero.
type Density struct {
	SDF   Field
	Level float64
}

// Evaluate evaluates the wrapped SDF and maps it to density.
func (d Density) Evaluate(pts []geom.Vec3, dst []float64) error {
	if err := checkLen(pts, dst); err != nil {
		return err
	}
	if err := d.SDF.Evaluate(pts, dst); err != nil {
		return err
	}
	for i, v := range dst {
		dst[i] = d.Level - v
	}
	return nil
}

// Counter wraps a field and counts evaluation calls and points.
type Counter struct {
	Field  Field
	calls  atomic.Int64
	points atomic.Int64
}

// NewCounter returns a counting wrapper around f.
func NewCounter(f Field) *Counter {
	return &Counter{Field: f}
}

// Evaluate forwards to the wrapped field.
func (c *Counter) Evaluate(pts []geom.Vec3, dst []float64) error {
	c.calls.Add(1)
	c.points.Add(int64(len(pts)))
	return c.Field.Evaluate(pts, dst)
}

// Calls returns the number of Evaluate calls so far.
func (c *Counter) Calls() int64 { return c.calls.Load() }

// Points returns the total number of points evaluated so far.
func (c *Counter) Points() int64 { return c.points.Load() }

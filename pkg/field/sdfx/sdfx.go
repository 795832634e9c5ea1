// Package sdfx exposes solids built with the github.com/deadsy/sdfx
// SDF-based CAD library as batch fields for the surface finders.
package sdfx

import (
	"fmt"

	"github.com/chazu/raygeo/pkg/field"
	"github.com/chazu/raygeo/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ field.Field   = (*Solid)(nil)
	_ field.Bounded = (*Solid)(nil)
)

// Solid wraps an sdf.SDF3 to implement field.Field and field.Bounded.
type Solid struct {
	s sdf.SDF3
}

// Wrap returns a Solid backed by s.
func Wrap(s sdf.SDF3) *Solid {
	return &Solid{s: s}
}

// SDF3 returns the underlying sdfx solid.
func (s *Solid) SDF3() sdf.SDF3 {
	return s.s
}

// Evaluate samples the sdfx distance function at every point.
func (s *Solid) Evaluate(pts []geom.Vec3, dst []float64) error {
	if len(pts) != len(dst) {
		return fmt.Errorf("sdfx: %d points vs %d outputs: %w", len(pts), len(dst), geom.ErrShapeMismatch)
	}
	for i, p := range pts {
		dst[i] = s.s.Evaluate(toV3(p))
	}
	return nil
}

// Bounds returns the sdfx bounding box of the solid.
func (s *Solid) Bounds() geom.Box {
	return BoxFromSDF(s.s)
}

// BoxFromSDF converts the bounding box of an sdfx solid so it can be fed
// to the box intersector.
func BoxFromSDF(s sdf.SDF3) geom.Box {
	bb := s.BoundingBox()
	return geom.Box{
		Min: geom.V(bb.Min.X, bb.Min.Y, bb.Min.Z),
		Max: geom.V(bb.Max.X, bb.Max.Y, bb.Max.Z),
	}
}

// Sphere creates a sphere of the given radius centered at the origin.
func Sphere(radius float64) (*Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w", err)
	}
	return Wrap(s), nil
}

// Box creates a box with the given dimensions centered at the origin.
// round is the edge rounding radius.
func Box(x, y, z, round float64) (*Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, round)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return Wrap(s), nil
}

// Cylinder creates a Z-aligned cylinder centered at the origin.
func Cylinder(height, radius float64) (*Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return Wrap(s), nil
}

// Translate moves a solid by d.
func Translate(s *Solid, d geom.Vec3) *Solid {
	return Wrap(sdf.Transform3D(s.s, sdf.Translate3d(toV3(d))))
}

// Union returns the union of two solids.
func Union(a, b *Solid) *Solid {
	return Wrap(sdf.Union3D(a.s, b.s))
}

// Difference returns a minus b.
func Difference(a, b *Solid) *Solid {
	return Wrap(sdf.Difference3D(a.s, b.s))
}

func toV3(p geom.Vec3) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

package geom

import (
	"fmt"
	"math"
)

// Sphere is a sphere given by center and radius.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Validate rejects non-positive or non-finite radii.
func (s Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("geom: sphere radius %g: %w", s.Radius, ErrInvalidPrimitive)
	}
	return nil
}

// Box is an axis-aligned box given by its per-axis (min, max) pairs.
type Box struct {
	Min Vec3
	Max Vec3
}

// CubeBox returns the box [-side/2, side/2]³ centered at the origin.
func CubeBox(side float64) Box {
	h := side / 2
	return Box{Min: V(-h, -h, -h), Max: V(h, h, h)}
}

// Validate rejects boxes whose min exceeds max on any axis.
func (b Box) Validate() error {
	for axis := 0; axis < 3; axis++ {
		if !(b.Min.Get(axis) <= b.Max.Get(axis)) {
			return fmt.Errorf("geom: box axis %d min %g > max %g: %w",
				axis, b.Min.Get(axis), b.Max.Get(axis), ErrInvalidPrimitive)
		}
	}
	return nil
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the center point of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand returns the box grown by m on every side.
func (b Box) Expand(m float64) Box {
	d := V(m, m, m)
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

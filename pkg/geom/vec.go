// Package geom defines the value types shared by the ray-geometry core:
// vectors, ray bundles and the analytic primitives rays are tested
// against. It also hosts the two components that need nothing but these
// types, the ray sampler and the closest-point solvers.
//
// All types are immutable values. No function in this package retains
// or mutates the slices it is given.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a 3D vector of float64 components. It shares its layout with
// r3.Vec, which does the arithmetic.
type Vec3 struct {
	X, Y, Z float64
}

// FromR3 converts a gonum vector.
func FromR3(p r3.Vec) Vec3 {
	return Vec3(p)
}

// R3 returns v as a gonum vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec(v)
}

// V is shorthand for Vec3{X: x, Y: y, Z: z}.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3(r3.Add(v.R3(), o.R3()))
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3(r3.Sub(v.R3(), o.R3()))
}

// Scale returns s * v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3(r3.Scale(s, v.R3()))
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return r3.Dot(v.R3(), o.R3())
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3(r3.Cross(v.R3(), o.R3()))
}

// Length2 returns the squared Euclidean norm.
func (v Vec3) Length2() float64 {
	return r3.Norm2(v.R3())
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 {
	return r3.Norm(v.R3())
}

// Normalize returns v scaled to unit length. A zero vector cannot be
// normalized and yields ErrZeroDirection.
func (v Vec3) Normalize() (Vec3, error) {
	l := v.Length()
	if l == 0 {
		return Vec3{}, ErrZeroDirection
	}
	return v.Scale(1 / l), nil
}

// Get returns the component on the given axis (0=X, 1=Y, 2=Z).
func (v Vec3) Get(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("geom: axis %d out of range", axis))
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Array returns the vector as a [3]float64, the form used at package
// boundaries that deal in plain arrays.
func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

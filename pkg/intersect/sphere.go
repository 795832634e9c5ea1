package intersect

import (
	"fmt"
	"math"

	"github.com/chazu/raygeo/pkg/geom"
)

// Spheres intersects every ray with every sphere. Directions are taken
// as unit vectors; the reduced quadratic below is only correct for
// normalized d.
func Spheres(b geom.Bundle, spheres []geom.Sphere) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("intersect: spheres: %w", err)
	}
	for j, s := range spheres {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("intersect: sphere %d: %w", j, err)
		}
	}

	p := len(spheres)
	near := make([]float64, b.Len()*p)
	far := make([]float64, b.Len()*p)
	valid := make([]bool, b.Len()*p)
	for i := range b.Origins {
		o, d := b.Origins[i], b.Dirs[i]
		for j, s := range spheres {
			k := i*p + j
			near[k], far[k], valid[k] = sphereRoots(o, d, s.Center, s.Radius)
		}
	}
	return assemble(b, p, near, far, valid), nil
}

// SphereRadii intersects every ray with R concentric spheres sharing
// center, one per radius.
func SphereRadii(b geom.Bundle, center geom.Vec3, radii []float64) (*Result, error) {
	spheres := make([]geom.Sphere, len(radii))
	for j, r := range radii {
		spheres[j] = geom.Sphere{Center: center, Radius: r}
	}
	return Spheres(b, spheres)
}

// sphereRoots solves t² + 2t(d·(o-c)) + |o-c|² - r² = 0 for unit d.
func sphereRoots(o, d, c geom.Vec3, r float64) (near, far float64, ok bool) {
	oc := o.Sub(c)
	halfB := d.Dot(oc)
	disc := halfB*halfB - (oc.Dot(oc) - r*r)
	// NaN inputs give a NaN discriminant, which must miss as well.
	if !(disc >= 0) {
		return math.NaN(), math.NaN(), false
	}
	sq := math.Sqrt(disc)
	near, far = -halfB-sq, -halfB+sq
	if near > far {
		near, far = far, near
	}
	return near, far, true
}

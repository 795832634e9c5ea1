package intersect

import (
	"fmt"
	"math"

	"github.com/chazu/raygeo/pkg/geom"
)

// Boxes intersects every ray with every axis-aligned box using the slab
// method. A ray parallel to a slab (zero direction component) misses the
// box unless its origin lies within that slab, whatever the other axes
// say. Rays grazing an edge or face are valid with near == far.
func Boxes(b geom.Bundle, boxes []geom.Box) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("intersect: boxes: %w", err)
	}
	for j, box := range boxes {
		if err := box.Validate(); err != nil {
			return nil, fmt.Errorf("intersect: box %d: %w", j, err)
		}
	}

	p := len(boxes)
	near := make([]float64, b.Len()*p)
	far := make([]float64, b.Len()*p)
	valid := make([]bool, b.Len()*p)
	for i := range b.Origins {
		o, d := b.Origins[i], b.Dirs[i]
		for j, box := range boxes {
			k := i*p + j
			near[k], far[k], valid[k] = slab(o, d, box)
		}
	}
	return assemble(b, p, near, far, valid), nil
}

func slab(o, d geom.Vec3, box geom.Box) (near, far float64, ok bool) {
	near, far = math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		lo, hi := box.Min.Get(axis), box.Max.Get(axis)
		oa, da := o.Get(axis), d.Get(axis)

		if da == 0 {
			if oa < lo || oa > hi {
				return math.NaN(), math.NaN(), false
			}
			continue
		}

		t1 := (lo - oa) / da
		t2 := (hi - oa) / da
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		near = math.Max(near, t1)
		far = math.Min(far, t2)
	}
	if !(near <= far) {
		return math.NaN(), math.NaN(), false
	}
	return near, far, true
}

package geom

import "fmt"

// Ray is a parametric line o + t·d.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Bundle is an ordered set of N rays stored as two parallel arrays.
// Result index i always corresponds to ray i.
type Bundle struct {
	Origins []Vec3
	Dirs    []Vec3
}

// NewBundle builds a bundle from parallel origin and direction slices.
// The slices are copied.
func NewBundle(origins, dirs []Vec3) (Bundle, error) {
	if len(origins) != len(dirs) {
		return Bundle{}, fmt.Errorf("geom: %d origins vs %d directions: %w", len(origins), len(dirs), ErrShapeMismatch)
	}
	b := Bundle{
		Origins: append([]Vec3(nil), origins...),
		Dirs:    append([]Vec3(nil), dirs...),
	}
	return b, nil
}

// FromRays builds a bundle from individual rays.
func FromRays(rays ...Ray) Bundle {
	b := Bundle{
		Origins: make([]Vec3, len(rays)),
		Dirs:    make([]Vec3, len(rays)),
	}
	for i, r := range rays {
		b.Origins[i] = r.Origin
		b.Dirs[i] = r.Dir
	}
	return b
}

// Len returns the number of rays.
func (b Bundle) Len() int {
	return len(b.Origins)
}

// Ray returns ray i.
func (b Bundle) Ray(i int) Ray {
	return Ray{Origin: b.Origins[i], Dir: b.Dirs[i]}
}

// Validate checks the parallel-array invariant and rejects zero-length
// directions.
func (b Bundle) Validate() error {
	if len(b.Origins) != len(b.Dirs) {
		return fmt.Errorf("geom: %d origins vs %d directions: %w", len(b.Origins), len(b.Dirs), ErrShapeMismatch)
	}
	for i, d := range b.Dirs {
		if d.Length2() == 0 {
			return fmt.Errorf("geom: ray %d: %w", i, ErrZeroDirection)
		}
	}
	return nil
}

// Normalized returns a copy of the bundle with unit-length directions.
// Components that treat d as a unit vector never normalize on their own;
// callers that start from arbitrary directions use this first.
func (b Bundle) Normalized() (Bundle, error) {
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	out := Bundle{
		Origins: append([]Vec3(nil), b.Origins...),
		Dirs:    make([]Vec3, len(b.Dirs)),
	}
	for i, d := range b.Dirs {
		out.Dirs[i] = d.Scale(1 / d.Length())
	}
	return out, nil
}

// Subset returns a bundle holding the rays at the given indices, in order.
func (b Bundle) Subset(idx []int) Bundle {
	out := Bundle{
		Origins: make([]Vec3, len(idx)),
		Dirs:    make([]Vec3, len(idx)),
	}
	for k, i := range idx {
		out.Origins[k] = b.Origins[i]
		out.Dirs[k] = b.Dirs[i]
	}
	return out
}

package trace

import "github.com/chazu/raygeo/pkg/geom"

// Crossing is the surface found along one ray.
type Crossing struct {
	Z         float64
	Point     geom.Vec3
	Valid     bool
	Converged bool
}

// Crossings holds one surface search result per ray, in ray order.
type Crossings struct {
	// Z is the ray parameter of the crossing. For invalid rays it holds
	// the last parameter reached and carries no meaning.
	Z []float64
	// Points are o + Z·d. Only meaningful where Valid.
	Points []geom.Vec3
	// Valid marks rays on which a crossing was found.
	Valid []bool
	// Converged marks rays whose crossing met the convergence threshold.
	// Sphere tracing only reports converged rays as valid; the secant
	// finder may report valid rays that did not converge.
	Converged []bool
	// Steps is the number of lockstep iterations executed.
	Steps int
}

func newCrossings(n int) *Crossings {
	return &Crossings{
		Z:         make([]float64, n),
		Points:    make([]geom.Vec3, n),
		Valid:     make([]bool, n),
		Converged: make([]bool, n),
	}
}

// Len returns the number of rays.
func (c *Crossings) Len() int { return len(c.Z) }

// At returns the result for ray i.
func (c *Crossings) At(i int) Crossing {
	return Crossing{Z: c.Z[i], Point: c.Points[i], Valid: c.Valid[i], Converged: c.Converged[i]}
}

// CountValid returns the number of rays with a crossing.
func (c *Crossings) CountValid() int {
	n := 0
	for _, v := range c.Valid {
		if v {
			n++
		}
	}
	return n
}

// CountConverged returns the number of rays whose crossing converged.
func (c *Crossings) CountConverged() int {
	n := 0
	for _, v := range c.Converged {
		if v {
			n++
		}
	}
	return n
}

package trace

import (
	"errors"
	"fmt"
	"log"
)

// ErrInvalidOptions is returned for option values no search can run with.
var ErrInvalidOptions = errors.New("invalid options")

// Defaults for TraceOptions.
const (
	DefaultEpsilon  = 1e-4
	DefaultMaxSteps = 128
)

// Defaults for SecantOptions.
const (
	DefaultNumCoarse = 128
	DefaultNumIter   = 10
	DefaultThreshold = 0.01
)

// Direction is the expected sense of a level crossing along increasing t.
type Direction int

const (
	// Descent expects the field to cross from above the level to below
	// it. This is the SDF convention, with the level usually 0.
	Descent Direction = iota
	// Ascent expects the field to cross from below the level to above
	// it. This is the density convention.
	Ascent
)

func (d Direction) String() string {
	switch d {
	case Descent:
		return "descent"
	case Ascent:
		return "ascent"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// TraceOptions configures SphereTrace. Zero fields take the defaults.
type TraceOptions struct {
	// Epsilon is the convergence threshold on |field|.
	Epsilon float64
	// MaxSteps bounds the lockstep loop. Rays still marching after
	// MaxSteps are misses.
	MaxSteps int
	// Logger receives one summary line per call. Nil is silent.
	Logger *log.Logger
}

// DefaultTraceOptions returns the default sphere-tracing options.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{Epsilon: DefaultEpsilon, MaxSteps: DefaultMaxSteps}
}

func (o TraceOptions) withDefaults() TraceOptions {
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}

// Validate reports option values that cannot be used.
func (o TraceOptions) Validate() error {
	if !(o.Epsilon > 0) {
		return fmt.Errorf("trace: epsilon %g must be positive: %w", o.Epsilon, ErrInvalidOptions)
	}
	if o.MaxSteps < 1 {
		return fmt.Errorf("trace: max steps %d must be at least 1: %w", o.MaxSteps, ErrInvalidOptions)
	}
	return nil
}

// SecantOptions configures SecantRoot. Zero NumCoarse, NumIter and
// Threshold take the defaults; Level 0 and Descent are meaningful zero
// values.
type SecantOptions struct {
	// NumCoarse is the number of evenly spaced samples of the coarse
	// scan, endpoints included.
	NumCoarse int
	// NumIter bounds the secant refinement.
	NumIter int
	// Threshold is the convergence threshold on |field - Level|.
	Threshold float64
	// Level is the field value whose crossing is sought.
	Level float64
	// Direction is the expected sense of the crossing.
	Direction Direction
	// Logger receives one summary line per call. Nil is silent.
	Logger *log.Logger
}

// DefaultSecantOptions returns the default options for an SDF zero
// crossing.
func DefaultSecantOptions() SecantOptions {
	return SecantOptions{
		NumCoarse: DefaultNumCoarse,
		NumIter:   DefaultNumIter,
		Threshold: DefaultThreshold,
		Direction: Descent,
	}
}

func (o SecantOptions) withDefaults() SecantOptions {
	if o.NumCoarse == 0 {
		o.NumCoarse = DefaultNumCoarse
	}
	if o.NumIter == 0 {
		o.NumIter = DefaultNumIter
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Validate reports option values that cannot be used.
func (o SecantOptions) Validate() error {
	if o.NumCoarse < 2 {
		return fmt.Errorf("trace: %d coarse samples, need at least 2: %w", o.NumCoarse, ErrInvalidOptions)
	}
	if o.NumIter < 1 {
		return fmt.Errorf("trace: %d secant iterations, need at least 1: %w", o.NumIter, ErrInvalidOptions)
	}
	if !(o.Threshold > 0) {
		return fmt.Errorf("trace: threshold %g must be positive: %w", o.Threshold, ErrInvalidOptions)
	}
	if o.Direction != Descent && o.Direction != Ascent {
		return fmt.Errorf("trace: unknown direction %v: %w", o.Direction, ErrInvalidOptions)
	}
	return nil
}

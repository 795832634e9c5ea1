// Package trace finds where rays cross the surface of a scalar field.
//
// SphereTrace marches signed distance fields; SecantRoot scans for a
// level crossing and refines it with the secant method. Both process a
// whole ray bundle in lockstep over the set of still-active rays, with
// one batched field evaluation per iteration, and report a per-ray
// validity mask instead of failing on misses. Only malformed input and
// field errors are returned as errors.
package trace

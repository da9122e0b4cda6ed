package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultHitDirection is used when an attacker and its target share a position.
var DefaultHitDirection = cp.Vector{X: 0, Y: -1}

// Epsilon absorbs float drift in per-tick countdowns.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Approach moves v toward target by at most step without overshooting.
func Approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Direction returns the unit vector from `from` to `to`, falling back to
// DefaultHitDirection when the two points coincide.
func Direction(from, to cp.Vector) cp.Vector {
	return NormalizeOr(to.Sub(from), DefaultHitDirection)
}

// NormalizeOr normalizes v, or returns fallback for a (near) zero vector.
func NormalizeOr(v, fallback cp.Vector) cp.Vector {
	length := v.Length()
	if length <= 1e-6 {
		return fallback
	}
	return v.Mult(1 / length)
}

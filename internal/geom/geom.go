// Package geom holds the scalar and vector interpolation helpers the chart
// combinators are built on. World space is a Cartesian square centered on the
// origin; angles are in degrees, counterclockwise, 0 pointing along +X.
package geom

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Lerp interpolates between a and b without clamping t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InvLerp returns the t for which Lerp(a, b, t) == v. Not clamped.
func InvLerp(a, b, v float64) float64 {
	return (v - a) / (b - a)
}

// Remap maps v from the range [oldA, oldB] onto [newA, newB].
func Remap(oldA, oldB, v, newA, newB float64) float64 {
	return Lerp(newA, newB, InvLerp(oldA, oldB, v))
}

// Clamp limits v to the [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseInExpo is the exponential ease used by slow-build choreography.
func EaseInExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return (math.Pow(2, 10*t) - 1) / (math.Pow(2, 10) - 1)
}

// LerpVec interpolates two points componentwise without clamping t.
func LerpVec(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return mgl64.Vec2{Lerp(a.X(), b.X(), t), Lerp(a.Y(), b.Y(), t)}
}

// CirclePoint samples the point on the circle around center at the given
// radius and angle in degrees.
func CirclePoint(center mgl64.Vec2, radius, angleDeg float64) mgl64.Vec2 {
	rad := angleDeg * math.Pi / 180
	return mgl64.Vec2{
		center.X() + radius*math.Cos(rad),
		center.Y() + radius*math.Sin(rad),
	}
}

// SectorAngles returns count angles evenly stepped across a sector starting
// at startDeg and sweeping sweepDeg. The step is sweep/count so that adjacent
// sectors tile without doubling their shared edge.
func SectorAngles(startDeg, sweepDeg float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	angles := make([]float64, count)
	step := sweepDeg / float64(count)
	for i := range angles {
		angles[i] = startDeg + float64(i)*step
	}
	return angles
}

// RandomGrid picks a uniformly random point inside the [min, max] square,
// snapped to a grid of the given cell count per axis. The caller owns the
// rand source so runs are reproducible.
func RandomGrid(rng *rand.Rand, min, max float64, cells int) mgl64.Vec2 {
	if cells < 1 {
		cells = 1
	}
	step := (max - min) / float64(cells)
	x := min + float64(rng.Intn(cells+1))*step
	y := min + float64(rng.Intn(cells+1))*step
	return mgl64.Vec2{x, y}
}

package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLerpAndInverse(t *testing.T) {
	if got := Lerp(0, 10, 0.25); got != 2.5 {
		t.Fatalf("lerp: expected 2.5, got %v", got)
	}
	if got := Lerp(0, 10, 1.5); got != 15 {
		t.Fatalf("lerp is unclamped: expected 15, got %v", got)
	}
	if got := InvLerp(0, 10, 2.5); got != 0.25 {
		t.Fatalf("inv lerp: expected 0.25, got %v", got)
	}
	if got := Remap(0, 10, 5, 100, 200); got != 150 {
		t.Fatalf("remap: expected 150, got %v", got)
	}
}

func TestEaseInExpoEndpoints(t *testing.T) {
	if got := EaseInExpo(0); got != 0 {
		t.Fatalf("expected 0 at t=0, got %v", got)
	}
	if got := EaseInExpo(1); math.Abs(got-1) > 1e-12 {
		t.Fatalf("expected 1 at t=1, got %v", got)
	}
	if EaseInExpo(0.5) >= 0.5 {
		t.Fatalf("ease-in should lag linear at t=0.5")
	}
}

func TestCirclePoint(t *testing.T) {
	center := mgl64.Vec2{10, 20}
	p := CirclePoint(center, 5, 90)
	if math.Abs(p.X()-10) > 1e-9 || math.Abs(p.Y()-25) > 1e-9 {
		t.Fatalf("expected (10,25), got %v", p)
	}
}

func TestSectorAnglesTile(t *testing.T) {
	angles := SectorAngles(30, 60, 7)
	if len(angles) != 7 {
		t.Fatalf("expected 7 angles, got %d", len(angles))
	}
	if angles[0] != 30 {
		t.Fatalf("expected first angle 30, got %v", angles[0])
	}
	// Step is sweep/count so the next sector's first angle continues the fan.
	step := angles[1] - angles[0]
	last := angles[6]
	if math.Abs((last+step)-90) > 1e-9 {
		t.Fatalf("sector should hand off at 90, got %v", last+step)
	}
}

func TestRandomGridSnapsAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		p := RandomGrid(rng, -50, 50, 10)
		for _, v := range []float64{p.X(), p.Y()} {
			if v < -50 || v > 50 {
				t.Fatalf("out of bounds: %v", p)
			}
			if r := math.Mod(v+50, 10); math.Abs(r) > 1e-9 && math.Abs(r-10) > 1e-9 {
				t.Fatalf("not grid-snapped: %v", p)
			}
		}
	}
}

func TestRandomGridDeterministicPerSeed(t *testing.T) {
	a := rand.New(rand.NewSource(3))
	b := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		if RandomGrid(a, -50, 50, 10) != RandomGrid(b, -50, 50, 10) {
			t.Fatalf("same seed should replay the same points")
		}
	}
}

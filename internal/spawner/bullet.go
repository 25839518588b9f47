// Package spawner holds the parameterized spawn-command factories. Each
// factory is a small parameter struct implementing chart.Spawner; construct
// one, hand it to a compile call, reuse it across sequences. Factories are
// pure apart from the rand source injected into the two random ones.
package spawner

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cbegin/songmap-go/internal/chart"
	"github.com/cbegin/songmap-go/internal/geom"
)

// Axis selects which coordinate a pitch maps onto.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// LerpBullet fires a bullet along a segment that itself slides between two
// segments as the sequence progresses: at percent t the bullet travels from
// lerp(StartA, StartB, t) to lerp(EndA, EndB, t).
type LerpBullet struct {
	StartA, StartB mgl64.Vec2
	EndA, EndB     mgl64.Vec2
}

func (s LerpBullet) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	start := geom.LerpVec(s.StartA, s.StartB, b.Percent)
	end := geom.LerpVec(s.EndA, s.EndB, b.Percent)
	return chart.One(chart.Bullet(chart.AtVec(start), chart.AtVec(end))), nil
}

// PlayerBullet fires at the player from one of two fixed corners, switching
// corner on beat index parity.
type PlayerBullet struct {
	Even, Odd chart.Pos
}

func (s PlayerBullet) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	origin := s.Even
	if b.Index%2 == 1 {
		origin = s.Odd
	}
	return chart.One(chart.Bullet(origin, chart.Player())), nil
}

// CircleBullet starts a bullet on a circle and sends it inward to the
// center. The spawn angle sweeps from From to To degrees across the
// sequence.
type CircleBullet struct {
	Center   mgl64.Vec2
	Radius   float64
	From, To float64
}

func (s CircleBullet) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	angle := geom.Lerp(s.From, s.To, b.Percent)
	start := geom.CirclePoint(s.Center, s.Radius, angle)
	return chart.One(chart.Bullet(chart.AtVec(start), chart.AtVec(s.Center))), nil
}

// PitchBullet maps a note's normalized pitch onto one axis and sweeps the
// bullet across the board along the other: the mapped coordinate is shared
// by both endpoints while the free coordinate runs From -> To.
type PitchBullet struct {
	Axis      Axis
	Low, High float64 // coordinate range the [0,1] pitch maps onto
	From, To  float64 // fixed endpoints on the other axis
}

func (s PitchBullet) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	if !b.HasPitch {
		return chart.Emission{}, fmt.Errorf("pitch bullet: beat %v has no pitch", b.Beat)
	}
	coord := geom.Lerp(s.Low, s.High, b.Pitch)
	var start, end chart.Pos
	if s.Axis == AxisX {
		start, end = chart.At(coord, s.From), chart.At(coord, s.To)
	} else {
		start, end = chart.At(s.From, coord), chart.At(s.To, coord)
	}
	return chart.One(chart.Bullet(start, end)), nil
}

// Static emits the same command on every beat, leaving the beat and group
// stamping to the compiler.
type Static struct {
	Cmd chart.Command
}

func (s Static) Spawn(chart.MarkedBeat) (chart.Emission, error) {
	return chart.One(s.Cmd), nil
}

// GridBomb drops a bomb on a uniformly random grid cell inside a fixed
// square. The beat argument is ignored; every call is an independent sample
// of the injected source.
type GridBomb struct {
	Rand     *rand.Rand
	Min, Max float64
	Cells    int
}

func (s GridBomb) Spawn(chart.MarkedBeat) (chart.Emission, error) {
	p := geom.RandomGrid(s.Rand, s.Min, s.Max, s.Cells)
	return chart.One(chart.Bomb(chart.AtVec(p))), nil
}

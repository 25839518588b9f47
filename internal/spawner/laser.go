package spawner

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cbegin/songmap-go/internal/chart"
	"github.com/cbegin/songmap-go/internal/geom"
)

// LerpLaser fires a through-points laser whose two defining points each
// slide along their own segment as the sequence progresses: at percent t the
// laser passes through lerp(A0, A1, t) and lerp(B0, B1, t).
type LerpLaser struct {
	A0, A1 mgl64.Vec2
	B0, B1 mgl64.Vec2
}

func (s LerpLaser) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	a := geom.LerpVec(s.A0, s.A1, b.Percent)
	bb := geom.LerpVec(s.B0, s.B1, b.Percent)
	return chart.One(chart.LaserThruPoints(chart.AtVec(a), chart.AtVec(bb))), nil
}

// SweepLaser fires from a fixed anchor, its angle sweeping from From to To
// degrees across the sequence.
type SweepLaser struct {
	Anchor   chart.Pos
	From, To float64
}

func (s SweepLaser) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	angle := geom.Lerp(s.From, s.To, b.Percent)
	return chart.One(chart.Laser(s.Anchor, angle)), nil
}

// TripleLaser fires three lasers per beat from one of two mirrored position
// triples, switching side on beat index parity.
type TripleLaser struct {
	Left, Right [3]chart.Pos
	Angles      [3]float64
}

func (s TripleLaser) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	side := s.Left
	if b.Index%2 == 1 {
		side = s.Right
	}
	cmds := make([]chart.Command, 0, 3)
	for i, anchor := range side {
		cmds = append(cmds, chart.Laser(anchor, s.Angles[i]))
	}
	return chart.Many(cmds...), nil
}

// DiamondLaser cycles the four vertices of a diamond, each beat connecting
// vertex step*i mod 4 to vertex step*(i+1) mod 4 with a through-points
// laser. Step is +1 or -1 by the Clockwise flag, so consecutive beats always
// advance by exactly one vertex.
type DiamondLaser struct {
	Vertices  [4]chart.Pos
	Clockwise bool
}

func (s DiamondLaser) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	step := 1
	if s.Clockwise {
		step = -1
	}
	i := b.Index - 1
	a := s.Vertices[mod4(step*i)]
	bb := s.Vertices[mod4(step*(i+1))]
	return chart.One(chart.LaserThruPoints(a, bb)), nil
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}

// PitchLaser arms one laser per note, anchored by the note's normalized
// pitch, all converging on a single absolute firing instant: every command
// pins its beat to FireAt and carries warmup = FireAt - note beat, so
// earlier notes arm longer.
type PitchLaser struct {
	Axis      Axis
	Low, High float64 // coordinate range the [0,1] pitch maps onto
	Fixed     float64 // the other coordinate of the anchor
	Angle     float64
	FireAt    float64
}

func (s PitchLaser) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	if !b.HasPitch {
		return chart.Emission{}, fmt.Errorf("pitch laser: beat %v has no pitch", b.Beat)
	}
	coord := geom.Lerp(s.Low, s.High, b.Pitch)
	anchor := chart.At(coord, s.Fixed)
	if s.Axis == AxisY {
		anchor = chart.At(s.Fixed, coord)
	}
	cmd := chart.Laser(anchor, s.Angle)
	cmd.Warmup = s.FireAt - b.Beat
	return chart.One(cmd.WithBeat(s.FireAt)), nil
}

package spawner

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cbegin/songmap-go/internal/chart"
	"github.com/cbegin/songmap-go/internal/geom"
)

// Bullets per 60 degree sector of a sector-attack ring; six sectors tile the
// full circle, 42 bullets per arm.
const (
	sectorSweep   = 60.0
	sectorBullets = 7
	ringSectors   = 6
)

// SectorAttack choreographs a multi-arm spinning barrage synchronized to a
// chord or run, compiled over a grouped sequence. The first note of each
// group builds every arm at once: per arm, a timed rotation-on/off pair and
// a full ring of bullets around Center, all tagged with a synthetic enemy
// group derived from the running total index so each arm can be steered
// alone. Arms share one random base angle per group and fan out by 180
// degrees for two-note groups, 120 for three, 0 otherwise; every arm but the
// first starts hidden. Each later note of the group then reveals the arm
// matching its own total index, one render-on per note.
type SectorAttack struct {
	Rand          *rand.Rand
	Center        mgl64.Vec2
	Radius        float64
	RotationBeats float64
	GroupBase     int
}

func (s SectorAttack) Spawn(b chart.MarkedBeat) (chart.Emission, error) {
	arms := b.GroupLen
	if arms < 1 {
		arms = 1
	}
	if b.GroupPos != 0 {
		// b.Index here equals the first note's index plus this note's arm
		// number, so the synthetic id lands on the matching arm.
		return chart.One(chart.Render(true).WithGroup(s.GroupBase + b.Index)), nil
	}

	base := s.Rand.Float64() * 360
	gap := 0.0
	switch arms {
	case 2:
		gap = 180
	case 3:
		gap = 120
	}

	var cmds []chart.Command
	for arm := 0; arm < arms; arm++ {
		gid := s.GroupBase + b.Index + arm
		spin := 360.0
		if arm%2 == 1 {
			spin = -360
		}
		cmds = append(cmds,
			chart.RotationOn(chart.AtVec(s.Center), 0, spin, s.RotationBeats).WithGroup(gid),
			chart.RotationOff().WithBeat(b.Beat+s.RotationBeats).WithGroup(gid),
		)
		armBase := base + float64(arm)*gap
		for sector := 0; sector < ringSectors; sector++ {
			for _, angle := range geom.SectorAngles(armBase+float64(sector)*sectorSweep, sectorSweep, sectorBullets) {
				start := geom.CirclePoint(s.Center, s.Radius, angle)
				cmds = append(cmds, chart.Bullet(chart.AtVec(start), chart.AtVec(s.Center)).WithGroup(gid))
			}
		}
		if arm != 0 {
			cmds = append(cmds, chart.Render(false).WithGroup(gid))
		}
	}
	return chart.Many(cmds...), nil
}

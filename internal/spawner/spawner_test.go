package spawner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cbegin/songmap-go/internal/chart"
)

func one(t *testing.T, sp chart.Spawner, b chart.MarkedBeat) chart.Command {
	t.Helper()
	em, err := sp.Spawn(b)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	cmds := em.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(cmds))
	}
	return cmds[0]
}

func TestLerpBulletInterpolatesBothEndpoints(t *testing.T) {
	sp := LerpBullet{
		StartA: mgl64.Vec2{-50, -50}, StartB: mgl64.Vec2{50, -50},
		EndA: mgl64.Vec2{0, 0}, EndB: mgl64.Vec2{0, 50},
	}
	cmd := one(t, sp, chart.MarkedBeat{Percent: 0.5})
	if cmd.Kind != chart.CmdBullet {
		t.Fatalf("expected a bullet, got %v", cmd.Kind)
	}
	if cmd.Start.Point != (mgl64.Vec2{0, -50}) || cmd.End.Point != (mgl64.Vec2{0, 25}) {
		t.Fatalf("unexpected segment: %v -> %v", cmd.Start.Point, cmd.End.Point)
	}
	if cmd.HasBeat || cmd.HasGroup {
		t.Fatalf("factory must leave stamping to the compiler")
	}
}

func TestPlayerBulletAlternatesByParity(t *testing.T) {
	even, odd := chart.At(-50, 50), chart.At(50, 50)
	sp := PlayerBullet{Even: even, Odd: odd}
	for i := 1; i <= 6; i++ {
		cmd := one(t, sp, chart.MarkedBeat{Index: i})
		want := even
		if i%2 == 1 {
			want = odd
		}
		if cmd.Start != want {
			t.Fatalf("index %d: expected origin %v, got %v", i, want, cmd.Start)
		}
		if cmd.End.Kind != chart.PosPlayer {
			t.Fatalf("target must be the player token")
		}
	}
}

func TestCircleBulletStartsOnCircleEndsAtCenter(t *testing.T) {
	center := mgl64.Vec2{10, 0}
	sp := CircleBullet{Center: center, Radius: 20, From: 0, To: 180}
	cmd := one(t, sp, chart.MarkedBeat{Percent: 0.5}) // angle 90
	if math.Abs(cmd.Start.Point.X()-10) > 1e-9 || math.Abs(cmd.Start.Point.Y()-20) > 1e-9 {
		t.Fatalf("expected start (10,20), got %v", cmd.Start.Point)
	}
	if cmd.End.Point != center {
		t.Fatalf("expected inward bullet, got end %v", cmd.End.Point)
	}
}

func TestPitchBulletMapsPitchToAxis(t *testing.T) {
	sp := PitchBullet{Axis: AxisX, Low: -40, High: 40, From: 60, To: -60}
	b := chart.MarkedBeat{Pitch: 0.75, HasPitch: true}
	cmd := one(t, sp, b)
	if cmd.Start.Point.X() != 20 || cmd.End.Point.X() != 20 {
		t.Fatalf("expected x=20 on both endpoints, got %v and %v", cmd.Start.Point, cmd.End.Point)
	}
	if cmd.Start.Point.Y() != 60 || cmd.End.Point.Y() != -60 {
		t.Fatalf("free axis should sweep 60 -> -60, got %v and %v", cmd.Start.Point, cmd.End.Point)
	}
	if _, err := sp.Spawn(chart.MarkedBeat{}); err == nil {
		t.Fatalf("expected an error for a pitchless beat")
	}
}

func TestGridBombSeededAndIgnoresBeat(t *testing.T) {
	a := GridBomb{Rand: rand.New(rand.NewSource(11)), Min: -50, Max: 50, Cells: 10}
	b := GridBomb{Rand: rand.New(rand.NewSource(11)), Min: -50, Max: 50, Cells: 10}
	for i := 0; i < 10; i++ {
		ca := one(t, a, chart.MarkedBeat{Beat: float64(i)})
		cb := one(t, b, chart.MarkedBeat{Beat: 1000 + float64(i)})
		if ca.Start.Point != cb.Start.Point {
			t.Fatalf("same seed must replay the same drops regardless of beats")
		}
		if ca.Kind != chart.CmdBomb {
			t.Fatalf("expected a bomb, got %v", ca.Kind)
		}
	}
}

func TestSweepLaserAngleFollowsPercent(t *testing.T) {
	sp := SweepLaser{Anchor: chart.At(0, 0), From: -30, To: 30}
	if got := one(t, sp, chart.MarkedBeat{Percent: 0.5}).Angle; got != 0 {
		t.Fatalf("expected angle 0 at midpoint, got %v", got)
	}
	if got := one(t, sp, chart.MarkedBeat{Percent: 1}).Angle; got != 30 {
		t.Fatalf("expected angle 30 at end, got %v", got)
	}
}

func TestTripleLaserAlternatesSides(t *testing.T) {
	left := [3]chart.Pos{chart.At(-50, -20), chart.At(-50, 0), chart.At(-50, 20)}
	right := [3]chart.Pos{chart.At(50, -20), chart.At(50, 0), chart.At(50, 20)}
	sp := TripleLaser{Left: left, Right: right, Angles: [3]float64{0, 0, 0}}
	em, err := sp.Spawn(chart.MarkedBeat{Index: 2})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	cmds := em.Commands()
	if len(cmds) != 3 {
		t.Fatalf("expected three lasers, got %d", len(cmds))
	}
	for i, c := range cmds {
		if c.Start != left[i] {
			t.Fatalf("even index should use the left side, got %v", c.Start)
		}
	}
	em, _ = sp.Spawn(chart.MarkedBeat{Index: 3})
	if em.Commands()[0].Start != right[0] {
		t.Fatalf("odd index should use the right side")
	}
}

// Consecutive beats must always reference vertices exactly one step apart
// mod 4, in either direction.
func TestDiamondLaserAdvancesOneVertexPerBeat(t *testing.T) {
	verts := [4]chart.Pos{chart.At(0, 50), chart.At(50, 0), chart.At(0, -50), chart.At(-50, 0)}
	for _, clockwise := range []bool{false, true} {
		sp := DiamondLaser{Vertices: verts, Clockwise: clockwise}
		vertIndex := func(p chart.Pos) int {
			for i, v := range verts {
				if v == p {
					return i
				}
			}
			t.Fatalf("laser endpoint %v is not a vertex", p)
			return -1
		}
		prev := -1
		for i := 1; i <= 9; i++ {
			cmd := one(t, sp, chart.MarkedBeat{Index: i})
			a, b := vertIndex(cmd.A), vertIndex(cmd.B)
			if (a+1)%4 != b && (a+3)%4 != b {
				t.Fatalf("clockwise=%v index %d: endpoints %d and %d are not adjacent", clockwise, i, a, b)
			}
			if prev >= 0 && (prev+1)%4 != a && (prev+3)%4 != a {
				t.Fatalf("clockwise=%v index %d: start vertex jumped %d -> %d", clockwise, i, prev, a)
			}
			prev = a
		}
	}
}

func TestPitchLaserConvergesOnFiringInstant(t *testing.T) {
	sp := PitchLaser{Axis: AxisX, Low: -40, High: 40, Fixed: -50, Angle: 90, FireAt: 64}
	early := one(t, sp, chart.MarkedBeat{Beat: 60, Pitch: 0, HasPitch: true})
	late := one(t, sp, chart.MarkedBeat{Beat: 63, Pitch: 1, HasPitch: true})
	if !early.HasBeat || early.Beat != 64 || late.Beat != 64 {
		t.Fatalf("all lasers must pin the shared firing beat")
	}
	if early.Warmup != 4 || late.Warmup != 1 {
		t.Fatalf("warmup must be fire time minus note beat, got %v and %v", early.Warmup, late.Warmup)
	}
	if early.Start.Point.X() != -40 || late.Start.Point.X() != 40 {
		t.Fatalf("anchors should span the pitch range, got %v and %v", early.Start.Point, late.Start.Point)
	}
}

func TestSectorAttackFirstNoteBuildsAllArms(t *testing.T) {
	sp := SectorAttack{
		Rand:          rand.New(rand.NewSource(5)),
		Center:        mgl64.Vec2{0, 0},
		Radius:        50,
		RotationBeats: 8,
		GroupBase:     100,
	}
	first := chart.MarkedBeat{Beat: 16, Index: 4, GroupPos: 0, GroupLen: 3}
	em, err := sp.Spawn(first)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	cmds := em.Commands()
	// Per arm: rotation on+off, 42 ring bullets; arms beyond the first add a
	// hide. Three arms: 3*44 + 2.
	if len(cmds) != 3*44+2 {
		t.Fatalf("expected %d commands, got %d", 3*44+2, len(cmds))
	}

	perGroup := map[int][]chart.Command{}
	for _, c := range cmds {
		if !c.HasGroup {
			t.Fatalf("every sector command carries a synthetic group: %+v", c)
		}
		perGroup[c.Group] = append(perGroup[c.Group], c)
	}
	if len(perGroup) != 3 {
		t.Fatalf("expected 3 synthetic groups, got %d", len(perGroup))
	}
	for _, gid := range []int{104, 105, 106} {
		arm := perGroup[gid]
		if arm == nil {
			t.Fatalf("missing synthetic group %d", gid)
		}
		var bullets, rotOn, rotOff, hides int
		for _, c := range arm {
			switch c.Kind {
			case chart.CmdBullet:
				bullets++
				if d := c.Start.Point.Len(); math.Abs(d-50) > 1e-9 {
					t.Fatalf("group %d: bullet not on the ring (r=%v)", gid, d)
				}
			case chart.CmdRotationOn:
				rotOn++
			case chart.CmdRotationOff:
				rotOff++
				if !c.HasBeat || c.Beat != 24 {
					t.Fatalf("group %d: rotation-off should land at 24, got %+v", gid, c)
				}
			case chart.CmdRender:
				hides++
				if c.On {
					t.Fatalf("group %d: first-note renders must hide", gid)
				}
			}
		}
		if bullets != 42 || rotOn != 1 || rotOff != 1 {
			t.Fatalf("group %d: got %d bullets, %d on, %d off", gid, bullets, rotOn, rotOff)
		}
		if (gid == 104 && hides != 0) || (gid != 104 && hides != 1) {
			t.Fatalf("group %d: unexpected hide count %d", gid, hides)
		}
	}
}

func TestSectorAttackLaterNotesRevealTheirArm(t *testing.T) {
	sp := SectorAttack{Rand: rand.New(rand.NewSource(5)), Radius: 50, GroupBase: 100}
	second := chart.MarkedBeat{Beat: 16.1, Index: 5, GroupPos: 1, GroupLen: 3}
	em, err := sp.Spawn(second)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	cmds := em.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected a single reveal, got %d commands", len(cmds))
	}
	if cmds[0].Kind != chart.CmdRender || !cmds[0].On || cmds[0].Group != 105 {
		t.Fatalf("expected render-on for group 105, got %+v", cmds[0])
	}
}

func TestSectorAttackArmsShareBaseOffset(t *testing.T) {
	mk := func(seed int64) []chart.Command {
		sp := SectorAttack{Rand: rand.New(rand.NewSource(seed)), Radius: 50, RotationBeats: 8, GroupBase: 100}
		em, err := sp.Spawn(chart.MarkedBeat{Index: 1, GroupPos: 0, GroupLen: 2})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
		return em.Commands()
	}
	cmds := mk(9)
	var first, second []mgl64.Vec2
	for _, c := range cmds {
		if c.Kind != chart.CmdBullet {
			continue
		}
		if c.Group == 101 {
			first = append(first, c.Start.Point)
		} else {
			second = append(second, c.Start.Point)
		}
	}
	if len(first) != 42 || len(second) != 42 {
		t.Fatalf("expected 42 bullets per arm, got %d and %d", len(first), len(second))
	}
	// Two arms sit 180 degrees apart: the second arm is the first mirrored
	// through the center.
	for i := range first {
		if math.Abs(first[i].X()+second[i].X()) > 1e-9 || math.Abs(first[i].Y()+second[i].Y()) > 1e-9 {
			t.Fatalf("bullet %d: %v and %v are not opposed", i, first[i], second[i])
		}
	}
	// Same seed, same ring.
	again := mk(9)
	for i := range cmds {
		if cmds[i].Kind == chart.CmdBullet && cmds[i].Start.Point != again[i].Start.Point {
			t.Fatalf("same seed must reproduce the same base offset")
		}
	}
}

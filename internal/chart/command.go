package chart

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// CommandKind identifies a songmap command.
type CommandKind int

const (
	CmdBullet CommandKind = iota + 1
	CmdLaser       // anchored at a point, aimed by angle
	CmdLaserPoints // through two points
	CmdBomb
	CmdRotationOn
	CmdRotationOff
	CmdRender
	CmdFadeoutOn
	CmdFadeoutOff
	CmdHitbox
	CmdClearEnemies
	CmdBPM
	CmdSkip
)

var commandKindNames = map[CommandKind]string{
	CmdBullet:       "bullet",
	CmdLaser:        "laser",
	CmdLaserPoints:  "laser_points",
	CmdBomb:         "bomb",
	CmdRotationOn:   "set_rotation_on",
	CmdRotationOff:  "set_rotation_off",
	CmdRender:       "set_render",
	CmdFadeoutOn:    "set_fadeout_on",
	CmdFadeoutOff:   "set_fadeout_off",
	CmdHitbox:       "set_hitbox",
	CmdClearEnemies: "clear_enemies",
	CmdBPM:          "bpm",
	CmdSkip:         "skip",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// PosKind separates literal world points from tokens the consumer resolves
// at render time.
type PosKind int

const (
	PosWorld PosKind = iota
	PosPlayer
)

// Pos is a position a command spawns at: either a literal world-space point
// or the symbolic player position.
type Pos struct {
	Kind  PosKind
	Point mgl64.Vec2
}

// At places a command at a literal world point.
func At(x, y float64) Pos {
	return Pos{Kind: PosWorld, Point: mgl64.Vec2{x, y}}
}

// AtVec places a command at a literal world point.
func AtVec(p mgl64.Vec2) Pos {
	return Pos{Kind: PosWorld, Point: p}
}

// Player is the symbolic player position.
func Player() Pos {
	return Pos{Kind: PosPlayer}
}

// Origin is the center of the world square.
func Origin() Pos {
	return Pos{Kind: PosWorld}
}

// Command is one entry of the songmap. Kind selects which of the payload
// fields are meaningful, the way an mml event carries only the fields its
// type uses. Beat and Group are the two fields every command shares; the
// compiler stamps them from the marked beat and the session register unless
// the spawner already set them (HasBeat/HasGroup track that).
type Command struct {
	Kind CommandKind

	Beat     float64
	HasBeat  bool
	Group    int
	HasGroup bool

	// Bullet: travels Start -> End. Laser (angle form): anchored at Start,
	// aimed by Angle, arming Warmup beats before Beat. Laser (point form):
	// through A and B. Bomb: detonates at Start. Rotation: spins Group
	// around Start from StartAngle to EndAngle over Duration beats.
	Start      Pos
	End        Pos
	A          Pos
	B          Pos
	Angle      float64
	Warmup     float64
	StartAngle float64
	EndAngle   float64
	Duration   float64

	// Render / hitbox toggle.
	On bool

	// Config payload (bpm, skip).
	Value float64
}

// WithBeat pins the command to an absolute beat, opting out of the
// compiler's beat stamping.
func (c Command) WithBeat(beat float64) Command {
	c.Beat = beat
	c.HasBeat = true
	return c
}

// WithGroup pins the command to an enemy group, opting out of the session
// register.
func (c Command) WithGroup(group int) Command {
	c.Group = group
	c.HasGroup = true
	return c
}

func Bullet(start, end Pos) Command {
	return Command{Kind: CmdBullet, Start: start, End: end}
}

func Laser(anchor Pos, angle float64) Command {
	return Command{Kind: CmdLaser, Start: anchor, Angle: angle}
}

func LaserThruPoints(a, b Pos) Command {
	return Command{Kind: CmdLaserPoints, A: a, B: b}
}

func Bomb(at Pos) Command {
	return Command{Kind: CmdBomb, Start: at}
}

func RotationOn(center Pos, startAngle, endAngle, duration float64) Command {
	return Command{Kind: CmdRotationOn, Start: center, StartAngle: startAngle, EndAngle: endAngle, Duration: duration}
}

func RotationOff() Command {
	return Command{Kind: CmdRotationOff}
}

func Render(on bool) Command {
	return Command{Kind: CmdRender, On: on}
}

func FadeoutOn() Command {
	return Command{Kind: CmdFadeoutOn}
}

func FadeoutOff() Command {
	return Command{Kind: CmdFadeoutOff}
}

func Hitbox(on bool) Command {
	return Command{Kind: CmdHitbox, On: on}
}

func ClearEnemies() Command {
	return Command{Kind: CmdClearEnemies}
}

// Emission is a spawner's result: explicitly one command or explicitly many.
// The compiler never guesses from the shape of a return value.
type Emission struct {
	cmds []Command
}

// One wraps a single command.
func One(c Command) Emission {
	return Emission{cmds: []Command{c}}
}

// Many wraps an ordered list of commands. An empty list is a valid emission
// that appends nothing.
func Many(cmds ...Command) Emission {
	return Emission{cmds: cmds}
}

// Commands returns the emitted commands in order.
func (e Emission) Commands() []Command {
	return e.cmds
}

// Spawner maps one marked beat to its commands. Implementations are pure
// apart from an injected rand source; any error aborts the compile call that
// invoked it.
type Spawner interface {
	Spawn(b MarkedBeat) (Emission, error)
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(b MarkedBeat) (Emission, error)

func (f SpawnerFunc) Spawn(b MarkedBeat) (Emission, error) {
	return f(b)
}

package chart

// Songmap is the ordered output of a chart: every spawn and control command
// for one level, in the order the authoring calls produced them. Append-only
// and never reordered; the absolute Beat on each command is the consumer's
// schedule key, insertion order only preserves authoring traceability.
type Songmap struct {
	cmds []Command
}

// New opens a songmap with its tempo and lead-in-skip configuration
// commands at beat zero.
func New(bpm, skip float64) *Songmap {
	m := &Songmap{}
	m.Append(
		Command{Kind: CmdBPM, Value: bpm, HasBeat: true, HasGroup: true},
		Command{Kind: CmdSkip, Value: skip, HasBeat: true, HasGroup: true},
	)
	return m
}

// Append adds commands in order.
func (m *Songmap) Append(cmds ...Command) {
	m.cmds = append(m.cmds, cmds...)
}

// Commands returns the accumulated commands in insertion order.
func (m *Songmap) Commands() []Command {
	return m.cmds
}

// Len returns the number of accumulated commands.
func (m *Songmap) Len() int {
	return len(m.cmds)
}

// FadeoutClear appends the five-command fade-out-then-clear transition for
// one enemy group: fade on and hitboxes off at beat, then fade off, hitboxes
// on, and a clear at beat+fadeDuration. The clear destroys everything in the
// group, including commands another call scheduled into the window
// (beat, beat+fadeDuration]; that hazard is part of the contract, the macro
// does not try to detect it.
func (m *Songmap) FadeoutClear(beat float64, group int, fadeDuration float64) {
	m.Append(
		FadeoutOn().WithBeat(beat).WithGroup(group),
		Hitbox(false).WithBeat(beat).WithGroup(group),
		FadeoutOff().WithBeat(beat+fadeDuration).WithGroup(group),
		Hitbox(true).WithBeat(beat+fadeDuration).WithGroup(group),
		ClearEnemies().WithBeat(beat+fadeDuration).WithGroup(group),
	)
}

// RotationPair appends a rotation-on for the group and the matching
// rotation-off at start+duration.
func (m *Songmap) RotationPair(start, duration float64, group int, center Pos, startAngle, endAngle float64) {
	m.Append(
		RotationOn(center, startAngle, endAngle, duration).WithBeat(start).WithGroup(group),
		RotationOff().WithBeat(start+duration).WithGroup(group),
	)
}

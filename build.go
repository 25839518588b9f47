package songmap

import (
	"math/rand"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/cbegin/songmap-go/internal/chart"
	"github.com/cbegin/songmap-go/internal/midi"
	"github.com/cbegin/songmap-go/internal/script"
	"github.com/cbegin/songmap-go/internal/spawner"
)

// Grid bomb bounds, the world-space square the game plays in.
const (
	gridMin   = -50.0
	gridMax   = 50.0
	gridCells = 10
)

// builder executes a parsed chart script: a declaration pass collects tempo,
// skip, positions and midibeats, then the compile pass drives every spawn
// statement through the session into one songmap.
type builder struct {
	cfg       config
	rng       *rand.Rand
	bpm       float64
	skip      float64
	positions map[string]chart.Pos
	beats     map[string][]chart.MarkedBeat
	groups    map[string][][]chart.MarkedBeat
}

func (b *builder) build(src string) (*chart.Songmap, error) {
	stmts, err := script.Parse(src)
	if err != nil {
		return nil, err
	}

	b.bpm = defaultBPM
	for _, st := range stmts {
		switch st.Kind {
		case script.StmtBPM:
			b.bpm = st.Value
		case script.StmtSkip:
			b.skip = st.Value
		}
	}
	for _, st := range stmts {
		if err := b.declare(st); err != nil {
			return nil, err
		}
	}

	m := chart.New(b.bpm, b.skip)
	session := chart.NewSession(m)
	for _, st := range stmts {
		switch st.Kind {
		case script.StmtGroup:
			session = session.WithGroup(int(st.Value))
		case script.StmtSpawn:
			if err := b.spawn(session, st); err != nil {
				return nil, err
			}
		case script.StmtFadeout:
			if err := b.fadeout(m, st); err != nil {
				return nil, err
			}
		case script.StmtRotate:
			if err := b.rotate(m, st); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (b *builder) declare(st script.Stmt) error {
	switch st.Kind {
	case script.StmtPosition:
		if _, dup := b.positions[st.Name]; dup {
			return errors.Errorf("line %d: position %q redefined", st.Line, st.Name)
		}
		b.positions[st.Name] = chart.At(st.X, st.Y)
	case script.StmtMidibeat:
		if _, dup := b.beats[st.Name]; dup {
			return errors.Errorf("line %d: midibeat %q redefined", st.Line, st.Name)
		}
		path := st.Path
		if b.cfg.baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(b.cfg.baseDir, path)
		}
		beats, err := midi.Import(path, b.bpm)
		if err != nil {
			return errors.Wrapf(err, "line %d", st.Line)
		}
		groups, err := midi.ImportGrouped(path, b.bpm, b.cfg.groupWindow)
		if err != nil {
			return errors.Wrapf(err, "line %d", st.Line)
		}
		b.beats[st.Name] = beats
		b.groups[st.Name] = groups
	}
	return nil
}

func (b *builder) spawn(session chart.Session, st script.Stmt) error {
	kw := script.IndexKwargs(st.Kwargs)
	enemy, ok := kw.Str("enemy")
	if !ok {
		return errors.Errorf("line %d: spawn needs enemy=", st.Line)
	}
	if g, found := kw.Float("group"); found {
		session = session.WithGroup(int(g))
	}
	sp, grouped, wantsPitch, err := b.makeSpawner(enemy, kw, st.Line)
	if err != nil {
		return err
	}

	if name, found := kw.Str("midibeat"); found {
		start, ok := kw.Float("start")
		if !ok {
			return errors.Errorf("line %d: midibeat timing needs start=", st.Line)
		}
		if _, known := b.beats[name]; !known {
			return errors.Errorf("line %d: unknown midibeat %q", st.Line, name)
		}
		if grouped {
			shifted := make([][]chart.MarkedBeat, len(b.groups[name]))
			for i, g := range b.groups[name] {
				shifted[i] = chart.Shift(g, start)
			}
			return errors.Wrapf(session.CompileGrouped(shifted, sp), "line %d", st.Line)
		}
		seq := chart.Shift(b.beats[name], start)
		if wantsPitch {
			seq = chart.NormalizePitch(seq)
		}
		return errors.Wrapf(session.Compile(seq, sp), "line %d", st.Line)
	}

	if grouped || wantsPitch {
		return errors.Errorf("line %d: enemy=%s needs midibeat timing", st.Line, enemy)
	}
	start, okStart := kw.Float("start")
	freq, okFreq := kw.Float("freq")
	if !okStart || !okFreq {
		return errors.Errorf("line %d: splitter timing needs start= and freq=", st.Line)
	}
	splitter := chart.Splitter{
		Start:     start,
		Frequency: freq,
		Duration:  kw.FloatOr("duration", 16),
		Offset:    kw.FloatOr("offset", 0),
		Delay:     kw.FloatOr("delay", 0),
	}
	seq, err := splitter.Split()
	if err != nil {
		return errors.Wrapf(err, "line %d", st.Line)
	}
	return errors.Wrapf(session.Compile(seq, sp), "line %d", st.Line)
}

func (b *builder) makeSpawner(enemy string, kw script.Kwargs, line int) (sp chart.Spawner, grouped, wantsPitch bool, err error) {
	switch enemy {
	case "bullet":
		quad, qerr := b.lerpQuad(kw, line)
		if qerr != nil {
			return nil, false, false, qerr
		}
		return spawner.LerpBullet{StartA: quad[0], EndA: quad[1], StartB: quad[2], EndB: quad[3]}, false, false, nil
	case "laser":
		quad, qerr := b.lerpQuad(kw, line)
		if qerr != nil {
			return nil, false, false, qerr
		}
		return spawner.LerpLaser{A0: quad[0], B0: quad[1], A1: quad[2], B1: quad[3]}, false, false, nil
	case "bulletplayer":
		pair, perr := b.posList(kw, "corners", 2, line)
		if perr != nil {
			return nil, false, false, perr
		}
		return spawner.PlayerBullet{Even: pair[0], Odd: pair[1]}, false, false, nil
	case "bomb":
		if at, ok := kw.Str("at"); ok && at == "grid" {
			return spawner.GridBomb{Rand: b.rng, Min: gridMin, Max: gridMax, Cells: gridCells}, false, false, nil
		}
		v, ok := kw["at"]
		if !ok {
			return nil, false, false, errors.Errorf("line %d: bomb needs at=", line)
		}
		pos, perr := b.lookupPos(v, line)
		if perr != nil {
			return nil, false, false, perr
		}
		return spawner.Static{Cmd: chart.Bomb(pos)}, false, false, nil
	case "sweeplaser":
		anchor, perr := b.kwargPos(kw, "anchor", line)
		if perr != nil {
			return nil, false, false, perr
		}
		from, to, ferr := b.floatPairKwargs(kw, "from", "to", line)
		if ferr != nil {
			return nil, false, false, ferr
		}
		return spawner.SweepLaser{Anchor: anchor, From: from, To: to}, false, false, nil
	case "circlebullet":
		center, perr := b.kwargPoint(kw, "center", line)
		if perr != nil {
			return nil, false, false, perr
		}
		radius, ok := kw.Float("radius")
		if !ok {
			return nil, false, false, errors.Errorf("line %d: circlebullet needs radius=", line)
		}
		from, to, ferr := b.floatPairKwargs(kw, "from", "to", line)
		if ferr != nil {
			return nil, false, false, ferr
		}
		return spawner.CircleBullet{Center: center, Radius: radius, From: from, To: to}, false, false, nil
	case "triplelaser":
		left, lerr := b.posList(kw, "left", 3, line)
		if lerr != nil {
			return nil, false, false, lerr
		}
		right, rerr := b.posList(kw, "right", 3, line)
		if rerr != nil {
			return nil, false, false, rerr
		}
		angles, aerr := b.floatList(kw, "angles", 3, line)
		if aerr != nil {
			return nil, false, false, aerr
		}
		return spawner.TripleLaser{
			Left:   [3]chart.Pos{left[0], left[1], left[2]},
			Right:  [3]chart.Pos{right[0], right[1], right[2]},
			Angles: [3]float64{angles[0], angles[1], angles[2]},
		}, false, false, nil
	case "diamondlaser":
		verts, verr := b.posList(kw, "vertices", 4, line)
		if verr != nil {
			return nil, false, false, verr
		}
		return spawner.DiamondLaser{
			Vertices:  [4]chart.Pos{verts[0], verts[1], verts[2], verts[3]},
			Clockwise: kw.FloatOr("clockwise", 0) != 0,
		}, false, false, nil
	case "pitchbullet":
		axis, aerr := parseAxis(kw, line)
		if aerr != nil {
			return nil, false, false, aerr
		}
		low, high, lerr := b.floatPairKwargs(kw, "low", "high", line)
		if lerr != nil {
			return nil, false, false, lerr
		}
		from, to, ferr := b.floatPairKwargs(kw, "from", "to", line)
		if ferr != nil {
			return nil, false, false, ferr
		}
		return spawner.PitchBullet{Axis: axis, Low: low, High: high, From: from, To: to}, false, true, nil
	case "pitchlaser":
		axis, aerr := parseAxis(kw, line)
		if aerr != nil {
			return nil, false, false, aerr
		}
		low, high, lerr := b.floatPairKwargs(kw, "low", "high", line)
		if lerr != nil {
			return nil, false, false, lerr
		}
		fireAt, ok := kw.Float("fireat")
		if !ok {
			return nil, false, false, errors.Errorf("line %d: pitchlaser needs fireat=", line)
		}
		return spawner.PitchLaser{
			Axis:   axis,
			Low:    low,
			High:   high,
			Fixed:  kw.FloatOr("fixed", 0),
			Angle:  kw.FloatOr("angle", 90),
			FireAt: fireAt,
		}, false, true, nil
	case "sector":
		center, perr := b.kwargPoint(kw, "center", line)
		if perr != nil {
			return nil, false, false, perr
		}
		radius, ok := kw.Float("radius")
		if !ok {
			return nil, false, false, errors.Errorf("line %d: sector needs radius=", line)
		}
		return spawner.SectorAttack{
			Rand:          b.rng,
			Center:        center,
			Radius:        radius,
			RotationBeats: kw.FloatOr("rotation", 8),
			GroupBase:     int(kw.FloatOr("groupbase", 100)),
		}, true, false, nil
	default:
		return nil, false, false, errors.Errorf("line %d: unknown enemy type %q", line, enemy)
	}
}

func (b *builder) fadeout(m *chart.Songmap, st script.Stmt) error {
	kw := script.IndexKwargs(st.Kwargs)
	t, okT := kw.Float("t")
	group, okG := kw.Float("group")
	fade, okF := kw.Float("fade")
	if !okT || !okG || !okF {
		return errors.Errorf("line %d: fadeout needs t=, group= and fade=", st.Line)
	}
	m.FadeoutClear(t, int(group), fade)
	return nil
}

func (b *builder) rotate(m *chart.Songmap, st script.Stmt) error {
	kw := script.IndexKwargs(st.Kwargs)
	start, okS := kw.Float("start")
	duration, okD := kw.Float("duration")
	group, okG := kw.Float("group")
	if !okS || !okD || !okG {
		return errors.Errorf("line %d: rotate needs start=, duration= and group=", st.Line)
	}
	center := chart.Origin()
	if v, ok := kw["center"]; ok {
		pos, err := b.lookupPos(v, st.Line)
		if err != nil {
			return err
		}
		center = pos
	}
	m.RotationPair(start, duration, int(group), center, kw.FloatOr("from", 0), kw.FloatOr("to", 360))
	return nil
}

// lookupPos resolves a script value to a position: a two-float tuple is a
// literal point, "player" is the symbolic player position, anything else is
// a name declared by a position statement.
func (b *builder) lookupPos(v script.Value, line int) (chart.Pos, error) {
	switch v.Kind {
	case script.ValTuple:
		x, y, ok := v.FloatPair()
		if !ok {
			return chart.Pos{}, errors.Errorf("line %d: expected a tuple of two floats, got %s", line, v)
		}
		return chart.At(x, y), nil
	case script.ValString:
		if v.Str == "player" {
			return chart.Player(), nil
		}
		pos, ok := b.positions[v.Str]
		if !ok {
			return chart.Pos{}, errors.Errorf("line %d: unknown position %q", line, v.Str)
		}
		return pos, nil
	default:
		return chart.Pos{}, errors.Errorf("line %d: expected a position, got %s", line, v)
	}
}

// worldPoint is lookupPos restricted to literal points; lerped spawners
// cannot interpolate toward the symbolic player position.
func (b *builder) worldPoint(v script.Value, line int) (mgl64.Vec2, error) {
	pos, err := b.lookupPos(v, line)
	if err != nil {
		return mgl64.Vec2{}, err
	}
	if pos.Kind != chart.PosWorld {
		return mgl64.Vec2{}, errors.Errorf("line %d: %s is not a fixed point", line, v)
	}
	return pos.Point, nil
}

func (b *builder) lerpQuad(kw script.Kwargs, line int) ([4]mgl64.Vec2, error) {
	var quad [4]mgl64.Vec2
	tuple, ok := kw.Tuple("lerps")
	if !ok || len(tuple) != 4 {
		return quad, errors.Errorf("line %d: needs lerps=(startA, endA, startB, endB)", line)
	}
	for i, v := range tuple {
		p, err := b.worldPoint(v, line)
		if err != nil {
			return quad, err
		}
		quad[i] = p
	}
	return quad, nil
}

func (b *builder) posList(kw script.Kwargs, key string, n int, line int) ([]chart.Pos, error) {
	tuple, ok := kw.Tuple(key)
	if !ok || len(tuple) != n {
		return nil, errors.Errorf("line %d: needs %s= tuple of %d positions", line, key, n)
	}
	out := make([]chart.Pos, n)
	for i, v := range tuple {
		pos, err := b.lookupPos(v, line)
		if err != nil {
			return nil, err
		}
		out[i] = pos
	}
	return out, nil
}

func (b *builder) floatList(kw script.Kwargs, key string, n int, line int) ([]float64, error) {
	tuple, ok := kw.Tuple(key)
	if !ok || len(tuple) != n {
		return nil, errors.Errorf("line %d: needs %s= tuple of %d numbers", line, key, n)
	}
	out := make([]float64, n)
	for i, v := range tuple {
		if v.Kind != script.ValFloat {
			return nil, errors.Errorf("line %d: %s wants numbers, got %s", line, key, v)
		}
		out[i] = v.Num
	}
	return out, nil
}

func (b *builder) kwargPos(kw script.Kwargs, key string, line int) (chart.Pos, error) {
	v, ok := kw[key]
	if !ok {
		return chart.Pos{}, errors.Errorf("line %d: needs %s=", line, key)
	}
	return b.lookupPos(v, line)
}

func (b *builder) kwargPoint(kw script.Kwargs, key string, line int) (mgl64.Vec2, error) {
	v, ok := kw[key]
	if !ok {
		return mgl64.Vec2{}, errors.Errorf("line %d: needs %s=", line, key)
	}
	return b.worldPoint(v, line)
}

func (b *builder) floatPairKwargs(kw script.Kwargs, keyA, keyB string, line int) (float64, float64, error) {
	a, okA := kw.Float(keyA)
	bb, okB := kw.Float(keyB)
	if !okA || !okB {
		return 0, 0, errors.Errorf("line %d: needs %s= and %s=", line, keyA, keyB)
	}
	return a, bb, nil
}

func parseAxis(kw script.Kwargs, line int) (spawner.Axis, error) {
	name, ok := kw.Str("axis")
	if !ok {
		return 0, errors.Errorf("line %d: needs axis=x or axis=y", line)
	}
	switch name {
	case "x":
		return spawner.AxisX, nil
	case "y":
		return spawner.AxisY, nil
	default:
		return 0, errors.Errorf("line %d: bad axis %q", line, name)
	}
}

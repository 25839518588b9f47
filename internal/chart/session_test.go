package chart

import (
	"errors"
	"strings"
	"testing"
)

// markerSpawner emits one bullet per beat and records the beats it saw, the
// fake-engine pattern for compiler tests.
type markerSpawner struct {
	seen []MarkedBeat
}

func (m *markerSpawner) Spawn(b MarkedBeat) (Emission, error) {
	m.seen = append(m.seen, b)
	return One(Bullet(At(b.Beat, 0), Origin())), nil
}

func beatsAt(times ...float64) []MarkedBeat {
	out := make([]MarkedBeat, len(times))
	for i, t := range times {
		out[i] = MarkedBeat{Beat: t}
	}
	return out
}

func TestCompilePreservesArrivalOrder(t *testing.T) {
	m := New(150, 0)
	sp := &markerSpawner{}
	if err := NewSession(m).Compile(beatsAt(3, 1, 4, 1, 5), sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	cmds := m.Commands()[2:] // skip the config opener
	if len(cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(cmds))
	}
	want := []float64{3, 1, 4, 1, 5}
	for i, c := range cmds {
		if c.Beat != want[i] {
			t.Fatalf("command %d: expected beat %v, got %v (appended out of order)", i, want[i], c.Beat)
		}
	}
	for i, b := range sp.seen {
		if b.Index != i+1 {
			t.Fatalf("beat %d: expected dense 1-based index, got %d", i, b.Index)
		}
	}
}

func TestCompileStampsBeatAndGroupIfAbsent(t *testing.T) {
	m := New(150, 0)
	session := NewSession(m).WithGroup(7)
	sp := SpawnerFunc(func(b MarkedBeat) (Emission, error) {
		return Many(
			Bullet(Origin(), Player()),
			Bullet(Origin(), Player()).WithBeat(99).WithGroup(2),
		), nil
	})
	if err := session.Compile(beatsAt(10), sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	cmds := m.Commands()[2:]
	if cmds[0].Beat != 10 || cmds[0].Group != 7 {
		t.Fatalf("expected stamped (10, 7), got (%v, %d)", cmds[0].Beat, cmds[0].Group)
	}
	if cmds[1].Beat != 99 || cmds[1].Group != 2 {
		t.Fatalf("explicit fields must win: got (%v, %d)", cmds[1].Beat, cmds[1].Group)
	}
}

func TestWithGroupReturnsUpdatedSessionSharingSongmap(t *testing.T) {
	m := New(150, 0)
	base := NewSession(m)
	grouped := base.WithGroup(3)
	if base.Group() != 0 {
		t.Fatalf("WithGroup must not touch the receiver")
	}
	sp := SpawnerFunc(func(MarkedBeat) (Emission, error) {
		return One(Bullet(Origin(), Player())), nil
	})
	if err := grouped.Compile(beatsAt(1), sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := base.Compile(beatsAt(2), sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	cmds := m.Commands()[2:]
	if cmds[0].Group != 3 || cmds[1].Group != 0 {
		t.Fatalf("expected groups 3 then 0, got %d then %d", cmds[0].Group, cmds[1].Group)
	}
}

func TestCompileGroupedThreadsIndices(t *testing.T) {
	m := New(150, 0)
	sp := &markerSpawner{}
	groups := [][]MarkedBeat{
		beatsAt(0, 0.1),
		beatsAt(4),
		beatsAt(8, 8.1, 8.2),
	}
	if err := NewSession(m).CompileGrouped(groups, sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	type want struct{ index, pos, gi, gl int }
	wants := []want{
		{1, 0, 0, 2}, {2, 1, 0, 2},
		{3, 0, 1, 1},
		{4, 0, 2, 3}, {5, 1, 2, 3}, {6, 2, 2, 3},
	}
	if len(sp.seen) != len(wants) {
		t.Fatalf("expected %d spawns, got %d", len(wants), len(sp.seen))
	}
	for i, w := range wants {
		b := sp.seen[i]
		if b.Index != w.index || b.GroupPos != w.pos || b.GroupIndex != w.gi || b.GroupLen != w.gl {
			t.Fatalf("spawn %d: got (index=%d pos=%d group=%d len=%d), want %+v",
				i, b.Index, b.GroupPos, b.GroupIndex, b.GroupLen, w)
		}
	}
}

func TestCompileAbortsOnSpawnerError(t *testing.T) {
	m := New(150, 0)
	boom := errors.New("boom")
	calls := 0
	sp := SpawnerFunc(func(b MarkedBeat) (Emission, error) {
		calls++
		if calls == 3 {
			return Emission{}, boom
		}
		return One(Bullet(Origin(), Player())), nil
	})
	err := NewSession(m).Compile(beatsAt(1, 2, 3, 4, 5), sp)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected the spawner error, got %v", err)
	}
	if !strings.Contains(err.Error(), "position 3") {
		t.Fatalf("error should identify the sequence position: %v", err)
	}
	// No rollback: the two commands before the failure stay appended.
	if got := len(m.Commands()) - 2; got != 2 {
		t.Fatalf("expected 2 surviving commands, got %d", got)
	}
	if calls != 3 {
		t.Fatalf("compilation must stop at the failure, got %d calls", calls)
	}
}

func TestCompileRejectsKindlessCommand(t *testing.T) {
	m := New(150, 0)
	sp := SpawnerFunc(func(MarkedBeat) (Emission, error) {
		return One(Command{}), nil
	})
	err := NewSession(m).Compile(beatsAt(1), sp)
	if err == nil || !strings.Contains(err.Error(), "position 1") {
		t.Fatalf("expected a kindless-command error naming position 1, got %v", err)
	}
}

func TestEmptyEmissionAppendsNothing(t *testing.T) {
	m := New(150, 0)
	sp := SpawnerFunc(func(MarkedBeat) (Emission, error) {
		return Many(), nil
	})
	if err := NewSession(m).Compile(beatsAt(1, 2), sp); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if got := len(m.Commands()) - 2; got != 0 {
		t.Fatalf("expected no commands, got %d", got)
	}
}

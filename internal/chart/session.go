package chart

import "fmt"

// Session drives marked-beat sequences through spawners into one shared
// songmap. It is a value: WithGroup returns an updated session whose later
// compile calls stamp the new group, without hidden global state. The
// register is read synchronously inside each call; compilation is a
// single-threaded batch and sessions must not be used concurrently.
type Session struct {
	group int
	m     *Songmap
}

// NewSession starts a session appending into m with the group register at
// its default of zero.
func NewSession(m *Songmap) Session {
	return Session{m: m}
}

// WithGroup returns a session whose compile calls stamp commands with the
// given enemy group. The songmap accumulator is shared with the receiver.
func (s Session) WithGroup(group int) Session {
	s.group = group
	return s
}

// Group reports the current-group register.
func (s Session) Group() int {
	return s.group
}

// Songmap returns the shared accumulator.
func (s Session) Songmap() *Songmap {
	return s.m
}

// Compile invokes the spawner once per marked beat, in order, appending
// every resulting command. Each beat gets a dense 1-based index before the
// spawner sees it. Commands are stamped with the beat time and the group
// register unless the spawner set those fields itself. A spawner error
// aborts the call; commands already appended stay appended.
func (s Session) Compile(beats []MarkedBeat, sp Spawner) error {
	for i, b := range beats {
		b.Index = i + 1
		if err := s.spawnOne(b, sp); err != nil {
			return err
		}
	}
	return nil
}

// CompileGrouped is Compile over a sequence of groups (chords/runs). The
// total index keeps running across group boundaries while GroupPos,
// GroupIndex and GroupLen describe each beat's place in its group.
func (s Session) CompileGrouped(groups [][]MarkedBeat, sp Spawner) error {
	total := 0
	for gi, group := range groups {
		for pi, b := range group {
			total++
			b.Index = total
			b.GroupPos = pi
			b.GroupIndex = gi
			b.GroupLen = len(group)
			if err := s.spawnOne(b, sp); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Session) spawnOne(b MarkedBeat, sp Spawner) error {
	em, err := sp.Spawn(b)
	if err != nil {
		return fmt.Errorf("spawner at sequence position %d (beat %v): %w", b.Index, b.Beat, err)
	}
	for _, cmd := range em.Commands() {
		if cmd.Kind == 0 {
			return fmt.Errorf("sequence position %d (beat %v): command without a kind", b.Index, b.Beat)
		}
		if !cmd.HasBeat {
			cmd.Beat = b.Beat
			cmd.HasBeat = true
		}
		if !cmd.HasGroup {
			cmd.Group = s.group
			cmd.HasGroup = true
		}
		s.m.Append(cmd)
	}
	return nil
}

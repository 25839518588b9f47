package chart

import "fmt"

// MarkedBeat is one scheduled instant: an absolute beat time, the normalized
// progress through its sequence, and an optional pitch. Percent may leave
// [0,1] when a splitter runs with offset or delay. Index is assigned 1-based
// by the generator and reassigned by the compiler. The Group* fields are only
// meaningful inside a grouped compile, where GroupPos is the position within
// the chord and Index keeps running across group boundaries.
type MarkedBeat struct {
	Beat     float64
	Percent  float64
	Pitch    float64
	HasPitch bool
	Index    int

	GroupPos   int
	GroupIndex int
	GroupLen   int
}

// Splitter cuts a span of beats into evenly stepped MarkedBeats. The stepping
// variable starts at Start and advances by Frequency; a beat is emitted while
// Duration > t - Start. Offset shifts both the emitted beat and the percent
// numerator but deliberately not the stopping test, so adding an offset never
// changes the step count. Delay shifts only the emitted beat. Downstream
// choreography depends on these exact times; don't "clean up" the asymmetry.
type Splitter struct {
	Start     float64
	Duration  float64
	Frequency float64
	Offset    float64
	Delay     float64
}

// Duration-16 presets, the common building blocks of a four-measure phrase.

func EveryBeat(start float64) Splitter {
	return Splitter{Start: start, Duration: 16, Frequency: 1}
}

func EveryHalfBeat(start float64) Splitter {
	return Splitter{Start: start, Duration: 16, Frequency: 0.5}
}

func Every2Beats(start float64) Splitter {
	return Splitter{Start: start, Duration: 16, Frequency: 2}
}

func Every4Beats(start float64) Splitter {
	return Splitter{Start: start, Duration: 16, Frequency: 4}
}

func (s Splitter) WithStart(start float64) Splitter {
	s.Start = start
	return s
}

func (s Splitter) WithDuration(duration float64) Splitter {
	s.Duration = duration
	return s
}

func (s Splitter) WithFrequency(frequency float64) Splitter {
	s.Frequency = frequency
	return s
}

func (s Splitter) WithOffset(offset float64) Splitter {
	s.Offset = offset
	return s
}

func (s Splitter) WithDelay(delay float64) Splitter {
	s.Delay = delay
	return s
}

// Split materializes the sequence. A non-positive frequency would never
// terminate and is rejected; a non-positive duration is an empty sequence.
func (s Splitter) Split() ([]MarkedBeat, error) {
	if s.Frequency <= 0 {
		return nil, fmt.Errorf("splitter: frequency must be positive, got %v", s.Frequency)
	}
	var beats []MarkedBeat
	index := 1
	for t := s.Start; s.Duration > t-s.Start; t += s.Frequency {
		beats = append(beats, MarkedBeat{
			Beat:    t + s.Delay + s.Offset,
			Percent: (t + s.Offset - s.Start) / s.Duration,
			Index:   index,
		})
		index++
	}
	return beats, nil
}

// Shift returns a copy of the sequence with every beat moved by delta.
// The input is never mutated.
func Shift(beats []MarkedBeat, delta float64) []MarkedBeat {
	out := make([]MarkedBeat, len(beats))
	copy(out, beats)
	for i := range out {
		out[i].Beat += delta
	}
	return out
}

// NormalizePitch rescales every present pitch into [0,1] using the observed
// min and max. Entries without pitch pass through untouched. When the
// sequence holds at most one distinct pitch value there is nothing to scale
// and an unmodified copy is returned. The input is never mutated.
func NormalizePitch(beats []MarkedBeat) []MarkedBeat {
	out := make([]MarkedBeat, len(beats))
	copy(out, beats)

	min, max := 0.0, 0.0
	seen := false
	distinct := false
	for _, b := range beats {
		if !b.HasPitch {
			continue
		}
		if !seen {
			min, max = b.Pitch, b.Pitch
			seen = true
			continue
		}
		if b.Pitch != min || b.Pitch != max {
			distinct = true
		}
		if b.Pitch < min {
			min = b.Pitch
		}
		if b.Pitch > max {
			max = b.Pitch
		}
	}
	if !seen || !distinct {
		return out
	}
	for i := range out {
		if out[i].HasPitch {
			out[i].Pitch = (out[i].Pitch - min) / (max - min)
		}
	}
	return out
}

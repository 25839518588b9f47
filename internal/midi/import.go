// Package midi turns Standard MIDI Files into marked-beat sequences. Only
// note-on events matter; the file's tick times are converted to beats at the
// chart's tempo and each note keeps its key number as the pitch field, to be
// normalized later by the chart layer.
package midi

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/songmap-go/internal/chart"
)

// Import reads the first track of the file and returns one marked beat per
// note-on, ordered by time. Percent is the note's normalized position
// between the first and last note of the file (0 for a single note).
func Import(path string, bpm float64) ([]chart.MarkedBeat, error) {
	data, err := smf.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "midi: read %s", path)
	}
	beats, err := notesToBeats(data, bpm)
	if err != nil {
		return nil, errors.Wrapf(err, "midi: %s", path)
	}
	return beats, nil
}

// ImportGrouped reads the file like Import and splits the notes into groups
// of simultaneous or near-simultaneous notes: a note within window beats of
// its predecessor joins the predecessor's group, anything further starts a
// new one. Chords and fast runs become one group each.
func ImportGrouped(path string, bpm float64, window float64) ([][]chart.MarkedBeat, error) {
	beats, err := Import(path, bpm)
	if err != nil {
		return nil, err
	}
	var groups [][]chart.MarkedBeat
	for i, b := range beats {
		if i == 0 || b.Beat-beats[i-1].Beat > window {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], b)
	}
	return groups, nil
}

func notesToBeats(data *smf.SMF, bpm float64) ([]chart.MarkedBeat, error) {
	ticksPerBeat, err := ticksPerBeat(data.TimeFormat, bpm)
	if err != nil {
		return nil, err
	}
	if len(data.Tracks) == 0 {
		return nil, errors.New("no tracks")
	}

	var beats []chart.MarkedBeat
	var tick uint64
	for _, ev := range data.Tracks[0] {
		tick += uint64(ev.Delta)
		var channel, key, velocity uint8
		if !ev.Message.GetNoteStart(&channel, &key, &velocity) {
			continue
		}
		beats = append(beats, chart.MarkedBeat{
			Beat:     float64(tick) / ticksPerBeat,
			Pitch:    float64(key),
			HasPitch: true,
			Index:    len(beats) + 1,
		})
	}
	if len(beats) > 1 {
		first := beats[0].Beat
		last := beats[len(beats)-1].Beat
		if last > first {
			for i := range beats {
				beats[i].Percent = (beats[i].Beat - first) / (last - first)
			}
		}
	}
	return beats, nil
}

func ticksPerBeat(tf smf.TimeFormat, bpm float64) (float64, error) {
	switch t := tf.(type) {
	case smf.MetricTicks:
		return float64(t.Resolution()), nil
	case smf.TimeCode:
		ticksPerSecond := float64(t.FramesPerSecond) * float64(t.SubFrames)
		secondsPerBeat := 60.0 / bpm
		return ticksPerSecond * secondsPerBeat, nil
	default:
		return 0, errors.Errorf("unsupported time format %v", tf)
	}
}

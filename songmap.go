// Package songmap compiles chart scripts and MIDI note timing into a
// songmap: the deterministic, ordered list of spawn and control commands
// that drives one level of the game. The package is a thin facade; the
// combinators live in the internal packages and the chart script is the
// authoring surface.
package songmap

import (
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/cbegin/songmap-go/internal/chart"
)

const (
	defaultBPM         = 150
	defaultGroupWindow = 0.25
)

type Option func(*config)

type config struct {
	baseDir     string
	seed        int64
	groupWindow float64
}

func defaultConfig() config {
	return config{groupWindow: defaultGroupWindow}
}

// WithBaseDir resolves midibeat paths relative to dir. BuildFile defaults
// this to the script's own directory.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = dir
	}
}

// WithSeed seeds the source behind the random spawners. The same script,
// MIDI files and seed always reproduce the same songmap.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithGroupWindow sets the adjacency window, in beats, within which imported
// notes are grouped into one chord/run.
func WithGroupWindow(beats float64) Option {
	return func(cfg *config) {
		cfg.groupWindow = beats
	}
}

// Build compiles a chart script into a songmap.
func Build(src string, opts ...Option) (*chart.Songmap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &builder{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.seed)),
		positions: map[string]chart.Pos{"origin": chart.Origin()},
		beats:     map[string][]chart.MarkedBeat{},
		groups:    map[string][][]chart.MarkedBeat{},
	}
	return b.build(src)
}

// BuildFile reads and compiles a chart script file.
func BuildFile(path string, opts ...Option) (*chart.Songmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read chart %s", path)
	}
	withDir := append([]Option{WithBaseDir(filepath.Dir(path))}, opts...)
	m, err := Build(string(data), withDir...)
	if err != nil {
		return nil, errors.Wrapf(err, "chart %s", path)
	}
	return m, nil
}

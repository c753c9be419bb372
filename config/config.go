// Package config loads problem and run settings from TOML files and exports
// finished palettes in the same format
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/command"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/parameter"
	"github.com/lixenwraith/hueforge/runner"
	"github.com/lixenwraith/hueforge/store"
)

// ErrInvalid is wrapped by every load and validation failure
var ErrInvalid = errors.New("invalid configuration")

// File is the on-disk configuration
type File struct {
	Problem Problem  `toml:"problem"`
	Targets []Target `toml:"targets"`
	Run     Run      `toml:"run"`
	Store   Store    `toml:"store"`
}

// Problem describes the palette to evolve
type Problem struct {
	FreeColors  int      `toml:"free_colors"`
	FixedColors []string `toml:"fixed_colors"`
}

// Target is one objective, either as a target line or as fields
type Target struct {
	Line      string   `toml:"line,omitempty"`
	Direction string   `toml:"direction,omitempty"`
	Value     float64  `toml:"value,omitempty"`
	Stat      string   `toml:"stat,omitempty"`
	Parameter string   `toml:"parameter,omitempty"`
	Factor    *float64 `toml:"factor,omitempty"`
	Exponent  *int     `toml:"exponent,omitempty"`
}

// Run mirrors runner.Config
type Run struct {
	Generations    int     `toml:"generations"`
	Population     int     `toml:"population"`
	Runs           int     `toml:"runs"`
	Elitism        int     `toml:"elitism"`
	MutationRate   float64 `toml:"mutation_rate"`
	MutationPolicy string  `toml:"mutation_policy"`
	Selection      string  `toml:"selection"`
	TournamentSize int     `toml:"tournament_size"`
	HeatFloor      float64 `toml:"heat_floor"`
	Seed           uint64  `toml:"seed,omitempty"`
	Parallelism    int     `toml:"parallelism"`
	ReportEvery    int     `toml:"report_every"`

	// SeedSet reports that seed was given explicitly, so a zero seed is
	// meant rather than absent
	SeedSet bool `toml:"-"`
}

// Store selects the run-history backend
type Store struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// defaultTargets balance distinct, evenly spaced colors that contrast with
// the fixed colors and carry as much chroma as the rest allows
var defaultTargets = []string{
	"approximate 33 min freedist 1 2",
	"minimize stddev freedist 1 2",
	"approximate 30 min fixeddist 1 2",
	"minimize stddev fixeddist 1 2",
	"minimize stddev luminance 1 2",
	"minimize stddev chroma 1 2",
	"maximize mean chroma 1 1",
}

// Default returns the built-in configuration: six colors against white
func Default() File {
	rc := runner.DefaultConfig()
	f := File{
		Problem: Problem{
			FreeColors:  parameter.PaletteFreeColors,
			FixedColors: []string{"#ffffff"},
		},
		Run: Run{
			Generations:    rc.Generations,
			Population:     rc.PopulationSize,
			Runs:           rc.Runs,
			Elitism:        rc.Elitism,
			MutationRate:   rc.MutationRate,
			MutationPolicy: rc.MutationPolicy,
			Selection:      rc.Selection,
			TournamentSize: rc.TournamentSize,
			HeatFloor:      rc.HeatFloor,
			Seed:           rc.Seed,
			Parallelism:    rc.Parallelism,
			ReportEvery:    rc.ReportEvery,
		},
		Store: Store{Backend: store.BackendMemory},
	}
	for _, line := range defaultTargets {
		f.Targets = append(f.Targets, Target{Line: line})
	}
	return f
}

// Decode reads TOML from r over the defaults. Keys present in the input
// replace defaults; a [[targets]] list replaces the default targets.
// Unknown keys are rejected, except the [palette] table written by Export.
func Decode(r io.Reader) (File, error) {
	f := Default()
	f.Targets = nil

	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] == "palette" {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) > 0 {
		return File{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(unknown, ", "))
	}

	if !md.IsDefined("targets") {
		f.Targets = Default().Targets
	}
	f.Run.SeedSet = md.IsDefined("run", "seed")

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Load reads and validates the file at path
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks that the file converts to a valid description and run config
func (f File) Validate() error {
	d, err := f.Description()
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := f.RunConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch f.Store.Backend {
	case "", store.BackendMemory:
	case store.BackendSQLite:
		if f.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the sqlite backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, f.Store.Backend)
	}
	return nil
}

// Target converts t to a fitness target
func (t Target) Target() (fitness.Target, error) {
	if t.Line != "" {
		if t.Direction != "" || t.Stat != "" || t.Parameter != "" {
			return fitness.Target{}, fmt.Errorf("%w: target has both a line and fields", ErrInvalid)
		}
		target, err := command.ParseTarget(t.Line)
		if err != nil {
			return fitness.Target{}, fmt.Errorf("%w: target %q: %w", ErrInvalid, t.Line, err)
		}
		return target, nil
	}

	var direction fitness.Direction
	switch t.Direction {
	case "maximize":
		direction = fitness.Maximizing()
	case "minimize":
		direction = fitness.Minimizing()
	case "approximate":
		direction = fitness.Approximating(t.Value)
	default:
		return fitness.Target{}, fmt.Errorf("%w: target direction %q", ErrInvalid, t.Direction)
	}

	s, err := fitness.ParseStat(t.Stat)
	if err != nil {
		return fitness.Target{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	p, err := fitness.ParseParameter(t.Parameter)
	if err != nil {
		return fitness.Target{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	strength := fitness.DefaultStrength
	if t.Factor != nil {
		strength.Factor = *t.Factor
	}
	if t.Exponent != nil {
		strength.Exponent = *t.Exponent
	}
	return fitness.NewTarget(direction, s, p, strength), nil
}

// Description builds the problem description; later targets on the same
// stat and parameter replace earlier ones
func (f File) Description() (*fitness.Description, error) {
	fixed := make([]color.Lab, 0, len(f.Problem.FixedColors))
	for _, hex := range f.Problem.FixedColors {
		c, err := color.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: fixed color: %w", ErrInvalid, err)
		}
		fixed = append(fixed, c)
	}

	targets := make([]fitness.Target, 0, len(f.Targets))
	for _, t := range f.Targets {
		target, err := t.Target()
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return fitness.NewDescription(f.Problem.FreeColors, fixed, targets...), nil
}

// RunConfig converts the [run] table
func (f File) RunConfig() runner.Config {
	return runner.Config{
		Generations:    f.Run.Generations,
		PopulationSize: f.Run.Population,
		Runs:           f.Run.Runs,
		Elitism:        f.Run.Elitism,
		MutationRate:   f.Run.MutationRate,
		MutationPolicy: f.Run.MutationPolicy,
		Selection:      f.Run.Selection,
		TournamentSize: f.Run.TournamentSize,
		HeatFloor:      f.Run.HeatFloor,
		Seed:           f.Run.Seed,
		Parallelism:    f.Run.Parallelism,
		ReportEvery:    f.Run.ReportEvery,
	}
}

// OpenStore builds and initializes the configured store
func (f File) OpenStore(ctx context.Context) (store.Store, error) {
	s, err := store.NewStore(f.Store.Backend, f.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s store: %w", f.Store.Backend, err)
	}
	return s, nil
}

// Encode writes f as TOML
func (f File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Save writes f to path, creating parent directories
func (f File) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Encode(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

package runner

import (
	"fmt"
	"math"

	"github.com/lixenwraith/hueforge/genetic"
	"github.com/lixenwraith/hueforge/parameter"
)

// Config drives one or more independent runs
type Config struct {
	// Generations per run; 0 runs until the context is cancelled
	Generations int
	// PopulationSize is the number of palettes per generation
	PopulationSize int
	// Runs is the number of independent runs
	Runs int
	// Elitism is the number of best palettes copied unchanged
	Elitism int
	// MutationRate feeds the mutation policy
	MutationRate float64
	// MutationPolicy is "rate" or "weakest"
	MutationPolicy string
	// Selection is "tournament" or "roulette"
	Selection string
	// TournamentSize is the tournament k
	TournamentSize int
	// HeatFloor is the lowest mutation heat the schedule anneals to
	HeatFloor float64
	// Seed; run i draws from the PCG stream (Seed, i)
	Seed uint64
	// Parallelism bounds concurrent fitness evaluations
	Parallelism int
	// ReportEvery is the progress interval in generations; 0 picks about
	// a hundred reports per run
	ReportEvery int
}

// DefaultConfig returns the defaults from parameter
func DefaultConfig() Config {
	return Config{
		Generations:    parameter.RunGenerations,
		PopulationSize: parameter.GAPopulationSize,
		Runs:           parameter.RunRepeats,
		Elitism:        parameter.GAEliteCount,
		MutationRate:   parameter.GAMutationRate,
		MutationPolicy: genetic.MutationRate,
		Selection:      genetic.SelectionTournament,
		TournamentSize: parameter.GATournamentSize,
		HeatFloor:      parameter.RunHeatFloor,
		Parallelism:    parameter.GAParallelism,
	}
}

// Engine returns the genetic engine view of the configuration
func (c Config) Engine() genetic.Config {
	return genetic.Config{
		Size:           c.PopulationSize,
		EliteCount:     c.Elitism,
		MutationRate:   c.MutationRate,
		MutationPolicy: c.MutationPolicy,
		Selection:      c.Selection,
		TournamentSize: c.TournamentSize,
		Parallelism:    c.Parallelism,
	}
}

// Validate checks the run fields, then the engine fields
func (c Config) Validate() error {
	if c.Generations < 0 {
		return &genetic.ConfigError{Field: "generations", Reason: fmt.Sprintf("must not be negative, got %d", c.Generations)}
	}
	if c.Runs < 1 {
		return &genetic.ConfigError{Field: "runs", Reason: fmt.Sprintf("must be at least 1, got %d", c.Runs)}
	}
	if c.HeatFloor < 0 || c.HeatFloor > 1 || math.IsNaN(c.HeatFloor) {
		return &genetic.ConfigError{Field: "heat_floor", Reason: fmt.Sprintf("must be within [0,1], got %g", c.HeatFloor)}
	}
	if c.ReportEvery < 0 {
		return &genetic.ConfigError{Field: "report_every", Reason: fmt.Sprintf("must not be negative, got %d", c.ReportEvery)}
	}
	if c.Parallelism < 0 {
		return &genetic.ConfigError{Field: "parallelism", Reason: fmt.Sprintf("must not be negative, got %d", c.Parallelism)}
	}
	if _, err := genetic.NewSelector[int](c.Selection, c.TournamentSize); err != nil {
		return err
	}
	if _, err := genetic.NewMutationPolicy(c.MutationPolicy, c.MutationRate, 1); err != nil {
		return err
	}
	return c.Engine().Validate()
}

// span is the annealing length of the heat schedule
func (c Config) span() int {
	if c.Generations > 0 {
		return c.Generations
	}
	return parameter.RunGenerations
}

// reportInterval resolves ReportEvery
func (c Config) reportInterval() int {
	if c.ReportEvery > 0 {
		return c.ReportEvery
	}
	return max(c.span()/parameter.RunReportDivisions, 1)
}

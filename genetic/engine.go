package genetic

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/hueforge/parameter"
)

// ErrInvalidConfig is wrapped by every ConfigError
var ErrInvalidConfig = errors.New("invalid engine configuration")

// ConfigError reports a rejected configuration field
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// --- Population Engine ---

// Config holds the parameters fixed for the lifetime of a Population
type Config struct {
	// Size is the number of genotypes per generation
	Size int
	// EliteCount is the number of best genotypes carried over unchanged
	EliteCount int
	// MutationRate is the per-child mutation probability, or the mutated
	// fraction of child slots under the weakest policy
	MutationRate float64
	// MutationPolicy names the policy: "rate" or "weakest"
	MutationPolicy string
	// Selection names the selector: "tournament" or "roulette"
	Selection string
	// TournamentSize is the tournament k
	TournamentSize int
	// Parallelism bounds concurrent fitness evaluations (1 = sequential)
	Parallelism int
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		Size:           parameter.GAPopulationSize,
		EliteCount:     parameter.GAEliteCount,
		MutationRate:   parameter.GAMutationRate,
		MutationPolicy: MutationRate,
		Selection:      SelectionTournament,
		TournamentSize: parameter.GATournamentSize,
		Parallelism:    parameter.GAParallelism,
	}
}

// Validate rejects configurations that cannot keep the population size constant
func (c Config) Validate() error {
	if c.Size < 1 {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("must be at least 1, got %d", c.Size)}
	}
	if c.EliteCount < 0 || c.EliteCount > c.Size {
		return &ConfigError{Field: "elite_count", Reason: fmt.Sprintf("must be within [0,%d], got %d", c.Size, c.EliteCount)}
	}
	if c.Selection == SelectionTournament && c.TournamentSize < 1 {
		return &ConfigError{Field: "tournament_size", Reason: fmt.Sprintf("must be at least 1, got %d", c.TournamentSize)}
	}
	if c.MutationRate < 0 || c.MutationRate > 1 || math.IsNaN(c.MutationRate) {
		return &ConfigError{Field: "mutation_rate", Reason: fmt.Sprintf("must be within [0,1], got %g", c.MutationRate)}
	}
	return nil
}

// Population is a fixed-size generation of genotypes evolving against a Problem.
// Not safe for concurrent use; the caller owns the generation loop.
type Population[G Genotype[G], P Problem[G]] struct {
	config   Config
	problem  P
	selector Selector[G]
	mutation MutationPolicy
	rng      *rand.Rand

	members    []G
	generation int
}

// NewPopulation validates config and fills the population with random genotypes
func NewPopulation[G Genotype[G], P Problem[G]](problem P, config Config, rng *rand.Rand) (*Population[G, P], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	selector, err := NewSelector[G](config.Selection, config.TournamentSize)
	if err != nil {
		return nil, err
	}

	mutation, err := NewMutationPolicy(config.MutationPolicy, config.MutationRate, config.Size-config.EliteCount)
	if err != nil {
		return nil, err
	}

	p := &Population[G, P]{
		config:   config,
		problem:  problem,
		selector: selector,
		mutation: mutation,
		rng:      rng,
	}
	p.Reset()
	return p, nil
}

// Reset replaces every member with a fresh random genotype
func (p *Population[G, P]) Reset() {
	members := make([]G, p.config.Size)
	for i := range members {
		members[i] = p.problem.Random(p.rng)
	}
	p.members = members
}

// SetProblem swaps the active problem. Call only between generations.
func (p *Population[G, P]) SetProblem(problem P) {
	p.problem = problem
}

// Problem returns the active problem
func (p *Population[G, P]) Problem() P {
	return p.problem
}

// Members returns the current genotypes in slot order
func (p *Population[G, P]) Members() []G {
	return p.members
}

// Generation returns the number of completed generation transitions
func (p *Population[G, P]) Generation() int {
	return p.generation
}

// NextGeneration evaluates the current members, ranks them, and replaces
// them with elites followed by bred children. heat scales mutation strength.
// Returns the summary of the evaluated (pre-replacement) generation.
func (p *Population[G, P]) NextGeneration(heat float64) Generation[G] {
	ranked := p.Evaluate()
	mean, stddev := scoreStats(ranked)

	summary := Generation[G]{
		Number: p.generation,
		Best:   Candidate[G]{Data: ranked[0].Data.Clone(), Score: ranked[0].Score},
		Mean:   mean,
		StdDev: stddev,
	}

	p.members = p.reproduce(ranked, heat)
	p.generation++
	return summary
}

// Evaluate scores every member against the active problem and returns the
// candidates ranked best first. Ties keep slot order; NaN ranks last.
func (p *Population[G, P]) Evaluate() []Candidate[G] {
	scored := make([]Candidate[G], len(p.members))

	workers := max(p.config.Parallelism, 1)
	if workers == 1 {
		for i, g := range p.members {
			scored[i] = Candidate[G]{Data: g, Score: p.problem.Fitness(g)}
		}
	} else {
		wp := pool.New().WithMaxGoroutines(workers)
		for i, g := range p.members {
			wp.Go(func() {
				scored[i] = Candidate[G]{Data: g, Score: p.problem.Fitness(g)}
			})
		}
		wp.Wait()
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return Better(scored[i].Score, scored[j].Score)
	})
	return scored
}

// reproduce builds the next generation from a ranked snapshot of the current one.
// ranked is only read; children are written to a fresh slice.
func (p *Population[G, P]) reproduce(ranked []Candidate[G], heat float64) []G {
	next := make([]G, 0, p.config.Size)

	for i := 0; i < p.config.EliteCount; i++ {
		next = append(next, ranked[i].Data.Clone())
	}

	children := p.config.Size - p.config.EliteCount
	for slot := 0; slot < children; slot++ {
		parents := p.selector.Select(ranked, 2, p.rng)
		child := parents[0].Data.Crossover(parents[1].Data, p.rng)
		if p.mutation.Mutate(slot, children, p.rng) {
			child = child.Mutated(heat, p.rng)
		}
		next = append(next, child)
	}

	return next
}

// scoreStats returns mean and population standard deviation of finite scores
func scoreStats[G any](candidates []Candidate[G]) (mean, stddev float64) {
	scores := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if !math.IsNaN(c.Score) && !math.IsInf(c.Score, 0) {
			scores = append(scores, c.Score)
		}
	}
	if len(scores) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, variance := stat.PopMeanVariance(scores, nil)
	return mean, math.Sqrt(variance)
}

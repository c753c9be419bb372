package genetic

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

// vector is a synthetic genotype: genes in [0,1], fitness peaks at 0.5
type vector []float64

var unit = Bounds{Min: 0, Max: 1}

func (v vector) Mutated(strength float64, rng *rand.Rand) vector {
	out := make(vector, len(v))
	for i, x := range v {
		out[i] = unit.Perturb(x, 0.1*strength, rng)
	}
	return out
}

func (v vector) Crossover(other vector, _ *rand.Rand) vector {
	out := make(vector, len(v))
	for i := range v {
		out[i] = (v[i] + other[i]) / 2
	}
	return out
}

func (v vector) Clone() vector {
	return append(vector(nil), v...)
}

type peakProblem struct {
	genes int
}

func (p peakProblem) Random(rng *rand.Rand) vector {
	v := make(vector, p.genes)
	for i := range v {
		v[i] = rng.Float64()
	}
	return v
}

func (p peakProblem) Fitness(v vector) float64 {
	var s float64
	for _, x := range v {
		s -= (x - 0.5) * (x - 0.5)
	}
	return s
}

func newTestPopulation(t *testing.T, cfg Config, seed uint64) *Population[vector, peakProblem] {
	t.Helper()
	p, err := NewPopulation[vector](peakProblem{genes: 3}, cfg, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	return p
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 20
	cfg.EliteCount = 3
	cfg.Parallelism = 1
	return cfg
}

func TestPopulation_ElitesSurviveUnchanged(t *testing.T) {
	p := newTestPopulation(t, testConfig(), 7)

	for gen := 0; gen < 5; gen++ {
		ranked := p.Evaluate()
		elites := make([]vector, 3)
		for i := range elites {
			elites[i] = ranked[i].Data.Clone()
		}

		summary := p.NextGeneration(1.0)
		if summary.Number != gen {
			t.Errorf("expected generation %d, got %d", gen, summary.Number)
		}
		if !reflect.DeepEqual(summary.Best.Data, elites[0]) {
			t.Errorf("best %v differs from top ranked %v", summary.Best.Data, elites[0])
		}

		members := p.Members()
		if len(members) != 20 {
			t.Fatalf("population size changed to %d", len(members))
		}
		for i, e := range elites {
			if !reflect.DeepEqual(members[i], e) {
				t.Errorf("gen %d slot %d: expected elite %v, got %v", gen, i, e, members[i])
			}
		}
	}
}

func TestPopulation_ElitesAreCopies(t *testing.T) {
	p := newTestPopulation(t, testConfig(), 11)

	summary := p.NextGeneration(1.0)
	before := p.Members()[0].Clone()

	summary.Best.Data[0] = -42
	if !reflect.DeepEqual(p.Members()[0], before) {
		t.Error("elite aliases the reported best genotype")
	}
}

func TestPopulation_Deterministic(t *testing.T) {
	run := func() ([]float64, vector) {
		p := newTestPopulation(t, testConfig(), 99)
		var trace []float64
		var best vector
		for i := 0; i < 30; i++ {
			g := p.NextGeneration(1 - float64(i)/30)
			trace = append(trace, g.Best.Score, g.Mean, g.StdDev)
			best = g.Best.Data
		}
		return trace, best
	}

	t1, b1 := run()
	t2, b2 := run()
	if !reflect.DeepEqual(t1, t2) {
		t.Error("fitness traces differ for identical seeds")
	}
	if !reflect.DeepEqual(b1, b2) {
		t.Error("best genotypes differ for identical seeds")
	}
}

func TestPopulation_ParallelEvaluationMatchesSequential(t *testing.T) {
	seq := testConfig()
	par := testConfig()
	par.Parallelism = 8

	a := newTestPopulation(t, seq, 5)
	b := newTestPopulation(t, par, 5)
	for i := 0; i < 10; i++ {
		ga := a.NextGeneration(0.5)
		gb := b.NextGeneration(0.5)
		if ga.Best.Score != gb.Best.Score || ga.Mean != gb.Mean {
			t.Fatalf("generation %d diverged: %v vs %v", i, ga.Best.Score, gb.Best.Score)
		}
	}
}

func TestPopulation_Improves(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 40
	p := newTestPopulation(t, cfg, 3)

	first := p.NextGeneration(1.0)
	var last Generation[vector]
	for i := 0; i < 50; i++ {
		last = p.NextGeneration(1 - float64(i)/50)
	}
	if last.Best.Score < first.Best.Score {
		t.Errorf("best fitness regressed with elitism: %v -> %v", first.Best.Score, last.Best.Score)
	}
	if last.Best.Score < -0.01 {
		t.Errorf("expected convergence near 0, got %v", last.Best.Score)
	}
}

func TestPopulation_FullElitism(t *testing.T) {
	cfg := testConfig()
	cfg.EliteCount = cfg.Size
	p := newTestPopulation(t, cfg, 1)

	ranked := p.Evaluate()
	p.NextGeneration(1.0)
	for i, m := range p.Members() {
		if !reflect.DeepEqual(m, ranked[i].Data) {
			t.Fatalf("slot %d changed under full elitism", i)
		}
	}
}

type nanProblem struct{ peakProblem }

func (p nanProblem) Fitness(v vector) float64 {
	if v[0] < 0.5 {
		return math.NaN()
	}
	return p.peakProblem.Fitness(v)
}

func TestPopulation_NaNRanksLast(t *testing.T) {
	p, err := NewPopulation[vector](nanProblem{peakProblem{genes: 2}}, testConfig(), rand.New(rand.NewPCG(2, 2)))
	if err != nil {
		t.Fatal(err)
	}

	ranked := p.Evaluate()
	seenNaN := false
	for _, c := range ranked {
		if math.IsNaN(c.Score) {
			seenNaN = true
		} else if seenNaN {
			t.Fatal("finite score ranked after NaN")
		}
	}

	g := p.NextGeneration(1.0)
	if !math.IsNaN(ranked[0].Score) && math.IsNaN(g.Best.Score) {
		t.Error("best is NaN although finite scores exist")
	}
	if math.IsNaN(g.Mean) && !math.IsNaN(ranked[0].Score) {
		t.Error("mean should ignore NaN scores")
	}
}

func TestPopulation_SetProblemAndReset(t *testing.T) {
	p := newTestPopulation(t, testConfig(), 4)
	p.NextGeneration(1)

	p.SetProblem(peakProblem{genes: 5})
	p.Reset()
	for _, m := range p.Members() {
		if len(m) != 5 {
			t.Fatalf("expected 5 genes after reset, got %d", len(m))
		}
	}
	if p.Generation() != 1 {
		t.Errorf("reset should not rewind the generation counter, got %d", p.Generation())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero size", func(c *Config) { c.Size = 0 }, "size"},
		{"negative elites", func(c *Config) { c.EliteCount = -1 }, "elite_count"},
		{"too many elites", func(c *Config) { c.EliteCount = c.Size + 1 }, "elite_count"},
		{"zero tournament", func(c *Config) { c.TournamentSize = 0 }, "tournament_size"},
		{"rate above one", func(c *Config) { c.MutationRate = 1.5 }, "mutation_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNewPopulation_UnknownStrategies(t *testing.T) {
	cfg := testConfig()
	cfg.Selection = "lottery"
	if _, err := NewPopulation[vector](peakProblem{genes: 1}, cfg, rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown selector, got %v", err)
	}

	cfg = testConfig()
	cfg.MutationPolicy = "always"
	if _, err := NewPopulation[vector](peakProblem{genes: 1}, cfg, rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown mutation policy, got %v", err)
	}
}

package genetic

// Package genetic provides a generic generational genetic algorithm
// 1. Has zero knowledge of colors or palettes
// 2. Genotypes supply their own crossover, mutation and randomization
// 3. Selection, mutation and annealing policies are swappable strategy values
// 4. Fitness scores travel with genotypes as Candidate pairs, never cached on them

import (
	"math"
	"math/rand/v2"
)

// --- Concrete Selectors ---

// TournamentSelector implements tournament selection
// Samples Size candidates with replacement and keeps the fittest
type TournamentSelector[G any] struct {
	// Size is the number of candidates competing in each tournament
	Size int
}

// Select runs one tournament per requested candidate
func (ts *TournamentSelector[G]) Select(pool []Candidate[G], size int, rng *rand.Rand) []Candidate[G] {
	selected := make([]Candidate[G], 0, size)
	if len(pool) == 0 {
		return selected
	}

	k := ts.Size
	if k < 1 {
		k = 1
	}

	for len(selected) < size {
		selected = append(selected, Tournament(pool, k, rng))
	}
	return selected
}

// Tournament draws k candidates uniformly with replacement and returns the one
// with strictly greatest score; the first drawn wins ties. pool must be non-empty.
func Tournament[G any](pool []Candidate[G], k int, rng *rand.Rand) Candidate[G] {
	winner := pool[rng.IntN(len(pool))]
	for i := 1; i < k; i++ {
		c := pool[rng.IntN(len(pool))]
		if Better(c.Score, winner.Score) {
			winner = c
		}
	}
	return winner
}

// RouletteSelector implements fitness-proportionate selection
// Scores are shifted by the pool minimum so negative fitness is usable
type RouletteSelector[G any] struct{}

// Select spins the wheel once per requested candidate
func (rs *RouletteSelector[G]) Select(pool []Candidate[G], size int, rng *rand.Rand) []Candidate[G] {
	selected := make([]Candidate[G], 0, size)
	if len(pool) == 0 {
		return selected
	}

	lowest := math.Inf(1)
	for _, c := range pool {
		if !math.IsNaN(c.Score) && c.Score < lowest {
			lowest = c.Score
		}
	}

	// Every finite candidate keeps a sliver of weight so a flat pool is uniform
	cumulative := make([]float64, len(pool))
	total := 0.0
	for i, c := range pool {
		w := 0.0
		if !math.IsNaN(c.Score) && !math.IsInf(c.Score, 0) {
			w = c.Score - lowest + 1e-9
		}
		total += w
		cumulative[i] = total
	}

	for len(selected) < size {
		if total <= 0 || math.IsInf(total, 0) {
			selected = append(selected, pool[rng.IntN(len(pool))])
			continue
		}
		spin := rng.Float64() * total
		idx := len(pool) - 1
		for j, cum := range cumulative {
			if spin < cum {
				idx = j
				break
			}
		}
		selected = append(selected, pool[idx])
	}
	return selected
}

// NewSelector returns the selector registered under name
func NewSelector[G any](name string, tournamentSize int) (Selector[G], error) {
	switch name {
	case "", SelectionTournament:
		return &TournamentSelector[G]{Size: tournamentSize}, nil
	case SelectionRoulette:
		return &RouletteSelector[G]{}, nil
	}
	return nil, &ConfigError{Field: "selection", Reason: "unknown selector " + name}
}

// Selection strategy names
const (
	SelectionTournament = "tournament"
	SelectionRoulette   = "roulette"
)

package genetic

import (
	"math"
	"math/rand/v2"
)

// --- Capability Contracts ---

// Genotype is an evolvable solution encoding. G is the implementing type itself.
type Genotype[G any] interface {
	// Mutated returns a perturbed copy; strength scales the perturbation
	Mutated(strength float64, rng *rand.Rand) G
	// Crossover recombines the receiver with other into a child
	Crossover(other G, rng *rand.Rand) G
	// Clone returns a deep copy that shares no mutable state
	Clone() G
}

// Problem creates random genotypes and scores them.
// Fitness must be pure: identical inputs give identical scores.
type Problem[G any] interface {
	Random(rng *rand.Rand) G
	Fitness(genotype G) float64
}

// --- Core Data Structures ---

// Candidate pairs a genotype with the score it was evaluated to
// against the problem active in that generation
type Candidate[G any] struct {
	Data  G
	Score float64
}

// Generation summarizes one evaluated generation
type Generation[G any] struct {
	// Number counts completed generations, starting at 0
	Number int
	// Best is the fittest candidate of the evaluated generation
	Best Candidate[G]
	// Mean and StdDev cover finite scores only; diagnostics, not used for selection
	Mean   float64
	StdDev float64
}

// --- Policy Interfaces ---

// Selector picks parents from a ranked, evaluated pool
type Selector[G any] interface {
	// Select returns size candidates drawn from pool
	Select(pool []Candidate[G], size int, rng *rand.Rand) []Candidate[G]
}

// MutationPolicy decides which children are mutated.
// slot is the child index in breeding order, children the number bred this generation.
type MutationPolicy interface {
	Mutate(slot, children int, rng *rand.Rand) bool
}

// Schedule yields the mutation heat for a generation
type Schedule interface {
	// Heat receives the generations elapsed since the objective last changed
	Heat(sinceChange int) float64
}

// Better reports whether score a ranks strictly above b. NaN ranks below every number.
func Better(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

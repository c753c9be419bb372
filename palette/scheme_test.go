package palette

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/genetic"
)

func legal(c color.Lab) bool {
	return c.L >= 0 && c.L <= 1 && c.A >= -1 && c.A <= 1 && c.B >= -1 && c.B <= 1
}

func TestRandomScheme(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	s := RandomScheme(50, rng)
	if len(s.FreeColors) != 50 {
		t.Fatalf("expected 50 colors, got %d", len(s.FreeColors))
	}
	for _, c := range s.FreeColors {
		if !legal(c) {
			t.Errorf("random color %v outside legal axes", c)
		}
		if color.DeltaE(c, c.Clamped()) > 1e-6 {
			t.Errorf("random color %v not displayable", c)
		}
	}
}

func TestMutated_StaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	edge := NewColorScheme(
		color.Lab{L: 0, A: -1, B: -1},
		color.Lab{L: 1, A: 1, B: 1},
		color.Lab{L: 0.5, A: 0, B: 0},
	)

	for _, strength := range []float64{0, 0.1, 1, 10, 1000} {
		s := edge
		for i := 0; i < 200; i++ {
			s = s.Mutated(strength, rng)
			for _, c := range s.FreeColors {
				if !legal(c) {
					t.Fatalf("strength %v: mutated color %v outside legal axes", strength, c)
				}
			}
		}
	}
}

func TestMutated_ZeroStrengthIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	s := RandomScheme(6, rng)
	if got := s.Mutated(0, rng); !reflect.DeepEqual(got, s) {
		t.Errorf("zero strength changed scheme: %v -> %v", s, got)
	}
}

func TestMutated_DoesNotModifyReceiver(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	s := RandomScheme(4, rng)
	before := s.Clone()
	s.Mutated(1, rng)
	if !reflect.DeepEqual(s, before) {
		t.Error("mutation modified the parent")
	}
}

func between(v, a, b float64) bool {
	lo, hi := min(a, b), max(a, b)
	return v >= lo-1e-12 && v <= hi+1e-12
}

func TestCrossover_MidpointOfHueSortedPairs(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	for trial := 0; trial < 100; trial++ {
		a := RandomScheme(5, rng)
		b := RandomScheme(5, rng)
		child := a.Crossover(b, rng)

		sa, sb := sortedByHue(a.FreeColors), sortedByHue(b.FreeColors)
		for i, c := range child.FreeColors {
			if !between(c.L, sa[i].L, sb[i].L) || !between(c.A, sa[i].A, sb[i].A) || !between(c.B, sa[i].B, sb[i].B) {
				t.Fatalf("child color %d %v not between %v and %v", i, c, sa[i], sb[i])
			}
			if c != color.Midpoint(sa[i], sb[i]) {
				t.Fatalf("child color %d is not the midpoint", i)
			}
		}
	}
}

func TestCrossover_PairsBySortedPosition(t *testing.T) {
	// Same hues in opposite genotype order: sorted pairing matches like with like
	red := color.Lab{L: 0.5, A: 0.5, B: 0.1}
	blue := color.Lab{L: 0.3, A: 0.1, B: -0.6}
	redish := color.Lab{L: 0.7, A: 0.6, B: 0.1}
	bluish := color.Lab{L: 0.4, A: 0.1, B: -0.5}

	a := NewColorScheme(red, blue)
	b := NewColorScheme(bluish, redish)

	child := a.Crossover(b, nil)
	want := []color.Lab{color.Midpoint(red, redish), color.Midpoint(blue, bluish)}
	if !reflect.DeepEqual(child.FreeColors, want) {
		t.Errorf("expected %v, got %v", want, child.FreeColors)
	}
}

func TestCrossover_SelfIsIdentityUpToOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	s := RandomScheme(6, rng)
	child := s.Crossover(s, rng)
	if !reflect.DeepEqual(child.FreeColors, sortedByHue(s.FreeColors)) {
		t.Error("self crossover expected to return the hue-sorted parent")
	}
}

func TestSorted_ByHueThenLightness(t *testing.T) {
	s := NewColorScheme(
		color.Lab{L: 0.8, A: 0, B: 0.5},
		color.Lab{L: 0.5, A: 0.5, B: 0},
		color.Lab{L: 0.2, A: 0, B: 0.5},
	)
	got := s.Sorted()
	if got[0].A != 0.5 || got[1].L != 0.2 || got[2].L != 0.8 {
		t.Errorf("unexpected order %v", got)
	}
}

func TestFitnessData_SampleSizesAndValues(t *testing.T) {
	white := color.MustHex("#ffffff")
	black := color.MustHex("#000000")
	gray := color.MustHex("#777777")

	d := fitness.NewDescription(3, []color.Lab{white, black})
	s := NewColorScheme(black, white, gray)

	data := s.FitnessData(d)

	lum := data[fitness.Luminance]
	if math.Abs(lum.Min) > 0.01 || math.Abs(lum.Max-100) > 0.01 {
		t.Errorf("unexpected luminance range %+v", lum)
	}

	chroma := data[fitness.Chroma]
	// Reference-white rounding in the Lab conversion leaves grays slightly chromatic
	if chroma.Max > 0.05 {
		t.Errorf("grays expected zero chroma, got %+v", chroma)
	}

	fixed := data[fitness.FixedDistance]
	if math.Abs(fixed.Min) > 1e-6 {
		t.Errorf("fixed colors equal to free ones expected distance 0, got %v", fixed.Min)
	}
	if math.Abs(fixed.Max-100) > 0.01 {
		t.Errorf("black/white distance expected 100, got %v", fixed.Max)
	}

	free := data[fitness.FreeDistance]
	if math.Abs(free.Max-100) > 0.01 || free.Min <= 0 {
		t.Errorf("unexpected free distances %+v", free)
	}
}

func TestFitnessData_SingleFreeColorHasNaNFreeDistance(t *testing.T) {
	d := fitness.NewDescription(1, []color.Lab{color.MustHex("#ffffff")},
		fitness.NewTarget(fitness.Maximizing(), fitness.Min, fitness.FreeDistance, fitness.DefaultStrength))
	s := NewColorScheme(color.MustHex("#336699"))

	data := s.FitnessData(d)
	free := data[fitness.FreeDistance]
	if !math.IsNaN(free.Mean) || !math.IsNaN(free.StdDev) || !math.IsNaN(free.Min) || !math.IsNaN(free.Max) {
		t.Errorf("expected NaN free distance stats, got %+v", free)
	}
	if fixed := data[fitness.FixedDistance]; math.IsNaN(fixed.Mean) {
		t.Error("fixed distance should be defined with one free color")
	}

	if got := NewProblem(d).Fitness(s); !math.IsNaN(got) {
		t.Errorf("fitness over an empty sample expected NaN, got %v", got)
	}
}

func TestFitnessData_NoFixedColors(t *testing.T) {
	d := fitness.NewDescription(2, nil)
	data := NewColorScheme(color.MustHex("#ff0000"), color.MustHex("#00ff00")).FitnessData(d)
	if !math.IsNaN(data[fitness.FixedDistance].Mean) {
		t.Error("expected NaN fixed distance without fixed colors")
	}
}

func defaultDescription() *fitness.Description {
	return fitness.NewDescription(4, []color.Lab{color.MustHex("#ffffff")},
		fitness.NewTarget(fitness.Approximating(33), fitness.Min, fitness.FreeDistance, fitness.Strength{Factor: 1, Exponent: 2}),
		fitness.NewTarget(fitness.Minimizing(), fitness.StdDev, fitness.FreeDistance, fitness.Strength{Factor: 1, Exponent: 2}),
		fitness.NewTarget(fitness.Approximating(30), fitness.Min, fitness.FixedDistance, fitness.Strength{Factor: 1, Exponent: 2}),
		fitness.NewTarget(fitness.Maximizing(), fitness.Mean, fitness.Chroma, fitness.DefaultStrength),
	)
}

func TestProblem_FitnessDeterministic(t *testing.T) {
	p := NewProblem(defaultDescription())
	s := RandomScheme(4, rand.New(rand.NewPCG(7, 7)))

	first := p.Fitness(s)
	for i := 0; i < 20; i++ {
		if got := p.Fitness(s.Clone()); got != first {
			t.Fatalf("fitness changed between evaluations: %v vs %v", first, got)
		}
	}

	var sum float64
	for _, row := range p.Breakdown(s) {
		sum += row.Score
	}
	if sum != first {
		t.Errorf("breakdown sum %v differs from fitness %v", sum, first)
	}
}

func TestProblem_SnapshotsDescription(t *testing.T) {
	d := defaultDescription()
	p := NewProblem(d)
	d.FreeColorCount = 9

	if got := len(p.Random(rand.New(rand.NewPCG(1, 1))).FreeColors); got != 4 {
		t.Errorf("problem followed caller edits, got %d colors", got)
	}
}

func TestPopulation_DeterministicRun(t *testing.T) {
	cfg := genetic.DefaultConfig()
	cfg.Size = 30
	cfg.Parallelism = 4

	run := func() ([]float64, ColorScheme) {
		pop, err := NewPopulation(defaultDescription(), cfg, rand.New(rand.NewPCG(2024, 1)))
		if err != nil {
			t.Fatal(err)
		}
		var trace []float64
		var best ColorScheme
		for i := 0; i < 40; i++ {
			g := pop.NextGeneration(1 - float64(i)/40)
			trace = append(trace, g.Best.Score)
			best = g.Best.Data
		}
		return trace, best
	}

	t1, b1 := run()
	t2, b2 := run()
	if !reflect.DeepEqual(t1, t2) || !reflect.DeepEqual(b1, b2) {
		t.Error("identical seeds produced different runs")
	}
	for i := 1; i < len(t1); i++ {
		if t1[i] < t1[i-1] {
			t.Errorf("elitist best fitness regressed at generation %d: %v -> %v", i, t1[i-1], t1[i])
		}
	}
}

func TestNewPopulation_RejectsInvalidDescription(t *testing.T) {
	if _, err := NewPopulation(fitness.NewDescription(0, nil), genetic.DefaultConfig(), rand.New(rand.NewPCG(1, 1))); err == nil {
		t.Error("expected error for zero free colors")
	}
}

package fitness

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lixenwraith/hueforge/color"
)

// ErrInvalidDescription is wrapped by every Description validation failure
var ErrInvalidDescription = errors.New("invalid problem description")

// Description is the palette problem: how many colors to evolve, which colors
// are fixed context, and the objectives a palette is scored against
type Description struct {
	FreeColorCount int
	FixedColors    []color.Lab
	Targets        map[Key]Target
}

// NewDescription builds a Description; later targets replace earlier ones on the same key
func NewDescription(freeColorCount int, fixed []color.Lab, targets ...Target) *Description {
	d := &Description{
		FreeColorCount: freeColorCount,
		FixedColors:    slices.Clone(fixed),
		Targets:        make(map[Key]Target, len(targets)),
	}
	for _, t := range targets {
		d.Set(t)
	}
	return d
}

// Set installs t, replacing any target with the same key
func (d *Description) Set(t Target) {
	if d.Targets == nil {
		d.Targets = make(map[Key]Target)
	}
	d.Targets[t.Key()] = t
}

// Remove deletes the target at k, reporting whether one existed
func (d *Description) Remove(k Key) bool {
	if _, ok := d.Targets[k]; !ok {
		return false
	}
	delete(d.Targets, k)
	return true
}

// Clone returns a deep copy
func (d *Description) Clone() *Description {
	c := &Description{
		FreeColorCount: d.FreeColorCount,
		FixedColors:    slices.Clone(d.FixedColors),
		Targets:        make(map[Key]Target, len(d.Targets)),
	}
	for k, t := range d.Targets {
		c.Targets[k] = t
	}
	return c
}

// Validate rejects descriptions the engine cannot evolve
func (d *Description) Validate() error {
	if d.FreeColorCount < 1 {
		return fmt.Errorf("%w: free color count must be at least 1, got %d", ErrInvalidDescription, d.FreeColorCount)
	}
	for k, t := range d.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
		if t.Key() != k {
			return fmt.Errorf("%w: target %s stored under key %s", ErrInvalidDescription, t, k)
		}
	}
	return nil
}

// OrderedTargets returns targets sorted by parameter, then stat
func (d *Description) OrderedTargets() []Target {
	out := make([]Target, 0, len(d.Targets))
	for _, t := range d.Targets {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Target) int {
		ka, kb := a.Key(), b.Key()
		switch {
		case ka.less(kb):
			return -1
		case kb.less(ka):
			return 1
		}
		return 0
	})
	return out
}

// Fitness sums every target's contribution over data.
// Summation follows OrderedTargets so results are bit-reproducible.
func (d *Description) Fitness(data FitnessData) float64 {
	var total float64
	for _, t := range d.OrderedTargets() {
		total += t.Calculate(data)
	}
	return total
}

// Contribution is one row of a fitness breakdown
type Contribution struct {
	Target Target
	Value  float64
	Score  float64
}

// Breakdown returns each target's measured value and contribution
func (d *Description) Breakdown(data FitnessData) []Contribution {
	targets := d.OrderedTargets()
	rows := make([]Contribution, len(targets))
	for i, t := range targets {
		rows[i] = Contribution{Target: t, Value: t.Value(data), Score: t.Calculate(data)}
	}
	return rows
}

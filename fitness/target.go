package fitness

import (
	"fmt"
	"math"
)

// DirectionKind is the optimization sense of a Target
type DirectionKind int

const (
	Maximize DirectionKind = iota
	Minimize
	Approximate
)

// Direction is a DirectionKind with the goal value used by Approximate
type Direction struct {
	Kind  DirectionKind
	Value float64
}

// Maximizing returns the Maximize direction
func Maximizing() Direction { return Direction{Kind: Maximize} }

// Minimizing returns the Minimize direction
func Minimizing() Direction { return Direction{Kind: Minimize} }

// Approximating returns the Approximate direction towards goal
func Approximating(goal float64) Direction {
	return Direction{Kind: Approximate, Value: goal}
}

func (d Direction) String() string {
	switch d.Kind {
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	case Approximate:
		return fmt.Sprintf("approximate %g", d.Value)
	}
	return fmt.Sprintf("Direction(%d)", int(d.Kind))
}

// Strength shapes a target's contribution as (Factor*v)^Exponent.
// Sign of Factor and parity of Exponent together decide whether the term
// rewards or penalizes.
type Strength struct {
	Factor   float64
	Exponent int
}

// DefaultStrength is factor 1, exponent 1
var DefaultStrength = Strength{Factor: 1, Exponent: 1}

// Apply evaluates the strength curve at v. NaN stays NaN for every exponent.
func (s Strength) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Pow(s.Factor*v, float64(s.Exponent))
}

// Key identifies a target slot in a Description; one target per key
type Key struct {
	Stat      Stat
	Parameter Parameter
}

func (k Key) String() string {
	return k.Stat.String() + " " + k.Parameter.String()
}

// less orders keys by parameter, then stat
func (k Key) less(o Key) bool {
	if k.Parameter != o.Parameter {
		return k.Parameter < o.Parameter
	}
	return k.Stat < o.Stat
}

// Target is one weighted objective over a statistic of a parameter
type Target struct {
	Direction Direction
	Stat      Stat
	Parameter Parameter
	Strength  Strength
}

// NewTarget builds a Target
func NewTarget(direction Direction, s Stat, p Parameter, strength Strength) Target {
	return Target{Direction: direction, Stat: s, Parameter: p, Strength: strength}
}

// Key returns the slot this target occupies
func (t Target) Key() Key {
	return Key{Stat: t.Stat, Parameter: t.Parameter}
}

// Value extracts the measured aggregate from data
func (t Target) Value(data FitnessData) float64 {
	return data.Value(t.Parameter, t.Stat)
}

// Calculate returns the target's fitness contribution:
// maximize +s(v), minimize -s(v), approximate -s(|goal-v|)
func (t Target) Calculate(data FitnessData) float64 {
	value := t.Value(data)
	switch t.Direction.Kind {
	case Maximize:
		return t.Strength.Apply(value)
	case Minimize:
		return -t.Strength.Apply(value)
	case Approximate:
		return -t.Strength.Apply(math.Abs(t.Direction.Value - value))
	}
	return math.NaN()
}

// Validate checks the enum fields
func (t Target) Validate() error {
	if !t.Stat.Valid() {
		return fmt.Errorf("%w: invalid stat %d", ErrInvalidDescription, int(t.Stat))
	}
	if !t.Parameter.Valid() {
		return fmt.Errorf("%w: invalid parameter %d", ErrInvalidDescription, int(t.Parameter))
	}
	if t.Direction.Kind < Maximize || t.Direction.Kind > Approximate {
		return fmt.Errorf("%w: invalid direction %d", ErrInvalidDescription, int(t.Direction.Kind))
	}
	if math.IsNaN(t.Direction.Value) || math.IsNaN(t.Strength.Factor) {
		return fmt.Errorf("%w: target %s has NaN coefficients", ErrInvalidDescription, t.Key())
	}
	return nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s %s %s (x%g)^%d", t.Direction, t.Stat, t.Parameter, t.Strength.Factor, t.Strength.Exponent)
}

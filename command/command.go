// Package command parses live-tuning lines into actions on a problem description
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/hueforge/color"
	"github.com/lixenwraith/hueforge/fitness"
)

// ErrSyntax is wrapped by every parse failure
var ErrSyntax = errors.New("syntax error")

// Kind enumerates the actions a line can produce
type Kind int

const (
	SetTarget Kind = iota
	RemoveTarget
	SetFreeColorCount
	SetFixedColors
)

func (k Kind) String() string {
	switch k {
	case SetTarget:
		return "set-target"
	case RemoveTarget:
		return "remove-target"
	case SetFreeColorCount:
		return "set-free-color-count"
	case SetFixedColors:
		return "set-fixed-colors"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Action is one well-formed configuration change. Only the field matching
// Kind is meaningful.
type Action struct {
	Kind   Kind
	Target fitness.Target
	Key    fitness.Key
	Count  int
	Colors []color.Lab
}

// Structural reports whether applying the action invalidates existing genotypes
func (a Action) Structural() bool {
	return a.Kind == SetFreeColorCount || a.Kind == SetFixedColors
}

// Apply performs the action on d. d is left untouched on error.
func (a Action) Apply(d *fitness.Description) error {
	switch a.Kind {
	case SetTarget:
		if err := a.Target.Validate(); err != nil {
			return err
		}
		d.Set(a.Target)
	case RemoveTarget:
		if !d.Remove(a.Key) {
			return fmt.Errorf("no target on %s", a.Key)
		}
	case SetFreeColorCount:
		if a.Count < 1 {
			return fmt.Errorf("%w: count must be at least 1", fitness.ErrInvalidDescription)
		}
		d.FreeColorCount = a.Count
	case SetFixedColors:
		d.FixedColors = append([]color.Lab(nil), a.Colors...)
	default:
		return fmt.Errorf("unknown action %s", a.Kind)
	}
	return nil
}

func (a Action) String() string {
	switch a.Kind {
	case SetTarget:
		return "target " + Format(a.Target)
	case RemoveTarget:
		return "remove " + a.Key.String()
	case SetFreeColorCount:
		return fmt.Sprintf("freecolorcount %d", a.Count)
	case SetFixedColors:
		hex := make([]string, len(a.Colors))
		for i, c := range a.Colors {
			hex[i] = c.Hex()
		}
		return "fixedcolors " + strings.Join(hex, " ")
	}
	return a.Kind.String()
}

// Format renders t as a target line Parse accepts
func Format(t fitness.Target) string {
	dir := t.Direction.String()
	if t.Direction.Kind == fitness.Approximate {
		dir = "approximate " + strconv.FormatFloat(t.Direction.Value, 'g', -1, 64)
	}
	return fmt.Sprintf("%s %s %s %s %d", dir, t.Stat, t.Parameter,
		strconv.FormatFloat(t.Strength.Factor, 'g', -1, 64), t.Strength.Exponent)
}

func syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

// Parse converts one whitespace-separated line into an Action:
//
//	[target] <minimize|maximize|approximate <float>> <stat> <parameter> [<factor> [<exponent>]]
//	remove <stat> <parameter>
//	freecolorcount <n>
//	fixedcolors <#rrggbb>...
func Parse(line string) (Action, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Action{}, syntaxErr("expected action")
	}

	switch words[0] {
	case "target":
		return parseTarget(words[1:])
	case "minimize", "maximize", "approximate":
		return parseTarget(words)
	case "remove":
		return parseRemove(words[1:])
	case "freecolorcount":
		return parseCount(words[1:])
	case "fixedcolors":
		return parseColors(words[1:])
	}
	return Action{}, syntaxErr("action %q not recognized", words[0])
}

// ParseTarget parses the target form without the optional "target" prefix
func ParseTarget(line string) (fitness.Target, error) {
	a, err := parseTarget(strings.Fields(line))
	if err != nil {
		return fitness.Target{}, err
	}
	return a.Target, nil
}

func parseTarget(words []string) (Action, error) {
	next := func(what string) (string, error) {
		if len(words) == 0 {
			return "", syntaxErr("expected %s", what)
		}
		w := words[0]
		words = words[1:]
		return w, nil
	}

	dirWord, err := next("minimize, maximize or approximate")
	if err != nil {
		return Action{}, err
	}

	var direction fitness.Direction
	switch dirWord {
	case "minimize":
		direction = fitness.Minimizing()
	case "maximize":
		direction = fitness.Maximizing()
	case "approximate":
		w, err := next("float after approximate")
		if err != nil {
			return Action{}, err
		}
		goal, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return Action{}, syntaxErr("expected float after approximate, got %q", w)
		}
		direction = fitness.Approximating(goal)
	default:
		return Action{}, syntaxErr("expected minimize, maximize or approximate, got %q", dirWord)
	}

	key, rest, err := parseKey(words)
	if err != nil {
		return Action{}, err
	}
	words = rest

	strength := fitness.DefaultStrength
	if len(words) > 0 {
		f, err := strconv.ParseFloat(words[0], 64)
		if err != nil {
			return Action{}, syntaxErr("expected float factor, got %q", words[0])
		}
		strength.Factor = f
		words = words[1:]
	}
	if len(words) > 0 {
		e, err := strconv.Atoi(words[0])
		if err != nil {
			return Action{}, syntaxErr("expected integer exponent, got %q", words[0])
		}
		strength.Exponent = e
		words = words[1:]
	}
	if len(words) > 0 {
		return Action{}, syntaxErr("unexpected trailing input %q", strings.Join(words, " "))
	}

	target := fitness.NewTarget(direction, key.Stat, key.Parameter, strength)
	return Action{Kind: SetTarget, Target: target, Key: key}, nil
}

func parseKey(words []string) (fitness.Key, []string, error) {
	if len(words) == 0 {
		return fitness.Key{}, nil, syntaxErr("expected mean, stddev, min or max")
	}
	s, err := fitness.ParseStat(words[0])
	if err != nil {
		return fitness.Key{}, nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if len(words) < 2 {
		return fitness.Key{}, nil, syntaxErr("expected chroma, luminance, freedist or fixeddist")
	}
	p, err := fitness.ParseParameter(words[1])
	if err != nil {
		return fitness.Key{}, nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return fitness.Key{Stat: s, Parameter: p}, words[2:], nil
}

func parseRemove(words []string) (Action, error) {
	key, rest, err := parseKey(words)
	if err != nil {
		return Action{}, err
	}
	if len(rest) > 0 {
		return Action{}, syntaxErr("unexpected trailing input %q", strings.Join(rest, " "))
	}
	return Action{Kind: RemoveTarget, Key: key}, nil
}

func parseCount(words []string) (Action, error) {
	if len(words) != 1 {
		return Action{}, syntaxErr("expected a single integer count")
	}
	n, err := strconv.Atoi(words[0])
	if err != nil {
		return Action{}, syntaxErr("expected int, got %q", words[0])
	}
	if n < 1 {
		return Action{}, syntaxErr("count must be at least 1")
	}
	return Action{Kind: SetFreeColorCount, Count: n}, nil
}

func parseColors(words []string) (Action, error) {
	colors := make([]color.Lab, 0, len(words))
	for _, w := range words {
		c, err := color.ParseHex(w)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
		colors = append(colors, c)
	}
	return Action{Kind: SetFixedColors, Colors: colors}, nil
}

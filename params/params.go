// Package params declares the tunable parameters of a strategy. A Set is
// the whole tunability contract: every knob that can change behaviour is a
// declared Parameter with a kind, a valid range or value set, a default and
// a tuning space.
package params

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrDuplicate        = errors.New("duplicate parameter")
	ErrOutOfRange       = errors.New("value out of range")
	ErrKindMismatch     = errors.New("value does not match parameter kind")
)

// Kind is the value type of a Parameter.
type Kind int

const (
	KindInt Kind = iota
	KindDecimal
	KindBool
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalYAML renders the kind by name.
func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// Space tags the optimizer search space a parameter belongs to.
type Space string

const (
	SpaceBuy        Space = "buy"
	SpaceSell       Space = "sell"
	SpaceProtection Space = "protection"
)

// Parameter is one declared tunable value. Value holds an int, float64,
// bool or one of Choices depending on Kind.
type Parameter struct {
	Name     string        `yaml:"name"`
	Kind     Kind          `yaml:"kind"`
	Min      float64       `yaml:"min,omitempty"`
	Max      float64       `yaml:"max,omitempty"`
	Decimals int           `yaml:"decimals,omitempty"`
	Choices  []interface{} `yaml:"choices,omitempty"`
	Default  interface{}   `yaml:"default"`
	Value    interface{}   `yaml:"value"`
	Space    Space         `yaml:"space"`
	Optimize bool          `yaml:"optimize"`
}

// Int declares an integer parameter in [min, max].
func Int(name string, min, max, def int, space Space, optimize bool) Parameter {
	return Parameter{
		Name: name, Kind: KindInt,
		Min: float64(min), Max: float64(max),
		Default: def, Value: def,
		Space: space, Optimize: optimize,
	}
}

// Decimal declares a decimal parameter in [min, max] rounded to decimals.
func Decimal(name string, min, max float64, decimals int, def float64, space Space, optimize bool) Parameter {
	def = round(def, decimals)
	return Parameter{
		Name: name, Kind: KindDecimal,
		Min: min, Max: max, Decimals: decimals,
		Default: def, Value: def,
		Space: space, Optimize: optimize,
	}
}

// Bool declares a boolean parameter.
func Bool(name string, def bool, space Space, optimize bool) Parameter {
	return Parameter{
		Name: name, Kind: KindBool,
		Default: def, Value: def,
		Space: space, Optimize: optimize,
	}
}

// Categorical declares a parameter restricted to choices.
func Categorical(name string, choices []interface{}, def interface{}, space Space, optimize bool) Parameter {
	return Parameter{
		Name: name, Kind: KindCategorical,
		Choices: append([]interface{}(nil), choices...),
		Default: def, Value: def,
		Space: space, Optimize: optimize,
	}
}

// Validate checks that the current value respects the declaration.
func (p Parameter) Validate() error {
	_, err := p.coerce(p.Value)
	return err
}

// coerce converts v to the canonical Go type for p.Kind and checks it
// against the declared range or value set.
func (p Parameter) coerce(v interface{}) (interface{}, error) {
	switch p.Kind {
	case KindInt:
		f, ok := number(v)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%s: %w: want int, got %T(%v)", p.Name, ErrKindMismatch, v, v)
		}
		if f < p.Min || f > p.Max {
			return nil, fmt.Errorf("%s: %w: %v not in [%v, %v]", p.Name, ErrOutOfRange, f, p.Min, p.Max)
		}
		return int(f), nil
	case KindDecimal:
		f, ok := number(v)
		if !ok || math.IsNaN(f) {
			return nil, fmt.Errorf("%s: %w: want decimal, got %T(%v)", p.Name, ErrKindMismatch, v, v)
		}
		f = round(f, p.Decimals)
		if f < p.Min || f > p.Max {
			return nil, fmt.Errorf("%s: %w: %v not in [%v, %v]", p.Name, ErrOutOfRange, f, p.Min, p.Max)
		}
		return f, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: %w: want bool, got %T(%v)", p.Name, ErrKindMismatch, v, v)
		}
		return b, nil
	case KindCategorical:
		for _, c := range p.Choices {
			if sameChoice(c, v) {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%s: %w: %v not in %v", p.Name, ErrOutOfRange, v, p.Choices)
	default:
		return nil, fmt.Errorf("%s: %w: unsupported kind %s", p.Name, ErrKindMismatch, p.Kind)
	}
}

func round(f float64, decimals int) float64 {
	if decimals <= 0 {
		return f
	}
	return decimal.NewFromFloat(f).Round(int32(decimals)).InexactFloat64()
}

// number accepts the numeric shapes produced by Go code and YAML decoding.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sameChoice(choice, v interface{}) bool {
	cf, cok := number(choice)
	vf, vok := number(v)
	if cok && vok {
		return cf == vf
	}
	return choice == v
}

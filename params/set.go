package params

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Set is an ordered collection of declared parameters. A Set is mutated
// only between runs (by Override); give each concurrent run its own Clone.
type Set struct {
	params []Parameter
	index  map[string]int
}

// NewSet declares ps in order.
func NewSet(ps ...Parameter) (*Set, error) {
	s := &Set{index: make(map[string]int, len(ps))}
	if err := s.Declare(ps...); err != nil {
		return nil, err
	}
	return s, nil
}

// Declare appends parameters, rejecting duplicates and invalid defaults.
func (s *Set) Declare(ps ...Parameter) error {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	for _, p := range ps {
		if _, dup := s.index[p.Name]; dup {
			return fmt.Errorf("%s: %w", p.Name, ErrDuplicate)
		}
		if _, err := p.coerce(p.Default); err != nil {
			return fmt.Errorf("declare default: %w", err)
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, p)
	}
	return nil
}

// Validate reports every parameter whose value violates its declaration.
func (s *Set) Validate() error {
	var err error
	for _, p := range s.params {
		err = multierr.Append(err, p.Validate())
	}
	return err
}

// Override sets the value of name. It is the only way an optimizer
// changes a Set; invalid values are rejected and leave the Set untouched.
func (s *Set) Override(name string, v interface{}) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownParameter)
	}
	cv, err := s.params[i].coerce(v)
	if err != nil {
		return err
	}
	s.params[i].Value = cv
	return nil
}

// Reset restores every parameter to its default.
func (s *Set) Reset() {
	for i := range s.params {
		s.params[i].Value = s.params[i].Default
	}
}

// Get returns a copy of the named parameter.
func (s *Set) Get(name string) (Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// All returns copies of every parameter in declaration order.
func (s *Set) All() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Optimizable lists the parameters of space the optimizer may adjust.
// An empty space matches every space.
func (s *Set) Optimizable(space Space) []Parameter {
	var out []Parameter
	for _, p := range s.params {
		if p.Optimize && (space == "" || p.Space == space) {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{
		params: make([]Parameter, len(s.params)),
		index:  make(map[string]int, len(s.index)),
	}
	for i, p := range s.params {
		p.Choices = append([]interface{}(nil), p.Choices...)
		c.params[i] = p
		c.index[p.Name] = i
	}
	return c
}

func (s *Set) value(name string, kinds ...Kind) (interface{}, error) {
	p, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownParameter)
	}
	for _, k := range kinds {
		if p.Kind == k {
			return p.Value, nil
		}
	}
	return nil, fmt.Errorf("%s: %w: is %s", name, ErrKindMismatch, p.Kind)
}

// Int returns the value of an int (or numeric categorical) parameter.
func (s *Set) Int(name string) (int, error) {
	v, err := s.value(name, KindInt, KindCategorical)
	if err != nil {
		return 0, err
	}
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %T is not numeric", name, ErrKindMismatch, v)
	}
	return int(f), nil
}

// Float returns the value of a decimal or int parameter.
func (s *Set) Float(name string) (float64, error) {
	v, err := s.value(name, KindDecimal, KindInt)
	if err != nil {
		return 0, err
	}
	f, _ := number(v)
	return f, nil
}

// Bool returns the value of a bool parameter.
func (s *Set) Bool(name string) (bool, error) {
	v, err := s.value(name, KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Choice returns the value of a categorical parameter.
func (s *Set) Choice(name string) (interface{}, error) {
	return s.value(name, KindCategorical)
}

// Overlay is a set of values grouped by space, the layout of a
// parameter file:
//
//	buy:
//	  buy_rsi: 28
//	sell:
//	  trailing_stop: 0.04
type Overlay map[Space]map[string]interface{}

// ApplyOverlay overrides every value in o. All problems are reported
// together; on error the Set is left unchanged.
func (s *Set) ApplyOverlay(o Overlay) error {
	staged := s.Clone()
	var err error
	for space, values := range o {
		for name, v := range values {
			p, ok := staged.Get(name)
			if !ok {
				err = multierr.Append(err, fmt.Errorf("%s: %w", name, ErrUnknownParameter))
				continue
			}
			if p.Space != space {
				err = multierr.Append(err, fmt.Errorf("%s: declared in space %q, found under %q", name, p.Space, space))
				continue
			}
			err = multierr.Append(err, staged.Override(name, v))
		}
	}
	if err != nil {
		return err
	}
	s.params = staged.params
	s.index = staged.index
	return nil
}

// LoadOverlay reads a YAML parameter file and applies it.
func (s *Set) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read params: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	if err := s.ApplyOverlay(o); err != nil {
		return fmt.Errorf("apply params %s: %w", path, err)
	}
	return nil
}

// Current returns the current values as an Overlay, suitable for writing
// back to a parameter file.
func (s *Set) Current() Overlay {
	o := Overlay{}
	for _, p := range s.params {
		if o[p.Space] == nil {
			o[p.Space] = map[string]interface{}{}
		}
		o[p.Space][p.Name] = p.Value
	}
	return o
}

// MarshalYAML renders the full declaration list.
func (s *Set) MarshalYAML() (interface{}, error) {
	return s.params, nil
}

// Package config loads animation definitions from YAML and builds animators
// from them.
//
// A definition lists states with their frames and the transitions between
// them. Transition conditions are written as starlark expressions over the
// definition's parameters, or name a Go predicate registered with WithGuard.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnyState is the "from" value matching every state.
const AnyState = "*"

var (
	ErrInvalidDefinition = errors.New("invalid animation definition")
	ErrInvalidCondition  = errors.New("invalid condition")
	ErrUnknownGuard      = errors.New("unknown guard")
)

// Definition is the root of an animation file.
type Definition struct {
	Version     string          `yaml:"version,omitempty"`
	ID          string          `yaml:"id" validate:"required"`
	Initial     string          `yaml:"initial" validate:"required"`
	Parameters  Params          `yaml:"parameters,omitempty"`
	States      []StateDef      `yaml:"states" validate:"required,min=1,dive"`
	Transitions []TransitionDef `yaml:"transitions,omitempty" validate:"dive"`
}

// StateDef declares one state and its frames.
type StateDef struct {
	Name     string     `yaml:"name" validate:"required"`
	Duration float64    `yaml:"duration" validate:"gte=0"`
	Repeat   bool       `yaml:"repeat,omitempty"`
	Frames   []FrameDef `yaml:"frames"`
}

// FrameDef is a frame threshold and the sprite index shown from it.
type FrameDef struct {
	Progress float64 `yaml:"progress"`
	Value    int     `yaml:"value"`
}

// TransitionDef declares a rule. Exactly one of On, When and Guard is set.
type TransitionDef struct {
	From  string `yaml:"from" validate:"required"`
	To    string `yaml:"to" validate:"required"`
	On    string `yaml:"on,omitempty" validate:"omitempty,oneof=end"`
	When  string `yaml:"when,omitempty"`
	Guard string `yaml:"guard,omitempty"`
}

// Params is the parameter set of animators built from a Definition.
type Params map[string]any

// Clone returns a deep copy of p: nested maps and lists are copied too. A
// nil Params clones to an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Params:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

// Parse decodes and validates a definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// State returns the state named name.
func (d *Definition) State(name string) (StateDef, bool) {
	for _, s := range d.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateDef{}, false
}

// Trigger returns "end", "when" or "guard" for a validated transition.
func (t TransitionDef) Trigger() string {
	switch {
	case t.On != "":
		return "end"
	case t.When != "":
		return "when"
	case t.Guard != "":
		return "guard"
	}
	return ""
}

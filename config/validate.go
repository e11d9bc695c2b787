package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the definition's structure:
//   - required fields are present and durations are non-negative
//   - state names are unique
//   - initial and every transition endpoint name a declared state
//   - every transition has exactly one trigger
//
// Frame lists are checked when the definition is built.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fieldPath(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	names := make(map[string]bool, len(d.States))
	for i, s := range d.States {
		if s.Name == AnyState {
			return fmt.Errorf("%w: states[%d]: %q is reserved", ErrInvalidDefinition, i, AnyState)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: duplicate state %q", ErrInvalidDefinition, s.Name)
		}
		names[s.Name] = true
	}

	if !names[d.Initial] {
		return fmt.Errorf("%w: initial state %q not found in states", ErrInvalidDefinition, d.Initial)
	}

	for i, t := range d.Transitions {
		if t.From != AnyState && !names[t.From] {
			return fmt.Errorf("%w: transitions[%d]: unknown from state %q", ErrInvalidDefinition, i, t.From)
		}
		if !names[t.To] {
			return fmt.Errorf("%w: transitions[%d]: unknown to state %q", ErrInvalidDefinition, i, t.To)
		}
		set := 0
		for _, v := range []string{t.On, t.When, t.Guard} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("%w: transitions[%d]: exactly one of on, when, guard is required", ErrInvalidDefinition, i)
		}
	}
	return nil
}

// Unreachable returns the states that no chain of transitions leads to from
// the initial state, in declaration order.
func (d *Definition) Unreachable() []string {
	seen := map[string]bool{d.Initial: true}
	queue := []string{d.Initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range d.Transitions {
			if (t.From == cur || t.From == AnyState) && !seen[t.To] {
				seen[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}

	var out []string
	for _, s := range d.States {
		if !seen[s.Name] {
			out = append(out, s.Name)
		}
	}
	return out
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

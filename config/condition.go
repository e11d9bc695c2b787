package config

import (
	"fmt"

	"facette.io/natsort"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Condition is a compiled "when:" expression.
type Condition struct {
	src    string
	logger zerolog.Logger
}

// CompileCondition parses src as a starlark expression and dry-runs it
// against params. The expression must evaluate to a bool.
func CompileCondition(src string, params Params, logger zerolog.Logger) (*Condition, error) {
	if _, err := syntax.ParseExpr("when", src, 0); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidCondition, src, err)
	}
	c := &Condition{src: src, logger: logger}
	if _, err := c.Eval(params); err != nil {
		return nil, err
	}
	return c, nil
}

// Eval evaluates the condition with each parameter bound as a global.
func (c *Condition) Eval(params Params) (bool, error) {
	env, err := paramsEnv(params)
	if err != nil {
		return false, fmt.Errorf("%w %q: %v", ErrInvalidCondition, c.src, err)
	}
	thread := &starlark.Thread{
		Name:  "when",
		Print: func(*starlark.Thread, string) {},
	}
	v, err := starlark.Eval(thread, "when", c.src, env)
	if err != nil {
		return false, fmt.Errorf("%w %q: %v", ErrInvalidCondition, c.src, err)
	}
	b, ok := v.(starlark.Bool)
	if !ok {
		return false, fmt.Errorf("%w %q: got %s, want bool", ErrInvalidCondition, c.src, v.Type())
	}
	return bool(b), nil
}

// Predicate adapts the condition to a transition trigger. Evaluation errors
// are logged and read as false.
func (c *Condition) Predicate() func(Params) bool {
	return func(p Params) bool {
		ok, err := c.Eval(p)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Condition evaluation failed")
			return false
		}
		return ok
	}
}

func (c *Condition) String() string { return c.src }

func paramsEnv(params Params) (starlark.StringDict, error) {
	env := make(starlark.StringDict, len(params))
	for k, v := range params {
		sv, err := toStarlarkValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		env[k] = sv
	}
	return env, nil
}

func toStarlarkValue(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case uint64:
		return starlark.MakeUint64(val), nil
	case float64:
		return starlark.Float(val), nil
	case float32:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := toStarlarkValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil
	case Params:
		return toStarlarkValue(map[string]any(val))
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		natsort.Sort(keys)
		dict := starlark.NewDict(len(val))
		for _, k := range keys {
			sv, err := toStarlarkValue(val[k])
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

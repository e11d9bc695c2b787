// Package benchmarks provides performance benchmarks for the animation
// state machine, frame lookup, definition loading and the realtime runtime.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/spritefsm"
	"github.com/comalice/spritefsm/builder"
	"github.com/comalice/spritefsm/config"
)

// Params is the parameter set used by generated machines.
type Params struct {
	Speed float64
	Mode  int
}

func stateKey(i int) string { return fmt.Sprintf("s%d", i) }

// GenCycle creates numStates non-repeating states of duration d, each
// leaving for the next on completion, the last returning to the first.
func GenCycle(numStates int, d float64) *spritefsm.StateMachine[string, Params] {
	if numStates < 2 {
		numStates = 2
	}
	b := spritefsm.NewMachineBuilder[string, Params](stateKey(0), Params{})
	for i := 0; i < numStates; i++ {
		b.State(stateKey(i), d, false)
	}
	for i := 0; i < numStates; i++ {
		b.OnEnd(stateKey(i), stateKey((i+1)%numStates))
	}
	return mustBuild(b)
}

// GenWideRules creates one main state with numRules outgoing condition
// rules. Only the last one can fire, so every evaluation scans them all.
func GenWideRules(numRules int) *spritefsm.StateMachine[string, Params] {
	if numRules < 1 {
		numRules = 1
	}
	b := spritefsm.NewMachineBuilder[string, Params]("main", Params{}).
		State("main", 1, true)
	for i := 0; i < numRules; i++ {
		target := stateKey(i)
		b.State(target, 1, true)
		want := i
		b.When("main", target, func(p Params) bool { return p.Mode == want+1 && want == numRules-1 })
		b.When(target, "main", func(p Params) bool { return p.Mode == 0 })
	}
	return mustBuild(b)
}

// GenChain creates a machine whose first parameter change hops through
// depth states in one call.
func GenChain(depth int) *spritefsm.StateMachine[string, Params] {
	if depth < 1 {
		depth = 1
	}
	b := spritefsm.NewMachineBuilder[string, Params]("rest", Params{}).
		State("rest", 1, true).
		When("rest", stateKey(0), func(p Params) bool { return p.Speed > 0 })
	for i := 0; i < depth; i++ {
		b.State(stateKey(i), 1, true)
		if i+1 < depth {
			b.When(stateKey(i), stateKey(i+1), func(p Params) bool { return p.Speed > 0 })
		}
	}
	b.AnyWhen("rest", func(p Params) bool { return p.Speed == 0 })
	return mustBuild(b)
}

// GenAnimator wraps GenCycle with framesPerState evenly spread frames.
func GenAnimator(numStates, framesPerState int) *spritefsm.Animator[string, Params, int] {
	sm := GenCycle(numStates, 0.5)
	frames := make(map[string][]spritefsm.Frame[int], numStates)
	for i, key := range sm.States() {
		frames[key] = builder.SpriteRange(i*framesPerState, framesPerState)
	}
	anim, err := spritefsm.NewAnimator(sm, frames)
	if err != nil {
		panic(err)
	}
	return anim
}

// GenDefinition returns a cycle definition with numStates states.
func GenDefinition(numStates int) *config.Definition {
	def := &config.Definition{
		ID:         fmt.Sprintf("cycle_%d", numStates),
		Initial:    stateKey(0),
		Parameters: config.Params{"speed": 0.0},
	}
	for i := 0; i < numStates; i++ {
		def.States = append(def.States, config.StateDef{
			Name:     stateKey(i),
			Duration: 0.5,
			Frames:   []config.FrameDef{{Progress: 0, Value: 2 * i}, {Progress: 0.5, Value: 2*i + 1}},
		})
		def.Transitions = append(def.Transitions, config.TransitionDef{
			From: stateKey(i),
			To:   stateKey((i + 1) % numStates),
			On:   "end",
		}, config.TransitionDef{
			From: stateKey(i),
			To:   stateKey((i + 2) % numStates),
			When: "speed > 1",
		})
	}
	return def
}

// GenDefinitionYAML marshals GenDefinition.
func GenDefinitionYAML(numStates int) []byte {
	data, err := yaml.Marshal(GenDefinition(numStates))
	if err != nil {
		panic(err)
	}
	return data
}

func mustBuild(b *spritefsm.MachineBuilder[string, Params]) *spritefsm.StateMachine[string, Params] {
	sm, err := b.Build()
	if err != nil {
		panic(err)
	}
	return sm
}

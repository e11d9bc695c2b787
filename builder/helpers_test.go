package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/spritefsm"
)

type params struct{ On bool }

func on(p params) bool { return p.On }

func TestTransitionHelpers(t *testing.T) {
	sm, err := spritefsm.NewStateMachine("a",
		map[string]spritefsm.State{
			"a": {Duration: 1, Repeat: true},
			"b": {Duration: 0.5},
			"c": {Duration: 1, Repeat: true},
		},
		[]spritefsm.Transition[string, params]{
			When("a", "b", on),
			OnEnd[string, params]("b", "c"),
			AnyWhen("a", func(p params) bool { return !p.On }),
			AnyOnEnd[string, params]("a"),
		},
		params{},
	)
	require.NoError(t, err)

	sm.SetParameters(params{On: true})
	assert.Equal(t, "b", sm.State().Key)

	sm.Update(0.5)
	assert.Equal(t, "c", sm.State().Key)

	sm.SetParameters(params{})
	assert.Equal(t, "a", sm.State().Key)

	tr := AnyOnEnd[string, params]("a")
	assert.True(t, tr.Start.Any)
	assert.True(t, tr.Trigger.IsOnEnd())
	assert.Equal(t, "*", tr.Start.String())

	tr = When("a", "b", on)
	assert.Equal(t, "a", tr.Start.String())
	assert.True(t, tr.Trigger.IsCondition())
}

func TestEvenFrames(t *testing.T) {
	frames := EvenFrames("a", "b", "c", "d")
	require.Len(t, frames, 4)
	for i, f := range frames {
		assert.Equal(t, float64(i)/4, f.Progress)
	}
	assert.Equal(t, "d", frames[3].Value)

	assert.Empty(t, EvenFrames[int]())
}

func TestFrames(t *testing.T) {
	frames := Frames[string](0, "a", 0.25, "b", float32(0.5), "c")
	assert.Equal(t, []spritefsm.Frame[string]{
		{Progress: 0, Value: "a"},
		{Progress: 0.25, Value: "b"},
		{Progress: 0.5, Value: "c"},
	}, frames)

	assert.Panics(t, func() { Frames[string](0, "a", 0.5) })
	assert.Panics(t, func() { Frames[string]("0", "a") })
	assert.Panics(t, func() { Frames[string](0, 1) })
}

func TestSpriteRange(t *testing.T) {
	frames := SpriteRange(8, 4)
	assert.Equal(t, []spritefsm.Frame[int]{
		{Progress: 0, Value: 8},
		{Progress: 0.25, Value: 9},
		{Progress: 0.5, Value: 10},
		{Progress: 0.75, Value: 11},
	}, frames)

	table, err := spritefsm.NewFrameTable([]string{"run"}, map[string][]spritefsm.Frame[int]{"run": frames})
	require.NoError(t, err)
	v, _ := table.FrameFor("run", 0.6)
	assert.Equal(t, 10, v)
}

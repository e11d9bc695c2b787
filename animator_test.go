package spritefsm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/spritefsm"
)

func idleWalkAnimator(t *testing.T) *Animator[anim, params, string] {
	t.Helper()
	a, err := NewAnimator(idleWalk(t), map[anim][]Frame[string]{
		idle: {{Progress: 0.00, Value: "A"}, {Progress: 0.33, Value: "B"}, {Progress: 0.67, Value: "C"}},
		walk: {{Progress: 0.00, Value: "W0"}, {Progress: 0.5, Value: "W1"}},
	})
	require.NoError(t, err)
	return a
}

// Scenario: idle frames A/B/C at 0, 0.33, 0.67.
func TestFrameForScenario(t *testing.T) {
	a := idleWalkAnimator(t)
	table := a.Frames()

	tests := []struct {
		progress float64
		want     string
	}{
		{0.0, "A"},
		{0.2, "A"},
		{0.33, "B"},
		{0.4, "B"},
		{0.67, "C"},
		{0.9, "C"},
		{1.0, "C"},
	}
	for _, tt := range tests {
		got, ok := table.FrameFor(idle, tt.progress)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "progress %v", tt.progress)
	}

	_, ok := table.FrameFor(jump, 0.5)
	assert.False(t, ok)
}

// The displayed frame is the one with the greatest threshold <= progress.
func TestFrameForIsStepFunction(t *testing.T) {
	thresholds := []float64{0, 0.25, 0.25, 0.5, 0.8}
	frames := make([]Frame[int], len(thresholds))
	for i, th := range thresholds {
		frames[i] = Frame[int]{Progress: th, Value: i}
	}
	table, err := NewFrameTable([]anim{idle}, map[anim][]Frame[int]{idle: frames})
	require.NoError(t, err)

	prev := -1
	for p := 0.0; p <= 1.0; p += 1.0 / 64 {
		got, ok := table.FrameFor(idle, p)
		require.True(t, ok)

		want := 0
		for i, th := range thresholds {
			if th <= p {
				want = i
			}
		}
		assert.Equal(t, want, got, "progress %v", p)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

// A first frame above zero is still shown before its threshold.
func TestFrameForDefaultsToFirstFrame(t *testing.T) {
	table, err := NewFrameTable([]anim{idle}, map[anim][]Frame[int]{
		idle: {{Progress: 0.5, Value: 7}, {Progress: 0.75, Value: 8}},
	})
	require.NoError(t, err)

	got, _ := table.FrameFor(idle, 0.1)
	assert.Equal(t, 7, got)
	got, _ = table.FrameFor(idle, 0.8)
	assert.Equal(t, 8, got)
}

func TestNewFrameTableErrors(t *testing.T) {
	tests := []struct {
		name         string
		frames       map[anim][]Frame[int]
		wantErr      error
		wantProgress float64
	}{
		{
			name:    "missing",
			frames:  map[anim][]Frame[int]{walk: {{Progress: 0}}},
			wantErr: ErrMissingStateFrames,
		},
		{
			name:    "empty",
			frames:  map[anim][]Frame[int]{idle: {}},
			wantErr: ErrEmptyStateFrames,
		},
		{
			name:    "unsorted",
			frames:  map[anim][]Frame[int]{idle: {{Progress: 0}, {Progress: 0.5}, {Progress: 0.2}}},
			wantErr: ErrUnsortedStateFrames,
		},
		{
			name:         "above one",
			frames:       map[anim][]Frame[int]{idle: {{Progress: 0}, {Progress: 1.33}}},
			wantErr:      ErrInvalidStateFrameProgress,
			wantProgress: 1.33,
		},
		{
			name:         "exactly one",
			frames:       map[anim][]Frame[int]{idle: {{Progress: 0}, {Progress: 1}}},
			wantErr:      ErrInvalidStateFrameProgress,
			wantProgress: 1,
		},
		{
			name:         "negative",
			frames:       map[anim][]Frame[int]{idle: {{Progress: -0.1}}},
			wantErr:      ErrInvalidStateFrameProgress,
			wantProgress: -0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewFrameTable([]anim{idle}, tt.frames)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, tt.wantErr)

			var animErr *AnimatorError[anim]
			require.True(t, errors.As(err, &animErr))
			assert.Equal(t, idle, animErr.Key)
			assert.Equal(t, tt.wantProgress, animErr.Progress)
		})
	}
}

func TestNewFrameTableRejectsNaN(t *testing.T) {
	_, err := NewFrameTable([]anim{idle}, map[anim][]Frame[int]{
		idle: {{Progress: math.NaN()}},
	})
	assert.ErrorIs(t, err, ErrInvalidStateFrameProgress)
}

func TestAnimatorErrorMessage(t *testing.T) {
	_, err := NewFrameTable([]anim{idle}, map[anim][]Frame[int]{idle: {{Progress: 1.5}}})
	require.Error(t, err)
	assert.Equal(t, "invalid state frame progress idle: 1.5", err.Error())

	_, err = NewFrameTable([]anim{idle}, map[anim][]Frame[int]{})
	require.Error(t, err)
	assert.Equal(t, "missing state frames idle", err.Error())
}

// NewAnimator validates frames against every state of the machine.
func TestNewAnimatorMissingFrames(t *testing.T) {
	a, err := NewAnimator(idleWalk(t), map[anim][]Frame[string]{
		idle: {{Progress: 0, Value: "A"}},
	})
	require.Error(t, err)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrMissingStateFrames)

	var animErr *AnimatorError[anim]
	require.True(t, errors.As(err, &animErr))
	assert.Equal(t, walk, animErr.Key)
}

// The current frame follows time and parameter changes.
func TestAnimatorFrame(t *testing.T) {
	a := idleWalkAnimator(t)
	assert.Equal(t, "A", a.Frame())

	a.Update(0.2) // progress 0.4
	assert.Equal(t, "B", a.Frame())

	a.Update(0.15) // progress 0.7
	assert.Equal(t, "C", a.Frame())

	a.UpdateParameters(func(p *params) { p.Speed = 2 })
	assert.Equal(t, walk, a.State().Key)
	assert.Equal(t, "W0", a.Frame())

	a.Update(0.5)
	assert.Equal(t, "W1", a.Frame())

	a.SetParameters(params{})
	assert.Equal(t, idle, a.State().Key)
	assert.Equal(t, "A", a.Frame())
	assert.Equal(t, params{}, a.Parameters())
	assert.Same(t, a.StateMachine(), a.StateMachine())
}

func TestAnimatorOnTransition(t *testing.T) {
	a := idleWalkAnimator(t)

	var got []Transitioned[anim]
	a.OnTransition(func(tr Transitioned[anim]) { got = append(got, tr) })

	a.UpdateParameters(func(p *params) { p.Speed = 1 })
	assert.Equal(t, []Transitioned[anim]{{From: idle, To: walk, Cause: CauseParameters}}, got)
}

// Frame lists are copied on construction.
func TestFrameTableOwnsFrames(t *testing.T) {
	frames := []Frame[int]{{Progress: 0, Value: 1}, {Progress: 0.5, Value: 2}}
	table, err := NewFrameTable([]anim{idle}, map[anim][]Frame[int]{idle: frames})
	require.NoError(t, err)

	frames[1].Value = 99
	got, _ := table.FrameFor(idle, 0.6)
	assert.Equal(t, 2, got)

	out := table.Frames(idle)
	out[0].Value = 42
	got, _ = table.FrameFor(idle, 0)
	assert.Equal(t, 1, got)
}

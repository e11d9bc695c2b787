package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comalice/spritefsm"
	"github.com/comalice/spritefsm/config"
)

// SimStep is the animator after one simulated step.
type SimStep struct {
	Step        int      `json:"step"`
	Time        float64  `json:"time"`
	State       string   `json:"state"`
	Progress    float64  `json:"progress"`
	Frame       int      `json:"frame"`
	Transitions []string `json:"transitions,omitempty"`
}

// SimulationResult is the output of simulate.
type SimulationResult struct {
	ID    string    `json:"id"`
	Steps []SimStep `json:"steps"`
}

func (r SimulationResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-8s %-10s %-8s %s\n", "STEP", "TIME", "STATE", "PROGRESS", "FRAME")
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "%-5d %-8.3f %-10s %-8.3f %d", s.Step, s.Time, s.State, s.Progress, s.Frame)
		if len(s.Transitions) > 0 {
			fmt.Fprintf(&b, "  %s", strings.Join(s.Transitions, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// assignment is a parameter write scheduled before a step.
type assignment struct {
	step  int
	key   string
	value any
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dt    float64
		steps int
		sets  []string
		ats   []string
	)

	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Step an animation definition and print each frame",
		Long: `Build the animation, advance it by --dt seconds --steps times and
print the state and frame after every step. Parameters can be set before
the first step (--set key=value) or before a given step (--at N:key=value).
Values are parsed as YAML scalars, so "1.5", "true" and "run" keep their types.`,
		Example: `  animctl simulate player.yaml --steps 30 --at 5:speed=1 --at 20:speed=0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(dt > 0) {
				return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf("--dt must be positive, got %v", dt)}
			}
			plan, err := parseAssignments(sets, ats)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "invalid parameter assignment", Err: err}
			}
			return runSimulate(rootOpts, cmd, args[0], dt, steps, plan)
		},
	}

	cmd.Flags().Float64Var(&dt, "dt", 0.1, "seconds per step")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of steps")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a parameter before the first step (key=value)")
	cmd.Flags().StringArrayVar(&ats, "at", nil, "set a parameter before step N (N:key=value)")
	return cmd
}

func runSimulate(opts *RootOptions, cmd *cobra.Command, path string, dt float64, steps int, plan []assignment) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	def, err := config.Load(path)
	if err != nil {
		return formatter.Error(ExitFailure, "invalid definition", err)
	}
	anim, err := config.Build(def, opts.buildOptions()...)
	if err != nil {
		return formatter.Error(ExitFailure, "invalid definition", err)
	}

	var hops []string
	anim.OnTransition(func(tr spritefsm.Transitioned[string]) {
		hops = append(hops, tr.From+"->"+tr.To)
	})

	result := SimulationResult{ID: def.ID, Steps: make([]SimStep, 0, steps)}
	for step := 1; step <= steps; step++ {
		hops = nil
		for _, a := range plan {
			if a.step == step {
				anim.UpdateParameters(func(p *config.Params) { (*p)[a.key] = a.value })
			}
		}
		anim.Update(dt)

		st := anim.State()
		result.Steps = append(result.Steps, SimStep{
			Step:        step,
			Time:        float64(step) * dt,
			State:       st.Key,
			Progress:    st.Progress(),
			Frame:       anim.Frame(),
			Transitions: hops,
		})
	}
	return formatter.Success(result)
}

func parseAssignments(sets, ats []string) ([]assignment, error) {
	plan := make([]assignment, 0, len(sets)+len(ats))
	for _, s := range sets {
		a, err := parseAssignment(s)
		if err != nil {
			return nil, err
		}
		a.step = 1
		plan = append(plan, a)
	}
	for _, s := range ats {
		n, rest, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("%q: want N:key=value", s)
		}
		step, err := strconv.Atoi(n)
		if err != nil || step < 1 {
			return nil, fmt.Errorf("%q: step must be a positive integer", s)
		}
		a, err := parseAssignment(rest)
		if err != nil {
			return nil, err
		}
		a.step = step
		plan = append(plan, a)
	}
	return plan, nil
}

func parseAssignment(s string) (assignment, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return assignment{}, fmt.Errorf("%q: want key=value", s)
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return assignment{}, fmt.Errorf("%q: %w", s, err)
	}
	return assignment{key: key, value: value}, nil
}

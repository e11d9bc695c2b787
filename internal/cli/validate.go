package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/spritefsm/config"
)

// ValidationResult summarizes a valid definition.
type ValidationResult struct {
	ID          string   `json:"id"`
	Fingerprint string   `json:"fingerprint"`
	States      int      `json:"states"`
	Transitions int      `json:"transitions"`
	Unreachable []string `json:"unreachable,omitempty"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s valid (%d states, %d transitions, fingerprint %s)\n", r.ID, r.States, r.Transitions, r.Fingerprint)
	for _, s := range r.Unreachable {
		fmt.Fprintf(&b, "! state %q is unreachable from the initial state\n", s)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an animation definition",
		Long: `Parse and validate an animation definition, then build it to check
frames, conditions and guards. With --watch, keep validating on every change
until interrupted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args[0], watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "revalidate when the file changes")
	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, path string, watch bool) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	def, err := config.Load(path)
	if err != nil {
		err = formatter.Error(ExitFailure, "invalid definition", err)
	} else {
		err = validateDefinition(opts, formatter, def)
	}
	if !watch {
		return err
	}

	logger := opts.Logger()
	logger.Info().Str("path", path).Msg("Watching for changes")
	return config.Watch(cmd.Context(), path, func(def *config.Definition) {
		_ = validateDefinition(opts, formatter, def)
	}, config.WithLogger(logger))
}

func validateDefinition(opts *RootOptions, formatter *OutputFormatter, def *config.Definition) error {
	if _, err := config.Build(def, opts.buildOptions()...); err != nil {
		return formatter.Error(ExitFailure, "invalid definition", err)
	}
	return formatter.Success(ValidationResult{
		ID:          def.ID,
		Fingerprint: config.Fingerprint(def),
		States:      len(def.States),
		Transitions: len(def.Transitions),
		Unreachable: def.Unreachable(),
	})
}

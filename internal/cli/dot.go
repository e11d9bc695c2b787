package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/spritefsm/config"
	"github.com/comalice/spritefsm/internal/visualizer"
)

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	var current string

	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Render the transition graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := config.Load(args[0])
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: "invalid definition", Err: err}
			}
			if current != "" {
				if _, ok := def.State(current); !ok {
					return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf("unknown state %q", current)}
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), visualizer.ExportDOT(def, current))
			return err
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "state to highlight")
	return cmd
}

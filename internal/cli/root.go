// Package cli implements the animctl commands.
package cli

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comalice/spritefsm/config"
	"github.com/comalice/spritefsm/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "json" | "text"
	LogLevel string
	Guards   []string

	logger *zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger returns the logger set up by the root command, or a disabled one.
func (o *RootOptions) Logger() zerolog.Logger {
	if o.logger == nil {
		return zerolog.Nop()
	}
	return *o.logger
}

// buildOptions turns --guard flags into guards reading the boolean
// parameter of the same name.
func (o *RootOptions) buildOptions() []config.Option {
	opts := []config.Option{config.WithLogger(o.Logger())}
	for _, name := range o.Guards {
		opts = append(opts, config.WithGuard(name, func(p config.Params) bool {
			v, _ := p[name].(bool)
			return v
		}))
	}
	return opts
}

// NewRootCommand creates the root command for animctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "animctl",
		Short: "Inspect and run sprite animation definitions",
		Long: `animctl validates YAML animation definitions, simulates them
step by step, and renders their transition graph as Graphviz DOT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logFormat := "console"
			if opts.Format == "json" {
				logFormat = "json"
			}
			logger, err := logging.New(cmd.ErrOrStderr(), opts.LogLevel, logFormat)
			if err != nil {
				return err
			}
			opts.logger = &logger
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringSliceVar(&opts.Guards, "guard", nil, "guard names to resolve to boolean parameters")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewDotCommand(opts))

	return cmd
}

package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/patient-reports/pkg/runtime/app"
	"github.com/de-tools/patient-reports/pkg/runtime/terminal/commands"
	"github.com/de-tools/patient-reports/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	opts     Options
	cfgPath  string
	logLevel string
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Logs goes to stderr by default so report output stays clean.
	Logs io.Writer
	// Open builds the engine from a config path. Defaults to loading the
	// YAML config and wiring the configured store.
	Open func(ctx context.Context, cfgPath string, logger zerolog.Logger) (*app.App, error)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.Open == nil {
		opts.Open = Open
	}

	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Open loads the config at cfgPath and wires the engine.
func Open(ctx context.Context, cfgPath string, logger zerolog.Logger) (*app.App, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reports",
		Short:         "Patient report tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(cli.logLevel)
			if err != nil {
				return err
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.opts.Logs}).
				Level(level).
				With().
				Timestamp().
				Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.Logs)

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the YAML config (default: built-in defaults)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level")

	cmd.AddCommand(commands.NewRunCmd(cli.load))
	cmd.AddCommand(commands.NewKindsCmd(cli.load))
	cmd.AddCommand(commands.NewSeedCmd(cli.load))

	return cmd
}

func (cli *CLI) load(ctx context.Context) (*app.App, error) {
	return cli.opts.Open(ctx, cli.cfgPath, *zerolog.Ctx(ctx))
}

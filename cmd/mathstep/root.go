package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
	"github.com/aledsdavies/mathstep/internal/config"
	"github.com/aledsdavies/mathstep/internal/logging"
	"github.com/aledsdavies/mathstep/pkgs/engine"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

// app carries what every subcommand needs once the root command has run
// its setup.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	engine *engine.Engine
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "mathstep [command]",
		Short:         "Apply one arithmetic step to an expression at a clicked position",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a mathstep config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		a.parseCmd(),
		a.printCmd(),
		a.resolveCmd(),
		a.runCmd(),
		a.stepCmd(),
		a.rulesCmd(),
	)
	return rootCmd
}

// setup loads configuration, builds the logger and the engine. Flags win
// over the config file and the environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, ".")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := logging.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}
	a.logger = logger.With("request_id", uuid.NewString(), "command", cmd.Name())
	a.closer = closer

	reg, err := loadRegistry(cfg.Registry.Path)
	if err != nil {
		return err
	}
	a.logger.Debug("catalog loaded", "version", reg.Version(), "rules", reg.Len(), "path", cfg.Registry.Path)

	a.engine, err = engine.New(reg,
		engine.WithLogger(a.logger),
		engine.WithPrecision(cfg.Decimal.Precision))
	return err
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadFile(path)
}

func (a *app) color() bool {
	return ShouldUseColor(a.noColor)
}

// clickFlags are shared by the commands that take a click position.
type clickFlags struct {
	at            string
	kind          string
	operatorIndex int
	inBrackets    bool
}

func (f *clickFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, "at", "", "Address of the clicked node, e.g. 0.1 (root when empty)")
	cmd.Flags().StringVar(&f.kind, "kind", "operator", "Click kind (operator, number, fractionBar, bracket, other)")
	cmd.Flags().IntVar(&f.operatorIndex, "operator-index", -1, "Pick the n-th operator in reading order instead of --at")
	cmd.Flags().BoolVar(&f.inBrackets, "in-brackets", false, "The click landed inside a bracketed group")
}

func (f *clickFlags) target() (resolver.ClickTarget, error) {
	kind, err := registry.ParseClickKind(f.kind)
	if err != nil {
		return resolver.ClickTarget{}, &CLIError{
			Type:    "usage",
			Message: err.Error(),
			Hint:    "Use one of: operator, number, fractionBar, bracket, other",
		}
	}
	click := resolver.ClickTarget{Kind: kind, InsideBrackets: f.inBrackets}
	if f.operatorIndex >= 0 {
		idx := f.operatorIndex
		click.OperatorIndex = &idx
		return click, nil
	}
	addr, err := expr.ParseAddress(f.at)
	if err != nil {
		return resolver.ClickTarget{}, &CLIError{
			Type:    "usage",
			Message: fmt.Sprintf("invalid address %q", f.at),
			Details: err.Error(),
			Hint:    "Addresses are dot-separated child indexes; run 'mathstep parse' to see them",
		}
	}
	click.Address = addr
	return click, nil
}

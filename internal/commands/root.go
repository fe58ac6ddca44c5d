package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/buildinfo"
	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/logger"
	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/simplify"
)

var errTooManyParticipants = errors.New("too many participants for dynamic programming")

// app carries state shared by every subcommand once the root has loaded it.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "settle",
		Short:   "Simplify who-owes-whom into the fewest transfers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSimplifyCommand(a),
		newAnalyzeCommand(a),
		newGenerateCommand(a),
		newBenchCommand(a),
	)

	return rootCmd
}

// load reads the config and installs the logger in the command context.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// strategy resolves a --strategy flag, falling back to the config.
func (a *app) strategy(name string) (simplify.Strategy, error) {
	if name == "" {
		return a.cfg.Strategy()
	}
	return simplify.ParseStrategy(name)
}

// asOf resolves an --as-of flag, falling back to the config and then today.
func (a *app) asOf(flag string) (time.Time, error) {
	if flag != "" {
		d, err := model.ParseDate(flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing --as-of: %w", err)
		}
		return d, nil
	}
	return a.cfg.EvaluationDate(time.Now())
}

// checkDP refuses dynamic programming on ledgers above the configured cap.
func (a *app) checkDP(s simplify.Strategy, txs []model.BasicTransaction) error {
	limit := a.cfg.Engine.DPMaxParticipants
	if s != simplify.DynamicProgramming || limit == 0 {
		return nil
	}
	if open := len(simplify.NetBalances(txs).Open()); open > limit {
		return fmt.Errorf("%w: %d open, limit %d", errTooManyParticipants, open, limit)
	}
	return nil
}

// reportWriter is where summaries go: stdout when results are written to a
// file, stderr when stdout carries the CSV.
func reportWriter(cmd *cobra.Command, out string) io.Writer {
	if out != "" {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

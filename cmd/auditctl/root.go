package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"auditintel/internal/config"
	"auditintel/internal/infrastructure"
	"auditintel/internal/services"
)

// cli carries the state shared by every subcommand
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	output      string
	verbose     bool
	concurrency int

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "auditctl",
		Short: "Analyze procurement audit workbooks",
		Long: `auditctl runs audit spreadsheets through the same analysis engine as the
auditd server and prints the result as JSON, YAML, plain text or a CSV summary.

Configuration is read from --config (or the default config locations) and
AUDIT_* environment variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputJSON, "output format: json, yaml, text or csv (analyze only)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level to stderr")
	root.PersistentFlags().IntVar(&c.concurrency, "concurrency", 4, "workbooks processed in parallel")

	root.AddCommand(
		c.analyzeCmd(),
		c.validateCmd(),
		c.detectCmd(),
		c.previewCmd(),
		c.columnsCmd(),
		c.versionCmd(),
	)
	root.SetOut(out)
	root.SetErr(errOut)
	return root
}

// setup loads configuration and builds a logger that writes to stderr, so
// stdout carries only command output
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if !validOutput(c.output) {
		return fmt.Errorf("unknown output format %q", c.output)
	}
	if c.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.concurrency)
	}

	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFrom(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logging := c.cfg.Logging
	logging.Output = "console"
	logging.Level = "warn"
	if c.verbose {
		logging.Level = "debug"
	}
	c.logger, err = infrastructure.NewLogger(logging, c.errOut)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// service builds the analysis service from the loaded configuration. The
// CLI does not export metrics.
func (c *cli) service() *services.AnalysisService {
	return services.NewAnalysisService(c.cfg.Analysis, nil, nil, c.logger)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/backlinkscan/internal/config"
	"github.com/nao1215/backlinkscan/internal/database"
	"github.com/nao1215/backlinkscan/internal/fetch"
	"github.com/nao1215/backlinkscan/internal/log"
	"github.com/nao1215/backlinkscan/internal/model"
	"github.com/nao1215/backlinkscan/internal/pipeline"
	"github.com/nao1215/backlinkscan/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [backlink-url...]",
		Short: "Check backlink pages for links to your targets",
		Long: `Check fetches every backlink page and looks for links to the target URLs.

A link matches a target when its href contains the target, ignoring case.
Pages answering 403, 429 or 503, or serving a Cloudflare challenge, are
reported as BLOCKED. Pages that cannot be fetched are reported as ERROR.
Each page is attempted once.

Examples:
  # Check two pages for links to example.com
  backlinkscan check -g example.com https://blog.test/a https://blog.test/b

  # Check pages listed in a file, one URL per line
  backlinkscan check -g example.com -g example.org --list backlinks.txt

  # Render pages in headless Chrome and export a spreadsheet
  backlinkscan check -g example.com -l backlinks.txt --render --xlsx report.xlsx

  # JSON report to a file, SQLite export alongside
  backlinkscan check -g example.com -l backlinks.txt -j -o report.json --sqlite run.db`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Input flags
	cmd.Flags().StringArrayP("target", "g", nil,
		"Target URL to look for (repeatable)")
	cmd.Flags().StringP("list", "l", "",
		"File with backlink URLs, one per line ('#' starts a comment)")

	// Fetch flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of pages checked concurrently (max 3 with --render)")
	cmd.Flags().BoolP("render", "r", false,
		"Render pages in headless Chrome")
	cmd.Flags().String("browser-path", "",
		"Chrome or Chromium executable for --render")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each direct fetch")
	cmd.Flags().Duration("render-timeout", config.DefaultRenderTimeout,
		"Page load timeout for --render")
	cmd.Flags().Duration("settle", config.DefaultSettleDelay,
		"Wait after page load for --render")
	cmd.Flags().Float64("rate", 0,
		"Maximum fetches per second across all workers (0 = unlimited)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for direct fetches")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body bytes read per page")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .backlinkscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("xlsx", "x", "",
		"Export results to an XLSX spreadsheet")
	cmd.Flags().String("sqlite", "",
		"Export results to a SQLite database file (replaced if it exists)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not print live progress")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Configuration problems are reported before any page is fetched.
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Prepare(); err != nil {
		return err
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file, the
// environment and the command flags. Flags only override earlier sources
// when they were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		f.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyEnv(os.Getenv)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	listPath, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		backlinks, err := readBacklinkList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Backlinks = append(cfg.Backlinks, backlinks...)
	}
	cfg.Backlinks = append(cfg.Backlinks, args...)

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("target") {
		if cfg.Targets, err = flags.GetStringArray("target"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("render") {
		if cfg.Render, err = flags.GetBool("render"); err != nil {
			return err
		}
	}
	if flags.Changed("browser-path") {
		if cfg.BrowserPath, err = flags.GetString("browser-path"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("render-timeout") {
		if cfg.RenderTimeout, err = flags.GetDuration("render-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("settle") {
		if cfg.SettleDelay, err = flags.GetDuration("settle"); err != nil {
			return err
		}
	}
	if flags.Changed("rate") {
		if cfg.Rate, err = flags.GetFloat64("rate"); err != nil {
			return err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.XLSXFile, err = flags.GetString("xlsx"); err != nil {
		return err
	}
	if cfg.SQLiteFile, err = flags.GetString("sqlite"); err != nil {
		return err
	}
	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return err
	}
	return nil
}

// readBacklinkList reads backlink URLs from a file, one per line.
func readBacklinkList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open backlink list: %w", err)
	}
	defer f.Close()

	lines, err := model.ParseLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read backlink list %s: %w", path, err)
	}
	return lines, nil
}

// newFetcher builds the fetch backend selected by cfg.
func newFetcher(cfg *config.Config) fetch.Fetcher {
	if cfg.Render {
		opts := []fetch.BrowserOption{
			fetch.WithPageLoadTimeout(cfg.RenderTimeout),
			fetch.WithSettleDelay(cfg.SettleDelay),
		}
		// The browser keeps its own User-Agent unless one was configured.
		if cfg.UserAgent != config.DefaultUserAgent {
			opts = append(opts, fetch.WithBrowserUserAgent(cfg.UserAgent))
		}
		return fetch.NewBrowserFetcher(cfg.BrowserPath, opts...)
	}

	return fetch.NewHTTPFetcher(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)
}

// runCheck runs the verification and writes every requested report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	checker := pipeline.NewChecker(
		newFetcher(cfg),
		model.NewTargetSet(cfg.Targets),
		pipeline.WithRateLimit(cfg.Rate),
		pipeline.WithLogger(logger),
	)

	var reporter pipeline.ProgressReporter = pipeline.NopReporter{}
	if !cfg.Quiet {
		reporter = newConsoleReporter(stderr)
	}

	bp := pipeline.NewBatchProcessor(checker,
		pipeline.WithConcurrency(cfg.Workers),
		pipeline.WithBackend(cfg.Backend()),
		pipeline.WithBatchLogger(logger),
		pipeline.WithProgressReporter(reporter),
	)

	run, err := bp.Run(ctx, model.NewTasks(cfg.Backlinks))
	if err != nil {
		return err
	}

	// Reports are written even after an interrupt; unfinished pages are ERROR rows.
	exportCtx := context.WithoutCancel(ctx)

	if err := writeReport(cfg, run, stdout); err != nil {
		return err
	}
	if cfg.XLSXFile != "" {
		if err := writeFile(cfg.XLSXFile, func(w io.Writer) error {
			_, err := report.NewXLSXWriter(w).Write(run)
			return err
		}); err != nil {
			return fmt.Errorf("failed to export spreadsheet: %w", err)
		}
		logger.Info("spreadsheet exported", "path", cfg.XLSXFile)
	}
	if cfg.SQLiteFile != "" {
		if err := database.Export(exportCtx, cfg.SQLiteFile, run); err != nil {
			return fmt.Errorf("failed to export database: %w", err)
		}
		logger.Info("database exported", "path", cfg.SQLiteFile)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

// writeReport writes the run in the selected format to the report file or
// stdout.
func writeReport(cfg *config.Config, run *model.Run, stdout io.Writer) error {
	render := func(w io.Writer) error {
		var writer report.Writer
		switch {
		case cfg.JSONReport:
			writer = report.NewJSONWriter(w, report.WithPrettyPrint())
		case cfg.MarkdownReport:
			writer = report.NewMarkdownWriter(w)
		default:
			writer = report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
		}
		_, err := writer.Write(run)
		return err
	}

	if cfg.ReportFile == "" {
		return render(stdout)
	}
	if err := writeFile(cfg.ReportFile, render); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeFile creates path with owner-only permissions and hands it to fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(f)
}

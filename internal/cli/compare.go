package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/stemdiff/pkg/cleanup"
	"github.com/sdejongh/stemdiff/pkg/compare"
	"github.com/sdejongh/stemdiff/pkg/config"
	"github.com/sdejongh/stemdiff/pkg/index"
	"github.com/sdejongh/stemdiff/pkg/logging"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/output"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Hash         string
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	Delete       string
	Progress     bool
	Color        string
	Bandwidth    string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	flags := &CompareFlags{}

	cmd := &cobra.Command{
		Use:   "compare [DIR_A] [DIR_B]",
		Short: "Compare two directories by file base name",
		Long: `Index both directories recursively by base name, then report the base names
found only in the first directory, only in the second, and the pairs whose
contents differ. Missing directory arguments are asked for interactively.

After the report you can delete the files found only in one of the directories,
either interactively (--delete ask) or directly (--delete a, --delete b).`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Hash, "hash", "", "hash algorithm: md5, sha256, xxhash (default md5)")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output format: human, json (default human)")
	cmd.Flags().StringVar(&flags.Report, "report", "", "also write the report to file")
	cmd.Flags().StringVar(&flags.ReportFormat, "report-format", "human", "report file format: human, json")
	cmd.Flags().StringVar(&flags.Delete, "delete", "", "delete files found on one side only: ask, a, b, none (default ask, none with --quiet)")
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "show a progress bar while hashing")
	cmd.Flags().StringVar(&flags.Color, "color", "", "colored output: auto, always, never")
	cmd.Flags().StringVarP(&flags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, flags *CompareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cfg, flags); err != nil {
		return err
	}
	if flags.Report != "" {
		if _, err := output.NewFormatter(flags.ReportFormat, false); err != nil {
			return err
		}
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	// Prompts go to stderr when stdout carries JSON
	promptOut := stdout
	if cfg.Output.Format == "json" {
		promptOut = stderr
	}
	prompt := newPrompter(cmd.InOrStdin(), promptOut)

	var dirArgs [2]string
	copy(dirArgs[:], args)

	pathA, err := prompt.directory(dirArgs[0], "Enter the first directory path:")
	if err != nil {
		return err
	}
	pathB, err := prompt.directory(dirArgs[1], "Enter the second directory path:")
	if err != nil {
		return err
	}

	backendA, err := openDirectory(pathA)
	if err != nil {
		return err
	}
	defer backendA.Close()

	backendB, err := openDirectory(pathB)
	if err != nil {
		return err
	}
	defer backendB.Close()

	logger, err := createLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	hasher, err := createHasher(cfg)
	if err != nil {
		return err
	}

	indexOpts := index.Options{Exclude: cfg.Exclude, Logger: logger}
	indexA, err := index.BuildIndex(ctx, backendA, indexOpts)
	if err != nil {
		return err
	}
	indexB, err := index.BuildIndex(ctx, backendB, indexOpts)
	if err != nil {
		return err
	}

	comparator := compare.NewComparator(backendA, backendB, hasher, logger)

	var progress *output.HashProgress
	if cfg.Output.Progress && isTerminal(stderr) {
		if total := compare.CommonCount(indexA, indexB); total > 0 {
			progress = output.NewHashProgress(stderr, total)
			comparator.SetPairCallback(func(e compare.PairEvent) {
				progress.Advance(e.BaseName)
			})
			hasher.SetProgressCallback(progress.FileProgress)
		}
	}

	result, err := comparator.Compare(ctx, indexA, indexB)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Output.Format, colorEnabled(cfg.Output.Color, stdout))
	if err != nil {
		return err
	}

	if !cfg.Output.Quiet {
		if err := formatter.Report(stdout, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if flags.Report != "" {
		if err := output.WriteReportFile(result, flags.Report, flags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	if result.Identical() {
		return nil
	}

	choice := cfg.Compare.Delete
	if choice == models.DeleteAsk {
		if choice, err = prompt.deletionChoice(result); err != nil {
			return err
		}
	}

	return runDeletion(ctx, deletionTarget(choice, result, backendA, backendB), cfg, formatter, stdout, logger)
}

// deletion is the set of files one deletion choice removes
type deletion struct {
	side    models.Side
	backend storage.Backend
	entries []models.FileEntry
}

// deletionTarget maps a choice to the files it removes; nil means no-op
func deletionTarget(choice models.DeleteChoice, result *models.ComparisonResult, backendA, backendB storage.Backend) *deletion {
	switch choice {
	case models.DeleteOnlyA:
		return &deletion{side: models.SideA, backend: backendA, entries: result.OnlyA}
	case models.DeleteOnlyB:
		return &deletion{side: models.SideB, backend: backendB, entries: result.OnlyB}
	default:
		return nil
	}
}

func runDeletion(ctx context.Context, target *deletion, cfg *config.Config, formatter output.Formatter, w io.Writer, logger logging.Logger) error {
	human := formatter.Name() == "human" && !cfg.Output.Quiet

	if target == nil {
		if human {
			fmt.Fprintln(w, "No files deleted.")
		}
		return nil
	}

	if len(target.entries) == 0 {
		if human {
			fmt.Fprintf(w, "No files found only in %s, nothing to delete.\n", target.backend.Root())
		}
		return nil
	}

	if human {
		fmt.Fprintf(w, "\nDeleting %d files from %s...\n", len(target.entries), target.backend.Root())
	}

	report := cleanup.DeleteEntries(ctx, target.backend, target.side, target.entries, logger)

	if !cfg.Output.Quiet || report.Failed > 0 {
		if err := formatter.ReportDeletion(w, report); err != nil {
			return fmt.Errorf("failed to write deletion report: %w", err)
		}
	}

	if status := report.Status(); status != models.StatusSuccess {
		return &ExitError{Code: status.ExitCode(), Status: status}
	}
	return nil
}

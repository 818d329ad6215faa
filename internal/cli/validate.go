package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sdejongh/stemdiff/internal/platform"
	"github.com/sdejongh/stemdiff/pkg/config"
	"github.com/sdejongh/stemdiff/pkg/hash"
	"github.com/sdejongh/stemdiff/pkg/logging"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/ratelimit"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// openDirectory validates path and opens it as a local backend
func openDirectory(path string) (*storage.Local, error) {
	if err := platform.ValidatePath(path); err != nil {
		var perr *platform.PathError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("invalid directory %q: %s", path, perr.Message)
		}
		return nil, fmt.Errorf("invalid directory %q: %w", path, err)
	}

	backend, err := storage.NewLocal(platform.NormalizePath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid directory %q: %w", path, err)
	}
	return backend, nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config, flags *CompareFlags) error {
	if flags.Hash != "" {
		alg, err := models.ParseHashAlgorithm(flags.Hash)
		if err != nil {
			return err
		}
		cfg.Compare.Hash = alg
	}

	if flags.Delete != "" {
		choice, err := models.ParseDeleteChoice(flags.Delete)
		if err != nil {
			return err
		}
		cfg.Compare.Delete = choice
	}

	if len(flags.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, flags.Exclude...)
	}

	if flags.Output != "" {
		cfg.Output.Format = flags.Output
	}

	if flags.Progress {
		cfg.Output.Progress = true
	}

	if flags.Color != "" {
		cfg.Output.Color = flags.Color
	}

	if flags.Bandwidth != "" {
		cfg.Performance.BandwidthLimit = flags.Bandwidth
	}

	if flags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = flags.LogFile
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
		// The report is hidden, so only prompt when --delete ask is explicit
		if flags.Delete == "" && cfg.Compare.Delete == models.DeleteAsk {
			cfg.Compare.Delete = models.DeleteNone
		}
	}

	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "debug"
	}

	return cfg.Validate()
}

// createLogger creates a logger based on configuration.
// Logging goes to the configured file, or to stderr when enabled without one.
func createLogger(cfg config.LoggingConfig, stderr io.Writer) (logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	if cfg.File == "" {
		return logging.NewWriterLogger(stderr, format, logging.ParseLevel(cfg.Level)), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}

// createHasher builds the content hasher with the configured rate limit
func createHasher(cfg *config.Config) (*hash.Hasher, error) {
	hasher, err := hash.New(cfg.Compare.Hash, cfg.Performance.BufferSize)
	if err != nil {
		return nil, err
	}

	rate, err := cfg.BandwidthBytes()
	if err != nil {
		return nil, err
	}
	hasher.SetLimiter(ratelimit.NewLimiter(rate))

	return hasher, nil
}

// colorEnabled resolves the auto|always|never color mode for w
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return !color.NoColor && isTerminal(w)
	}
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

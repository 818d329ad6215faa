package output

import (
	"fmt"
	"os"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// WriteReportFile writes the comparison report to path.
// Format can be "human" or "json"; the human file is never colored.
func WriteReportFile(result *models.ComparisonResult, path string, format string) error {
	formatter, err := NewFormatter(format, false)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := formatter.Report(file, result); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// Formatter renders comparison and deletion results
type Formatter interface {
	// Report writes the statistics and the three classification lists
	Report(w io.Writer, result *models.ComparisonResult) error

	// ReportDeletion writes the per-path outcome of a deletion batch
	ReportDeletion(w io.Writer, report *models.DeletionReport) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for format ("human" or "json")
func NewFormatter(format string, colorize bool) (Formatter, error) {
	switch format {
	case "", "human":
		return NewHumanFormatter(colorize), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, &models.ValidationError{Field: "output", Message: fmt.Sprintf("unsupported format %q (valid: human, json)", format)}
	}
}

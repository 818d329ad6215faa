package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct{}

// JSONReportData is the JSON document written for a comparison
type JSONReportData struct {
	ID          string             `json:"id"`
	Generated   string             `json:"generated"`
	RootA       string             `json:"root_a"`
	RootB       string             `json:"root_b"`
	Algorithm   string             `json:"algorithm"`
	Identical   bool               `json:"identical"`
	Duration    string             `json:"duration"`
	DurationMs  int64              `json:"duration_ms"`
	Stats       models.Stats       `json:"stats"`
	OnlyA       []string           `json:"only_a"`
	OnlyB       []string           `json:"only_b"`
	Mismatches  []JSONMismatchData `json:"mismatches"`
	CollisionsA []models.Collision `json:"collisions_a,omitempty"`
	CollisionsB []models.Collision `json:"collisions_b,omitempty"`
}

// JSONMismatchData represents a same-name pair with different content
type JSONMismatchData struct {
	BaseName string `json:"base_name"`
	PathA    string `json:"path_a"`
	PathB    string `json:"path_b"`
	HashA    string `json:"hash_a"`
	HashB    string `json:"hash_b"`
}

// JSONDeletionData is the JSON document written for a deletion batch
type JSONDeletionData struct {
	Side     string                 `json:"side"`
	Status   string                 `json:"status"`
	Deleted  int                    `json:"deleted"`
	Failed   int                    `json:"failed"`
	Outcomes []models.DeleteOutcome `json:"outcomes"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Report writes the comparison as one JSON document
func (f *JSONFormatter) Report(w io.Writer, result *models.ComparisonResult) error {
	return encode(w, buildJSONReport(result))
}

// ReportDeletion writes the deletion outcome as one JSON document
func (f *JSONFormatter) ReportDeletion(w io.Writer, report *models.DeletionReport) error {
	return encode(w, JSONDeletionData{
		Side:     string(report.Side),
		Status:   string(report.Status()),
		Deleted:  report.Deleted,
		Failed:   report.Failed,
		Outcomes: report.Outcomes,
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func buildJSONReport(result *models.ComparisonResult) JSONReportData {
	mismatches := make([]JSONMismatchData, 0, len(result.Mismatches))
	for _, m := range result.Mismatches {
		mismatches = append(mismatches, JSONMismatchData{
			BaseName: m.BaseName,
			PathA:    m.A.AbsolutePath,
			PathB:    m.B.AbsolutePath,
			HashA:    m.HashA,
			HashB:    m.HashB,
		})
	}

	return JSONReportData{
		ID:          result.ID,
		Generated:   time.Now().Format(time.RFC3339),
		RootA:       result.RootA,
		RootB:       result.RootB,
		Algorithm:   string(result.Algorithm),
		Identical:   result.Identical(),
		Duration:    result.Duration.Round(time.Millisecond).String(),
		DurationMs:  result.Duration.Milliseconds(),
		Stats:       result.Stats,
		OnlyA:       models.Paths(result.OnlyA),
		OnlyB:       models.Paths(result.OnlyB),
		Mismatches:  mismatches,
		CollisionsA: result.CollisionsA,
		CollisionsB: result.CollisionsB,
	}
}

func encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

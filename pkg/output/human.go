package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	heading *color.Color
	good    *color.Color
	bad     *color.Color
	warn    *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(colorize bool) *HumanFormatter {
	f := &HumanFormatter{
		heading: color.New(color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{f.heading, f.good, f.bad, f.warn} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Report writes statistics followed by every classified path
func (f *HumanFormatter) Report(w io.Writer, result *models.ComparisonResult) error {
	ew := &errWriter{w: w}

	ew.printf("\n%s\n", f.heading.Sprint("File statistics:"))
	ew.printf("  Same-name files:      %d\n", result.Stats.SameNameCount)
	ew.printf("  Different-name files: %d\n", result.Stats.DiffNameCount)
	ew.printf("  Content mismatches:   %d\n", len(result.Mismatches))
	ew.printf("  Hash algorithm:       %s\n", result.Algorithm)
	ew.printf("  Duration:             %s\n", result.Duration.Round(time.Millisecond))

	ew.printf("\n%s\n", f.heading.Sprint("Detailed results:"))

	ew.printf("\n%s\n", f.heading.Sprintf("Only in directory A (%s):", result.RootA))
	f.entries(ew, result.OnlyA)

	ew.printf("\n%s\n", f.heading.Sprintf("Only in directory B (%s):", result.RootB))
	f.entries(ew, result.OnlyB)

	ew.printf("\n%s\n", f.heading.Sprint("Different content:"))
	if len(result.Mismatches) == 0 {
		ew.printf("  (none)\n")
	}
	for _, m := range result.Mismatches {
		ew.printf("  - %s <-> %s\n", f.bad.Sprint(m.A.AbsolutePath), f.bad.Sprint(m.B.AbsolutePath))
	}

	f.collisions(ew, "A", result.CollisionsA)
	f.collisions(ew, "B", result.CollisionsB)

	if result.Identical() {
		ew.printf("\n%s\n", f.good.Sprint("The directories are identical."))
	}

	return ew.err
}

func (f *HumanFormatter) entries(ew *errWriter, entries []models.FileEntry) {
	if len(entries) == 0 {
		ew.printf("  (none)\n")
		return
	}
	for _, e := range entries {
		ew.printf("  - %s\n", e.AbsolutePath)
	}
}

func (f *HumanFormatter) collisions(ew *errWriter, side string, collisions []models.Collision) {
	if len(collisions) == 0 {
		return
	}
	ew.printf("\n%s\n", f.warn.Sprintf("Base name collisions in directory %s (later file kept):", side))
	for _, c := range collisions {
		ew.printf("  - %s: kept %s, ignored %s\n", c.BaseName, c.Kept.RelativePath, c.Shadowed.RelativePath)
	}
}

// ReportDeletion writes one line per path and a summary
func (f *HumanFormatter) ReportDeletion(w io.Writer, report *models.DeletionReport) error {
	ew := &errWriter{w: w}

	for _, o := range report.Outcomes {
		if o.Deleted {
			ew.printf("  %s %s\n", f.good.Sprint("deleted"), o.Path)
		} else {
			ew.printf("  %s %s: %s\n", f.bad.Sprint("failed "), o.Path, o.Error)
		}
	}

	summary := fmt.Sprintf("Deleted %d of %d files from directory %s", report.Deleted, len(report.Outcomes), report.Side)
	switch report.Status() {
	case models.StatusSuccess:
		ew.printf("\n%s\n", f.good.Sprint(summary))
	default:
		ew.printf("\n%s\n", f.bad.Sprintf("%s (%d failed)", summary, report.Failed))
	}

	return ew.err
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// errWriter keeps the first write error so callers can check once
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

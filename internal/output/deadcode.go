package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/clrd/pkg/models"
)

// MediumConfidenceThreshold is where findings start being highlighted.
const MediumConfidenceThreshold = 0.5

// DeadCodeReport renders a ScanOutput.
type DeadCodeReport struct {
	out *models.ScanOutput
}

// NewDeadCodeReport wraps out for rendering.
func NewDeadCodeReport(out *models.ScanOutput) *DeadCodeReport {
	return &DeadCodeReport{out: out}
}

// RenderData returns the ScanOutput itself.
func (r *DeadCodeReport) RenderData() any {
	return r.out
}

// Percent formats a confidence as a whole percentage.
func Percent(confidence float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(confidence*100)))
}

func location(item models.DeadCodeItem) string {
	return fmt.Sprintf("%s:%d", item.RelativePath, item.Span.Start)
}

// tables builds one table per kind that has findings, in schema order.
func (r *DeadCodeReport) tables(colored bool) []*Table {
	groups := r.out.ByKind()
	var tables []*Table
	for _, kind := range models.AllDeadCodeKinds {
		items := groups[kind]
		if len(items) == 0 {
			continue
		}
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			conf := Percent(item.Confidence)
			if colored {
				conf = ConfidenceColor(item.Confidence, conf)
			}
			rows = append(rows, []string{location(item), item.Name, conf, item.Reason})
		}
		tables = append(tables, NewTable(
			fmt.Sprintf("%s (%d)", kind.Label(), len(items)),
			[]string{"Location", "Name", "Confidence", "Reason"},
			rows,
		))
	}
	return tables
}

func (r *DeadCodeReport) summaryLine() string {
	s := r.out.Summary
	return fmt.Sprintf("%d issues (%d high confidence, %d low) in %d files, %d lines, %dms",
		s.TotalIssues, s.HighConfidenceIssues, s.LowConfidenceIssues,
		r.out.TotalFilesScanned, r.out.TotalLines, r.out.ScanDuration)
}

// RenderText writes a table per kind followed by the summary.
func (r *DeadCodeReport) RenderText(w io.Writer, colored bool) error {
	title := "Dead Code Report: " + r.out.Root
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	if len(r.out.DeadCode) == 0 {
		fmt.Fprintln(w, "No dead code found.")
		fmt.Fprintln(w)
	}
	for _, t := range r.tables(colored) {
		if err := t.RenderText(w, colored); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, r.summaryLine())
	return nil
}

// RenderMarkdown writes the summary counts and a table per kind.
func (r *DeadCodeReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Dead Code Report\n\n")
	fmt.Fprintf(w, "Root: `%s`  \nScanned: %d files, %d lines in %dms\n\n",
		r.out.Root, r.out.TotalFilesScanned, r.out.TotalLines, r.out.ScanDuration)

	s := r.out.Summary
	summary := NewTable("Summary", []string{"Metric", "Count"}, [][]string{
		{"Unused exports", fmt.Sprint(s.UnusedExports)},
		{"Unused imports", fmt.Sprint(s.UnusedImports)},
		{"Zombie files", fmt.Sprint(s.ZombieFiles)},
		{"Unused types", fmt.Sprint(s.UnusedTypes)},
		{"Total issues", fmt.Sprint(s.TotalIssues)},
		{"High confidence", fmt.Sprint(s.HighConfidenceIssues)},
		{"Low confidence", fmt.Sprint(s.LowConfidenceIssues)},
	})
	if err := summary.RenderMarkdown(w); err != nil {
		return err
	}

	for _, t := range r.tables(false) {
		for _, row := range t.Rows {
			row[0] = "`" + row[0] + "`"
		}
		if err := t.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderCompact writes one line per finding: location, kind, name and
// confidence.
func (r *DeadCodeReport) RenderCompact(w io.Writer) error {
	for _, item := range r.out.DeadCode {
		if _, err := fmt.Fprintf(w, "%s %s %s (%s)\n",
			location(item), item.Kind, item.Name, Percent(item.Confidence)); err != nil {
			return err
		}
	}
	return nil
}

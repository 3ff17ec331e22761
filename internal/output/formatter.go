package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/panbanda/clrd/pkg/models"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
	FormatCompact  Format = "compact"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	case "compact":
		return FormatCompact
	default:
		return FormatText
	}
}

// MachineReadable reports whether f is meant for programs rather than people.
func (f Format) MachineReadable() bool {
	return f == FormatJSON || f == FormatTOON
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON and TOON serialization.
	RenderData() any
}

// CompactRenderable is implemented by data with a one-line-per-item form.
// Renderables without it fall back to plain text in compact mode.
type CompactRenderable interface {
	RenderCompact(w io.Writer) error
}

// Encode serializes data for a machine: indented JSON, TOON, or JSON fenced
// for markdown. Text and compact have no structured form and get JSON.
func Encode(w io.Writer, format Format, data any) error {
	switch format {
	case FormatTOON:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return fmt.Errorf("encode toon: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case FormatMarkdown:
		if _, err := io.WriteString(w, "```json\n"); err != nil {
			return err
		}
		if err := Encode(w, FormatJSON, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "```\n")
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
}

// Formatter writes reports to stdout or a file.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter writing to path, or to stdout when path
// is empty. File output is never colored.
func NewFormatter(format Format, path string, colored bool) (*Formatter, error) {
	if path == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Formatter{format: format, writer: f, file: f}, nil
}

// NewWriterFormatter creates a formatter that writes to w.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func (f *Formatter) Writer() io.Writer { return f.writer }
func (f *Formatter) Format() Format    { return f.format }
func (f *Formatter) Colored() bool     { return f.colored }

// Output writes data in the configured format. Renderables choose their own
// human-readable forms; anything else goes through Encode.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	if !ok {
		return Encode(f.writer, f.format, data)
	}

	switch f.format {
	case FormatJSON, FormatTOON:
		return Encode(f.writer, f.format, r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	case FormatCompact:
		if c, ok := r.(CompactRenderable); ok {
			return c.RenderCompact(f.writer)
		}
		return r.RenderText(f.writer, false)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

// Table is a titled grid of strings rendered with tablewriter or as a
// markdown table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a table.
func NewTable(title string, headers []string, rows [][]string) *Table {
	return &Table{Title: title, Headers: headers, Rows: rows}
}

func borderlessTable(w io.Writer) *tablewriter.Table {
	left := tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}}
	header := left
	header.Formatting = tw.CellFormatting{AutoFormat: tw.On}

	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{Header: header, Row: left}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
}

// RenderText writes the title, underlined, and the rows without borders.
func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		if colored {
			color.New(color.Bold).Fprintln(w, t.Title)
		} else {
			fmt.Fprintln(w, t.Title)
		}
		fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", len(t.Title)))
	}

	table := borderlessTable(w)
	table.Header(t.Headers)
	for _, row := range t.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderMarkdown writes a level-two heading and a pipe table. Pipes inside
// cells are escaped.
func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}
	writeMarkdownRow(w, t.Headers)
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	writeMarkdownRow(w, seps)
	for _, row := range t.Rows {
		writeMarkdownRow(w, row)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeMarkdownRow(w io.Writer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
}

// ConfidenceColor colors text by confidence: red for high confidence
// findings, yellow for medium, uncolored otherwise.
func ConfidenceColor(confidence float64, text string) string {
	switch {
	case confidence >= models.HighConfidenceThreshold:
		return color.RedString(text)
	case confidence >= MediumConfidenceThreshold:
		return color.YellowString(text)
	default:
		return text
	}
}

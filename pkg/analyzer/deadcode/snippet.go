package deadcode

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/panbanda/clrd/pkg/models"
	"github.com/panbanda/clrd/pkg/source"
)

const (
	maxSnippetLines  = 10
	snippetHeadLines = 5
)

// snippetReader re-reads files for code snippets, caching each file's lines
// for the duration of one detection run.
type snippetReader struct {
	src   source.ContentSource
	cache map[string][]string
}

func newSnippetReader(src source.ContentSource) *snippetReader {
	return &snippetReader{src: src, cache: make(map[string][]string)}
}

func (r *snippetReader) lines(path string) []string {
	if lines, ok := r.cache[path]; ok {
		return lines
	}
	content, err := source.ReadFile(r.src, path)
	if err != nil {
		slog.Warn("cannot read file for snippet", "path", path, "error", err)
		r.cache[path] = nil
		return nil
	}
	lines := splitLines(string(content))
	r.cache[path] = lines
	return lines
}

func (r *snippetReader) snippet(path string, span models.CodeSpan) string {
	return sliceSnippet(r.lines(path), span)
}

// splitLines splits on newlines, dropping a trailing empty line and any
// carriage returns.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// sliceSnippet returns the 1-indexed inclusive line range of span. Ranges
// longer than maxSnippetLines keep only their first snippetHeadLines lines
// and a count of what was left out.
func sliceSnippet(lines []string, span models.CodeSpan) string {
	start := int(span.Start) - 1
	if start < 0 {
		start = 0
	}
	end := int(span.End)
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}

	selected := lines[start:end]
	if len(selected) > maxSnippetLines {
		return fmt.Sprintf("%s\n... (%d more lines)",
			strings.Join(selected[:snippetHeadLines], "\n"),
			len(selected)-snippetHeadLines)
	}
	return strings.Join(selected, "\n")
}

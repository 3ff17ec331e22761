package deadcode

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/panbanda/clrd/pkg/models"
	"github.com/panbanda/clrd/pkg/source"
)

// Confidence constants for each pass. These are hand-tuned; see Heuristics.
const (
	exportBaseConfidence     = 0.9
	dynamicNamePenalty       = 0.2
	testFilePenalty          = 0.3
	entryNamePenalty         = 0.2
	minConfidence            = 0.1
	zombieConfidence         = 0.7
	zombieTestConfidence     = 0.3
	unusedImportConfidence   = 0.9
	typeOnlyImportConfidence = 0.6
)

// Detector runs the detection passes over a sealed Graph.
type Detector struct {
	heuristics Heuristics
	source     source.ContentSource
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithHeuristics replaces the default heuristic tables.
func WithHeuristics(h Heuristics) Option {
	return func(d *Detector) {
		d.heuristics = h
	}
}

// WithSource sets where code snippets are read from.
func WithSource(src source.ContentSource) Option {
	return func(d *Detector) {
		d.source = src
	}
}

// NewDetector creates a detector with the default heuristics, reading
// snippets from the filesystem.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		heuristics: DefaultHeuristics(),
		source:     source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Heuristics returns the tables in use.
func (d *Detector) Heuristics() Heuristics {
	return d.heuristics
}

// Detect runs the unused-export, zombie-file and unused-import passes and
// concatenates their findings. Scores are always computed in full; threshold
// only feeds the debug summary, and filtering is left to the caller.
func (d *Detector) Detect(g *Graph, threshold float64) []models.DeadCodeItem {
	snippets := newSnippetReader(d.source)

	items := make([]models.DeadCodeItem, 0)
	items = append(items, d.unusedExports(g, snippets)...)
	items = append(items, d.zombieFiles(g)...)
	items = append(items, d.unusedImports(g, snippets)...)

	above := 0
	for _, item := range items {
		if item.Confidence >= threshold {
			above++
		}
	}
	slog.Debug("detection complete", "files", len(g.Files()), "items", len(items), "above_threshold", above)
	return items
}

// roundConfidence trims floating-point noise from the penalty arithmetic.
func roundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}

// ExportConfidence scores an unreferenced export.
func (h Heuristics) ExportConfidence(name, rel string) float64 {
	c := exportBaseConfidence
	if h.IsPossiblyDynamic(name) {
		c -= dynamicNamePenalty
	}
	if h.IsTestFile(rel) {
		c -= testFilePenalty
	}
	if h.IsEntryName(rel) {
		c -= entryNamePenalty
	}
	return roundConfidence(math.Max(c, minConfidence))
}

type exportKey struct {
	file string
	name string
}

// usedExports collects every (file, name) pair some other file imports.
func usedExports(g *Graph) map[exportKey]bool {
	used := make(map[exportKey]bool)
	for _, file := range g.Files() {
		node := g.nodes[file]
		targets := g.resolved[file]
		for i, imp := range node.Imports {
			target := targets[i]
			if target == "" || target == file {
				continue
			}
			used[exportKey{file: target, name: imp.Name}] = true
		}
	}
	return used
}

func (d *Detector) unusedExports(g *Graph, snippets *snippetReader) []models.DeadCodeItem {
	h := d.heuristics
	used := usedExports(g)

	var items []models.DeadCodeItem
	for _, file := range g.Files() {
		node := g.nodes[file]
		rel := g.Relative(file)
		importers := relativeImporters(g, file)
		for _, exp := range node.Exports {
			if exp.IsReexport || exp.IsDefault || exp.Name == models.Wildcard {
				continue
			}
			if used[exportKey{file: file, name: exp.Name}] {
				continue
			}

			items = append(items, models.DeadCodeItem{
				FilePath:     file,
				RelativePath: rel,
				Span:         exp.Span,
				CodeSnippet:  snippets.snippet(file, exp.Span),
				Kind:         models.KindUnusedExport,
				Name:         exp.Name,
				Reason:       fmt.Sprintf("Export '%s' has 0 references in the codebase", exp.Name),
				Confidence:   h.ExportConfidence(exp.Name, rel),
				Context: &models.DeadCodeContext{
					PossiblyDynamic:   h.IsPossiblyDynamic(exp.Name),
					InTestFile:        h.IsTestFile(rel),
					PublicAPI:         h.IsPublicAPI(rel),
					PartialReferences: importers,
				},
			})
		}
	}
	return items
}

// relativeImporters lists the files importing file, relative to the root.
// An unused export's module importers all reach the module without using it.
func relativeImporters(g *Graph, file string) []string {
	importers := g.Importers(file)
	out := make([]string, 0, len(importers))
	for _, imp := range importers {
		out = append(out, g.Relative(imp))
	}
	return out
}

func (d *Detector) zombieFiles(g *Graph) []models.DeadCodeItem {
	h := d.heuristics

	var items []models.DeadCodeItem
	for _, file := range g.Files() {
		node := g.nodes[file]
		rel := g.Relative(file)
		if h.IsEntryPoint(rel) || len(node.Exports) == 0 || g.IsImported(file) {
			continue
		}

		inTest := h.IsTestFile(rel)
		confidence := zombieConfidence
		if inTest {
			confidence = zombieTestConfidence
		}

		items = append(items, models.DeadCodeItem{
			FilePath:     file,
			RelativePath: rel,
			Span:         models.NewSpan(1, 1),
			CodeSnippet:  "// Entire file: " + rel,
			Kind:         models.KindZombieFile,
			Name:         rel,
			Reason:       "File is never imported by any other file in the codebase",
			Confidence:   confidence,
			Context: &models.DeadCodeContext{
				PossiblyDynamic:   true,
				InTestFile:        inTest,
				PublicAPI:         h.IsPublicAPI(rel),
				PartialReferences: []string{},
			},
		})
	}
	return items
}

func (d *Detector) unusedImports(g *Graph, snippets *snippetReader) []models.DeadCodeItem {
	var items []models.DeadCodeItem
	for _, file := range g.Files() {
		node := g.nodes[file]
		rel := g.Relative(file)
		for _, imp := range node.Imports {
			local := imp.LocalName()
			if local == models.Wildcard || node.References(local) {
				continue
			}

			confidence := unusedImportConfidence
			if imp.IsTypeOnly {
				confidence = typeOnlyImportConfidence
			}

			items = append(items, models.DeadCodeItem{
				FilePath:     file,
				RelativePath: rel,
				Span:         imp.Span,
				CodeSnippet:  snippets.snippet(file, imp.Span),
				Kind:         models.KindUnusedImport,
				Name:         local,
				Reason:       fmt.Sprintf("Import '%s' from '%s' is never used in this file", local, imp.Source),
				Confidence:   confidence,
			})
		}
	}
	return items
}

// Package analysis orchestrates a dead code scan: discovery, parallel
// extraction, graph sealing, detection and report assembly.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/panbanda/clrd/internal/fileproc"
	"github.com/panbanda/clrd/internal/scanner"
	"github.com/panbanda/clrd/pkg/analyzer/deadcode"
	"github.com/panbanda/clrd/pkg/config"
	"github.com/panbanda/clrd/pkg/models"
	"github.com/panbanda/clrd/pkg/parser"
	"github.com/panbanda/clrd/pkg/source"
)

// Version is stamped into every ScanOutput. The CLI overrides it at startup.
var Version = "dev"

// Service orchestrates dead code scans.
type Service struct {
	config *config.Config
	source source.ContentSource
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithSource sets where file contents are read from (for testing).
func WithSource(src source.ContentSource) Option {
	return func(s *Service) {
		s.source = src
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		source: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanOptions configures one scan.
type ScanOptions struct {
	Root string

	// Scan overrides the service configuration's scan section.
	Scan *config.ScanConfig

	// Heuristics replaces the default heuristic tables. Manifest entries
	// from the root's package.json are added either way.
	Heuristics *deadcode.Heuristics

	// OnDiscovered is called once with the number of files to analyze.
	OnDiscovered func(n int)

	// OnProgress is called after each file is analyzed.
	OnProgress func()
}

// Scan runs the full pipeline over opts.Root. Files that fail to read or
// parse are logged and left out of the graph. Only an unusable root or a
// cancelled context fails the scan.
func (s *Service) Scan(ctx context.Context, opts ScanOptions) (*models.ScanOutput, error) {
	start := time.Now()

	cfg := s.config.Scan
	if opts.Scan != nil {
		cfg = *opts.Scan
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, &scanner.DiscoveryError{Root: opts.Root, Err: err}
	}

	h := deadcode.DefaultHeuristics()
	if opts.Heuristics != nil {
		h = *opts.Heuristics
	}
	manifest, err := config.LoadManifest(root)
	if err != nil {
		slog.Warn("ignoring unreadable package.json", "root", root, "error", err)
	} else if len(manifest.Entries) > 0 {
		h = h.WithManifestEntries(manifest.Entries)
	}

	files, err := scanner.NewScanner(&cfg, scanner.WithTestMatcher(h.IsTestFile)).ScanDir(root)
	if err != nil {
		return nil, err
	}
	slog.Debug("discovered files", "root", root, "count", len(files))
	if opts.OnDiscovered != nil {
		opts.OnDiscovered(len(files))
	}

	builder := deadcode.NewBuilder(root)
	lines, errs := fileproc.MapFilesWithProgress(ctx, files, func(psr *parser.Parser, path string) (int, error) {
		node, err := deadcode.AnalyzeFile(ctx, psr, s.source, path)
		if err != nil {
			return 0, err
		}
		builder.Add(node)
		return node.Lines, nil
	}, opts.OnProgress)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if errs.HasErrors() {
		for _, e := range errs.Errors {
			slog.Warn("skipping file", "path", e.Path, "error", e.Err)
		}
	}

	graph := builder.Seal()
	detector := deadcode.NewDetector(
		deadcode.WithHeuristics(h),
		deadcode.WithSource(s.source),
	)
	items := detector.Detect(graph, cfg.Confidence)

	totalLines := 0
	for _, n := range lines {
		totalLines += n
	}

	return &models.ScanOutput{
		Version:           Version,
		Root:              root,
		Timestamp:         start.UTC().Format(time.RFC3339),
		DeadCode:          items,
		TotalFilesScanned: len(lines),
		TotalLines:        totalLines,
		ScanDuration:      time.Since(start).Milliseconds(),
		Summary:           models.Summarize(items),
	}, nil
}

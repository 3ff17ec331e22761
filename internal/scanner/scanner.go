package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
	"github.com/panbanda/clrd/pkg/analyzer/deadcode"
	"github.com/panbanda/clrd/pkg/config"
)

// DiscoveryError reports a root directory that cannot be walked.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

var errNotDirectory = errors.New("not a directory")

// Scanner finds source files in a directory.
type Scanner struct {
	config     config.ScanConfig
	extensions map[string]bool
	globs      []glob.Glob
	isTest     func(rel string) bool

	gitRoot  string
	matchers []gitignore.Matcher
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTestMatcher replaces the test-file heuristic.
func WithTestMatcher(fn func(rel string) bool) Option {
	return func(s *Scanner) {
		s.isTest = fn
	}
}

// NewScanner creates a new file scanner. Invalid ignore globs are dropped.
func NewScanner(cfg *config.ScanConfig, opts ...Option) *Scanner {
	if cfg == nil {
		cfg = &config.DefaultConfig().Scan
	}
	s := &Scanner{
		config:     *cfg,
		extensions: make(map[string]bool),
		isTest:     deadcode.DefaultHeuristics().IsTestFile,
	}
	for _, ext := range config.NormalizeExtensions(cfg.Extensions) {
		s.extensions[ext] = true
	}
	for _, pattern := range cfg.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			slog.Debug("dropping invalid ignore pattern", "pattern", pattern, "error", err)
			continue
		}
		s.globs = append(s.globs, g)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads .gitignore files, .git/info/exclude and the user's
// global excludes file. Outside a repository the scan root's own .gitignore
// files still apply.
func (s *Scanner) loadGitignore(root string) {
	s.matchers = nil
	if !s.config.Gitignore {
		return
	}

	s.gitRoot = findGitRoot(root)
	if s.gitRoot == "" {
		s.gitRoot = root
	}

	var patterns []gitignore.Pattern
	if global, err := gitignore.LoadGlobalPatterns(osfs.New("/")); err == nil {
		patterns = append(patterns, global...)
	}
	if local, err := gitignore.ReadPatterns(osfs.New(s.gitRoot), nil); err == nil {
		patterns = append(patterns, local...)
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isGitignored checks path against the loaded gitignore matchers.
func (s *Scanner) isGitignored(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	rel, err := filepath.Rel(s.gitRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	pathParts := strings.Split(rel, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// matchesGlob tests the root-relative path, so directories above the scan
// root never count. The path is also tried with a leading slash so that
// "**/dist/**" matches a top-level "dist". Directories carry a trailing slash
// so that the same pattern prunes the directory itself.
func (s *Scanner) matchesGlob(rel string, isDir bool) bool {
	if len(s.globs) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	for _, g := range s.globs {
		if g.Match(rel) || g.Match("/"+rel) {
			return true
		}
	}
	return false
}

// hasAllowedExtension reports whether the file passes the extension
// allow-list. An empty allow-list admits every file.
func (s *Scanner) hasAllowedExtension(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return s.extensions[ext]
}

// ScanDir recursively scans a directory for source files.
// Uses filepath.WalkDir for better performance (avoids stat calls).
// Entries that cannot be read are skipped; only an unusable root is an error.
// Symlinks are not followed and are never returned.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Root: root, Err: errNotDirectory}
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}

	s.loadGitignore(absRoot)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || s.matchesGlob(relPath, true) || s.isGitignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !s.hasAllowedExtension(path) {
			return nil
		}
		if s.matchesGlob(relPath, false) || s.isGitignored(path, false) {
			return nil
		}
		if !s.config.IncludeTests && s.isTest(filepath.ToSlash(relPath)) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, &DiscoveryError{Root: root, Err: walkErr}
	}

	sort.Strings(files)
	return files, nil
}

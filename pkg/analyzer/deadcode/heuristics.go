package deadcode

import (
	"path"
	"strings"
)

// Heuristics holds the hand-tuned tables that shape confidence scores and
// entry-point detection. The default values are calibrated together; change
// them only with new calibration data.
//
// Paths passed to Heuristics methods are slash-separated and relative to the
// scan root.
type Heuristics struct {
	// DynamicLexicon names suggest dispatch by string lookup (matched as
	// case-insensitive substrings of the exported name).
	DynamicLexicon []string
	// EntryNames are file stems loaded by something outside the project.
	EntryNames []string
	// IndexFiles mark a directory's public surface when a path ends in one.
	IndexFiles []string
	// RouteDirs are framework directories whose files are loaded by convention.
	RouteDirs []string
	// TestMarkers are substrings that identify test files.
	TestMarkers []string
	// TestSuffixes identify test files by the end of their stem.
	TestSuffixes []string
	// PublicAPIPaths are prefixes of conventional package entry files.
	PublicAPIPaths []string
	// ManifestEntries are files named by package.json entry fields.
	ManifestEntries []string
}

// DefaultHeuristics returns the standard tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		DynamicLexicon: []string{"handler", "middleware", "plugin", "route", "controller", "model"},
		EntryNames:     []string{"index", "main", "app"},
		IndexFiles:     []string{"index.ts", "index.js"},
		RouteDirs:      []string{"pages", "routes"},
		TestMarkers:    []string{".test.", ".spec.", "__tests__", "__mocks__"},
		TestSuffixes:   []string{"_test", "_spec"},
		PublicAPIPaths: []string{"index.ts", "index.js", "src/index", "lib/index"},
	}
}

// WithManifestEntries returns a copy of h that also treats entries as entry
// points and public API.
func (h Heuristics) WithManifestEntries(entries []string) Heuristics {
	h.ManifestEntries = append([]string(nil), entries...)
	return h
}

// stem returns the base name without its extension.
func stem(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsPossiblyDynamic reports whether name matches the dynamic-dispatch lexicon.
func (h Heuristics) IsPossiblyDynamic(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range h.DynamicLexicon {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// IsTestFile reports whether rel looks like a test, spec or mock file.
func (h Heuristics) IsTestFile(rel string) bool {
	lower := strings.ToLower(rel)
	for _, marker := range h.TestMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	s := stem(lower)
	for _, suffix := range h.TestSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// IsEntryName reports whether the file's stem is a conventional entry name.
func (h Heuristics) IsEntryName(rel string) bool {
	s := stem(rel)
	for _, name := range h.EntryNames {
		if s == name {
			return true
		}
	}
	return false
}

// IsEntryPoint reports whether rel is loaded from outside the analyzed set:
// an entry name, an index file, a file under a route directory, or a
// manifest entry.
func (h Heuristics) IsEntryPoint(rel string) bool {
	if h.IsEntryName(rel) || h.isManifestEntry(rel) {
		return true
	}
	for _, idx := range h.IndexFiles {
		if strings.HasSuffix(rel, idx) {
			return true
		}
	}
	segments := strings.Split(path.Dir(rel), "/")
	for _, seg := range segments {
		for _, dir := range h.RouteDirs {
			if seg == dir {
				return true
			}
		}
	}
	return false
}

// IsPublicAPI reports whether rel is a conventional package entry file.
func (h Heuristics) IsPublicAPI(rel string) bool {
	if h.isManifestEntry(rel) {
		return true
	}
	for _, p := range h.PublicAPIPaths {
		if rel == p || strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

func (h Heuristics) isManifestEntry(rel string) bool {
	for _, e := range h.ManifestEntries {
		if e == rel {
			return true
		}
	}
	return false
}

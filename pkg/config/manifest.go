package config

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// manifestDelim is a key delimiter that cannot appear in package.json keys.
// The "exports" map uses keys such as "." and "./utils".
const manifestDelim = "\x00"

// Manifest is the subset of package.json that names a package's entry files.
type Manifest struct {
	Name    string
	Entries []string // root-relative, slash separated
}

// HasEntry reports whether rel is one of the manifest entries.
func (m *Manifest) HasEntry(rel string) bool {
	if m == nil {
		return false
	}
	for _, e := range m.Entries {
		if e == rel {
			return true
		}
	}
	return false
}

// LoadManifest reads package.json in root. A missing file yields an empty
// manifest and no error.
func LoadManifest(root string) (*Manifest, error) {
	p := filepath.Join(root, "package.json")
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}

	k := koanf.New(manifestDelim)
	if err := k.Load(file.Provider(p), json.Parser()); err != nil {
		return nil, err
	}

	m := &Manifest{Name: k.String("name")}
	seen := make(map[string]bool)
	add := func(v string) {
		if e := normalizeEntry(v); e != "" && !seen[e] {
			seen[e] = true
			m.Entries = append(m.Entries, e)
		}
	}

	for _, field := range []string{"main", "module", "types", "typings", "browser", "source"} {
		if s, ok := k.Get(field).(string); ok {
			add(s)
		}
	}
	collectEntries(k.Get("bin"), add)
	collectEntries(k.Get("exports"), add)

	sort.Strings(m.Entries)
	return m, nil
}

// collectEntries walks string, map and list values of entry fields.
func collectEntries(v any, add func(string)) {
	switch val := v.(type) {
	case string:
		add(val)
	case map[string]any:
		for _, child := range val {
			collectEntries(child, add)
		}
	case []any:
		for _, child := range val {
			collectEntries(child, add)
		}
	}
}

// normalizeEntry converts "./dist/index.js" to "dist/index.js". Wildcard
// subpath patterns cannot name a single file and are dropped.
func normalizeEntry(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "*") {
		return ""
	}
	s = path.Clean(filepath.ToSlash(s))
	s = strings.TrimPrefix(s, "./")
	if s == "." || strings.HasPrefix(s, "../") {
		return ""
	}
	return s
}

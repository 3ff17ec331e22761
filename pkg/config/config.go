package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for clrd.
type Config struct {
	// Scan settings
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ScanConfig controls file discovery and detection.
type ScanConfig struct {
	Extensions   []string `koanf:"extensions" toml:"extensions"`
	Ignore       []string `koanf:"ignore" toml:"ignore"`
	IncludeTests bool     `koanf:"include_tests" toml:"include_tests"`
	Confidence   float64  `koanf:"confidence" toml:"confidence"`
	Gitignore    bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, compact, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultExtensions are the JavaScript-family extensions scanned by default.
var DefaultExtensions = []string{"ts", "tsx", "js", "jsx", "mjs", "cjs"}

// DefaultIgnore are glob patterns never worth scanning.
var DefaultIgnore = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/.git/**",
	"**/coverage/**",
	"**/*.min.js",
	"**/*.bundle.js",
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions:   append([]string(nil), DefaultExtensions...),
			Ignore:       append([]string(nil), DefaultIgnore...),
			IncludeTests: false,
			Confidence:   0.5,
			Gitignore:    true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// parserFor picks a koanf parser from the file extension, defaulting to TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Load the config file
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Scan.Extensions = NormalizeExtensions(cfg.Scan.Extensions)
	return cfg, nil
}

// configNames are the file names searched by Find.
var configNames = []string{
	"clrd.toml",
	"clrd.yaml",
	"clrd.yml",
	"clrd.json",
	".clrd.toml",
	".clrd.yaml",
	".clrd.yml",
	".clrd.json",
}

// Find returns the first config file found in dir or dir/.clrd, or "".
func Find(dir string) string {
	searchDirs := []string{dir, filepath.Join(dir, ".clrd")}
	for _, d := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(d, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the config found in dir, or returns defaults when none
// exists. A config file that exists but fails to load is reported.
func LoadOrDefault(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// NormalizeExtensions strips leading dots, lower-cases, and removes blanks
// and duplicates while keeping order.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// SplitList splits a comma separated flag value.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

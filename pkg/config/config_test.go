package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check scan defaults
	if !reflect.DeepEqual(cfg.Scan.Extensions, []string{"ts", "tsx", "js", "jsx", "mjs", "cjs"}) {
		t.Errorf("Scan.Extensions = %v", cfg.Scan.Extensions)
	}
	if cfg.Scan.IncludeTests {
		t.Error("Scan.IncludeTests should be false by default")
	}
	if cfg.Scan.Confidence != 0.5 {
		t.Errorf("Scan.Confidence = %f, want 0.5", cfg.Scan.Confidence)
	}
	if !cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should be true by default")
	}
	if len(cfg.Scan.Ignore) != len(DefaultIgnore) {
		t.Errorf("Scan.Ignore has %d patterns, want %d", len(cfg.Scan.Ignore), len(DefaultIgnore))
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestDefaultConfigIsolation(t *testing.T) {
	a := DefaultConfig()
	a.Scan.Extensions[0] = "changed"
	a.Scan.Ignore = append(a.Scan.Ignore, "**/extra/**")

	b := DefaultConfig()
	if b.Scan.Extensions[0] != "ts" {
		t.Error("DefaultConfig() shares the extensions slice between calls")
	}
	if len(b.Scan.Ignore) != len(DefaultIgnore) {
		t.Error("DefaultConfig() shares the ignore slice between calls")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "clrd.toml")

	content := `
[scan]
extensions = [".TS", "tsx"]
ignore = ["**/generated/**"]
include_tests = true
confidence = 0.75

[output]
format = "json"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Scan.Extensions, []string{"ts", "tsx"}) {
		t.Errorf("Scan.Extensions = %v, want [ts tsx]", cfg.Scan.Extensions)
	}
	if !reflect.DeepEqual(cfg.Scan.Ignore, []string{"**/generated/**"}) {
		t.Errorf("Scan.Ignore = %v", cfg.Scan.Ignore)
	}
	if !cfg.Scan.IncludeTests {
		t.Error("Scan.IncludeTests should be true")
	}
	if cfg.Scan.Confidence != 0.75 {
		t.Errorf("Scan.Confidence = %f, want 0.75", cfg.Scan.Confidence)
	}
	if !cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should keep its default")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "clrd.yaml")

	content := `
scan:
  gitignore: false
  confidence: 0.9

output:
  format: markdown
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should be false")
	}
	if cfg.Scan.Confidence != 0.9 {
		t.Errorf("Scan.Confidence = %f, want 0.9", cfg.Scan.Confidence)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "clrd.json")

	content := `{
  "scan": {
    "include_tests": true
  },
  "output": {
    "format": "compact",
    "color": false
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Scan.IncludeTests {
		t.Error("Scan.IncludeTests should be true")
	}
	if cfg.Output.Format != "compact" {
		t.Errorf("Output.Format = %s, want compact", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/clrd.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "clrd.toml")

	// Invalid TOML
	content := `[scan
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadOrDefault(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Scan.Confidence != 0.5 {
		t.Errorf("LoadOrDefault() returned non-default Confidence: %f", cfg.Scan.Confidence)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, ".clrd"), 0755); err != nil {
		t.Fatal(err)
	}
	content := "[scan]\nconfidence = 0.95\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".clrd", "clrd.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if got := Find(tmpDir); got != filepath.Join(tmpDir, ".clrd", "clrd.toml") {
		t.Errorf("Find() = %q", got)
	}

	cfg, err := LoadOrDefault(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Scan.Confidence != 0.95 {
		t.Errorf("LoadOrDefault() should load from file, got Confidence=%f", cfg.Scan.Confidence)
	}
}

func TestFindPrefersRootDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".clrd"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{filepath.Join(tmpDir, ".clrd.yaml"), filepath.Join(tmpDir, ".clrd", "clrd.toml")} {
		if err := os.WriteFile(p, []byte(""), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := Find(tmpDir); got != filepath.Join(tmpDir, ".clrd.yaml") {
		t.Errorf("Find() = %q, want root .clrd.yaml", got)
	}
	if got := Find(t.TempDir()); got != "" {
		t.Errorf("Find() on empty dir = %q, want empty", got)
	}
}

func TestNormalizeExtensions(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{".ts", "TSX", " js "}, []string{"ts", "tsx", "js"}},
		{[]string{"ts", ".ts", ""}, []string{"ts"}},
	}

	for _, tt := range tests {
		got := NormalizeExtensions(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeExtensions(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	if got := SplitList(""); got != nil {
		t.Errorf("SplitList(\"\") = %v, want nil", got)
	}
	if got := SplitList("ts, tsx,,js"); !reflect.DeepEqual(got, []string{"ts", "tsx", "js"}) {
		t.Errorf("SplitList() = %v", got)
	}
}

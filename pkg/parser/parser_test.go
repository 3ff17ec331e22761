package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Error("parser field is nil")
	}
	p.Close()
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"app.ts", LangTypeScript},
		{"esm.mts", LangTypeScript},
		{"cjs.cts", LangTypeScript},
		{"component.tsx", LangTSX},
		{"script.js", LangJavaScript},
		{"module.mjs", LangJavaScript},
		{"common.cjs", LangJavaScript},
		{"component.jsx", LangJavaScript},
		{"UPPER.TS", LangTypeScript},
		{"src/deep/nested/file.tsx", LangTSX},

		// Unknown extensions fall back to the permissive module dialect
		{"file.vue", DefaultLanguage},
		{"Makefile", DefaultLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectLanguage(tt.path); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsKnownExtension(t *testing.T) {
	assert.True(t, IsKnownExtension("a.ts"))
	assert.True(t, IsKnownExtension("a.CJS"))
	assert.False(t, IsKnownExtension("a.go"))
	assert.False(t, IsKnownExtension("README"))
}

func TestGetTreeSitterLanguage(t *testing.T) {
	for _, lang := range []Language{LangJavaScript, LangTypeScript, LangTSX} {
		tsLang, err := GetTreeSitterLanguage(lang)
		require.NoError(t, err, lang)
		assert.NotNil(t, tsLang, lang)
	}

	_, err := GetTreeSitterLanguage("cobol")
	assert.Error(t, err)
}

func TestParseValidSource(t *testing.T) {
	tests := []struct {
		name   string
		lang   Language
		source string
	}{
		{"javascript", LangJavaScript, "import a from './a';\nexport const b = a + 1;\n"},
		{"typescript", LangTypeScript, "import type { T } from './t';\nexport interface Shape { t: T }\n"},
		{"tsx", LangTSX, "export function App() { return <div className=\"x\" />; }\n"},
		{"jsx in javascript", LangJavaScript, "export const App = () => <Button />;\n"},
	}

	p := New()
	defer p.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Parse(context.Background(), []byte(tt.source), tt.lang, "test")
			require.NoError(t, err)
			defer result.Close()

			assert.Equal(t, "program", result.Root().Type())
			assert.Equal(t, tt.lang, result.Language)
			assert.Empty(t, result.Diagnostics)
		})
	}
}

func TestParseReturnsTreeWithDiagnostics(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("export const ok = 1;\nconst broken = ;\n")
	result, err := p.Parse(context.Background(), source, LangTypeScript, "broken.ts")
	require.NoError(t, err)
	defer result.Close()

	require.NotNil(t, result.Tree)
	assert.NotEmpty(t, result.Diagnostics)
	for _, d := range result.Diagnostics {
		assert.GreaterOrEqual(t, d.Line, uint32(1))
		assert.NotEmpty(t, d.String())
	}

	// The valid statement is still present in the tree.
	exports := FindNodesByType(result.Root(), source, "export_statement")
	assert.Len(t, exports, 1)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ts")
	require.NoError(t, os.WriteFile(path, []byte("export type Id = string;\n"), 0o644))

	p := New()
	defer p.Close()

	result, err := p.ParseFile(path)
	require.NoError(t, err)
	defer result.Close()
	assert.Equal(t, LangTypeScript, result.Language)
	assert.Equal(t, path, result.Path)

	_, err = p.ParseFile(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)
}

func TestWalkTypedSkipsChildren(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("function outer() { function inner() {} }\n")
	result, err := p.Parse(context.Background(), source, LangJavaScript, "walk.js")
	require.NoError(t, err)
	defer result.Close()

	var names []string
	WalkTyped(result.Root(), source, func(node *sitter.Node, nodeType string, src []byte) bool {
		if nodeType == "function_declaration" {
			names = append(names, GetNodeText(node.ChildByFieldName("name"), src))
			return false
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, names)

	all := FindNodesByType(result.Root(), source, "function_declaration")
	assert.Len(t, all, 2)
}

func TestGetNodeText(t *testing.T) {
	assert.Equal(t, "", GetNodeText(nil, []byte("x")))

	p := New()
	defer p.Close()

	source := []byte("let answer = 42;")
	result, err := p.Parse(context.Background(), source, LangJavaScript, "t.js")
	require.NoError(t, err)
	defer result.Close()

	nums := FindNodesByType(result.Root(), source, "number")
	require.Len(t, nums, 1)
	assert.Equal(t, "42", GetNodeText(nums[0], source))

	// Offsets past the end of a shorter buffer are rejected.
	assert.Equal(t, "", GetNodeText(nums[0], source[:5]))
}

func TestChildOfType(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("import type { A } from './a';")
	result, err := p.Parse(context.Background(), source, LangTypeScript, "t.ts")
	require.NoError(t, err)
	defer result.Close()

	stmt := result.Root().NamedChild(0)
	require.Equal(t, "import_statement", stmt.Type())
	assert.True(t, HasChildOfType(stmt, "type"))
	assert.NotNil(t, ChildOfType(stmt, "import_clause"))
	assert.Nil(t, ChildOfType(stmt, "export_clause"))
	assert.Nil(t, ChildOfType(nil, "x"))
}

package deadcode

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/panbanda/clrd/pkg/models"
	"github.com/panbanda/clrd/pkg/parser"
	"github.com/panbanda/clrd/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, path, content string) *models.ReferenceNode {
	t.Helper()
	psr := parser.New()
	defer psr.Close()

	node, err := Extract(context.Background(), psr, path, []byte(content))
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

func findExport(node *models.ReferenceNode, name string) (models.ExportedSymbol, bool) {
	for _, e := range node.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return models.ExportedSymbol{}, false
}

func findImport(node *models.ReferenceNode, local string) (models.ImportedSymbol, bool) {
	for _, i := range node.Imports {
		if i.LocalName() == local {
			return i, true
		}
	}
	return models.ImportedSymbol{}, false
}

func TestExtractImports(t *testing.T) {
	node := extract(t, "/p/src/b.ts", `import React from 'react';
import { x, y as z } from './a';
import * as utils from '../utils';
import type { Props } from './types';

console.log(x, z, utils, React);
`)

	require.Len(t, node.Imports, 5)

	def, ok := findImport(node, "React")
	require.True(t, ok)
	assert.Equal(t, models.DefaultName, def.Name)
	assert.Equal(t, "react", def.Source)
	assert.Equal(t, uint32(1), def.Span.Start)

	x, ok := findImport(node, "x")
	require.True(t, ok)
	assert.Equal(t, "x", x.Name)
	assert.Empty(t, x.Alias)
	assert.Equal(t, "./a", x.Source)
	assert.False(t, x.IsTypeOnly)

	z, ok := findImport(node, "z")
	require.True(t, ok)
	assert.Equal(t, "y", z.Name)
	assert.Equal(t, "z", z.Alias)

	ns, ok := findImport(node, "utils")
	require.True(t, ok)
	assert.Equal(t, models.Wildcard, ns.Name)
	assert.Equal(t, "../utils", ns.Source)

	props, ok := findImport(node, "Props")
	require.True(t, ok)
	assert.True(t, props.IsTypeOnly)
	assert.Equal(t, uint32(4), props.Span.Start)
}

func TestExtractSideEffectImportHasNoBindings(t *testing.T) {
	node := extract(t, "/p/a.ts", "import './polyfill';\n")
	assert.Empty(t, node.Imports)
}

func TestExtractDeclarationExports(t *testing.T) {
	node := extract(t, "/p/src/a.ts", `export function run() {}
export const LIMIT = 10, OTHER = 2;
export let counter = 0;
export var legacy = 1;
export class Service {}
export interface Options { debug: boolean }
export type ID = string;
export enum Color { Red, Green }
`)

	tests := []struct {
		name string
		kind models.SymbolKind
		line uint32
	}{
		{"run", models.SymbolFunction, 1},
		{"LIMIT", models.SymbolConst, 2},
		{"OTHER", models.SymbolConst, 2},
		{"counter", models.SymbolLet, 3},
		{"legacy", models.SymbolVariable, 4},
		{"Service", models.SymbolClass, 5},
		{"Options", models.SymbolInterface, 6},
		{"ID", models.SymbolType, 7},
		{"Color", models.SymbolEnum, 8},
	}

	require.Len(t, node.Exports, len(tests))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, ok := findExport(node, tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, exp.Kind)
			assert.Equal(t, tt.line, exp.Span.Start)
			assert.False(t, exp.IsDefault)
			assert.False(t, exp.IsReexport)
		})
	}
}

func TestExtractDestructuredExports(t *testing.T) {
	node := extract(t, "/p/a.js", "export const { a, b: renamed } = obj;\n")

	_, ok := findExport(node, "a")
	assert.True(t, ok)
	_, ok = findExport(node, "renamed")
	assert.True(t, ok)
}

func TestExtractDefaultExports(t *testing.T) {
	t.Run("named function", func(t *testing.T) {
		node := extract(t, "/p/a.ts", "export default function main() {}\n")
		require.Len(t, node.Exports, 1)
		assert.Equal(t, "main", node.Exports[0].Name)
		assert.Equal(t, models.SymbolFunction, node.Exports[0].Kind)
		assert.True(t, node.Exports[0].IsDefault)
	})

	t.Run("expression", func(t *testing.T) {
		node := extract(t, "/p/a.ts", "const config = {};\nexport default config;\n")
		require.Len(t, node.Exports, 1)
		assert.Equal(t, models.DefaultName, node.Exports[0].Name)
		assert.Equal(t, models.SymbolVariable, node.Exports[0].Kind)
		assert.True(t, node.Exports[0].IsDefault)
	})
}

func TestExtractExportClauses(t *testing.T) {
	node := extract(t, "/p/a.ts", `const one = 1;
const two = 2;
export { one, two as second };
export { three } from './three';
export * from './all';
`)

	one, ok := findExport(node, "one")
	require.True(t, ok)
	assert.False(t, one.IsReexport)

	_, ok = findExport(node, "two")
	assert.False(t, ok, "alias replaces the local name")
	second, ok := findExport(node, "second")
	require.True(t, ok)
	assert.False(t, second.IsReexport)

	three, ok := findExport(node, "three")
	require.True(t, ok)
	assert.True(t, three.IsReexport)

	star, ok := findExport(node, models.Wildcard)
	require.True(t, ok)
	assert.True(t, star.IsReexport)
}

func TestExtractOverloadsExportOnce(t *testing.T) {
	node := extract(t, "/p/a.ts", `export function parse(s: string): number;
export function parse(s: number): number;
export function parse(s: any): number { return 0; }
`)
	assert.Len(t, node.Exports, 1)
}

func TestExtractReferences(t *testing.T) {
	node := extract(t, "/p/b.ts", `import { used, unused } from './a';
import type { Shape } from './shape';

const s: Shape = { used };
function go() { return used(); }
export { go };
export { fromElsewhere } from './x';
`)

	assert.True(t, node.References("used"))
	assert.True(t, node.References("Shape"))
	assert.True(t, node.References("s"))
	assert.True(t, node.References("go"))
	assert.False(t, node.References("unused"), "import bindings are not references")
	assert.False(t, node.References("fromElsewhere"), "re-export clauses are not references")
}

func TestExtractCountsLines(t *testing.T) {
	assert.Equal(t, 3, extract(t, "/p/a.js", "a\nb\nc\n").Lines)
	assert.Equal(t, 3, extract(t, "/p/a.js", "a\nb\nc").Lines)
	assert.Equal(t, 0, extract(t, "/p/a.js", "").Lines)
}

func TestExtractToleratesSyntaxErrors(t *testing.T) {
	node := extract(t, "/p/broken.ts", `export const ok = 1;
function broken( {
export function later() {}
`)
	_, ok := findExport(node, "ok")
	assert.True(t, ok)
}

func TestAnalyzeFile(t *testing.T) {
	src := source.NewMemory(map[string]string{
		"/p/a.ts": "export const a = 1;\n",
	})
	psr := parser.New()
	defer psr.Close()

	node, err := AnalyzeFile(context.Background(), psr, src, "/p/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "/p/a.ts", node.FilePath)
	assert.Len(t, node.Exports, 1)

	_, err = AnalyzeFile(context.Background(), psr, src, "/p/missing.ts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseError(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Path: "a.ts", Err: inner}
	assert.Equal(t, "parse a.ts: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "./a", unquote(`'./a'`))
	assert.Equal(t, "./a", unquote(`"./a"`))
	assert.Equal(t, "name", unquote("name"))
	assert.Equal(t, `'`, unquote(`'`))
}

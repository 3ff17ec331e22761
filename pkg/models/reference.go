package models

import "sort"

// SymbolKind is the declaration kind of an exported symbol.
type SymbolKind string

const (
	SymbolFunction  SymbolKind = "function"
	SymbolClass     SymbolKind = "class"
	SymbolVariable  SymbolKind = "variable"
	SymbolConst     SymbolKind = "const"
	SymbolLet       SymbolKind = "let"
	SymbolType      SymbolKind = "type"
	SymbolInterface SymbolKind = "interface"
	SymbolEnum      SymbolKind = "enum"
	SymbolNamespace SymbolKind = "namespace"
)

// Wildcard is the name used for `export * from` and `import * as`.
const Wildcard = "*"

// DefaultName is the name used for default imports and anonymous default exports.
const DefaultName = "default"

// ExportedSymbol is one name a file exports.
type ExportedSymbol struct {
	Name       string     `json:"name" toon:"name"`
	Kind       SymbolKind `json:"kind" toon:"kind"`
	Span       CodeSpan   `json:"span" toon:"span"`
	IsDefault  bool       `json:"is_default" toon:"is_default"`
	IsReexport bool       `json:"is_reexport" toon:"is_reexport"`
}

// ImportedSymbol is one binding a file imports. Source is the specifier as written.
type ImportedSymbol struct {
	Name       string   `json:"name" toon:"name"`
	Alias      string   `json:"alias,omitempty" toon:"alias,omitempty"`
	Source     string   `json:"source" toon:"source"`
	IsTypeOnly bool     `json:"is_type_only" toon:"is_type_only"`
	Span       CodeSpan `json:"span" toon:"span"`
}

// LocalName returns the name the import is bound to inside the file.
func (i ImportedSymbol) LocalName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Name
}

// ReferenceNode is the per-file fact sheet produced by source analysis.
type ReferenceNode struct {
	FilePath     string              `json:"file_path" toon:"file_path"`
	Exports      []ExportedSymbol    `json:"exports" toon:"exports"`
	Imports      []ImportedSymbol    `json:"imports" toon:"imports"`
	InternalRefs map[string]struct{} `json:"-" toon:"-"`
	Lines        int                 `json:"lines" toon:"lines"`
}

// NewReferenceNode creates an empty node for path.
func NewReferenceNode(path string) *ReferenceNode {
	return &ReferenceNode{
		FilePath:     path,
		InternalRefs: make(map[string]struct{}),
	}
}

// AddRef records an identifier occurrence.
func (n *ReferenceNode) AddRef(name string) {
	if name == "" {
		return
	}
	n.InternalRefs[name] = struct{}{}
}

// References reports whether name occurs in the file body.
func (n *ReferenceNode) References(name string) bool {
	_, ok := n.InternalRefs[name]
	return ok
}

// RefNames returns the recorded identifier names in sorted order.
func (n *ReferenceNode) RefNames() []string {
	names := make([]string, 0, len(n.InternalRefs))
	for name := range n.InternalRefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

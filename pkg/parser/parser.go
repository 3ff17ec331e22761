package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is a JavaScript-family dialect.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// DefaultLanguage is used for unrecognized extensions. The javascript grammar
// accepts module syntax and JSX, making it the most permissive choice.
const DefaultLanguage = LangJavaScript

// Parser wraps tree-sitter for the JavaScript family of grammars.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// DiagnosticKind distinguishes the two ways tree-sitter reports trouble.
type DiagnosticKind string

const (
	DiagnosticError   DiagnosticKind = "error"
	DiagnosticMissing DiagnosticKind = "missing"
)

// Diagnostic is a recovered syntax problem. Diagnostics never fail a parse.
type Diagnostic struct {
	Kind   DiagnosticKind
	Line   uint32
	Column uint32
	Text   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s %q", d.Line, d.Column, d.Kind, d.Text)
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree        *sitter.Tree
	Language    Language
	Source      []byte
	Path        string
	Diagnostics []Diagnostic
}

// Root returns the root node of the tree.
func (r *ParseResult) Root() *sitter.Node {
	return r.Tree.RootNode()
}

// Close releases the tree.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(context.Background(), source, DetectLanguage(path), path)
}

// Parse parses source with the given dialect. A tree is always returned when
// err is nil, even for input with syntax errors; those are reported in
// Diagnostics.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse: no tree produced")
	}

	result := &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}
	result.Diagnostics = collectDiagnostics(tree.RootNode(), source)
	return result, nil
}

// collectDiagnostics gathers ERROR and MISSING nodes, only descending into
// subtrees that contain errors.
func collectDiagnostics(root *sitter.Node, source []byte) []Diagnostic {
	if root == nil || !root.HasError() {
		return nil
	}

	var diags []Diagnostic
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch {
		case n.Type() == "ERROR":
			diags = append(diags, newDiagnostic(DiagnosticError, n, source))
			return
		case n.IsMissing():
			diags = append(diags, newDiagnostic(DiagnosticMissing, n, source))
			return
		}
		if !n.HasError() {
			return
		}
		for i := range int(n.ChildCount()) {
			visit(n.Child(i))
		}
	}
	visit(root)
	return diags
}

func newDiagnostic(kind DiagnosticKind, n *sitter.Node, source []byte) Diagnostic {
	text := GetNodeText(n, source)
	if kind == DiagnosticMissing {
		text = n.Type()
	}
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return Diagnostic{
		Kind:   kind,
		Line:   n.StartPoint().Row + 1,
		Column: n.StartPoint().Column,
		Text:   text,
	}
}

// GetTreeSitterLanguage returns the tree-sitter grammar for a Language.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage picks a dialect from the file extension, falling back to
// DefaultLanguage.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript
	default:
		return DefaultLanguage
	}
}

// IsKnownExtension reports whether the path has a JavaScript-family extension.
func IsKnownExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts", ".tsx", ".js", ".mjs", ".cjs", ".jsx":
		return true
	}
	return false
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// TypedNodeVisitor visits AST nodes with pre-cached node type to avoid CGO overhead.
type TypedNodeVisitor func(node *sitter.Node, nodeType string, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// WalkTyped traverses the AST with cached node types to reduce CGO overhead.
// Returning false from the visitor skips the node's children.
func WalkTyped(node *sitter.Node, source []byte, visitor TypedNodeVisitor) {
	if node == nil {
		return
	}

	nodeType := node.Type()
	if !visitor(node, nodeType, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		WalkTyped(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	WalkTyped(root, source, func(node *sitter.Node, t string, _ []byte) bool {
		if t == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// HasChildOfType reports whether node has a direct child (named or anonymous) of the given type.
func HasChildOfType(node *sitter.Node, nodeType string) bool {
	return ChildOfType(node, nodeType) != nil
}

// ChildOfType returns the first direct child of the given type, or nil.
func ChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child != nil && child.Type() == nodeType {
			return child
		}
	}
	return nil
}

package deadcode

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/panbanda/clrd/pkg/models"
	"github.com/panbanda/clrd/pkg/parser"
	"github.com/panbanda/clrd/pkg/source"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseError reports a file for which no syntax tree could be produced.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AnalyzeFile reads path from src and extracts its fact sheet.
func AnalyzeFile(ctx context.Context, psr *parser.Parser, src source.ContentSource, path string) (*models.ReferenceNode, error) {
	content, err := source.ReadFile(src, path)
	if err != nil {
		return nil, err
	}
	return Extract(ctx, psr, path, content)
}

// Extract parses content and collects the file's exports, imports and
// identifier references. Syntax errors do not fail extraction; whatever
// parsed is still walked.
func Extract(ctx context.Context, psr *parser.Parser, path string, content []byte) (*models.ReferenceNode, error) {
	result, err := psr.Parse(ctx, content, parser.DetectLanguage(path), path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer result.Close()

	if n := len(result.Diagnostics); n > 0 {
		slog.Debug("partial parse", "path", path, "diagnostics", n, "first", result.Diagnostics[0].String())
	}

	x := &extractor{
		src:  content,
		node: models.NewReferenceNode(path),
	}
	x.node.Lines = countLines(content)

	root := result.Root()
	x.statements(root)
	x.collectRefs(root)
	return x.node, nil
}

type extractor struct {
	src  []byte
	node *models.ReferenceNode
}

// statements dispatches each top-level statement. ERROR nodes at the top
// level are descended into so that statements swallowed by error recovery
// still contribute.
func (x *extractor) statements(parent *sitter.Node) {
	for i := range int(parent.NamedChildCount()) {
		stmt := parent.NamedChild(i)
		switch stmt.Type() {
		case "import_statement":
			x.importStatement(stmt)
		case "export_statement":
			x.exportStatement(stmt)
		case "ERROR":
			x.statements(stmt)
		default:
		}
	}
}

func (x *extractor) text(n *sitter.Node) string {
	return parser.GetNodeText(n, x.src)
}

// lineAt converts a byte offset to a 1-indexed line number.
func (x *extractor) lineAt(offset uint32) uint32 {
	if int(offset) > len(x.src) {
		offset = uint32(len(x.src))
	}
	return uint32(bytes.Count(x.src[:offset], []byte{'\n'})) + 1
}

func (x *extractor) span(n *sitter.Node) models.CodeSpan {
	return models.NewSpan(x.lineAt(n.StartByte()), x.lineAt(n.EndByte()))
}

// moduleName returns the text of an identifier or the contents of a string.
func (x *extractor) moduleName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return unquote(x.text(n))
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func (x *extractor) importStatement(n *sitter.Node) {
	src := x.moduleName(n.ChildByFieldName("source"))
	typeOnly := parser.HasChildOfType(n, "type") || parser.HasChildOfType(n, "typeof")
	span := x.span(n)

	clause := parser.ChildOfType(n, "import_clause")
	if clause == nil {
		return
	}

	add := func(name, alias string, specTypeOnly bool) {
		x.node.Imports = append(x.node.Imports, models.ImportedSymbol{
			Name:       name,
			Alias:      alias,
			Source:     src,
			IsTypeOnly: typeOnly || specTypeOnly,
			Span:       span,
		})
	}

	for i := range int(clause.NamedChildCount()) {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			add(models.DefaultName, x.text(child), false)
		case "namespace_import":
			if id := parser.ChildOfType(child, "identifier"); id != nil {
				add(models.Wildcard, x.text(id), false)
			}
		case "named_imports":
			for j := range int(child.NamedChildCount()) {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := x.moduleName(spec.ChildByFieldName("name"))
				alias := x.text(spec.ChildByFieldName("alias"))
				add(name, alias, parser.HasChildOfType(spec, "type") || parser.HasChildOfType(spec, "typeof"))
			}
		}
	}
}

func (x *extractor) addExport(name string, kind models.SymbolKind, span models.CodeSpan, isDefault, isReexport bool) {
	if name == "" {
		return
	}
	// Overload signatures and merged declarations repeat a name.
	if name != models.Wildcard {
		for _, e := range x.node.Exports {
			if e.Name == name && e.IsDefault == isDefault && e.IsReexport == isReexport {
				return
			}
		}
	}
	x.node.Exports = append(x.node.Exports, models.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Span:       span,
		IsDefault:  isDefault,
		IsReexport: isReexport,
	})
}

func (x *extractor) exportStatement(n *sitter.Node) {
	span := x.span(n)

	if parser.HasChildOfType(n, "default") {
		x.defaultExport(n, span)
		return
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		x.declarationExport(decl, span)
		return
	}

	isReexport := n.ChildByFieldName("source") != nil
	hasNamespace := false
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		switch child.Type() {
		case "export_clause":
			for j := range int(child.NamedChildCount()) {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := x.moduleName(spec.ChildByFieldName("name"))
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					name = x.moduleName(alias)
				}
				x.addExport(name, models.SymbolVariable, span, false, isReexport)
			}
		case "namespace_export":
			hasNamespace = true
			if count := int(child.NamedChildCount()); count > 0 {
				x.addExport(x.moduleName(child.NamedChild(count-1)), models.SymbolNamespace, span, false, true)
			}
		}
	}

	if isReexport && !hasNamespace && parser.HasChildOfType(n, "*") {
		x.addExport(models.Wildcard, models.SymbolVariable, span, false, true)
	}
}

func (x *extractor) defaultExport(n *sitter.Node, span models.CodeSpan) {
	target := n.ChildByFieldName("declaration")
	if target == nil {
		target = n.ChildByFieldName("value")
	}

	kind := models.SymbolVariable
	name := models.DefaultName
	if target != nil {
		switch target.Type() {
		case "function_declaration", "generator_function_declaration", "function", "function_expression", "generator_function":
			kind = models.SymbolFunction
		case "class_declaration", "abstract_class_declaration", "class":
			kind = models.SymbolClass
		}
		if kind != models.SymbolVariable {
			if id := target.ChildByFieldName("name"); id != nil {
				name = x.text(id)
			}
		}
	}
	x.addExport(name, kind, span, true, false)
}

// declarationExport handles `export <declaration>`, one arm per declaration
// kind in the grammar.
func (x *extractor) declarationExport(decl *sitter.Node, span models.CodeSpan) {
	named := func(kind models.SymbolKind) {
		x.addExport(x.moduleName(decl.ChildByFieldName("name")), kind, span, false, false)
	}

	switch decl.Type() {
	case "lexical_declaration":
		kind := models.SymbolLet
		if first := decl.Child(0); first != nil && first.Type() == "const" {
			kind = models.SymbolConst
		}
		x.declarators(decl, kind, span)
	case "variable_declaration":
		x.declarators(decl, models.SymbolVariable, span)
	case "function_declaration", "generator_function_declaration", "function_signature":
		named(models.SymbolFunction)
	case "class_declaration", "abstract_class_declaration":
		named(models.SymbolClass)
	case "type_alias_declaration":
		named(models.SymbolType)
	case "interface_declaration":
		named(models.SymbolInterface)
	case "enum_declaration":
		named(models.SymbolEnum)
	case "internal_module", "module":
		named(models.SymbolNamespace)
	case "ambient_declaration":
		for i := range int(decl.NamedChildCount()) {
			x.declarationExport(decl.NamedChild(i), span)
		}
	default:
	}
}

func (x *extractor) declarators(decl *sitter.Node, kind models.SymbolKind, span models.CodeSpan) {
	for i := range int(decl.NamedChildCount()) {
		d := decl.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		for _, name := range x.bindingNames(d.ChildByFieldName("name")) {
			x.addExport(name, kind, span, false, false)
		}
	}
}

// bindingNames returns every name bound by an identifier or destructuring pattern.
func (x *extractor) bindingNames(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{x.text(n)}
	case "pair_pattern":
		return x.bindingNames(n.ChildByFieldName("value"))
	case "assignment_pattern", "object_assignment_pattern":
		return x.bindingNames(n.ChildByFieldName("left"))
	case "object_pattern", "array_pattern", "rest_pattern":
		var names []string
		for i := range int(n.NamedChildCount()) {
			names = append(names, x.bindingNames(n.NamedChild(i))...)
		}
		return names
	default:
		return nil
	}
}

// collectRefs records every identifier occurrence outside import statements
// and re-export clauses.
func (x *extractor) collectRefs(root *sitter.Node) {
	parser.WalkTyped(root, x.src, func(n *sitter.Node, nodeType string, src []byte) bool {
		switch nodeType {
		case "import_statement":
			return false
		case "export_statement":
			return n.ChildByFieldName("source") == nil
		case "identifier", "type_identifier", "shorthand_property_identifier":
			x.node.AddRef(parser.GetNodeText(n, src))
		}
		return true
	})
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

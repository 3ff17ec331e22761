package deadcode

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/panbanda/clrd/pkg/models"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// resolveSuffixes is the probe order applied after the literal path.
var resolveSuffixes = []string{
	".ts",
	".tsx",
	".js",
	".jsx",
	"/index.ts",
	"/index.tsx",
	"/index.js",
}

// Builder accumulates per-file fact sheets. Add is safe for concurrent use;
// each call is one short critical section.
type Builder struct {
	root string

	mu          sync.Mutex
	sealed      bool
	nodes       map[string]*models.ReferenceNode
	exportIndex map[string][]string
	importIndex map[string][]string
}

// NewBuilder creates a builder for files under root.
func NewBuilder(root string) *Builder {
	return &Builder{
		root:        filepath.Clean(root),
		nodes:       make(map[string]*models.ReferenceNode),
		exportIndex: make(map[string][]string),
		importIndex: make(map[string][]string),
	}
}

// Add inserts one file's node. Calling Add after Seal is a programming error
// and panics.
func (b *Builder) Add(node *models.ReferenceNode) {
	path := filepath.Clean(node.FilePath)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		panic("deadcode: Builder.Add called after Seal")
	}
	if _, dup := b.nodes[path]; dup {
		return
	}
	b.nodes[path] = node
	for _, exp := range node.Exports {
		b.exportIndex[exp.Name] = append(b.exportIndex[exp.Name], path)
	}
	for _, imp := range node.Imports {
		b.importIndex[imp.Source] = append(b.importIndex[imp.Source], path)
	}
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

// Seal closes the builder for insertion and returns the read-only graph.
// Every import is resolved once here.
func (b *Builder) Seal() *Graph {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealed = true

	g := &Graph{
		root:        b.root,
		nodes:       b.nodes,
		exportIndex: b.exportIndex,
		importIndex: b.importIndex,
		ids:         make(map[string]int64, len(b.nodes)),
		resolved:    make(map[string][]string, len(b.nodes)),
		imports:     simple.NewDirectedGraph(),
	}

	g.files = make([]string, 0, len(b.nodes))
	for path := range b.nodes {
		g.files = append(g.files, path)
	}
	sort.Strings(g.files)

	for i, path := range g.files {
		id := int64(i)
		g.ids[path] = id
		g.imports.AddNode(simple.Node(id))
	}

	for _, path := range g.files {
		node := g.nodes[path]
		targets := make([]string, len(node.Imports))
		for i, imp := range node.Imports {
			target, ok := g.Resolve(path, imp.Source)
			if !ok {
				continue
			}
			targets[i] = target
			// simple graphs reject self-loops; a file importing itself is not a reference from another file.
			if target == path {
				continue
			}
			from, to := simple.Node(g.ids[path]), simple.Node(g.ids[target])
			if !g.imports.HasEdgeFromTo(from.ID(), to.ID()) {
				g.imports.SetEdge(g.imports.NewEdge(from, to))
			}
		}
		g.resolved[path] = targets
	}

	return g
}

// Graph is the sealed, read-only reference graph.
type Graph struct {
	root        string
	files       []string
	nodes       map[string]*models.ReferenceNode
	exportIndex map[string][]string
	importIndex map[string][]string

	ids      map[string]int64
	resolved map[string][]string // per file, aligned with node.Imports; "" when unresolved
	imports  *simple.DirectedGraph
}

// Root returns the scan root.
func (g *Graph) Root() string {
	return g.root
}

// Files returns the analyzed files in sorted order.
func (g *Graph) Files() []string {
	return g.files
}

// Node returns the fact sheet for path.
func (g *Graph) Node(path string) (*models.ReferenceNode, bool) {
	n, ok := g.nodes[filepath.Clean(path)]
	return n, ok
}

// Relative returns path relative to the root with forward slashes.
func (g *Graph) Relative(path string) string {
	rel, err := filepath.Rel(g.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// ExportedBy returns the files that export name.
func (g *Graph) ExportedBy(name string) []string {
	return g.exportIndex[name]
}

// ImportersOf returns the files that import the raw specifier source.
func (g *Graph) ImportersOf(source string) []string {
	return g.importIndex[source]
}

// ResolvedImports returns the resolved target of each of file's imports,
// aligned with its Imports slice. Unresolved entries are empty.
func (g *Graph) ResolvedImports(file string) []string {
	return g.resolved[filepath.Clean(file)]
}

// Importers returns the other files whose imports resolve to file, sorted.
func (g *Graph) Importers(file string) []string {
	id, ok := g.ids[filepath.Clean(file)]
	if !ok {
		return nil
	}
	var out []string
	for _, n := range graph.NodesOf(g.imports.To(id)) {
		out = append(out, g.files[n.ID()])
	}
	sort.Strings(out)
	return out
}

// IsImported reports whether any other file's imports resolve to file.
func (g *Graph) IsImported(file string) bool {
	id, ok := g.ids[filepath.Clean(file)]
	if !ok {
		return false
	}
	return g.imports.To(id).Len() > 0
}

// Resolve maps an import specifier written in from to an analyzed file.
// Bare specifiers name packages and never resolve. Relative specifiers are
// joined to the importer's directory, absolute ones are used as is; the
// literal path is tried first, then each suffix in resolveSuffixes.
func (g *Graph) Resolve(from, source string) (string, bool) {
	if !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/") {
		return "", false
	}

	var base string
	if strings.HasPrefix(source, "/") {
		base = filepath.Clean(filepath.FromSlash(source))
	} else {
		base = filepath.Join(filepath.Dir(from), filepath.FromSlash(source))
	}

	if _, ok := g.nodes[base]; ok {
		return base, true
	}
	for _, suffix := range resolveSuffixes {
		candidate := base + filepath.FromSlash(suffix)
		if _, ok := g.nodes[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

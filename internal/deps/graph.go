// Package deps resolves, for each owning package observed in a size
// report, the shortest dependency chain from the binary's root package.
package deps

// Package is one node of the dependency graph: a package name and the
// names of the packages it depends on.
type Package struct {
	Name         string
	Dependencies []string
}

// Graph is an adjacency-indexed dependency graph. Nodes live in an arena
// indexed by insertion order; traversal tracks identity by index so that
// cycles and self-dependencies cost nothing special.
type Graph struct {
	names []string
	index map[string]int
	deps  [][]int
}

// NewGraph builds a graph from package entries. Duplicate package entries
// (several versions of one name) merge their dependency edges; duplicate
// edges collapse.
func NewGraph(pkgs []Package) *Graph {
	g := &Graph{index: make(map[string]int, len(pkgs))}

	for _, pkg := range pkgs {
		g.intern(pkg.Name)
	}
	for _, pkg := range pkgs {
		from := g.intern(pkg.Name)
		for _, dep := range pkg.Dependencies {
			g.addEdge(from, g.intern(dep))
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// Name returns the name of node i.
func (g *Graph) Name(i int) string {
	return g.names[i]
}

// Lookup returns the index of a named node.
func (g *Graph) Lookup(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Deps returns the dependency indexes of node i.
func (g *Graph) Deps(i int) []int {
	return g.deps[i]
}

func (g *Graph) intern(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.index[name] = i
	g.names = append(g.names, name)
	g.deps = append(g.deps, nil)
	return i
}

func (g *Graph) addEdge(from, to int) {
	for _, existing := range g.deps[from] {
		if existing == to {
			return
		}
	}
	g.deps[from] = append(g.deps[from], to)
}

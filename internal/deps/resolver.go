package deps

import (
	"sort"
)

// Resolver answers, per owning package, the shortest attribution chain
// from a canonical dependency root. It is built once and then read-only.
type Resolver struct {
	chains map[string][]string
}

// NewResolver computes chains for every target name. The graph is treated
// as read-only; canonicalization works on a private adjacency overlay. A
// nil or empty graph degrades every owner to a trivial chain.
func NewResolver(g *Graph, targets map[string]struct{}) *Resolver {
	r := &Resolver{chains: make(map[string][]string, len(targets))}
	if g == nil || g.Len() == 0 || len(targets) == 0 {
		return r
	}

	n := g.Len()
	removed := make([]bool, n)
	adj := make([][]int, n)
	for i := range adj {
		adj[i] = append([]int(nil), g.Deps(i)...)
	}

	canonical := canonicalizeRoots(g, adj, removed, targets)
	if len(canonical) == 0 {
		return r
	}

	chains := breadthFirstChains(g, adj, removed, canonical)
	for name := range targets {
		if i, ok := g.Lookup(name); ok && chains[i] != nil {
			r.chains[name] = chains[i]
		}
	}
	return r
}

// GetPath returns the root-to-owner chain (root first, owner last).
// Owners the resolver knows nothing about get a trivial single-element
// chain; resolution is best-effort enrichment, never an error.
func (r *Resolver) GetPath(owner string) []string {
	if chain, ok := r.chains[owner]; ok {
		return chain
	}
	return []string{owner}
}

// canonicalizeRoots finds the canonical dependency roots. Candidate roots
// are nodes nothing depends on (self-dependencies ignored). When one or
// more candidates are targets they become the canonical roots and every
// non-target candidate merges into the first of them; otherwise the
// candidates are workspace scaffolding, get dropped, and detection repeats
// on the reduced graph. Returns nil when the remainder is purely cyclic.
func canonicalizeRoots(g *Graph, adj [][]int, removed []bool, targets map[string]struct{}) []int {
	for {
		roots := findRoots(g, adj, removed)
		if len(roots) == 0 {
			return nil
		}

		var targetRoots []int
		for _, root := range roots {
			if _, ok := targets[g.Name(root)]; ok {
				targetRoots = append(targetRoots, root)
			}
		}

		if len(targetRoots) > 0 {
			primary := targetRoots[0]
			for _, root := range roots {
				if _, ok := targets[g.Name(root)]; ok {
					continue
				}
				// Redirect the non-target root's edges onto the primary
				// root and retire the node itself.
				for _, dep := range adj[root] {
					if dep != primary {
						adj[primary] = appendUniqueEdge(adj[primary], dep)
					}
				}
				removed[root] = true
			}
			return targetRoots
		}

		for _, root := range roots {
			removed[root] = true
		}
	}
}

// findRoots returns the surviving nodes with no surviving dependents,
// sorted by name for deterministic processing.
func findRoots(g *Graph, adj [][]int, removed []bool) []int {
	indegree := make([]int, len(adj))
	for u := range adj {
		if removed[u] {
			continue
		}
		for _, v := range adj[u] {
			if v == u || removed[v] {
				continue
			}
			indegree[v]++
		}
	}

	var roots []int
	for i := range adj {
		if !removed[i] && indegree[i] == 0 {
			roots = append(roots, i)
		}
	}
	sort.Slice(roots, func(a, b int) bool {
		return g.Name(roots[a]) < g.Name(roots[b])
	})
	return roots
}

// breadthFirstChains runs a level-synchronized multi-source BFS outward
// along dependency edges, recording for each node the first chain by which
// it is reached. Ties within a level break on cumulative name length, then
// lexicographically. Visited nodes are never re-expanded, so cycles and
// self-loops terminate.
func breadthFirstChains(g *Graph, adj [][]int, removed []bool, sources []int) [][]string {
	chains := make([][]string, len(adj))
	visited := make([]bool, len(adj))

	frontier := make([]int, 0, len(sources))
	for _, s := range sources {
		if visited[s] || removed[s] {
			continue
		}
		visited[s] = true
		chains[s] = []string{g.Name(s)}
		frontier = append(frontier, s)
	}

	type candidate struct {
		chain  []string
		length int
	}

	for len(frontier) > 0 {
		best := make(map[int]candidate)
		for _, u := range frontier {
			for _, v := range adj[u] {
				if removed[v] || visited[v] {
					continue
				}
				chain := append(append([]string(nil), chains[u]...), g.Name(v))
				length := chainNameLength(chain)
				cur, seen := best[v]
				if !seen || length < cur.length ||
					(length == cur.length && chainLess(chain, cur.chain)) {
					best[v] = candidate{chain: chain, length: length}
				}
			}
		}

		next := make([]int, 0, len(best))
		for v, cand := range best {
			visited[v] = true
			chains[v] = cand.chain
			next = append(next, v)
		}
		sort.Ints(next)
		frontier = next
	}
	return chains
}

func chainNameLength(chain []string) int {
	total := 0
	for _, name := range chain {
		total += len(name)
	}
	return total
}

func chainLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func appendUniqueEdge(edges []int, to int) []int {
	for _, existing := range edges {
		if existing == to {
			return edges
		}
	}
	return append(edges, to)
}

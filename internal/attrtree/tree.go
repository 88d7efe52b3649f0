// Package attrtree implements the hierarchical size accumulator that
// attribution paths are merged into, and its depth-bounded flattening.
package attrtree

import (
	"sort"
	"strings"

	"github.com/bloatmap/pkg/model"
)

// Node is one node of the attribution tree. Each node is owned by its
// parent; all traversal is top-down, so no back references exist.
//
// VMSize/FileSize hold the size attributed exactly at this node (the node
// was the terminal segment of at least one inserted path). TotalVMSize/
// TotalFileSize hold the sum over the node and all of its descendants.
type Node struct {
	Name          string
	VMSize        uint64
	FileSize      uint64
	TotalVMSize   uint64
	TotalFileSize uint64
	Children      map[string]*Node
}

func newNode(name string) *Node {
	return &Node{Name: name, Children: make(map[string]*Node)}
}

// Tree wraps the synthetic root node.
type Tree struct {
	root *Node
}

// New creates an empty attribution tree.
func New() *Tree {
	return &Tree{root: newNode(model.RootName)}
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Insert merges one (path, sizes) observation into the tree. Every node
// along the walk accumulates the totals; only the terminal node
// accumulates the own sizes. Re-inserting an existing path accumulates,
// never overwrites.
func (t *Tree) Insert(path []string, vmsize, filesize uint64) {
	if len(path) == 0 {
		return
	}

	current := t.root
	current.TotalVMSize += vmsize
	current.TotalFileSize += filesize

	last := len(path) - 1
	for i, part := range path {
		child, ok := current.Children[part]
		if !ok {
			child = newNode(part)
			current.Children[part] = child
		}
		child.TotalVMSize += vmsize
		child.TotalFileSize += filesize
		if i == last {
			child.VMSize += vmsize
			child.FileSize += filesize
		}
		current = child
	}
}

// FlatEntry is one emitted record of the flattened tree.
type FlatEntry struct {
	Bytes   uint64
	Imports []string
}

// Flatten traverses each top-level child (the root itself is never
// emitted) and returns depth-bounded records keyed by slash-joined paths.
// Depth counts the separators already emitted on the current walk; when it
// reaches maxDepth the node is emitted with its cumulative size and the
// walk stops descending, so collapsing a subtree conserves its total
// bytes. maxDepth 0 means unbounded.
func (t *Tree) Flatten(maxDepth int) map[string]FlatEntry {
	entries := make(map[string]FlatEntry, len(t.root.Children)*4)
	for _, child := range t.root.Children {
		child.flatten(entries, "", maxDepth)
	}
	return entries
}

func (n *Node) flatten(entries map[string]FlatEntry, dir string, maxDepth int) {
	path := n.Name
	if dir != "" {
		path = dir + "/" + n.Name
	}

	atLimit := maxDepth != 0 && strings.Count(path, "/") >= maxDepth

	entry := FlatEntry{}
	if atLimit {
		entry.Bytes = n.TotalFileSize
	} else {
		entry.Bytes = n.FileSize
		if len(n.Children) > 0 {
			entry.Imports = make([]string, 0, len(n.Children))
			for name := range n.Children {
				entry.Imports = append(entry.Imports, path+"/"+name)
			}
			sort.Strings(entry.Imports)
		}
	}
	entries[path] = entry

	if atLimit {
		return
	}
	for _, child := range n.Children {
		child.flatten(entries, path, maxDepth)
	}
}

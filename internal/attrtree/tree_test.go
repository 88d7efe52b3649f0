package attrtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedTree() *Tree {
	tree := New()
	tree.Insert([]string{"app", ".text", "main"}, 100, 120)
	tree.Insert([]string{"app", ".text", "run", "loop"}, 40, 50)
	tree.Insert([]string{"app", "liba", ".text", "parse"}, 30, 30)
	tree.Insert([]string{"SECTIONS", ".data", "[Unknown]"}, 10, 15)
	tree.Insert([]string{"app"}, 5, 5)
	return tree
}

// checkTotals verifies total = own + sum of child totals for every node.
func checkTotals(t *testing.T, n *Node) {
	t.Helper()
	var childVM, childFile uint64
	for _, child := range n.Children {
		checkTotals(t, child)
		childVM += child.TotalVMSize
		childFile += child.TotalFileSize
	}
	assert.Equal(t, n.VMSize+childVM, n.TotalVMSize, "node %s vmsize", n.Name)
	assert.Equal(t, n.FileSize+childFile, n.TotalFileSize, "node %s filesize", n.Name)
}

func TestInsert_TotalsInvariant(t *testing.T) {
	tree := populatedTree()
	checkTotals(t, tree.Root())

	assert.Equal(t, uint64(185), tree.Root().TotalVMSize)
	assert.Equal(t, uint64(220), tree.Root().TotalFileSize)
}

func TestInsert_RepeatedPathAccumulates(t *testing.T) {
	tree := New()
	tree.Insert([]string{"a", "b"}, 10, 20)
	tree.Insert([]string{"a", "b"}, 5, 5)

	leaf := tree.Root().Children["a"].Children["b"]
	require.NotNil(t, leaf)
	assert.Equal(t, uint64(15), leaf.VMSize)
	assert.Equal(t, uint64(25), leaf.FileSize)
	assert.Equal(t, uint64(15), leaf.TotalVMSize)
	assert.Equal(t, uint64(25), leaf.TotalFileSize)
}

func TestInsert_InteriorNodeCanOwnSize(t *testing.T) {
	tree := New()
	tree.Insert([]string{"app", "mod"}, 10, 10)
	tree.Insert([]string{"app"}, 3, 4)

	app := tree.Root().Children["app"]
	require.NotNil(t, app)
	assert.Equal(t, uint64(3), app.VMSize)
	assert.Equal(t, uint64(4), app.FileSize)
	assert.Equal(t, uint64(13), app.TotalVMSize)
	assert.Equal(t, uint64(14), app.TotalFileSize)
}

func TestInsert_EmptyPathIgnored(t *testing.T) {
	tree := New()
	tree.Insert(nil, 10, 10)
	assert.Empty(t, tree.Root().Children)
	assert.Zero(t, tree.Root().TotalFileSize)
}

func TestFlatten_Unbounded(t *testing.T) {
	tree := populatedTree()
	entries := tree.Flatten(0)

	// The root itself is never emitted.
	_, hasRoot := entries["__ROOT__"]
	assert.False(t, hasRoot)

	app, ok := entries["app"]
	require.True(t, ok)
	assert.Equal(t, uint64(5), app.Bytes)
	assert.Equal(t, []string{"app/.text", "app/liba"}, app.Imports)

	leaf, ok := entries["app/.text/run/loop"]
	require.True(t, ok)
	assert.Equal(t, uint64(50), leaf.Bytes)
	assert.Empty(t, leaf.Imports)

	unknown, ok := entries["SECTIONS/.data/[Unknown]"]
	require.True(t, ok)
	assert.Equal(t, uint64(15), unknown.Bytes)
}

func TestFlatten_DepthCollapseUsesTotals(t *testing.T) {
	tree := populatedTree()
	entries := tree.Flatten(1)

	// Depth 1 keeps top-level entries expanded and collapses their
	// children onto cumulative sizes.
	text, ok := entries["app/.text"]
	require.True(t, ok)
	assert.Equal(t, uint64(170), text.Bytes)
	assert.Empty(t, text.Imports)

	_, deeper := entries["app/.text/main"]
	assert.False(t, deeper)
}

func TestFlatten_ConservesTotalBytes(t *testing.T) {
	tree := populatedTree()

	sum := func(entries map[string]FlatEntry) uint64 {
		var total uint64
		for _, e := range entries {
			total += e.Bytes
		}
		return total
	}

	unbounded := sum(tree.Flatten(0))
	assert.Equal(t, tree.Root().TotalFileSize, unbounded)

	for depth := 1; depth <= 5; depth++ {
		assert.Equal(t, unbounded, sum(tree.Flatten(depth)), "depth %d", depth)
	}
}

package metafile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloatmap/internal/attrtree"
)

func TestBuild(t *testing.T) {
	entries := map[string]attrtree.FlatEntry{
		"app":            {Bytes: 5, Imports: []string{"app/.text"}},
		"app/.text":      {Bytes: 0, Imports: []string{"app/.text/main"}},
		"app/.text/main": {Bytes: 120},
	}

	mf := Build(entries, "bundle.js", "__ROOT__", 125)

	require.Len(t, mf.Inputs, 3)
	assert.Equal(t, uint64(5), mf.Inputs["app"].Bytes)
	require.Len(t, mf.Inputs["app"].Imports, 1)
	assert.Equal(t, "app/.text", mf.Inputs["app"].Imports[0].Path)

	// Leaf entries still carry a non-nil imports list.
	assert.NotNil(t, mf.Inputs["app/.text/main"].Imports)
	assert.Empty(t, mf.Inputs["app/.text/main"].Imports)

	require.Len(t, mf.Outputs, 1)
	out, ok := mf.Outputs["bundle.js"]
	require.True(t, ok)
	assert.Equal(t, uint64(125), out.Bytes)
	assert.Equal(t, "__ROOT__", out.EntryPoint)
	assert.NotNil(t, out.Imports)
	assert.NotNil(t, out.Exports)
	assert.Equal(t, uint64(120), out.Inputs["app/.text/main"].BytesInOutput)
}

func TestMetafile_JSONShape(t *testing.T) {
	mf := Build(map[string]attrtree.FlatEntry{
		"app": {Bytes: 7},
	}, "binary", "__ROOT__", 7)

	data, err := json.Marshal(mf)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "inputs")
	assert.Contains(t, decoded, "outputs")

	// Arrays serialize as [] rather than null so downstream analyzers can
	// consume the document without special cases.
	var outputs map[string]struct {
		Imports []json.RawMessage `json:"imports"`
		Exports []json.RawMessage `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(decoded["outputs"], &outputs))
	assert.Contains(t, string(decoded["outputs"]), `"imports":[]`)
	assert.Contains(t, string(decoded["outputs"]), `"exports":[]`)
}

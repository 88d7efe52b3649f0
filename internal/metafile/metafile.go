// Package metafile defines the bundler-analyzer metafile document shape
// and builds one from a flattened attribution tree.
package metafile

import (
	"github.com/bloatmap/internal/attrtree"
)

// MaxStringBytes is the largest string the downstream analyzer can load
// (the JavaScript engine string-length ceiling). Reports beyond this size
// are still produced; the caller surfaces a warning.
const MaxStringBytes = 0x1fffffe8

// Metafile is the top-level report document.
type Metafile struct {
	Inputs  map[string]Input  `json:"inputs"`
	Outputs map[string]Output `json:"outputs"`
}

// Input describes one emitted tree node.
type Input struct {
	Bytes   uint64            `json:"bytes"`
	Imports []Import          `json:"imports"`
	Format  string            `json:"format,omitempty"`
	With    map[string]string `json:"with,omitempty"`
}

// Import is an edge from a node to one of its children.
type Import struct {
	Path     string            `json:"path"`
	Kind     string            `json:"kind,omitempty"`
	External bool              `json:"external,omitempty"`
	Original string            `json:"original,omitempty"`
	With     map[string]string `json:"with,omitempty"`
}

// Output is the single synthetic bundle entry.
type Output struct {
	Bytes      uint64                 `json:"bytes"`
	Inputs     map[string]InputDetail `json:"inputs"`
	Imports    []Import               `json:"imports"`
	Exports    []string               `json:"exports"`
	EntryPoint string                 `json:"entryPoint,omitempty"`
	CSSBundle  string                 `json:"cssBundle,omitempty"`
}

// InputDetail is the per-path contribution to the output.
type InputDetail struct {
	BytesInOutput uint64 `json:"bytesInOutput"`
}

// Build converts flattened tree records into a metafile with a single
// output entry named outputName. totalBytes is the tree root's cumulative
// file size; entryPoint is the report root's name.
func Build(entries map[string]attrtree.FlatEntry, outputName, entryPoint string, totalBytes uint64) *Metafile {
	inputs := make(map[string]Input, len(entries))
	outputInputs := make(map[string]InputDetail, len(entries))

	for path, entry := range entries {
		imports := make([]Import, 0, len(entry.Imports))
		for _, importPath := range entry.Imports {
			imports = append(imports, Import{Path: importPath})
		}
		inputs[path] = Input{Bytes: entry.Bytes, Imports: imports}
		outputInputs[path] = InputDetail{BytesInOutput: entry.Bytes}
	}

	output := Output{
		Bytes:      totalBytes,
		Inputs:     outputInputs,
		Imports:    []Import{},
		Exports:    []string{},
		EntryPoint: entryPoint,
	}

	return &Metafile{
		Inputs:  inputs,
		Outputs: map[string]Output{outputName: output},
	}
}

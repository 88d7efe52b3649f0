// Package model defines the data types shared between pipeline stages.
package model

// Well-known node names used in attribution paths.
const (
	// RootName is the name of the synthetic tree root. It is never emitted
	// as a path entry itself.
	RootName = "__ROOT__"

	// SectionsName is the top-level branch that collects symbols which
	// could not be attributed to an owning package.
	SectionsName = "SECTIONS"

	// UnknownName replaces an empty symbol column before classification.
	// The bracketed form guarantees it routes to the sections branch.
	UnknownName = "[Unknown]"
)

// SizeRecord is one row of a per-symbol binary size report, as produced by
// a size profiler in CSV mode.
type SizeRecord struct {
	Sections string `json:"sections"`
	Symbols  string `json:"symbols"`
	VMSize   uint64 `json:"vmsize"`
	FileSize uint64 `json:"filesize"`
}

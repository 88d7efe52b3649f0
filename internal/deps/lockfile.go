package deps

import (
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/bloatmap/pkg/errors"
)

// lockfileDoc mirrors the package list of a Cargo.lock document.
type lockfileDoc struct {
	Package []lockfilePackage `toml:"package"`
}

type lockfilePackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Dependencies []string `toml:"dependencies"`
}

// LoadLockfile parses a dependency lock document into graph packages.
// Package names normalize `-` to `_` to match symbol spelling; dependency
// entries of the form "name version (source)" reduce to the name token.
func LoadLockfile(path string) ([]Package, error) {
	var doc lockfileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLockfileError,
			"failed to load lock document "+path, err)
	}

	pkgs := make([]Package, 0, len(doc.Package))
	for _, entry := range doc.Package {
		pkg := Package{Name: NormalizeName(entry.Name)}
		if len(entry.Dependencies) > 0 {
			pkg.Dependencies = make([]string, 0, len(entry.Dependencies))
			for _, dep := range entry.Dependencies {
				pkg.Dependencies = append(pkg.Dependencies, NormalizeName(dependencyName(dep)))
			}
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// NormalizeName converts a package name to its symbol spelling.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// dependencyName strips the optional version and source suffix from a
// lockfile dependency entry.
func dependencyName(entry string) string {
	if i := strings.IndexByte(entry, ' '); i >= 0 {
		return entry[:i]
	}
	return entry
}

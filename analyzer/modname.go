package analyzer

import (
	"path/filepath"
	"strings"
)

// ModuleName maps a file path under root to its dotted logical module
// name: "pkg/util.py" -> "pkg.util". A package's own __init__.py maps
// to the package name itself, so "pkg/__init__.py" -> "pkg" and a
// root-level __init__.py maps to the empty name.
func ModuleName(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], ".py")
	if parts[last] == "__init__" {
		parts = parts[:last]
	}
	return strings.Join(parts, ".")
}

// Package ignore loads the set of directory names excluded from the
// source walk. It reads a deliberately small subset of .gitignore:
// each entry is a literal directory name to prune anywhere in the
// tree, not a path or glob pattern.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Always-pruned directory names, present even without a .gitignore.
var alwaysIgnored = []string{".git", "__pycache__"}

// Load returns the ignored directory-name set for a project root:
// the built-in names, the root's .gitignore entries if the file
// exists, and any extra names from configuration. Non-empty,
// non-comment lines are stripped of a trailing path separator and
// leading wildcard/slash markers.
func Load(root string, extra []string) (map[string]struct{}, error) {
	ignored := make(map[string]struct{})
	for _, name := range alwaysIgnored {
		ignored[name] = struct{}{}
	}
	for _, name := range extra {
		if name != "" {
			ignored[name] = struct{}{}
		}
	}

	path := filepath.Join(root, ".gitignore")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ignored, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := strings.TrimLeft(strings.TrimRight(line, "/"), "*/")
		if name != "" {
			ignored[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return ignored, nil
}

package analyzer

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindPythonFiles walks root recursively and returns every *.py file,
// pruning ignored directory names at every level. Filesystem errors
// during the walk propagate and abort the run.
func FindPythonFiles(root string, ignored map[string]struct{}) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := ignored[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

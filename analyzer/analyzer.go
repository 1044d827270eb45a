package analyzer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pymap/analyzer/ignore"
	"pymap/analyzer/registry"
	"pymap/config"
	"pymap/report"
)

// Run analyzes the Python project under root and writes the mapping
// report into the root directory. It returns the path of the written
// report. Only per-file parse failures are recovered; everything else
// aborts the run.
func Run(root string) (string, error) {
	opts, err := config.Load(root)
	if err != nil {
		return "", err
	}

	ignored, err := ignore.Load(root, opts.IgnoreDirs)
	if err != nil {
		return "", err
	}

	files, err := FindPythonFiles(root, ignored)
	if err != nil {
		return "", err
	}
	slog.Info("found Python files", "count", len(files), "root", root)

	reg, tables := Collect(files, root, registry.CollisionPolicy(opts.Collisions))
	registry.BuildCallGraph(reg, tables)

	out := filepath.Join(root, opts.Output)
	if err := os.WriteFile(out, []byte(report.Render(reg)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return out, nil
}

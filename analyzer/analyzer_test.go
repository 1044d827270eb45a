package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pymap/analyzer/registry"
)

func buildGraph(t *testing.T, root string) *registry.Registry {
	t.Helper()
	reg, tables := collectDir(t, root, registry.KeepLast)
	registry.BuildCallGraph(reg, tables)
	return reg
}

func callsOf(t *testing.T, reg *registry.Registry, qualified string) []string {
	t.Helper()
	def, ok := reg.Get(qualified)
	require.True(t, ok, "missing definition %s", qualified)
	var out []string
	for name := range def.Calls {
		out = append(out, name)
	}
	return out
}

func TestCrossFileCallGraph(t *testing.T) {
	// a.foo reaches b.bar through the global fallback; b.caller reaches
	// a.foo through its symbol import.
	root := t.TempDir()
	writeSource(t, root, "a.py", `
def foo():
    return bar()
`)
	writeSource(t, root, "b.py", `
from a import foo as f


def bar():
    pass


def caller():
    f()
`)

	reg := buildGraph(t, root)

	assert.ElementsMatch(t, []string{"a.foo", "b.bar", "b.caller"}, reg.Names())
	assert.ElementsMatch(t, []string{"b.bar"}, callsOf(t, reg, "a.foo"))
	assert.ElementsMatch(t, []string{"a.foo"}, callsOf(t, reg, "b.caller"))
	assert.Empty(t, callsOf(t, reg, "b.bar"))
}

func TestLocalCallPreferredOverGlobal(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.py", `
def helper():
    pass


def work():
    helper()
`)
	writeSource(t, root, "b.py", `
def helper():
    pass
`)

	reg := buildGraph(t, root)

	assert.ElementsMatch(t, []string{"a.helper"}, callsOf(t, reg, "a.work"))
}

func TestExternalCallsProduceNoEdges(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", `
import json


def dump(data):
    print(len(data))
    return json.dumps(data)
`)

	reg := buildGraph(t, root)

	assert.Empty(t, callsOf(t, reg, "m.dump"))
}

func TestRepeatedCallsCollapseToOneEdge(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", `
def target():
    pass


def caller():
    target()
    target()
`)

	reg := buildGraph(t, root)

	assert.ElementsMatch(t, []string{"m.target"}, callsOf(t, reg, "m.caller"))
}

func TestMethodCallsResolveByNameAlone(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", `
class Worker:
    def run(self):
        self.step()

    def step(self):
        pass
`)

	reg := buildGraph(t, root)

	assert.ElementsMatch(t, []string{"m.Worker.step"}, callsOf(t, reg, "m.Worker.run"))
}

func TestCallsInNestedScopesAreSeen(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", `
def leaf():
    pass


def outer():
    def inner():
        leaf()
    return inner
`)

	reg := buildGraph(t, root)

	assert.ElementsMatch(t, []string{"m.leaf"}, callsOf(t, reg, "m.outer"))
}

func TestComplexCallShapesAreSkipped(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", `
def target():
    pass


def caller(obj):
    obj.attr.target()
    factory()().target
    items[0].target()
`)

	reg := buildGraph(t, root)

	assert.Empty(t, callsOf(t, reg, "m.caller"))
}

func TestRunWritesDeterministicReport(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.py", `
def foo():
    return bar()
`)
	writeSource(t, root, "b.py", `
from a import foo as f


def bar():
    pass


def caller():
    f()
`)

	out, err := Run(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "mapping.md"), out)

	first, err := os.ReadFile(out)
	require.NoError(t, err)

	content := string(first)
	assert.True(t, strings.HasPrefix(content, "# Project-wide Function Mapping\n"))
	assert.Contains(t, content, "### `a.foo() -> Any`")
	assert.Contains(t, content, "- Calls: `b.bar`")
	assert.Contains(t, content, "### `b.caller() -> Any`")
	assert.Contains(t, content, "- Calls: `a.foo`")

	// Idempotence: a second run over the unchanged tree is byte-identical.
	_, err = Run(root)
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunHonorsConfig(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "m.py", "def f():\n    pass\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pymap.yaml"),
		[]byte("output: MAP.md\nignore_dirs: [skipme]\n"), 0o644))
	writeSource(t, root, filepath.Join("skipme", "hidden.py"), "def hidden():\n    pass\n")

	out, err := Run(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "MAP.md"), out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "m.f")
	assert.NotContains(t, string(content), "hidden")
}

func TestFindPythonFilesPrunesIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "keep.py", "")
	writeSource(t, root, filepath.Join("__pycache__", "cached.py"), "")
	writeSource(t, root, filepath.Join("sub", "__pycache__", "cached.py"), "")
	writeSource(t, root, filepath.Join("sub", "mod.py"), "")
	writeSource(t, root, "notes.txt", "")

	files, err := FindPythonFiles(root, map[string]struct{}{"__pycache__": {}})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{"keep.py", "sub/mod.py"}, rels)
}

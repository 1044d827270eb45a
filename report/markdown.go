// Package report renders the enriched definition registry as a
// Markdown document. Output is deterministic: definitions and call
// edges are sorted ascending by qualified name.
package report

import (
	"sort"
	"strings"

	"pymap/analyzer/registry"
)

func Render(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString("# Project-wide Function Mapping\n")
	b.WriteString("\n")
	b.WriteString("## Functions (with cross-file call analysis)\n")
	b.WriteString("\n")

	for _, def := range reg.Definitions() {
		b.WriteString("### `")
		b.WriteString(def.QualifiedName)
		b.WriteString("(")
		b.WriteString(signature(def.Params))
		b.WriteString(") -> ")
		b.WriteString(def.Return)
		b.WriteString("`\n")

		if len(def.Calls) > 0 {
			b.WriteString("- Calls: `")
			b.WriteString(strings.Join(sortedCalls(def.Calls), ", "))
			b.WriteString("`\n")
		} else {
			b.WriteString("- Calls: None\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func signature(params []registry.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type
	}
	return strings.Join(parts, ", ")
}

func sortedCalls(calls map[string]struct{}) []string {
	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

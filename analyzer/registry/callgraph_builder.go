package registry

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// BuildCallGraph walks every registered definition's body, resolves
// the call expressions found there, and records the resolutions that
// land on project-local definitions as call edges. After it returns,
// every Definition.Calls set contains only registry keys.
func BuildCallGraph(reg *Registry, tables *ImportTables) {
	rev := BuildReverseIndex(reg)

	for _, def := range reg.Definitions() {
		def.Calls = make(map[string]struct{})
		if def.Body == nil {
			continue
		}
		for _, name := range calleeNames(def.Body, def.Source) {
			for qname := range Resolve(name, def.Module, tables, reg, rev) {
				// Defensive re-check: edges must stay inside the registry.
				if reg.Has(qname) {
					def.Calls[qname] = struct{}{}
				}
			}
		}
	}
}

// calleeNames walks the full body, nested scopes included, and
// extracts a bare callee name from exactly two call shapes:
//
//	name(...)       -> "name"
//	recv.attr(...)  -> "attr"   (simple-identifier receiver discarded)
//
// Chained calls, calls on call results, and calls on computed
// expressions yield nothing and are skipped. Method calls therefore
// resolve on the method name alone, which can over-match across
// unrelated classes sharing a name.
func calleeNames(body *sitter.Node, source []byte) []string {
	var names []string

	stack := []*sitter.Node{body}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Type() == "call" {
			if name := bareCalleeName(node, source); name != "" {
				names = append(names, name)
			}
		}

		// Children pushed in reverse for left-to-right traversal.
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return names
}

func bareCalleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return fn.Content(source)
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if obj != nil && obj.Type() == "identifier" && attr != nil {
			return attr.Content(source)
		}
	}
	return ""
}

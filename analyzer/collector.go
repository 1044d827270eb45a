package analyzer

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pymap/analyzer/registry"
)

// Collect is the first analysis pass: it parses every file and fills
// the shared definition registry and the per-module import tables.
// A file that cannot be read or whose tree contains syntax errors is
// logged and skipped entirely; the run continues with the rest.
func Collect(files []string, root string, policy registry.CollisionPolicy) (*registry.Registry, *registry.ImportTables) {
	reg := registry.NewRegistry(policy)
	tables := registry.NewImportTables()

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	for _, path := range files {
		module := ModuleName(path, root)
		tables.EnsureModule(module)

		src, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read file", "file", path, "error", err)
			continue
		}
		if !utf8.Valid(src) {
			slog.Error("failed to parse file", "file", path, "error", "not valid UTF-8")
			continue
		}

		tree, err := parser.ParseCtx(context.Background(), nil, src)
		if err != nil {
			slog.Error("failed to parse file", "file", path, "error", err)
			continue
		}
		rootNode := tree.RootNode()
		if rootNode == nil || rootNode.HasError() {
			slog.Error("failed to parse file", "file", path, "error", "syntax errors in source")
			continue
		}

		collectFile(rootNode, src, path, module, reg, tables)
	}

	return reg, tables
}

// collectFile walks the top-level statements of one parsed file, plus
// one level into class bodies. Nested scopes are deliberately not
// collected here; the call-graph pass walks them later.
func collectFile(rootNode *sitter.Node, src []byte, path, module string, reg *registry.Registry, tables *registry.ImportTables) {
	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		stmt := rootNode.NamedChild(i)
		collectStatement(stmt, src, path, module, reg, tables)
	}
}

func collectStatement(stmt *sitter.Node, src []byte, path, module string, reg *registry.Registry, tables *registry.ImportTables) {
	switch stmt.Type() {
	case "function_definition":
		addDefinition(stmt, src, path, module, "", reg)

	case "class_definition":
		collectClass(stmt, src, path, module, reg)

	case "decorated_definition":
		if def := stmt.ChildByFieldName("definition"); def != nil {
			collectStatement(def, src, path, module, reg, tables)
		}

	case "import_statement":
		collectImport(stmt, src, module, tables)

	case "import_from_statement":
		collectImportFrom(stmt, src, module, tables)
	}
}

func collectClass(class *sitter.Node, src []byte, path, module string, reg *registry.Registry) {
	nameNode := class.ChildByFieldName("name")
	body := class.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return
	}
	className := nameNode.Content(src)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		item := body.NamedChild(i)
		switch item.Type() {
		case "function_definition":
			addDefinition(item, src, path, module, className, reg)
		case "decorated_definition":
			if def := item.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				addDefinition(def, src, path, module, className, reg)
			}
		}
	}
}

func addDefinition(fn *sitter.Node, src []byte, path, module, className string, reg *registry.Registry) {
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)

	qualified := module + "." + name
	if className != "" {
		qualified = module + "." + className + "." + name
	}

	reg.Add(&registry.Definition{
		QualifiedName: qualified,
		File:          path,
		Module:        module,
		Class:         className,
		Params:        extractParams(fn.ChildByFieldName("parameters"), src),
		Return:        extractReturn(fn, src),
		Body:          fn.ChildByFieldName("body"),
		Source:        src,
	})
}

// extractParams reads ordered (name, type) pairs off the parameter
// list. Unannotated parameters get the "Any" sentinel; *args/**kwargs
// splats carry no single name and are excluded.
func extractParams(params *sitter.Node, src []byte) []registry.Param {
	if params == nil {
		return nil
	}
	var out []registry.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, registry.Param{Name: p.Content(src), Type: "Any"})
		case "typed_parameter":
			var name string
			if id := p.NamedChild(0); id != nil && id.Type() == "identifier" {
				name = id.Content(src)
			}
			if name == "" {
				continue
			}
			out = append(out, registry.Param{Name: name, Type: annotationText(p.ChildByFieldName("type"), src)})
		case "default_parameter":
			if id := p.ChildByFieldName("name"); id != nil && id.Type() == "identifier" {
				out = append(out, registry.Param{Name: id.Content(src), Type: "Any"})
			}
		case "typed_default_parameter":
			if id := p.ChildByFieldName("name"); id != nil && id.Type() == "identifier" {
				out = append(out, registry.Param{Name: id.Content(src), Type: annotationText(p.ChildByFieldName("type"), src)})
			}
		}
	}
	return out
}

func extractReturn(fn *sitter.Node, src []byte) string {
	return annotationText(fn.ChildByFieldName("return_type"), src)
}

func annotationText(node *sitter.Node, src []byte) string {
	if node == nil {
		return "Any"
	}
	return node.Content(src)
}

// collectImport handles "import a.b" and "import a.b as x": each
// imported name's local alias maps to the real dotted module path.
func collectImport(stmt *sitter.Node, src []byte, module string, tables *registry.ImportTables) {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			path := child.Content(src)
			tables.AddModuleAlias(module, path, path)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				tables.AddModuleAlias(module, aliasNode.Content(src), nameNode.Content(src))
			}
		}
	}
}

// collectImportFrom handles "from m import s [as t]": each local name
// maps to (origin module, original symbol name). Relative imports keep
// only their dotted part, so "from . import s" records an empty origin
// module and later resolves by suffix alone.
func collectImportFrom(stmt *sitter.Node, src []byte, module string, tables *registry.ImportTables) {
	var origin string
	sawImport := false

	for i := 0; i < int(stmt.ChildCount()); i++ {
		child := stmt.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if part := child.NamedChild(j); part.Type() == "dotted_name" {
					origin = part.Content(src)
				}
			}
		case "dotted_name":
			name := child.Content(src)
			if !sawImport {
				origin = name
			} else {
				tables.AddSymbolImport(module, name, origin, name)
			}
		case "identifier":
			if sawImport {
				name := child.Content(src)
				tables.AddSymbolImport(module, name, origin, name)
			}
		case "aliased_import":
			if !sawImport {
				continue
			}
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				name := nameNode.Content(src)
				if dot := strings.LastIndex(name, "."); dot >= 0 {
					name = name[dot+1:]
				}
				tables.AddSymbolImport(module, aliasNode.Content(src), origin, name)
			}
		}
	}
}

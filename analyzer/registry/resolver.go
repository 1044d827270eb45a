package registry

import "strings"

// Resolve maps a bare callee name referenced inside callingModule to
// the set of plausible qualified definitions. It is a pure function of
// its inputs and applies a fixed precedence; the first step that
// produces candidates wins:
//
//  1. local scope: definitions under callingModule whose final segment
//     equals name (same-module functions, and methods called bare);
//  2. symbol imports ("from m import s [as t]"): registry entries
//     ending in the original symbol name under the origin module. An
//     unresolvable origin has an empty module prefix and matches
//     everything, which over-approximates;
//  3. module-alias-qualified calls are not resolved at all, a known
//     limitation of the analysis;
//  4. global fallback: every definition sharing the final segment,
//     via the precomputed reverse index.
//
// An empty result means the call is unresolved and gets dropped.
func Resolve(name, callingModule string, tables *ImportTables, reg *Registry, rev ReverseIndex) map[string]struct{} {
	// 1. Same module.
	local := make(map[string]struct{})
	prefix := callingModule + "."
	for qname := range reg.defs {
		if strings.HasPrefix(qname, prefix) && simpleName(qname) == name {
			local[qname] = struct{}{}
		}
	}
	if len(local) > 0 {
		return local
	}

	// 2. Symbol imports.
	if origin, ok := tables.SymbolImports[callingModule][name]; ok {
		imported := make(map[string]struct{})
		for qname := range reg.defs {
			if strings.HasSuffix(qname, "."+origin.Name) && strings.HasPrefix(qname, origin.Module) {
				imported[qname] = struct{}{}
			}
		}
		if len(imported) > 0 {
			return imported
		}
	}

	// 4. Anything with the same simple name.
	if candidates, ok := rev[name]; ok {
		global := make(map[string]struct{}, len(candidates))
		for qname := range candidates {
			global[qname] = struct{}{}
		}
		return global
	}

	return nil
}

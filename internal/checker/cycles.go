package checker

import (
	"strings"

	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// detectRecordCycles walks the record-type dependency graph (a record type
// depends on every record type reachable through its fields, recursing
// through list element types) with an explicit recursion stack, the same
// depth-first technique the teacher's runtime/validation/recursion.go uses
// to reject self-referential declarations before they can blow the Go call
// stack during flattening.
func (c *checker) detectRecordCycles() {
	visited := make(map[source.TypeId]bool)
	onStack := make(map[source.TypeId]bool)
	var stack []source.TypeId

	var walk func(id source.TypeId) bool
	walk = func(id source.TypeId) bool {
		if onStack[id] {
			c.reportCycle(append(stack, id))
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		info := c.ctx.Types.Get(id)
		for _, dep := range recordDeps(c.ctx.Types, info) {
			if walk(dep) {
				onStack[id] = false
				stack = stack[:len(stack)-1]
				return true
			}
		}
		onStack[id] = false
		stack = stack[:len(stack)-1]
		return false
	}

	for id := range c.pending {
		if !visited[id] {
			walk(id)
		}
	}
}

// recordDeps returns the record types info directly depends on: each
// field's own type if it is a record, or (recursively through list
// wrapping) the first record type reached by unwrapping list element types.
func recordDeps(types *source.TypeStore, info source.TypeInfo) []source.TypeId {
	var deps []source.TypeId
	for _, f := range info.Fields {
		if dep, ok := recordDepOf(types, f.Type); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

func recordDepOf(types *source.TypeStore, typ source.TypeId) (source.TypeId, bool) {
	t := types.Get(typ)
	switch t.Kind {
	case source.TypeRecord:
		return typ, true
	case source.TypeList:
		return recordDepOf(types, t.Elem)
	default:
		return 0, false
	}
}

func (c *checker) reportCycle(cyclePath []source.TypeId) {
	names := make([]string, len(cyclePath))
	for i, id := range cyclePath {
		names[i] = typeName(c.ctx, id)
	}
	name := names[len(names)-1]
	c.ctx.Diags.Emit("TWCHECK032", diagnostics.Span{}, diagnostics.Vars{
		"name":  name,
		"cycle": strings.Join(names, " -> "),
	})
}

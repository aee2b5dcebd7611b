// Package checker resolves names and types over the parse tree and emits
// SemIR (internal/source InstStore) for the program's single implicit body. It is the
// largest phase of the pipeline: type declarations are resolved in two
// passes (register names, then resolve field types) so mutual recursion
// between record types can be detected the same way the teacher's
// runtime/validation/recursion.go walks a dependency graph with an explicit
// recursion stack, rather than relying on Go's own call stack to overflow.
package checker

import (
	"fmt"
	"sort"

	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// Result is the checker's output: the program's flattened local symbols and
// its top-level SemIR instruction list, plus the shared SemIR/type/symbol
// stores already living on ctx. TinyWhale has no user-defined functions, so
// there is exactly one implicit body per program rather than one Result per
// declared function.
type Result struct {
	Locals []source.SymbolId // every bound leaf, in declaration order
	Stmts  []source.InstId   // top-level side-effecting instructions (InstSetLocal, the terminating InstPanic), in execution order
}

type binding struct {
	typ    source.TypeId
	leaves []source.SymbolId
}

type checker struct {
	ctx *source.CompilationContext

	typeNames map[source.StringId]source.TypeId
	pending   map[source.TypeId]source.NodeId // record TypeId -> its NodeTypeDecl, for pass 2

	scope []map[source.StringId]binding // stack of lexical scopes, innermost last

	locals []source.SymbolId
	stmts  []source.InstId
}

// Run type-checks and lowers the whole program, returning the checked result
// and whether checking succeeded (no Error-severity diagnostic).
func Run(ctx *source.CompilationContext) (*Result, bool) {
	c := &checker{
		ctx:       ctx,
		typeNames: make(map[source.StringId]source.TypeId),
		pending:   make(map[source.TypeId]source.NodeId),
	}
	c.seedBuiltinNames()
	c.registerTypeNames()
	c.resolvePendingFields()
	c.detectRecordCycles()
	c.checkProgram()

	return &Result{Locals: c.locals, Stmts: c.stmts}, !ctx.Diags.HasErrors()
}

func (c *checker) seedBuiltinNames() {
	c.typeNames[c.ctx.Strings.Intern("i32")] = source.TypeIdI32
	c.typeNames[c.ctx.Strings.Intern("i64")] = source.TypeIdI64
	c.typeNames[c.ctx.Strings.Intern("f32")] = source.TypeIdF32
	c.typeNames[c.ctx.Strings.Intern("f64")] = source.TypeIdF64
}

// registerTypeNames is pass 1: every `type Name` gets a placeholder record
// TypeId immediately, with fields filled in by pass 2, so every later name
// lookup — including forward and mutually-recursive references — already has
// somewhere to point. TinyWhale has no alias/non-record type declaration:
// every `type` is a record.
func (c *checker) registerTypeNames() {
	for _, declID := range c.ctx.Nodes.Children(c.ctx.Nodes.Root()) {
		decl := c.ctx.Nodes.Get(declID)
		if decl.Kind != source.NodeTypeDecl {
			continue
		}
		nameStr := c.tokenStr(decl.Token)
		nameID := c.ctx.Strings.Intern(nameStr)
		id := c.ctx.Types.DeclareRecord(nameID, nil)
		c.typeNames[nameID] = id
		c.pending[id] = declID
	}
}

// resolvePendingFields is pass 2: fill in every placeholder record's field
// list, now that every type name in the file resolves to a TypeId.
func (c *checker) resolvePendingFields() {
	// Stable order (by TypeId) so diagnostics are deterministic.
	ids := make([]source.TypeId, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		declID := c.pending[id]
		fields := c.resolveRecordFields(declID)
		c.ctx.Types.SetFields(id, fields)
	}
}

// resolveRecordFields reads a NodeTypeDecl's own children directly as its
// field list — there's no intervening type-expr node, since every `type` is
// a record.
func (c *checker) resolveRecordFields(declID source.NodeId) []source.RecordField {
	fieldDeclIDs := c.ctx.Nodes.Children(declID)
	fields := make([]source.RecordField, 0, len(fieldDeclIDs))
	seen := make(map[source.StringId]bool)
	for _, fdID := range fieldDeclIDs {
		fd := c.ctx.Nodes.Get(fdID)
		nameID := c.ctx.Strings.Intern(c.tokenStr(fd.Token))
		children := c.ctx.Nodes.Children(fdID)
		invariant.Invariant(len(children) == 1, "NodeFieldDecl must have exactly one type-expr child")
		if seen[nameID] {
			c.emitTok(fd.Token, "TWCHECK026", diagnostics.Vars{"name": c.tokenStr(fd.Token)})
			continue
		}
		seen[nameID] = true
		fields = append(fields, source.RecordField{Name: nameID, Type: c.resolveTypeExpr(children[0])})
	}
	return fields
}

// tokenStr returns the interned identifier text of a node's defining token.
func (c *checker) tokenStr(tok source.TokenId) string {
	t := c.ctx.Tokens.Get(tok)
	return c.ctx.Strings.Get(t.Str)
}

func (c *checker) emitTok(tok source.TokenId, code diagnostics.Code, vars diagnostics.Vars) diagnostics.Diagnostic {
	t := c.ctx.Tokens.Get(tok)
	return c.ctx.Diags.Emit(code, diagnostics.Span{Line: t.Line, Column: t.Column}, vars)
}

// pushScope/popScope/declare/lookup implement simple lexical nesting; a
// TinyWhale program's implicit body is exactly one flat scope (no nested
// blocks), but the stack shape keeps the door open without complicating the
// common case.
func (c *checker) pushScope() { c.scope = append(c.scope, map[source.StringId]binding{}) }
func (c *checker) popScope()  { c.scope = c.scope[:len(c.scope)-1] }

func (c *checker) declare(name source.StringId, b binding) {
	c.scope[len(c.scope)-1][name] = b
}

func (c *checker) lookup(name source.StringId) (binding, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if b, ok := c.scope[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// knownNames returns every name bound in any active scope, for fuzzy
// "did you mean" suggestions on TWCHECK013.
func (c *checker) knownNames() []string {
	var out []string
	for _, s := range c.scope {
		for id := range s {
			out = append(out, c.ctx.Strings.Get(id))
		}
	}
	sort.Strings(out)
	return out
}

func typeName(ctx *source.CompilationContext, typ source.TypeId) string {
	info := ctx.Types.Get(typ)
	switch info.Kind {
	case source.TypeI32:
		return "i32"
	case source.TypeI64:
		return "i64"
	case source.TypeF32:
		return "f32"
	case source.TypeF64:
		return "f64"
	case source.TypeRefined:
		return fmt.Sprintf("%s min=%d max=%d", typeName(ctx, info.Base), info.Min, info.Max)
	case source.TypeList:
		return fmt.Sprintf("[%s size=%d]", typeName(ctx, info.Elem), info.Size)
	case source.TypeRecord:
		return ctx.Strings.Get(info.Name)
	default:
		return "?"
	}
}

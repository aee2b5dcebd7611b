package checker

import (
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// checkProgram walks the program's top-level statements in order, skipping
// NodeTypeDecls (already fully resolved by registerTypeNames/
// resolvePendingFields), and appends each binding's or panic's SemIR to
// c.locals/c.stmts. TinyWhale has no function bodies: this is the single
// implicit body every program compiles to.
func (c *checker) checkProgram() {
	c.pushScope()
	defer c.popScope()

	terminated := false
	for _, stmtID := range c.ctx.Nodes.Children(c.ctx.Nodes.Root()) {
		n := c.ctx.Nodes.Get(stmtID)
		if n.Kind == source.NodeTypeDecl {
			continue
		}
		if terminated {
			c.emitTok(n.Token, "TWCHECK050", diagnostics.Vars{})
		}
		switch n.Kind {
		case source.NodeBindingStmt:
			c.bindingStmt(stmtID, n)
		case source.NodePanicStmt:
			c.panicStmt()
			terminated = true
		default:
			invariant.Invariant(false, "checkProgram found non-statement node kind %v", n.Kind)
		}
	}
}

// bindingStmt checks `name: TypeRef = Initializer`: the declared type is
// resolved first, then the initializer is checked against it (rather than
// the old let-binding's type-from-initializer inference), so a refined or
// record-typed binding's annotation is load-bearing, not just documentation.
func (c *checker) bindingStmt(id source.NodeId, n source.ParseNode) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 2, "NodeBindingStmt must have a type ref and an initializer")
	typeRefID, initID := children[0], children[1]

	typ := c.resolveTypeExpr(typeRefID)
	valueLeaves := c.exprAgainstMulti(initID, typ)

	leaves := c.ctx.Symbols.Declare(c.ctx.Types, typ)
	invariant.Invariant(len(leaves) == len(valueLeaves), "binding's flattened local count must match its initializer's leaf count")
	for i, sym := range leaves {
		symType := c.ctx.Symbols.Get(sym).Type
		setID := c.ctx.Insts.Add(source.Inst{
			Kind: source.InstSetLocal, Type: symType, Local: sym,
			Arg0: valueLeaves[i], Arg1: source.InvalidID, Arg2: source.InvalidID,
		})
		c.stmts = append(c.stmts, setID)
	}
	c.locals = append(c.locals, leaves...)

	name := c.tokenStr(n.Token)
	c.declare(c.ctx.Strings.Intern(name), binding{typ: typ, leaves: leaves})
}

// panicStmt emits the one and only side-effecting instruction TinyWhale's
// grammar can produce outside a binding: an unconditional trap.
func (c *checker) panicStmt() {
	id := c.ctx.Insts.Add(source.Inst{Kind: source.InstPanic, Type: source.TypeIdI32, Arg0: source.InvalidID, Arg1: source.InvalidID, Arg2: source.InvalidID})
	c.stmts = append(c.stmts, id)
}

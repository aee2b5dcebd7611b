package checker

import (
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// resolveTypeExpr converts a NodeTypeRef* subtree into a concrete TypeId,
// interning refined/list types and looking up named types in typeNames.
func (c *checker) resolveTypeExpr(id source.NodeId) source.TypeId {
	n := c.ctx.Nodes.Get(id)
	switch n.Kind {
	case source.NodeTypeRefName:
		return c.resolveNamedType(n)
	case source.NodeTypeRefRefined:
		return c.resolveRefinedType(id, n)
	case source.NodeTypeRefList:
		return c.resolveListType(id, n)
	default:
		invariant.Invariant(false, "resolveTypeExpr called on non-type-expr node kind %v", n.Kind)
		return source.TypeIdI32
	}
}

func (c *checker) resolveNamedType(n source.ParseNode) source.TypeId {
	name := c.tokenStr(n.Token)
	nameID := c.ctx.Strings.Intern(name)
	if typ, ok := c.typeNames[nameID]; ok {
		return typ
	}
	c.emitTok(n.Token, "TWCHECK010", diagnostics.Vars{"name": name})
	return source.TypeIdI32
}

func (c *checker) resolveRefinedType(id source.NodeId, n source.ParseNode) source.TypeId {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 1, "NodeTypeRefRefined must have exactly one base child")
	base := c.resolveTypeExpr(children[0])
	if !c.ctx.Types.IsInteger(base) {
		c.emitTok(c.ctx.Nodes.Get(children[0]).Token, "TWCHECK040", diagnostics.Vars{"found": typeName(c.ctx, base)})
		return base
	}
	min, max := n.IntA, n.IntB
	if !n.HasA {
		min = minBoundFor(base)
	}
	if !n.HasB {
		max = maxBoundFor(base)
	}
	return c.ctx.Types.InternRefined(base, min, max)
}

func minBoundFor(base source.TypeId) int64 {
	if base == source.TypeIdI64 {
		return -9223372036854775808
	}
	return -2147483648
}

func maxBoundFor(base source.TypeId) int64 {
	if base == source.TypeIdI64 {
		return 9223372036854775807
	}
	return 2147483647
}

func (c *checker) resolveListType(id source.NodeId, n source.ParseNode) source.TypeId {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 1, "NodeTypeRefList must have exactly one element-type child")
	elem := c.resolveTypeExpr(children[0])
	size := int(n.IntA)
	if size <= 0 {
		c.emitTok(n.Token, "TWCHECK036", diagnostics.Vars{"found": size})
		size = 1
	}
	return c.ctx.Types.InternList(elem, size)
}

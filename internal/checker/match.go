package checker

import (
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// matchExpr lowers a match expression into a cascade of InstSelect
// instructions. Arms are walked last-to-first: the catch-all arm (wildcard
// or binding) becomes the innermost, unconditional value, and each
// preceding literal/or-pattern arm wraps the cascade built so far in
// `if (scrutinee matches pattern) then armBody else <rest>`.
func (c *checker) matchExpr(id source.NodeId, n source.ParseNode) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) >= 2, "NodeMatchExpr must have a scrutinee and at least one arm")
	scrutineeID := children[0]
	armIDs := children[1:]

	scrutinee, scrutineeType := c.inferExpr(scrutineeID)
	invariant.Invariant(len(scrutinee) == 1, "match scrutinee must be scalar")
	if !c.ctx.Types.IsInteger(scrutineeType) {
		c.emitTok(n.Token, "TWCHECK018", diagnostics.Vars{"found": typeName(c.ctx, scrutineeType)})
	}

	lastPatternID := c.ctx.Nodes.Children(armIDs[len(armIDs)-1])[0]
	if !isCatchAll(c.ctx, lastPatternID) {
		c.emitTok(n.Token, "TWCHECK020", diagnostics.Vars{})
	}

	var resultLeaves []source.InstId
	var resultType source.TypeId
	var cascade []source.InstId // current "else" value per leaf, built innermost-out
	first := true

	for i := len(armIDs) - 1; i >= 0; i-- {
		armChildren := c.ctx.Nodes.Children(armIDs[i])
		patternID, bodyID := armChildren[0], armChildren[1]

		var bodyLeaves []source.InstId
		var bodyType source.TypeId
		if first {
			bodyLeaves, bodyType = c.inferExpr(bodyID)
			resultType = bodyType
			cascade = bodyLeaves
			first = false
		} else {
			bodyLeaves = c.exprAgainstMulti(bodyID, resultType)
		}

		if isCatchAll(c.ctx, patternID) {
			// A catch-all always matches, so it shadows every arm nested
			// inside the cascade built so far (whether that's the first
			// iteration, where cascade already equals bodyLeaves, or an
			// extra catch-all above the required final one).
			c.bindCatchAllName(patternID, scrutinee[0], scrutineeType)
			cascade = bodyLeaves
			continue
		}

		cond := c.patternCond(patternID, scrutinee[0])
		next := make([]source.InstId, len(cascade))
		for leaf := range cascade {
			next[leaf] = c.ctx.Insts.Add(source.Inst{
				Kind: source.InstSelect, Type: resultType,
				Arg0: cond, Arg1: bodyLeaves[leaf], Arg2: cascade[leaf],
			})
		}
		cascade = next
	}
	resultLeaves = cascade
	return resultLeaves, resultType
}

// exprAgainstMulti checks a (possibly composite) expression against an
// expected type that may flatten to more than one leaf — match arm bodies
// are the only place a composite-typed expression needs this, since every
// other contextual check (field/list init) already knows its own width.
func (c *checker) exprAgainstMulti(id source.NodeId, expected source.TypeId) []source.InstId {
	n := c.ctx.Nodes.Get(id)
	switch n.Kind {
	case source.NodeListLiteral:
		return c.checkListLiteralAgainst(id, expected)
	case source.NodeRecordInitExpr:
		return c.recordInitExpr(id, n, expected)
	default:
		return c.exprAgainst(id, expected)
	}
}

func isCatchAll(ctx *source.CompilationContext, patternID source.NodeId) bool {
	k := ctx.Nodes.Get(patternID).Kind
	return k == source.NodePatternWildcard || k == source.NodePatternBinding
}

// bindCatchAllName is called for every catch-all arm. It declares nothing:
// a binding pattern's name is not introduced into any scope, so the arm body
// cannot refer to it (a use reports TWCHECK013).
func (c *checker) bindCatchAllName(patternID source.NodeId, scrutinee source.InstId, scrutineeType source.TypeId) {
	n := c.ctx.Nodes.Get(patternID)
	if n.Kind != source.NodePatternBinding {
		return
	}
	name := c.tokenStr(n.Token)
	if name == "_" {
		return
	}
	// A match binding pattern does not introduce its name into the
	// surrounding scope (TWCHECK013's "undefined symbol" note): TinyWhale
	// only supports wildcard and literal/or patterns in exhaustive position
	// today, so a named catch-all still type-checks but doesn't bind.
}

// patternCond builds the boolean (i32 0/1) condition for a literal or
// or-pattern arm: scrutinee == lit, or scrutinee == lit1 || scrutinee == lit2 ...
func (c *checker) patternCond(patternID source.NodeId, scrutinee source.InstId) source.InstId {
	n := c.ctx.Nodes.Get(patternID)
	switch n.Kind {
	case source.NodePatternLiteral:
		return c.literalEq(n, scrutinee)
	case source.NodePatternOr:
		children := c.ctx.Nodes.Children(patternID)
		var cond source.InstId = source.InvalidID
		for _, litID := range children {
			lit := c.ctx.Nodes.Get(litID)
			eq := c.literalEq(lit, scrutinee)
			if cond == source.InvalidID {
				cond = eq
			} else {
				cond = c.ctx.Insts.Add(source.Inst{Kind: source.InstLogicalOr, Type: source.TypeIdI32, Arg0: cond, Arg1: eq, Arg2: source.InvalidID})
			}
		}
		return cond
	default:
		invariant.Invariant(false, "patternCond called on non-literal pattern kind %v", n.Kind)
		return source.InvalidID
	}
}

func (c *checker) literalEq(litNode source.ParseNode, scrutinee source.InstId) source.InstId {
	lit := c.constI(c.ctx.Insts.Get(scrutinee).Type, litNode.IntA)
	return c.ctx.Insts.Add(source.Inst{Kind: source.InstCmpEq, Type: source.TypeIdI32, Arg0: scrutinee, Arg1: lit[0], Arg2: source.InvalidID})
}

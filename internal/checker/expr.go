package checker

import (
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/invariant"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// inferExpr type-checks id with no contextual expected type and returns its
// flattened scalar SemIR leaves plus its inferred TypeId. Every expression
// kind except a bare integer literal has a type independent of context, so
// this is the primary entry point; exprAgainst only special-cases literals.
func (c *checker) inferExpr(id source.NodeId) ([]source.InstId, source.TypeId) {
	n := c.ctx.Nodes.Get(id)
	switch n.Kind {
	case source.NodeIntLiteral:
		return c.inferIntLiteral(n)
	case source.NodeFloatLiteral:
		return c.floatLiteral(n, source.TypeIdF64)
	case source.NodeIdentifier:
		return c.identifierExpr(n)
	case source.NodeUnaryExpr:
		return c.unaryExpr(id, n)
	case source.NodeBinaryExpr:
		return c.binaryExpr(id, n)
	case source.NodeCompareChain:
		return c.compareChain(id)
	case source.NodeFieldAccessExpr:
		return c.fieldAccessExpr(id, n)
	case source.NodeIndexExpr:
		return c.indexExpr(id, n)
	case source.NodeListLiteral:
		return c.listLiteralUnconstrained(id)
	case source.NodeMatchExpr:
		return c.matchExpr(id, n)
	default:
		invariant.Invariant(false, "inferExpr called on non-expression node kind %v", n.Kind)
		return nil, source.TypeIdI32
	}
}

// exprAgainst type-checks id against an expected type, letting an
// unconstrained integer literal (or a negated one, `-5`) adopt that type's
// bounds instead of its own default i32/i64 inference. Non-literal
// expressions fall back to inferExpr and are checked for an exact type match.
func (c *checker) exprAgainst(id source.NodeId, expected source.TypeId) []source.InstId {
	n := c.ctx.Nodes.Get(id)
	if n.Kind == source.NodeIntLiteral {
		return c.intLiteralAs(n, expected)
	}
	if n.Kind == source.NodeUnaryExpr && c.ctx.Tokens.Get(n.Token).Kind == source.TokMinus {
		if operand := c.ctx.Nodes.Get(c.ctx.Nodes.Children(id)[0]); isLiteralNode(operand) {
			operand.IntA = -operand.IntA
			return c.intLiteralAs(operand, expected)
		}
	}
	leaves, typ := c.inferExpr(id)
	if typ != expected {
		c.emitTok(n.Token, "TWCHECK022", diagnostics.Vars{
			"left": typeName(c.ctx, expected), "right": typeName(c.ctx, typ),
		})
	}
	return leaves
}

func isLiteralNode(n source.ParseNode) bool {
	return n.Kind == source.NodeIntLiteral
}

// binaryOperands checks a pair of operands for a binary operator, letting
// whichever side is not a bare literal establish the shared type.
func (c *checker) binaryOperands(leftID, rightID source.NodeId) (left, right []source.InstId, typ source.TypeId) {
	leftNode := c.ctx.Nodes.Get(leftID)
	rightNode := c.ctx.Nodes.Get(rightID)
	switch {
	case !isLiteralNode(leftNode):
		left, typ = c.inferExpr(leftID)
		right = c.exprAgainst(rightID, typ)
	case !isLiteralNode(rightNode):
		right, typ = c.inferExpr(rightID)
		left = c.exprAgainst(leftID, typ)
	default:
		left, typ = c.inferExpr(leftID)
		right = c.exprAgainst(rightID, typ)
	}
	return
}

func (c *checker) inferIntLiteral(n source.ParseNode) ([]source.InstId, source.TypeId) {
	v := n.IntA
	if v >= -2147483648 && v <= 2147483647 {
		return c.constI(source.TypeIdI32, v), source.TypeIdI32
	}
	if v >= -9223372036854775808 && v <= 9223372036854775807 {
		return c.constI(source.TypeIdI64, v), source.TypeIdI64
	}
	c.emitTok(n.Token, "TWCHECK017", diagnostics.Vars{"value": v})
	return c.constI(source.TypeIdI64, 0), source.TypeIdI64
}

func (c *checker) intLiteralAs(n source.ParseNode, expected source.TypeId) []source.InstId {
	v := n.IntA
	underlying := c.ctx.Types.Underlying(expected)
	switch underlying {
	case source.TypeIdI32:
		if v < -2147483648 || v > 2147483647 {
			c.emitTok(n.Token, "TWCHECK014", diagnostics.Vars{"value": v})
			v = 0
		}
	case source.TypeIdI64:
		// int64 already holds the full range; nothing can overflow further.
	default:
		c.emitTok(n.Token, "TWCHECK022", diagnostics.Vars{"left": typeName(c.ctx, expected), "right": "integer literal"})
		return c.zeroValue(expected)
	}
	if info := c.ctx.Types.Get(expected); info.Kind == source.TypeRefined {
		if v < info.Min || v > info.Max {
			c.emitTok(n.Token, "TWCHECK041", diagnostics.Vars{
				"value": v, "constraint": typeName(c.ctx, expected),
			})
		}
	}
	return c.constI(expected, v)
}

func (c *checker) constI(typ source.TypeId, v int64) []source.InstId {
	underlying := c.ctx.Types.Underlying(typ)
	kind := source.InstConstI32
	if underlying == source.TypeIdI64 {
		kind = source.InstConstI64
	}
	id := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: typ, IntVal: v, Arg0: source.InvalidID, Arg1: source.InvalidID, Arg2: source.InvalidID})
	return []source.InstId{id}
}

func (c *checker) floatLiteral(n source.ParseNode, typ source.TypeId) ([]source.InstId, source.TypeId) {
	t := c.ctx.Tokens.Get(n.Token)
	v := c.ctx.Floats.Get(t.Float)
	kind := source.InstConstF64
	if typ == source.TypeIdF32 {
		kind = source.InstConstF32
	}
	fid := c.ctx.Floats.Add(v)
	id := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: typ, FloatVal: fid, Arg0: source.InvalidID, Arg1: source.InvalidID, Arg2: source.InvalidID})
	return []source.InstId{id}, typ
}

func (c *checker) identifierExpr(n source.ParseNode) ([]source.InstId, source.TypeId) {
	name := c.tokenStr(n.Token)
	nameID := c.ctx.Strings.Intern(name)
	b, ok := c.lookup(nameID)
	if !ok {
		c.emitSuggested(n.Token, "TWCHECK013", diagnostics.Vars{"name": name}, name, c.knownNames())
		return c.constI(source.TypeIdI32, 0), source.TypeIdI32
	}
	leaves := make([]source.InstId, len(b.leaves))
	for i, sym := range b.leaves {
		symType := c.ctx.Symbols.Get(sym).Type
		leaves[i] = c.ctx.Insts.Add(source.Inst{
			Kind: source.InstGetLocal, Type: symType, Local: sym,
			Arg0: source.InvalidID, Arg1: source.InvalidID, Arg2: source.InvalidID,
		})
	}
	return leaves, b.typ
}

func (c *checker) emitSuggested(tok source.TokenId, code diagnostics.Code, vars diagnostics.Vars, bad string, candidates []string) {
	t := c.ctx.Tokens.Get(tok)
	c.ctx.Diags.EmitWithSuggestion(code, diagnostics.Span{Line: t.Line, Column: t.Column}, vars, bad, candidates)
}

func (c *checker) unaryExpr(id source.NodeId, n source.ParseNode) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 1, "NodeUnaryExpr must have exactly one operand")
	operand := children[0]
	op := c.ctx.Tokens.Get(n.Token).Kind

	if op == source.TokMinus {
		operandNode := c.ctx.Nodes.Get(operand)
		if !isLiteralNode(operandNode) {
			c.emitTok(n.Token, "TWCHECK015", diagnostics.Vars{})
			leaves, typ := c.inferExpr(operand)
			return leaves, typ
		}
		negated := operandNode
		negated.IntA = -negated.IntA
		return c.intLiteralAsNode(negated)
	}

	leaves, typ := c.inferExpr(operand)
	invariant.Invariant(len(leaves) == 1, "unary operand must be scalar")
	if !c.ctx.Types.IsInteger(typ) {
		c.emitTok(n.Token, "TWCHECK021", diagnostics.Vars{"op": op.String(), "found": typeName(c.ctx, typ)})
		return leaves, typ
	}
	kind := source.InstBitNot
	if op == source.TokBang {
		// `!` is boolean negation over an i32 0/1 value, expressed in SemIR
		// as a single comparison of the operand with 0.
		zero := c.constI(typ, 0)
		eqID := c.ctx.Insts.Add(source.Inst{Kind: source.InstCmpEq, Type: source.TypeIdI32, Arg0: leaves[0], Arg1: zero[0], Arg2: source.InvalidID})
		return []source.InstId{eqID}, source.TypeIdI32
	}
	out := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: typ, Arg0: leaves[0], Arg1: source.InvalidID, Arg2: source.InvalidID})
	return []source.InstId{out}, typ
}

func (c *checker) intLiteralAsNode(n source.ParseNode) ([]source.InstId, source.TypeId) {
	return c.inferIntLiteral(n)
}

var arithOps = map[source.TokenKind]source.InstKind{
	source.TokPlus: source.InstAdd, source.TokMinus: source.InstSub, source.TokStar: source.InstMul,
	source.TokSlash: source.InstDiv, source.TokPercent: source.InstRem, source.TokPercentPercent: source.InstEuclidRem,
	source.TokAmp: source.InstBitAnd, source.TokPipe: source.InstBitOr, source.TokCaret: source.InstBitXor,
	source.TokShl: source.InstShl, source.TokShr: source.InstShr, source.TokUShr: source.InstUShr,
}

var integerOnlyOps = map[source.TokenKind]bool{
	source.TokAmp: true, source.TokPipe: true, source.TokCaret: true,
	source.TokShl: true, source.TokShr: true, source.TokUShr: true,
	source.TokPercent: true, source.TokPercentPercent: true,
}

func (c *checker) binaryExpr(id source.NodeId, n source.ParseNode) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 2, "NodeBinaryExpr must have exactly two operands")
	op := c.ctx.Tokens.Get(n.Token).Kind

	if op == source.TokAndAnd || op == source.TokOrOr {
		return c.logicalExpr(children[0], children[1], op, n.Token)
	}

	left, right, typ := c.binaryOperands(children[0], children[1])
	invariant.Invariant(len(left) == 1 && len(right) == 1, "arithmetic/bitwise operands must be scalar")

	if integerOnlyOps[op] && !c.ctx.Types.IsInteger(typ) {
		c.emitTok(n.Token, "TWCHECK021", diagnostics.Vars{"op": op.String(), "found": typeName(c.ctx, typ)})
	}
	if op == source.TokSlash || op == source.TokPercent || op == source.TokPercentPercent {
		rightNode := c.ctx.Nodes.Get(children[1])
		if isLiteralNode(rightNode) && rightNode.IntA == 0 {
			c.emitTok(n.Token, "TWCHECK025", diagnostics.Vars{})
		}
	}

	kind, ok := arithOps[op]
	invariant.Invariant(ok, "unhandled binary operator token %v", op)
	out := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: typ, Arg0: left[0], Arg1: right[0], Arg2: source.InvalidID})
	return []source.InstId{out}, typ
}

func (c *checker) logicalExpr(leftID, rightID source.NodeId, op source.TokenKind, tok source.TokenId) ([]source.InstId, source.TypeId) {
	left, leftType := c.inferExpr(leftID)
	right, rightType := c.inferExpr(rightID)
	invariant.Invariant(len(left) == 1 && len(right) == 1, "logical operands must be scalar")
	if !c.ctx.Types.IsInteger(leftType) {
		c.emitTok(tok, "TWCHECK024", diagnostics.Vars{"op": op.String(), "found": typeName(c.ctx, leftType)})
	}
	if !c.ctx.Types.IsInteger(rightType) {
		c.emitTok(tok, "TWCHECK024", diagnostics.Vars{"op": op.String(), "found": typeName(c.ctx, rightType)})
	}
	kind := source.InstLogicalAnd
	if op == source.TokOrOr {
		kind = source.InstLogicalOr
	}
	out := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: source.TypeIdI32, Arg0: left[0], Arg1: right[0], Arg2: source.InvalidID})
	return []source.InstId{out}, source.TypeIdI32
}

var cmpOpKind = map[source.TokenKind]source.InstKind{
	source.TokEq: source.InstCmpEq, source.TokNeq: source.InstCmpNeq, source.TokLt: source.InstCmpLt,
	source.TokGt: source.InstCmpGt, source.TokLe: source.InstCmpLe, source.TokGe: source.InstCmpGe,
}

// compareChain lowers `a < b < c < ...` into a cascade of pairwise
// comparisons joined by short-circuit &&, except that a chain of two or more
// comparisons containing != is rejected outright (TWCHECK023): unlike <, <=,
// >, >=, transitive != does not mean what the pairwise reading suggests.
func (c *checker) compareChain(id source.NodeId) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	numOperators := (len(children) - 1) / 2

	ops := make([]source.TokenKind, numOperators)
	hasNeq := false
	for i := 0; i < numOperators; i++ {
		opNode := c.ctx.Nodes.Get(children[2*i+1])
		ops[i] = c.ctx.Tokens.Get(opNode.Token).Kind
		if ops[i] == source.TokNeq {
			hasNeq = true
		}
	}
	if numOperators > 1 && hasNeq {
		c.emitTok(c.ctx.Nodes.Get(children[1]).Token, "TWCHECK023", diagnostics.Vars{})
	}

	var combined source.InstId = source.InvalidID
	for i := 0; i < numOperators; i++ {
		leftID := children[2*i]
		rightID := children[2*i+2]
		left, right, _ := c.binaryOperands(leftID, rightID)
		kind := cmpOpKind[ops[i]]
		cmp := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: source.TypeIdI32, Arg0: left[0], Arg1: right[0], Arg2: source.InvalidID})
		if combined == source.InvalidID {
			combined = cmp
		} else {
			combined = c.ctx.Insts.Add(source.Inst{Kind: source.InstLogicalAnd, Type: source.TypeIdI32, Arg0: combined, Arg1: cmp, Arg2: source.InvalidID})
		}
	}
	return []source.InstId{combined}, source.TypeIdI32
}

func (c *checker) fieldAccessExpr(id source.NodeId, n source.ParseNode) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 1, "NodeFieldAccessExpr must have exactly one base operand")
	baseLeaves, baseType := c.inferExpr(children[0])

	fieldName := c.tokenStr(n.Token)
	info := c.ctx.Types.Get(baseType)
	if info.Kind != source.TypeRecord {
		c.emitTok(n.Token, "TWCHECK031", diagnostics.Vars{"kind": "a field", "typeName": typeName(c.ctx, baseType)})
		return baseLeaves, baseType
	}
	fieldID := c.ctx.Strings.Intern(fieldName)
	offset, width, fieldType, ok := source.FieldLayout(c.ctx.Types, c.ctx.Strings, baseType, fieldID)
	if !ok {
		c.emitTok(n.Token, "TWCHECK030", diagnostics.Vars{"name": fieldName, "typeName": typeName(c.ctx, baseType)})
		return baseLeaves, baseType
	}
	return baseLeaves[offset : offset+width], fieldType
}

func (c *checker) indexExpr(id source.NodeId, n source.ParseNode) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	invariant.Invariant(len(children) == 1, "NodeIndexExpr must have exactly one base operand")
	baseLeaves, baseType := c.inferExpr(children[0])

	info := c.ctx.Types.Get(baseType)
	if info.Kind != source.TypeList {
		c.emitTok(n.Token, "TWCHECK031", diagnostics.Vars{"kind": "an index", "typeName": typeName(c.ctx, baseType)})
		return baseLeaves, baseType
	}
	index := int(n.IntA)
	offset, width, elemType, ok := source.IndexLayout(c.ctx.Types, baseType, index)
	if !ok {
		c.emitTok(n.Token, "TWCHECK034", diagnostics.Vars{"index": index, "size": info.Size})
		return baseLeaves, baseType
	}
	return baseLeaves[offset : offset+width], elemType
}

// listLiteralUnconstrained checks a list literal with no expected element
// type: the first element's inferred type becomes the element type, and
// every later element is checked against it.
func (c *checker) listLiteralUnconstrained(id source.NodeId) ([]source.InstId, source.TypeId) {
	children := c.ctx.Nodes.Children(id)
	if len(children) == 0 {
		return nil, c.ctx.Types.InternList(source.TypeIdI32, 0)
	}
	var leaves []source.InstId
	first, elemType := c.inferExpr(children[0])
	leaves = append(leaves, first...)
	for _, childID := range children[1:] {
		leaves = append(leaves, c.exprAgainst(childID, elemType)...)
	}
	return leaves, c.ctx.Types.InternList(elemType, len(children))
}

// checkListLiteralAgainst checks a list literal against an expected list
// type, validating the element count and per-element types.
func (c *checker) checkListLiteralAgainst(id source.NodeId, expected source.TypeId) []source.InstId {
	children := c.ctx.Nodes.Children(id)
	n := c.ctx.Nodes.Get(id)
	info := c.ctx.Types.Get(expected)
	if len(children) != info.Size {
		c.emitTok(n.Token, "TWCHECK037", diagnostics.Vars{"found": len(children), "expected": info.Size})
	}
	var leaves []source.InstId
	for _, childID := range children {
		leaves = append(leaves, c.exprAgainst(childID, info.Elem)...)
	}
	return leaves
}

// recordInitExpr checks an indented `name: value` field block against a
// record type already known from context (a binding's own annotation, or an
// enclosing field's declared type): unlike the teacher's brace-literal
// syntax, a record initializer never carries its own type name, so there is
// nothing to infer here — only to validate against expected.
func (c *checker) recordInitExpr(id source.NodeId, n source.ParseNode, expected source.TypeId) []source.InstId {
	recordTypeName := typeName(c.ctx, expected)
	info := c.ctx.Types.Get(expected)
	if info.Kind != source.TypeRecord {
		c.emitTok(n.Token, "TWCHECK012", diagnostics.Vars{"detail": "record initializer on a non-record type"})
		return c.zeroValue(expected)
	}

	children := c.ctx.Nodes.Children(id)
	values := make(map[source.StringId][]source.InstId)
	seen := make(map[source.StringId]bool)
	for _, fieldID := range children {
		fn := c.ctx.Nodes.Get(fieldID)
		fieldNameID := c.ctx.Strings.Intern(c.tokenStr(fn.Token))
		fc := c.ctx.Nodes.Children(fieldID)
		invariant.Invariant(len(fc) == 1, "NodeRecordInitField must have exactly one value child")

		offset, width, fieldType, okField := source.FieldLayout(c.ctx.Types, c.ctx.Strings, expected, fieldNameID)
		if !okField {
			c.emitTok(fn.Token, "TWCHECK028", diagnostics.Vars{"name": c.tokenStr(fn.Token), "typeName": recordTypeName})
			continue
		}
		if seen[fieldNameID] {
			c.emitTok(fn.Token, "TWCHECK029", diagnostics.Vars{"name": c.tokenStr(fn.Token)})
			continue
		}
		seen[fieldNameID] = true

		fieldLeaves := c.exprAgainstMulti(fc[0], fieldType)
		invariant.Invariant(len(fieldLeaves) == width, "flattened field value width must match its layout width")
		values[fieldNameID] = fieldLeaves
		_ = offset
	}

	var leaves []source.InstId
	for _, f := range info.Fields {
		v, has := values[f.Name]
		if !has {
			c.emitTok(n.Token, "TWCHECK027", diagnostics.Vars{"name": c.ctx.Strings.Get(f.Name), "typeName": recordTypeName})
			v = c.zeroValue(f.Type)
		}
		leaves = append(leaves, v...)
	}
	return leaves
}

// zeroValue produces a best-effort placeholder value for a type that failed
// to initialize, so checking can continue and report every missing field in
// one pass instead of stopping at the first.
func (c *checker) zeroValue(typ source.TypeId) []source.InstId {
	n := source.LeafCount(c.ctx.Types, typ)
	out := make([]source.InstId, 0, n)
	c.zeroValueInto(typ, &out)
	return out
}

func (c *checker) zeroValueInto(typ source.TypeId, out *[]source.InstId) {
	info := c.ctx.Types.Get(typ)
	switch info.Kind {
	case source.TypeRecord:
		for _, f := range info.Fields {
			c.zeroValueInto(f.Type, out)
		}
	case source.TypeList:
		for i := 0; i < info.Size; i++ {
			c.zeroValueInto(info.Elem, out)
		}
	default:
		underlying := c.ctx.Types.Underlying(typ)
		if underlying == source.TypeIdF32 || underlying == source.TypeIdF64 {
			fid := c.ctx.Floats.Add(0)
			kind := source.InstConstF64
			if underlying == source.TypeIdF32 {
				kind = source.InstConstF32
			}
			id := c.ctx.Insts.Add(source.Inst{Kind: kind, Type: typ, FloatVal: fid, Arg0: source.InvalidID, Arg1: source.InvalidID, Arg2: source.InvalidID})
			*out = append(*out, id)
			return
		}
		*out = append(*out, c.constI(typ, 0)[0])
	}
}

package parser

import "github.com/tinywhale-lang/tinywhale/internal/source"

// Precedence climbs, lowest to highest:
//
//	expr       = orExpr
//	orExpr     = andExpr ('||' andExpr)*
//	andExpr    = cmpExpr ('&&' cmpExpr)*
//	cmpExpr    = bitOrExpr ( cmpOp bitOrExpr )*        -> NodeCompareChain
//	bitOrExpr  = bitXorExpr ('|' bitXorExpr)*
//	bitXorExpr = bitAndExpr ('^' bitAndExpr)*
//	bitAndExpr = shiftExpr ('&' shiftExpr)*
//	shiftExpr  = addExpr ( ('<<'|'>>'|'>>>') addExpr )*
//	addExpr    = mulExpr ( ('+'|'-') mulExpr )*
//	mulExpr    = unaryExpr ( ('*'|'/'|'%'|'%%') unaryExpr )*
//	unaryExpr  = ('-'|'~'|'!') unaryExpr | postfix
//	postfix    = primary ( '.' ident | '[' intLiteral ']' )*
//	primary    = intLit | floatLit | ident
//	           | '(' expr ')' | '[' expr (',' expr)* ']'
//	           | 'match' expr NEWLINE INDENT matchArm+ DEDENT
//
// There is no record literal in Primary: a record value only ever appears as
// a binding's own indented initializer (parser.go's recordInitBlock), never
// as a sub-expression. `panic` is likewise not an expression at all — it's a
// dedicated top-level statement (parser.go's panicStmt) with no parenthesized
// call form.
func (p *parser) expr() { p.orExpr() }

func (p *parser) orExpr() {
	start := p.ctx.Nodes.Len()
	p.andExpr()
	for p.at(source.TokOrOr) {
		opTok := p.curID()
		p.advance()
		p.andExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) andExpr() {
	start := p.ctx.Nodes.Len()
	p.cmpExpr()
	for p.at(source.TokAndAnd) {
		opTok := p.curID()
		p.advance()
		p.cmpExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func isCmpOp(k source.TokenKind) bool {
	switch k {
	case source.TokEq, source.TokNeq, source.TokLt, source.TokGt, source.TokLe, source.TokGe:
		return true
	default:
		return false
	}
}

func (p *parser) cmpExpr() {
	start := p.ctx.Nodes.Len()
	p.bitOrExpr()
	if !isCmpOp(p.cur().Kind) {
		return
	}
	children := 1
	for isCmpOp(p.cur().Kind) {
		opTok := p.curID()
		p.advance()
		p.leaf(source.NodeCompareOp, opTok)
		p.bitOrExpr()
		children += 2
	}
	p.node(source.NodeCompareChain, source.TokenId(source.InvalidID), children, start)
}

func (p *parser) bitOrExpr() {
	start := p.ctx.Nodes.Len()
	p.bitXorExpr()
	for p.at(source.TokPipe) {
		opTok := p.curID()
		p.advance()
		p.bitXorExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) bitXorExpr() {
	start := p.ctx.Nodes.Len()
	p.bitAndExpr()
	for p.at(source.TokCaret) {
		opTok := p.curID()
		p.advance()
		p.bitAndExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) bitAndExpr() {
	start := p.ctx.Nodes.Len()
	p.shiftExpr()
	for p.at(source.TokAmp) {
		opTok := p.curID()
		p.advance()
		p.shiftExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) shiftExpr() {
	start := p.ctx.Nodes.Len()
	p.addExpr()
	for p.at(source.TokShl) || p.at(source.TokShr) || p.at(source.TokUShr) {
		opTok := p.curID()
		p.advance()
		p.addExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) addExpr() {
	start := p.ctx.Nodes.Len()
	p.mulExpr()
	for p.at(source.TokPlus) || p.at(source.TokMinus) {
		opTok := p.curID()
		p.advance()
		p.mulExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) mulExpr() {
	start := p.ctx.Nodes.Len()
	p.unaryExpr()
	for p.at(source.TokStar) || p.at(source.TokSlash) || p.at(source.TokPercent) || p.at(source.TokPercentPercent) {
		opTok := p.curID()
		p.advance()
		p.unaryExpr()
		p.node(source.NodeBinaryExpr, opTok, 2, start)
	}
}

func (p *parser) unaryExpr() {
	if p.at(source.TokMinus) || p.at(source.TokTilde) || p.at(source.TokBang) {
		start := p.ctx.Nodes.Len()
		opTok := p.curID()
		p.advance()
		p.unaryExpr()
		p.node(source.NodeUnaryExpr, opTok, 1, start)
		return
	}
	p.postfix()
}

func (p *parser) postfix() {
	start := p.ctx.Nodes.Len()
	p.primary()
	for {
		switch {
		case p.at(source.TokDot):
			p.advance()
			fieldTok := p.curID()
			p.expect(source.TokIdentifier)
			p.node(source.NodeFieldAccessExpr, fieldTok, 1, start)
		case p.at(source.TokLBracket):
			p.advance()
			idxTok := p.expect(source.TokIntLiteral)
			p.expect(source.TokRBracket)
			id := p.node(source.NodeIndexExpr, source.TokenId(source.InvalidID), 1, start)
			node := p.ctx.Nodes.Get(id)
			node.IntA, node.HasA = idxTok.Int, true
			p.setNode(id, node)
		default:
			return
		}
	}
}

func (p *parser) primary() {
	tok := p.cur()
	switch tok.Kind {
	case source.TokIntLiteral:
		id := p.leaf(source.NodeIntLiteral, p.curID())
		p.advance()
		node := p.ctx.Nodes.Get(id)
		node.IntA, node.HasA = tok.Int, true
		p.setNode(id, node)
	case source.TokFloatLiteral:
		p.leaf(source.NodeFloatLiteral, p.curID())
		p.advance()
	case source.TokIdentifier:
		tokID := p.curID()
		p.advance()
		p.leaf(source.NodeIdentifier, tokID)
	case source.TokLParen:
		p.advance()
		p.expr()
		p.expect(source.TokRParen)
	case source.TokLBracket:
		p.listLiteral()
	case source.TokKwMatch:
		p.matchExpr()
	default:
		p.errorf("expected an expression, found %s", tok.Kind)
		panic(bailout{})
	}
}

func (p *parser) listLiteral() {
	start := p.ctx.Nodes.Len()
	p.expect(source.TokLBracket)
	count := 0
	if !p.at(source.TokRBracket) {
		p.expr()
		count++
		for p.at(source.TokComma) {
			p.advance()
			p.expr()
			count++
		}
	}
	p.expect(source.TokRBracket)
	p.node(source.NodeListLiteral, source.TokenId(source.InvalidID), count, start)
}

// matchExpr parses `match <scrutinee>` followed by an indented, non-empty
// list of arms — no colon after the scrutinee.
func (p *parser) matchExpr() {
	start := p.ctx.Nodes.Len()
	tokID := p.curID()
	p.expect(source.TokKwMatch)
	p.expr()
	p.expect(source.TokNewline)
	p.expect(source.TokIndent)
	armCount := 0
	p.skipNewlines()
	for !p.at(source.TokDedent) && !p.at(source.TokEOF) {
		p.matchArm()
		armCount++
		p.skipNewlines()
	}
	p.expect(source.TokDedent)
	// Children: 1 scrutinee + armCount arms.
	p.node(source.NodeMatchExpr, tokID, armCount+1, start)
}

func (p *parser) matchArm() {
	start := p.ctx.Nodes.Len()
	p.pattern()
	p.expect(source.TokArrow)
	p.expr()
	p.expect(source.TokNewline)
	// Children: 1 pattern + 1 body.
	p.node(source.NodeMatchArm, source.TokenId(source.InvalidID), 2, start)
}

func (p *parser) pattern() {
	start := p.ctx.Nodes.Len()
	switch p.cur().Kind {
	case source.TokUnderscore:
		tok := p.curID()
		p.advance()
		p.leaf(source.NodePatternWildcard, tok)
	case source.TokIdentifier:
		tok := p.curID()
		p.advance()
		p.leaf(source.NodePatternBinding, tok)
	case source.TokIntLiteral, source.TokMinus:
		p.literalPattern(start)
	default:
		p.errorf("expected a pattern, found %s", p.cur().Kind)
		panic(bailout{})
	}
}

func (p *parser) literalPattern(start int) {
	count := 0
	p.intLiteralPatternLeaf()
	count++
	for p.at(source.TokPipe) {
		p.advance()
		p.intLiteralPatternLeaf()
		count++
	}
	if count == 1 {
		return
	}
	p.node(source.NodePatternOr, source.TokenId(source.InvalidID), count, start)
}

func (p *parser) intLiteralPatternLeaf() {
	neg := false
	if p.at(source.TokMinus) {
		neg = true
		p.advance()
	}
	tok := p.cur()
	id := p.leaf(source.NodePatternLiteral, p.curID())
	p.expect(source.TokIntLiteral)
	node := p.ctx.Nodes.Get(id)
	v := tok.Int
	if neg {
		v = -v
	}
	node.IntA, node.HasA = v, true
	p.setNode(id, node)
}

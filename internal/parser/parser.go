// Package parser builds TinyWhale's postorder parse tree (internal/source
// NodeStore) from a token stream. It is a classic hand-written recursive
// descent parser with one precedence-climbing chain for expressions, in the
// same spirit as the teacher's runtime/parser package, but unwinds syntax
// errors with panic/recover at statement boundaries (the same recovery
// technique go/parser uses) rather than the teacher's token-threading error
// list, since TinyWhale's grammar has no brace-delimited blocks to
// resynchronize on. There are no function declarations: a program is a flat
// sequence of type declarations and statements compiled into one implicit
// top-level body.
package parser

import (
	"fmt"

	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

// Run parses every token in ctx.Tokens into ctx.Nodes and reports whether
// parsing completed without a TWPARSE001 diagnostic.
func Run(ctx *source.CompilationContext) bool {
	p := &parser{ctx: ctx, n: ctx.Tokens.Len()}
	p.program()
	return !ctx.Diags.HasErrors()
}

// bailout unwinds a single statement back to its nearest synchronization
// point after a syntax error has already been recorded.
type bailout struct{}

type parser struct {
	ctx *source.CompilationContext
	pos int
	n   int
}

func (p *parser) cur() source.Token {
	if p.pos >= p.n {
		return source.Token{Kind: source.TokEOF}
	}
	return p.ctx.Tokens.Get(source.TokenId(p.pos))
}

func (p *parser) curID() source.TokenId {
	if p.pos >= p.n {
		return source.TokenId(p.n - 1)
	}
	return source.TokenId(p.pos)
}

func (p *parser) at(kind source.TokenKind) bool { return p.cur().Kind == kind }

func (p *parser) advance() source.Token {
	t := p.cur()
	if p.pos < p.n {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) {
	t := p.cur()
	p.ctx.Diags.Emit("TWPARSE001", diagnostics.Span{Line: t.Line, Column: t.Column}, diagnostics.Vars{
		"detail": fmt.Sprintf(format, args...),
	})
}

func (p *parser) expect(kind source.TokenKind) source.Token {
	if !p.at(kind) {
		p.errorf("expected %s, found %s", kind, p.cur().Kind)
		panic(bailout{})
	}
	return p.advance()
}

// tokenStr returns the interned text of an identifier (or keyword) token.
func (p *parser) tokenStr(tok source.Token) string {
	return p.ctx.Strings.Get(tok.Str)
}

// skipNewlines consumes zero or more blank statement separators; TinyWhale
// has no blank-line significance once tokens exist, but a NEWLINE still
// terminates every statement so a run of them (from blank source lines) must
// be absorbed between statements.
func (p *parser) skipNewlines() {
	for p.at(source.TokNewline) {
		p.advance()
	}
}

// node appends a new node whose direct children are the numChildren store
// entries immediately preceding this call (i.e. everything added since
// childrenStart), computing SubtreeSize from the store's growth since then.
func (p *parser) node(kind source.NodeKind, tok source.TokenId, numChildren int, childrenStart int) source.NodeId {
	size := p.ctx.Nodes.Len() - childrenStart + 1
	return p.ctx.Nodes.Add(source.ParseNode{
		Kind: kind, Token: tok, SubtreeSize: size, NumChildren: numChildren,
	})
}

func (p *parser) leaf(kind source.NodeKind, tok source.TokenId) source.NodeId {
	return p.ctx.Nodes.Add(source.ParseNode{Kind: kind, Token: tok, SubtreeSize: 1})
}

// program parses the whole file: a flat sequence of type declarations and
// statements, each resynchronized independently on error so one bad
// statement doesn't hide diagnostics in the rest of the file.
func (p *parser) program() {
	start := p.ctx.Nodes.Len()
	count := 0
	p.skipNewlines()
	for !p.at(source.TokEOF) {
		if p.programStmt() {
			count++
		}
		p.skipNewlines()
	}
	p.node(source.NodeProgram, source.TokenId(source.InvalidID), count, start)
}

func (p *parser) programStmt() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.syncToNextStmt()
			ok = false
		}
	}()
	switch p.cur().Kind {
	case source.TokKwType:
		p.typeDecl()
	case source.TokKwPanic:
		p.panicStmt()
	case source.TokIdentifier:
		p.bindingStmt()
	default:
		p.errorf("expected a type declaration, binding, or panic, found %s", p.cur().Kind)
		panic(bailout{})
	}
	return true
}

func (p *parser) syncToNextStmt() {
	for !p.at(source.TokNewline) && !p.at(source.TokEOF) {
		p.advance()
	}
}

// typeDecl parses `type Name` followed by an indented, non-empty field list:
// TinyWhale has no alias or non-record type declaration, so every `type` is
// a record.
func (p *parser) typeDecl() {
	start := p.ctx.Nodes.Len()
	p.expect(source.TokKwType)
	nameTok := p.curID()
	p.expect(source.TokIdentifier)
	p.expect(source.TokNewline)
	p.expect(source.TokIndent)
	count := 0
	p.skipNewlines()
	for !p.at(source.TokDedent) && !p.at(source.TokEOF) {
		p.fieldDecl()
		count++
		p.skipNewlines()
	}
	p.expect(source.TokDedent)
	p.node(source.NodeTypeDecl, nameTok, count, start)
}

func (p *parser) fieldDecl() {
	start := p.ctx.Nodes.Len()
	nameTok := p.curID()
	p.expect(source.TokIdentifier)
	p.expect(source.TokColon)
	p.typeRef()
	p.expect(source.TokNewline)
	p.node(source.NodeFieldDecl, nameTok, 1, start)
}

// typeRef parses one type reference: a primitive or named type, optionally
// narrowed by a `<min=.., max=..>` hint block, optionally followed by one or
// more `[]<size=N>` list suffixes.
func (p *parser) typeRef() {
	start := p.ctx.Nodes.Len()
	nameTok := p.curID()
	p.primitiveOrName()
	p.node(source.NodeTypeRefName, nameTok, 0, start)

	if p.at(source.TokLt) {
		min, hasMin, max, hasMax, _, _ := p.hints()
		id := p.node(source.NodeTypeRefRefined, source.TokenId(source.InvalidID), 1, start)
		node := p.ctx.Nodes.Get(id)
		node.IntA, node.HasA = min, hasMin
		node.IntB, node.HasB = max, hasMax
		p.setNode(id, node)
	}

	for p.at(source.TokLBracket) {
		p.advance()
		p.expect(source.TokRBracket)
		_, _, _, _, size, hasSize := p.hints()
		id := p.node(source.NodeTypeRefList, source.TokenId(source.InvalidID), 1, start)
		node := p.ctx.Nodes.Get(id)
		node.IntA, node.HasA = size, hasSize
		p.setNode(id, node)
	}
}

func (p *parser) primitiveOrName() {
	switch p.cur().Kind {
	case source.TokKwI32, source.TokKwI64, source.TokKwF32, source.TokKwF64, source.TokIdentifier:
		p.advance()
	default:
		p.errorf("expected a type, found %s", p.cur().Kind)
		panic(bailout{})
	}
}

// hints parses a `<name=value (, name=value)*>` block, dispatching each
// name/value pair to whichever of min/max/size it names; a refined
// primitive's hints use min/max, a list's hints use size, and it's on the
// caller to read back only the pair it expects.
func (p *parser) hints() (min int64, hasMin bool, max int64, hasMax bool, size int64, hasSize bool) {
	p.expect(source.TokLt)
	for {
		name := p.tokenStr(p.cur())
		p.expect(source.TokIdentifier)
		p.expect(source.TokAssign)
		val := p.intHintValue()
		switch name {
		case "min":
			min, hasMin = val, true
		case "max":
			max, hasMax = val, true
		case "size":
			size, hasSize = val, true
		default:
			p.errorf("unknown type hint %q", name)
		}
		if !p.at(source.TokComma) {
			break
		}
		p.advance()
	}
	p.expect(source.TokGt)
	return
}

func (p *parser) intHintValue() int64 {
	neg := false
	if p.at(source.TokMinus) {
		neg = true
		p.advance()
	}
	v := p.expect(source.TokIntLiteral).Int
	if neg {
		return -v
	}
	return v
}

// bindingStmt parses `name: TypeRef = Initializer`, collapsing spec's
// PrimitiveBinding/RecordBinding/MatchBinding/VariableBinding alternatives
// into one production: what follows `=` is either a bare NEWLINE (an
// indented record field block) or an ordinary Expression (which already
// covers scalar literals, arithmetic, list literals, and match expressions).
func (p *parser) bindingStmt() {
	start := p.ctx.Nodes.Len()
	nameTok := p.curID()
	p.expect(source.TokIdentifier)
	p.expect(source.TokColon)
	p.typeRef()
	p.expect(source.TokAssign)
	if p.at(source.TokNewline) {
		p.recordInitBlock()
	} else {
		p.expr()
		p.expect(source.TokNewline)
	}
	// Children: 1 typeRef + 1 initializer.
	p.node(source.NodeBindingStmt, nameTok, 2, start)
}

// recordInitBlock parses an indented `name: value` field list, used both as
// a binding's own initializer and, recursively, as a nested record field's
// value.
func (p *parser) recordInitBlock() {
	start := p.ctx.Nodes.Len()
	p.expect(source.TokNewline)
	p.expect(source.TokIndent)
	count := 0
	tok := source.TokenId(source.InvalidID)
	p.skipNewlines()
	for !p.at(source.TokDedent) && !p.at(source.TokEOF) {
		if count == 0 {
			tok = p.curID()
		}
		p.fieldInit()
		count++
		p.skipNewlines()
	}
	p.expect(source.TokDedent)
	p.node(source.NodeRecordInitExpr, tok, count, start)
}

func (p *parser) fieldInit() {
	start := p.ctx.Nodes.Len()
	nameTok := p.curID()
	p.expect(source.TokIdentifier)
	p.expect(source.TokColon)
	if p.at(source.TokNewline) {
		p.recordInitBlock()
	} else {
		p.expr()
		p.expect(source.TokNewline)
	}
	p.node(source.NodeRecordInitField, nameTok, 1, start)
}

// panicStmt parses the bare `panic` keyword: TinyWhale's only statement with
// a side effect, and the only way a program can diverge.
func (p *parser) panicStmt() {
	tok := p.curID()
	p.expect(source.TokKwPanic)
	p.expect(source.TokNewline)
	p.leaf(source.NodePanicStmt, tok)
}

// setNode overwrites an already-appended node's payload fields. Only safe
// immediately after that node's own Add call, before any sibling or parent
// node has been appended, since NodeStore is otherwise append-only.
func (p *parser) setNode(id source.NodeId, n source.ParseNode) {
	p.ctx.Nodes.Overwrite(id, n)
}

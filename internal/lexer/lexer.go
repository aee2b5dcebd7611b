// Package lexer tokenizes the marker-annotated text internal/preprocess
// produces. It is a single-pass, buffer-based scanner in the style of the
// teacher's runtime/lexer/v2 lexer: a cursor over the input with small
// peek/advance helpers, rather than a generated or regex-driven scanner.
//
// The lexer never fails outright: an unrecognized character is reported
// (TWLEX006) and skipped, so one bad character in a file never hides every
// other diagnostic behind it. The token stream it produces always ends with
// exactly one TokEOF, even for empty input.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/preprocess"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

type lexer struct {
	ctx   *source.CompilationContext
	input string
	pos   int // byte offset
	line  int
	col   int // 1-based rune column within the current line
}

// Run tokenizes markedText (the output of preprocess.Run) into ctx.Tokens.
func Run(ctx *source.CompilationContext, markedText string) {
	l := &lexer{ctx: ctx, input: markedText, line: 1, col: 1}
	for {
		if !l.scanOne() {
			break
		}
	}
	ctx.Tokens.Add(source.Token{Kind: source.TokEOF, Line: l.line, Column: l.col})
}

func (l *lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *lexer) peekRune() (rune, int) {
	if l.atEnd() {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, size
}

func (l *lexer) advance() rune {
	r, size := l.peekRune()
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) match(want rune) bool {
	r, _ := l.peekRune()
	if r != want {
		return false
	}
	l.advance()
	return true
}

// scanOne consumes and emits the next token, if any remain. It returns false
// once the input is exhausted.
func (l *lexer) scanOne() bool {
	if l.atEnd() {
		return false
	}
	r, _ := l.peekRune()

	switch {
	case r == preprocess.MarkerOpen:
		return l.scanMarker()
	case r == '\n':
		l.advance()
		l.emit(source.TokNewline, source.Token{})
		return true
	case r == ' ' || r == '\t' || r == '\r':
		l.advance()
		return true
	case r == '#':
		l.skipLineComment()
		return true
	case unicode.IsDigit(r):
		l.scanNumber()
		return true
	case isIdentStart(r):
		l.scanIdentifier()
		return true
	default:
		if l.scanOperator() {
			return true
		}
		startLine, startCol := l.line, l.col
		l.advance()
		l.ctx.Diags.Emit("TWLEX006", diagnostics.Span{Line: startLine, Column: startCol}, diagnostics.Vars{
			"char": strconv.QuoteRune(r),
		})
		return true
	}
}

// scanMarker decodes one ⟨line,level⟩⇥ or ⟨line,level⟩⇤ marker at the
// cursor, emitting a TokIndent/TokDedent carrying the decoded level in
// Token.Int and the decoded line as the token's own source line.
func (l *lexer) scanMarker() bool {
	isIndent, line, level, width, ok := preprocess.ScanMarker(l.input, l.pos)
	if !ok {
		startLine, startCol := l.line, l.col
		r := l.advance()
		l.ctx.Diags.Emit("TWLEX006", diagnostics.Span{Line: startLine, Column: startCol}, diagnostics.Vars{
			"char": strconv.QuoteRune(r),
		})
		return true
	}
	for consumed := 0; consumed < width; {
		_, size := l.peekRune()
		consumed += size
		l.advance()
	}
	kind := source.TokDedent
	if isIndent {
		kind = source.TokIndent
	}
	l.emit(kind, source.Token{Int: int64(level), Line: line, Column: 1})
	return true
}

func (l *lexer) skipLineComment() {
	for !l.atEnd() {
		r, _ := l.peekRune()
		if r == '\n' {
			return
		}
		l.advance()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) scanIdentifier() {
	startLine, startCol := l.line, l.col
	var b strings.Builder
	for !l.atEnd() {
		r, _ := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		b.WriteRune(l.advance())
	}
	text := b.String()

	if text == "_" {
		l.emit(source.TokUnderscore, source.Token{Line: startLine, Column: startCol})
		return
	}
	id := l.ctx.Strings.Intern(text)
	if kind, ok := source.Keywords[text]; ok {
		// Keywords still carry their interned text (Str) even though their
		// Kind already identifies them: the checker's type-name resolution
		// reads i32/i64/f32/f64 the same way it reads a user record name.
		l.emit(kind, source.Token{Str: id, Line: startLine, Column: startCol})
		return
	}
	l.emit(source.TokIdentifier, source.Token{Str: id, Line: startLine, Column: startCol})
}

func (l *lexer) scanNumber() {
	startLine, startCol := l.line, l.col
	var b strings.Builder
	isFloat := false
	for !l.atEnd() {
		r, _ := l.peekRune()
		if unicode.IsDigit(r) {
			b.WriteRune(l.advance())
			continue
		}
		if r == '.' && !isFloat {
			// Only consume the dot as part of the literal if a digit follows;
			// otherwise it's field access on an int, e.g. `3.field` (not valid
			// TinyWhale, but the lexer still must not eat the dot wrongly).
			if next, size := utf8.DecodeRuneInString(l.input[l.pos+1:]); size > 0 && unicode.IsDigit(next) {
				isFloat = true
				b.WriteRune(l.advance())
				continue
			}
		}
		break
	}
	text := b.String()
	if isFloat {
		v, _ := strconv.ParseFloat(text, 64)
		fid := l.ctx.Floats.Add(v)
		l.emit(source.TokFloatLiteral, source.Token{Float: fid, Line: startLine, Column: startCol})
		return
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Overflow of even int64 at the lexical level: clamp to max; the
		// checker's range diagnostics (TWCHECK014/017) are what actually
		// reject out-of-range literals, so this path only protects ParseInt
		// from erroring on pathologically long digit runs.
		v = 1<<63 - 1
	}
	l.emit(source.TokIntLiteral, source.Token{Int: v, Line: startLine, Column: startCol})
}

// threeCharOps and twoCharOps must each be checked before their shorter
// prefixes (`>>>` before `>>` before `>`).
var threeCharOps = []struct {
	text string
	kind source.TokenKind
}{
	{">>>", source.TokUShr},
}

var twoCharOps = []struct {
	text string
	kind source.TokenKind
}{
	{"->", source.TokArrow},
	{"==", source.TokEq},
	{"!=", source.TokNeq},
	{"<=", source.TokLe},
	{">=", source.TokGe},
	{"&&", source.TokAndAnd},
	{"||", source.TokOrOr},
	{"<<", source.TokShl},
	{">>", source.TokShr},
	{"%%", source.TokPercentPercent},
}

var oneCharOps = map[rune]source.TokenKind{
	'(': source.TokLParen, ')': source.TokRParen,
	'[': source.TokLBracket, ']': source.TokRBracket,
	',': source.TokComma, ':': source.TokColon, '.': source.TokDot,
	'=': source.TokAssign, '+': source.TokPlus, '-': source.TokMinus,
	'*': source.TokStar, '/': source.TokSlash, '%': source.TokPercent,
	'&': source.TokAmp, '|': source.TokPipe, '^': source.TokCaret,
	'~': source.TokTilde, '<': source.TokLt, '>': source.TokGt, '!': source.TokBang,
}

func (l *lexer) scanOperator() bool {
	startLine, startCol := l.line, l.col
	rest := l.input[l.pos:]
	for _, op := range threeCharOps {
		if strings.HasPrefix(rest, op.text) {
			l.advance()
			l.advance()
			l.advance()
			l.emit(op.kind, source.Token{Line: startLine, Column: startCol})
			return true
		}
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op.text) {
			l.advance()
			l.advance()
			l.emit(op.kind, source.Token{Line: startLine, Column: startCol})
			return true
		}
	}
	r, _ := l.peekRune()
	if kind, ok := oneCharOps[r]; ok {
		l.advance()
		l.emit(kind, source.Token{Line: startLine, Column: startCol})
		return true
	}
	return false
}

func (l *lexer) emit(kind source.TokenKind, tok source.Token) {
	tok.Kind = kind
	if tok.Line == 0 {
		tok.Line = l.line
		tok.Column = l.col
	}
	l.ctx.Tokens.Add(tok)
}

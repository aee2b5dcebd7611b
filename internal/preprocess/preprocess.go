package preprocess

import (
	"strings"

	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
	"github.com/tinywhale-lang/tinywhale/internal/source"
)

const bom = "﻿"

// Run converts ctx.Source into a marker-annotated text stream and reports
// whether preprocessing succeeded (no TWLEX001-005 diagnostics). Diagnostics
// are emitted into ctx.Diags regardless of outcome, so the caller can render
// every indentation error found in one pass rather than stopping at the first.
func Run(ctx *source.CompilationContext) (string, bool) {
	text := strings.TrimPrefix(ctx.Source, bom)
	lines := strings.Split(text, "\n")

	p := &processor{ctx: ctx, lines: lines, stack: []int{0}}
	p.detectDirective()
	for i := range p.lines {
		p.processLine(i)
	}
	p.closeRemaining()

	return p.out.String(), !ctx.Diags.HasErrors()
}

type processor struct {
	ctx   *source.CompilationContext
	lines []string
	out   strings.Builder

	mode            string // "detect" or "directive"
	indentChar      rune   // 0 until established
	establishedLine int
	unit            int // width of one indentation level, in indentChar runes
	stack           []int
	directiveLine   int // -1 if none
}

// detectDirective looks at the file's first non-blank line for the literal
// "use spaces" pragma (either quote style). If found, the file's
// indentation character is pinned to spaces from that point on ("directive
// mode"); otherwise the character is inferred from the first indented line
// ("detect mode", the default), which defaults to tabs if the file never
// indents at all.
func (p *processor) detectDirective() {
	p.mode = "detect"
	p.directiveLine = -1
	p.indentChar = '\t'
	for i, line := range p.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isSpacesDirective(trimmed) {
			p.mode = "directive"
			p.indentChar = ' '
			p.establishedLine = i + 1
			p.directiveLine = i
		}
		return
	}
}

func (p *processor) processLine(i int) {
	line := p.lines[i]
	lineNo := i + 1

	if i == p.directiveLine {
		p.out.WriteByte('\n')
		return
	}

	leadLen, leadChar, mixed := measureIndent(line)
	content := line[leadLen:]

	if strings.TrimSpace(content) == "" {
		// Blank (or whitespace-only) lines never affect the indent stack.
		p.out.WriteString(line)
		p.out.WriteByte('\n')
		return
	}

	if mixed {
		p.ctx.Diags.Emit("TWLEX001", diagnostics.Span{Line: lineNo, Column: 1}, diagnostics.Vars{
			"expected": indentCharName(p.indentChar),
			"found":    "mixed tabs and spaces",
		})
	}

	if leadLen > 0 {
		if p.mode == "detect" && p.unit == 0 {
			p.indentChar = leadChar
			p.establishedLine = lineNo
		} else if leadChar != p.indentChar {
			p.ctx.Diags.Emit("TWLEX005", diagnostics.Span{Line: lineNo, Column: 1}, diagnostics.Vars{
				"found":           indentCharName(leadChar),
				"expected":        indentCharName(p.indentChar),
				"establishedLine": p.establishedLine,
			})
		}
	}

	if p.unit == 0 && leadLen > 0 {
		p.unit = leadLen
	}

	level := 0
	if p.unit > 0 {
		if leadLen%p.unit != 0 {
			p.ctx.Diags.Emit("TWLEX002", diagnostics.Span{Line: lineNo, Column: 1}, diagnostics.Vars{
				"found": leadLen,
				"unit":  p.unit,
			})
		}
		level = leadLen / p.unit
	}

	top := p.stack[len(p.stack)-1]
	switch {
	case level == top:
		// same block, no marker
	case level == top+1:
		p.stack = append(p.stack, level)
		p.out.WriteString(indentMark(lineNo, level))
	case level > top+1:
		p.ctx.Diags.Emit("TWLEX004", diagnostics.Span{Line: lineNo, Column: 1}, diagnostics.Vars{
			"from": top, "to": level,
		})
		p.stack = append(p.stack, top+1)
		p.out.WriteString(indentMark(lineNo, top+1))
	default: // level < top
		for len(p.stack) > 1 && p.stack[len(p.stack)-1] > level {
			p.stack = p.stack[:len(p.stack)-1]
			p.out.WriteString(dedentMark(lineNo, p.stack[len(p.stack)-1]))
		}
		if p.stack[len(p.stack)-1] != level {
			p.ctx.Diags.Emit("TWLEX003", diagnostics.Span{Line: lineNo, Column: 1}, diagnostics.Vars{
				"level":  level,
				"levels": p.stack,
			})
			p.stack = append(p.stack, level)
		}
	}

	p.out.WriteString(content)
	p.out.WriteByte('\n')
}

// closeRemaining synthesizes the trailing DEDENTs an EOF implicitly closes,
// so every INDENT the parser sees is guaranteed a matching DEDENT. Each is
// labelled with the file's final line number and the level popped to, per
// spec's EOF-closing rule.
func (p *processor) closeRemaining() {
	finalLine := len(p.lines)
	for len(p.stack) > 1 {
		p.stack = p.stack[:len(p.stack)-1]
		p.out.WriteString(dedentMark(finalLine, p.stack[len(p.stack)-1]))
	}
}

// measureIndent returns the byte length of line's leading run of spaces and
// tabs, the first such rune seen, and whether the run mixes both characters.
func measureIndent(line string) (length int, char rune, mixed bool) {
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		if char == 0 {
			char = r
		} else if r != char {
			mixed = true
		}
		length++
	}
	return length, char, mixed
}

func indentCharName(r rune) string {
	switch r {
	case '\t':
		return "tabs"
	case ' ':
		return "spaces"
	default:
		return "no indentation"
	}
}

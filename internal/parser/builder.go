package parser

import (
	"fmt"
	"strings"

	"github.com/dgallion1/aozora/internal/directive"
	"github.com/dgallion1/aozora/internal/doctree"
	"github.com/dgallion1/aozora/internal/ruby"
	"github.com/dgallion1/aozora/internal/source"
	"github.com/dgallion1/aozora/internal/tables"
	"github.com/dgallion1/aozora/internal/token"
)

// Options tunes how markup is interpreted.
type Options struct {
	RubyPolicy ruby.Policy
	// KeepHeader leaves the title block, notes and colophon of whole files
	// in the body. Build ignores it.
	KeepHeader bool
}

// Result is a built document plus the non-fatal problems met on the way.
type Result struct {
	Document *doctree.Document
	Warnings []Warning
	Encoding source.Encoding // input character set; empty when built from a string
}

// Parse builds a Document from canonical body text with default options.
func Parse(text string) *doctree.Document {
	return Build(text, Options{}).Document
}

// Build builds a Document from canonical body text. It never fails: malformed
// markup degrades to literal text or is dropped with a warning.
func Build(text string, opts Options) Result {
	b := &builder{
		tok:   token.Tokenizer{Policy: opts.RubyPolicy},
		stack: []frame{{}},
	}
	for i, line := range splitLines(text) {
		b.line(i+1, line)
	}
	return b.finish()
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// frame is an open block scope. stack[0] is the document root.
type frame struct {
	kind     directive.BlockKind
	width    int
	line     int
	children []doctree.Block
}

func (f frame) block() doctree.Block {
	if f.kind == directive.Align {
		return &doctree.AlignBlock{Offset: f.width, Children: f.children}
	}
	return &doctree.IndentBlock{Level: f.width, Children: f.children}
}

type builder struct {
	tok      token.Tokenizer
	stack    []frame
	para     []doctree.Inline
	cur      lineBuf
	lineNo   int
	warnings []Warning
}

func (b *builder) warn(kind WarningKind, detail string) {
	b.warnings = append(b.warnings, Warning{Line: b.lineNo, Kind: kind, Detail: detail})
}

func (b *builder) top() *frame {
	return &b.stack[len(b.stack)-1]
}

func (b *builder) emit(blk doctree.Block) {
	top := b.top()
	top.children = append(top.children, blk)
}

func (b *builder) line(n int, raw string) {
	b.lineNo = n
	if strings.TrimSpace(raw) == "" {
		b.flushParagraph()
		return
	}
	b.cur.reset()
	for _, t := range b.tok.Tokenize(raw) {
		b.token(t)
	}
	b.endLine()
}

func (b *builder) token(t token.Token) {
	switch t.Kind {
	case token.Text:
		b.cur.push(&doctree.Text{Value: t.Text})
	case token.Gaiji:
		g := &doctree.Gaiji{Char: t.Text}
		if t.Gaiji != nil {
			g.Description, g.JISCode, g.Resolved = t.Gaiji.Description, t.Gaiji.JISCode, t.Gaiji.Resolved
		}
		if !g.Resolved {
			b.warn(WarnUnknownGaiji, g.Description)
		}
		b.cur.push(g)
	case token.Accent:
		b.cur.push(&doctree.AccentChar{Char: t.Text, Source: t.Source})
	case token.RubyOpen:
		b.cur.rubyFrom = len(b.cur.nodes)
	case token.RubyClose:
		from := b.cur.rubyFrom
		if from < 0 {
			from = len(b.cur.nodes)
		}
		base := doctree.PlainText(b.cur.nodes[from:])
		b.cur.nodes = b.cur.nodes[:from]
		b.cur.push(&doctree.Ruby{Base: base, Reading: t.Text})
		b.cur.rubyFrom = -1
	case token.Command:
		if b.cur.rubyFrom >= 0 {
			b.warn(WarnUnrecognized, t.Text)
			return
		}
		b.apply(directive.Interpret(t.Text))
	}
}

func (b *builder) apply(d directive.Directive) {
	switch d.Kind {
	case directive.InlineStyle:
		kind := d.Style
		if !b.wrapTarget(d.Target, func(children []doctree.Inline) doctree.Inline {
			return &doctree.Styled{Kind: kind, Children: children}
		}) {
			b.warn(WarnUnmatchedTarget, d.Raw)
		}
	case directive.InlineTcy:
		if !b.wrapTarget(d.Target, func(children []doctree.Inline) doctree.Inline {
			return &doctree.Tcy{Text: doctree.PlainText(children)}
		}) {
			b.warn(WarnUnmatchedTarget, d.Raw)
		}
	case directive.Heading:
		if _, _, ok := b.cur.find(b.resolve(d.Target)); !ok {
			b.warn(WarnUnmatchedTarget, d.Raw)
			return
		}
		b.cur.heading = &doctree.Heading{Level: d.Level, Style: d.HeadingStyle}
	case directive.HeadingStart:
		b.cur.heading = &doctree.Heading{Level: d.Level, Style: d.HeadingStyle}
	case directive.HeadingEnd:
		if b.cur.heading == nil {
			b.warn(WarnStrayEnd, d.Raw)
		}
	case directive.BlockStart:
		b.endLine()
		b.cur.reset()
		b.flushParagraph()
		b.stack = append(b.stack, frame{kind: d.Block, width: d.Width, line: b.lineNo})
	case directive.BlockEnd:
		if len(b.stack) == 1 || b.top().kind != d.Block {
			b.warn(WarnStrayBlockEnd, d.Raw)
			return
		}
		b.endLine()
		b.cur.reset()
		b.flushParagraph()
		b.pop()
	case directive.LineIndent:
		b.cur.indent = max(d.Width, 1)
		b.cur.indentFrom = len(b.cur.nodes)
	case directive.LineAlign:
		b.cur.align = d.Width
		b.cur.alignFrom = len(b.cur.nodes)
	case directive.TcyStart:
		b.cur.tcyFrom = len(b.cur.nodes)
	case directive.TcyEnd:
		if b.cur.tcyFrom < 0 {
			b.warn(WarnStrayEnd, d.Raw)
			return
		}
		from := b.cur.tcyFrom
		b.cur.tcyFrom = -1
		if text := doctree.PlainText(b.cur.nodes[from:]); text != "" {
			b.cur.replace(from, len(b.cur.nodes), &doctree.Tcy{Text: text})
		}
	case directive.StyleStart:
		b.cur.styles = append(b.cur.styles, openStyle{kind: d.Style, from: len(b.cur.nodes)})
	case directive.StyleEnd:
		if !b.cur.closeStyle(d.Style) {
			b.warn(WarnStrayEnd, d.Raw)
		}
	default:
		b.warn(WarnUnrecognized, d.Raw)
	}
}

// resolve reduces raw target markup (which may hold gaiji or ruby) to the
// plain text it matches in the line.
func (b *builder) resolve(target string) string {
	return token.Flatten(b.tok.Tokenize(target))
}

func (b *builder) wrapTarget(target string, wrap func([]doctree.Inline) doctree.Inline) bool {
	plain := b.resolve(target)
	s, e, ok := b.cur.find(plain)
	if !ok {
		// Targets inside 〔〕 spans may be quoted in accent notation.
		composed := tables.ComposeAccent(plain)
		if composed == plain {
			return false
		}
		if s, e, ok = b.cur.find(composed); !ok {
			return false
		}
	}
	children := append([]doctree.Inline(nil), b.cur.nodes[s:e]...)
	b.cur.replace(s, e, wrap(children))
	return true
}

// endLine moves the finished line into the paragraph, or into its own block
// when the line carried indent, alignment or heading directives.
func (b *builder) endLine() {
	l := &b.cur
	for len(l.styles) > 0 {
		l.closeStyle(l.styles[len(l.styles)-1].kind)
	}

	from := -1
	if l.indent > 0 {
		from = l.indentFrom
	}
	if l.align >= 0 && (from < 0 || l.alignFrom < from) {
		from = l.alignFrom
	}
	if from < 0 && l.heading == nil {
		b.commit(mergeText(l.nodes))
		return
	}
	if from < 0 {
		from = 0
	}

	b.commit(mergeText(l.nodes[:from]))
	b.flushParagraph()
	tail := mergeText(l.nodes[from:])
	if len(tail) == 0 {
		return
	}

	var blk doctree.Block = &doctree.Paragraph{Children: tail}
	if h := l.heading; h != nil {
		h.Children = tail
		blk = h
	}
	if l.align >= 0 {
		blk = &doctree.AlignBlock{Offset: l.align, Children: []doctree.Block{blk}}
	}
	if l.indent > 0 {
		blk = &doctree.IndentBlock{Level: l.indent, Children: []doctree.Block{blk}}
	}
	b.emit(blk)
}

func (b *builder) commit(nodes []doctree.Inline) {
	if len(nodes) == 0 {
		return
	}
	if len(b.para) > 0 {
		b.para = append(b.para, &doctree.Break{})
	}
	b.para = append(b.para, nodes...)
}

func (b *builder) flushParagraph() {
	if len(b.para) == 0 {
		return
	}
	b.emit(&doctree.Paragraph{Children: b.para})
	b.para = nil
}

func (b *builder) pop() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.emit(f.block())
}

func (b *builder) finish() Result {
	b.flushParagraph()
	for len(b.stack) > 1 {
		f := b.top()
		detail := fmt.Sprintf("indent %d", f.width)
		if f.kind == directive.Align {
			detail = fmt.Sprintf("align %d", f.width)
		}
		b.warnings = append(b.warnings, Warning{Line: f.line, Kind: WarnUnclosedBlock, Detail: detail})
		b.pop()
	}
	return Result{
		Document: &doctree.Document{Blocks: b.stack[0].children},
		Warnings: b.warnings,
	}
}

func mergeText(nodes []doctree.Inline) []doctree.Inline {
	var out []doctree.Inline
	for _, n := range nodes {
		switch n := n.(type) {
		case *doctree.Text:
			if n.Value == "" {
				continue
			}
			if k := len(out); k > 0 {
				if prev, ok := out[k-1].(*doctree.Text); ok {
					out[k-1] = &doctree.Text{Value: prev.Value + n.Value}
					continue
				}
			}
			out = append(out, n)
		case *doctree.Styled:
			out = append(out, &doctree.Styled{Kind: n.Kind, Children: mergeText(n.Children)})
		default:
			out = append(out, n)
		}
	}
	return out
}

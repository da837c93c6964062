// Package doctree defines the document tree built from Aozora Bunko text.
package doctree

import "strings"

// Document is the root of a converted body.
type Document struct {
	Title  string      // from the header, may be empty
	Header *HeaderInfo // nil when the source had no header block
	Blocks []Block

	// AfterText holds what follows ［＃本文終わり］ and Colophon the 底本：
	// section. Both are empty unless the document came from a whole file.
	AfterText []Block
	Colophon  []Block
}

// HeaderInfo holds the bibliographic lines found above the body.
type HeaderInfo struct {
	Title            string
	OriginalTitle    string
	Subtitle         string
	OriginalSubtitle string
	Author           string
	Translator       string
	Editor           string
	Henyaku          string // editor-translator
}

// Block is a block level node: *Paragraph, *Heading, *IndentBlock or *AlignBlock.
type Block interface {
	block()
}

// Inline is an inline node: *Text, *Ruby, *Styled, *Gaiji, *AccentChar, *Tcy or *Break.
type Inline interface {
	inline()
}

// Paragraph is consecutive source lines; lines are separated by *Break nodes.
type Paragraph struct {
	Children []Inline
}

// Heading is a 見出し line.
type Heading struct {
	Level    HeadingLevel
	Style    HeadingStyle
	Children []Inline
}

// IndentBlock indents its children by Level characters.
type IndentBlock struct {
	Level    int
	Children []Block
}

// AlignBlock aligns its children to the bottom of the line, Offset
// characters above it (地付き is offset 0).
type AlignBlock struct {
	Offset   int
	Children []Block
}

func (*Paragraph) block()   {}
func (*Heading) block()     {}
func (*IndentBlock) block() {}
func (*AlignBlock) block()  {}

type Text struct {
	Value string
}

type Ruby struct {
	Base    string
	Reading string
}

type Styled struct {
	Kind     StyleKind
	Children []Inline
}

// Gaiji is a resolved external character.
type Gaiji struct {
	Char        string
	Description string
	JISCode     string
	Resolved    bool
}

// AccentChar is a character composed from accent notation.
type AccentChar struct {
	Char   string
	Source string
}

// Tcy is tate-chu-yoko text.
type Tcy struct {
	Text string
}

// Break separates two source lines inside a paragraph or heading.
type Break struct{}

func (*Text) inline()       {}
func (*Ruby) inline()       {}
func (*Styled) inline()     {}
func (*Gaiji) inline()      {}
func (*AccentChar) inline() {}
func (*Tcy) inline()        {}
func (*Break) inline()      {}

// PlainText returns the visible text of nodes: ruby bases without readings,
// styles dropped, breaks as newlines.
func PlainText(nodes []Inline) string {
	var buf []byte
	for _, n := range nodes {
		buf = appendPlain(buf, n)
	}
	return string(buf)
}

func appendPlain(buf []byte, n Inline) []byte {
	switch n := n.(type) {
	case *Text:
		return append(buf, n.Value...)
	case *Ruby:
		return append(buf, n.Base...)
	case *Styled:
		for _, c := range n.Children {
			buf = appendPlain(buf, c)
		}
		return buf
	case *Gaiji:
		return append(buf, n.Char...)
	case *AccentChar:
		return append(buf, n.Char...)
	case *Tcy:
		return append(buf, n.Text...)
	case *Break:
		return append(buf, '\n')
	}
	return buf
}

// HTMLTitle joins the people then the titles, space separated, for the
// <title> element.
func (h *HeaderInfo) HTMLTitle() string {
	if h == nil {
		return ""
	}
	var parts []string
	for _, s := range []string{
		h.Author, h.Translator, h.Editor, h.Henyaku,
		h.Title, h.OriginalTitle, h.Subtitle, h.OriginalSubtitle,
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

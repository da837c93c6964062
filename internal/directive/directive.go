// Package directive interprets the body of ［＃…］ annotation commands.
package directive

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/aozora/internal/doctree"
	"golang.org/x/text/width"
)

// Kind identifies a directive variant.
type Kind int

const (
	Unrecognized Kind = iota
	InlineStyle       // Style applied to Target
	Heading           // Target is a heading of Level/HeadingStyle
	HeadingStart      // rest of the line is a heading
	HeadingEnd
	BlockStart
	BlockEnd
	LineIndent
	LineAlign
	TcyStart
	TcyEnd
	InlineTcy // Target becomes tate-chu-yoko
	StyleStart
	StyleEnd
)

var kindNames = [...]string{
	Unrecognized: "Unrecognized",
	InlineStyle:  "InlineStyle",
	Heading:      "Heading",
	HeadingStart: "HeadingStart",
	HeadingEnd:   "HeadingEnd",
	BlockStart:   "BlockStart",
	BlockEnd:     "BlockEnd",
	LineIndent:   "LineIndent",
	LineAlign:    "LineAlign",
	TcyStart:     "TcyStart",
	TcyEnd:       "TcyEnd",
	InlineTcy:    "InlineTcy",
	StyleStart:   "StyleStart",
	StyleEnd:     "StyleEnd",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BlockKind distinguishes the two scoped block forms.
type BlockKind int

const (
	Indent BlockKind = iota // 字下げ
	Align                   // 地付き, 地からN字上げ
)

// Directive is the structured form of one annotation command.
type Directive struct {
	Kind         Kind
	Target       string // raw target text for InlineStyle, Heading and InlineTcy
	Style        doctree.StyleKind
	Level        doctree.HeadingLevel
	HeadingStyle doctree.HeadingStyle
	Block        BlockKind
	Width        int // indent level or alignment offset
	Raw          string
}

// Interpret maps a command body to a Directive. Rules are tried most
// specific first; anything unmatched is Unrecognized.
func Interpret(raw string) Directive {
	body := strings.TrimSpace(raw)
	d := Directive{Raw: raw}

	if target, rule, ok := splitReference(body); ok {
		return reference(d, target, rule)
	}

	switch {
	case strings.HasPrefix(body, "ここから"):
		return blockStart(d, strings.TrimPrefix(body, "ここから"))
	case strings.HasPrefix(body, "ここで") && strings.HasSuffix(body, "終わり"):
		return blockEnd(d, strings.TrimSuffix(strings.TrimPrefix(body, "ここで"), "終わり"))
	case strings.HasSuffix(body, "終わり"):
		return inlineEnd(d, strings.TrimSuffix(body, "終わり"))
	}

	if strings.Contains(body, "字下げ") {
		if n, ok := ExtractNumber(body); ok {
			d.Kind, d.Width = LineIndent, n
			return d
		}
	}
	if n, ok := alignOffset(body); ok {
		d.Kind, d.Width = LineAlign, n
		return d
	}
	if body == "縦中横" {
		d.Kind = TcyStart
		return d
	}
	if k, ok := doctree.StyleByName(body); ok {
		d.Kind, d.Style = StyleStart, k
		return d
	}
	if level, style, ok := headingName(body); ok {
		d.Kind, d.Level, d.HeadingStyle = HeadingStart, level, style
		return d
	}
	return d
}

// splitReference splits 「X」に… / 「X」は… / 「X」の… into X and the rest.
func splitReference(body string) (target, rule string, ok bool) {
	if !strings.HasPrefix(body, "「") {
		return "", "", false
	}
	depth := 0
	for i, r := range body {
		switch r {
		case '「':
			depth++
		case '」':
			depth--
			if depth == 0 {
				target = body[len("「"):i]
				rest := body[i+len("」"):]
				c, size := utf8.DecodeRuneInString(rest)
				if c != 'に' && c != 'は' && c != 'の' {
					return "", "", false
				}
				return target, rest[size:], true
			}
		}
	}
	return "", "", false
}

func reference(d Directive, target, rule string) Directive {
	d.Target = target
	if level, style, ok := headingName(rule); ok {
		d.Kind, d.Level, d.HeadingStyle = Heading, level, style
		return d
	}
	if k, ok := doctree.StyleByName(rule); ok {
		d.Kind, d.Style = InlineStyle, k
		return d
	}
	if rule == "縦中横" {
		d.Kind = InlineTcy
		return d
	}
	d.Target = ""
	return d
}

func blockStart(d Directive, rest string) Directive {
	if strings.Contains(rest, "字下げ") {
		// ぶら下げ: the wrapped lines set the block indent.
		if _, after, found := strings.Cut(rest, "折り返して"); found {
			rest = after
		}
		n, ok := ExtractNumber(rest)
		if !ok || n < 1 {
			n = 1
		}
		d.Kind, d.Block, d.Width = BlockStart, Indent, n
		return d
	}
	if n, ok := alignOffset(rest); ok {
		d.Kind, d.Block, d.Width = BlockStart, Align, n
		return d
	}
	return d
}

func blockEnd(d Directive, rest string) Directive {
	switch {
	case strings.Contains(rest, "字下げ"):
		d.Kind, d.Block = BlockEnd, Indent
	case strings.Contains(rest, "地付き"), strings.Contains(rest, "字上げ"):
		d.Kind, d.Block = BlockEnd, Align
	}
	return d
}

func inlineEnd(d Directive, name string) Directive {
	if name == "縦中横" {
		d.Kind = TcyEnd
		return d
	}
	if k, ok := doctree.StyleByName(name); ok {
		d.Kind, d.Style = StyleEnd, k
		return d
	}
	if level, style, ok := headingName(name); ok {
		d.Kind, d.Level, d.HeadingStyle = HeadingEnd, level, style
		return d
	}
	return blockEnd(d, name)
}

func alignOffset(s string) (int, bool) {
	if strings.Contains(s, "地付き") {
		return 0, true
	}
	if strings.Contains(s, "地から") && strings.Contains(s, "字上げ") {
		n, _ := ExtractNumber(s)
		return n, true
	}
	return 0, false
}

// headingName recognises 大見出し, 同行中見出し, 窓小見出し and so on.
func headingName(s string) (doctree.HeadingLevel, doctree.HeadingStyle, bool) {
	style := doctree.Normal
	switch {
	case strings.HasPrefix(s, "同行"):
		style, s = doctree.Dogyo, strings.TrimPrefix(s, "同行")
	case strings.HasPrefix(s, "窓"):
		style, s = doctree.Mado, strings.TrimPrefix(s, "窓")
	}
	switch s {
	case "大見出し":
		return doctree.Large, style, true
	case "中見出し":
		return doctree.Medium, style, true
	case "小見出し":
		return doctree.Small, style, true
	}
	return 0, 0, false
}

// ExtractNumber returns the first run of digits in s. Full-width digits count.
func ExtractNumber(s string) (int, bool) {
	s = width.Narrow.String(s)
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

package parser

import (
	"slices"
	"strings"

	"github.com/dgallion1/aozora/internal/doctree"
)

type openStyle struct {
	kind doctree.StyleKind
	from int
}

// lineBuf collects the inline nodes of the source line being built along
// with the positions where range directives opened. Positions index into
// nodes and are kept valid across splits and replacements.
type lineBuf struct {
	nodes []doctree.Inline

	rubyFrom   int // -1 when no ruby base is open
	tcyFrom    int // -1 when no tcy range is open
	indent     int // 0 when the line is not indented
	indentFrom int
	align      int // -1 when the line is not aligned
	alignFrom  int
	heading    *doctree.Heading
	styles     []openStyle
}

func (l *lineBuf) reset() {
	*l = lineBuf{rubyFrom: -1, tcyFrom: -1, align: -1}
}

func (l *lineBuf) push(n doctree.Inline) {
	l.nodes = append(l.nodes, n)
}

func (l *lineBuf) shift(f func(int) int) {
	for _, m := range []*int{&l.rubyFrom, &l.tcyFrom, &l.indentFrom, &l.alignFrom} {
		if *m >= 0 {
			*m = f(*m)
		}
	}
	for i := range l.styles {
		l.styles[i].from = f(l.styles[i].from)
	}
}

// replace swaps nodes[s:e] for n.
func (l *lineBuf) replace(s, e int, n doctree.Inline) {
	l.nodes = slices.Replace(l.nodes, s, e, n)
	l.shift(func(m int) int {
		switch {
		case m <= s:
			return m
		case m < e:
			return s
		}
		return m - (e - s) + 1
	})
}

// split cuts the Text node at i into two at byte offset at.
func (l *lineBuf) split(i, at int) {
	t := l.nodes[i].(*doctree.Text)
	l.nodes = slices.Insert(l.nodes, i+1, doctree.Inline(&doctree.Text{Value: t.Value[at:]}))
	l.nodes[i] = &doctree.Text{Value: t.Value[:at]}
	l.shift(func(m int) int {
		if m > i {
			return m + 1
		}
		return m
	})
}

// find locates the last occurrence of target in the plain text of the line
// whose edges fall on node boundaries or inside Text nodes, splitting those
// Text nodes so the match is exactly nodes[s:e].
func (l *lineBuf) find(target string) (s, e int, ok bool) {
	if target == "" {
		return 0, 0, false
	}
	starts := make([]int, len(l.nodes)+1)
	var sb strings.Builder
	for i, n := range l.nodes {
		starts[i] = sb.Len()
		sb.WriteString(doctree.PlainText([]doctree.Inline{n}))
	}
	starts[len(l.nodes)] = sb.Len()
	full := sb.String()

	limit := len(full)
	for {
		idx := strings.LastIndex(full[:limit], target)
		if idx < 0 {
			return 0, 0, false
		}
		si, soff, sok := l.boundary(starts, idx)
		ei, eoff, eok := l.boundary(starts, idx+len(target))
		if sok && eok {
			if eoff > 0 {
				l.split(ei, eoff)
				ei++
			}
			if soff > 0 {
				l.split(si, soff)
				si++
				ei++
			}
			return si, ei, true
		}
		limit = idx + len(target) - 1
	}
}

// boundary maps a byte position in the line's plain text to a node index and
// an offset inside that node. ok is false when the position falls inside a
// node that cannot be split.
func (l *lineBuf) boundary(starts []int, pos int) (i, off int, ok bool) {
	for i = 0; i < len(l.nodes); i++ {
		if pos < starts[i+1] {
			break
		}
	}
	if i == len(l.nodes) || pos == starts[i] {
		return i, 0, true
	}
	if _, isText := l.nodes[i].(*doctree.Text); !isText {
		return 0, 0, false
	}
	return i, pos - starts[i], true
}

// closeStyle wraps everything since the innermost open style of kind k.
// Styles opened after it are dropped.
func (l *lineBuf) closeStyle(k doctree.StyleKind) bool {
	for i := len(l.styles) - 1; i >= 0; i-- {
		if l.styles[i].kind != k {
			continue
		}
		from := l.styles[i].from
		l.styles = l.styles[:i]
		if from < len(l.nodes) {
			children := append([]doctree.Inline(nil), l.nodes[from:]...)
			l.replace(from, len(l.nodes), &doctree.Styled{Kind: k, Children: children})
		}
		return true
	}
	return false
}

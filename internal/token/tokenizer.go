package token

import (
	"slices"
	"strings"

	"github.com/dgallion1/aozora/internal/chartype"
	"github.com/dgallion1/aozora/internal/ruby"
	"github.com/dgallion1/aozora/internal/tables"
)

// Tokenizer splits one line of markup into tokens. The zero value uses the
// default ruby policy. A Tokenizer is stateless and safe for concurrent use.
type Tokenizer struct {
	Policy ruby.Policy
}

// Tokenize scans line with the default ruby policy.
func Tokenize(line string) []Token {
	return Tokenizer{}.Tokenize(line)
}

// Tokenize scans line left to right. Gaiji and accent escapes are resolved
// immediately; command bodies are captured raw.
func (t Tokenizer) Tokenize(line string) []Token {
	s := &scanner{rs: []rune(line), policy: t.Policy}
	s.run()
	return s.toks
}

// Flatten concatenates the visible text of toks. Ruby readings and commands
// contribute nothing.
func Flatten(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.Kind {
		case Text, Gaiji, Accent:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

type scanner struct {
	rs     []rune
	pos    int
	policy ruby.Policy
	toks   []Token
}

func (s *scanner) run() {
	for s.pos < len(s.rs) {
		switch s.rs[s.pos] {
		case CommandBegin:
			s.command()
		case GaijiMark:
			s.gaiji()
		case RubyPrefix:
			s.explicitRuby()
		case RubyBegin:
			s.implicitRuby()
		case AccentBegin:
			s.accent()
		default:
			s.text()
		}
	}
}

func isDelimiter(r rune) bool {
	switch r {
	case CommandBegin, GaijiMark, RubyPrefix, RubyBegin, AccentBegin:
		return true
	}
	return false
}

func (s *scanner) peek(n int) rune {
	if s.pos+n < len(s.rs) {
		return s.rs[s.pos+n]
	}
	return 0
}

// literal emits the current rune as text and advances.
func (s *scanner) literal() {
	s.appendText(string(s.rs[s.pos]))
	s.pos++
}

func (s *scanner) appendText(text string) {
	if text == "" {
		return
	}
	if n := len(s.toks); n > 0 && s.toks[n-1].Kind == Text {
		s.toks[n-1].Text += text
		return
	}
	s.toks = append(s.toks, Token{Kind: Text, Text: text})
}

func (s *scanner) text() {
	start := s.pos
	for s.pos < len(s.rs) && !isDelimiter(s.rs[s.pos]) {
		s.pos++
	}
	s.appendText(string(s.rs[start:s.pos]))
}

// closeBalanced returns the index of the ］ that closes a ［ whose body starts
// at from, or -1.
func (s *scanner) closeBalanced(from int) int {
	depth := 1
	for i := from; i < len(s.rs); i++ {
		switch s.rs[i] {
		case CommandBegin:
			depth++
		case CommandEnd:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (s *scanner) indexFrom(from int, r rune) int {
	for i := from; i < len(s.rs); i++ {
		if s.rs[i] == r {
			return i
		}
	}
	return -1
}

func (s *scanner) command() {
	if s.peek(1) != Igeta {
		s.literal()
		return
	}
	end := s.closeBalanced(s.pos + 2)
	if end < 0 {
		s.literal()
		return
	}
	s.toks = append(s.toks, Token{Kind: Command, Text: string(s.rs[s.pos+2 : end])})
	s.pos = end + 1
}

func (s *scanner) gaiji() {
	if s.peek(1) != CommandBegin || s.peek(2) != Igeta {
		s.literal()
		return
	}
	end := s.closeBalanced(s.pos + 3)
	if end < 0 {
		s.literal()
		return
	}
	g := tables.ResolveGaiji(string(s.rs[s.pos+3 : end]))
	s.toks = append(s.toks, Token{Kind: Gaiji, Text: g.Char, Gaiji: &g})
	s.pos = end + 1
}

// reading tokenizes a ruby reading and flattens it to text.
func (s *scanner) reading(from, to int) string {
	sub := &scanner{rs: s.rs[from:to], policy: s.policy}
	sub.run()
	return Flatten(sub.toks)
}

func (s *scanner) explicitRuby() {
	open := s.indexFrom(s.pos+1, RubyBegin)
	if open < 0 {
		s.literal()
		return
	}
	end := s.indexFrom(open+1, RubyEnd)
	if end < 0 {
		s.literal()
		return
	}

	s.toks = append(s.toks, Token{Kind: RubyOpen})
	base := &scanner{rs: s.rs[s.pos+1 : open], policy: s.policy}
	base.run()
	s.toks = append(s.toks, base.toks...)
	s.toks = append(s.toks, Token{Kind: RubyClose, Text: s.reading(open+1, end)})
	s.pos = end + 1
}

func (s *scanner) implicitRuby() {
	end := s.indexFrom(s.pos+1, RubyEnd)
	if end < 0 {
		s.literal()
		return
	}
	s.openImplicit()
	s.toks = append(s.toks, Token{Kind: RubyClose, Text: s.reading(s.pos+1, end)})
	s.pos = end + 1
}

// openImplicit inserts a RubyOpen in front of the base inferred from the
// trailing text and gaiji tokens.
func (s *scanner) openImplicit() {
	start := len(s.toks)
	for start > 0 {
		k := s.toks[start-1].Kind
		if k != Text && k != Gaiji {
			break
		}
		start--
	}

	tail := s.toks[start:]
	segs := make([]ruby.Segment, len(tail))
	for i, t := range tail {
		if t.Kind == Gaiji {
			segs[i] = ruby.Segment{Text: t.Text, Fixed: true, Class: chartype.Kanji}
		} else {
			segs[i] = ruby.Segment{Text: t.Text}
		}
	}

	seg, off := s.policy.InferBase(segs)
	at := start + seg
	if seg < len(segs) && off > 0 {
		rs := []rune(s.toks[at].Text)
		split := []Token{
			{Kind: Text, Text: string(rs[:off])},
			{Kind: RubyOpen},
			{Kind: Text, Text: string(rs[off:])},
		}
		split = append(split, s.toks[at+1:]...)
		s.toks = append(s.toks[:at], split...)
		return
	}
	s.toks = slices.Insert(s.toks, at, Token{Kind: RubyOpen})
}

func (s *scanner) accent() {
	end := s.indexFrom(s.pos+1, AccentEnd)
	if end < 0 {
		s.literal()
		return
	}
	body := string(s.rs[s.pos+1 : end])
	if !strings.ContainsAny(body, tables.AccentMarks) {
		s.literal()
		return
	}
	// Markup inside the brackets is tokenized first; only the text runs compose.
	sub := &scanner{rs: s.rs[s.pos+1 : end], policy: s.policy}
	sub.run()
	for _, t := range sub.toks {
		if t.Kind != Text {
			s.toks = append(s.toks, t)
			continue
		}
		for _, p := range tables.ConvertAccent(t.Text) {
			if p.IsComposed() {
				s.toks = append(s.toks, Token{Kind: Accent, Text: string(p.Composed), Source: p.Source})
			} else {
				s.appendText(p.Text)
			}
		}
	}
	s.pos = end + 1
}

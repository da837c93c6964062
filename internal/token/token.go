package token

import (
	"fmt"

	"github.com/dgallion1/aozora/internal/tables"
)

// Delimiters of the markup.
const (
	RubyPrefix   = '｜'
	RubyBegin    = '《'
	RubyEnd      = '》'
	CommandBegin = '［'
	CommandEnd   = '］'
	Igeta        = '＃'
	GaijiMark    = '※'
	AccentBegin  = '〔'
	AccentEnd    = '〕'
)

// Kind identifies a token variant.
type Kind int

const (
	Text Kind = iota
	RubyOpen
	RubyClose
	Gaiji
	Accent
	Command
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case RubyOpen:
		return "RubyOpen"
	case RubyClose:
		return "RubyClose"
	case Gaiji:
		return "Gaiji"
	case Accent:
		return "Accent"
	case Command:
		return "Command"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical unit of a line.
//
// Text holds the run for Text, the flattened reading for RubyClose, the
// resolved character for Gaiji and Accent, and the raw command body for
// Command. RubyOpen carries nothing.
type Token struct {
	Kind   Kind
	Text   string
	Source string        // accent sequence such as "e'"
	Gaiji  *tables.Gaiji // set for Gaiji tokens
}

func (t Token) String() string {
	if t.Kind == RubyOpen {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

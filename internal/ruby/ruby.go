// Package ruby infers the base text of a ruby gloss written without an
// explicit ｜ marker.
package ruby

import (
	"fmt"
	"strings"

	"github.com/dgallion1/aozora/internal/chartype"
)

// Policy decides which characters may form an implicit ruby base.
type Policy int

const (
	// KanjiKatakana takes the trailing run of kanji, or the trailing run of
	// katakana, depending on the last character.
	KanjiKatakana Policy = iota
	// Kanji takes only a trailing kanji run.
	Kanji
	// CharClass takes the trailing run of whatever class the last character
	// has, excluding chartype.Other.
	CharClass
)

var policyNames = map[Policy]string{
	KanjiKatakana: "kanji-katakana",
	Kanji:         "kanji",
	CharClass:     "char-class",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a policy name to a Policy. The empty string selects the default.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KanjiKatakana, nil
	}
	for p, s := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return KanjiKatakana, fmt.Errorf("unknown ruby policy %q", name)
}

// Accepts reports whether a run of class c may serve as a ruby base.
func (p Policy) Accepts(c chartype.Class) bool {
	switch p {
	case Kanji:
		return c == chartype.Kanji
	case CharClass:
		return c != chartype.Other
	default:
		return c == chartype.Kanji || c == chartype.Katakana
	}
}

// Segment is one piece of text scanned before a ruby marker. A fixed segment
// is atomic and has a single class (a resolved gaiji counts as kanji).
type Segment struct {
	Text  string
	Fixed bool
	Class chartype.Class
}

// InferBase scans segments backward from the end and returns where the base
// starts: the index of the first segment involved and the rune offset inside
// it. When no base characters are found it returns len(segments), 0.
func (p Policy) InferBase(segments []Segment) (seg, offset int) {
	seg = len(segments)
	var want chartype.Class
	chosen := false

	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s.Fixed {
			if !chosen {
				if !p.Accepts(s.Class) {
					return seg, 0
				}
				want, chosen = s.Class, true
			}
			if s.Class != want {
				return seg, 0
			}
			seg = i
			continue
		}

		rs := []rune(s.Text)
		if len(rs) == 0 {
			seg = i
			continue
		}
		if !chosen {
			c := chartype.Classify(rs[len(rs)-1])
			if !p.Accepts(c) {
				return seg, 0
			}
			want, chosen = c, true
		}
		n := len(rs)
		for n > 0 && chartype.Classify(rs[n-1]) == want {
			n--
		}
		if n == len(rs) {
			return seg, 0
		}
		if n > 0 {
			return i, n
		}
		seg = i
	}
	return seg, 0
}

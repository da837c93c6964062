package source

import (
	"strings"

	"github.com/dgallion1/aozora/internal/doctree"
)

type person int

const (
	author person = iota
	translator
	editor
	henyaku
)

// ParseHeader interprets header lines by their count: the first is always the
// title, the last names a person, and the lines between are original title,
// subtitle and original subtitle in that order when present.
func ParseHeader(lines []string) *doctree.HeaderInfo {
	h := &doctree.HeaderInfo{}
	if len(lines) == 0 {
		return h
	}
	h.Title = lines[0]
	switch n := len(lines); {
	case n == 1:
	case n == 2:
		setPerson(h, lines[1])
	case n == 3:
		switch {
		case isOriginalTitle(lines[1]):
			h.OriginalTitle = lines[1]
			setPerson(h, lines[2])
		case setPerson(h, lines[2]) == author:
			h.Subtitle = lines[1]
		default:
			h.Author = lines[1]
		}
	case n == 4:
		if isOriginalTitle(lines[1]) {
			h.OriginalTitle = lines[1]
		} else {
			h.Subtitle = lines[1]
		}
		if setPerson(h, lines[3]) == author {
			h.Subtitle = lines[2]
		} else {
			h.Author = lines[2]
		}
	case n == 5:
		h.OriginalTitle = lines[1]
		h.Subtitle = lines[2]
		h.Author = lines[3]
		setPerson(h, lines[4])
	default:
		h.OriginalTitle = lines[1]
		h.Subtitle = lines[2]
		h.OriginalSubtitle = lines[3]
		h.Author = lines[4]
		setPerson(h, lines[5])
	}
	return h
}

func setPerson(h *doctree.HeaderInfo, s string) person {
	p := personOf(s)
	switch p {
	case editor:
		h.Editor = s
	case translator:
		h.Translator = s
	case henyaku:
		h.Henyaku = s
	default:
		h.Author = s
	}
	return p
}

func personOf(s string) person {
	switch {
	case strings.HasSuffix(s, "編訳"):
		return henyaku
	case strings.HasSuffix(s, "校訂"), strings.HasSuffix(s, "編"), strings.HasSuffix(s, "編集"):
		return editor
	case strings.HasSuffix(s, "訳"):
		return translator
	}
	return author
}

// isOriginalTitle reports whether s looks like a title in a western script:
// ASCII, CJK punctuation, full-width forms, Greek and Cyrillic only.
func isOriginalTitle(s string) bool {
	for _, r := range s {
		switch {
		case r < 0x80:
		case r >= 0x3000 && r <= 0x303F:
		case r >= 0xFF00 && r <= 0xFFEF:
		case r >= 0x0370 && r <= 0x04FF:
		default:
			return false
		}
	}
	return true
}

package chartype

import (
	"unicode"

	"golang.org/x/text/width"
)

// Class is the script class of a character as far as ruby base inference cares.
type Class int

const (
	Other Class = iota
	Hiragana
	Katakana
	Zenkaku
	Hankaku
	Kanji
	HankakuTerminate
)

func (c Class) String() string {
	switch c {
	case Hiragana:
		return "hiragana"
	case Katakana:
		return "katakana"
	case Zenkaku:
		return "zenkaku"
	case Hankaku:
		return "hankaku"
	case Kanji:
		return "kanji"
	case HankakuTerminate:
		return "hankaku_terminate"
	default:
		return "other"
	}
}

// Classify returns the class of r.
func Classify(r rune) Class {
	switch {
	case r >= 'ぁ' && r <= 'ん', r == 'ゝ', r == 'ゞ':
		return Hiragana
	case r >= 'ァ' && r <= 'ン', r == 'ー', r == 'ヽ', r == 'ヾ', r == 'ヴ':
		return Katakana
	case isKanji(r):
		return Kanji
	case isHankaku(r):
		return Hankaku
	case r == '.', r == ';', r == '"', r == '?', r == '!', r == ')':
		return HankakuTerminate
	case isZenkaku(r):
		return Zenkaku
	}
	return Other
}

func isKanji(r rune) bool {
	switch r {
	case '々', '※', '〆', '〇', 'ヶ':
		return true
	}
	return r >= 0x4E00 && r <= 0x9FFF || r >= 0x3400 && r <= 0x4DBF || r >= 0x20000 && r <= 0x2FFFF
}

func isHankaku(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '#', r == '-', r == '&', r == '\'', r == ',':
		return true
	}
	return false
}

func isZenkaku(r rune) bool {
	switch r {
	case '−', '＆', '’', '，', '．':
		return true
	}
	if unicode.In(r, unicode.Greek, unicode.Cyrillic) && unicode.IsLetter(r) {
		return true
	}
	if width.LookupRune(r).Kind() != width.EastAsianFullwidth {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

package tables

import "strings"

// AccentMarks are the ASCII marks that follow a base letter in accent notation.
const AccentMarks = "'`^~:&_,/@"

// accents maps a base letter plus mark (or a two letter ligature plus '&') to
// the precomposed character.
var accents = buildAccentTable()

func buildAccentTable() map[string]rune {
	m := map[string]rune{
		"ae&": 'æ', "AE&": 'Æ',
		"oe&": 'œ', "OE&": 'Œ',
		"s&": 'ß',
		"A&": 'Å', "a&": 'å', "U&": 'Ů', "u&": 'ů',
		"O/": 'Ø', "o/": 'ø',
		"!@": '¡', "?@": '¿',
	}
	add := func(mark byte, bases, composed string) {
		b := []rune(bases)
		c := []rune(composed)
		for i := range b {
			m[string(b[i])+string(mark)] = c[i]
		}
	}
	add('\'', "AEIOUYaeiouy", "ÁÉÍÓÚÝáéíóúý")
	add('`', "AEIOUaeiou", "ÀÈÌÒÙàèìòù")
	add('^', "ACEGHIJOSUaceghijosu", "ÂĈÊĜĤÎĴÔŜÛâĉêĝĥîĵôŝû")
	add(':', "AEIOUYaeiouy", "ÄËÏÖÜŸäëïöüÿ")
	add('~', "ANOano", "ÃÑÕãñõ")
	add('_', "AEIOUaeiou", "ĀĒĪŌŪāēīōū")
	add(',', "CScs", "ÇŞçş")
	return m
}

// LookupAccent returns the precomposed character for an accent sequence such
// as "e'" or "ae&".
func LookupAccent(seq string) (rune, bool) {
	r, ok := accents[seq]
	return r, ok
}

// IsAccentMark reports whether r is one of AccentMarks.
func IsAccentMark(r rune) bool {
	return r < 0x80 && strings.ContainsRune(AccentMarks, r)
}

// AccentPart is one piece of converted accent notation: either literal text or
// a composed character together with the sequence it came from.
type AccentPart struct {
	Text     string
	Composed rune
	Source   string
}

// IsComposed reports whether the part holds a composed character.
func (p AccentPart) IsComposed() bool { return p.Composed != 0 }

// ConvertAccent splits s into literal text and composed characters. Sequences
// missing from the table pass through unchanged.
func ConvertAccent(s string) []AccentPart {
	rs := []rune(s)
	var parts []AccentPart
	var text strings.Builder
	emit := func(src []rune, r rune) {
		if text.Len() > 0 {
			parts = append(parts, AccentPart{Text: text.String()})
			text.Reset()
		}
		parts = append(parts, AccentPart{Composed: r, Source: string(src)})
	}

	for i := 0; i < len(rs); {
		if i+2 < len(rs) && IsAccentMark(rs[i+2]) {
			if r, ok := LookupAccent(string(rs[i : i+3])); ok {
				emit(rs[i:i+3], r)
				i += 3
				continue
			}
		}
		if i+1 < len(rs) && IsAccentMark(rs[i+1]) {
			if r, ok := LookupAccent(string(rs[i : i+2])); ok {
				emit(rs[i:i+2], r)
				i += 2
				continue
			}
		}
		text.WriteRune(rs[i])
		i++
	}
	if text.Len() > 0 {
		parts = append(parts, AccentPart{Text: text.String()})
	}
	return parts
}

// ComposeAccent converts accent notation to a plain string.
func ComposeAccent(s string) string {
	var b strings.Builder
	for _, p := range ConvertAccent(s) {
		if p.IsComposed() {
			b.WriteRune(p.Composed)
		} else {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

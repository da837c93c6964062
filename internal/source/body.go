package source

import (
	"strings"

	"github.com/dgallion1/aozora/internal/doctree"
)

const (
	colophonPrefix = "底本："
	bodyEndMarker  = "［＃本文終わり］"
	noteRule       = "---"
)

// Body is a file split into its parts.
type Body struct {
	Header    *doctree.HeaderInfo // nil when the file has no header lines
	Text      string              // the body proper, lines joined by "\n"
	AfterText []string            // lines between ［＃本文終わり］ and the colophon
	Colophon  []string            // 底本： and everything after it
}

type section int

const (
	inHeader section = iota
	afterHeader
	inNotes
	inBody
)

// ExtractBody splits decoded text into header, body and colophon. The header
// runs to the first empty line. An optional notes block fenced by lines
// starting with "---" follows it. The body ends at a line starting with 底本：
// or at ［＃本文終わり］.
func ExtractBody(text string) Body {
	lines := strings.Split(text, "\n")

	var header, body []string
	sec := inHeader
scan:
	for _, line := range lines {
		switch sec {
		case inHeader:
			if line == "" {
				sec = afterHeader
				continue
			}
			header = append(header, line)
		case afterHeader:
			switch {
			case strings.HasPrefix(line, noteRule):
				sec = inNotes
			case line == "":
			case strings.HasPrefix(line, colophonPrefix):
				break scan
			default:
				body = append(body, line)
				sec = inBody
			}
		case inNotes:
			if strings.HasPrefix(line, noteRule) {
				sec = inBody
			}
		case inBody:
			if strings.HasPrefix(line, colophonPrefix) || line == bodyEndMarker {
				break scan
			}
			body = append(body, line)
		}
	}

	b := Body{
		Text:     strings.Join(body, "\n"),
		Colophon: colophon(lines),
	}
	if len(header) > 0 {
		b.Header = ParseHeader(header)
	}
	b.AfterText = afterText(lines)
	return b
}

func afterText(lines []string) []string {
	var out []string
	in := false
	for _, line := range lines {
		if line == bodyEndMarker {
			in = true
			continue
		}
		if !in {
			continue
		}
		if strings.HasPrefix(line, colophonPrefix) {
			break
		}
		out = append(out, line)
	}
	return out
}

func colophon(lines []string) []string {
	for i, line := range lines {
		if strings.HasPrefix(line, colophonPrefix) {
			return trimTrailingEmpty(lines[i:])
		}
	}
	return nil
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

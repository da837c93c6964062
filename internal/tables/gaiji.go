package tables

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Geta is substituted for gaiji that cannot be resolved.
const Geta = "〓"

// gaijiDescriptions maps descriptions used in gaiji escapes to Unicode text.
var gaijiDescriptions = map[string]string{
	"丸印":          "○",
	"二重丸":         "◎",
	"黒丸":          "●",
	"米印":          "※",
	"二の字点":        "〻",
	"ます記号":        "〼",
	"歌記号":         "〽",
	"コト":          "ヿ",
	"より":          "ゟ",
	"感嘆符二つ":       "‼",
	"疑問符二つ":       "⁇",
	"感嘆符疑問符":      "⁉",
	"疑問符感嘆符":      "⁈",
	"白ゴマ":         "﹆",
	"黒ゴマ":         "﹅",
	"ユーロ記号":       "€",
	"ローマ数字1":      "Ⅰ",
	"ローマ数字2":      "Ⅱ",
	"ローマ数字3":      "Ⅲ",
	"ローマ数字4":      "Ⅳ",
	"ローマ数字5":      "Ⅴ",
	"ローマ数字6":      "Ⅵ",
	"ローマ数字7":      "Ⅶ",
	"ローマ数字8":      "Ⅷ",
	"ローマ数字9":      "Ⅸ",
	"ローマ数字10":     "Ⅹ",
	"丸1":          "①",
	"丸2":          "②",
	"丸3":          "③",
	"丸4":          "④",
	"丸5":          "⑤",
	"丸6":          "⑥",
	"丸7":          "⑦",
	"丸8":          "⑧",
	"丸9":          "⑨",
	"丸10":         "⑩",
	"濁点付き片仮名ワ":    "ヷ",
	"濁点付き片仮名ヰ":    "ヸ",
	"濁点付き片仮名ヱ":    "ヹ",
	"濁点付き片仮名ヲ":    "ヺ",
	"小書き片仮名ク":     "ㇰ",
	"小書き片仮名シ":     "ㇱ",
	"小書き片仮名ス":     "ㇲ",
	"小書き片仮名ト":     "ㇳ",
	"小書き片仮名ヌ":     "ㇴ",
	"小書き片仮名ハ":     "ㇵ",
	"小書き片仮名ヒ":     "ㇶ",
	"小書き片仮名フ":     "ㇷ",
	"小書き片仮名ヘ":     "ㇸ",
	"小書き片仮名ホ":     "ㇹ",
	"小書き片仮名ム":     "ㇺ",
	"小書き片仮名ラ":     "ㇻ",
	"小書き片仮名リ":     "ㇼ",
	"小書き片仮名ル":     "ㇽ",
	"小書き片仮名レ":     "ㇾ",
	"小書き片仮名ロ":     "ㇿ",
	"木＋世":         "枻",
	"口＋世":         "呭",
	"金＋奇":         "錡",
	"魚＋師":         "鰤",
	"くの字点":        "〳〵",
	"濁点付きくの字点":    "〴〵",
}

// LookupGaiji returns the text registered for a gaiji description.
func LookupGaiji(description string) (string, bool) {
	s, ok := gaijiDescriptions[description]
	return s, ok
}

// Gaiji is the resolution of one gaiji escape.
type Gaiji struct {
	Char        string // resolved text, Geta when unresolved
	Description string // text inside 「」, if any
	JISCode     string // normalised men-ku-ten code, if any
	Resolved    bool
}

// ResolveGaiji resolves the raw text of a gaiji escape such as
// "「丸印」、U+25CB" or "「木＋世」、第3水準1-85-56".
func ResolveGaiji(raw string) Gaiji {
	g := Gaiji{Description: description(raw)}
	if code := extractJISCode(raw); code != "" {
		g.JISCode = NormalizeJISCode(code)
	}

	if s, ok := extractCodepoint(raw); ok {
		g.Char, g.Resolved = s, true
		return g
	}
	if g.JISCode != "" {
		if s, ok := LookupJIS(g.JISCode); ok {
			g.Char, g.Resolved = s, true
			return g
		}
	}
	if s, ok := LookupGaiji(g.Description); ok {
		g.Char, g.Resolved = s, true
		return g
	}
	g.Char = Geta
	return g
}

func description(raw string) string {
	start := strings.Index(raw, "「")
	if start < 0 {
		if i := strings.Index(raw, "、"); i >= 0 {
			return strings.TrimSpace(raw[:i])
		}
		return strings.TrimSpace(raw)
	}
	rest := raw[start+len("「"):]
	depth := 1
	for i, r := range rest {
		switch r {
		case '「':
			depth++
		case '」':
			depth--
			if depth == 0 {
				return rest[:i]
			}
		}
	}
	return rest
}

// extractCodepoint finds an explicit "U+XXXX" (either case) in raw. An
// unparsable literal counts as absent.
func extractCodepoint(raw string) (string, bool) {
	upper := strings.ToUpper(raw)
	for from := 0; from < len(upper); {
		i := strings.Index(upper[from:], "U+")
		if i < 0 {
			return "", false
		}
		start := from + i + 2
		end := start
		for end < len(upper) && isHex(upper[end]) {
			end++
		}
		if end > start && end-start <= 6 {
			if n, err := strconv.ParseUint(upper[start:end], 16, 32); err == nil {
				r := rune(n)
				if utf8.ValidRune(r) {
					return string(r), true
				}
			}
		}
		from = start
	}
	return "", false
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F'
}

// extractJISCode finds the first "P-K-T" run of ASCII digits in raw.
func extractJISCode(raw string) string {
	for i := 0; i < len(raw); i++ {
		if !isDigit(raw[i]) || i > 0 && isDigit(raw[i-1]) {
			continue
		}
		j, groups := i, 0
		for {
			k := j
			for k < len(raw) && isDigit(raw[k]) {
				k++
			}
			if k == j {
				break
			}
			groups++
			j = k
			if groups == 3 || j >= len(raw) || raw[j] != '-' {
				break
			}
			j++
		}
		if groups == 3 {
			return raw[i:j]
		}
	}
	return ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

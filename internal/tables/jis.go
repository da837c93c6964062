package tables

import (
	_ "embed"
	"strconv"
	"strings"
	"sync"
)

// jisx0213.txt maps every JIS X 0213 cell to Unicode. Each line is one row,
// "P-KK" followed by 94 cells in ten order; a cell is one or more hex code
// points joined by "+" (base plus combining mark), or "-" when unassigned.
//
//go:embed jisx0213.txt
var jisData string

var jisTable = sync.OnceValue(func() map[string]string {
	m := make(map[string]string, 12000)
	for _, line := range strings.Split(jisData, "\n") {
		row, cells, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		for i, cell := range strings.Fields(cells) {
			if cell == "-" {
				continue
			}
			if s, ok := decodeCell(cell); ok {
				m[row+"-"+pad2(i+1)] = s
			}
		}
	}
	return m
})

func decodeCell(cell string) (string, bool) {
	var b strings.Builder
	for _, hex := range strings.Split(cell, "+") {
		cp, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return "", false
		}
		b.WriteRune(rune(cp))
	}
	return b.String(), true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// NormalizeJISCode pads ku and ten to two digits: "1-2-22" becomes "1-02-22".
// Codes that are not three hyphen separated numbers are returned unchanged.
func NormalizeJISCode(code string) string {
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return code
	}
	for i := 1; i < 3; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "-")
}

// LookupJIS maps a JIS X 0213 men-ku-ten code (plane 1 or 2) to its Unicode
// text. Some cells map to a base character followed by a combining mark.
func LookupJIS(code string) (string, bool) {
	s, ok := jisTable()[NormalizeJISCode(code)]
	return s, ok
}

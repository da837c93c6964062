// Package source turns raw Aozora Bunko files into canonical UTF-8 body text.
package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding names the character set a file was decoded from.
type Encoding string

const (
	UTF8     Encoding = "utf-8"
	ShiftJIS Encoding = "shift_jis"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode returns raw as a string with "\n" line endings. A UTF-8 byte order
// mark is dropped; input that is not valid UTF-8 is read as Shift_JIS.
func Decode(raw []byte) (string, Encoding, error) {
	raw = bytes.TrimPrefix(raw, bom)
	if utf8.Valid(raw) {
		return normalizeNewlines(string(raw)), UTF8, nil
	}
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", ShiftJIS, fmt.Errorf("decode shift_jis: %w", err)
	}
	return normalizeNewlines(string(out)), ShiftJIS, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

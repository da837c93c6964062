// Package render turns document trees into plain text or XHTML.
package render

import (
	"strings"

	"github.com/dgallion1/aozora/internal/doctree"
)

// Plain strips all markup from doc. Ruby keeps its base, styles and blocks
// vanish, and every source line becomes one output line. Lines with nothing
// visible are dropped.
func Plain(doc *doctree.Document) string {
	var lines []string
	for _, b := range doc.Blocks {
		lines = plainBlock(lines, b)
	}
	return strings.Join(lines, "\n")
}

func plainBlock(lines []string, b doctree.Block) []string {
	switch b := b.(type) {
	case *doctree.Paragraph:
		return plainLines(lines, b.Children)
	case *doctree.Heading:
		return plainLines(lines, b.Children)
	case *doctree.IndentBlock:
		for _, c := range b.Children {
			lines = plainBlock(lines, c)
		}
	case *doctree.AlignBlock:
		for _, c := range b.Children {
			lines = plainBlock(lines, c)
		}
	}
	return lines
}

func plainLines(lines []string, nodes []doctree.Inline) []string {
	for _, line := range strings.Split(doctree.PlainText(nodes), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

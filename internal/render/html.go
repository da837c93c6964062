package render

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/aozora/internal/doctree"
	"github.com/dgallion1/aozora/internal/tables"
)

// Options controls the XHTML document around the converted body.
type Options struct {
	Title          string   // <title>; empty falls back to the header
	GaijiImageDir  string   // when set, gaiji render as <img> from this directory
	CSSFiles       []string // one <link> per entry, in order
	MidashiAnchors bool     // wrap heading text in <a class="midashi_anchor">
	Metadata       bool     // emit the title/author block above the body
}

// HTML renders doc as a complete XHTML 1.1 document.
func HTML(doc *doctree.Document, opts Options) string {
	r := &htmlRenderer{opts: opts}
	r.head(doc)
	if opts.Metadata && doc.Header != nil {
		r.metadata(doc.Header)
	}
	r.b.WriteString("<div class=\"main_text\">\n")
	for _, blk := range doc.Blocks {
		r.block(blk)
	}
	r.b.WriteString("</div>\n")
	r.trailer("after_text", doc.AfterText)
	r.trailer("bibliographical_information", doc.Colophon)
	r.b.WriteString("</body>\n</html>\n")
	return r.b.String()
}

type htmlRenderer struct {
	opts      Options
	b         strings.Builder
	midashiID int
}

func (r *htmlRenderer) head(doc *doctree.Document) {
	r.b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN"
    "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="ja">
<head>
	<meta http-equiv="Content-Type" content="text/html;charset=UTF-8" />
	<meta http-equiv="content-style-type" content="text/css" />
`)
	for _, css := range r.opts.CSSFiles {
		fmt.Fprintf(&r.b, "\t<link rel=\"stylesheet\" type=\"text/css\" href=\"%s\" />\n", html.EscapeString(css))
	}
	fmt.Fprintf(&r.b, "\t<title>%s</title>\n", html.EscapeString(title(doc, r.opts)))
	if h := doc.Header; h != nil {
		fmt.Fprintf(&r.b, "\t<meta name=\"DC.Title\" content=\"%s\" />\n", html.EscapeString(h.Title))
		fmt.Fprintf(&r.b, "\t<meta name=\"DC.Creator\" content=\"%s\" />\n", html.EscapeString(h.Author))
	}
	r.b.WriteString("</head>\n<body>\n")
}

func title(doc *doctree.Document, opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	if t := doc.Header.HTMLTitle(); t != "" {
		return t
	}
	return doc.Title
}

func (r *htmlRenderer) metadata(h *doctree.HeaderInfo) {
	r.b.WriteString("<div class=\"metadata\">\n")
	for _, f := range []struct{ tag, class, value string }{
		{"h1", "title", h.Title},
		{"h2", "original_title", h.OriginalTitle},
		{"h2", "subtitle", h.Subtitle},
		{"h2", "original_subtitle", h.OriginalSubtitle},
		{"h2", "author", h.Author},
		{"h2", "editor", h.Editor},
		{"h2", "translator", h.Translator},
		{"h2", "editor-translator", h.Henyaku},
	} {
		if f.value != "" {
			fmt.Fprintf(&r.b, "<%s class=\"%s\">%s</%s>\n", f.tag, f.class, html.EscapeString(f.value), f.tag)
		}
	}
	r.b.WriteString("<br />\n<br />\n</div>\n")
}

func (r *htmlRenderer) trailer(class string, blocks []doctree.Block) {
	if len(blocks) == 0 {
		return
	}
	fmt.Fprintf(&r.b, "<div class=\"%s\">\n<hr />\n<br />\n", class)
	for _, blk := range blocks {
		r.block(blk)
	}
	r.b.WriteString("<br />\n<br />\n</div>\n")
}

func (r *htmlRenderer) block(blk doctree.Block) {
	switch blk := blk.(type) {
	case *doctree.Paragraph:
		r.b.WriteString("<p>")
		r.inlines(blk.Children)
		r.b.WriteString("</p>\n")
	case *doctree.Heading:
		tag, class := blk.Level.Tag(), blk.Level.Class(blk.Style)
		fmt.Fprintf(&r.b, "<%s class=\"%s\">", tag, class)
		if r.opts.MidashiAnchors {
			fmt.Fprintf(&r.b, "<a class=\"midashi_anchor\" id=\"midashi%d\">", r.nextMidashiID(blk.Level))
			r.inlines(blk.Children)
			r.b.WriteString("</a>")
		} else {
			r.inlines(blk.Children)
		}
		fmt.Fprintf(&r.b, "</%s>\n", tag)
	case *doctree.IndentBlock:
		fmt.Fprintf(&r.b, "<div class=\"jisage_%d\">\n", blk.Level)
		for _, c := range blk.Children {
			r.block(c)
		}
		r.b.WriteString("</div>\n")
	case *doctree.AlignBlock:
		fmt.Fprintf(&r.b, "<div class=\"chitsuki_%d\">\n", blk.Offset)
		for _, c := range blk.Children {
			r.block(c)
		}
		r.b.WriteString("</div>\n")
	}
}

// nextMidashiID numbers headings so that ids sort by position: large
// headings advance the counter by 100, medium by 10 and small by 1.
func (r *htmlRenderer) nextMidashiID(l doctree.HeadingLevel) int {
	switch l {
	case doctree.Large:
		r.midashiID += 100
	case doctree.Medium:
		r.midashiID += 10
	default:
		r.midashiID++
	}
	return r.midashiID
}

func (r *htmlRenderer) inlines(nodes []doctree.Inline) {
	for _, n := range nodes {
		r.inline(n)
	}
}

func (r *htmlRenderer) inline(n doctree.Inline) {
	switch n := n.(type) {
	case *doctree.Text:
		r.b.WriteString(html.EscapeString(n.Value))
	case *doctree.Ruby:
		fmt.Fprintf(&r.b, "<ruby><rb>%s</rb><rp>（</rp><rt>%s</rt><rp>）</rp></ruby>",
			html.EscapeString(n.Base), html.EscapeString(n.Reading))
	case *doctree.Styled:
		tag := n.Kind.Tag()
		fmt.Fprintf(&r.b, "<%s class=\"%s\">", tag, n.Kind.Class())
		r.inlines(n.Children)
		fmt.Fprintf(&r.b, "</%s>", tag)
	case *doctree.Gaiji:
		r.gaiji(n)
	case *doctree.AccentChar:
		r.b.WriteString(html.EscapeString(n.Char))
	case *doctree.Tcy:
		fmt.Fprintf(&r.b, "<span class=\"tcy\">%s</span>", html.EscapeString(n.Text))
	case *doctree.Break:
		r.b.WriteString("<br />\n")
	}
}

func (r *htmlRenderer) gaiji(g *doctree.Gaiji) {
	src := gaijiImage(r.opts.GaijiImageDir, g)
	if src == "" {
		r.b.WriteString(html.EscapeString(g.Char))
		return
	}
	fmt.Fprintf(&r.b, "<img class=\"gaiji\" src=\"%s\" alt=\"%s\" />",
		html.EscapeString(src), html.EscapeString("※("+g.Description+")"))
}

// gaijiImage returns the image path for g, or "" when g renders as text.
// Images for JIS cells live in per-row folders: dir/1-02/1-02-22.png.
func gaijiImage(dir string, g *doctree.Gaiji) string {
	if dir == "" {
		return ""
	}
	if g.JISCode != "" {
		if i := strings.LastIndexByte(g.JISCode, '-'); i > 0 {
			return path.Join(dir, g.JISCode[:i], g.JISCode+".png")
		}
	}
	if !g.Resolved || g.Char == tables.Geta {
		return ""
	}
	var name strings.Builder
	for i, r := range g.Char {
		if i > 0 {
			name.WriteByte('-')
		}
		fmt.Fprintf(&name, "u%04x", r)
	}
	return path.Join(dir, name.String()+".png")
}

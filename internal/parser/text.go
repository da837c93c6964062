package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/aozora/internal/doctree"
	"github.com/dgallion1/aozora/internal/source"
)

// TextParser handles .txt files in Shift_JIS or UTF-8. Unless
// Options.KeepHeader is set, only the body is built and the title block is
// parsed into Document.Header.
type TextParser struct {
	Options Options
}

func (p *TextParser) Parse(r io.Reader, filename string) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", filename, err)
	}
	return p.ParseBytes(raw, filename)
}

// ParseBytes decodes raw and builds it.
func (p *TextParser) ParseBytes(raw []byte, filename string) (Result, error) {
	text, enc, err := source.Decode(raw)
	if err != nil {
		return Result{}, err
	}

	if p.Options.KeepHeader {
		res := Build(text, p.Options)
		res.Encoding = enc
		res.Document.Title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		return res, nil
	}

	body := source.ExtractBody(text)
	res := Build(body.Text, p.Options)
	res.Encoding = enc
	res.Document.Header = body.Header
	res.Document.AfterText = section(body.AfterText, p.Options)
	res.Document.Colophon = section(body.Colophon, p.Options)
	if body.Header != nil {
		res.Document.Title = body.Header.Title
	}
	if res.Document.Title == "" {
		res.Document.Title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return res, nil
}

// section builds the lines of a trailing section. Its warnings are dropped
// since their line numbers would not point into the body.
func section(lines []string, opts Options) []doctree.Block {
	if len(lines) == 0 {
		return nil
	}
	return Build(strings.Join(lines, "\n"), opts).Document.Blocks
}

package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/aozora/internal/source"
)

// ZipParser handles the zip archives Aozora Bunko distributes, parsing the
// first .txt entry.
type ZipParser struct {
	Text TextParser
}

func (p *ZipParser) Parse(r io.Reader, filename string) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", filename, err)
	}
	name, content, err := source.ReadZip(data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}
	return p.Text.ParseBytes(content, name)
}

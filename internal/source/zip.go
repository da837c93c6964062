package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrNoText is returned when an archive holds no .txt entry.
	ErrNoText = errors.New("archive contains no .txt file")
	// ErrEntryTooLarge is returned when the text entry exceeds maxEntrySize.
	ErrEntryTooLarge = errors.New("archive entry too large")
)

// maxEntrySize caps how much of a single archive entry is read.
var maxEntrySize int64 = 64 << 20

// ReadZip returns the name and content of the first .txt entry in a zip
// archive, the layout Aozora Bunko distributes its texts in.
func ReadZip(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
		rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if int64(len(content)) > maxEntrySize {
			return "", nil, fmt.Errorf("%s: %w (limit %d bytes)", f.Name, ErrEntryTooLarge, maxEntrySize)
		}
		return f.Name, content, nil
	}
	return "", nil, ErrNoText
}

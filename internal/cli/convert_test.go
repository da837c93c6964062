package cli

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rashomon = "羅生門\n芥川龍之介\n\n｜下人《げにん》が雨やみを待っていた。※［＃「謎の字」］\n\n底本：「芥川龍之介全集」\n"

// run executes the root command with fresh flag values.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	outputPath, title, gaijiDir, rubyPolicy = "", "", "", "kanji-katakana"
	cssFiles = nil
	noStrip, midashiAnchors, verbose = false, false, false
	metadata = true

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTextCmd_Use(t *testing.T) {
	assert.Equal(t, "text [file]", textCmd.Use)
	assert.Equal(t, "html [file]", htmlCmd.Use)
}

func TestHTMLCmd_Flags(t *testing.T) {
	for _, name := range []string{"output", "title", "css", "gaiji-dir", "no-strip", "ruby-policy", "midashi-anchors", "metadata"} {
		assert.NotNil(t, htmlCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	flag := textCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	assert.Nil(t, textCmd.Flags().Lookup("css"))
}

func TestTextCmd_FileStripsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rashomon.txt")
	require.NoError(t, os.WriteFile(path, []byte(rashomon), 0o644))

	out, errOut, err := run(t, "", "text", path)

	require.NoError(t, err)
	assert.Equal(t, "下人が雨やみを待っていた。〓\n", out)
	assert.Contains(t, errOut, "count=1")
}

func TestTextCmd_StdinNoStrip(t *testing.T) {
	out, _, err := run(t, "吾輩《わがはい》は猫である。\n", "text", "--no-strip")

	require.NoError(t, err)
	assert.Equal(t, "吾輩は猫である。\n", out)
}

func TestTextCmd_VerboseLogsWarnings(t *testing.T) {
	_, errOut, err := run(t, "本文\n［＃ここで字下げ終わり］\n", "text", "--no-strip", "-", "--verbose")

	require.NoError(t, err)
	assert.Contains(t, errOut, "stray_block_end")
}

func TestTextCmd_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("rashomon.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte(rashomon))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "rashomon.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	out, _, err := run(t, "", "text", path)

	require.NoError(t, err)
	assert.Equal(t, "下人が雨やみを待っていた。〓\n", out)
}

func TestHTMLCmd_WritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "rashomon.txt")
	dst := filepath.Join(dir, "rashomon.html")
	require.NoError(t, os.WriteFile(in, []byte(rashomon), 0o644))

	out, _, err := run(t, "", "html", in, "-o", dst, "--css", "a.css", "--css", "b.css", "--title", "Rashomon")

	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<title>Rashomon</title>")
	assert.Contains(t, html, `href="a.css"`)
	assert.Contains(t, html, `href="b.css"`)
	assert.Contains(t, html, "<rb>下人</rb>")
}

func TestHTMLCmd_Anchors(t *testing.T) {
	out, _, err := run(t, "第一章［＃「第一章」は大見出し］\n", "html", "--no-strip", "--midashi-anchors")

	require.NoError(t, err)
	assert.Contains(t, out, `id="midashi100"`)
}

func TestHTMLCmd_Metadata(t *testing.T) {
	out, _, err := run(t, rashomon, "html")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="metadata">`)
	assert.Contains(t, out, `<h2 class="author">芥川龍之介</h2>`)
	assert.Contains(t, out, `<div class="bibliographical_information">`)

	out, _, err = run(t, rashomon, "html", "--metadata=false")
	require.NoError(t, err)
	assert.NotContains(t, out, `<div class="metadata">`)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad policy", []string{"text", "--ruby-policy", "hiragana"}, "ruby policy"},
		{"bad extension", []string{"text", "book.pdf"}, "unsupported file extension"},
		{"missing file", []string{"text", filepath.Join(t.TempDir(), "none.txt")}, "read input"},
		{"too many args", []string{"text", "a.txt", "b.txt"}, "accepts at most 1 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

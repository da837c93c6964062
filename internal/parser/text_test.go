package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/aozora/internal/doctree"
	"github.com/dgallion1/aozora/internal/source"
)

const work = `羅生門
芥川龍之介

-------------------------------------------------------
【テキスト中に現れる記号について】
-------------------------------------------------------

　ある日の暮方の事である。一人の下人《げにん》が、
羅生門の下で雨やみを待っていた。

底本：「羅生門・鼻」新潮文庫
`

func TestTextParser_StripsHeader(t *testing.T) {
	p := &TextParser{}
	res, err := p.Parse(strings.NewReader(work), "rashomon.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := res.Document
	if doc.Title != "羅生門" {
		t.Errorf("expected title %q, got %q", "羅生門", doc.Title)
	}
	if doc.Header == nil || doc.Header.Author != "芥川龍之介" {
		t.Fatalf("expected author in header, got %+v", doc.Header)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	got := doctree.PlainText(doc.Blocks[0].(*doctree.Paragraph).Children)
	want := "　ある日の暮方の事である。一人の下人が、\n羅生門の下で雨やみを待っていた。"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextParser_KeepHeader(t *testing.T) {
	p := &TextParser{Options: Options{KeepHeader: true}}
	res, err := p.Parse(strings.NewReader("題\n\n本文"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Document.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", res.Document.Title)
	}
	if len(res.Document.Blocks) != 2 {
		t.Errorf("expected 2 blocks, got %d", len(res.Document.Blocks))
	}
}

func TestTextParser_ShiftJIS(t *testing.T) {
	// "こ\n\nこんにちは" in Shift_JIS.
	raw := []byte{0x82, 0xB1, '\n', '\n', 0x82, 0xB1, 0x82, 0xF1, 0x82, 0xC9, 0x82, 0xBF, 0x82, 0xCD}
	p := &TextParser{}
	res, err := p.Parse(bytes.NewReader(raw), "sjis.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Document.Title != "こ" {
		t.Errorf("expected title %q, got %q", "こ", res.Document.Title)
	}
	got := doctree.PlainText(res.Document.Blocks[0].(*doctree.Paragraph).Children)
	if got != "こんにちは" {
		t.Errorf("expected %q, got %q", "こんにちは", got)
	}
	if res.Encoding != source.ShiftJIS {
		t.Errorf("expected encoding %q, got %q", source.ShiftJIS, res.Encoding)
	}
}

func TestTextParser_TrailingSections(t *testing.T) {
	input := "題\n著者\n\n本文\n［＃本文終わり］\n｜後記《あとがき》\n\n底本：「全集」\n入力：青空文庫\n"
	res, err := (&TextParser{}).Parse(strings.NewReader(input), "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := res.Document
	if res.Encoding != source.UTF8 {
		t.Errorf("expected encoding %q, got %q", source.UTF8, res.Encoding)
	}
	if got := doctree.PlainText(doc.Blocks[0].(*doctree.Paragraph).Children); got != "本文" {
		t.Errorf("expected body %q, got %q", "本文", got)
	}
	if len(doc.AfterText) != 1 {
		t.Fatalf("expected 1 after text block, got %d", len(doc.AfterText))
	}
	after := doc.AfterText[0].(*doctree.Paragraph).Children
	if r, ok := after[0].(*doctree.Ruby); !ok || r.Base != "後記" {
		t.Errorf("expected ruby in after text, got %#v", after[0])
	}
	if len(doc.Colophon) != 1 {
		t.Fatalf("expected 1 colophon block, got %d", len(doc.Colophon))
	}
	want := "底本：「全集」\n入力：青空文庫"
	if got := doctree.PlainText(doc.Colophon[0].(*doctree.Paragraph).Children); got != want {
		t.Errorf("expected colophon %q, got %q", want, got)
	}
}

func TestZipParser(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("rashomon.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Write([]byte(work))
	zw.Close()

	p, err := ForFile("rashomon_ruby.zip", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.Parse(&buf, "rashomon_ruby.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Document.Title != "羅生門" {
		t.Errorf("expected title %q, got %q", "羅生門", res.Document.Title)
	}
}

func TestZipParser_NoText(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Create("readme.html")
	zw.Close()

	p := &ZipParser{}
	_, err := p.Parse(&buf, "empty.zip")
	if !errors.Is(err, source.ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.txt", false},
		{"A.TXT", false},
		{"a.zip", false},
		{"a.html", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.name, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error %v, got %v", tt.name, tt.wantErr, err)
		}
		if IsSupportedExtension(tt.name) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q) = %v", tt.name, !tt.wantErr)
		}
	}
}

package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
		enc  Encoding
	}{
		{"utf8", []byte("こんにちは"), "こんにちは", UTF8},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, "こんにちは"...), "こんにちは", UTF8},
		{"shift_jis", []byte{0x82, 0xB1, 0x82, 0xF1, 0x82, 0xC9, 0x82, 0xBF, 0x82, 0xCD}, "こんにちは", ShiftJIS},
		{"crlf", []byte("一\r\n二\r三"), "一\n二\n三", UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if enc != tt.enc {
				t.Errorf("expected encoding %s, got %s", tt.enc, enc)
			}
		})
	}
}

const sample = `吾輩は猫である
夏目漱石

-------------------------------------------------------
【テキスト中に現れる記号について】

《》：ルビ
-------------------------------------------------------

　吾輩《わがはい》は猫である。
名前はまだ無い。

底本：「夏目漱石全集1」ちくま文庫、筑摩書房
入力：aozora

`

func TestExtractBody(t *testing.T) {
	b := ExtractBody(sample)

	want := "\n　吾輩《わがはい》は猫である。\n名前はまだ無い。\n"
	if b.Text != want {
		t.Errorf("expected body %q, got %q", want, b.Text)
	}
	if b.Header == nil {
		t.Fatal("expected header")
	}
	if b.Header.Title != "吾輩は猫である" || b.Header.Author != "夏目漱石" {
		t.Errorf("unexpected header %+v", *b.Header)
	}
	if len(b.Colophon) != 2 || b.Colophon[1] != "入力：aozora" {
		t.Errorf("unexpected colophon %q", b.Colophon)
	}
}

func TestExtractBody_EndMarker(t *testing.T) {
	text := "題\n\n本文\n［＃本文終わり］\n後記\n底本：某文庫\n"
	b := ExtractBody(text)
	if b.Text != "本文" {
		t.Errorf("expected %q, got %q", "本文", b.Text)
	}
	if !slices.Equal(b.AfterText, []string{"後記"}) {
		t.Errorf("unexpected after text %q", b.AfterText)
	}
}

func TestExtractBody_NoNotes(t *testing.T) {
	b := ExtractBody("題\n著者\n\n\n一行目\n二行目")
	if b.Text != "一行目\n二行目" {
		t.Errorf("expected %q, got %q", "一行目\n二行目", b.Text)
	}
	if b.Colophon != nil {
		t.Errorf("expected no colophon, got %q", b.Colophon)
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		title string
	}{
		{"title only", []string{"羅生門"}, "羅生門"},
		{"author", []string{"羅生門", "芥川龍之介"}, "芥川龍之介 羅生門"},
		{"original title", []string{"変身", "Die Verwandlung", "カフカ"}, "カフカ 変身 Die Verwandlung"},
		{"subtitle", []string{"題", "副題", "著者"}, "著者 題 副題"},
		{"translator", []string{"変身", "カフカ", "原田義人訳"}, "カフカ 原田義人訳 変身"},
		{"editor", []string{"全集", "某", "某編"}, "某 某編 全集"},
		{"henyaku", []string{"集", "某", "某編訳"}, "某 某編訳 集"},
		{"six lines", []string{"題", "Title", "副", "Sub", "著者", "訳者訳"}, "著者 訳者訳 題 Title 副 Sub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeader(tt.lines).HTMLTitle()
			if got != tt.title {
				t.Errorf("expected %q, got %q", tt.title, got)
			}
		})
	}
}

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.Bytes()
}

func TestReadZip(t *testing.T) {
	data := makeZip(t, map[string]string{"wagahai.txt": "本文"})
	name, content, err := ReadZip(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "wagahai.txt" || string(content) != "本文" {
		t.Errorf("unexpected entry %q: %q", name, content)
	}
}

func TestReadZip_NoText(t *testing.T) {
	data := makeZip(t, map[string]string{"cover.png": "x"})
	if _, _, err := ReadZip(data); !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestReadZip_EntryTooLarge(t *testing.T) {
	old := maxEntrySize
	maxEntrySize = 4
	t.Cleanup(func() { maxEntrySize = old })

	if _, content, err := ReadZip(makeZip(t, map[string]string{"a.txt": "abcd"})); err != nil || string(content) != "abcd" {
		t.Fatalf("expected entry at the limit to be read, got %q, %v", content, err)
	}
	_, _, err := ReadZip(makeZip(t, map[string]string{"a.txt": "abcde"}))
	if !errors.Is(err, ErrEntryTooLarge) {
		t.Errorf("expected ErrEntryTooLarge, got %v", err)
	}
}

func TestReadZip_NotAnArchive(t *testing.T) {
	if _, _, err := ReadZip([]byte("plain text")); err == nil {
		t.Error("expected error for non-zip input")
	}
}

package ruby

import (
	"testing"

	"github.com/dgallion1/aozora/internal/chartype"
)

func base(p Policy, segs ...Segment) string {
	seg, off := p.InferBase(segs)
	if seg >= len(segs) {
		return ""
	}
	out := string([]rune(segs[seg].Text)[off:])
	for _, s := range segs[seg+1:] {
		out += s.Text
	}
	return out
}

func text(s string) Segment { return Segment{Text: s} }

func TestInferBase_DefaultPolicy(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
		want string
	}{
		{"whole kanji run", []Segment{text("吾輩")}, "吾輩"},
		{"stops at hiragana", []Segment{text("これは吾輩")}, "吾輩"},
		{"katakana run", []Segment{text("その名はグレゴール")}, "グレゴール"},
		{"kanji after katakana", []Segment{text("ロシア語")}, "語"},
		{"hiragana is not a base", []Segment{text("ひらがな")}, ""},
		{"punctuation", []Segment{text("東京、")}, ""},
		{"empty", nil, ""},
		{"across segments", []Segment{text("は東"), text("京")}, "東京"},
		{"gaiji counts as kanji", []Segment{text("この"), {Text: "枻", Fixed: true, Class: chartype.Kanji}}, "枻"},
		{"gaiji joins kanji", []Segment{text("木"), {Text: "枻", Fixed: true, Class: chartype.Kanji}}, "木枻"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base(KanjiKatakana, tt.segs...); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInferBase_Policies(t *testing.T) {
	if got := base(Kanji, text("グレゴール")); got != "" {
		t.Errorf("kanji policy: expected empty base, got %q", got)
	}
	if got := base(CharClass, text("これはABC")); got != "ABC" {
		t.Errorf("char-class policy: expected %q, got %q", "ABC", got)
	}
	if got := base(CharClass, text("漢字ひらがな")); got != "ひらがな" {
		t.Errorf("char-class policy: expected %q, got %q", "ひらがな", got)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", KanjiKatakana, false},
		{"kanji-katakana", KanjiKatakana, false},
		{"Kanji", Kanji, false},
		{"char-class", CharClass, false},
		{"hiragana", KanjiKatakana, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q): unexpected error state: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

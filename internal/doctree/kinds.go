package doctree

// StyleKind is the emphasis applied by a Styled node.
type StyleKind int

const (
	SesameDot StyleKind = iota
	WhiteSesameDot
	BlackCircle
	WhiteCircle
	BlackTriangle
	WhiteTriangle
	Bullseye
	Fisheye
	Saltire
	UnderlineSolid
	UnderlineDouble
	UnderlineDotted
	UnderlineDashed
	UnderlineWave
	Bold
	Italic
	Subscript
	Superscript
)

var styleNames = map[string]StyleKind{
	"傍点":     SesameDot,
	"白ゴマ傍点":  WhiteSesameDot,
	"丸傍点":    BlackCircle,
	"白丸傍点":   WhiteCircle,
	"黒三角傍点":  BlackTriangle,
	"白三角傍点":  WhiteTriangle,
	"二重丸傍点":  Bullseye,
	"蛇の目傍点":  Fisheye,
	"ばつ傍点":   Saltire,
	"傍線":     UnderlineSolid,
	"二重傍線":   UnderlineDouble,
	"鎖線":     UnderlineDotted,
	"破線":     UnderlineDashed,
	"波線":     UnderlineWave,
	"太字":     Bold,
	"斜体":     Italic,
	"下付き小文字": Subscript,
	"行左小書き":  Subscript,
	"上付き小文字": Superscript,
	"行右小書き":  Superscript,
}

// StyleByName maps a command name such as "傍点" to its StyleKind.
func StyleByName(name string) (StyleKind, bool) {
	k, ok := styleNames[name]
	return k, ok
}

// Class is the CSS class used for the style in HTML output.
func (k StyleKind) Class() string {
	switch k {
	case SesameDot:
		return "sesame_dot"
	case WhiteSesameDot:
		return "white_sesame_dot"
	case BlackCircle:
		return "black_circle"
	case WhiteCircle:
		return "white_circle"
	case BlackTriangle:
		return "black_up-pointing_triangle"
	case WhiteTriangle:
		return "white_up-pointing_triangle"
	case Bullseye:
		return "bullseye"
	case Fisheye:
		return "fisheye"
	case Saltire:
		return "saltire"
	case UnderlineSolid:
		return "underline_solid"
	case UnderlineDouble:
		return "underline_double"
	case UnderlineDotted:
		return "underline_dotted"
	case UnderlineDashed:
		return "underline_dashed"
	case UnderlineWave:
		return "underline_wave"
	case Bold:
		return "futoji"
	case Italic:
		return "shatai"
	case Subscript:
		return "subscript"
	case Superscript:
		return "superscript"
	}
	return ""
}

// Tag is the HTML element used for the style.
func (k StyleKind) Tag() string {
	switch k {
	case Bold, Italic:
		return "span"
	case Subscript:
		return "sub"
	case Superscript:
		return "sup"
	}
	return "em"
}

// HeadingLevel is the size of a 見出し.
type HeadingLevel int

const (
	Large HeadingLevel = iota
	Medium
	Small
)

// HeadingStyle is the layout variant of a 見出し.
type HeadingStyle int

const (
	Normal HeadingStyle = iota
	Dogyo               // 同行
	Mado                // 窓
)

// Tag is the HTML element for the heading level.
func (l HeadingLevel) Tag() string {
	switch l {
	case Medium:
		return "h4"
	case Small:
		return "h5"
	}
	return "h3"
}

// Class is the CSS class for a heading of level l in style s.
func (l HeadingLevel) Class(s HeadingStyle) string {
	name := "o"
	switch l {
	case Medium:
		name = "naka"
	case Small:
		name = "ko"
	}
	switch s {
	case Dogyo:
		return "dogyo-" + name + "-midashi"
	case Mado:
		return "mado-" + name + "-midashi"
	}
	return name + "-midashi"
}

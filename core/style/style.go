// Package style holds the fixed look of generated guides.
//
// A Theme is a plain value: renderers and exporters receive it explicitly and never change it.
package style

import (
	"strconv"
	"strings"
)

// Color is a "#RRGGBB" hex color.
type Color string

// Hex returns the color without the leading "#".
func (c Color) Hex() string {
	return strings.TrimPrefix(string(c), "#")
}

// RGB returns the color components; malformed colors are black.
func (c Color) RGB() (r, g, b int) {
	h := c.Hex()
	if len(h) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

type Palette struct {
	PrimaryBlue Color
	HeadingBlue Color
	AccentRed   Color
	YearRed     Color
	Body        Color
	Black       Color
	Green       Color
	Orange      Color
	LightGray   Color
	White       Color

	BgInfo    Color
	BgTip     Color
	BgWarning Color
	BgNeutral Color
	BgOrange  Color

	BorderNeutral Color
	TableHeaderBg Color
	TableAltRow   Color
}

// FontSizes are in points.
type FontSizes struct {
	ChapterTitle float64
	PartHeader   float64
	Section      float64
	Concept      float64
	Subtitle     float64
	TableHeader  float64
	Body         float64
	Small        float64
	Caption      float64
	Footer       float64
}

type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// StyleName names a paragraph style; exporters declare one style per name.
type StyleName string

const (
	ChapterTitle StyleName = "ChapterTitle"
	PartHeader   StyleName = "PartHeader"
	SectionTitle StyleName = "SectionTitle"
	ConceptTitle StyleName = "ConceptTitle"
	BodyText     StyleName = "BodyText"
	HeaderText   StyleName = "HeaderText"
	Question     StyleName = "Question"
	Answer       StyleName = "Answer"
	MemoryTrick  StyleName = "MemoryTrick"
	Caption      StyleName = "Caption"
	FooterText   StyleName = "FooterText"
)

// StyleNames lists every paragraph style in declaration order.
var StyleNames = []StyleName{
	ChapterTitle, PartHeader, SectionTitle, ConceptTitle, BodyText,
	HeaderText, Question, Answer, MemoryTrick, Caption, FooterText,
}

// TextStyle describes a paragraph style. Spacing is in points.
type TextStyle struct {
	Name        StyleName
	Size        float64
	Bold        bool
	Italic      bool
	Color       Color
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
}

type BoxKind string

const (
	BoxInfo       BoxKind = "info"
	BoxTip        BoxKind = "tip"
	BoxWarning    BoxKind = "warning"
	BoxNeutral    BoxKind = "neutral"
	BoxDidYouKnow BoxKind = "didyouknow"
)

type BoxStyle struct {
	Background Color
	Border     Color
	Title      Color
	Icon       string
}

// Icons are BMP symbols every backend font can show.
type Icons struct {
	Important string
	Tip       string
	Target    string
	Warning   string
	Correct   string
	Wrong     string
	Book      string
	Chart     string
	Calendar  string
	Pencil    string
	Clock     string
	Checklist string
	Star      string
}

// PageSize dimensions are in inches.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

type Theme struct {
	Font        string
	Colors      Palette
	Sizes       FontSizes
	Icons       Icons
	Margin      float64 // inches, all sides
	HeaderSpace float64 // inches between page edge and header/footer
	BoxPadding  float64 // inches
}

// Default returns the guide book theme.
func Default() Theme {
	return Theme{
		Font: "Arial",
		Colors: Palette{
			PrimaryBlue:   "#1E40AF",
			HeadingBlue:   "#2563EB",
			AccentRed:     "#B91C1C",
			YearRed:       "#DC2626",
			Body:          "#374151",
			Black:         "#000000",
			Green:         "#059669",
			Orange:        "#D97706",
			LightGray:     "#6B7280",
			White:         "#FFFFFF",
			BgInfo:        "#EFF6FF",
			BgTip:         "#F0FDF4",
			BgWarning:     "#FEF2F2",
			BgNeutral:     "#F9FAFB",
			BgOrange:      "#FFF7ED",
			BorderNeutral: "#E5E7EB",
			TableHeaderBg: "#DBEAFE",
			TableAltRow:   "#F9FAFB",
		},
		Sizes: FontSizes{
			ChapterTitle: 24,
			PartHeader:   16,
			Section:      14,
			Concept:      12,
			Subtitle:     12,
			TableHeader:  11,
			Body:         11,
			Small:        10,
			Caption:      9,
			Footer:       8,
		},
		Icons: Icons{
			Important: "▸",
			Tip:       "★",
			Target:    "◎",
			Warning:   "⚠",
			Correct:   "✓",
			Wrong:     "✗",
			Book:      "■",
			Chart:     "■",
			Calendar:  "■",
			Pencil:    "■",
			Clock:     "○",
			Checklist: "☐",
			Star:      "★",
		},
		Margin:      0.59,
		HeaderSpace: 0.5,
		BoxPadding:  0.15,
	}
}

// Text returns the named paragraph style, BodyText for unknown names.
func (t Theme) Text(name StyleName) TextStyle {
	c, s := t.Colors, t.Sizes
	switch name {
	case ChapterTitle:
		return TextStyle{Name: name, Size: s.ChapterTitle, Bold: true, Color: c.PrimaryBlue, Align: AlignCenter, SpaceBefore: 3, SpaceAfter: 3}
	case PartHeader:
		return TextStyle{Name: name, Size: s.PartHeader, Bold: true, Color: c.PrimaryBlue, Align: AlignLeft, SpaceBefore: 10, SpaceAfter: 3}
	case SectionTitle:
		return TextStyle{Name: name, Size: s.Section, Bold: true, Color: c.HeadingBlue, Align: AlignLeft, SpaceBefore: 6, SpaceAfter: 3}
	case ConceptTitle:
		return TextStyle{Name: name, Size: s.Concept, Bold: true, Color: c.HeadingBlue, Align: AlignLeft, SpaceBefore: 6, SpaceAfter: 3}
	case HeaderText:
		return TextStyle{Name: name, Size: s.Section, Color: c.Body, Align: AlignCenter, SpaceAfter: 3}
	case Question:
		return TextStyle{Name: name, Size: s.Body, Bold: true, Color: c.Black, Align: AlignLeft, SpaceBefore: 3, SpaceAfter: 3}
	case Answer:
		return TextStyle{Name: name, Size: s.Body, Color: c.Body, Align: AlignLeft, SpaceBefore: 3, SpaceAfter: 3}
	case MemoryTrick:
		return TextStyle{Name: name, Size: s.Small, Italic: true, Color: c.Green, Align: AlignLeft, SpaceBefore: 3}
	case Caption:
		return TextStyle{Name: name, Size: s.Caption, Italic: true, Color: c.LightGray, Align: AlignCenter, SpaceAfter: 3}
	case FooterText:
		return TextStyle{Name: name, Size: s.Footer, Color: c.LightGray, Align: AlignCenter}
	default:
		return TextStyle{Name: BodyText, Size: s.Body, Color: c.Black, Align: AlignLeft, SpaceBefore: 3, SpaceAfter: 3}
	}
}

// Box returns the styling of a box kind, the neutral box for unknown kinds.
func (t Theme) Box(kind BoxKind) BoxStyle {
	c := t.Colors
	switch kind {
	case BoxInfo:
		return BoxStyle{Background: c.BgInfo, Border: c.PrimaryBlue, Title: c.PrimaryBlue, Icon: t.Icons.Important}
	case BoxTip:
		return BoxStyle{Background: c.BgTip, Border: c.Green, Title: c.Green, Icon: t.Icons.Tip}
	case BoxWarning:
		return BoxStyle{Background: c.BgWarning, Border: c.AccentRed, Title: c.AccentRed, Icon: t.Icons.Warning}
	case BoxDidYouKnow:
		return BoxStyle{Background: c.BgOrange, Border: c.Orange, Title: c.Orange, Icon: "?"}
	default:
		return BoxStyle{Background: c.BgNeutral, Border: c.BorderNeutral, Title: c.Body}
	}
}

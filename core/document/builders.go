package document

import "github.com/trezcool/guidebook/core/style"

// Builders keep renderers short.

func Plain(text string) Run {
	return Run{Text: text}
}

func Bold(text string, color style.Color) Run {
	return Run{Text: text, Bold: true, Color: color}
}

func Italic(text string, color style.Color) Run {
	return Run{Text: text, Italic: true, Color: color}
}

func Colored(text string, color style.Color) Run {
	return Run{Text: text, Color: color}
}

// P returns a paragraph of the given style.
func P(name style.StyleName, runs ...Run) *Paragraph {
	return &Paragraph{Style: name, Runs: runs}
}

// Body returns a BodyText paragraph.
func Body(runs ...Run) *Paragraph {
	return P(style.BodyText, runs...)
}

// Centered returns a centered BodyText paragraph.
func Centered(runs ...Run) *Paragraph {
	return &Paragraph{Style: style.BodyText, Align: style.AlignCenter, Runs: runs}
}

// Indented returns a BodyText paragraph indented by `in` inches.
func Indented(in float64, runs ...Run) *Paragraph {
	return &Paragraph{Style: style.BodyText, Indent: in, Runs: runs}
}

func NewBox(kind style.BoxKind, blocks ...Block) *Box {
	return &Box{Kind: kind, Blocks: blocks}
}

// NewSideBox returns a box with a left border only.
func NewSideBox(kind style.BoxKind, blocks ...Block) *Box {
	return &Box{Kind: kind, LeftBorder: true, Blocks: blocks}
}

// TextCell returns a cell holding one paragraph.
func TextCell(align style.Align, runs ...Run) Cell {
	return Cell{Blocks: []Block{&Paragraph{Style: style.BodyText, Align: align, Runs: runs}}}
}

// WithBackground returns a copy of the cell with a background.
func (c Cell) WithBackground(bg style.Color) Cell {
	c.Background = bg
	return c
}

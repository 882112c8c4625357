// Package document is the format independent representation of a generated guide.
//
// Renderers produce blocks, exporters (DOCX, HTML, PDF) consume them. Blocks only refer to
// named styles and theme colors so every exporter lays the same guide out the same way.
package document

import (
	"strings"

	"github.com/trezcool/guidebook/core/style"
)

// Block is one of Paragraph, Box, Table, Image, Rule or PageBreak.
type Block interface {
	block()
}

// Run is a piece of text with its own formatting. Zero values inherit from the paragraph style.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Color  style.Color
	Size   float64
}

type (
	Paragraph struct {
		Style  style.StyleName
		Align  style.Align // empty: the style alignment
		Indent float64     // inches
		Bullet bool
		Runs   []Run
	}

	// Box is a shaded frame around blocks: alerts, tips, notices.
	Box struct {
		Kind       style.BoxKind
		LeftBorder bool // only the left edge is drawn
		Background style.Color
		Blocks     []Block
	}

	Table struct {
		Widths []float64 // relative column widths; empty means equal
		Header []Cell
		Rows   [][]Cell
		Border style.Color
	}

	Cell struct {
		Background style.Color
		Blocks     []Block
	}

	// Image holds encoded PNG or JPEG bytes. Width and Height are the displayed size in inches.
	Image struct {
		Name     string
		Data     []byte
		Format   string // png | jpeg
		PxWidth  int
		PxHeight int
		Width    float64
		Height   float64
		Align    style.Align
	}

	// Rule is a horizontal line.
	Rule struct {
		Color style.Color
		Short bool
	}

	PageBreak struct{}
)

func (*Paragraph) block() {}
func (*Box) block()       {}
func (*Table) block()     {}
func (*Image) block()     {}
func (*Rule) block()      {}
func (*PageBreak) block() {}

// Section is the output of one renderer: the cover or a part.
type Section struct {
	ID     string // "cover", "A".."G" or a custom part id
	Title  string
	Blocks []Block
}

// PageSetup applies to every page of the document.
type PageSetup struct {
	Size        style.PageSize
	Margin      float64 // inches
	HeaderSpace float64 // inches
	Numbering   bool
	NumberAlign style.Align
}

// Document is an assembled guide, ready to export.
type Document struct {
	Title    string
	Header   string // running header
	Page     PageSetup
	Theme    style.Theme
	Sections []Section
}

// Blocks returns the blocks of every section, in order.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, sec := range d.Sections {
		blocks = append(blocks, sec.Blocks...)
	}
	return blocks
}

// Images returns every image of the document in reading order, nested ones included.
func (d *Document) Images() []*Image {
	var imgs []*Image
	Walk(d.Blocks(), func(b Block) {
		if img, ok := b.(*Image); ok {
			imgs = append(imgs, img)
		}
	})
	return imgs
}

// Walk calls fn for every block, depth first, descending into boxes and table cells.
func Walk(blocks []Block, fn func(Block)) {
	for _, b := range blocks {
		fn(b)
		switch b := b.(type) {
		case *Box:
			Walk(b.Blocks, fn)
		case *Table:
			for _, c := range b.Header {
				Walk(c.Blocks, fn)
			}
			for _, row := range b.Rows {
				for _, c := range row {
					Walk(c.Blocks, fn)
				}
			}
		}
	}
}

// Sized returns a copy of the image displayed `width` inches wide, keeping its aspect ratio.
func (img Image) Sized(width float64) *Image {
	img.Width = width
	img.Height = width * 0.75
	if img.PxWidth > 0 && img.PxHeight > 0 {
		img.Height = width * float64(img.PxHeight) / float64(img.PxWidth)
	}
	return &img
}

// Text returns the plain text of the runs.
func Text(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

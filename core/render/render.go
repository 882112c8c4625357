// Package render turns a chapter into document blocks.
//
// Renderers are pure: the same chapter, theme and assets always give the same blocks. Anything
// optional that is missing (an image that was never uploaded, a QR code that cannot be encoded)
// is left out of the output.
package render

import (
	"fmt"
	"strings"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/markup"
	"github.com/trezcool/guidebook/core/style"
)

// Assets are the inputs renderers cannot compute from the chapter itself.
type Assets struct {
	Images map[string]document.Image // uploaded images by stored name
	QR     func(content string) ([]byte, error)
}

func (a Assets) image(name string, width float64) (*document.Image, bool) {
	if name == "" {
		return nil, false
	}
	img, ok := a.Images[name]
	if !ok || len(img.Data) == 0 {
		return nil, false
	}
	sized := img.Sized(width)
	sized.Align = style.AlignCenter
	return sized, true
}

func (a Assets) qr(url string) ([]byte, bool) {
	if url == "" || a.QR == nil {
		return nil, false
	}
	png, err := a.QR(url)
	if err != nil || len(png) == 0 {
		return nil, false
	}
	return png, true
}

// ImageNames lists the uploaded images a chapter refers to, in document order.
func ImageNames(doc chapter.ChapterDocument) []string {
	var names []string
	add := func(n string) {
		if n != "" {
			names = append(names, n)
		}
	}
	add(doc.PartE.MapImage)
	for _, g := range doc.PartE.Graphs {
		add(g.Image)
	}
	for _, l := range doc.PartE.LabActivities {
		add(l.Diagram)
	}
	return names
}

type renderer struct {
	doc chapter.ChapterDocument
	t   style.Theme
	a   Assets
}

// runs converts inline markup to runs. Highlighted years are bold and red.
func (r renderer) runs(text string, years bool) []document.Run {
	return r.spanRuns(markup.Inline(text), years)
}

func (r renderer) spanRuns(spans []markup.Span, years bool) []document.Run {
	if years {
		spans = markup.HighlightYears(spans)
	}
	runs := make([]document.Run, 0, len(spans))
	for _, sp := range spans {
		run := document.Run{Text: sp.Text, Bold: sp.Bold, Italic: sp.Italic}
		if sp.Year {
			run.Color = r.t.Colors.YearRed
		}
		runs = append(runs, run)
	}
	return runs
}

// lines renders a multi-line field, one paragraph per line; bullets are indented.
func (r renderer) lines(name style.StyleName, text string, years bool) []document.Block {
	var blocks []document.Block
	for _, l := range markup.Parse(text) {
		p := &document.Paragraph{Style: name, Runs: r.spanRuns(l.Spans, years)}
		if l.Bullet {
			p.Bullet = true
			p.Indent = 0.25
		}
		blocks = append(blocks, p)
	}
	return blocks
}

// bullets renders every non-blank line as a bullet.
func (r renderer) bullets(items []string, indent float64) []document.Block {
	var blocks []document.Block
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		blocks = append(blocks, &document.Paragraph{
			Style:  style.BodyText,
			Indent: indent,
			Bullet: true,
			Runs:   r.runs(it, false),
		})
	}
	return blocks
}

// numbered renders items as "1. item" paragraphs.
func (r renderer) numbered(items []string, color style.Color) []document.Block {
	var blocks []document.Block
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		n++
		runs := append([]document.Run{document.Bold(fmt.Sprintf("%d. ", n), color)}, r.runs(it, false)...)
		blocks = append(blocks, document.Indented(0.25, runs...))
	}
	return blocks
}

func (r renderer) partHeader(title string) document.Block {
	return document.NewBox(style.BoxNeutral, document.P(style.PartHeader, document.Bold(title, r.t.Colors.PrimaryBlue)))
}

func (r renderer) sectionTitle(title string, color style.Color) document.Block {
	if color == "" {
		color = r.t.Colors.HeadingBlue
	}
	return document.P(style.SectionTitle, document.Bold(title, color))
}

// label is a bold line introducing a list, e.g. "Key Points:".
func (r renderer) label(text string, color style.Color) document.Block {
	return document.Body(document.Bold(text, color))
}

// notice is a centered italic placeholder.
func (r renderer) notice(text string) document.Block {
	b := document.NewBox(style.BoxNeutral, document.Centered(document.Italic(text, r.t.Colors.LightGray)))
	b.Background = r.t.Colors.TableHeaderBg
	return b
}

func (r renderer) headerCells(bg style.Color, color style.Color, titles ...string) []document.Cell {
	cells := make([]document.Cell, 0, len(titles))
	for _, title := range titles {
		cells = append(cells, document.TextCell(style.AlignCenter, document.Bold(title, color)).WithBackground(bg))
	}
	return cells
}

// altRow returns the background of the i-th (0 based) data row of a striped table.
func (r renderer) altRow(i int) style.Color {
	if i%2 == 1 {
		return r.t.Colors.TableAltRow
	}
	return ""
}

func (r renderer) timeline(events []chapter.DatedEvent) *document.Table {
	tbl := &document.Table{Widths: []float64{1, 5.5}, Border: r.t.Colors.BorderNeutral}
	for i, ev := range events {
		tbl.Rows = append(tbl.Rows, []document.Cell{
			document.TextCell(style.AlignCenter, document.Bold(ev.Year, r.t.Colors.PrimaryBlue)).WithBackground(r.t.Colors.TableHeaderBg),
			document.TextCell("", r.runs(ev.Event, true)...).WithBackground(r.altRow(i)),
		})
	}
	return tbl
}

// roman returns the lower case roman numeral of n (1-399).
func roman(n int) string {
	numerals := []struct {
		v int
		s string
	}{{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"}, {10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"}}
	var s string
	for _, num := range numerals {
		for n >= num.v {
			s += num.s
			n -= num.v
		}
	}
	return s
}

package docxsvc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

const (
	twipsPerInch = 1440
	emuPerInch   = 914400

	nsDocument = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`
)

type media struct {
	id     string
	target string // relative to word/
	data   []byte
}

// bodyWriter accumulates the body of word/document.xml and the images it refers to.
type bodyWriter struct {
	b      bytes.Buffer
	doc    *document.Document
	width  int // text width, twips
	media  []media
	byName map[string]string // image name -> relationship id
	shapes int
}

func newBodyWriter(d *document.Document) *bodyWriter {
	return &bodyWriter{
		doc:    d,
		width:  twips(d.Page.Size.Width - 2*d.Page.Margin),
		byName: make(map[string]string),
	}
}

func twips(in float64) int { return int(in*twipsPerInch + 0.5) }
func emu(in float64) int   { return int(in*emuPerInch + 0.5) }

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func jc(a style.Align) string {
	if a == style.AlignJustify {
		return "both"
	}
	return string(a)
}

func (w *bodyWriter) documentXML() []byte {
	var out bytes.Buffer
	pg := w.doc.Page
	margin := twips(pg.Margin)
	out.WriteString(xml.Header)
	out.WriteString(`<w:document ` + nsDocument + `><w:body>`)
	out.Write(w.b.Bytes())
	fmt.Fprintf(&out, `<w:sectPr>`+
		`<w:headerReference w:type="default" r:id="rIdHeader"/>`+
		`<w:footerReference w:type="default" r:id="rIdFooter"/>`+
		`<w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`+
		`</w:sectPr>`,
		twips(pg.Size.Width), twips(pg.Size.Height),
		margin, margin, margin, margin, twips(pg.HeaderSpace), twips(pg.HeaderSpace))
	out.WriteString(`</w:body></w:document>`)
	return out.Bytes()
}

func (w *bodyWriter) block(b document.Block) {
	switch b := b.(type) {
	case *document.Paragraph:
		w.paragraph(b)
	case *document.Box:
		w.box(b)
		w.spacer()
	case *document.Table:
		w.table(b)
		w.spacer()
	case *document.Image:
		w.image(b)
	case *document.Rule:
		w.rule(b)
	case *document.PageBreak:
		w.b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
	}
}

// spacer separates a table from the next one.
func (w *bodyWriter) spacer() {
	w.b.WriteString(`<w:p><w:pPr><w:spacing w:before="0" w:after="0" w:line="120" w:lineRule="exact"/></w:pPr></w:p>`)
}

func (w *bodyWriter) paragraph(p *document.Paragraph) {
	w.b.WriteString(`<w:p><w:pPr>`)
	fmt.Fprintf(&w.b, `<w:pStyle w:val="%s"/>`, p.Style)
	if p.Indent > 0 {
		if p.Bullet {
			fmt.Fprintf(&w.b, `<w:ind w:left="%d" w:hanging="%d"/>`, twips(p.Indent+0.15), twips(0.15))
		} else {
			fmt.Fprintf(&w.b, `<w:ind w:left="%d"/>`, twips(p.Indent))
		}
	}
	if p.Align != "" {
		fmt.Fprintf(&w.b, `<w:jc w:val="%s"/>`, jc(p.Align))
	}
	w.b.WriteString(`</w:pPr>`)
	if p.Bullet {
		w.run(document.Run{Text: "•\t"})
	}
	for _, r := range p.Runs {
		w.run(r)
	}
	w.b.WriteString(`</w:p>`)
}

func (w *bodyWriter) run(r document.Run) {
	if r.Text == "" {
		return
	}
	w.b.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Color != "" || r.Size > 0 {
		w.b.WriteString(`<w:rPr>`)
		if r.Bold {
			w.b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			w.b.WriteString(`<w:i/>`)
		}
		if r.Color != "" {
			fmt.Fprintf(&w.b, `<w:color w:val="%s"/>`, r.Color.Hex())
		}
		if r.Size > 0 {
			fmt.Fprintf(&w.b, `<w:sz w:val="%d"/>`, int(r.Size*2))
		}
		w.b.WriteString(`</w:rPr>`)
	}
	for i, part := range strings.Split(r.Text, "\t") {
		if i > 0 {
			w.b.WriteString(`<w:tab/>`)
		}
		if part != "" {
			fmt.Fprintf(&w.b, `<w:t xml:space="preserve">%s</w:t>`, esc(part))
		}
	}
	w.b.WriteString(`</w:r>`)
}

func border(side string, color style.Color, size int) string {
	if color == "" {
		return fmt.Sprintf(`<w:%s w:val="nil"/>`, side)
	}
	return fmt.Sprintf(`<w:%s w:val="single" w:sz="%d" w:space="0" w:color="%s"/>`, side, size, color.Hex())
}

// box is written as a one cell table.
func (w *bodyWriter) box(bx *document.Box) {
	st := w.doc.Theme.Box(bx.Kind)
	bg := st.Background
	if bx.Background != "" {
		bg = bx.Background
	}
	pad := twips(w.doc.Theme.BoxPadding)

	w.b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(&w.b, `<w:tblW w:w="%d" w:type="dxa"/><w:tblLayout w:type="fixed"/>`, w.width)
	w.b.WriteString(`<w:tblBorders>`)
	if bx.LeftBorder {
		w.b.WriteString(border("top", "", 0) + border("left", st.Border, 24) + border("bottom", "", 0) + border("right", "", 0))
	} else {
		for _, side := range []string{"top", "left", "bottom", "right"} {
			w.b.WriteString(border(side, st.Border, 8))
		}
	}
	w.b.WriteString(`</w:tblBorders>`)
	fmt.Fprintf(&w.b, `<w:tblCellMar><w:top w:w="%[1]d" w:type="dxa"/><w:left w:w="%[1]d" w:type="dxa"/>`+
		`<w:bottom w:w="%[1]d" w:type="dxa"/><w:right w:w="%[1]d" w:type="dxa"/></w:tblCellMar>`, pad)
	w.b.WriteString(`</w:tblPr>`)
	fmt.Fprintf(&w.b, `<w:tblGrid><w:gridCol w:w="%d"/></w:tblGrid><w:tr>`, w.width)
	w.cell(document.Cell{Background: bg, Blocks: bx.Blocks}, w.width)
	w.b.WriteString(`</w:tr></w:tbl>`)
}

func columns(t *document.Table) int {
	n := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// colWidths spreads the text width over the columns following the relative widths.
func colWidths(t *document.Table, n, total int) []int {
	widths := make([]int, n)
	var sum float64
	if len(t.Widths) == n {
		for _, w := range t.Widths {
			sum += w
		}
	}
	for i := range widths {
		if sum > 0 {
			widths[i] = int(float64(total) * t.Widths[i] / sum)
		} else {
			widths[i] = total / n
		}
	}
	return widths
}

func (w *bodyWriter) table(t *document.Table) {
	n := columns(t)
	if n == 0 {
		return
	}
	widths := colWidths(t, n, w.width)
	border := t.Border
	if border == "" {
		border = w.doc.Theme.Colors.BorderNeutral
	}

	w.b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(&w.b, `<w:tblW w:w="%d" w:type="dxa"/><w:tblLayout w:type="fixed"/><w:tblBorders>`, w.width)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&w.b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="%s"/>`, side, border.Hex())
	}
	w.b.WriteString(`</w:tblBorders><w:tblCellMar><w:left w:w="80" w:type="dxa"/><w:right w:w="80" w:type="dxa"/></w:tblCellMar></w:tblPr><w:tblGrid>`)
	for _, cw := range widths {
		fmt.Fprintf(&w.b, `<w:gridCol w:w="%d"/>`, cw)
	}
	w.b.WriteString(`</w:tblGrid>`)

	if len(t.Header) > 0 {
		w.b.WriteString(`<w:tr><w:trPr><w:tblHeader/></w:trPr>`)
		w.cells(t.Header, widths)
		w.b.WriteString(`</w:tr>`)
	}
	for _, row := range t.Rows {
		w.b.WriteString(`<w:tr><w:trPr><w:cantSplit/></w:trPr>`)
		w.cells(row, widths)
		w.b.WriteString(`</w:tr>`)
	}
	w.b.WriteString(`</w:tbl>`)
}

func (w *bodyWriter) cells(cells []document.Cell, widths []int) {
	for i, cw := range widths {
		var c document.Cell
		if i < len(cells) {
			c = cells[i]
		}
		w.cell(c, cw)
	}
}

func (w *bodyWriter) cell(c document.Cell, width int) {
	w.b.WriteString(`<w:tc><w:tcPr>`)
	fmt.Fprintf(&w.b, `<w:tcW w:w="%d" w:type="dxa"/>`, width)
	if c.Background != "" {
		fmt.Fprintf(&w.b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, c.Background.Hex())
	}
	w.b.WriteString(`</w:tcPr>`)

	// a cell must end with a paragraph
	var endsWithParagraph bool
	for _, b := range c.Blocks {
		w.block(b)
		_, endsWithParagraph = b.(*document.Paragraph)
	}
	if !endsWithParagraph {
		w.b.WriteString(`<w:p/>`)
	}
	w.b.WriteString(`</w:tc>`)
}

func (w *bodyWriter) rule(r *document.Rule) {
	w.b.WriteString(`<w:p><w:pPr>`)
	fmt.Fprintf(&w.b, `<w:pBdr><w:bottom w:val="single" w:sz="%d" w:space="1" w:color="%s"/></w:pBdr>`, 8, r.Color.Hex())
	if r.Short {
		side := w.width / 3
		fmt.Fprintf(&w.b, `<w:ind w:left="%d" w:right="%d"/>`, side, side)
	}
	w.b.WriteString(`<w:spacing w:before="0" w:after="60"/></w:pPr></w:p>`)
}

// relationship returns the relationship id of an image, adding it to the package on first use.
func (w *bodyWriter) relationship(img *document.Image) string {
	if img.Name != "" {
		if id, ok := w.byName[img.Name]; ok {
			return id
		}
	}
	ext := "png"
	if img.Format == "jpeg" || img.Format == "jpg" {
		ext = "jpeg"
	}
	n := len(w.media) + 1
	m := media{id: fmt.Sprintf("rIdImage%d", n), target: fmt.Sprintf("media/image%d.%s", n, ext), data: img.Data}
	w.media = append(w.media, m)
	if img.Name != "" {
		w.byName[img.Name] = m.id
	}
	return m.id
}

func (w *bodyWriter) image(img *document.Image) {
	if len(img.Data) == 0 || img.Width <= 0 {
		return
	}
	id := w.relationship(img)
	w.shapes++
	cx, cy := emu(img.Width), emu(img.Height)

	w.b.WriteString(`<w:p><w:pPr><w:pStyle w:val="BodyText"/>`)
	if img.Align != "" {
		fmt.Fprintf(&w.b, `<w:jc w:val="%s"/>`, jc(img.Align))
	}
	w.b.WriteString(`</w:pPr><w:r><w:drawing>`)
	fmt.Fprintf(&w.b, `<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/>`+
		`<wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%[3]d" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline>`,
		cx, cy, w.shapes, esc(img.Name), id)
	w.b.WriteString(`</w:drawing></w:r></w:p>`)
}

package pdfsvc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/trezcool/guidebook/core/style"
)

const (
	lineSpacing = 1.25
	cellPadding = 0.05 // inches
	ruleSpace   = 0.12 // inches
	imageSpace  = 0.08 // inches
)

// layout flows items down the pages of a gofpdf document. Coordinates are in inches.
type layout struct {
	pdf    *gofpdf.Fpdf
	theme  style.Theme
	family string
	tr     func(string) string

	top, bottom float64 // content limits of every page
	y           float64
	fresh       bool // nothing drawn on the current page yet
	images      map[string]string
}

// piece is a word or a space of a paragraph line.
type piece struct {
	span
	width float64
	space bool
}

type line struct {
	pieces []piece
	width  float64
	height float64
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = l.top
	l.fresh = true
}

// reserve starts a new page when h does not fit in what is left of the current one.
func (l *layout) reserve(h float64) {
	if l.y+h > l.bottom && !l.fresh {
		l.newPage()
	}
}

func (l *layout) setFont(sp span, ts style.TextStyle) float64 {
	size := ts.Size
	if sp.size > 0 {
		size = sp.size
	}
	var st string
	if sp.bold || ts.Bold {
		st += "B"
	}
	if sp.italic || ts.Italic {
		st += "I"
	}
	l.pdf.SetFont(l.family, st, size)
	return size
}

func (l *layout) setTextColor(c style.Color) {
	r, g, b := c.RGB()
	l.pdf.SetTextColor(r, g, b)
}

// tokens splits spans into words and single spaces; new lines are kept as their own token.
func tokens(spans []span) []piece {
	var out []piece
	for _, sp := range spans {
		var word strings.Builder
		flush := func() {
			if word.Len() > 0 {
				p := piece{span: sp}
				p.text = word.String()
				out = append(out, p)
				word.Reset()
			}
		}
		for _, r := range sp.text {
			switch {
			case r == '\n':
				flush()
				p := piece{span: sp}
				p.text = "\n"
				out = append(out, p)
			case unicode.IsSpace(r):
				flush()
				p := piece{span: sp, space: true}
				p.text = " "
				out = append(out, p)
			default:
				word.WriteRune(r)
			}
		}
		flush()
	}
	return out
}

// wrap breaks a paragraph into lines no wider than width.
func (l *layout) wrap(p para, width float64) []line {
	var (
		lines   []line
		cur     line
		pending *piece // space waiting for the next word
	)
	finish := func() {
		if cur.height == 0 {
			cur.height = p.ts.Size / 72 * lineSpacing
		}
		lines = append(lines, cur)
		cur, pending = line{}, nil
	}

	for _, tok := range tokens(p.spans) {
		if tok.text == "\n" {
			finish()
			continue
		}
		size := l.setFont(tok.span, p.ts)
		tok.width = l.pdf.GetStringWidth(l.tr(tok.text))
		if tok.space {
			if len(cur.pieces) > 0 {
				t := tok
				pending = &t
			}
			continue
		}

		extra := tok.width
		if pending != nil {
			extra += pending.width
		}
		if len(cur.pieces) > 0 && cur.width+extra > width {
			finish()
		} else if pending != nil {
			cur.pieces = append(cur.pieces, *pending)
			cur.width += pending.width
		}
		pending = nil
		cur.pieces = append(cur.pieces, tok)
		cur.width += tok.width
		if h := size / 72 * lineSpacing; h > cur.height {
			cur.height = h
		}
	}
	if len(cur.pieces) > 0 || len(lines) == 0 {
		finish()
	}
	return lines
}

func (l *layout) height(items []item, width float64) float64 {
	var h float64
	for _, it := range items {
		h += l.itemHeight(it, width)
	}
	return h
}

func (l *layout) itemHeight(it item, width float64) float64 {
	switch it := it.(type) {
	case para:
		h := (it.ts.SpaceBefore + it.ts.SpaceAfter) / 72
		for _, ln := range l.wrap(it, width-it.indent) {
			h += ln.height
		}
		return h
	case box:
		pad := l.theme.BoxPadding
		return 2*pad + l.height(it.children, width-2*pad) + imageSpace
	case table:
		widths := columnWidths(it, width)
		var h float64
		if len(it.header) > 0 {
			h += l.rowHeight(it.header, widths)
		}
		for _, row := range it.rows {
			h += l.rowHeight(row, widths)
		}
		return h + imageSpace
	case picture:
		_, h := fit(it, width)
		return h + imageSpace
	case rule:
		return ruleSpace
	}
	return 0
}

func fit(p picture, width float64) (float64, float64) {
	if p.width <= width {
		return p.width, p.height
	}
	return width, p.height * width / p.width
}

func columns(t table) int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func columnWidths(t table, width float64) []float64 {
	n := columns(t)
	widths := make([]float64, n)
	first := t.header
	if len(first) == 0 && len(t.rows) > 0 {
		first = t.rows[0]
	}
	var sum float64
	for i := 0; i < n && i < len(first); i++ {
		sum += first[i].width
	}
	for i := range widths {
		if sum > 0 && i < len(first) {
			widths[i] = width * first[i].width / sum
		} else {
			widths[i] = width / float64(n)
		}
	}
	return widths
}

func (l *layout) rowHeight(row []tcell, widths []float64) float64 {
	var h float64
	for i, w := range widths {
		if i >= len(row) {
			break
		}
		if ch := 2*cellPadding + l.height(row[i].children, w-2*cellPadding); ch > h {
			h = ch
		}
	}
	if h == 0 {
		h = 2*cellPadding + l.theme.Sizes.Body/72*lineSpacing
	}
	return h
}

func (l *layout) draw(items []item, x, width float64) {
	for _, it := range items {
		switch it := it.(type) {
		case para:
			l.drawParagraph(it, x, width)
		case box:
			l.drawBox(it, x, width)
		case table:
			l.drawTable(it, x, width)
		case picture:
			l.drawPicture(it, x, width)
		case rule:
			l.drawRule(it, x, width)
		case pageBreak:
			if !l.fresh {
				l.newPage()
			}
		}
	}
}

func (l *layout) drawParagraph(p para, x, width float64) {
	x += p.indent
	width -= p.indent
	l.y += p.ts.SpaceBefore / 72

	for _, ln := range l.wrap(p, width) {
		l.reserve(ln.height)
		cx := x
		switch p.align {
		case style.AlignCenter:
			cx += (width - ln.width) / 2
		case style.AlignRight:
			cx += width - ln.width
		}
		for _, pc := range ln.pieces {
			l.setFont(pc.span, p.ts)
			color := p.ts.Color
			if pc.color != "" {
				color = pc.color
			}
			l.setTextColor(color)
			l.pdf.SetXY(cx, l.y)
			l.pdf.CellFormat(pc.width, ln.height, l.tr(pc.text), "", 0, "L", false, 0, "")
			cx += pc.width
		}
		l.y += ln.height
		l.fresh = false
	}
	l.y += p.ts.SpaceAfter / 72
}

func (l *layout) fill(c style.Color) bool {
	if c == "" {
		return false
	}
	r, g, b := c.RGB()
	l.pdf.SetFillColor(r, g, b)
	return true
}

func (l *layout) drawColor(c style.Color) {
	if c == "" {
		c = l.theme.Colors.BorderNeutral
	}
	r, g, b := c.RGB()
	l.pdf.SetDrawColor(r, g, b)
}

func (l *layout) drawBox(b box, x, width float64) {
	pad := l.theme.BoxPadding
	h := l.itemHeight(b, width) - imageSpace

	// boxes taller than a page are flowed without their frame
	if h > l.bottom-l.top {
		l.draw(b.children, x+pad, width-2*pad)
		return
	}
	l.reserve(h)

	top := l.y
	if l.fill(b.bg) {
		l.pdf.Rect(x, top, width, h, "F")
	}
	l.drawColor(b.border)
	if b.left {
		l.pdf.SetLineWidth(3.0 / 72)
		l.pdf.Line(x, top, x, top+h)
	} else {
		l.pdf.SetLineWidth(1.0 / 72)
		l.pdf.Rect(x, top, width, h, "D")
	}
	l.pdf.SetLineWidth(0.5 / 72)

	l.y = top + pad
	l.fresh = false
	l.draw(b.children, x+pad, width-2*pad)
	l.y = top + h + imageSpace
}

func (l *layout) drawTable(t table, x, width float64) {
	widths := columnWidths(t, width)
	if len(widths) == 0 {
		return
	}
	drawRow := func(row []tcell) {
		h := l.rowHeight(row, widths)
		l.reserve(h)
		top, cx := l.y, x
		for i, w := range widths {
			var c tcell
			if i < len(row) {
				c = row[i]
			}
			mode := "D"
			if l.fill(c.bg) {
				mode = "FD"
			}
			l.drawColor("")
			l.pdf.SetLineWidth(0.5 / 72)
			l.pdf.Rect(cx, top, w, h, mode)

			l.y = top + cellPadding
			l.fresh = false
			l.draw(c.children, cx+cellPadding, w-2*cellPadding)
			cx += w
		}
		l.y = top + h
	}

	if len(t.header) > 0 {
		drawRow(t.header)
	}
	for _, row := range t.rows {
		drawRow(row)
	}
	l.y += imageSpace
}

func (l *layout) drawPicture(p picture, x, width float64) {
	name, typ, ok := l.register(p.src)
	if !ok {
		return
	}
	w, h := fit(p, width)
	l.reserve(h + imageSpace)
	switch p.align {
	case style.AlignCenter:
		x += (width - w) / 2
	case style.AlignRight:
		x += width - w
	}
	l.pdf.ImageOptions(name, x, l.y, w, h, false, gofpdf.ImageOptions{ImageType: typ}, 0, "")
	l.y += h + imageSpace
	l.fresh = false
}

// register decodes a data URI image once; images that do not decode are skipped.
func (l *layout) register(src string) (string, string, bool) {
	typ := "PNG"
	if strings.HasPrefix(src, "data:image/jpeg") {
		typ = "JPG"
	}
	if name, ok := l.images[src]; ok {
		return name, typ, name != ""
	}

	var data []byte
	i := strings.Index(src, ",")
	if i >= 0 {
		data, _ = base64.StdEncoding.DecodeString(src[i+1:])
	}
	if len(data) == 0 {
		l.images[src] = ""
		return "", "", false
	}
	name := fmt.Sprintf("image%d", len(l.images)+1)
	info := l.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(data))
	if info == nil || l.pdf.Err() {
		l.pdf.ClearError()
		l.images[src] = ""
		return "", "", false
	}
	l.images[src] = name
	return name, typ, true
}

func (l *layout) drawRule(r rule, x, width float64) {
	l.reserve(ruleSpace)
	y := l.y + ruleSpace/2
	x1, x2 := x, x+width
	if r.short {
		x1, x2 = x+width/3, x+2*width/3
	}
	l.drawColor(r.color)
	l.pdf.SetLineWidth(1.0 / 72)
	l.pdf.Line(x1, y, x2, y)
	l.pdf.SetLineWidth(0.5 / 72)
	l.y += ruleSpace
	l.fresh = false
}

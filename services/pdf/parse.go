package pdfsvc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/trezcool/guidebook/core/style"
)

// Items are what the HTML body is reduced to before layout.
type (
	item interface{}

	span struct {
		text   string
		bold   bool
		italic bool
		color  style.Color
		size   float64 // points; 0 is the paragraph size
	}

	para struct {
		ts     style.TextStyle
		align  style.Align
		indent float64 // inches
		spans  []span
	}

	box struct {
		bg       style.Color
		border   style.Color
		left     bool
		children []item
	}

	tcell struct {
		width    float64 // fraction of the table width, 0 when unknown
		bg       style.Color
		children []item
	}

	table struct {
		header []tcell
		rows   [][]tcell
	}

	picture struct {
		src    string
		width  float64 // inches
		height float64
		align  style.Align
	}

	rule struct {
		color style.Color
		short bool
	}

	pageBreak struct{}
)

// parseBody reduces the children of the <body> element.
func parseBody(root *html.Node, t style.Theme) []item {
	body := find(root, atom.Body)
	if body == nil {
		return nil
	}
	return parseChildren(body, t)
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// styles parses an inline style attribute, e.g. "color: #1E40AF; text-align: center".
func styles(n *html.Node) map[string]string {
	decls := make(map[string]string)
	for _, d := range strings.Split(attr(n, "style"), ";") {
		kv := strings.SplitN(d, ":", 2)
		if len(kv) != 2 {
			continue
		}
		decls[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	return decls
}

// length parses "0.25in", "10pt" or "25%"; inches and points are returned in inches, percentages as a fraction.
func length(s string) float64 {
	var unit float64
	switch {
	case strings.HasSuffix(s, "in"):
		s, unit = strings.TrimSuffix(s, "in"), 1
	case strings.HasSuffix(s, "pt"):
		s, unit = strings.TrimSuffix(s, "pt"), 1.0/72
	case strings.HasSuffix(s, "%"):
		s, unit = strings.TrimSuffix(s, "%"), 0.01
	default:
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * unit
}

func parseChildren(n *html.Node, t style.Theme) []item {
	var items []item
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.P:
			if img := find(c, atom.Img); img != nil {
				if pic, ok := parseImage(img); ok {
					pic.align = style.Align(styles(c)["text-align"])
					items = append(items, pic)
				}
				continue
			}
			items = append(items, parseParagraph(c, t))
		case atom.Div:
			items = append(items, parseBox(c, t))
		case atom.Table:
			items = append(items, parseTable(c, t))
		case atom.Img:
			if pic, ok := parseImage(c); ok {
				items = append(items, pic)
			}
		case atom.Hr:
			if hasClass(c, "page-break") {
				items = append(items, pageBreak{})
				continue
			}
			items = append(items, rule{color: style.Color(styles(c)["border-color"]), short: hasClass(c, "short")})
		default:
			items = append(items, parseChildren(c, t)...)
		}
	}
	return items
}

func parseParagraph(n *html.Node, t style.Theme) para {
	var name style.StyleName
	if classes := strings.Fields(attr(n, "class")); len(classes) > 0 {
		name = style.StyleName(classes[0])
	}
	ts := t.Text(name)
	decls := styles(n)
	p := para{ts: ts, align: ts.Align, indent: length(decls["margin-left"])}
	if a := decls["text-align"]; a != "" {
		p.align = style.Align(a)
	}
	collectSpans(n, span{}, &p.spans)
	return p
}

// collectSpans walks inline content; nested strong, em and styled spans add to the inherited formatting.
func collectSpans(n *html.Node, inherited span, out *[]span) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data == "" {
				continue
			}
			sp := inherited
			sp.text = c.Data
			*out = append(*out, sp)
		case html.ElementNode:
			sp := inherited
			switch c.DataAtom {
			case atom.Strong, atom.B:
				sp.bold = true
			case atom.Em, atom.I:
				sp.italic = true
			case atom.Br:
				sp.text = "\n"
				*out = append(*out, sp)
				continue
			}
			decls := styles(c)
			if col := decls["color"]; col != "" {
				sp.color = style.Color(col)
			}
			if size := length(decls["font-size"]); size > 0 {
				sp.size = size * 72
			}
			collectSpans(c, sp, out)
		}
	}
}

func parseBox(n *html.Node, t style.Theme) box {
	decls := styles(n)
	b := box{bg: style.Color(decls["background-color"]), children: parseChildren(n, t)}
	if col := decls["border-left-color"]; col != "" {
		b.border, b.left = style.Color(col), true
	} else {
		b.border = style.Color(decls["border-color"])
	}
	return b
}

func parseTable(n *html.Node, t style.Theme) table {
	var tbl table
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, header bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				walk(c, true)
			case atom.Tbody, atom.Tfoot:
				walk(c, false)
			case atom.Tr:
				var row []tcell
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
						continue
					}
					decls := styles(cell)
					row = append(row, tcell{
						width:    length(decls["width"]),
						bg:       style.Color(decls["background-color"]),
						children: parseChildren(cell, t),
					})
				}
				if header {
					tbl.header = row
				} else {
					tbl.rows = append(tbl.rows, row)
				}
			}
		}
	}
	walk(n, false)
	return tbl
}

func parseImage(n *html.Node) (picture, bool) {
	src := attr(n, "src")
	if !strings.HasPrefix(src, "data:image/") {
		return picture{}, false
	}
	w, _ := strconv.Atoi(attr(n, "width"))
	h, _ := strconv.Atoi(attr(n, "height"))
	if w <= 0 || h <= 0 {
		return picture{}, false
	}
	return picture{src: src, width: float64(w) / pxPerInch, height: float64(h) / pxPerInch}, true
}

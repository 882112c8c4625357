// Package htmlsvc renders guides as standalone HTML pages.
//
// The HTML is both an export format and the intermediate the PDF backend lays out, so the body
// only ever holds the elements and inline styles allowed by Policy.
package htmlsvc

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/style"
)

// PxPerInch converts image sizes to the width and height attributes.
const PxPerInch = 96

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	templates   = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

	policyOnce sync.Once
	policy     *bluemonday.Policy

	classRegex     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]*$`)
	dataImageRegex = regexp.MustCompile(`^data:image/(png|jpeg);base64,`)
	colorRegex     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	lengthRegex    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(in|pt|%)$`)
)

// Policy returns the allowlist applied to every generated body.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "div", "span", "strong", "em", "hr")
		p.AllowTables()
		p.AllowAttrs("src").Matching(dataImageRegex).OnElements("img")
		p.AllowAttrs("width", "height").Matching(bluemonday.NumberOrPercent).OnElements("img")
		p.AllowAttrs("alt").Matching(bluemonday.Paragraph).OnElements("img")
		p.AllowDataURIImages()
		p.AllowAttrs("class").Matching(classRegex).Globally()

		p.AllowStyles("color", "background-color", "border-color", "border-left-color").Matching(colorRegex).Globally()
		p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify").Globally()
		p.AllowStyles("margin-left", "width", "font-size", "border-width", "border-left-width").Matching(lengthRegex).Globally()
		p.AllowStyles("border-style", "border-left-style").MatchingEnum("solid").Globally()
		policy = p
	})
	return policy
}

type (
	node struct {
		Kind     string // p | box | table | img | hr
		Class    string
		Style    template.CSS
		Bullet   bool
		Runs     []run
		Children []node
		Header   []cell
		Rows     [][]cell

		Src    template.URL
		Alt    string
		Width  int
		Height int
	}

	cell struct {
		Style    template.CSS
		Children []node
	}

	run struct {
		Text   string
		Bold   bool
		Italic bool
		Style  template.CSS
	}

	page struct {
		Title  string
		Header string
		CSS    template.CSS
		Body   template.HTML
	}
)

type Exporter struct{}

var _ export.Exporter = (*Exporter)(nil)

func NewExporter() *Exporter {
	return &Exporter{}
}

func (*Exporter) Format() export.Format { return export.HTML }
func (*Exporter) Available() error      { return nil }

func (e *Exporter) Export(ctx context.Context, d *document.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := e.Body(d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "page", page{
		Title:  d.Title,
		Header: d.Header,
		CSS:    stylesheet(d.Theme),
		Body:   template.HTML(body), // sanitized
	})
	if err != nil {
		return nil, errors.Wrap(err, "rendering html page")
	}
	return buf.Bytes(), nil
}

// Body returns the sanitized HTML of the document blocks, without the page around them.
func (e *Exporter) Body(d *document.Document) (string, error) {
	nodes := make([]node, 0, len(d.Blocks()))
	for _, b := range d.Blocks() {
		if n, ok := toNode(d.Theme, b); ok {
			nodes = append(nodes, n)
		}
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "body", nodes); err != nil {
		return "", errors.Wrap(err, "rendering html body")
	}
	return Policy().Sanitize(buf.String()), nil
}

func css(decls ...string) template.CSS {
	var kept []string
	for _, d := range decls {
		if d != "" {
			kept = append(kept, d)
		}
	}
	return template.CSS(strings.Join(kept, ";"))
}

func decl(prop string, value interface{}) string {
	switch v := value.(type) {
	case style.Color:
		if v == "" {
			return ""
		}
	case style.Align:
		if v == "" {
			return ""
		}
	case string:
		if v == "" {
			return ""
		}
	}
	return fmt.Sprintf("%s:%v", prop, value)
}

func inches(f float64) string {
	if f <= 0 {
		return ""
	}
	return fmt.Sprintf("%.2fin", f)
}

func toNode(t style.Theme, b document.Block) (node, bool) {
	switch b := b.(type) {
	case *document.Paragraph:
		n := node{
			Kind:   "p",
			Class:  string(b.Style),
			Style:  css(decl("text-align", b.Align), decl("margin-left", inches(b.Indent))),
			Bullet: b.Bullet,
		}
		for _, r := range b.Runs {
			size := ""
			if r.Size > 0 {
				size = fmt.Sprintf("%gpt", r.Size)
			}
			n.Runs = append(n.Runs, run{
				Text:   r.Text,
				Bold:   r.Bold,
				Italic: r.Italic,
				Style:  css(decl("color", r.Color), decl("font-size", size)),
			})
		}
		return n, true

	case *document.Box:
		st := t.Box(b.Kind)
		bg := st.Background
		if b.Background != "" {
			bg = b.Background
		}
		n := node{Kind: "box", Class: "box box-" + string(b.Kind)}
		if b.LeftBorder {
			n.Style = css(decl("background-color", bg), "border-left-style:solid", "border-left-width:3pt", decl("border-left-color", st.Border))
		} else {
			n.Style = css(decl("background-color", bg), "border-style:solid", "border-width:1pt", decl("border-color", st.Border))
		}
		n.Children = toNodes(t, b.Blocks)
		return n, true

	case *document.Table:
		return tableNode(t, b), true

	case *document.Image:
		if len(b.Data) == 0 || b.Width <= 0 {
			return node{}, false
		}
		format := "png"
		if b.Format == "jpeg" || b.Format == "jpg" {
			format = "jpeg"
		}
		return node{
			Kind:   "img",
			Style:  css(decl("text-align", b.Align)),
			Src:    template.URL("data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(b.Data)),
			Alt:    altText(b.Name),
			Width:  int(b.Width*PxPerInch + 0.5),
			Height: int(b.Height*PxPerInch + 0.5),
		}, true

	case *document.Rule:
		class := "rule"
		if b.Short {
			class = "rule short"
		}
		return node{Kind: "hr", Class: class, Style: css(decl("border-color", b.Color))}, true

	case *document.PageBreak:
		return node{Kind: "hr", Class: "page-break"}, true
	}
	return node{}, false
}

func toNodes(t style.Theme, blocks []document.Block) []node {
	var nodes []node
	for _, b := range blocks {
		if n, ok := toNode(t, b); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func tableNode(t style.Theme, tbl *document.Table) node {
	cols := len(tbl.Header)
	for _, row := range tbl.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]string, cols)
	var sum float64
	if len(tbl.Widths) == cols {
		for _, w := range tbl.Widths {
			sum += w
		}
	}
	for i := range widths {
		if sum > 0 {
			widths[i] = fmt.Sprintf("%.1f%%", 100*tbl.Widths[i]/sum)
		} else if cols > 0 {
			widths[i] = fmt.Sprintf("%.1f%%", 100/float64(cols))
		}
	}

	toCells := func(cells []document.Cell) []cell {
		out := make([]cell, cols)
		for i := range out {
			var c document.Cell
			if i < len(cells) {
				c = cells[i]
			}
			out[i] = cell{
				Style:    css(decl("width", widths[i]), decl("background-color", c.Background)),
				Children: toNodes(t, c.Blocks),
			}
		}
		return out
	}

	n := node{Kind: "table", Class: "table"}
	if len(tbl.Header) > 0 {
		n.Header = toCells(tbl.Header)
	}
	for _, row := range tbl.Rows {
		n.Rows = append(n.Rows, toCells(row))
	}
	return n
}

// altText keeps the characters bluemonday accepts in alt attributes.
func altText(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return ' '
	}, name)
}

func stylesheet(t style.Theme) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "body{font-family:%s,Helvetica,sans-serif;margin:%.2fin;color:%s}", t.Font, t.Margin, t.Colors.Black)
	for _, name := range style.StyleNames {
		ts := t.Text(name)
		weight, fstyle := "normal", "normal"
		if ts.Bold {
			weight = "bold"
		}
		if ts.Italic {
			fstyle = "italic"
		}
		fmt.Fprintf(&b, ".%s{font-size:%gpt;font-weight:%s;font-style:%s;color:%s;text-align:%s;margin:%gpt 0 %gpt 0}",
			name, ts.Size, weight, fstyle, ts.Color, ts.Align, ts.SpaceBefore, ts.SpaceAfter)
	}
	fmt.Fprintf(&b, ".box{padding:%.2fin;margin:6pt 0}", t.BoxPadding)
	fmt.Fprintf(&b, "table.table{border-collapse:collapse;width:100%%;margin:6pt 0}table.table td,table.table th{border:1px solid %s;padding:3pt;vertical-align:top}", t.Colors.BorderNeutral)
	b.WriteString("hr.rule{border:0;border-top:1pt solid}hr.short{width:33%}hr.page-break{border:0;page-break-after:always;break-after:page}")
	fmt.Fprintf(&b, ".running-header{font-size:%gpt;color:%s;text-align:right;font-style:italic}", t.Sizes.Footer, t.Colors.LightGray)
	b.WriteString("p.image{margin:6pt 0}")
	return template.CSS(b.String())
}

// Package pdfsvc lays the HTML rendition of a guide out as PDF pages with gofpdf.
package pdfsvc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/style"
)

const (
	pxPerInch  = 96
	coreFamily = "Helvetica"
	ttfFamily  = "GuideFont"
)

var (
	creationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	readFileFunc = os.ReadFile // mockable
)

// BodyRenderer renders the sanitized HTML body of a document.
type BodyRenderer interface {
	Body(d *document.Document) (string, error)
}

type Exporter struct {
	html     BodyRenderer
	enabled  bool
	fontFile string
}

var _ export.Exporter = (*Exporter)(nil)

// NewExporter returns the PDF exporter. Core Helvetica fonts are used unless conf.FontFile names a
// UTF-8 TrueType font.
func NewExporter(conf core.ExportConfig, body BodyRenderer) *Exporter {
	return &Exporter{html: body, enabled: conf.PDFEnabled, fontFile: strings.TrimSpace(conf.FontFile)}
}

func (*Exporter) Format() export.Format { return export.PDF }

// Available returns ErrFeatureUnavailable when PDF export is disabled or its font file is missing.
func (e *Exporter) Available() error {
	if !e.enabled {
		return errors.Wrap(export.ErrFeatureUnavailable, "pdf export is disabled")
	}
	if e.fontFile != "" {
		if _, err := os.Stat(e.fontFile); err != nil {
			return errors.Wrapf(export.ErrFeatureUnavailable, "pdf font %s: %v", e.fontFile, err)
		}
	}
	return nil
}

func (e *Exporter) Export(ctx context.Context, d *document.Document) ([]byte, error) {
	if err := e.Available(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := e.html.Body(d)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parsing html")
	}

	pdf, family, err := e.newPDF(d)
	if err != nil {
		return nil, err
	}
	l := &layout{
		pdf:    pdf,
		theme:  d.Theme,
		family: family,
		tr:     func(s string) string { return s },
		top:    d.Page.Margin,
		bottom: d.Page.Size.Height - d.Page.Margin,
		images: make(map[string]string),
	}
	if family == coreFamily {
		l.tr = pdf.UnicodeTranslatorFromDescriptor("") // cp1252
	}
	setHeaderFooter(pdf, d, family, l.tr)

	l.newPage()
	width := d.Page.Size.Width - 2*d.Page.Margin
	l.draw(parseBody(root, d.Theme), d.Page.Margin, width)

	if pdf.Err() {
		return nil, errors.Wrap(pdf.Error(), "laying out pdf")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing pdf")
	}
	return buf.Bytes(), nil
}

func (e *Exporter) newPDF(d *document.Document) (*gofpdf.Fpdf, string, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: d.Page.Size.Width, Ht: d.Page.Size.Height},
	})
	pdf.SetMargins(d.Page.Margin, d.Page.Margin, d.Page.Margin)
	pdf.SetAutoPageBreak(false, d.Page.Margin)
	pdf.SetCellMargin(0)
	pdf.SetCreationDate(creationDate)
	pdf.SetModificationDate(creationDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(d.Title, true)
	pdf.SetCreator("Guidebook", true)

	if e.fontFile == "" {
		return pdf, coreFamily, nil
	}
	font, err := readFileFunc(e.fontFile)
	if err != nil {
		return nil, "", errors.Wrapf(export.ErrFeatureUnavailable, "reading pdf font: %v", err)
	}
	for _, st := range []string{"", "B", "I", "BI"} {
		pdf.AddUTF8FontFromBytes(ttfFamily, st, font)
	}
	if pdf.Err() {
		return nil, "", errors.Wrapf(export.ErrFeatureUnavailable, "loading pdf font: %v", pdf.Error())
	}
	return pdf, ttfFamily, nil
}

func alignCode(a style.Align) string {
	switch a {
	case style.AlignLeft:
		return "L"
	case style.AlignRight:
		return "R"
	}
	return "C"
}

// setHeaderFooter draws the running header on every page and, when numbering is on, the page number.
func setHeaderFooter(pdf *gofpdf.Fpdf, d *document.Document, family string, tr func(string) string) {
	pg := d.Page
	ts := d.Theme.Text(style.FooterText)
	lineH := ts.Size / 72 * lineSpacing
	width := pg.Size.Width - 2*pg.Margin
	r, g, b := ts.Color.RGB()

	pdf.SetHeaderFunc(func() {
		if d.Header == "" {
			return
		}
		pdf.SetFont(family, "I", ts.Size)
		pdf.SetTextColor(r, g, b)
		pdf.SetXY(pg.Margin, pg.HeaderSpace-lineH)
		pdf.CellFormat(width, lineH, tr(d.Header), "", 0, "R", false, 0, "")
	})
	pdf.SetFooterFunc(func() {
		if !pg.Numbering {
			return
		}
		pdf.SetFont(family, "", ts.Size)
		pdf.SetTextColor(r, g, b)
		pdf.SetXY(pg.Margin, pg.Size.Height-pg.HeaderSpace)
		pdf.CellFormat(width, lineH, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, alignCode(pg.NumberAlign), false, 0, "")
	})
}

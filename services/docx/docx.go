// Package docxsvc writes guides as Word documents.
//
// The package is written directly as OOXML parts in a zip archive: one styles part declaring every
// paragraph style of the theme, the body, a header with the running title and a footer holding a
// PAGE field. Archive entries carry a fixed modification time so that a document always gives the
// same bytes.
package docxsvc

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/export"
)

const (
	relStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var modTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type Exporter struct{}

var _ export.Exporter = (*Exporter)(nil)

func NewExporter() *Exporter {
	return &Exporter{}
}

func (*Exporter) Format() export.Format { return export.DOCX }

// Available always returns nil: DOCX needs nothing outside this package.
func (*Exporter) Available() error { return nil }

func (*Exporter) Export(ctx context.Context, d *document.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := newBodyWriter(d)
	for _, b := range d.Blocks() {
		w.block(b)
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", contentTypesXML()},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(d.Title)},
		{"word/_rels/document.xml.rels", documentRelsXML(w.media)},
		{"word/document.xml", w.documentXML()},
		{"word/styles.xml", stylesXML(d.Theme)},
		{"word/header1.xml", headerXML(d)},
		{"word/footer1.xml", footerXML(d)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name string, data []byte) error {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modTime})
		if err != nil {
			return errors.Wrapf(err, "creating %s", name)
		}
		_, err = f.Write(data)
		return errors.Wrapf(err, "writing %s", name)
	}
	for _, p := range parts {
		if err := add(p.name, p.data); err != nil {
			return nil, err
		}
	}
	for _, m := range w.media {
		if err := add("word/"+m.target, m.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing docx")
	}
	return buf.Bytes(), nil
}

func contentTypesXML() []byte {
	return []byte(xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Default Extension="jpeg" ContentType="image/jpeg"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
		`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
		`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
		`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
		`</Types>`)
}

func rootRelsXML() []byte {
	return []byte(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`</Relationships>`)
}

func corePropsXML(title string) []byte {
	return []byte(xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + esc(title) + `</dc:title><dc:creator>Guidebook</dc:creator>` +
		`</cp:coreProperties>`)
}

func documentRelsXML(media []media) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&b, `<Relationship Id="rIdStyles" Type="%s" Target="styles.xml"/>`, relStyles)
	fmt.Fprintf(&b, `<Relationship Id="rIdHeader" Type="%s" Target="header1.xml"/>`, relHeader)
	fmt.Fprintf(&b, `<Relationship Id="rIdFooter" Type="%s" Target="footer1.xml"/>`, relFooter)
	for _, m := range media {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, m.id, relImage, m.target)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

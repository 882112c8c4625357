package docxsvc

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

const nsMain = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func stylesXML(t style.Theme) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header + `<w:styles ` + nsMain + `>`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr>`+
		`<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s" w:eastAsia="%[1]s"/>`+
		`<w:sz w:val="%[2]d"/><w:szCs w:val="%[2]d"/><w:lang w:val="en-IN"/>`+
		`</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="264" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`,
		esc(t.Font), int(t.Sizes.Body*2))
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)

	for _, name := range style.StyleNames {
		ts := t.Text(name)
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:customStyle="1" w:styleId="%[1]s"><w:name w:val="%[1]s"/><w:basedOn w:val="Normal"/><w:qFormat/>`, name)
		fmt.Fprintf(&b, `<w:pPr><w:spacing w:before="%d" w:after="%d"/><w:jc w:val="%s"/></w:pPr>`,
			int(ts.SpaceBefore*20), int(ts.SpaceAfter*20), jc(ts.Align))
		b.WriteString(`<w:rPr>`)
		if ts.Bold {
			b.WriteString(`<w:b/>`)
		}
		if ts.Italic {
			b.WriteString(`<w:i/>`)
		}
		fmt.Fprintf(&b, `<w:color w:val="%s"/><w:sz w:val="%d"/>`, ts.Color.Hex(), int(ts.Size*2))
		b.WriteString(`</w:rPr></w:style>`)
	}
	b.WriteString(`</w:styles>`)
	return b.Bytes()
}

func headerXML(d *document.Document) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header + `<w:hdr ` + nsMain + `>`)
	fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="%s"/><w:jc w:val="right"/></w:pPr>`, style.FooterText)
	if d.Header != "" {
		fmt.Fprintf(&b, `<w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`, esc(d.Header))
	}
	b.WriteString(`</w:p></w:hdr>`)
	return b.Bytes()
}

// footerXML holds a PAGE field at the configured position; the paragraph is left empty without numbering.
func footerXML(d *document.Document) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header + `<w:ftr ` + nsMain + `>`)
	align := d.Page.NumberAlign
	if align == "" {
		align = style.AlignCenter
	}
	fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="%s"/><w:jc w:val="%s"/></w:pPr>`, style.FooterText, jc(align))
	if d.Page.Numbering {
		b.WriteString(`<w:r><w:t xml:space="preserve">Page </w:t></w:r>` +
			`<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
			`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>` +
			`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
			`<w:r><w:t>1</w:t></w:r>` +
			`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
	}
	b.WriteString(`</w:p></w:ftr>`)
	return b.Bytes()
}

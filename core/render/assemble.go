package render

import (
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

// CoverID is the section id of the cover page.
const CoverID = "cover"

// Assemble renders the cover and every enabled part, standard parts A-G first then custom parts,
// each starting on a new page. Page settings of the chapter apply to the whole document.
func Assemble(doc chapter.ChapterDocument, t style.Theme, a Assets) *document.Document {
	d := &document.Document{
		Title:  doc.FullTitle(),
		Header: doc.FullTitle(),
		Theme:  t,
		Page: document.PageSetup{
			Size:        style.LookupPageSize(doc.Page.Size),
			Margin:      t.Margin,
			HeaderSpace: t.HeaderSpace,
			Numbering:   doc.Page.Numbering,
			NumberAlign: style.NumberAlign(doc.Page.NumberPosition),
		},
	}

	d.Sections = append(d.Sections, document.Section{ID: CoverID, Title: "Cover Page", Blocks: Cover(doc, t, a)})
	for _, p := range doc.Parts.Enabled() {
		blocks := append([]document.Block{&document.PageBreak{}}, Part(doc, p, t, a)...)
		d.Sections = append(d.Sections, document.Section{ID: p.ID, Title: title(p), Blocks: blocks})
	}
	return d
}

// Section renders a single section, the cover or a part, without page break. Disabled parts are
// rendered too; it returns false for unknown ids.
func Section(doc chapter.ChapterDocument, id string, t style.Theme, a Assets) (document.Section, bool) {
	if id == CoverID {
		return document.Section{ID: CoverID, Title: "Cover Page", Blocks: Cover(doc, t, a)}, true
	}
	p, err := doc.Parts.Get(id)
	if err != nil {
		return document.Section{}, false
	}
	return document.Section{ID: p.ID, Title: title(p), Blocks: Part(doc, p, t, a)}, true
}

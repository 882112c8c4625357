package render

import (
	"fmt"
	"strings"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/markup"
	"github.com/trezcool/guidebook/core/style"
)

const (
	qrWidth        = 1.3 // inches
	qrPracticeName = "qr_practice.png"
	qrAnswersName  = "qr_answers.png"
)

// Cover renders the cover page: header, title, metadata, alert, objectives, contents and QR codes.
func Cover(doc chapter.ChapterDocument, t style.Theme, a Assets) []document.Block {
	r := renderer{doc: doc, t: t, a: a}
	c := t.Colors
	subj := chapter.LookupSubject(doc.Subject)

	blocks := []document.Block{
		document.P(style.HeaderText, document.Colored(fmt.Sprintf("CBSE Class %d | %s | %s", doc.ClassNum, subj.Category, subj.Name), c.Body)),
		&document.Rule{Color: c.PrimaryBlue},
		document.P(style.ChapterTitle, document.Run{Text: fmt.Sprintf("CHAPTER %d", doc.ChapterNumber), Bold: true, Color: c.PrimaryBlue, Size: t.Sizes.PartHeader}),
		document.P(style.ChapterTitle, document.Bold(doc.ChapterTitle, c.PrimaryBlue)),
		&document.Rule{Color: c.Body, Short: true},
	}
	if strings.TrimSpace(doc.Subtitle) != "" {
		blocks = append(blocks, document.Centered(document.Italic(doc.Subtitle, c.Body)))
	}

	blocks = append(blocks, r.metadata())

	if doc.SyllabusAlert != nil && strings.TrimSpace(doc.SyllabusAlert.Text) != "" {
		p := document.Body(document.Bold(t.Icons.Warning+" SYLLABUS ALERT: ", c.AccentRed))
		p.Runs = append(p.Runs, r.runs(doc.SyllabusAlert.Text, false)...)
		blocks = append(blocks, document.NewSideBox(style.BoxWarning, p))
	}

	if objectives := markup.Items(doc.LearningObjectives); len(objectives) > 0 {
		box := document.NewSideBox(style.BoxInfo,
			document.Body(document.Bold(t.Icons.Target+" Learning Objectives", c.PrimaryBlue)),
			document.Body(document.Italic("After studying this chapter, you will be able to:", c.Body)),
		)
		box.Blocks = append(box.Blocks, r.bullets(objectives, 0.15)...)
		blocks = append(blocks, box)
	}

	blocks = append(blocks, r.contents())

	if qr := r.qrCodes(); qr != nil {
		blocks = append(blocks, qr)
	}
	return blocks
}

func (r renderer) metadata() document.Block {
	c := r.t.Colors
	cell := func(label, value string, color style.Color) document.Cell {
		return document.TextCell(style.AlignCenter,
			document.Colored(label+" ", c.Body),
			document.Bold(value, color),
		).WithBackground(c.BgNeutral)
	}
	return &document.Table{
		Border: c.BorderNeutral,
		Rows: [][]document.Cell{{
			cell("Weightage", r.doc.Weightage, c.PrimaryBlue),
			cell("Map Work", r.doc.MapWork, c.Body),
			cell("Importance", r.doc.Importance, r.t.ImportanceColor(r.doc.Importance)),
			cell("PYQ Frequency", r.doc.PYQFrequency, r.t.FrequencyColor(r.doc.PYQFrequency)),
		}},
	}
}

func (r renderer) contents() document.Block {
	c := r.t.Colors
	box := document.NewBox(style.BoxNeutral, document.Body(document.Bold(r.t.Icons.Book+" Chapter Contents", c.Body)))
	for _, p := range r.doc.Parts.Enabled() {
		box.Blocks = append(box.Blocks, document.Body(
			document.Bold(fmt.Sprintf("Part %s: ", p.ID), c.PrimaryBlue),
			document.Colored(r.doc.PartDescription(p), c.Body),
		))
	}
	return box
}

// qrCodes returns nil when no QR code can be shown.
func (r renderer) qrCodes() document.Block {
	c := r.t.Colors
	entries := []struct{ url, name, label string }{
		{r.doc.QRPracticeURL, qrPracticeName, "Practice Questions"},
		{r.doc.QRAnswersURL, qrAnswersName, "With Answers"},
	}

	var cells []document.Cell
	for _, e := range entries {
		png, ok := r.a.qr(e.url)
		if !ok {
			continue
		}
		cells = append(cells, document.Cell{Blocks: []document.Block{
			&document.Image{Name: e.name, Data: png, Format: "png", Width: qrWidth, Height: qrWidth, Align: style.AlignCenter},
			&document.Paragraph{Style: style.Caption, Align: style.AlignCenter, Runs: []document.Run{document.Bold(e.label, c.Body)}},
		}})
	}
	if len(cells) == 0 {
		return nil
	}

	box := document.NewBox(style.BoxInfo,
		document.Centered(document.Bold("Scan QR Codes to Download Practice Materials", c.PrimaryBlue)),
		&document.Table{Rows: [][]document.Cell{cells}},
	)
	return box
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/markup"
	"github.com/trezcool/guidebook/core/style"
)

const defaultPredictionYear = 2026

// Part renders one part of the chapter. Custom parts get a placeholder.
func Part(doc chapter.ChapterDocument, p chapter.Part, t style.Theme, a Assets) []document.Block {
	r := renderer{doc: doc, t: t, a: a}
	if p.Custom {
		return r.custom(p)
	}
	switch p.ID {
	case "A":
		return r.pyq(p)
	case "B":
		return r.concepts(p)
	case "C":
		return r.answers(p)
	case "D":
		return r.practice(p)
	case "E":
		return r.partE(p)
	case "F":
		return r.revision(p)
	case "G":
		return r.strategy(p)
	}
	return r.custom(p)
}

func title(p chapter.Part) string {
	return fmt.Sprintf("Part %s: %s", p.ID, p.Name)
}

// Part A

func (r renderer) pyq(p chapter.Part) []document.Block {
	c := r.t.Colors
	sec := r.doc.PYQ

	header := title(p)
	if rng := strings.TrimSpace(sec.YearRange); rng != "" {
		header += " (" + rng + ")"
	}
	blocks := []document.Block{r.partHeader(header)}

	if tbl := r.pyqTable(); tbl != nil {
		blocks = append(blocks, tbl)
	}

	if strings.TrimSpace(sec.Prediction) != "" {
		year := defaultPredictionYear
		if end, ok := chapter.EndYear(sec.YearRange); ok {
			year = end + 2
		}
		para := document.Body(document.Bold(fmt.Sprintf("%s Prediction %d: ", r.t.Icons.Target, year), c.PrimaryBlue))
		para.Runs = append(para.Runs, r.runs(sec.Prediction, false)...)
		blocks = append(blocks, document.NewSideBox(style.BoxInfo, para))
	}

	blocks = append(blocks,
		document.Body(
			document.Bold("Frequency: ", c.Body),
			document.Colored("Red", c.AccentRed),
			document.Plain(" = 6+ times   "),
			document.Colored("Blue", c.PrimaryBlue),
			document.Plain(" = 5 times   "),
			document.Colored("Green", c.Green),
			document.Plain(" = 3-4 times"),
		),
		&document.Rule{Color: c.BorderNeutral},
	)

	if strings.TrimSpace(sec.SyllabusNote) != "" {
		para := document.Body(document.Bold(r.t.Icons.Tip+" Syllabus Note: ", c.Green))
		para.Runs = append(para.Runs, r.runs(sec.SyllabusNote, false)...)
		blocks = append(blocks, document.NewSideBox(style.BoxTip, para))
	}
	return blocks
}

func (r renderer) pyqTable() *document.Table {
	c := r.t.Colors
	tbl := &document.Table{
		Widths: []float64{4, 0.75, 1.75, 0.6},
		Header: r.headerCells(c.TableHeaderBg, c.Body, "Question", "Marks", "Years Asked", "Count"),
		Border: c.BorderNeutral,
	}
	for _, it := range r.doc.PYQ.Items {
		if it.IsEmpty() {
			continue
		}
		count := it.YearCount()
		bg := r.t.PYQRowBackground(count)
		color := r.t.PYQCountColor(count)
		tbl.Rows = append(tbl.Rows, []document.Cell{
			document.TextCell("", r.runs(it.Question, false)...).WithBackground(bg),
			document.TextCell(style.AlignCenter, document.Bold(it.Marks, c.PrimaryBlue)).WithBackground(bg),
			document.TextCell(style.AlignCenter, document.Colored(it.Years, color)).WithBackground(bg),
			document.TextCell(style.AlignCenter, document.Bold(strconv.Itoa(count), color)).WithBackground(bg),
		})
	}
	if len(tbl.Rows) == 0 {
		return nil
	}
	return tbl
}

// Part B

func (r renderer) concepts(p chapter.Part) []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	sec := r.doc.Concepts
	blocks := []document.Block{r.partHeader(title(p))}

	for _, cpt := range sec.Items {
		if cpt.IsEmpty() {
			continue
		}
		blocks = append(blocks, document.P(style.ConceptTitle, document.Bold(fmt.Sprintf("%d. %s", cpt.Number, cpt.Title), c.HeadingBlue)))

		if strings.TrimSpace(cpt.NCERTLine) != "" {
			blocks = append(blocks, document.NewSideBox(style.BoxInfo, document.Body(
				document.Bold(icons.Important+" NCERT Exact Line: ", c.PrimaryBlue),
				document.Italic(`"`+cpt.NCERTLine+`"`, c.Body),
			)))
		}
		blocks = append(blocks, r.lines(style.BodyText, cpt.Content, true)...)

		if strings.TrimSpace(cpt.MemoryTrick) != "" {
			para := document.P(style.MemoryTrick, document.Bold(icons.Tip+" Memory Trick: ", c.Green))
			para.Runs = append(para.Runs, r.runs(cpt.MemoryTrick, false)...)
			blocks = append(blocks, document.NewSideBox(style.BoxTip, para))
		}
		if strings.TrimSpace(cpt.DidYouKnow) != "" {
			para := document.Body(document.Bold("? Did You Know? ", c.Orange))
			para.Runs = append(para.Runs, r.runs(cpt.DidYouKnow, false)...)
			blocks = append(blocks, document.NewSideBox(style.BoxDidYouKnow, para))
		}
	}

	var tables []document.Block
	for _, ct := range sec.ComparisonTables {
		if tbl := r.comparison(ct); tbl != nil {
			name := ct.Title
			if strings.TrimSpace(name) == "" {
				name = "Comparison"
			}
			tables = append(tables, document.Body(document.Run{Text: name, Bold: true, Italic: true, Color: c.Body}), tbl)
		}
	}
	if len(tables) > 0 {
		blocks = append(blocks, r.sectionTitle(icons.Chart+" Comparison Tables", c.PrimaryBlue))
		blocks = append(blocks, tables...)
	}

	if mistakes := nonBlank(sec.CommonMistakes); len(mistakes) > 0 {
		box := document.NewSideBox(style.BoxWarning, document.Body(document.Bold("These mistakes cost students marks every year!", c.AccentRed)))
		for _, m := range mistakes {
			runs := append([]document.Run{document.Colored(icons.Wrong+" ", c.AccentRed)}, r.runs(m, false)...)
			box.Blocks = append(box.Blocks, document.Indented(0.1, runs...))
		}
		blocks = append(blocks, r.sectionTitle(icons.Wrong+" Common Mistakes to Avoid", c.AccentRed), box)
	}

	if len(sec.ImportantDates) > 0 {
		blocks = append(blocks,
			r.sectionTitle(icons.Calendar+" Important Dates Timeline", c.PrimaryBlue),
			r.timeline(sec.ImportantDates),
		)
	}
	return blocks
}

// comparison renders a comparison table; rows are padded or cut to the header width.
func (r renderer) comparison(ct chapter.ComparisonTable) *document.Table {
	c := r.t.Colors
	if len(ct.Headers) == 0 || len(ct.Rows) == 0 {
		return nil
	}
	tbl := &document.Table{
		Header: r.headerCells(c.TableHeaderBg, c.PrimaryBlue, ct.Headers...),
		Border: c.BorderNeutral,
	}
	for i, row := range ct.Rows {
		cells := make([]document.Cell, len(ct.Headers))
		for j := range cells {
			var text string
			if j < len(row) {
				text = row[j]
			}
			cells[j] = document.TextCell("", r.runs(text, false)...).WithBackground(r.altRow(i))
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl
}

// Part C

func (r renderer) answers(p chapter.Part) []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	sec := r.doc.Answers
	blocks := []document.Block{
		r.partHeader(title(p)),
		r.sectionTitle("Model Answers with Examiner's Marking Scheme", c.HeadingBlue),
	}

	n := 0
	for _, ans := range sec.Items {
		if ans.IsEmpty() {
			continue
		}
		n++
		q := document.P(style.Question, document.Bold(fmt.Sprintf("Q%d. ", n), c.Body))
		q.Runs = append(q.Runs, r.runs(ans.Question, false)...)
		if ans.Marks > 0 {
			q.Runs = append(q.Runs, document.Bold(fmt.Sprintf(" [%dM]", ans.Marks), c.AccentRed))
		}
		box := document.NewBox(style.BoxNeutral, q, document.Body(document.Bold("Model Answer:", c.HeadingBlue)))

		if points := nonBlank(ans.MarkingPoints); len(points) > 0 {
			for _, pt := range points {
				runs := []document.Run{document.Bold(icons.Correct+" ", c.Green)}
				runs = append(runs, r.runs(pt, false)...)
				runs = append(runs, document.Colored(" (1 mark)", c.AccentRed))
				box.Blocks = append(box.Blocks, document.Indented(0.25, runs...))
			}
		} else {
			for _, b := range r.lines(style.Answer, ans.Answer, false) {
				if para, ok := b.(*document.Paragraph); ok && !para.Bullet {
					para.Indent = 0.25
				}
				box.Blocks = append(box.Blocks, b)
			}
		}
		blocks = append(blocks, box)
	}

	if tips := markup.Items(sec.ExaminerTips); len(tips) > 0 {
		box := document.NewSideBox(style.BoxTip, document.Body(document.Bold(icons.Target+" Examiner's Marking Scheme", c.Green)))
		box.Blocks = append(box.Blocks, r.bullets(tips, 0.1)...)
		blocks = append(blocks, box)
	}
	return blocks
}

// Custom parts

func (r renderer) custom(p chapter.Part) []document.Block {
	blocks := []document.Block{r.partHeader(title(p))}
	if d := strings.TrimSpace(r.doc.PartDescription(p)); d != "" {
		blocks = append(blocks, document.Body(document.Italic(d, r.t.Colors.Body)))
	}
	return append(blocks, r.notice("Content for this section can be added in future versions."))
}

func nonBlank(items []string) []string {
	var out []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}

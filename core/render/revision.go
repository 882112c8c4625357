package render

import (
	"fmt"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

// Part F

func (r renderer) revision(p chapter.Part) []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	sec := r.doc.Revision
	blocks := []document.Block{r.partHeader(title(p))}

	if points := nonBlank(sec.KeyPoints); len(points) > 0 {
		box := document.NewBox(style.BoxNeutral)
		for i, pt := range points {
			runs := append([]document.Run{document.Bold(fmt.Sprintf("%d. ", i+1), c.HeadingBlue)}, r.runs(pt, true)...)
			box.Blocks = append(box.Blocks, document.Body(runs...))
		}
		blocks = append(blocks, r.sectionTitle("1. Key Points Summary", ""), box)
	}

	if len(sec.KeyTerms) > 0 {
		tbl := &document.Table{
			Widths: []float64{2, 4.5},
			Header: r.headerCells(c.TableHeaderBg, c.HeadingBlue, "Term", "Definition"),
			Border: c.BorderNeutral,
		}
		for i, kt := range sec.KeyTerms {
			bg := r.altRow(i)
			tbl.Rows = append(tbl.Rows, []document.Cell{
				document.TextCell("", document.Bold(kt.Term, c.HeadingBlue)).WithBackground(bg),
				document.TextCell("", r.runs(kt.Definition, false)...).WithBackground(bg),
			})
		}
		blocks = append(blocks, r.sectionTitle("2. Key Terms Defined", ""), tbl)
	}

	if len(sec.Timeline) > 0 {
		blocks = append(blocks, r.sectionTitle(icons.Calendar+" Important Dates Timeline", ""), r.timeline(sec.Timeline))
	}

	if tricks := nonBlank(sec.MemoryTricks); len(tricks) > 0 {
		box := document.NewSideBox(style.BoxTip)
		for _, tr := range tricks {
			runs := append([]document.Run{document.Colored(icons.Tip+" ", c.Green)}, r.runs(tr, false)...)
			box.Blocks = append(box.Blocks, document.P(style.MemoryTrick, runs...))
		}
		blocks = append(blocks, r.sectionTitle(icons.Tip+" Memory Tricks Compilation", c.Green), box)
	}

	return append(blocks, document.Centered(document.Bold("You've got this! Trust your preparation. Good luck!", c.Green)))
}

// Part G

func (r renderer) strategy(p chapter.Part) []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	sec := r.doc.Strategy
	blocks := []document.Block{r.partHeader(title(p))}

	if len(sec.TimeAllocation) > 0 {
		tbl := &document.Table{
			Widths: []float64{3.5, 1.5, 1.5},
			Header: r.headerCells(c.TableHeaderBg, c.HeadingBlue, "Question Type", "Marks", "Time"),
			Border: c.BorderNeutral,
		}
		for i, ts := range sec.TimeAllocation {
			bg := r.altRow(i)
			tbl.Rows = append(tbl.Rows, []document.Cell{
				document.TextCell("", document.Colored(ts.Type, c.Body)).WithBackground(bg),
				document.TextCell(style.AlignCenter, document.Bold(ts.Marks, c.HeadingBlue)).WithBackground(bg),
				document.TextCell(style.AlignCenter, document.Colored(ts.Time, c.Body)).WithBackground(bg),
			})
		}
		blocks = append(blocks, r.sectionTitle(icons.Clock+" Time Allocation Guide", ""), tbl)
	}

	if len(sec.MarkLosers) > 0 {
		tbl := &document.Table{
			Widths: []float64{3.25, 3.25},
			Header: []document.Cell{
				document.TextCell("", document.Bold(icons.Wrong+" MISTAKE", c.AccentRed)).WithBackground(c.BgWarning),
				document.TextCell("", document.Bold(icons.Correct+" WHAT TO DO INSTEAD", c.Green)).WithBackground(c.BgTip),
			},
			Border: c.BorderNeutral,
		}
		for i, ml := range sec.MarkLosers {
			bg := r.altRow(i)
			tbl.Rows = append(tbl.Rows, []document.Cell{
				document.TextCell("", document.Colored(ml.Mistake, c.AccentRed)).WithBackground(bg),
				document.TextCell("", document.Colored(ml.Correction, c.Body)).WithBackground(bg),
			})
		}
		blocks = append(blocks,
			r.sectionTitle(icons.Wrong+" What Loses Marks: Examiner's Warning", c.AccentRed),
			document.NewSideBox(style.BoxWarning, document.Body(document.Bold("These mistakes cost students marks every exam. Avoid them!", c.AccentRed))),
			tbl,
		)
	}

	if tips := nonBlank(sec.ProTips); len(tips) > 0 {
		box := document.NewSideBox(style.BoxTip)
		for _, tip := range tips {
			runs := append([]document.Run{document.Colored(icons.Correct+" ", c.Green)}, r.runs(tip, false)...)
			box.Blocks = append(box.Blocks, document.Body(runs...))
		}
		blocks = append(blocks, r.sectionTitle(icons.Tip+" Examiner's Pro Tips (What Gets EXTRA Marks)", c.Green), box)
	}

	if items := nonBlank(sec.Checklist); len(items) > 0 {
		box := document.NewBox(style.BoxNeutral)
		for _, it := range items {
			box.Blocks = append(box.Blocks, document.Body(
				document.Colored(icons.Checklist+" ", c.HeadingBlue),
				document.Colored(it, c.Body),
			))
		}
		blocks = append(blocks, r.sectionTitle(icons.Checklist+" Self-Assessment Checklist", ""), box)
	}

	return append(blocks,
		&document.Rule{Color: c.BorderNeutral, Short: true},
		document.Centered(document.Bold(fmt.Sprintf("%s End of Chapter %d %s", icons.Star, r.doc.ChapterNumber, icons.Star), c.HeadingBlue)),
	)
}

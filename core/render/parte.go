package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/markup"
	"github.com/trezcool/guidebook/core/style"
)

// Part E content depends on the subject; map work for every subject not listed.
var partEVariants = map[string]func(r renderer) []document.Block{
	chapter.PoliticalScience: renderer.constitutional,
	chapter.Economics:        renderer.graphs,
	chapter.Mathematics:      renderer.formulas,
	chapter.English:          renderer.grammar,
	chapter.Science:          renderer.lab,
}

const (
	mapImageWidth     = 5.5
	graphImageWidth   = 5.0
	diagramImageWidth = 4.0
)

func (r renderer) partE(p chapter.Part) []document.Block {
	blocks := []document.Block{r.partHeader(title(p))}
	if variant, ok := partEVariants[r.doc.Subject]; ok {
		return append(blocks, variant(r)...)
	}
	return append(blocks, r.mapWork()...)
}

func (r renderer) mapWork() []document.Block {
	c := r.t.Colors
	sec := r.doc.PartE

	if !r.doc.MapWorkApplicable() {
		note := "N/A for this chapter"
		if r.doc.Subject == chapter.History {
			note = "All History map work (2 marks) comes from Chapter 2: Nationalism in India"
		}
		return []document.Block{document.NewBox(style.BoxNeutral,
			document.Centered(document.Bold("No Map Work from this Chapter", c.Body)),
			document.Centered(document.Italic(note, c.LightGray)),
		)}
	}

	items := nonBlank(sec.MapItems)
	img, hasImage := r.a.image(sec.MapImage, mapImageWidth)
	if len(items) == 0 && !hasImage {
		return []document.Block{r.notice("No map locations added yet.")}
	}

	var blocks []document.Block
	if len(items) > 0 {
		blocks = append(blocks, r.sectionTitle(r.t.Icons.Important+" CBSE Prescribed Map Locations", ""))
		blocks = append(blocks, r.numbered(items, "")...)
	}
	if hasImage {
		blocks = append(blocks, img)
	}
	if tips := markup.Items(sec.MapTips); len(tips) > 0 {
		box := document.NewBox(style.BoxTip, document.Body(document.Bold(r.t.Icons.Tip+" Map Marking Tips", c.Green)))
		box.Blocks = append(box.Blocks, r.bullets(tips, 0)...)
		blocks = append(blocks, box)
	}
	return blocks
}

// Political science

func (r renderer) constitutional() []document.Block {
	c := r.t.Colors
	sec := r.doc.PartE
	if len(sec.Articles) == 0 {
		return []document.Block{r.notice("Add constitutional articles in the Part E section.")}
	}

	var blocks []document.Block
	for i, art := range sec.Articles {
		heading := fmt.Sprintf("Article %d", i+1)
		switch num, name := strings.TrimSpace(art.Number), strings.TrimSpace(art.Title); {
		case num != "" && name != "":
			heading = fmt.Sprintf("Article %s: %s", num, name)
		case num != "":
			heading = "Article " + num
		case name != "":
			heading = name
		}
		blocks = append(blocks, r.sectionTitle(heading, ""))

		if strings.TrimSpace(art.Description) != "" {
			blocks = append(blocks, document.Body(r.runs(art.Description, true)...))
		}
		if points := nonBlank(art.KeyPoints); len(points) > 0 {
			blocks = append(blocks, r.label("Key Points:", c.Body))
			blocks = append(blocks, r.bullets(points, 0.25)...)
		}
		if cases := nonBlank(art.CaseStudies); len(cases) > 0 {
			blocks = append(blocks, r.label("Related Case Studies:", c.Body))
			for _, cs := range cases {
				runs := append([]document.Run{document.Colored(r.t.Icons.Important+" ", c.PrimaryBlue)}, r.runs(cs, true)...)
				blocks = append(blocks, document.Indented(0.25, runs...))
			}
		}
	}

	if len(sec.Amendments) > 0 {
		tbl := &document.Table{
			Widths: []float64{1.2, 4.3, 1},
			Header: r.headerCells(c.TableHeaderBg, c.PrimaryBlue, "Amendment", "Description", "Year"),
			Border: c.BorderNeutral,
		}
		for i, am := range sec.Amendments {
			bg := r.altRow(i)
			tbl.Rows = append(tbl.Rows, []document.Cell{
				document.TextCell(style.AlignCenter, document.Bold(am.Number, c.PrimaryBlue)).WithBackground(bg),
				document.TextCell("", r.runs(am.Description, false)...).WithBackground(bg),
				document.TextCell(style.AlignCenter, document.Colored(am.Year, c.YearRed)).WithBackground(bg),
			})
		}
		blocks = append(blocks, r.sectionTitle(r.t.Icons.Pencil+" Related Constitutional Amendments", c.PrimaryBlue), tbl)
	}
	return blocks
}

// Economics

func (r renderer) graphs() []document.Block {
	c := r.t.Colors
	graphs := r.doc.PartE.Graphs
	if len(graphs) == 0 {
		return []document.Block{r.notice("Add graphs and data analysis in the Part E section.")}
	}

	var blocks []document.Block
	for i, g := range graphs {
		blocks = append(blocks, r.sectionTitle(fmt.Sprintf("%d. %s", i+1, g.Title), ""))
		if strings.TrimSpace(g.Description) != "" {
			blocks = append(blocks, document.Body(r.runs(g.Description, false)...))
		}

		if img, ok := r.a.image(g.Image, graphImageWidth); ok {
			blocks = append(blocks, img)
		} else if g.Image != "" {
			blocks = append(blocks, &document.Paragraph{
				Style: style.Caption,
				Align: style.AlignCenter,
				Runs:  []document.Run{document.Italic("[Graph Image: "+g.Image+"]", c.LightGray)},
			})
		}

		if len(g.DataPoints) > 0 {
			tbl := &document.Table{
				Widths: []float64{3, 3},
				Header: r.headerCells(c.TableHeaderBg, c.PrimaryBlue, "Label", "Value"),
				Border: c.BorderNeutral,
			}
			for j, dp := range g.DataPoints {
				bg := r.altRow(j)
				tbl.Rows = append(tbl.Rows, []document.Cell{
					document.TextCell("", document.Plain(dp.Label)).WithBackground(bg),
					document.TextCell(style.AlignCenter, document.Bold(dp.Value, c.PrimaryBlue)).WithBackground(bg),
				})
			}
			blocks = append(blocks, r.label("Data Points:", c.Body), tbl)
		}

		if analysis := markup.Items(g.Analysis); len(analysis) > 0 {
			blocks = append(blocks, r.label("Analysis & Interpretation:", c.Body))
			blocks = append(blocks, r.numbered(analysis, c.PrimaryBlue)...)
		}
	}
	return blocks
}

// Mathematics

func (r renderer) formulas() []document.Block {
	c := r.t.Colors
	formulas := r.doc.PartE.Formulas
	if len(formulas) == 0 {
		return []document.Block{r.notice("Add formulas and equations in the Part E section.")}
	}

	// categories keep their first appearance order; uncategorized formulas come last
	var (
		categories    []string
		byCategory    = make(map[string][]chapter.Formula)
		uncategorized []chapter.Formula
	)
	for _, f := range formulas {
		cat := strings.TrimSpace(f.Category)
		if cat == "" {
			uncategorized = append(uncategorized, f)
			continue
		}
		if _, ok := byCategory[cat]; !ok {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], f)
	}

	var blocks []document.Block
	for _, cat := range categories {
		blocks = append(blocks, r.sectionTitle(r.t.Icons.Important+" "+cat, c.PrimaryBlue))
		for _, f := range byCategory[cat] {
			blocks = append(blocks, r.formula(f)...)
		}
	}
	for _, f := range uncategorized {
		blocks = append(blocks, r.formula(f)...)
	}
	return blocks
}

func (r renderer) formula(f chapter.Formula) []document.Block {
	c := r.t.Colors
	var blocks []document.Block
	if strings.TrimSpace(f.Name) != "" {
		blocks = append(blocks, document.P(style.ConceptTitle, document.Bold(f.Name, c.HeadingBlue)))
	}
	if strings.TrimSpace(f.Formula) != "" {
		blocks = append(blocks, document.NewBox(style.BoxWarning, document.Centered(document.Run{Text: f.Formula, Bold: true, Color: c.Black, Size: r.t.Sizes.Concept})))
	}
	if len(f.Variables) > 0 {
		names := make([]string, 0, len(f.Variables))
		for v := range f.Variables {
			names = append(names, v)
		}
		sort.Strings(names)

		para := document.Body(document.Italic("Where: ", c.Body))
		for i, v := range names {
			if i > 0 {
				para.Runs = append(para.Runs, document.Colored("   |   ", c.LightGray))
			}
			para.Runs = append(para.Runs, document.Bold(v, c.PrimaryBlue), document.Plain(" = "+f.Variables[v]))
		}
		blocks = append(blocks, para)
	}
	if strings.TrimSpace(f.Example) != "" {
		runs := append([]document.Run{document.Bold(r.t.Icons.Tip+" Example: ", c.Green)}, r.runs(f.Example, false)...)
		blocks = append(blocks, document.Indented(0.25, runs...))
	}
	return blocks
}

// English

func (r renderer) grammar() []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	rules := r.doc.PartE.GrammarRules
	if len(rules) == 0 {
		return []document.Block{r.notice("Add grammar rules and examples in the Part E section.")}
	}

	var blocks []document.Block
	for i, gr := range rules {
		blocks = append(blocks, r.sectionTitle(fmt.Sprintf("%s %d. %s", icons.Book, i+1, gr.Topic), ""))
		if strings.TrimSpace(gr.Rule) != "" {
			para := document.Body(document.Bold("Rule: ", c.PrimaryBlue))
			para.Runs = append(para.Runs, r.runs(gr.Rule, false)...)
			blocks = append(blocks, document.NewSideBox(style.BoxInfo, para))
		}

		if len(gr.Examples) > 0 {
			tbl := &document.Table{
				Widths: []float64{3.25, 3.25},
				Header: []document.Cell{
					document.TextCell(style.AlignCenter, document.Bold(icons.Correct+" CORRECT", c.Green)).WithBackground(c.BgTip),
					document.TextCell(style.AlignCenter, document.Bold(icons.Wrong+" INCORRECT", c.AccentRed)).WithBackground(c.BgWarning),
				},
				Border: c.BorderNeutral,
			}
			for _, ex := range gr.Examples {
				tbl.Rows = append(tbl.Rows, []document.Cell{
					document.TextCell("", r.runs(ex.Correct, false)...),
					document.TextCell("", r.runs(ex.Incorrect, false)...),
				})
			}
			blocks = append(blocks, r.label("Examples:", c.Body), tbl)
		}

		if mistakes := nonBlank(gr.CommonMistakes); len(mistakes) > 0 {
			blocks = append(blocks, r.label(icons.Warning+" Common Mistakes to Avoid:", c.AccentRed))
			blocks = append(blocks, r.bullets(mistakes, 0.25)...)
		}
		if practice := nonBlank(gr.Practice); len(practice) > 0 {
			blocks = append(blocks, r.label("Practice:", c.Body))
			blocks = append(blocks, r.numbered(practice, "")...)
		}
	}
	return blocks
}

// Science

func (r renderer) lab() []document.Block {
	c := r.t.Colors
	icons := r.t.Icons
	activities := r.doc.PartE.LabActivities
	if len(activities) == 0 {
		return []document.Block{r.notice("Add experiments and lab activities in the Part E section.")}
	}

	var blocks []document.Block
	for i, act := range activities {
		blocks = append(blocks, r.sectionTitle(fmt.Sprintf("Experiment %d: %s", i+1, act.Name), ""))
		if strings.TrimSpace(act.Aim) != "" {
			para := document.Body(document.Bold(icons.Target+" Aim: ", c.PrimaryBlue))
			para.Runs = append(para.Runs, r.runs(act.Aim, false)...)
			blocks = append(blocks, para)
		}
		if materials := nonBlank(act.Materials); len(materials) > 0 {
			blocks = append(blocks, r.label("Materials Required:", c.Body))
			blocks = append(blocks, r.bullets(materials, 0.25)...)
		}

		if img, ok := r.a.image(act.Diagram, diagramImageWidth); ok {
			blocks = append(blocks, r.label("Diagram:", c.Body), img)
		} else if act.Diagram != "" {
			blocks = append(blocks, r.label("Diagram:", c.Body), &document.Paragraph{
				Style: style.Caption,
				Align: style.AlignCenter,
				Runs:  []document.Run{document.Italic("[Diagram: "+act.Diagram+"]", c.LightGray)},
			})
		}

		if steps := nonBlank(act.Procedure); len(steps) > 0 {
			blocks = append(blocks, r.label("Procedure:", c.Body))
			blocks = append(blocks, r.numbered(steps, c.PrimaryBlue)...)
		}
		if strings.TrimSpace(act.Observations) != "" {
			blocks = append(blocks, r.label("Observations:", c.Body))
			blocks = append(blocks, r.lines(style.BodyText, act.Observations, false)...)
		}
		if strings.TrimSpace(act.Conclusion) != "" {
			blocks = append(blocks, r.label("Conclusion:", c.Body))
			blocks = append(blocks, r.lines(style.BodyText, act.Conclusion, false)...)
		}
		if precautions := nonBlank(act.Precautions); len(precautions) > 0 {
			box := document.NewSideBox(style.BoxWarning, r.label(icons.Warning+" Precautions:", c.AccentRed))
			box.Blocks = append(box.Blocks, r.bullets(precautions, 0.1)...)
			blocks = append(blocks, box)
		}
	}
	return blocks
}

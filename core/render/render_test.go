package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

var theme = style.Default()

func fakeQR(content string) ([]byte, error) {
	return []byte("png:" + content), nil
}

func fullChapter() chapter.ChapterDocument {
	doc := chapter.New(10, chapter.History, 1)
	doc.ChapterTitle = "The Rise of Nationalism in Europe"
	doc.Subtitle = "From Revolution to Nation States"
	doc.SyllabusAlert = &chapter.Alert{Text: "Section 8 is **deleted**"}
	doc.LearningObjectives = "- Explain the *French Revolution*\n- Describe the unification of Italy"
	doc.QRPracticeURL = "https://example.com/practice"
	doc.PYQ.Items = []chapter.PYQItem{
		{Question: "Explain liberalism", Marks: "3M", Years: "2015, 2016, 2017, 2018, 2019, 2020"},
		{Question: ""},
	}
	doc.PYQ.Prediction = "Romanticism"
	doc.Concepts.Items = []chapter.Concept{
		{Number: 1, Title: "French Revolution", Content: "In 1789 **liberty** spread\n- item", MemoryTrick: "LEF"},
	}
	doc.Concepts.ImportantDates = []chapter.DatedEvent{{Year: "1789", Event: "French Revolution"}}
	doc.Answers.Items = []chapter.ModelAnswer{{Question: "Why?", Marks: 3, MarkingPoints: []string{"one", "two"}}}
	doc.Practice.MCQs = []chapter.Question{{Question: "Who?", Options: []string{"A", "B"}, Answer: "a", Difficulty: "h"}}
	doc.MapWork = "Yes"
	doc.PartE.MapItems = []string{"Paris"}
	doc.Revision.KeyPoints = []string{"Nationalism rose in 1830"}
	doc.Strategy.Checklist = []string{"Revise dates"}
	doc.Parts.AddCustom("Extra Practice", "")
	return doc
}

// texts returns the text of every paragraph, nested ones included.
func texts(blocks []document.Block) []string {
	var out []string
	document.Walk(blocks, func(b document.Block) {
		if p, ok := b.(*document.Paragraph); ok {
			out = append(out, document.Text(p.Runs))
		}
	})
	return out
}

func contains(blocks []document.Block, text string) bool {
	for _, s := range texts(blocks) {
		if strings.Contains(s, text) {
			return true
		}
	}
	return false
}

func images(blocks []document.Block) int {
	var n int
	document.Walk(blocks, func(b document.Block) {
		if _, ok := b.(*document.Image); ok {
			n++
		}
	})
	return n
}

func TestAssemble_Idempotent(t *testing.T) {
	a := Assets{QR: fakeQR}
	first := Assemble(fullChapter(), theme, a)
	second := Assemble(fullChapter(), theme, a)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Assemble() not idempotent (-first +second):\n%s", diff)
	}
}

func TestAssemble_Sections(t *testing.T) {
	doc := fullChapter()
	require.NoError(t, doc.Parts.Disable("C"))

	d := Assemble(doc, theme, Assets{})

	var ids []string
	for _, sec := range d.Sections {
		ids = append(ids, sec.ID)
		if sec.ID == CoverID {
			continue
		}
		require.NotEmpty(t, sec.Blocks)
		_, ok := sec.Blocks[0].(*document.PageBreak)
		assert.True(t, ok, "section %s does not start with a page break", sec.ID)
	}
	assert.Equal(t, []string{CoverID, "A", "B", "D", "E", "F", "G", "H"}, ids)
	assert.Equal(t, "Chapter 1: The Rise of Nationalism in Europe", d.Header)
	assert.Equal(t, "A4", d.Page.Size.Name)
	assert.Equal(t, style.AlignCenter, d.Page.NumberAlign)
	assert.True(t, contains(d.Sections[len(d.Sections)-1].Blocks, "Content for this section can be added in future versions."))
}

func TestCover(t *testing.T) {
	doc := fullChapter()
	blocks := Cover(doc, theme, Assets{QR: fakeQR})

	for _, want := range []string{
		"CBSE Class 10 | Social Science | History",
		"CHAPTER 1",
		"⚠ SYLLABUS ALERT: Section 8 is deleted",
		"After studying this chapter, you will be able to:",
		"Explain the French Revolution",
		"Part A: 10-year data with predictions and syllabus note",
		"Part H: ",
		"Practice Questions",
	} {
		assert.True(t, contains(blocks, want), "cover is missing %q", want)
	}
	assert.Equal(t, 1, images(blocks))
}

func TestCover_QR(t *testing.T) {
	tests := []struct {
		name       string
		practice   string
		answers    string
		qr         func(string) ([]byte, error)
		wantImages int
		wantBox    bool
	}{
		{name: "no url", qr: fakeQR},
		{name: "practice only", practice: "https://a", qr: fakeQR, wantImages: 1, wantBox: true},
		{name: "both", practice: "https://a", answers: "https://b", qr: fakeQR, wantImages: 2, wantBox: true},
		{name: "encoder fails", practice: "https://a", qr: func(string) ([]byte, error) { return nil, errors.New("too long") }},
		{name: "no encoder", practice: "https://a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := chapter.New(10, chapter.History, 1)
			doc.QRPracticeURL, doc.QRAnswersURL = tt.practice, tt.answers

			blocks := Cover(doc, theme, Assets{QR: tt.qr})
			assert.Equal(t, tt.wantImages, images(blocks))
			assert.Equal(t, tt.wantBox, contains(blocks, "Scan QR Codes"))
		})
	}
}

func TestCover_UnknownImportance(t *testing.T) {
	doc := chapter.New(10, chapter.History, 1)
	doc.Importance = "Legendary"

	var found bool
	document.Walk(Cover(doc, theme, Assets{}), func(b document.Block) {
		p, ok := b.(*document.Paragraph)
		if !ok || len(p.Runs) != 2 || p.Runs[0].Text != "Importance " {
			return
		}
		found = true
		assert.Equal(t, theme.Colors.Body, p.Runs[1].Color)
	})
	assert.True(t, found)
}

func TestPartA(t *testing.T) {
	tests := []struct {
		name       string
		yearRange  string
		wantHeader string
		wantPred   string
	}{
		{name: "default range", yearRange: "2015-2024", wantHeader: "Part A: PYQ Analysis (2015-2024)", wantPred: "◎ Prediction 2026: "},
		{name: "other range", yearRange: "2014-2023", wantHeader: "Part A: PYQ Analysis (2014-2023)", wantPred: "◎ Prediction 2025: "},
		{name: "unparsable range", yearRange: "recent", wantHeader: "Part A: PYQ Analysis (recent)", wantPred: "◎ Prediction 2026: "},
		{name: "no range", wantHeader: "Part A: PYQ Analysis", wantPred: "◎ Prediction 2026: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fullChapter()
			doc.PYQ.YearRange = tt.yearRange
			p, _ := doc.Parts.Get("A")

			blocks := Part(doc, p, theme, Assets{})
			all := texts(blocks)
			assert.Equal(t, tt.wantHeader, all[0])
			assert.True(t, contains(blocks, tt.wantPred+"Romanticism"))
			assert.True(t, contains(blocks, "Frequency: Red = 6+ times   Blue = 5 times   Green = 3-4 times"))
		})
	}
}

func TestPartA_Table(t *testing.T) {
	doc := fullChapter()
	p, _ := doc.Parts.Get("A")

	var tbl *document.Table
	document.Walk(Part(doc, p, theme, Assets{}), func(b document.Block) {
		if t, ok := b.(*document.Table); ok {
			tbl = t
		}
	})
	require.NotNil(t, tbl)
	require.Len(t, tbl.Rows, 1, "empty items are skipped")
	assert.Equal(t, theme.Colors.BgWarning, tbl.Rows[0][0].Background)
	assert.Equal(t, []string{"6"}, texts(tbl.Rows[0][3].Blocks))
}

func TestPartE_MapWork(t *testing.T) {
	mapImg := document.Image{Name: "map.png", Data: []byte{1}, Format: "png", PxWidth: 800, PxHeight: 600}

	tests := []struct {
		name     string
		subject  string
		mapWork  string
		na       bool
		items    []string
		image    string
		want     []string
		wantImgs int
	}{
		{
			name: "not applicable", subject: chapter.Geography, mapWork: "Yes", na: true, items: []string{"Delhi"}, image: "map.png",
			want: []string{"Part E: Map Work", "No Map Work from this Chapter", "N/A for this chapter"},
		},
		{
			name: "history without map work", subject: chapter.History, mapWork: "No",
			want: []string{"Part E: Map Work", "No Map Work from this Chapter", "All History map work (2 marks) comes from Chapter 2: Nationalism in India"},
		},
		{
			name: "empty", subject: chapter.Geography, mapWork: "Yes", items: []string{" "}, image: "missing.png",
			want: []string{"Part E: Map Work", "No map locations added yet."},
		},
		{
			name: "items and image", subject: chapter.Geography, mapWork: "Yes", items: []string{"Bhakra Nangal"}, image: "map.png",
			want:     []string{"Part E: Map Work", "▸ CBSE Prescribed Map Locations", "1. Bhakra Nangal"},
			wantImgs: 1,
		},
		{
			name: "image only", subject: chapter.Geography, mapWork: "Yes", image: "map.png",
			want:     []string{"Part E: Map Work"},
			wantImgs: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := chapter.New(10, tt.subject, 3)
			doc.MapWork = tt.mapWork
			doc.PartE.MapWorkNA = tt.na
			doc.PartE.MapItems = tt.items
			doc.PartE.MapImage = tt.image
			p, _ := doc.Parts.Get("E")

			blocks := Part(doc, p, theme, Assets{Images: map[string]document.Image{"map.png": mapImg}})
			if diff := cmp.Diff(tt.want, texts(blocks)); diff != "" {
				t.Errorf("Part E mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantImgs, images(blocks))
		})
	}
}

func TestPartE_Variants(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{chapter.PoliticalScience, "Add constitutional articles in the Part E section."},
		{chapter.Economics, "Add graphs and data analysis in the Part E section."},
		{chapter.Mathematics, "Add formulas and equations in the Part E section."},
		{chapter.English, "Add grammar rules and examples in the Part E section."},
		{chapter.Science, "Add experiments and lab activities in the Part E section."},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			doc := chapter.New(10, tt.subject, 1)
			p, _ := doc.Parts.Get("E")
			blocks := Part(doc, p, theme, Assets{})
			assert.Equal(t, []string{title(p), tt.want}, texts(blocks))
		})
	}
}

func TestPartE_Formulas(t *testing.T) {
	doc := chapter.New(10, chapter.Mathematics, 2)
	doc.PartE.Formulas = []chapter.Formula{
		{Name: "Loose", Formula: "x = 1"},
		{Category: "Algebra", Name: "Quadratic", Formula: "x = (-b ± √(b²-4ac)) / 2a", Variables: map[string]string{"b": "linear", "a": "square"}},
		{Category: "Geometry", Name: "Circle", Formula: "A = πr²", Example: "r = 2"},
		{Category: "Algebra", Name: "Identity"},
	}
	p, _ := doc.Parts.Get("E")

	got := texts(Part(doc, p, theme, Assets{}))
	want := []string{
		"Part E: Formula Sheet",
		"▸ Algebra",
		"Quadratic",
		"x = (-b ± √(b²-4ac)) / 2a",
		"Where: a = square   |   b = linear",
		"Identity",
		"▸ Geometry",
		"Circle",
		"A = πr²",
		"★ Example: r = 2",
		"Loose",
		"x = 1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("formulas mismatch (-want +got):\n%s", diff)
	}
}

func TestPartE_Graphs(t *testing.T) {
	doc := chapter.New(10, chapter.Economics, 1)
	doc.PartE.Graphs = []chapter.Graph{
		{Title: "GDP", Image: "gdp.png", DataPoints: []chapter.DataPoint{{Label: "2020", Value: "3%"}}, Analysis: "- rises\n- falls"},
	}
	p, _ := doc.Parts.Get("E")

	blocks := Part(doc, p, theme, Assets{})
	assert.True(t, contains(blocks, "1. GDP"))
	assert.True(t, contains(blocks, "[Graph Image: gdp.png]"))
	assert.True(t, contains(blocks, "Data Points:"))
	assert.True(t, contains(blocks, "2. falls"))

	img := document.Image{Name: "gdp.png", Data: []byte{1}}
	blocks = Part(doc, p, theme, Assets{Images: map[string]document.Image{"gdp.png": img}})
	assert.False(t, contains(blocks, "[Graph Image"))
	assert.Equal(t, 1, images(blocks))
}

func TestPartD(t *testing.T) {
	doc := chapter.New(10, chapter.History, 1)
	doc.Practice.MCQs = []chapter.Question{
		{Question: "First?", Options: []string{"x", "y"}, Answer: "b", Difficulty: "E"},
		{Question: "Second?", Difficulty: "weird"},
	}
	doc.Practice.AssertionReason = []chapter.Question{{Question: "Assertion: A holds. Reason: R holds.", Answer: "a"}}
	doc.Practice.SourceBased = []chapter.SourceBased{{Source: "text", Questions: []chapter.SubQuestion{{Question: "q1"}, {Question: "q2", Marks: 2}}}}
	doc.Practice.ShortAnswer = []chapter.Question{{Question: "Short", Hint: "think"}}
	p, _ := doc.Parts.Get("D")

	blocks := Part(doc, p, theme, Assets{})
	for _, want := range []string{
		"1. MCQs (Multiple Choice Questions) (2)",
		"[E] Easy  [M] Medium  [H] Hard",
		"[E] 1. First?",
		"(b) y",
		"[M] 2. Second?",
		"1(b)",
		"1. Assertion: A holds.",
		"Reason: R holds.",
		"Source A: \"text\"",
		"(i) q1 [1]",
		"(ii) q2 [2]",
		"5. Short Answer Questions (3 Marks) (1)",
		"★ Hint: think",
	} {
		assert.True(t, contains(blocks, want), "Part D is missing %q", want)
	}
}

func TestPartFG(t *testing.T) {
	doc := fullChapter()
	f, _ := doc.Parts.Get("F")
	g, _ := doc.Parts.Get("G")

	fBlocks := Part(doc, f, theme, Assets{})
	assert.True(t, contains(fBlocks, "1. Nationalism rose in 1830"))
	assert.True(t, contains(fBlocks, "You've got this! Trust your preparation. Good luck!"))

	gBlocks := Part(doc, g, theme, Assets{})
	assert.True(t, contains(gBlocks, "☐ Revise dates"))
	assert.True(t, contains(gBlocks, "★ End of Chapter 1 ★"))
}

func TestSection(t *testing.T) {
	doc := fullChapter()

	sec, ok := Section(doc, "B", theme, Assets{})
	require.True(t, ok)
	assert.Equal(t, "Part B: Key Concepts", sec.Title)
	_, isBreak := sec.Blocks[0].(*document.PageBreak)
	assert.False(t, isBreak)

	_, ok = Section(doc, "Q", theme, Assets{})
	assert.False(t, ok)
}

func TestImageNames(t *testing.T) {
	doc := chapter.New(10, chapter.Science, 1)
	doc.PartE.MapImage = "m.png"
	doc.PartE.LabActivities = []chapter.LabActivity{{Diagram: "d.jpg"}, {}}
	assert.Equal(t, []string{"m.png", "d.jpg"}, ImageNames(doc))
}

func TestRoman(t *testing.T) {
	for n, want := range map[int]string{1: "i", 4: "iv", 9: "ix", 14: "xiv", 20: "xx", 40: "xl", 49: "xlix", 90: "xc", 99: "xcix", 100: "c"} {
		assert.Equal(t, want, roman(n))
	}
}

package importer

import (
	"bytes"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/guidebook/core/chapter"
)

var (
	ErrInvalidOutline = errors.New("invalid chapter outline")

	partRegex    = regexp.MustCompile(`(?i)^part\s+([a-z])\b`)
	conceptRegex = regexp.MustCompile(`^(\d+)\s*[.)]\s*(.+)$`)

	// labelled paragraphs, e.g. "Memory trick: ..."
	labelRegex = regexp.MustCompile(`(?i)^\**(ncert|memory trick|did you know\??|prediction|syllabus note|tips?)\s*:\**\s*(.*)$`)

	strict = bluemonday.StrictPolicy()
)

// frontMatter is the YAML header of an outline.
type frontMatter struct {
	Class              int    `yaml:"class"`
	Subject            string `yaml:"subject"`
	Chapter            int    `yaml:"chapter"`
	Title              string `yaml:"title"`
	Subtitle           string `yaml:"subtitle"`
	Weightage          string `yaml:"weightage"`
	MapWork            string `yaml:"map_work"`
	Importance         string `yaml:"importance"`
	PYQFrequency       string `yaml:"pyq_frequency"`
	YearRange          string `yaml:"year_range"`
	SyllabusAlert      string `yaml:"syllabus_alert"`
	LearningObjectives string `yaml:"learning_objectives"`
	QRPracticeURL      string `yaml:"qr_practice_url"`
	QRAnswersURL       string `yaml:"qr_answers_url"`
}

// splitFrontMatter returns the YAML between the leading "---" lines, if any, and the remaining Markdown.
func splitFrontMatter(src []byte) ([]byte, []byte) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(src, []byte("---\n")) {
		return nil, src
	}
	rest := src[4:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, src
	}
	body := rest[end+4:]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return rest[:end], body
}

func (fm frontMatter) apply(doc *chapter.ChapterDocument) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&doc.ChapterTitle, fm.Title)
	set(&doc.Subtitle, fm.Subtitle)
	set(&doc.Weightage, fm.Weightage)
	set(&doc.MapWork, fm.MapWork)
	set(&doc.Importance, fm.Importance)
	set(&doc.PYQFrequency, fm.PYQFrequency)
	set(&doc.PYQ.YearRange, fm.YearRange)
	set(&doc.LearningObjectives, fm.LearningObjectives)
	set(&doc.QRPracticeURL, fm.QRPracticeURL)
	set(&doc.QRAnswersURL, fm.QRAnswersURL)
	if alert := strings.TrimSpace(fm.SyllabusAlert); alert != "" {
		doc.SyllabusAlert = &chapter.Alert{Text: alert}
	}
}

// ParseMarkdown reads a chapter outline:
//
//	---
//	class: 10
//	subject: history
//	chapter: 1
//	title: The Rise of Nationalism in Europe
//	---
//	## Part A
//	- Question | 3 | 2019, 2023
//	## Part B
//	### 1. Concept title
//	Paragraphs...
//	> NCERT: quoted line
//	## Part E
//	- Map item
//	## Part F
//	- Key point
//
// Content it does not recognise is skipped.
func ParseMarkdown(src []byte) (chapter.ChapterDocument, error) {
	header, body := splitFrontMatter(src)
	var fm frontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return chapter.ChapterDocument{}, invalid(errors.Wrap(ErrInvalidOutline, err.Error()), "front matter is not valid YAML")
		}
	}
	subject := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(fm.Subject)), " ", "_")
	if subject == "" || fm.Chapter == 0 {
		return chapter.ChapterDocument{}, invalid(ErrInvalidOutline, "front matter must set the subject and chapter")
	}
	if fm.Class == 0 {
		fm.Class = chapter.DefaultClass
	}

	doc := chapter.New(fm.Class, subject, fm.Chapter)
	doc.Concepts.Items = nil
	fm.apply(&doc)

	o := outline{doc: &doc, src: body}
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		o.block(n)
	}

	if len(doc.Concepts.Items) == 0 {
		doc.Concepts.Items = []chapter.Concept{{Number: 1}}
	}
	doc.Renumber()
	return doc, nil
}

type outline struct {
	doc     *chapter.ChapterDocument
	src     []byte
	part    string
	concept *chapter.Concept
}

func (o *outline) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		o.heading(n)
	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			o.listItem(strings.Join(o.lines(item), " "))
		}
	case *ast.Blockquote:
		for _, l := range o.lines(n) {
			o.quote(l)
		}
	case *ast.Paragraph:
		o.paragraph(strings.Join(o.lines(n), "\n"))
	}
}

func (o *outline) heading(h *ast.Heading) {
	title := strings.Join(o.lines(h), " ")
	switch {
	case h.Level <= 2:
		if m := partRegex.FindStringSubmatch(title); m != nil {
			o.part = strings.ToUpper(m[1])
			o.concept = nil
			return
		}
		if h.Level == 1 && o.part == "" && o.doc.ChapterTitle == "" {
			o.doc.ChapterTitle = title
		}
	case o.part == "B":
		c := chapter.Concept{Title: title}
		if m := conceptRegex.FindStringSubmatch(title); m != nil {
			c.Number, _ = strconv.Atoi(m[1])
			c.Title = strings.TrimSpace(m[2])
		}
		o.doc.Concepts.Items = append(o.doc.Concepts.Items, c)
		o.concept = &o.doc.Concepts.Items[len(o.doc.Concepts.Items)-1]
	}
}

func (o *outline) listItem(item string) {
	if item == "" {
		return
	}
	switch o.part {
	case "A":
		o.doc.PYQ.Items = append(o.doc.PYQ.Items, pyqItem(item))
	case "B":
		if o.concept != nil {
			o.concept.Content = appendLine(o.concept.Content, "- "+item)
		}
	case "E":
		o.doc.PartE.MapItems = append(o.doc.PartE.MapItems, item)
	case "F":
		o.doc.Revision.KeyPoints = append(o.doc.Revision.KeyPoints, item)
	case "G":
		o.doc.Strategy.ProTips = append(o.doc.Strategy.ProTips, item)
	}
}

func (o *outline) paragraph(p string) {
	if p == "" {
		return
	}
	label, value := "", p
	if m := labelRegex.FindStringSubmatch(p); m != nil {
		label, value = strings.ToLower(strings.TrimSuffix(m[1], "?")), strings.TrimSpace(m[2])
	}

	switch o.part {
	case "A":
		switch label {
		case "prediction":
			o.doc.PYQ.Prediction = value
		case "syllabus note":
			o.doc.PYQ.SyllabusNote = value
		}
	case "B":
		if o.concept == nil {
			return
		}
		switch label {
		case "ncert":
			o.concept.NCERTLine = value
		case "memory trick":
			o.concept.MemoryTrick = value
		case "did you know":
			o.concept.DidYouKnow = value
		default:
			o.concept.Content = appendLine(o.concept.Content, p)
		}
	case "E":
		o.doc.PartE.MapTips = appendLine(o.doc.PartE.MapTips, value)
	case "F":
		o.doc.Revision.KeyPoints = append(o.doc.Revision.KeyPoints, p)
	}
}

func (o *outline) quote(l string) {
	if o.part != "B" || o.concept == nil {
		return
	}
	if m := labelRegex.FindStringSubmatch(l); m != nil && strings.EqualFold(m[1], "ncert") {
		o.concept.NCERTLine = strings.TrimSpace(m[2])
		return
	}
	o.concept.Content = appendLine(o.concept.Content, l)
}

// lines returns the cleaned source lines of n and its descendants; raw HTML is stripped.
func (o *outline) lines(n ast.Node) []string {
	var out []string
	if n.Type() == ast.TypeBlock {
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			if l := clean(string(seg.Value(o.src))); l != "" {
				out = append(out, l)
			}
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			out = append(out, o.lines(c)...)
		}
	}
	return out
}

func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// pyqItem reads "question | marks | years"; missing cells stay blank and extra cells are years.
func pyqItem(row string) chapter.PYQItem {
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	it := chapter.PYQItem{Question: cells[0]}
	if len(cells) > 1 {
		it.Marks = cells[1]
	}
	if len(cells) > 2 {
		var years []string
		for _, c := range cells[2:] {
			if c != "" {
				years = append(years, c)
			}
		}
		it.Years = strings.Join(years, ", ")
	}
	return it
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}

package render

import (
	"fmt"
	"strings"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/style"
)

var assertionReasonOptions = []string{
	"(a) Both A and R are true and R is the correct explanation of A",
	"(b) Both A and R are true but R is NOT the correct explanation of A",
	"(c) A is true but R is false",
	"(d) A is false but R is true",
}

// Part D

func (r renderer) practice(p chapter.Part) []document.Block {
	sec := r.doc.Practice
	blocks := []document.Block{r.partHeader(title(p))}

	if qs := questions(sec.MCQs); len(qs) > 0 {
		blocks = append(blocks, r.countTitle("1. MCQs (Multiple Choice Questions)", len(qs)), r.difficultyLegend())
		for i, q := range qs {
			blocks = append(blocks, r.mcq(i+1, q)...)
		}
		blocks = append(blocks, r.answerKey("Answers (MCQs)", qs)...)
	}

	if qs := questions(sec.AssertionReason); len(qs) > 0 {
		blocks = append(blocks,
			r.countTitle("2. Assertion-Reason Questions", len(qs)),
			document.Body(document.Italic("Directions: In the following questions, a statement of Assertion (A) "+
				"is followed by a statement of Reason (R). Choose the correct option.", r.t.Colors.Body)),
		)
		for _, opt := range assertionReasonOptions {
			blocks = append(blocks, document.Indented(0.25, document.Plain(opt)))
		}
		for i, q := range qs {
			blocks = append(blocks, r.assertionReason(i+1, q)...)
		}
		blocks = append(blocks, r.answerKey("Answers (Assertion-Reason)", qs)...)
	}

	if len(sec.SourceBased) > 0 {
		blocks = append(blocks, r.countTitle("3. Source-Based Questions", len(sec.SourceBased)))
		for i, sb := range sec.SourceBased {
			box := document.NewBox(style.BoxNeutral, document.Body(
				document.Bold(fmt.Sprintf("Source %c: ", 'A'+rune(i%26)), r.t.Colors.HeadingBlue),
				document.Italic(`"`+sb.Source+`"`, r.t.Colors.Body),
			))
			blocks = append(blocks, box)
			blocks = append(blocks, r.subQuestions(sb.Questions)...)
		}
	}

	if len(sec.CaseStudies) > 0 {
		blocks = append(blocks, r.countTitle("4. Case Study Questions (NEW PATTERN)", len(sec.CaseStudies)))
		for i, cs := range sec.CaseStudies {
			name := cs.Title
			if strings.TrimSpace(name) == "" {
				name = fmt.Sprintf("Case Study %d", i+1)
			}
			blocks = append(blocks,
				document.Body(document.Bold("Case Study: "+name, r.t.Colors.HeadingBlue)),
				document.NewBox(style.BoxNeutral, r.lines(style.BodyText, cs.Passage, false)...),
			)
			blocks = append(blocks, r.subQuestions(cs.Questions)...)
		}
	}

	lists := []struct {
		title string
		qs    []chapter.Question
	}{
		{"5. Short Answer Questions (3 Marks)", sec.ShortAnswer},
		{"6. Long Answer Questions (5 Marks)", sec.LongAnswer},
		{"7. HOTS (Higher Order Thinking Skills)", sec.HOTS},
		{"8. Competency-Based Questions (CBQs)", sec.CompetencyBased},
		{"9. Value-Based Questions", sec.ValueBased},
	}
	for _, l := range lists {
		if qs := questions(l.qs); len(qs) > 0 {
			blocks = append(blocks, r.countTitle(l.title, len(qs)))
			blocks = append(blocks, r.questionList(qs)...)
		}
	}
	return blocks
}

func questions(qs []chapter.Question) []chapter.Question {
	var out []chapter.Question
	for _, q := range qs {
		if !q.IsEmpty() {
			out = append(out, q)
		}
	}
	return out
}

func (r renderer) countTitle(text string, count int) document.Block {
	return document.P(style.SectionTitle,
		document.Bold(text, r.t.Colors.HeadingBlue),
		document.Colored(fmt.Sprintf(" (%d)", count), r.t.Colors.Body),
	)
}

func (r renderer) difficultyLegend() document.Block {
	return document.Body(
		document.Bold("[E]", r.t.DifficultyColor("E")), document.Plain(" Easy  "),
		document.Bold("[M]", r.t.DifficultyColor("M")), document.Plain(" Medium  "),
		document.Bold("[H]", r.t.DifficultyColor("H")), document.Plain(" Hard"),
	)
}

func (r renderer) mcq(n int, q chapter.Question) []document.Block {
	diff := style.Difficulty(strings.ToUpper(strings.TrimSpace(q.Difficulty)))
	para := document.P(style.Question,
		document.Bold("["+diff+"] ", r.t.DifficultyColor(diff)),
		document.Plain(fmt.Sprintf("%d. ", n)),
	)
	para.Runs = append(para.Runs, r.runs(q.Question, false)...)

	blocks := []document.Block{para}
	for i, opt := range q.Options {
		blocks = append(blocks, document.Indented(0.5, document.Plain(fmt.Sprintf("(%c) %s", 'a'+rune(i%26), opt))))
	}
	return blocks
}

// assertionReason splits "Assertion: ... Reason: ..." into two paragraphs.
func (r renderer) assertionReason(n int, q chapter.Question) []document.Block {
	assertion, reason := q.Question, ""
	if i := strings.Index(q.Question, "Reason:"); i >= 0 {
		assertion, reason = q.Question[:i], strings.TrimSpace(q.Question[i+len("Reason:"):])
	}
	assertion = strings.TrimSpace(strings.Replace(assertion, "Assertion:", "", 1))

	para := document.P(style.Question, document.Bold(fmt.Sprintf("%d. Assertion: ", n), ""))
	para.Runs = append(para.Runs, r.runs(assertion, false)...)
	blocks := []document.Block{para}
	if reason != "" {
		rp := document.Body(document.Bold("Reason: ", ""))
		rp.Runs = append(rp.Runs, r.runs(reason, false)...)
		blocks = append(blocks, rp)
	}
	return blocks
}

// answerKey lists "1(b)  2(c)" for answered questions; nothing when none is answered.
func (r renderer) answerKey(name string, qs []chapter.Question) []document.Block {
	var keys []string
	for i, q := range qs {
		if a := strings.TrimSpace(q.Answer); a != "" {
			keys = append(keys, fmt.Sprintf("%d(%s)", i+1, a))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return []document.Block{document.NewSideBox(style.BoxTip,
		document.Body(document.Bold(r.t.Icons.Correct+" "+name, r.t.Colors.Green)),
		document.Body(document.Colored(strings.Join(keys, "  "), r.t.Colors.Body)),
	)}
}

func (r renderer) subQuestions(qs []chapter.SubQuestion) []document.Block {
	var blocks []document.Block
	for i, q := range qs {
		marks := q.Marks
		if marks == 0 {
			marks = 1
		}
		blocks = append(blocks, document.Indented(0.25,
			document.Bold(fmt.Sprintf("(%s) ", roman(i+1)), ""),
			document.Plain(q.Question+" "),
			document.Colored(fmt.Sprintf("[%d]", marks), r.t.Colors.AccentRed),
		))
	}
	return blocks
}

func (r renderer) questionList(qs []chapter.Question) []document.Block {
	var blocks []document.Block
	for i, q := range qs {
		para := document.Body(document.Bold(fmt.Sprintf("%d. ", i+1), ""))
		para.Runs = append(para.Runs, r.runs(q.Question, false)...)
		if q.Marks > 0 {
			para.Runs = append(para.Runs, document.Colored(fmt.Sprintf(" [%dM]", q.Marks), r.t.Colors.AccentRed))
		}
		blocks = append(blocks, para)
		if strings.TrimSpace(q.Hint) != "" {
			blocks = append(blocks, document.Indented(0.25,
				document.Bold(r.t.Icons.Tip+" Hint: ", r.t.Colors.Green),
				document.Italic(q.Hint, r.t.Colors.Body),
			))
		}
	}
	return blocks
}

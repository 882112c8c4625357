package chapter

import (
	"fmt"
	"math"
	"strings"
)

// Progress statuses
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusEmpty    = "empty"

	completeThreshold = 80
	partialThreshold  = 1
)

type (
	SectionProgress struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
		Status     string  `json:"status"`
	}

	Progress struct {
		Overall  float64           `json:"overall"`
		Status   string            `json:"status"`
		Sections []SectionProgress `json:"sections"`
		Complete int               `json:"complete"`
		Partial  int               `json:"partial"`
		Empty    int               `json:"empty"`
	}
)

func status(pct float64) string {
	switch {
	case pct >= completeThreshold:
		return StatusComplete
	case pct >= partialThreshold:
		return StatusPartial
	}
	return StatusEmpty
}

// ComputeProgress scores the cover and every enabled part out of 100; overall is their average.
func ComputeProgress(doc ChapterDocument) Progress {
	sections := []SectionProgress{{ID: "cover", Name: "Cover Page", Percentage: coverProgress(doc)}}
	for _, p := range doc.Parts.Enabled() {
		sections = append(sections, SectionProgress{
			ID:         "part_" + strings.ToLower(p.ID),
			Name:       fmt.Sprintf("Part %s: %s", p.ID, p.Name),
			Percentage: partProgress(doc, p.ID),
		})
	}

	var prog Progress
	var total float64
	for i := range sections {
		sections[i].Percentage = round(sections[i].Percentage)
		sections[i].Status = status(sections[i].Percentage)
		total += sections[i].Percentage
		switch sections[i].Status {
		case StatusComplete:
			prog.Complete++
		case StatusPartial:
			prog.Partial++
		default:
			prog.Empty++
		}
	}
	prog.Sections = sections
	prog.Overall = round(total / float64(len(sections)))
	prog.Status = status(prog.Overall)
	return prog
}

func partProgress(doc ChapterDocument, id string) float64 {
	switch id {
	case "A":
		return pyqProgress(doc)
	case "B":
		return conceptsProgress(doc)
	case "C":
		return answersProgress(doc)
	case "D":
		return practiceProgress(doc)
	case "E":
		return partEProgress(doc)
	case "F":
		return revisionProgress(doc)
	case "G":
		return strategyProgress(doc)
	}
	return 0
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

func capped(max float64, n int, per float64) float64 {
	return math.Min(max, float64(n)*per)
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

func coverProgress(doc ChapterDocument) float64 {
	var score float64
	if filled(doc.ChapterTitle) {
		score += 30
	}
	if filled(doc.LearningObjectives) {
		score += 40
	}
	for _, s := range []string{doc.Weightage, doc.Importance, doc.PYQFrequency} {
		if filled(s) {
			score += 10
		}
	}
	return score
}

func pyqProgress(doc ChapterDocument) float64 {
	var n int
	for _, it := range doc.PYQ.Items {
		if !it.IsEmpty() {
			n++
		}
	}
	score := capped(60, n, 10)
	if filled(doc.PYQ.Prediction) {
		score += 20
	}
	if filled(doc.PYQ.YearRange) {
		score += 10
	}
	if filled(doc.PYQ.SyllabusNote) {
		score += 10
	}
	return math.Min(100, score)
}

func conceptsProgress(doc ChapterDocument) float64 {
	var concepts, tricks int
	for _, c := range doc.Concepts.Items {
		if c.IsEmpty() {
			continue
		}
		concepts++
		if filled(c.MemoryTrick) {
			tricks++
		}
	}
	score := capped(70, concepts, 14) + capped(10, tricks, 2)
	if len(doc.Concepts.ComparisonTables) > 0 {
		score += 10
	}
	if len(doc.Concepts.CommonMistakes) > 0 {
		score += 5
	}
	if len(doc.Concepts.ImportantDates) > 0 {
		score += 5
	}
	return math.Min(100, score)
}

func answersProgress(doc ChapterDocument) float64 {
	var n int
	for _, a := range doc.Answers.Items {
		if !a.IsEmpty() {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	score := capped(100, n, 20)
	if filled(doc.Answers.ExaminerTips) {
		score += 10
	}
	return math.Min(100, score)
}

func practiceProgress(doc ChapterDocument) float64 {
	p := doc.Practice
	score := capped(20, len(p.MCQs), 1) +
		capped(10, len(p.AssertionReason), 1.25) +
		capped(20, len(p.ShortAnswer), 2) +
		capped(20, len(p.LongAnswer), 3.33) +
		capped(10, len(p.HOTS), 2.5) +
		capped(10, len(p.SourceBased)+len(p.CaseStudies), 5) +
		capped(10, len(p.CompetencyBased)+len(p.ValueBased), 2.5)
	return math.Min(100, score)
}

func partEProgress(doc ChapterDocument) float64 {
	if !doc.MapWorkApplicable() {
		return 100
	}
	score := capped(60, len(doc.PartE.MapItems), 10)
	if filled(doc.PartE.MapImage) {
		score += 30
	}
	if filled(doc.PartE.MapTips) {
		score += 10
	}
	return math.Min(100, score)
}

func revisionProgress(doc ChapterDocument) float64 {
	r := doc.Revision
	score := capped(40, len(r.KeyPoints), 4) +
		capped(30, len(r.KeyTerms), 5) +
		capped(15, len(r.Timeline), 1.5) +
		capped(15, len(r.MemoryTricks), 3)
	return math.Min(100, score)
}

func strategyProgress(doc ChapterDocument) float64 {
	s := doc.Strategy
	var score float64
	if len(s.TimeAllocation) > 0 {
		score += 25
	}
	score += capped(25, len(s.MarkLosers), 3) +
		capped(25, len(s.ProTips), 5) +
		capped(25, len(s.Checklist), 6.25)
	return math.Min(100, score)
}

package chapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Limits
const (
	MinClass        = 9
	MaxClass        = 12
	MinChapter      = 1
	MaxChapter      = 20
	MaxTitleLen     = 200
	MaxContentLen   = 10000
	MaxAnswerLen    = 5000
	MaxConcepts     = 50
	MaxQuestions    = 100
	DefaultClass    = 10
	DefaultYearSpan = "2015-2024"
)

// Key identifies a chapter: one document per class, subject and chapter number.
type Key struct {
	Class   int    `json:"class_num"`
	Subject string `json:"subject"`
	Chapter int    `json:"chapter_number"`
}

// String is the canonical storage name, e.g. "class_10_history_ch01".
func (k Key) String() string {
	return fmt.Sprintf("class_%d_%s_ch%02d", k.Class, k.Subject, k.Chapter)
}

// ParseKey parses the canonical storage name back to a Key.
func ParseKey(s string) (Key, bool) {
	s = strings.TrimSuffix(s, ".json")
	if !strings.HasPrefix(s, "class_") {
		return Key{}, false
	}
	rest := strings.TrimPrefix(s, "class_")
	i := strings.IndexByte(rest, '_')
	j := strings.LastIndex(rest, "_ch")
	if i < 0 || j <= i {
		return Key{}, false
	}
	class, err := strconv.Atoi(rest[:i])
	if err != nil {
		return Key{}, false
	}
	num, err := strconv.Atoi(rest[j+3:])
	if err != nil {
		return Key{}, false
	}
	return Key{Class: class, Subject: rest[i+1 : j], Chapter: num}, true
}

type (
	// ChapterDocument holds everything needed to generate one chapter guide.
	// Empty fields are allowed: generation skips what is missing.
	ChapterDocument struct {
		// cover
		ClassNum           int               `json:"class_num" validate:"min=9,max=12"`
		Subject            string            `json:"subject" validate:"subject"`
		ChapterNumber      int               `json:"chapter_number" validate:"min=1,max=20"`
		ChapterTitle       string            `json:"chapter_title" validate:"max=200"`
		Subtitle           string            `json:"subtitle" validate:"max=300"`
		Weightage          string            `json:"weightage"`
		MapWork            string            `json:"map_work" validate:"omitempty,oneof=Yes No"`
		Importance         string            `json:"importance"`
		PYQFrequency       string            `json:"pyq_frequency"`
		SyllabusAlert      *Alert            `json:"syllabus_alert,omitempty"`
		LearningObjectives string            `json:"learning_objectives" validate:"max=10000"`
		QRPracticeURL      string            `json:"qr_practice_url"`
		QRAnswersURL       string            `json:"qr_answers_url"`
		PartDescriptions   map[string]string `json:"part_descriptions,omitempty"`

		PYQ      PYQSection      `json:"pyq"`
		Concepts ConceptSection  `json:"concepts"`
		Answers  AnswerSection   `json:"answers"`
		Practice PracticeSection `json:"practice"`
		PartE    PartESection    `json:"part_e"`
		Revision RevisionSection `json:"revision"`
		Strategy StrategySection `json:"strategy"`

		Parts Parts        `json:"parts" validate:"dive"`
		Page  PageSettings `json:"page"`

		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Alert is the cover syllabus alert; a nil alert is not shown.
	Alert struct {
		Text string `json:"text"`
	}

	PYQSection struct {
		YearRange    string    `json:"year_range"`
		Items        []PYQItem `json:"items" validate:"max=100"`
		Prediction   string    `json:"prediction"`
		SyllabusNote string    `json:"syllabus_note"`
	}

	PYQItem struct {
		Question string `json:"question"`
		Marks    string `json:"marks"`
		Years    string `json:"years"` // comma separated
	}

	ConceptSection struct {
		Items            []Concept         `json:"items" validate:"max=50,dive"`
		ComparisonTables []ComparisonTable `json:"comparison_tables"`
		CommonMistakes   []string          `json:"common_mistakes"`
		ImportantDates   []DatedEvent      `json:"important_dates"`
	}

	Concept struct {
		Number      int    `json:"number"`
		Title       string `json:"title" validate:"max=200"`
		Content     string `json:"content" validate:"max=10000"`
		NCERTLine   string `json:"ncert_line"`
		MemoryTrick string `json:"memory_trick"`
		DidYouKnow  string `json:"did_you_know"`
	}

	ComparisonTable struct {
		Title   string     `json:"title"`
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}

	DatedEvent struct {
		Year  string `json:"year"`
		Event string `json:"event"`
	}

	AnswerSection struct {
		Items        []ModelAnswer `json:"items" validate:"max=100,dive"`
		ExaminerTips string        `json:"examiner_tips"`
	}

	ModelAnswer struct {
		Question      string   `json:"question"`
		Marks         int      `json:"marks"`
		Answer        string   `json:"answer" validate:"max=5000"`
		MarkingPoints []string `json:"marking_points"`
	}

	PracticeSection struct {
		MCQs            []Question    `json:"mcqs" validate:"max=100"`
		AssertionReason []Question    `json:"assertion_reason" validate:"max=100"`
		SourceBased     []SourceBased `json:"source_based" validate:"max=100"`
		CaseStudies     []CaseStudy   `json:"case_studies" validate:"max=100"`
		ShortAnswer     []Question    `json:"short_answer" validate:"max=100"`
		LongAnswer      []Question    `json:"long_answer" validate:"max=100"`
		HOTS            []Question    `json:"hots" validate:"max=100"`
		CompetencyBased []Question    `json:"competency_based" validate:"max=100"`
		ValueBased      []Question    `json:"value_based" validate:"max=100"`
	}

	Question struct {
		Question   string   `json:"question"`
		Marks      int      `json:"marks"`
		Difficulty string   `json:"difficulty"` // E, M or H
		Options    []string `json:"options,omitempty"`
		Answer     string   `json:"answer"`
		Hint       string   `json:"hint"`
	}

	SubQuestion struct {
		Question string `json:"question"`
		Marks    int    `json:"marks"`
	}

	SourceBased struct {
		Source    string        `json:"source"`
		Questions []SubQuestion `json:"questions"`
	}

	CaseStudy struct {
		Title     string        `json:"title"`
		Passage   string        `json:"passage"`
		Questions []SubQuestion `json:"questions"`
	}

	// PartESection holds map work and every subject specific Part E variant.
	// Only the variant matching the chapter subject is rendered.
	PartESection struct {
		MapWorkNA bool     `json:"map_work_na"`
		MapItems  []string `json:"map_items"`
		MapImage  string   `json:"map_image"` // uploaded image name
		MapTips   string   `json:"map_tips"`

		Articles      []Article     `json:"articles,omitempty"`
		Amendments    []Amendment   `json:"amendments,omitempty"`
		Graphs        []Graph       `json:"graphs,omitempty"`
		Formulas      []Formula     `json:"formulas,omitempty"`
		GrammarRules  []GrammarRule `json:"grammar_rules,omitempty"`
		LabActivities []LabActivity `json:"lab_activities,omitempty"`
	}

	Article struct {
		Number      string   `json:"article_number"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		KeyPoints   []string `json:"key_points"`
		CaseStudies []string `json:"case_studies"`
	}

	Amendment struct {
		Number      string `json:"number"`
		Year        string `json:"year"`
		Description string `json:"description"`
	}

	Graph struct {
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Image       string      `json:"image"` // uploaded image name
		DataPoints  []DataPoint `json:"data_points"`
		Analysis    string      `json:"analysis"` // one point per line
	}

	DataPoint struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	Formula struct {
		Category  string            `json:"category"`
		Name      string            `json:"name"`
		Formula   string            `json:"formula"`
		Variables map[string]string `json:"variables"`
		Example   string            `json:"example"`
	}

	GrammarRule struct {
		Topic          string           `json:"topic"`
		Rule           string           `json:"rule"`
		Examples       []GrammarExample `json:"examples"`
		CommonMistakes []string         `json:"common_mistakes"`
		Practice       []string         `json:"practice"`
	}

	GrammarExample struct {
		Correct   string `json:"correct"`
		Incorrect string `json:"incorrect"`
	}

	LabActivity struct {
		Name         string   `json:"name"`
		Aim          string   `json:"aim"`
		Materials    []string `json:"materials"`
		Diagram      string   `json:"diagram"` // uploaded image name
		Procedure    []string `json:"procedure"`
		Observations string   `json:"observations"`
		Conclusion   string   `json:"conclusion"`
		Precautions  []string `json:"precautions"`
	}

	RevisionSection struct {
		KeyPoints    []string     `json:"key_points"`
		KeyTerms     []KeyTerm    `json:"key_terms"`
		Timeline     []DatedEvent `json:"timeline"`
		MemoryTricks []string     `json:"memory_tricks"`
	}

	KeyTerm struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	}

	StrategySection struct {
		TimeAllocation []TimeSlot  `json:"time_allocation"`
		MarkLosers     []MarkLoser `json:"mark_losers"`
		ProTips        []string    `json:"pro_tips"`
		Checklist      []string    `json:"checklist"`
	}

	TimeSlot struct {
		Type  string `json:"type"`
		Marks string `json:"marks"`
		Time  string `json:"time"`
	}

	MarkLoser struct {
		Mistake    string `json:"mistake"`
		Correction string `json:"correction"`
	}

	PageSettings struct {
		Size           string `json:"size" validate:"omitempty,pagesize"`
		Numbering      bool   `json:"numbering"`
		NumberPosition string `json:"number_position" validate:"omitempty,numberpos"`
	}
)

// New returns an empty chapter with default cover values and parts.
func New(class int, subject string, number int) ChapterDocument {
	return ChapterDocument{
		ClassNum:      class,
		Subject:       subject,
		ChapterNumber: number,
		Weightage:     "4-5 Marks",
		MapWork:       "No",
		Importance:    "High",
		PYQFrequency:  "Every Year",
		PYQ:           PYQSection{YearRange: DefaultYearSpan},
		Concepts:      ConceptSection{Items: []Concept{{Number: 1}}},
		Parts:         DefaultPartsFor(subject),
		Page:          PageSettings{Size: "A4", Numbering: true, NumberPosition: "Bottom Center"},
	}
}

func (doc ChapterDocument) Key() Key {
	return Key{Class: doc.ClassNum, Subject: doc.Subject, Chapter: doc.ChapterNumber}
}

// FullTitle is the running header text, e.g. "Chapter 1: The Rise of Nationalism in Europe".
func (doc ChapterDocument) FullTitle() string {
	return fmt.Sprintf("Chapter %d: %s", doc.ChapterNumber, doc.ChapterTitle)
}

// MapWorkApplicable reports whether Part E map work has content to show.
func (doc ChapterDocument) MapWorkApplicable() bool {
	return !doc.PartE.MapWorkNA && doc.MapWork != "No"
}

// PartDescription returns the cover description of a part; the chapter override wins.
func (doc ChapterDocument) PartDescription(p Part) string {
	if d := strings.TrimSpace(doc.PartDescriptions[p.ID]); d != "" {
		return d
	}
	return p.Description
}

// Renumber numbers concepts 1..n in their current order.
func (doc *ChapterDocument) Renumber() {
	for i := range doc.Concepts.Items {
		doc.Concepts.Items[i].Number = i + 1
	}
}

// Warnings lists content a reader would expect but that is missing. Generation proceeds regardless.
func (doc ChapterDocument) Warnings() []string {
	var warns []string
	if strings.TrimSpace(doc.ChapterTitle) == "" {
		warns = append(warns, "chapter title is empty")
	}
	if len(doc.Parts.Enabled()) == 0 {
		warns = append(warns, "no part is enabled")
	}
	if doc.SyllabusAlert != nil && strings.TrimSpace(doc.SyllabusAlert.Text) == "" {
		warns = append(warns, "syllabus alert is enabled but empty")
	}
	return warns
}

func (it PYQItem) IsEmpty() bool { return strings.TrimSpace(it.Question) == "" }

// YearCount counts the comma separated years an item appeared in.
func (it PYQItem) YearCount() int {
	var n int
	for _, y := range strings.Split(it.Years, ",") {
		if strings.TrimSpace(y) != "" {
			n++
		}
	}
	return n
}

func (c Concept) IsEmpty() bool {
	return strings.TrimSpace(c.Title) == "" && strings.TrimSpace(c.Content) == ""
}

func (a ModelAnswer) IsEmpty() bool {
	return strings.TrimSpace(a.Question) == "" && strings.TrimSpace(a.Answer) == ""
}

func (q Question) IsEmpty() bool { return strings.TrimSpace(q.Question) == "" }

// EndYear returns the last year of a "2015-2024" range.
func EndYear(yearRange string) (int, bool) {
	parts := strings.Split(yearRange, "-")
	y, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0, false
	}
	return y, true
}

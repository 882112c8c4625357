package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

// Entry is one call recorded by Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records log calls instead of reporting them.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Messages returns the recorded messages of a level.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

// Config returns a test configuration rooted at dir.
func Config(dir string) *core.Config {
	return &core.Config{
		TestMode: true,
		Env:      "TEST",
		AppName:  "Guidebook",
		Server:   core.ServerConfig{ShutdownTimeout: time.Second, DisableReqLogs: true},
		Storage: core.StorageConfig{
			Driver:           "memory",
			DataDir:          dir,
			AutosaveInterval: 5 * time.Second,
			MaxSnapshots:     10,
		},
		Uploads: core.UploadsConfig{Dir: dir + "/images", MaxBytes: 1 << 20, MaxWidth: 1600},
		Export:  core.ExportConfig{OutputDir: dir + "/output", PDFEnabled: true},
	}
}

// SampleChapter returns a history chapter with content in every part.
func SampleChapter() chapter.ChapterDocument {
	doc := chapter.New(10, "history", 1)
	doc.ChapterTitle = "The Rise of Nationalism in Europe"
	doc.Subtitle = "From the French Revolution to the unification of Germany and Italy"
	doc.MapWork = "Yes"
	doc.SyllabusAlert = &chapter.Alert{Text: "Section on the Balkans is for periodic assessment only."}
	doc.LearningObjectives = "- Explain the rise of **nationalism**\n- Describe the unification of *Italy*"
	doc.QRPracticeURL = "https://example.com/practice/ch1"

	doc.PYQ.Items = []chapter.PYQItem{
		{Question: "Describe the process of unification of Germany.", Marks: "5", Years: "2019, 2020, 2023"},
		{Question: "What was the Treaty of Vienna?", Marks: "3", Years: "2018"},
	}
	doc.PYQ.Prediction = "Unification of Germany is very likely."
	doc.PYQ.SyllabusNote = "Based on the current syllabus."

	doc.Concepts.Items = []chapter.Concept{
		{
			Number:      1,
			Title:       "The French Revolution and the Idea of the Nation",
			Content:     "The first clear expression of nationalism came with the French Revolution in 1789.\n- *la patrie* and *le citoyen*\n- a new **French flag**",
			NCERTLine:   "The French Revolution transferred sovereignty from the monarch to the citizens.",
			MemoryTrick: "PaCi: Patrie and Citoyen",
			DidYouKnow:  "The tricolour replaced the royal standard.",
		},
		{Number: 2, Title: "The Making of Germany", Content: "Otto von Bismarck led the unification in 1871."},
	}
	doc.Concepts.ComparisonTables = []chapter.ComparisonTable{{
		Title:   "Liberalism vs Conservatism",
		Headers: []string{"Aspect", "Liberals", "Conservatives"},
		Rows:    [][]string{{"Monarchy", "Against", "For"}},
	}}
	doc.Concepts.CommonMistakes = []string{"Confusing the Treaty of Vienna with the Treaty of Versailles"}
	doc.Concepts.ImportantDates = []chapter.DatedEvent{{Year: "1815", Event: "Treaty of Vienna"}}

	doc.Answers.Items = []chapter.ModelAnswer{{
		Question:      "Explain the role of Bismarck in German unification.",
		Marks:         5,
		Answer:        "- Prussia took the lead\n- Three wars over seven years",
		MarkingPoints: []string{"Role of Prussia", "The three wars"},
	}}

	doc.Practice.MCQs = []chapter.Question{{Question: "Who was Giuseppe Mazzini?", Marks: 1, Difficulty: "E", Options: []string{"A revolutionary", "A king", "A painter", "A poet"}, Answer: "A"}}
	doc.Practice.ShortAnswer = []chapter.Question{{Question: "What is a nation state?", Marks: 3, Difficulty: "M"}}

	doc.PartE.MapItems = []string{"Kingdom of Sardinia-Piedmont", "Prussia"}
	doc.PartE.MapTips = "Mark locations with a dot."

	doc.Revision.KeyPoints = []string{"Nationalism grew in the 19th century", "Germany unified in 1871"}
	doc.Revision.KeyTerms = []chapter.KeyTerm{{Term: "Plebiscite", Definition: "A direct vote by the people"}}
	doc.Revision.Timeline = []chapter.DatedEvent{{Year: "1848", Event: "Frankfurt Parliament"}}

	doc.Strategy.TimeAllocation = []chapter.TimeSlot{{Type: "5 marks", Marks: "5", Time: "8 min"}}
	doc.Strategy.ProTips = []string{"Underline dates"}
	doc.Strategy.Checklist = []string{"Revise the timeline"}

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc.CreatedAt, doc.UpdatedAt = ts, ts
	return doc
}

// SaveChapter stores doc in repo or fails the test.
func SaveChapter(t *testing.T, repo chapter.Repository, doc chapter.ChapterDocument) chapter.ChapterDocument {
	t.Helper()
	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("SaveChapter(%s) failed: %v", doc.Key(), err)
	}
	return doc
}

// ChapterPath returns the API path of a chapter.
func ChapterPath(key chapter.Key, suffix ...string) string {
	path := fmt.Sprintf("/v1/chapters/%d/%s/%d", key.Class, key.Subject, key.Chapter)
	for _, s := range suffix {
		path += "/" + s
	}
	return path
}

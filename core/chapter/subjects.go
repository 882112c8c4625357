package chapter

// Subject ids
const (
	History          = "history"
	Geography        = "geography"
	PoliticalScience = "political_science"
	Economics        = "economics"
	Mathematics      = "mathematics"
	Science          = "science"
	English          = "english"
)

// Subject is the static profile of a school subject.
type Subject struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Accent     string            `json:"accent_color"`
	HasMapWork bool              `json:"has_map_work"`
	PartNames  map[string]string `json:"part_names"`
}

var (
	SubjectIDs = []string{History, Geography, PoliticalScience, Economics, Mathematics, Science, English}

	subjects = map[string]Subject{
		History: {
			ID: History, Name: "History", Category: "Social Science", Accent: "#B45309", HasMapWork: true,
		},
		Geography: {
			ID: Geography, Name: "Geography", Category: "Social Science", Accent: "#059669", HasMapWork: true,
		},
		PoliticalScience: {
			ID: PoliticalScience, Name: "Political Science", Category: "Social Science", Accent: "#7C3AED",
			PartNames: map[string]string{"E": "Constitutional Articles"},
		},
		Economics: {
			ID: Economics, Name: "Economics", Category: "Social Science", Accent: "#0891B2",
			PartNames: map[string]string{"E": "Graphs & Data Analysis"},
		},
		Mathematics: {
			ID: Mathematics, Name: "Mathematics", Category: "Mathematics", Accent: "#2563EB",
			PartNames: map[string]string{
				"B": "Key Concepts & Formulas",
				"C": "Solved Examples",
				"D": "Practice Problems",
				"E": "Formula Sheet",
			},
		},
		Science: {
			ID: Science, Name: "Science", Category: "Science", Accent: "#059669",
			PartNames: map[string]string{
				"C": "Diagrams & Experiments",
				"D": "Numericals & Practice",
				"E": "Lab Manual Summary",
			},
		},
		English: {
			ID: English, Name: "English", Category: "English", Accent: "#DC2626",
			PartNames: map[string]string{
				"B": "Summary & Themes",
				"C": "Character Sketches",
				"D": "Important Questions",
				"E": "Grammar Focus",
				"F": "Writing Formats",
			},
		},
	}
)

// IsSubject reports whether id is a known subject.
func IsSubject(id string) bool {
	_, ok := subjects[id]
	return ok
}

// LookupSubject returns the subject profile; unknown ids get the History profile.
func LookupSubject(id string) Subject {
	if s, ok := subjects[id]; ok {
		return s
	}
	return subjects[History]
}

// Subjects returns every subject profile in display order.
func Subjects() []Subject {
	list := make([]Subject, 0, len(SubjectIDs))
	for _, id := range SubjectIDs {
		list = append(list, subjects[id])
	}
	return list
}

// PartName returns the subject specific name of a standard part, or the default name.
func (s Subject) PartName(id string) string {
	if name, ok := s.PartNames[id]; ok {
		return name
	}
	for _, p := range defaultParts {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// Options lists the values offered by the chapter form.
type Options struct {
	Classes         []int    `json:"classes"`
	Subjects        []string `json:"subjects"`
	Weightage       []string `json:"weightage"`
	Importance      []string `json:"importance"`
	PYQFrequency    []string `json:"pyq_frequency"`
	YearRanges      []string `json:"year_ranges"`
	Difficulties    []string `json:"difficulties"`
	PageSizes       []string `json:"page_sizes"`
	NumberPositions []string `json:"number_positions"`
}

func FormOptions(pageSizes, numberPositions []string) Options {
	return Options{
		Classes:         []int{9, 10, 11, 12},
		Subjects:        SubjectIDs,
		Weightage:       []string{"1-2 Marks", "2-3 Marks", "3-4 Marks", "4-5 Marks", "5-6 Marks", "6-8 Marks"},
		Importance:      []string{"High", "Medium", "Low-Medium", "Low"},
		PYQFrequency:    []string{"Every Year", "High", "Moderate", "Low", "Rare"},
		YearRanges:      []string{"2015-2024", "2016-2025", "2017-2026", "2018-2027", "2019-2028"},
		Difficulties:    []string{"E", "M", "H"},
		PageSizes:       pageSizes,
		NumberPositions: numberPositions,
	}
}

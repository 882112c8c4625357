package style

// Lookups from user-chosen values to colors. Unknown values get the body color, never an error.

// ImportanceColor maps a chapter importance. "Low-Medium" and "Low" share green.
func (t Theme) ImportanceColor(importance string) Color {
	switch importance {
	case "High":
		return t.Colors.AccentRed
	case "Medium":
		return t.Colors.Orange
	case "Low-Medium", "Low":
		return t.Colors.Green
	}
	return t.Colors.Body
}

// FrequencyColor maps the PYQ frequency of a chapter.
func (t Theme) FrequencyColor(frequency string) Color {
	switch frequency {
	case "Every Year", "High":
		return t.Colors.AccentRed
	case "Moderate":
		return t.Colors.PrimaryBlue
	case "Low":
		return t.Colors.Green
	case "Rare":
		return t.Colors.LightGray
	}
	return t.Colors.Body
}

// PYQCountColor maps how many times a question appeared in past papers.
func (t Theme) PYQCountColor(count int) Color {
	switch {
	case count >= 6:
		return t.Colors.AccentRed
	case count == 5:
		return t.Colors.PrimaryBlue
	case count >= 3:
		return t.Colors.Green
	}
	return t.Colors.Body
}

// PYQRowBackground is the PYQ table row background; empty for questions seen less than 3 times.
func (t Theme) PYQRowBackground(count int) Color {
	switch {
	case count >= 6:
		return t.Colors.BgWarning
	case count == 5:
		return t.Colors.BgInfo
	case count >= 3:
		return t.Colors.BgTip
	}
	return ""
}

// DifficultyColor maps E/M/H; anything else is shown as medium.
func (t Theme) DifficultyColor(difficulty string) Color {
	switch difficulty {
	case "E":
		return t.Colors.Green
	case "H":
		return t.Colors.AccentRed
	}
	return t.Colors.Orange
}

// Difficulty normalizes a difficulty tag to E, M or H.
func Difficulty(difficulty string) string {
	switch difficulty {
	case "E", "M", "H":
		return difficulty
	}
	return "M"
}

// Package markup tokenizes the inline markup accepted in free-text fields:
// **bold**, *italic*, ***bold-italic*** and "-" bullet lines.
//
// Malformed markup never fails: a delimiter without a matching closing run is kept as literal text.
package markup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxRun = 3

var yearRegex = regexp.MustCompile(`\b(1[789]\d{2}|20\d{2})\b`)

// Span is a run of text sharing the same style.
type Span struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Year   bool   `json:"year,omitempty"` // set by HighlightYears
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Year == o.Year
}

// Line is one non-blank line of a multi-line field.
type Line struct {
	Bullet bool   `json:"bullet,omitempty"`
	Spans  []Span `json:"spans"`
}

// Inline tokenizes `s` into styled spans, in text order.
//
// A run of n asterisks (n capped at 3) opens a span only when the next asterisk run has the same length,
// the enclosed text is not empty and does not start or end with whitespace. Otherwise the run is literal.
// Longer runs style their innermost three stars: "****x****" is "*", bold-italic "x", "*".
func Inline(s string) []Span {
	var (
		spans []Span
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			spans = appendSpan(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '*' {
			_, size := utf8.DecodeRuneInString(s[i:])
			plain.WriteString(s[i : i+size]) // invalid bytes are kept as is
			i += size
			continue
		}

		full := runLen(s, i)
		run := full
		if run > maxRun { // extra leading stars are literal
			plain.WriteString(s[i : i+run-maxRun])
			i += run - maxRun
			run = maxRun
		}

		open := i + run
		closeAt := strings.IndexByte(s[open:], '*')
		if closeAt > 0 {
			closeAt += open
			inner := s[open:closeAt]
			if closing := runLen(s, closeAt); (closing == run || closing == full) && flanked(inner) {
				flush()
				spans = appendSpan(spans, Span{Text: inner, Bold: run >= 2, Italic: run != 2})
				i = closeAt + run
				continue
			}
		}

		plain.WriteString(s[i:open])
		i = open
	}
	flush()
	return spans
}

// Parse splits `text` into lines, dropping blank ones, and tokenizes each of them.
// Lines starting with "- ", "* " or "•" are bullets; the marker is removed.
func Parse(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		content, bullet := StripBullet(l)
		if content == "" {
			continue
		}
		lines = append(lines, Line{Bullet: bullet, Spans: Inline(content)})
	}
	return lines
}

// StripBullet removes a leading bullet marker from a trimmed line.
func StripBullet(l string) (string, bool) {
	if l == "-" || l == "*" {
		return "", true
	}
	for _, marker := range []string{"- ", "* ", "•"} {
		if strings.HasPrefix(l, marker) {
			return strings.TrimSpace(strings.TrimPrefix(l, marker)), true
		}
	}
	return l, false
}

// Items splits a multi-line field into its non-blank lines with bullet markers removed.
func Items(text string) []string {
	var items []string
	for _, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		l, _ = StripBullet(l)
		if l != "" {
			items = append(items, l)
		}
	}
	return items
}

// HighlightYears splits spans around four-digit years (1700-2099); year pieces are flagged.
func HighlightYears(spans []Span) []Span {
	var out []Span
	for _, sp := range spans {
		last := 0
		for _, loc := range yearRegex.FindAllStringIndex(sp.Text, -1) {
			if loc[0] > last {
				out = append(out, Span{Text: sp.Text[last:loc[0]], Bold: sp.Bold, Italic: sp.Italic})
			}
			out = append(out, Span{Text: sp.Text[loc[0]:loc[1]], Bold: true, Italic: sp.Italic, Year: true})
			last = loc[1]
		}
		if last < len(sp.Text) {
			out = append(out, Span{Text: sp.Text[last:], Bold: sp.Bold, Italic: sp.Italic, Year: sp.Year})
		}
	}
	return out
}

// Text returns the spans' text without styling.
func Text(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Strip removes inline markup from `s`.
func Strip(s string) string {
	return Text(Inline(s))
}

func runLen(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '*' {
		n++
	}
	return n
}

func flanked(inner string) bool {
	if inner == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(inner)
	last, _ := utf8.DecodeLastRuneInString(inner)
	return !unicode.IsSpace(first) && !unicode.IsSpace(last)
}

// appendSpan merges `sp` into the last span when both share the same style.
func appendSpan(spans []Span, sp Span) []Span {
	if n := len(spans); n > 0 && spans[n-1].sameStyle(sp) {
		spans[n-1].Text += sp.Text
		return spans
	}
	return append(spans, sp)
}

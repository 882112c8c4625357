// Package importer reads chapters from exported JSON sessions and Markdown outlines.
package importer

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

type Format string

const (
	JSON     Format = "json"
	Markdown Format = "markdown"
)

var ErrUnsupportedFile = errors.New("only JSON sessions or Markdown outlines can be imported")

// DetectFormat guesses the format of an import from its extension, then from its first character.
func DetectFormat(filename string, data []byte) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON, true
	case ".md", ".markdown":
		return Markdown, true
	}
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return "", false
	case trimmed[0] == '{':
		return JSON, true
	case bytes.HasPrefix(trimmed, []byte("---")) || trimmed[0] == '#':
		return Markdown, true
	}
	return "", false
}

// Parse reads a chapter from an uploaded file. Invalid files return a *core.ValidationError on "file".
func Parse(filename string, data []byte) (chapter.ChapterDocument, error) {
	format, ok := DetectFormat(filename, data)
	if !ok {
		return chapter.ChapterDocument{}, invalid(ErrUnsupportedFile, ErrUnsupportedFile.Error())
	}

	var (
		doc chapter.ChapterDocument
		err error
	)
	switch format {
	case JSON:
		sess, err := chapter.UnmarshalSession(data)
		if err != nil {
			return chapter.ChapterDocument{}, invalid(err, chapter.ErrInvalidSession.Error())
		}
		doc = sess.Chapter
	case Markdown:
		if doc, err = ParseMarkdown(data); err != nil {
			return chapter.ChapterDocument{}, err
		}
	}
	doc.Parts.Normalize()
	return doc, nil
}

func invalid(err error, msg string) error {
	return core.NewValidationError(err, core.FieldError{Field: "file", Error: msg})
}

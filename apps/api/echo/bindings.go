package echoapi

import (
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

const (
	orderingParam = "ordering"
	fileField     = "file"
)

var errFileRequired = errors.New("a file is required")

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=class_num,-updated_at`; unknown fields are ignored.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam), allowed...)
}

// bindKey reads the chapter key from the path and validates it.
func bindKey(ctx echo.Context) (chapter.Key, error) {
	var flds []core.FieldError
	class, err := strconv.Atoi(ctx.Param("class"))
	if err != nil {
		flds = append(flds, core.FieldError{Field: "class_num", Error: "must be a number"})
	}
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		flds = append(flds, core.FieldError{Field: "chapter_number", Error: "must be a number"})
	}
	if len(flds) > 0 {
		return chapter.Key{}, core.NewValidationError(nil, flds...)
	}

	key := chapter.Key{Class: class, Subject: core.CleanString(ctx.Param("subject"), true /* lower */), Chapter: number}
	if err = key.Validate(); err != nil {
		return chapter.Key{}, err
	}
	return key, nil
}

// bindDocument binds the request body to a chapter stored under `key`, whatever key the body names.
func bindDocument(ctx echo.Context, key chapter.Key) (chapter.ChapterDocument, error) {
	var doc chapter.ChapterDocument
	if err := ctx.Bind(&doc); err != nil {
		return chapter.ChapterDocument{}, errors.Wrap(err, "binding to ChapterDocument")
	}
	doc.ClassNum, doc.Subject, doc.ChapterNumber = key.Class, key.Subject, key.Chapter
	return doc, nil
}

// bindFile reads the multipart `file` field.
func bindFile(ctx echo.Context) (string, []byte, error) {
	fh, err := ctx.FormFile(fileField)
	if err != nil {
		return "", nil, core.NewValidationError(errFileRequired, core.FieldError{Field: fileField, Error: errFileRequired.Error()})
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, errors.Wrap(err, "opening upload")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errors.Wrap(err, "reading upload")
	}
	return fh.Filename, data, nil
}

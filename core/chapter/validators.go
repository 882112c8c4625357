package chapter

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/style"
)

var (
	subjectTag  = "subject"
	subjectText = "unknown subject"

	pageSizeTag  = "pagesize"
	pageSizeText = "unsupported page size"

	numberPosTag  = "numberpos"
	numberPosText = "unsupported page number position"

	conceptSeqTag  = "conceptseq"
	conceptSeqText = "concepts must be numbered 1, 2, 3... in order"
)

// InitValidators registers the chapter validations and their messages.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(subjectTag, subjectValidation)
	core.RegisterCustomTranslation(validate, translator, subjectTag, subjectText)

	_ = validate.RegisterValidation(pageSizeTag, pageSizeValidation)
	core.RegisterCustomTranslation(validate, translator, pageSizeTag, pageSizeText)

	_ = validate.RegisterValidation(numberPosTag, numberPosValidation)
	core.RegisterCustomTranslation(validate, translator, numberPosTag, numberPosText)

	validate.RegisterStructValidation(conceptStructValidation, ConceptSection{})
	core.RegisterCustomTranslation(validate, translator, conceptSeqTag, conceptSeqText)
}

// Validate cleans up the chapter cover fields then validates the whole document.
func (doc *ChapterDocument) Validate(validate *validator.Validate) error {
	doc.Subject = core.CleanString(doc.Subject, true /* lower */)
	doc.ChapterTitle = core.CleanString(doc.ChapterTitle)
	doc.Subtitle = core.CleanString(doc.Subtitle)
	doc.QRPracticeURL = core.CleanString(doc.QRPracticeURL)
	doc.QRAnswersURL = core.CleanString(doc.QRAnswersURL)
	doc.Parts.Normalize()
	return validate.Struct(doc)
}

// Validate checks a chapter key coming from a path or command line.
func (k Key) Validate() error {
	var flds []core.FieldError
	if k.Class < MinClass || k.Class > MaxClass {
		flds = append(flds, core.FieldError{Field: "class_num", Error: "class must be between 9 and 12"})
	}
	if !IsSubject(k.Subject) {
		flds = append(flds, core.FieldError{Field: "subject", Error: subjectText})
	}
	if k.Chapter < MinChapter || k.Chapter > MaxChapter {
		flds = append(flds, core.FieldError{Field: "chapter_number", Error: "chapter must be between 1 and 20"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Custom Validators

func subjectValidation(fl validator.FieldLevel) bool {
	return IsSubject(fl.Field().String())
}

func pageSizeValidation(fl validator.FieldLevel) bool {
	return style.IsPageSize(fl.Field().String())
}

func numberPosValidation(fl validator.FieldLevel) bool {
	return style.IsNumberPosition(fl.Field().String())
}

// conceptStructValidation checks that concepts are numbered 1..n in order.
func conceptStructValidation(sl validator.StructLevel) {
	sec, ok := sl.Current().Interface().(ConceptSection)
	if !ok {
		return
	}
	for i, c := range sec.Items {
		if c.Number != i+1 {
			sl.ReportError(sec.Items, "items", "Items", conceptSeqTag, "")
			return
		}
	}
}

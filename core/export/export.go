// Package export turns chapters into downloadable files.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/render"
	"github.com/trezcool/guidebook/core/style"
)

type Format string

const (
	DOCX Format = "docx"
	PDF  Format = "pdf"
	HTML Format = "html"
	JSON Format = "json"

	maxTitleInFilename = 50
)

var (
	// ErrFeatureUnavailable is returned by exporters whose backend cannot run, e.g. PDF without its font.
	// Callers fall back to DOCX.
	ErrFeatureUnavailable = errors.New("this export format is not available")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrUnknownSection     = errors.New("unknown section")

	// Formats lists every format in preference order.
	Formats = []Format{DOCX, PDF, HTML, JSON}

	contentTypes = map[Format]string{
		DOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		PDF:  "application/pdf",
		HTML: "text/html; charset=UTF-8",
		JSON: "application/json; charset=UTF-8",
	}
)

// ParseFormat parses a format name, case insensitive. An empty name is DOCX.
func ParseFormat(s string) (Format, error) {
	s = core.CleanString(s, true /* lower */)
	if s == "" {
		return DOCX, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

type (
	// Exporter writes an assembled document in one format.
	Exporter interface {
		Format() Format
		// Available returns ErrFeatureUnavailable when the backend cannot run.
		Available() error
		Export(ctx context.Context, d *document.Document) ([]byte, error)
	}

	// ImageStore loads uploaded images by stored name.
	ImageStore interface {
		Load(ctx context.Context, name string) (document.Image, error)
	}

	QREncoder interface {
		Encode(content string) ([]byte, error)
	}

	Artifact struct {
		Filename    string
		ContentType string
		Format      Format
		Data        []byte
		// Requested is set when a fallback format was produced instead.
		Requested Format
	}

	Capability struct {
		Format    Format `json:"format"`
		Available bool   `json:"available"`
		Reason    string `json:"reason,omitempty"`
	}
)

// Fallback reports whether the artifact is not in the requested format.
func (a Artifact) Fallback() bool {
	return a.Requested != "" && a.Requested != a.Format
}

// WriteTo writes the artifact into dir, through a temporary file, and returns its path.
func (a Artifact) WriteTo(dir string) (string, error) {
	path := filepath.Join(dir, a.Filename)
	if err := core.WriteFile(path, a.Data); err != nil {
		return "", errors.Wrap(err, "writing artifact")
	}
	return path, nil
}

// Filename returns the artifact name of a chapter, e.g. "Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx".
func Filename(doc chapter.ChapterDocument, f Format) string {
	title := core.SafeFilename(doc.ChapterTitle, maxTitleInFilename)
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("Ch%d_%s_Class%d.%s", doc.ChapterNumber, title, doc.ClassNum, f)
}

// Service generates chapter files.
type Service interface {
	// Generate exports doc in format f. Backends that cannot run return ErrFeatureUnavailable.
	Generate(ctx context.Context, doc chapter.ChapterDocument, f Format) (Artifact, error)
	// GenerateOrFallback is Generate, falling back to DOCX when f is unavailable.
	GenerateOrFallback(ctx context.Context, doc chapter.ChapterDocument, f Format) (Artifact, error)
	// Preview renders a single section, or the whole guide when sectionID is empty, as HTML.
	Preview(ctx context.Context, doc chapter.ChapterDocument, sectionID string) ([]byte, error)
	Assemble(ctx context.Context, doc chapter.ChapterDocument) *document.Document
	Capabilities() []Capability
}

type service struct {
	theme     style.Theme
	images    ImageStore
	qr        QREncoder
	logger    core.Logger
	exporters map[Format]Exporter
}

var _ Service = (*service)(nil)

// NewService returns the export service. images and qr may be nil: images and QR codes are then left out.
func NewService(logger core.Logger, images ImageStore, qr QREncoder, exporters ...Exporter) Service {
	svc := &service{
		theme:     style.Default(),
		images:    images,
		qr:        qr,
		logger:    logger,
		exporters: make(map[Format]Exporter, len(exporters)),
	}
	for _, exp := range exporters {
		svc.exporters[exp.Format()] = exp
	}
	return svc
}

func (svc *service) assets(ctx context.Context, doc chapter.ChapterDocument) render.Assets {
	a := render.Assets{Images: make(map[string]document.Image)}
	if svc.qr != nil {
		a.QR = svc.qr.Encode
	}
	if svc.images == nil {
		return a
	}
	for _, name := range render.ImageNames(doc) {
		if _, ok := a.Images[name]; ok {
			continue
		}
		img, err := svc.images.Load(ctx, name)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("skipping image %s: %v", name, err), doc.Key())
			continue
		}
		a.Images[name] = img
	}
	return a
}

func (svc *service) Assemble(ctx context.Context, doc chapter.ChapterDocument) *document.Document {
	doc.Parts.Normalize()
	for _, w := range doc.Warnings() {
		svc.logger.Warn(w, doc.Key())
	}
	return render.Assemble(doc, svc.theme, svc.assets(ctx, doc))
}

func (svc *service) Generate(ctx context.Context, doc chapter.ChapterDocument, f Format) (Artifact, error) {
	art := Artifact{Filename: Filename(doc, f), ContentType: f.ContentType(), Format: f, Requested: f}

	if f == JSON {
		data, err := chapter.MarshalSession(doc)
		if err != nil {
			return Artifact{}, err
		}
		art.Data = data
		return art, nil
	}

	if _, known := contentTypes[f]; !known {
		return Artifact{}, ErrUnknownFormat
	}
	exp, ok := svc.exporters[f]
	if !ok {
		return Artifact{}, ErrFeatureUnavailable
	}
	if err := exp.Available(); err != nil {
		return Artifact{}, err
	}

	data, err := exp.Export(ctx, svc.Assemble(ctx, doc))
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "exporting %s", f)
	}
	art.Data = data
	return art, nil
}

func (svc *service) GenerateOrFallback(ctx context.Context, doc chapter.ChapterDocument, f Format) (Artifact, error) {
	art, err := svc.Generate(ctx, doc, f)
	if errors.Cause(err) != ErrFeatureUnavailable || f == DOCX {
		return art, err
	}
	svc.logger.Warn(fmt.Sprintf("%s export unavailable, falling back to docx", f), doc.Key())

	art, err = svc.Generate(ctx, doc, DOCX)
	if err != nil {
		return Artifact{}, err
	}
	art.Requested = f
	return art, nil
}

func (svc *service) Preview(ctx context.Context, doc chapter.ChapterDocument, sectionID string) ([]byte, error) {
	exp, ok := svc.exporters[HTML]
	if !ok {
		return nil, ErrFeatureUnavailable
	}

	doc.Parts.Normalize()
	a := svc.assets(ctx, doc)
	d := render.Assemble(doc, svc.theme, a)
	if sectionID = strings.TrimSpace(sectionID); sectionID != "" {
		sec, ok := render.Section(doc, sectionID, svc.theme, a)
		if !ok {
			return nil, ErrUnknownSection
		}
		d.Sections = []document.Section{sec}
	}

	data, err := exp.Export(ctx, d)
	if err != nil {
		return nil, errors.Wrap(err, "rendering preview")
	}
	return data, nil
}

func (svc *service) Capabilities() []Capability {
	caps := make([]Capability, 0, len(Formats))
	for _, f := range Formats {
		c := Capability{Format: f, Available: true}
		if f != JSON {
			exp, ok := svc.exporters[f]
			switch {
			case !ok:
				c.Available, c.Reason = false, ErrFeatureUnavailable.Error()
			case exp.Available() != nil:
				c.Available, c.Reason = false, exp.Available().Error()
			}
		}
		caps = append(caps, c)
	}
	return caps
}

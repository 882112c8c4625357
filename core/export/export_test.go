package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/tests"
)

// fakeExporter writes the section ids of the document.
type fakeExporter struct {
	format    Format
	available error
	last      *document.Document
}

func (e *fakeExporter) Format() Format   { return e.format }
func (e *fakeExporter) Available() error { return e.available }

func (e *fakeExporter) Export(_ context.Context, d *document.Document) ([]byte, error) {
	e.last = d
	var out []byte
	for _, sec := range d.Sections {
		out = append(out, sec.ID+";"...)
	}
	return out, nil
}

type fakeImages map[string]document.Image

func (f fakeImages) Load(_ context.Context, name string) (document.Image, error) {
	if img, ok := f[name]; ok {
		return img, nil
	}
	return document.Image{}, os.ErrNotExist
}

func newTestService(pdfErr error) (*service, *testutil.Logger) {
	logger := new(testutil.Logger)
	svc := NewService(
		logger,
		fakeImages{"map.png": {Name: "map.png", Data: []byte("png"), Format: "png", PxWidth: 100, PxHeight: 50}},
		nil, /* qr */
		&fakeExporter{format: DOCX},
		&fakeExporter{format: HTML},
		&fakeExporter{format: PDF, available: pdfErr},
	)
	return svc.(*service), logger
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr error
	}{
		{in: "", want: DOCX},
		{in: "PDF", want: PDF},
		{in: " html ", want: HTML},
		{in: "json", want: JSON},
		{in: "odt", wantErr: ErrUnknownFormat},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		f     Format
		want  string
	}{
		{name: "plain", title: "The Rise of Nationalism in Europe", f: DOCX, want: "Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx"},
		{name: "symbols", title: "Sets & Relations: Part 1!", f: PDF, want: "Ch1_Sets__Relations_Part_1_Class10.pdf"},
		{name: "untitled", title: "  ", f: HTML, want: "Ch1_Untitled_Class10.html"},
		{
			name:  "long title",
			title: "A Very Long Chapter Title That Goes On And On Beyond Fifty Characters",
			f:     DOCX,
			want:  "Ch1_A_Very_Long_Chapter_Title_That_Goes_On_And_On_Beyo_Class10.docx",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := chapter.New(10, "history", 1)
			doc.ChapterTitle = tc.title
			assert.Equal(t, tc.want, Filename(doc, tc.f))
		})
	}
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	doc := testutil.SampleChapter()
	doc.PartE.MapImage = "map.png"

	t.Run("docx", func(t *testing.T) {
		svc, _ := newTestService(nil)
		art, err := svc.Generate(ctx, doc, DOCX)
		require.NoError(t, err)
		assert.Equal(t, "Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx", art.Filename)
		assert.Equal(t, DOCX.ContentType(), art.ContentType)
		assert.Equal(t, "cover;A;B;C;D;E;F;G;", string(art.Data))
		assert.False(t, art.Fallback())

		last := svc.exporters[DOCX].(*fakeExporter).last
		require.NotNil(t, last)
		assert.Equal(t, "Chapter 1: The Rise of Nationalism in Europe", last.Header)
		require.Len(t, last.Images(), 1)
		assert.Equal(t, "map.png", last.Images()[0].Name)
	})

	t.Run("json", func(t *testing.T) {
		svc, _ := newTestService(nil)
		art, err := svc.Generate(ctx, doc, JSON)
		require.NoError(t, err)
		sess, err := chapter.UnmarshalSession(art.Data)
		require.NoError(t, err)
		assert.Equal(t, doc.ChapterTitle, sess.Chapter.ChapterTitle)
		assert.True(t, doc.UpdatedAt.Equal(sess.ExportedAt))
	})

	t.Run("pdf unavailable", func(t *testing.T) {
		svc, _ := newTestService(ErrFeatureUnavailable)
		_, err := svc.Generate(ctx, doc, PDF)
		assert.Equal(t, ErrFeatureUnavailable, errors.Cause(err))
	})

	t.Run("unknown format", func(t *testing.T) {
		svc, _ := newTestService(nil)
		_, err := svc.Generate(ctx, doc, Format("odt"))
		assert.Equal(t, ErrUnknownFormat, err)
	})

	t.Run("missing image is skipped", func(t *testing.T) {
		svc, logger := newTestService(nil)
		d := doc
		d.PartE.MapImage = "gone.png"
		_, err := svc.Generate(ctx, d, DOCX)
		require.NoError(t, err)
		assert.Empty(t, svc.exporters[DOCX].(*fakeExporter).last.Images())
		assert.Len(t, logger.Messages("warn"), 1)
	})

	t.Run("warnings are logged", func(t *testing.T) {
		svc, logger := newTestService(nil)
		d := doc
		d.ChapterTitle = ""
		_, err := svc.Generate(ctx, d, DOCX)
		require.NoError(t, err)
		assert.Contains(t, logger.Messages("warn"), "chapter title is empty")
	})
}

func TestService_GenerateOrFallback(t *testing.T) {
	ctx := context.Background()
	doc := testutil.SampleChapter()

	svc, logger := newTestService(ErrFeatureUnavailable)
	art, err := svc.GenerateOrFallback(ctx, doc, PDF)
	require.NoError(t, err)
	assert.Equal(t, DOCX, art.Format)
	assert.Equal(t, PDF, art.Requested)
	assert.True(t, art.Fallback())
	assert.Equal(t, "Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx", art.Filename)
	assert.NotEmpty(t, logger.Messages("warn"))

	svc, _ = newTestService(nil)
	art, err = svc.GenerateOrFallback(ctx, doc, PDF)
	require.NoError(t, err)
	assert.Equal(t, PDF, art.Format)
	assert.False(t, art.Fallback())
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	doc := testutil.SampleChapter()
	svc, _ := newTestService(nil)

	tests := []struct {
		name    string
		section string
		want    string
		wantErr error
	}{
		{name: "whole guide", want: "cover;A;B;C;D;E;F;G;"},
		{name: "cover", section: "cover", want: "cover;"},
		{name: "part", section: "C", want: "C;"},
		{name: "unknown", section: "Q", wantErr: ErrUnknownSection},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Preview(ctx, doc, tc.section)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestService_Capabilities(t *testing.T) {
	svc, _ := newTestService(ErrFeatureUnavailable)
	caps := svc.Capabilities()
	require.Len(t, caps, len(Formats))
	for _, c := range caps {
		assert.Equal(t, c.Format != PDF, c.Available, c.Format)
	}
}

func TestArtifact_WriteTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	art := Artifact{Filename: "Ch1_Test_Class10.docx", Data: []byte("data")}

	path, err := art.WriteTo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Ch1_Test_Class10.docx"), path)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

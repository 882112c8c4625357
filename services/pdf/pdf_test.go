package pdfsvc

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/document"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/render"
	"github.com/trezcool/guidebook/core/style"
	"github.com/trezcool/guidebook/services/html"
	"github.com/trezcool/guidebook/tests"
)

func sampleDocument() *document.Document {
	return render.Assemble(testutil.SampleChapter(), style.Default(), render.Assets{})
}

func TestExporter_Available(t *testing.T) {
	tests := []struct {
		name    string
		conf    core.ExportConfig
		wantErr bool
	}{
		{name: "core fonts", conf: core.ExportConfig{PDFEnabled: true}},
		{name: "disabled", conf: core.ExportConfig{PDFEnabled: false}, wantErr: true},
		{name: "missing font", conf: core.ExportConfig{PDFEnabled: true, FontFile: filepath.Join(t.TempDir(), "nope.ttf")}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exp := NewExporter(tc.conf, htmlsvc.NewExporter())
			err := exp.Available()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, export.ErrFeatureUnavailable, errors.Cause(err))

			_, err = exp.Export(context.Background(), sampleDocument())
			assert.Equal(t, export.ErrFeatureUnavailable, errors.Cause(err))
		})
	}
}

func TestExporter_Export(t *testing.T) {
	exp := NewExporter(core.ExportConfig{PDFEnabled: true}, htmlsvc.NewExporter())
	assert.Equal(t, export.PDF, exp.Format())

	a, err := exp.Export(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(a, []byte("%PDF-")))

	b, err := exp.Export(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "pdf output must not change between runs")

	// document dates never come from the clock
	assert.Contains(t, string(a), "/CreationDate (D:20000101000000)")
	assert.Contains(t, string(a), "/ModDate (D:20000101000000)")
}

func TestParseBody(t *testing.T) {
	body := `<p class="ChapterTitle" style="text-align: center">Chapter <strong>One</strong></p>` +
		`<div class="box box-tip" style="background-color: #F0FDF4; border-left-style: solid; border-left-width: 3pt; border-left-color: #059669">` +
		`<p class="BodyText" style="margin-left: 0.25in">&#8226; <em><span style="color: #DC2626">1848</span></em></p></div>` +
		`<table class="table"><thead><tr><th style="width: 25.0%">Q</th><th style="width: 75.0%">A</th></tr></thead>` +
		`<tbody><tr><td style="width: 25.0%; background-color: #DBEAFE"><p class="BodyText">x</p></td><td></td></tr></tbody></table>` +
		`<hr class="rule short" style="border-color: #374151"><hr class="page-break">`
	root, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	theme := style.Default()
	items := parseBody(root, theme)
	require.Len(t, items, 5)

	title, ok := items[0].(para)
	require.True(t, ok)
	assert.Equal(t, style.ChapterTitle, title.ts.Name)
	assert.Equal(t, style.AlignCenter, title.align)
	require.Len(t, title.spans, 2)
	assert.Equal(t, span{text: "Chapter "}, title.spans[0])
	assert.Equal(t, span{text: "One", bold: true}, title.spans[1])

	bx, ok := items[1].(box)
	require.True(t, ok)
	assert.True(t, bx.left)
	assert.Equal(t, style.Color("#F0FDF4"), bx.bg)
	assert.Equal(t, style.Color("#059669"), bx.border)
	require.Len(t, bx.children, 1)
	inner := bx.children[0].(para)
	assert.InDelta(t, 0.25, inner.indent, 1e-9)
	assert.Equal(t, span{text: "1848", italic: true, color: "#DC2626"}, inner.spans[1])

	tbl, ok := items[2].(table)
	require.True(t, ok)
	require.Len(t, tbl.header, 2)
	require.Len(t, tbl.rows, 1)
	assert.InDelta(t, 0.25, tbl.header[0].width, 1e-9)
	assert.Equal(t, style.Color("#DBEAFE"), tbl.rows[0][0].bg)
	assert.InDeltaSlice(t, []float64{1.5, 4.5}, columnWidths(tbl, 6), 1e-9)

	assert.Equal(t, rule{color: "#374151", short: true}, items[3])
	assert.Equal(t, pageBreak{}, items[4])
}

func TestLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.25in", 0.25},
		{"36pt", 0.5},
		{"50.0%", 0.5},
		{"12px", 0},
		{"", 0},
		{"abcin", 0},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.InDelta(t, tc.want, length(tc.in), 1e-9)
		})
	}
}

func TestTokens(t *testing.T) {
	got := tokens([]span{{text: "Hello  big"}, {text: " world\nnext", bold: true}})
	var texts []string
	for _, p := range got {
		texts = append(texts, p.text)
	}
	assert.Equal(t, []string{"Hello", " ", " ", "big", " ", "world", "\n", "next"}, texts)
	assert.True(t, got[5].bold)
}

func TestLayout_Wrap(t *testing.T) {
	pdf := gofpdf.New("P", "in", "A4", "")
	l := &layout{pdf: pdf, theme: style.Default(), family: coreFamily, tr: func(s string) string { return s }}
	p := para{
		ts:    style.Default().Text(style.BodyText),
		spans: []span{{text: strings.Repeat("nationalism grew in europe ", 20)}},
	}

	lines := l.wrap(p, 3)
	require.Greater(t, len(lines), 3)
	for _, ln := range lines {
		assert.LessOrEqual(t, ln.width, 3.0)
		assert.False(t, ln.pieces[0].space, "lines never start with a space")
	}

	assert.Len(t, l.wrap(para{ts: p.ts}, 3), 1, "an empty paragraph still takes one line")
}

package di

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/export"
	testutil "github.com/trezcool/guidebook/tests"
)

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr error
	}{
		{driver: DriverFile},
		{driver: DriverMemory},
		{driver: "mongo", wantErr: ErrUnknownDriver},
	}
	for _, tc := range tests {
		t.Run(tc.driver, func(t *testing.T) {
			conf := testutil.Config(t.TempDir())
			conf.Storage.Driver = tc.driver

			c, err := New(context.Background(), conf, &testutil.Logger{}, &testutil.Logger{})
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Nil(t, c.DB)

			doc := testutil.SaveChapter(t, c.Repo, testutil.SampleChapter())
			got, err := c.ChapterSvc.Get(context.Background(), doc.Key())
			require.NoError(t, err)
			assert.Equal(t, doc.ChapterTitle, got.ChapterTitle)
			require.NoError(t, c.Close(context.Background()))
		})
	}
}

func TestNewExportService(t *testing.T) {
	conf := testutil.Config(t.TempDir())
	conf.Export.PDFEnabled = false
	svc := NewExportService(conf, &testutil.Logger{}, nil)

	available := map[export.Format]bool{}
	for _, c := range svc.Capabilities() {
		available[c.Format] = c.Available
	}
	assert.Equal(t, map[export.Format]bool{export.DOCX: true, export.PDF: false, export.HTML: true, export.JSON: true}, available)
}

func TestNewValidator(t *testing.T) {
	validate, translator := NewValidator()
	doc := testutil.SampleChapter()
	doc.Subject = "astrology"

	err := doc.Validate(validate)
	require.Error(t, err)
	assert.NotNil(t, translator)
	assert.Contains(t, err.Error(), "subject")
}

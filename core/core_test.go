package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderings(t *testing.T) {
	allowed := []string{"class_num", "subject", "updated_at"}
	tests := []struct {
		name string
		s    string
		want []DBOrdering
	}{
		{name: "empty", s: ""},
		{name: "asc", s: "subject", want: []DBOrdering{{Field: "subject", Ascending: true}}},
		{
			name: "mixed",
			s:    " -updated_at , class_num",
			want: []DBOrdering{{Field: "updated_at"}, {Field: "class_num", Ascending: true}},
		},
		{name: "unknown fields dropped", s: "password,-,-subject", want: []DBOrdering{{Field: "subject"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseOrderings(tt.s, allowed...)); diff != "" {
				t.Errorf("ParseOrderings() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	assert.Equal(t, "updated_at DESC", DBOrdering{Field: "updated_at"}.String())
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{s: "The Rise of Nationalism", max: 50, want: "The_Rise_of_Nationalism"},
		{s: "  Sets & Relations: Part 1!  ", max: 50, want: "Sets__Relations_Part_1"},
		{s: "Économie", max: 3, want: "Éco"},
		{s: "../../etc/passwd", max: 0, want: "etcpasswd"},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.s, tt.max))
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "chapter.json")

	require.NoError(t, WriteFile(path, []byte("v1")))
	require.NoError(t, WriteFile(path, []byte("v2")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(nil, FieldError{Field: "file", Error: "a file is required"}, FieldError{Field: "subject", Error: "unknown subject"})
	assert.Equal(t, "file: a file is required", err.Error())
	assert.True(t, IsValidationError(errors.Wrap(err, "binding")))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{"file": "a file is required", "subject": "unknown subject"}, vErr.FieldMap())

	assert.Equal(t, "bad", NewValidationError(errors.New("bad")).Error())
	assert.False(t, IsValidationError(errors.New("bad")))

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "handler")))
}

func TestInitValidators(t *testing.T) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	InitValidators(validate, translator)

	type request struct {
		Name  string `json:"name" validate:"notblank"`
		Title string `json:"title" validate:"required"`
	}
	err := validate.Struct(request{Name: "   "})
	require.Error(t, err)

	got := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		got[fe.Field()] = fe.Translate(translator)
	}
	assert.Equal(t, map[string]string{"name": "this field cannot be blank", "title": "this field is required"}, got)
}

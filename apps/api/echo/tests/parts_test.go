package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/guidebook/apps/api/echo"
	"github.com/trezcool/guidebook/core/chapter"
	testutil "github.com/trezcool/guidebook/tests"
)

func Test_partApi(t *testing.T) {
	app := setup(t)
	doc := testutil.SaveChapter(t, app.Repo, testutil.SampleChapter())
	parts := func(suffix ...string) string {
		return testutil.ChapterPath(doc.Key(), append([]string{"parts"}, suffix...)...)
	}

	req, rec := newRequest(http.MethodPost, parts(), []byte(`{"name": " Case Studies ", "description": "Extra sources"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var h chapter.Part
	unmarshal(t, rec, &h)
	assert.Equal(t, chapter.Part{ID: "H", Name: "Case Studies", Description: "Extra sources", Enabled: true, Removable: true, Custom: true, Order: 8}, h)

	req, rec = newRequest(http.MethodPost, parts(), []byte(`{"name": "Glossary"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	runHTTPTests(t, app, []httpTest{
		{
			name: "blank name", method: http.MethodPost, path: parts(), body: []byte(`{"name": "  "}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"name": "this field cannot be blank"}`),
		},
		{
			name: "disable E", method: http.MethodPut, path: parts("E"), body: []byte(`{"enabled": false}`),
			wantData: marshalObj(t, chapter.Part{ID: "E", Name: "Map Work", Description: "CBSE prescribed locations and marking tips", Removable: true, Order: 5}),
		},
		{
			name: "disable A", method: http.MethodPut, path: parts("A"), body: []byte(`{"enabled": false}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "this part cannot be disabled"}),
		},
		{
			name: "unknown part", method: http.MethodPut, path: parts("Q"), body: []byte(`{"name": "Q"}`),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "part not found"}),
		},
		{
			name: "remove standard", method: http.MethodDelete, path: parts("C"),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "only custom parts can be removed"}),
		},
		{
			name: "bad direction", method: http.MethodPost, path: parts("H", "move"), body: []byte(`{"direction": "left"}`),
			wantCode: http.StatusBadRequest,
		},
	})

	req, rec = newRequest(http.MethodPost, parts("I", "move"), []byte(`{"direction": "up"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var moved echoapi.MovePartResponse
	unmarshal(t, rec, &moved)
	assert.True(t, moved.Moved)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "I", "H"}, partIDs(moved.Parts))

	req, rec = newRequest(http.MethodPost, parts("I", "move"), []byte(`{"direction": "up"}`))
	app.ServeHTTP(rec, req)
	unmarshal(t, rec, &moved)
	assert.False(t, moved.Moved)

	runHTTPTests(t, app, []httpTest{
		{name: "remove custom", method: http.MethodDelete, path: parts("H"), wantCode: http.StatusNoContent},
	})

	got, err := app.Repo.Get(context.Background(), doc.Key())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "F", "G", "I"}, got.Parts.EnabledIDs())

	req, rec = newRequest(http.MethodGet, parts())
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed chapter.Parts
	unmarshal(t, rec, &listed)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "I"}, partIDs(listed))
}

func partIDs(parts chapter.Parts) []string {
	ids := make([]string, len(parts))
	for i, p := range parts {
		ids[i] = p.ID
	}
	return ids
}

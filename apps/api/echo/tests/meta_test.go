package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/style"
)

func Test_metaApi(t *testing.T) {
	app := setup(t)

	runHTTPTests(t, app, []httpTest{
		{name: "subjects", path: "/v1/subjects", wantData: marshalObj(t, chapter.Subjects())},
		{name: "options", path: "/v1/options", wantData: marshalObj(t, chapter.FormOptions(style.PageSizeNames(), style.NumberPositions))},
		{name: "unknown route", path: "/v1/nope", wantCode: http.StatusNotFound},
	})

	req, rec := newRequest(http.MethodGet, "/v1/capabilities")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var caps []export.Capability
	unmarshal(t, rec, &caps)
	require.Len(t, caps, len(export.Formats))
	for _, c := range caps {
		assert.Equal(t, c.Format != export.PDF, c.Available, c.Format)
	}
}

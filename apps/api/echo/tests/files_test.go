package tests

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/storage/uploads"
)

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func Test_uploadApi(t *testing.T) {
	app := setup(t)

	req, rec := newFileRequest(t, "/v1/uploads", "map.png", pngBytes(t, 40, 20))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var up uploads.Upload
	unmarshal(t, rec, &up)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, 40, up.Width)
	assert.Equal(t, 20, up.Height)

	req, rec = newRequest(http.MethodGet, "/v1/uploads/"+up.Name)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, up.Size, rec.Body.Len())

	req, rec = newFileRequest(t, "/v1/uploads", "notes.txt", []byte("hello"))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"file": "only PNG or JPG images are allowed"}`)}, rec)

	runHTTPTests(t, app, []httpTest{
		{
			name: "no file", method: http.MethodPost, path: "/v1/uploads",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"file": "a file is required"}`),
		},
		{
			name: "unknown image", path: "/v1/uploads/0c6f4a52-6d1f-4c4e-9f0e-2f7b7a0c1d2e.png",
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "image not found"}),
		},
		{
			name: "bad name", path: "/v1/uploads/..%2Fchapters.json",
			wantCode: http.StatusNotFound,
		},
	})
}

const outline = `---
class: 10
subject: History
chapter: 2
title: Nationalism in India
---

## Part B: Key Concepts

### 1. The First World War, Khilafat and Non-Cooperation

The war created a new economic and political situation.
`

func Test_importApi(t *testing.T) {
	app := setup(t)

	req, rec := newFileRequest(t, "/v1/import", "ch2.md", []byte(outline))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	key := chapter.Key{Class: 10, Subject: chapter.History, Chapter: 2}
	got, err := app.Repo.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "Nationalism in India", got.ChapterTitle)
	require.Len(t, got.Concepts.Items, 1)
	assert.Equal(t, "The First World War, Khilafat and Non-Cooperation", got.Concepts.Items[0].Title)

	session, err := chapter.MarshalSession(got)
	require.NoError(t, err)
	req, rec = newFileRequest(t, "/v1/import", "session.json", session)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req, rec = newFileRequest(t, "/v1/import", "notes.txt", []byte("plain notes"))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: []byte(`{"file": "only JSON sessions or Markdown outlines can be imported"}`),
	}, rec)

	req, rec = newFileRequest(t, "/v1/import", "bad.md", []byte("---\nclass: 10\nsubject: astrology\nchapter: 2\n---\n"))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"subject": "unknown subject"}`)}, rec)
}

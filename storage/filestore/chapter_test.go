package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	testutil "github.com/trezcool/guidebook/tests"
)

func TestChapterRepository(t *testing.T) {
	testutil.RepositoryTests(t, func(t *testing.T) chapter.Repository {
		return newChapterRepository(t.TempDir(), 3)
	})
}

func TestChapterRepository_Layout(t *testing.T) {
	dir := t.TempDir()
	repo := newChapterRepository(dir, 3)
	doc := testutil.SaveChapter(t, repo, testutil.SampleChapter())

	data, err := os.ReadFile(filepath.Join(dir, "chapters", "class_10_history_ch01.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chapter_title": "The Rise of Nationalism in Europe"`)

	files, err := os.ReadDir(filepath.Join(dir, "snapshots", "class_10_history_ch01"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "1709287200000000000.json", files[0].Name())

	// no temp files are left behind
	files, err = os.ReadDir(filepath.Join(dir, "chapters"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	snaps, err := repo.Snapshots(context.Background(), doc.Key())
	require.NoError(t, err)
	assert.Equal(t, "1709287200000000000", snaps[0].ID)
}

func TestChapterRepository_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	repo := newChapterRepository(dir, 0)
	testutil.SaveChapter(t, repo, testutil.SampleChapter())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapters", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapters", "backup.json"), []byte("{"), 0o644))

	docs, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = os.Stat(filepath.Join(dir, "snapshots"))
	assert.True(t, os.IsNotExist(err), "snapshots are disabled")
}

func TestChapterRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	repo := newChapterRepository(dir, 3)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chapters"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapters", "class_10_history_ch01.json"), []byte("{"), 0o644))

	_, err := repo.Get(context.Background(), chapter.Key{Class: 10, Subject: "history", Chapter: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding class_10_history_ch01.json")
}

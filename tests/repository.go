package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

// RepositoryTests runs the behaviour every chapter.Repository shares.
// newRepo must return an empty repository keeping at most 3 snapshots per chapter.
func RepositoryTests(t *testing.T, newRepo func(t *testing.T) chapter.Repository) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, chapter.Key{Class: 10, Subject: "history", Chapter: 1})
		assert.Equal(t, chapter.ErrNotFound, errors.Cause(err))
	})

	t.Run("save and get", func(t *testing.T) {
		repo := newRepo(t)
		doc := SaveChapter(t, repo, SampleChapter())

		got, err := repo.Get(ctx, doc.Key())
		require.NoError(t, err)
		assert.Equal(t, doc.Key(), got.Key())
		assert.Equal(t, doc.ChapterTitle, got.ChapterTitle)
		assert.Equal(t, doc.Concepts, got.Concepts)
		assert.True(t, doc.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("save overwrites", func(t *testing.T) {
		repo := newRepo(t)
		doc := SaveChapter(t, repo, SampleChapter())
		doc.ChapterTitle = "Nationalism in India"
		doc.UpdatedAt = doc.UpdatedAt.Add(time.Minute)
		SaveChapter(t, repo, doc)

		got, err := repo.Get(ctx, doc.Key())
		require.NoError(t, err)
		assert.Equal(t, "Nationalism in India", got.ChapterTitle)

		docs, err := repo.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("list ordering", func(t *testing.T) {
		repo := newRepo(t)
		for _, key := range []chapter.Key{
			{Class: 10, Subject: "history", Chapter: 2},
			{Class: 9, Subject: "geography", Chapter: 1},
			{Class: 10, Subject: "history", Chapter: 1},
		} {
			SaveChapter(t, repo, chapter.New(key.Class, key.Subject, key.Chapter))
		}

		docs, err := repo.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"class_9_geography_ch01", "class_10_history_ch01", "class_10_history_ch02"}, keys(docs))

		docs, err = repo.List(ctx, []core.DBOrdering{{Field: "chapter_number", Ascending: false}, {Field: "class_num", Ascending: true}})
		require.NoError(t, err)
		assert.Equal(t, []string{"class_10_history_ch02", "class_9_geography_ch01", "class_10_history_ch01"}, keys(docs))
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		doc := SaveChapter(t, repo, SampleChapter())

		require.NoError(t, repo.Delete(ctx, doc.Key()))
		_, err := repo.Get(ctx, doc.Key())
		assert.Equal(t, chapter.ErrNotFound, errors.Cause(err))

		snaps, err := repo.Snapshots(ctx, doc.Key())
		require.NoError(t, err)
		assert.Empty(t, snaps)

		assert.Equal(t, chapter.ErrNotFound, errors.Cause(repo.Delete(ctx, doc.Key())))
	})

	t.Run("snapshots", func(t *testing.T) {
		repo := newRepo(t)
		doc := SampleChapter()
		for i := 1; i <= 5; i++ {
			doc.UpdatedAt = doc.UpdatedAt.Add(time.Second)
			doc.Subtitle = "version " + string(rune('0'+i))
			SaveChapter(t, repo, doc)
		}

		snaps, err := repo.Snapshots(ctx, doc.Key())
		require.NoError(t, err)
		require.Len(t, snaps, 3)
		assert.True(t, snaps[0].CreatedAt.Equal(doc.UpdatedAt), "newest first")
		assert.True(t, snaps[0].CreatedAt.After(snaps[2].CreatedAt))

		got, err := repo.Snapshot(ctx, doc.Key(), snaps[2].ID)
		require.NoError(t, err)
		assert.Equal(t, "version 3", got.Subtitle)

		_, err = repo.Snapshot(ctx, doc.Key(), "42")
		assert.Equal(t, chapter.ErrSnapshotNotFound, errors.Cause(err))
		_, err = repo.Snapshot(ctx, doc.Key(), "../../chapters/x")
		assert.Equal(t, chapter.ErrSnapshotNotFound, errors.Cause(err))
	})
}

func keys(docs []chapter.ChapterDocument) []string {
	ks := make([]string, len(docs))
	for i, doc := range docs {
		ks[i] = doc.Key().String()
	}
	return ks
}

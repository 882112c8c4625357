package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core/chapter"
	testutil "github.com/trezcool/guidebook/tests"
)

func TestChapterRepository(t *testing.T) {
	testutil.RepositoryTests(t, func(t *testing.T) chapter.Repository {
		return NewChapterRepository(Open(), 3)
	})
}

func TestChapterRepository_NoAliasing(t *testing.T) {
	ctx := context.Background()
	repo := NewChapterRepository(Open(), 3)
	doc := testutil.SaveChapter(t, repo, testutil.SampleChapter())

	got, err := repo.Get(ctx, doc.Key())
	require.NoError(t, err)
	got.Concepts.Items[0].Title = "changed"

	again, err := repo.Get(ctx, doc.Key())
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Concepts.Items[0].Title)
	assert.Equal(t, doc.Concepts.Items[0].Title, again.Concepts.Items[0].Title)
}

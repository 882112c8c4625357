// Package filestore keeps one JSON file per chapter under `<dataDir>/chapters`,
// with snapshots of every save under `<dataDir>/snapshots/<key>`.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

const (
	chaptersDir  = "chapters"
	snapshotsDir = "snapshots"
	ext          = ".json"
)

type chapterRepository struct {
	dir          string
	maxSnapshots int
	mu           sync.RWMutex
}

var _ chapter.Repository = (*chapterRepository)(nil)

// NewChapterRepository returns a repository rooted at `conf.Storage.DataDir`; directories are created on demand.
func NewChapterRepository(conf *core.Config) chapter.Repository {
	return newChapterRepository(conf.Storage.DataDir, conf.Storage.MaxSnapshots)
}

func newChapterRepository(dir string, maxSnapshots int) *chapterRepository {
	return &chapterRepository{dir: dir, maxSnapshots: maxSnapshots}
}

func (repo *chapterRepository) chapterPath(key chapter.Key) string {
	return filepath.Join(repo.dir, chaptersDir, key.String()+ext)
}

func (repo *chapterRepository) snapshotDir(key chapter.Key) string {
	return filepath.Join(repo.dir, snapshotsDir, key.String())
}

func (repo *chapterRepository) Get(ctx context.Context, key chapter.Key) (chapter.ChapterDocument, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return readDocument(repo.chapterPath(key))
}

func (repo *chapterRepository) List(ctx context.Context, orderings []core.DBOrdering) ([]chapter.ChapterDocument, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	files, err := os.ReadDir(filepath.Join(repo.dir, chaptersDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading chapters directory")
	}

	docs := make([]chapter.ChapterDocument, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) {
			continue
		}
		if _, ok := chapter.ParseKey(f.Name()); !ok {
			continue
		}
		doc, err := readDocument(filepath.Join(repo.dir, chaptersDir, f.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	chapter.SortDocuments(docs, orderings)
	return docs, nil
}

func (repo *chapterRepository) Save(ctx context.Context, doc chapter.ChapterDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding chapter")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := doc.Key()
	if err = core.WriteFile(repo.chapterPath(key), data); err != nil {
		return errors.Wrap(err, "writing chapter")
	}
	if repo.maxSnapshots <= 0 {
		return nil
	}

	name := strconv.FormatInt(doc.UpdatedAt.UnixNano(), 10) + ext
	if err = core.WriteFile(filepath.Join(repo.snapshotDir(key), name), data); err != nil {
		return errors.Wrap(err, "writing snapshot")
	}
	return repo.prune(key)
}

// prune keeps the `maxSnapshots` most recent snapshots of the chapter.
func (repo *chapterRepository) prune(key chapter.Key) error {
	ids, err := repo.snapshotIDs(key)
	if err != nil {
		return err
	}
	for len(ids) > repo.maxSnapshots {
		if err = os.Remove(filepath.Join(repo.snapshotDir(key), ids[0]+ext)); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "pruning snapshots")
		}
		ids = ids[1:]
	}
	return nil
}

func (repo *chapterRepository) Delete(ctx context.Context, key chapter.Key) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if err := os.Remove(repo.chapterPath(key)); err != nil {
		if os.IsNotExist(err) {
			return chapter.ErrNotFound
		}
		return errors.Wrap(err, "deleting chapter")
	}
	if err := os.RemoveAll(repo.snapshotDir(key)); err != nil {
		return errors.Wrap(err, "deleting snapshots")
	}
	return nil
}

func (repo *chapterRepository) Snapshots(ctx context.Context, key chapter.Key) ([]chapter.Snapshot, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	ids, err := repo.snapshotIDs(key)
	if err != nil {
		return nil, err
	}
	snaps := make([]chapter.Snapshot, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- { // newest first
		nanos, _ := strconv.ParseInt(ids[i], 10, 64)
		snaps = append(snaps, chapter.Snapshot{ID: ids[i], CreatedAt: time.Unix(0, nanos).UTC()})
	}
	return snaps, nil
}

func (repo *chapterRepository) Snapshot(ctx context.Context, key chapter.Key, id string) (chapter.ChapterDocument, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return chapter.ChapterDocument{}, chapter.ErrSnapshotNotFound
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	doc, err := readDocument(filepath.Join(repo.snapshotDir(key), id+ext))
	if errors.Cause(err) == chapter.ErrNotFound {
		return chapter.ChapterDocument{}, chapter.ErrSnapshotNotFound
	}
	return doc, err
}

// snapshotIDs returns the chapter's snapshot ids, oldest first.
func (repo *chapterRepository) snapshotIDs(key chapter.Key) ([]string, error) {
	files, err := os.ReadDir(repo.snapshotDir(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading snapshots directory")
	}

	type snap struct {
		id    string
		nanos int64
	}
	var snaps []snap
	for _, f := range files {
		id := strings.TrimSuffix(f.Name(), ext)
		nanos, err := strconv.ParseInt(id, 10, 64)
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) || err != nil {
			continue
		}
		snaps = append(snaps, snap{id, nanos})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].nanos < snaps[j].nanos })

	ids := make([]string, len(snaps))
	for i, s := range snaps {
		ids[i] = s.id
	}
	return ids, nil
}

func readDocument(path string) (chapter.ChapterDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return chapter.ChapterDocument{}, chapter.ErrNotFound
		}
		return chapter.ChapterDocument{}, errors.Wrapf(err, "reading %s", filepath.Base(path))
	}
	var doc chapter.ChapterDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		return chapter.ChapterDocument{}, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	return doc, nil
}

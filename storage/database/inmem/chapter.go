package inmemdb

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

type chapterRepository struct {
	db           *chapterTable
	maxSnapshots int
}

var _ chapter.Repository = (*chapterRepository)(nil)

func NewChapterRepository(db *DB, maxSnapshots int) chapter.Repository {
	return &chapterRepository{db: db.chapter, maxSnapshots: maxSnapshots}
}

func (repo *chapterRepository) Get(ctx context.Context, key chapter.Key) (chapter.ChapterDocument, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	data, ok := repo.db.table[key]
	if !ok {
		return chapter.ChapterDocument{}, chapter.ErrNotFound
	}
	return decode(data)
}

func (repo *chapterRepository) List(ctx context.Context, orderings []core.DBOrdering) ([]chapter.ChapterDocument, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	docs := make([]chapter.ChapterDocument, 0, len(repo.db.table))
	for _, data := range repo.db.table {
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	chapter.SortDocuments(docs, orderings)
	return docs, nil
}

func (repo *chapterRepository) Save(ctx context.Context, doc chapter.ChapterDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding chapter")
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := doc.Key()
	repo.db.table[key] = data
	if repo.maxSnapshots <= 0 {
		return nil
	}

	snap := chapter.Snapshot{ID: strconv.FormatInt(doc.UpdatedAt.UnixNano(), 10), CreatedAt: doc.UpdatedAt.UTC()}
	rows := repo.db.snapshots[key]
	if n := len(rows); n > 0 && rows[n-1].snapshot.ID == snap.ID {
		rows[n-1].data = data
	} else {
		rows = append(rows, snapshotRow{snapshot: snap, data: data})
	}
	if len(rows) > repo.maxSnapshots {
		rows = rows[len(rows)-repo.maxSnapshots:]
	}
	repo.db.snapshots[key] = rows
	return nil
}

func (repo *chapterRepository) Delete(ctx context.Context, key chapter.Key) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[key]; !ok {
		return chapter.ErrNotFound
	}
	delete(repo.db.table, key)
	delete(repo.db.snapshots, key)
	return nil
}

func (repo *chapterRepository) Snapshots(ctx context.Context, key chapter.Key) ([]chapter.Snapshot, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := repo.db.snapshots[key]
	snaps := make([]chapter.Snapshot, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		snaps = append(snaps, rows[i].snapshot)
	}
	return snaps, nil
}

func (repo *chapterRepository) Snapshot(ctx context.Context, key chapter.Key, id string) (chapter.ChapterDocument, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, row := range repo.db.snapshots[key] {
		if row.snapshot.ID == id {
			return decode(row.data)
		}
	}
	return chapter.ChapterDocument{}, chapter.ErrSnapshotNotFound
}

func decode(data []byte) (chapter.ChapterDocument, error) {
	var doc chapter.ChapterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return chapter.ChapterDocument{}, errors.Wrap(err, "decoding chapter")
	}
	return doc, nil
}

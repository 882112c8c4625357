package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

const (
	selectChapter = `SELECT document FROM chapters WHERE class_num = $1 AND subject = $2 AND chapter_number = $3`

	upsertChapter = `
INSERT INTO chapters (class_num, subject, chapter_number, chapter_title, document, created_at, updated_at)
VALUES (:class_num, :subject, :chapter_number, :chapter_title, :document, :created_at, :updated_at)
ON CONFLICT (class_num, subject, chapter_number) DO UPDATE
SET chapter_title = EXCLUDED.chapter_title, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`

	insertSnapshot = `
INSERT INTO chapter_snapshots (class_num, subject, chapter_number, document, created_at)
VALUES (:class_num, :subject, :chapter_number, :document, :updated_at)`

	pruneSnapshots = `
DELETE FROM chapter_snapshots WHERE id IN (
    SELECT id FROM chapter_snapshots
    WHERE class_num = $1 AND subject = $2 AND chapter_number = $3
    ORDER BY created_at DESC, id DESC
    OFFSET $4
)`

	selectSnapshots = `
SELECT id, created_at FROM chapter_snapshots
WHERE class_num = $1 AND subject = $2 AND chapter_number = $3
ORDER BY created_at DESC, id DESC`

	selectSnapshot = `
SELECT document FROM chapter_snapshots
WHERE class_num = $1 AND subject = $2 AND chapter_number = $3 AND id = $4`
)

// columns chapters can be ordered by
var orderColumns = map[string]string{
	"class_num":      "class_num",
	"subject":        "subject",
	"chapter_number": "chapter_number",
	"updated_at":     "updated_at",
}

type (
	chapterRow struct {
		ClassNum      int       `db:"class_num"`
		Subject       string    `db:"subject"`
		ChapterNumber int       `db:"chapter_number"`
		ChapterTitle  string    `db:"chapter_title"`
		Document      []byte    `db:"document"`
		CreatedAt     time.Time `db:"created_at"`
		UpdatedAt     time.Time `db:"updated_at"`
	}

	snapshotRow struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}

	chapterRepository struct {
		db           *sqlx.DB
		maxSnapshots int
	}
)

var _ chapter.Repository = (*chapterRepository)(nil)

// NewChapterRepository stores chapters as JSONB documents in the `chapters` table.
func NewChapterRepository(db *sqlx.DB, maxSnapshots int) chapter.Repository {
	return &chapterRepository{db: db, maxSnapshots: maxSnapshots}
}

func (repo *chapterRepository) Get(ctx context.Context, key chapter.Key) (chapter.ChapterDocument, error) {
	var data []byte
	if err := repo.db.GetContext(ctx, &data, selectChapter, key.Class, key.Subject, key.Chapter); err != nil {
		if err == sql.ErrNoRows {
			return chapter.ChapterDocument{}, chapter.ErrNotFound
		}
		return chapter.ChapterDocument{}, errors.Wrap(err, "selecting chapter")
	}
	return decode(data)
}

func (repo *chapterRepository) List(ctx context.Context, orderings []core.DBOrdering) ([]chapter.ChapterDocument, error) {
	var rows [][]byte
	if err := repo.db.SelectContext(ctx, &rows, "SELECT document FROM chapters ORDER BY "+OrderBy(orderings)); err != nil {
		return nil, errors.Wrap(err, "selecting chapters")
	}

	docs := make([]chapter.ChapterDocument, 0, len(rows))
	for _, data := range rows {
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (repo *chapterRepository) Save(ctx context.Context, doc chapter.ChapterDocument) (err error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding chapter")
	}
	row := chapterRow{
		ClassNum:      doc.ClassNum,
		Subject:       doc.Subject,
		ChapterNumber: doc.ChapterNumber,
		ChapterTitle:  doc.ChapterTitle,
		Document:      data,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, upsertChapter, row); err != nil {
		return errors.Wrap(err, "upserting chapter")
	}
	if repo.maxSnapshots > 0 {
		if _, err = tx.NamedExecContext(ctx, insertSnapshot, row); err != nil {
			return errors.Wrap(err, "inserting snapshot")
		}
		if _, err = tx.ExecContext(ctx, pruneSnapshots, row.ClassNum, row.Subject, row.ChapterNumber, repo.maxSnapshots); err != nil {
			return errors.Wrap(err, "pruning snapshots")
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing chapter")
	}
	return nil
}

func (repo *chapterRepository) Delete(ctx context.Context, key chapter.Key) error {
	res, err := repo.db.ExecContext(
		ctx, "DELETE FROM chapters WHERE class_num = $1 AND subject = $2 AND chapter_number = $3",
		key.Class, key.Subject, key.Chapter,
	)
	if err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return chapter.ErrNotFound
	}
	return nil
}

func (repo *chapterRepository) Snapshots(ctx context.Context, key chapter.Key) ([]chapter.Snapshot, error) {
	var rows []snapshotRow
	if err := repo.db.SelectContext(ctx, &rows, selectSnapshots, key.Class, key.Subject, key.Chapter); err != nil {
		return nil, errors.Wrap(err, "selecting snapshots")
	}
	snaps := make([]chapter.Snapshot, len(rows))
	for i, row := range rows {
		snaps[i] = chapter.Snapshot{ID: strconv.FormatInt(row.ID, 10), CreatedAt: row.CreatedAt.UTC()}
	}
	return snaps, nil
}

func (repo *chapterRepository) Snapshot(ctx context.Context, key chapter.Key, id string) (chapter.ChapterDocument, error) {
	snapID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return chapter.ChapterDocument{}, chapter.ErrSnapshotNotFound
	}
	var data []byte
	if err = repo.db.GetContext(ctx, &data, selectSnapshot, key.Class, key.Subject, key.Chapter, snapID); err != nil {
		if err == sql.ErrNoRows {
			return chapter.ChapterDocument{}, chapter.ErrSnapshotNotFound
		}
		return chapter.ChapterDocument{}, errors.Wrap(err, "selecting snapshot")
	}
	return decode(data)
}

// OrderBy builds an ORDER BY clause from orderings on known columns; by key when there is none.
func OrderBy(orderings []core.DBOrdering) string {
	var terms []string
	for _, ord := range orderings {
		col, ok := orderColumns[ord.Field]
		if !ok {
			continue
		}
		terms = append(terms, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	if len(terms) == 0 {
		return "class_num ASC, subject ASC, chapter_number ASC"
	}
	return strings.Join(terms, ", ")
}

func decode(data []byte) (chapter.ChapterDocument, error) {
	var doc chapter.ChapterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return chapter.ChapterDocument{}, errors.Wrap(err, "decoding chapter")
	}
	return doc, nil
}

package chapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
)

var (
	// errors
	ErrNotFound         = errors.New("chapter not found")
	ErrExists           = errors.New("this chapter already exists")
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// mockables
	nowFunc   = time.Now
	afterFunc = func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) }

	// OrderingFields are the fields chapters can be listed by.
	OrderingFields = []string{"class_num", "subject", "chapter_number", "updated_at"}
)

type (
	// Repository persists chapters. Save also records a snapshot of the saved document.
	Repository interface {
		Get(ctx context.Context, key Key) (ChapterDocument, error)
		List(ctx context.Context, orderings []core.DBOrdering) ([]ChapterDocument, error)
		Save(ctx context.Context, doc ChapterDocument) error
		Delete(ctx context.Context, key Key) error
		Snapshots(ctx context.Context, key Key) ([]Snapshot, error)
		Snapshot(ctx context.Context, key Key, id string) (ChapterDocument, error)
	}

	Snapshot struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}

	Summary struct {
		Key
		Title       string    `json:"chapter_title"`
		SubjectName string    `json:"subject_name"`
		Progress    float64   `json:"progress"`
		Status      string    `json:"status"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	Service interface {
		Create(ctx context.Context, key Key) (ChapterDocument, error)
		Get(ctx context.Context, key Key) (ChapterDocument, error)
		List(ctx context.Context, orderings []core.DBOrdering) ([]Summary, error)
		Save(ctx context.Context, doc ChapterDocument) (ChapterDocument, error)
		Autosave(ctx context.Context, doc ChapterDocument) (bool, error)
		Flush(ctx context.Context) error
		Delete(ctx context.Context, key Key) error
		Snapshots(ctx context.Context, key Key) ([]Snapshot, error)
		Snapshot(ctx context.Context, key Key, id string) (ChapterDocument, error)
	}

	stopper interface {
		Stop() bool
	}

	// trailing is the write scheduled for a held back autosave.
	trailing struct {
		timer stopper
	}

	service struct {
		repo     Repository
		interval time.Duration

		mu        sync.Mutex
		lastWrite map[Key]time.Time
		pending   map[Key]ChapterDocument
		trailing  map[Key]*trailing
	}
)

var _ Service = (*service)(nil)

// NewService returns the chapter service. Autosaves of a chapter closer than `conf.Storage.AutosaveInterval`
// to its previous write are held back and written once the interval has passed.
func NewService(repo Repository, conf *core.Config) Service {
	return newService(repo, conf.Storage.AutosaveInterval)
}

func newService(repo Repository, interval time.Duration) *service {
	return &service{
		repo:      repo,
		interval:  interval,
		lastWrite: make(map[Key]time.Time),
		pending:   make(map[Key]ChapterDocument),
		trailing:  make(map[Key]*trailing),
	}
}

func (svc *service) Create(ctx context.Context, key Key) (ChapterDocument, error) {
	if err := key.Validate(); err != nil {
		return ChapterDocument{}, err
	}
	if _, err := svc.repo.Get(ctx, key); err == nil {
		return ChapterDocument{}, core.NewValidationError(ErrExists, core.FieldError{Field: "chapter_number", Error: ErrExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return ChapterDocument{}, errors.Wrap(err, "checking chapter")
	}

	doc := New(key.Class, key.Subject, key.Chapter)
	return svc.Save(ctx, doc)
}

// Get returns the chapter, or its held back autosave when there is one.
func (svc *service) Get(ctx context.Context, key Key) (ChapterDocument, error) {
	svc.mu.Lock()
	doc, held := svc.pending[key]
	svc.mu.Unlock()

	if held {
		doc.Parts = append(Parts(nil), doc.Parts...)
	} else {
		var err error
		if doc, err = svc.repo.Get(ctx, key); err != nil {
			return ChapterDocument{}, err
		}
	}
	doc.Parts.Normalize()
	return doc, nil
}

func (svc *service) List(ctx context.Context, orderings []core.DBOrdering) ([]Summary, error) {
	docs, err := svc.repo.List(ctx, orderings)
	if err != nil {
		return nil, errors.Wrap(err, "listing chapters")
	}
	sums := make([]Summary, 0, len(docs))
	for _, doc := range docs {
		doc.Parts.Normalize()
		prog := ComputeProgress(doc)
		sums = append(sums, Summary{
			Key:         doc.Key(),
			Title:       doc.ChapterTitle,
			SubjectName: LookupSubject(doc.Subject).Name,
			Progress:    prog.Overall,
			Status:      prog.Status,
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return sums, nil
}

// Save writes the chapter right away and drops any held back autosave of it.
func (svc *service) Save(ctx context.Context, doc ChapterDocument) (ChapterDocument, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	saved, err := svc.write(ctx, doc)
	if err != nil {
		return ChapterDocument{}, err
	}
	svc.drop(doc.Key())
	return saved, nil
}

// Autosave writes the chapter unless its last write is more recent than the autosave interval,
// in which case the document is held back, written when the interval has passed, and false is returned.
func (svc *service) Autosave(ctx context.Context, doc ChapterDocument) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	key := doc.Key()
	if last, ok := svc.lastWrite[key]; ok {
		if wait := svc.interval - nowFunc().Sub(last); wait > 0 {
			svc.pending[key] = doc
			if _, scheduled := svc.trailing[key]; !scheduled {
				tr := &trailing{}
				tr.timer = afterFunc(wait, func() { svc.writeHeld(key, tr) })
				svc.trailing[key] = tr
			}
			return false, nil
		}
	}
	if _, err := svc.write(ctx, doc); err != nil {
		return false, err
	}
	svc.drop(key)
	return true, nil
}

// writeHeld is the trailing write of a held back autosave.
// A failed write keeps the document held for the next write or Flush.
func (svc *service) writeHeld(key Key, tr *trailing) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.trailing[key] != tr {
		return
	}
	delete(svc.trailing, key)
	doc, ok := svc.pending[key]
	if !ok {
		return
	}
	if _, err := svc.write(context.Background(), doc); err != nil {
		return
	}
	delete(svc.pending, key)
}

// drop forgets the held back autosave of key; must be called with svc.mu held.
func (svc *service) drop(key Key) {
	if tr, ok := svc.trailing[key]; ok {
		tr.timer.Stop()
		delete(svc.trailing, key)
	}
	delete(svc.pending, key)
}

// Flush writes every held back autosave.
func (svc *service) Flush(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	keys := make([]Key, 0, len(svc.pending))
	for key := range svc.pending {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	for _, key := range keys {
		if _, err := svc.write(ctx, svc.pending[key]); err != nil {
			return errors.Wrapf(err, "flushing %s", key)
		}
		svc.drop(key)
	}
	return nil
}

// write persists doc; must be called with svc.mu held.
// On failure neither the throttle nor the held back documents change.
func (svc *service) write(ctx context.Context, doc ChapterDocument) (ChapterDocument, error) {
	now := nowFunc().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.Parts.Normalize()

	if err := svc.repo.Save(ctx, doc); err != nil {
		return ChapterDocument{}, errors.Wrap(err, "saving chapter")
	}
	svc.lastWrite[doc.Key()] = now
	return doc, nil
}

func (svc *service) Delete(ctx context.Context, key Key) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.repo.Delete(ctx, key); err != nil {
		return err
	}
	svc.drop(key)
	delete(svc.lastWrite, key)
	return nil
}

func (svc *service) Snapshots(ctx context.Context, key Key) ([]Snapshot, error) {
	return svc.repo.Snapshots(ctx, key)
}

func (svc *service) Snapshot(ctx context.Context, key Key, id string) (ChapterDocument, error) {
	return svc.repo.Snapshot(ctx, key, id)
}

// SortDocuments sorts docs in place following orderings; by key when there is none.
// Used by repositories that cannot sort themselves.
func SortDocuments(docs []ChapterDocument, orderings []core.DBOrdering) {
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{
			{Field: "class_num", Ascending: true},
			{Field: "subject", Ascending: true},
			{Field: "chapter_number", Ascending: true},
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, ord := range orderings {
			c := compareField(docs[i], docs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareField(a, b ChapterDocument, field string) int {
	cmpInt := func(x, y int) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch field {
	case "class_num":
		return cmpInt(a.ClassNum, b.ClassNum)
	case "chapter_number":
		return cmpInt(a.ChapterNumber, b.ChapterNumber)
	case "subject":
		switch {
		case a.Subject < b.Subject:
			return -1
		case a.Subject > b.Subject:
			return 1
		}
	case "updated_at":
		switch {
		case a.UpdatedAt.Before(b.UpdatedAt):
			return -1
		case a.UpdatedAt.After(b.UpdatedAt):
			return 1
		}
	}
	return 0
}

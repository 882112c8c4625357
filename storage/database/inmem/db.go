package inmemdb

import (
	"sync"

	"github.com/trezcool/guidebook/core/chapter"
)

type (
	DB struct {
		chapter *chapterTable
	}

	// rows are stored encoded so callers never share slices or maps with the table.
	chapterTable struct {
		table     map[chapter.Key][]byte
		snapshots map[chapter.Key][]snapshotRow
		mutex     sync.RWMutex
	}

	snapshotRow struct {
		snapshot chapter.Snapshot
		data     []byte
	}
)

func Open() *DB {
	return &DB{
		chapter: &chapterTable{
			table:     make(map[chapter.Key][]byte),
			snapshots: make(map[chapter.Key][]snapshotRow),
		},
	}
}

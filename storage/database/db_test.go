package database

import (
	"database/sql"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core"
)

func TestURL(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db",
		Port:          5433,
		User:          "app",
		Password:      "s3cret",
		AdminUser:     "root",
		AdminPassword: "toor",
		Name:          "guides",
	}}

	tests := []struct {
		name   string
		dbName string
		admin  bool
		tls    bool
		want   string
	}{
		{name: "app user", dbName: "guides", want: "postgres://app:s3cret@db:5433/guides?sslmode=require&timezone=utc"},
		{name: "admin", dbName: "postgres", admin: true, want: "postgres://root:toor@db:5433/postgres?sslmode=require&timezone=utc"},
		{name: "tls disabled", dbName: "guides", tls: true, want: "postgres://app:s3cret@db:5433/guides?sslmode=disable&timezone=utc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf.Database.DisableTLS = tc.tls
			assert.Equal(t, tc.want, URL(tc.dbName, tc.admin, conf))
		})
	}
}

func TestMigrate(t *testing.T) {
	defer func(orig func(string, *sql.DB, fs.FS, string, ...string) error) { gooseRunFunc = orig }(gooseRunFunc)

	var (
		gotCmd  string
		gotArgs []string
		files   []string
	)
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotCmd, gotArgs = command, args
		var err error
		files, err = fs.Glob(fsys, "*.sql")
		return err
	}

	require.NoError(t, Migrate(nil, "up-to", "2"))
	assert.Equal(t, "up-to", gotCmd)
	assert.Equal(t, []string{"2"}, gotArgs)
	assert.Equal(t, []string{"00001_create_chapters.sql", "00002_create_chapter_snapshots.sql"}, files)
}

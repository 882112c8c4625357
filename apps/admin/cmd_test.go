package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/apps/di"
	"github.com/trezcool/guidebook/core/chapter"
	testutil "github.com/trezcool/guidebook/tests"
)

type testCLI struct {
	*commandLine
	c   *di.Container
	out *bytes.Buffer
}

func setup(t *testing.T) testCLI {
	conf := testutil.Config(t.TempDir())
	conf.Export.PDFEnabled = false
	logger := &testutil.Logger{}

	c, err := di.New(context.Background(), conf, logger, logger)
	require.NoError(t, err)

	isTerminalFunc = func(int) bool { return false }
	askOneFunc = func(survey.Prompt, interface{}, ...survey.AskOpt) error {
		t.Fatal("unexpected prompt")
		return nil
	}

	out := &bytes.Buffer{}
	return testCLI{
		commandLine: &commandLine{
			conf:      conf,
			svc:       c.ChapterSvc,
			exportSvc: c.ExportSvc,
			validate:  c.Validate,
			out:       out,
		},
		c:   c,
		out: out,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli testCLI, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"list", "-lol"}, wantErr: errHelp},
		{name: "import without file", args: []string{"import"}, wantErr: errHelp},
		{name: "migrate without command", args: []string{"migrate"}, wantErr: errHelp},
	})
	assert.Contains(t, cli.out.String(), "Usage:")
}

func Test_commandLine_new(t *testing.T) {
	cli := setup(t)
	runCLITests(t, cli, []cliTest{
		{name: "created", args: []string{"new", "-subject", "History", "-chapter", "1", "-title", "The Rise of Nationalism in Europe"}},
		{name: "exists", args: []string{"new", "-subject", "history", "-chapter", "1"}, wantErrStr: "this chapter already exists"},
		{name: "invalid key", args: []string{"new", "-class", "8", "-subject", "history", "-chapter", "1"}, wantErrStr: "class_num: class must be between 9 and 12"},
		{name: "no subject outside a terminal", args: []string{"new", "-chapter", "2"}, wantErrStr: "subject: -subject is required"},
	})
	assert.Contains(t, cli.out.String(), "created class_10_history_ch01")

	doc, err := cli.svc.Get(context.Background(), chapter.Key{Class: 10, Subject: "history", Chapter: 1})
	require.NoError(t, err)
	assert.Equal(t, "The Rise of Nationalism in Europe", doc.ChapterTitle)

	// prompts in a terminal
	isTerminalFunc = func(int) bool { return true }
	askOneFunc = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		switch p.(type) {
		case *survey.Select:
			*response.(*string) = chapter.Geography
		case *survey.Input:
			*response.(*string) = "Resources and Development"
		default:
			return fmt.Errorf("unexpected prompt %T", p)
		}
		return nil
	}
	require.NoError(t, cli.run([]string{"admin", "new", "-chapter", "1"}))
	doc, err = cli.svc.Get(context.Background(), chapter.Key{Class: 10, Subject: chapter.Geography, Chapter: 1})
	require.NoError(t, err)
	assert.Equal(t, "Resources and Development", doc.ChapterTitle)
}

func Test_commandLine_list(t *testing.T) {
	cli := setup(t)
	testutil.SaveChapter(t, cli.c.Repo, testutil.SampleChapter())
	testutil.SaveChapter(t, cli.c.Repo, chapter.New(9, chapter.Geography, 2))

	require.NoError(t, cli.run([]string{"admin", "list", "-ordering", "-class_num"}))
	out := cli.out.String()
	assert.Contains(t, out, "CHAPTER")
	assert.Contains(t, out, "The Rise of Nationalism in Europe")
	assert.Less(t, bytes.Index(cli.out.Bytes(), []byte("class_10_history_ch01")), bytes.Index(cli.out.Bytes(), []byte("class_9_geography_ch02")))
}

func Test_commandLine_generate(t *testing.T) {
	cli := setup(t)
	testutil.SaveChapter(t, cli.c.Repo, testutil.SampleChapter())
	dir := t.TempDir()
	key := []string{"-subject", "history", "-chapter", "1"}

	runCLITests(t, cli, []cliTest{
		{name: "html", args: append([]string{"generate", "-format", "html", "-out", dir}, key...)},
		{name: "pdf falls back to docx", args: append([]string{"generate", "-format", "pdf", "-out", dir}, key...)},
		{name: "session", args: append([]string{"export", "-out", dir}, key...)},
		{name: "default output dir", args: append([]string{"generate"}, key...)},
		{name: "unknown format", args: append([]string{"generate", "-format", "odt"}, key...), wantErrStr: "unknown export format"},
		{name: "not found", args: []string{"generate", "-subject", "history", "-chapter", "2"}, wantErrStr: "chapter not found"},
	})

	for _, name := range []string{
		"Ch1_The_Rise_of_Nationalism_in_Europe_Class10.html",
		"Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx",
		"Ch1_The_Rise_of_Nationalism_in_Europe_Class10.json",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.FileExists(t, filepath.Join(cli.conf.Export.OutputDir, "Ch1_The_Rise_of_Nationalism_in_Europe_Class10.docx"))
	assert.Contains(t, cli.out.String(), "warning: pdf export is unavailable, wrote docx instead")
}

func Test_commandLine_import(t *testing.T) {
	cli := setup(t)
	path := filepath.Join(t.TempDir(), "ch2.md")
	outline := "---\nsubject: history\nchapter: 2\ntitle: Nationalism in India\n---\n\n## Part F: Quick Revision\n\n- Gandhiji returned in 1915\n"
	require.NoError(t, os.WriteFile(path, []byte(outline), 0o644))
	bad := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("notes"), 0o644))

	runCLITests(t, cli, []cliTest{
		{name: "imported", args: []string{"import", "-file", path}},
		{name: "exists outside a terminal", args: []string{"import", "-file", path}, wantErr: errAborted},
		{name: "forced", args: []string{"import", "-file", path, "-force"}},
		{name: "unsupported", args: []string{"import", "-file", bad}, wantErrStr: "only JSON sessions or Markdown outlines can be imported"},
	})

	isTerminalFunc = func(int) bool { return true }
	askOneFunc = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		*response.(*bool) = true
		return nil
	}
	require.NoError(t, cli.run([]string{"admin", "import", "-file", path}))

	doc, err := cli.svc.Get(context.Background(), chapter.Key{Class: 10, Subject: chapter.History, Chapter: 2})
	require.NoError(t, err)
	assert.Equal(t, "Nationalism in India", doc.ChapterTitle)
	assert.Equal(t, []string{"Gandhiji returned in 1915"}, doc.Revision.KeyPoints)
}

func Test_commandLine_diff(t *testing.T) {
	cli := setup(t)
	doc := testutil.SaveChapter(t, cli.c.Repo, testutil.SampleChapter())
	args := []string{"diff", "-subject", "history", "-chapter", "1"}

	runCLITests(t, cli, []cliTest{{name: "single version", args: args, wantErr: errNoSnapshot}})

	doc.ChapterTitle = "Nationalism in Europe"
	doc.UpdatedAt = doc.UpdatedAt.Add(time.Hour)
	testutil.SaveChapter(t, cli.c.Repo, doc)

	runCLITests(t, cli, []cliTest{
		{name: "previous version", args: args},
		{name: "unknown snapshot", args: append(args, "-snapshot", "42"), wantErrStr: "snapshot not found"},
	})
	out := cli.out.String()
	assert.Contains(t, out, "--- snapshot ")
	assert.Contains(t, out, "+++ class_10_history_ch01")
	assert.Contains(t, out, `-    "chapter_title": "The Rise of Nationalism in Europe",`)
	assert.Contains(t, out, `+    "chapter_title": "Nationalism in Europe",`)
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)
	runCLITests(t, cli, []cliTest{{name: "no database", args: []string{"migrate", "up"}, wantErr: errNoDB}})

	cli.db = &sql.DB{}
	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "chapter_tags", "sql"}},
	})
}

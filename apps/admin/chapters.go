package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/importer"
)

func (cli *commandLine) newChapter(ctx context.Context, key chapter.Key, title string) error {
	doc, err := cli.svc.Create(ctx, key)
	if err != nil {
		return err
	}
	if title != "" {
		doc.ChapterTitle = title
		if err = doc.Validate(cli.validate); err != nil {
			return err
		}
		if doc, err = cli.svc.Save(ctx, doc); err != nil {
			return errors.Wrap(err, "saving chapter")
		}
	}
	fmt.Fprintf(cli.out, "created %s\n", doc.Key())
	return nil
}

func (cli *commandLine) list(ctx context.Context, orderings []core.DBOrdering) error {
	sums, err := cli.svc.List(ctx, orderings)
	if err != nil {
		return errors.Wrap(err, "listing chapters")
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAPTER\tTITLE\tPROGRESS\tSTATUS")
	for _, s := range sums {
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\n", s.Key, s.Title, s.Progress, s.Status)
	}
	return w.Flush()
}

// generate writes the chapter in format f to dir, or to the configured output directory.
func (cli *commandLine) generate(ctx context.Context, key chapter.Key, f export.Format, dir string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	doc, err := cli.svc.Get(ctx, key)
	if err != nil {
		return err
	}

	art, err := cli.exportSvc.GenerateOrFallback(ctx, doc, f)
	if err != nil {
		return errors.Wrapf(err, "exporting %s", f)
	}
	if art.Fallback() {
		fmt.Fprintf(cli.out, "warning: %s export is unavailable, wrote %s instead\n", art.Requested, art.Format)
	}

	if dir == "" {
		dir = cli.conf.Export.OutputDir
	}
	path, err := art.WriteTo(dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, path)
	return nil
}

// importFile stores a session or outline file. An existing chapter is only replaced when forced or confirmed.
func (cli *commandLine) importFile(ctx context.Context, path string, force bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading import file")
	}
	doc, err := importer.Parse(filepath.Base(path), data)
	if err != nil {
		return err
	}
	if err = doc.Key().Validate(); err != nil {
		return err
	}
	if err = doc.Validate(cli.validate); err != nil {
		return err
	}

	if _, err = cli.svc.Get(ctx, doc.Key()); err == nil && !force {
		ok, err := cli.confirm(fmt.Sprintf("%s already exists. Replace it?", doc.Key()))
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	} else if err != nil && errors.Cause(err) != chapter.ErrNotFound {
		return err
	}

	saved, err := cli.svc.Save(ctx, doc)
	if err != nil {
		return errors.Wrap(err, "saving imported chapter")
	}
	fmt.Fprintf(cli.out, "imported %s\n", saved.Key())
	return nil
}

// diff prints a unified diff between a snapshot and the current chapter, both as session JSON.
func (cli *commandLine) diff(ctx context.Context, key chapter.Key, snapshotID string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	cur, err := cli.svc.Get(ctx, key)
	if err != nil {
		return err
	}

	if snapshotID == "" {
		snaps, err := cli.svc.Snapshots(ctx, key)
		if err != nil {
			return errors.Wrap(err, "listing snapshots")
		}
		// the newest snapshot is the current chapter
		if len(snaps) < 2 {
			return errNoSnapshot
		}
		snapshotID = snaps[1].ID
	}
	old, err := cli.svc.Snapshot(ctx, key, snapshotID)
	if err != nil {
		return err
	}

	a, err := chapter.MarshalSession(old)
	if err != nil {
		return err
	}
	b, err := chapter.MarshalSession(cur)
	if err != nil {
		return err
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "snapshot " + snapshotID,
		ToFile:   key.String(),
		Context:  3,
	})
	if err != nil {
		return errors.Wrap(err, "diffing chapter")
	}
	if text == "" {
		fmt.Fprintln(cli.out, "no changes")
		return nil
	}
	fmt.Fprint(cli.out, text)
	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/storage/database"
)

var (
	askOneFunc     = survey.AskOne    // mockable
	isTerminalFunc = term.IsTerminal  // mockable
	migrateFunc    = database.Migrate // mockable

	errHelp       = errors.New("help provided")
	errAborted    = errors.New("aborted")
	errNoDB       = errors.New("migrate needs the postgres storage driver")
	errNoSnapshot = errors.New("no snapshot to compare with")
)

type commandLine struct {
	conf      *core.Config
	svc       chapter.Service
	exportSvc export.Service
	validate  *validator.Validate
	db        *sql.DB // nil unless the postgres driver is used
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  new -class N -subject SUBJECT -chapter N [-title TITLE] - create a chapter")
	fmt.Fprintln(cli.out, "  list [-ordering FIELDS]                                  - list chapters with their progress")
	fmt.Fprintln(cli.out, "  generate -class N -subject SUBJECT -chapter N [-format docx|pdf|html] [-out DIR] - write the guide")
	fmt.Fprintln(cli.out, "  export -class N -subject SUBJECT -chapter N [-out DIR]   - write the chapter session (JSON)")
	fmt.Fprintln(cli.out, "  import -file PATH [-force]                               - import a JSON session or Markdown outline")
	fmt.Fprintln(cli.out, "  diff -class N -subject SUBJECT -chapter N [-snapshot ID] - compare a chapter with a snapshot")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                   - run database migrations (goose commands)")
}

// keyFlags registers the chapter key flags on fs.
func keyFlags(fs *flag.FlagSet) func() chapter.Key {
	class := fs.Int("class", chapter.DefaultClass, "The class: 9 to 12.")
	subject := fs.String("subject", "", "The subject id, e.g. history.")
	number := fs.Int("chapter", 0, "The chapter number: 1 to 20.")
	return func() chapter.Key {
		return chapter.Key{Class: *class, Subject: core.CleanString(*subject, true /* lower */), Chapter: *number}
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	newCmd := flag.NewFlagSet("new", flag.ContinueOnError)
	newKey := keyFlags(newCmd)
	newTitle := newCmd.String("title", "", "The chapter title. Prompted when omitted.")

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listOrdering := listCmd.String("ordering", "", "Comma separated fields, e.g. -class_num,subject.")

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateKey := keyFlags(generateCmd)
	generateFormat := generateCmd.String("format", "docx", "The output format: docx, pdf or html.")
	generateOut := generateCmd.String("out", "", "The output directory. Defaults to the configured one.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportKey := keyFlags(exportCmd)
	exportOut := exportCmd.String("out", "", "The output directory. Defaults to the configured one.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "The JSON session or Markdown outline to import.")
	importForce := importCmd.Bool("force", false, "Replace an existing chapter without asking.")

	diffCmd := flag.NewFlagSet("diff", flag.ContinueOnError)
	diffKey := keyFlags(diffCmd)
	diffSnapshot := diffCmd.String("snapshot", "", "The snapshot id. Defaults to the one before the last save.")

	for _, fs := range []*flag.FlagSet{newCmd, listCmd, generateCmd, exportCmd, importCmd, diffCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "new":
		if err := newCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		key := newKey()
		if key.Subject == "" {
			if err := cli.askSubject(&key.Subject); err != nil {
				return err
			}
		}
		title := strings.TrimSpace(*newTitle)
		if title == "" && cli.interactive() {
			if err := askOneFunc(&survey.Input{Message: "Chapter title:"}, &title); err != nil {
				return err
			}
		}
		return cli.newChapter(ctx, key, title)

	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.list(ctx, core.ParseOrderings(*listOrdering, chapter.OrderingFields...))

	case "generate":
		if err := generateCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		format, err := export.ParseFormat(*generateFormat)
		if err != nil {
			return err
		}
		return cli.generate(ctx, generateKey(), format, *generateOut)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.generate(ctx, exportKey(), export.JSON, *exportOut)

	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importFile(ctx, *importFile, *importForce)

	case "diff":
		if err := diffCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.diff(ctx, diffKey(), *diffSnapshot)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) interactive() bool {
	return isTerminalFunc(int(os.Stdin.Fd()))
}

// askSubject prompts for a subject when running in a terminal.
func (cli *commandLine) askSubject(subject *string) error {
	if !cli.interactive() {
		return core.NewValidationError(nil, core.FieldError{Field: "subject", Error: "-subject is required"})
	}
	return askOneFunc(&survey.Select{Message: "Subject:", Options: chapter.SubjectIDs, Default: chapter.History}, subject)
}

// confirm asks a yes/no question; it is always no outside a terminal.
func (cli *commandLine) confirm(msg string) (bool, error) {
	if !cli.interactive() {
		return false, nil
	}
	var ok bool
	if err := askOneFunc(&survey.Confirm{Message: msg}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

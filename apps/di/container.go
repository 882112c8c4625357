// Package di builds the services shared by the API server and the admin CLI from the configuration.
package di

import (
	"context"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	docxsvc "github.com/trezcool/guidebook/services/docx"
	htmlsvc "github.com/trezcool/guidebook/services/html"
	pdfsvc "github.com/trezcool/guidebook/services/pdf"
	qrsvc "github.com/trezcool/guidebook/services/qrcode"
	"github.com/trezcool/guidebook/storage/database"
	inmemdb "github.com/trezcool/guidebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/guidebook/storage/database/sqlx"
	"github.com/trezcool/guidebook/storage/filestore"
	"github.com/trezcool/guidebook/storage/uploads"
)

// storage drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Container struct {
	Conf       *core.Config
	Logger     core.Logger
	DB         *sqlx.DB // nil unless the postgres driver is used
	Repo       chapter.Repository
	ChapterSvc chapter.Service
	ExportSvc  export.Service
	Images     *uploads.Store
	Validate   *validator.Validate
	Translator ut.Translator
}

// New wires every service. dbLogger reports database set up steps.
func New(ctx context.Context, conf *core.Config, logger, dbLogger core.Logger) (*Container, error) {
	repo, db, err := NewRepository(ctx, conf, dbLogger)
	if err != nil {
		return nil, err
	}

	validate, translator := NewValidator()
	images := uploads.NewStore(conf)
	return &Container{
		Conf:       conf,
		Logger:     logger,
		DB:         db,
		Repo:       repo,
		ChapterSvc: chapter.NewService(repo, conf),
		ExportSvc:  NewExportService(conf, logger, images),
		Images:     images,
		Validate:   validate,
		Translator: translator,
	}, nil
}

// NewRepository returns the chapter repository of `conf.Storage.Driver`.
// The postgres database is created and migrated when needed.
func NewRepository(ctx context.Context, conf *core.Config, dbLogger core.Logger) (chapter.Repository, *sqlx.DB, error) {
	switch conf.Storage.Driver {
	case DriverFile:
		return filestore.NewChapterRepository(conf), nil, nil
	case DriverMemory:
		return inmemdb.NewChapterRepository(inmemdb.Open(), conf.Storage.MaxSnapshots), nil, nil
	case DriverPostgres:
		db, err := setUpDB(ctx, conf)
		if err != nil {
			return nil, nil, errors.Wrap(err, "setting up database")
		}
		dbLogger.Info(fmt.Sprintf("connected to %s", conf.Database.Address()))
		return sqlxrepos.NewChapterRepository(db, conf.Storage.MaxSnapshots), db, nil
	}
	return nil, nil, errors.Wrap(ErrUnknownDriver, conf.Storage.Driver)
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewExportService registers every export backend.
func NewExportService(conf *core.Config, logger core.Logger, images export.ImageStore) export.Service {
	html := htmlsvc.NewExporter()
	return export.NewService(
		logger,
		images,
		qrsvc.NewEncoder(qrsvc.DefaultSize),
		docxsvc.NewExporter(),
		html,
		pdfsvc.NewExporter(conf.Export, html),
	)
}

// NewValidator returns a validator with the core and chapter validations and their english messages.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	chapter.InitValidators(validate, translator)
	return validate, translator
}

// Close flushes held back autosaves and releases the database.
func (c *Container) Close(ctx context.Context) error {
	if err := c.ChapterSvc.Flush(ctx); err != nil {
		return err
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

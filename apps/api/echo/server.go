// Package echoapi serves the guide editor HTTP API.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/storage/uploads"
)

type (
	// ImageStore keeps uploaded images.
	ImageStore interface {
		Save(ctx context.Context, filename string, data []byte) (uploads.Upload, error)
		Open(name string) ([]byte, string, error)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		ChapterSvc chapter.Service
		ExportSvc  export.Service
		Images     ImageStore
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit(bodyLimit(conf.Uploads.MaxBytes)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerMetaAPI(v1, s.deps.ExportSvc)
	registerChapterAPI(v1, s.deps.ChapterSvc, s.deps.ExportSvc, s.deps.Logger, s.deps.Validate, s.deps.Translator)
	registerUploadAPI(v1, s.deps.Images)
	registerImportAPI(v1, s.deps.ChapterSvc, s.deps.Validate)
}

// bodyLimit leaves room for the multipart envelope around the largest accepted upload.
func bodyLimit(maxBytes int64) string {
	if maxBytes <= 0 {
		return "10M"
	}
	return strconv.FormatInt(maxBytes+1<<20, 10)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGSTOP:
	default: // already shutting down
	}
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// Shutdown stops accepting requests, waits for the running ones then writes the held back autosaves.
func (s *server) Shutdown(ctx context.Context) error {
	if err := s.app.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.deps.ChapterSvc.Flush(ctx); err != nil {
		return errors.Wrap(err, "flushing autosaves")
	}
	return nil
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}

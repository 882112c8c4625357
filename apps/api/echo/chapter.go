package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
)

// FallbackHeader is set on exports that were generated as DOCX instead of the requested format.
const FallbackHeader = "X-Export-Fallback"

type chapterApi struct {
	svc        chapter.Service
	exportSvc  export.Service
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

func registerChapterAPI(
	g *echo.Group,
	svc chapter.Service,
	exportSvc export.Service,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := chapterApi{
		svc:        svc,
		exportSvc:  exportSvc,
		logger:     logger,
		validate:   validate,
		translator: translator,
	}

	cg := g.Group("/chapters")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:class/:subject/:number", chapterKeyMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/autosave", api.autosave)
	dg.GET("/progress", api.progress)
	dg.GET("/snapshots", api.snapshots)
	dg.GET("/snapshots/:id", api.snapshot)
	dg.POST("/snapshots/:id/restore", api.restore)
	dg.GET("/export", api.export)
	dg.GET("/preview", api.preview)
	dg.GET("/live", api.live)

	registerPartAPI(dg, svc, validate)
}

// Handlers

func (api *chapterApi) query(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx, chapter.OrderingFields...)

	sums, err := api.svc.List(ctx.Request().Context(), ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "listing chapters")
	}
	return ctx.JSON(http.StatusOK, sums)
}

func (api *chapterApi) create(ctx echo.Context) error {
	var key chapter.Key
	if err := ctx.Bind(&key); err != nil {
		return errors.Wrap(err, "binding to chapter.Key")
	}
	key.Subject = core.CleanString(key.Subject, true /* lower */)
	if key.Class == 0 {
		key.Class = chapter.DefaultClass
	}

	doc, err := api.svc.Create(ctx.Request().Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *chapterApi) retrieve(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

// bindValid binds and validates the request chapter.
func (api *chapterApi) bindValid(ctx echo.Context) (chapter.ChapterDocument, error) {
	key, err := getContextKey(ctx)
	if err != nil {
		return chapter.ChapterDocument{}, err
	}
	doc, err := bindDocument(ctx, key)
	if err != nil {
		return chapter.ChapterDocument{}, err
	}
	if err = doc.Validate(api.validate); err != nil {
		return chapter.ChapterDocument{}, err
	}
	return doc, nil
}

func (api *chapterApi) update(ctx echo.Context) error {
	doc, err := api.bindValid(ctx)
	if err != nil {
		return err
	}
	saved, err := api.svc.Save(ctx.Request().Context(), doc)
	if err != nil {
		return errors.Wrap(err, "saving chapter")
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (api *chapterApi) destroy(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), key); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type autosaveResponse struct {
	Saved bool `json:"saved"`
}

func (api *chapterApi) autosave(ctx echo.Context) error {
	doc, err := api.bindValid(ctx)
	if err != nil {
		return err
	}
	saved, err := api.svc.Autosave(ctx.Request().Context(), doc)
	if err != nil {
		return errors.Wrap(err, "autosaving chapter")
	}
	return ctx.JSON(http.StatusOK, autosaveResponse{Saved: saved})
}

func (api *chapterApi) progress(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, chapter.ComputeProgress(doc))
}

func (api *chapterApi) snapshots(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	snaps, err := api.svc.Snapshots(ctx.Request().Context(), key)
	if err != nil {
		return errors.Wrap(err, "listing snapshots")
	}
	return ctx.JSON(http.StatusOK, snaps)
}

func (api *chapterApi) snapshot(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Snapshot(ctx.Request().Context(), key, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

// restore saves a snapshot as the current chapter.
func (api *chapterApi) restore(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Snapshot(ctx.Request().Context(), key, ctx.Param("id"))
	if err != nil {
		return err
	}
	saved, err := api.svc.Save(ctx.Request().Context(), doc)
	if err != nil {
		return errors.Wrap(err, "restoring snapshot")
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (api *chapterApi) export(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "format", Error: err.Error()})
	}
	doc, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return err
	}

	art, err := api.exportSvc.GenerateOrFallback(ctx.Request().Context(), doc, format)
	if err != nil {
		return errors.Wrapf(err, "exporting %s", format)
	}
	if art.Fallback() {
		ctx.Response().Header().Set(FallbackHeader, string(art.Format))
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", art.Filename))
	return ctx.Blob(http.StatusOK, art.ContentType, art.Data)
}

func (api *chapterApi) preview(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return err
	}
	page, err := api.exportSvc.Preview(ctx.Request().Context(), doc, ctx.QueryParam("section"))
	if err != nil {
		return err
	}
	return ctx.HTMLBlob(http.StatusOK, page)
}

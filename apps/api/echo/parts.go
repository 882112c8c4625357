package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

type (
	partApi struct {
		svc      chapter.Service
		validate *validator.Validate
	}

	NewPartRequest struct {
		Name        string `json:"name" validate:"notblank,max=100"`
		Description string `json:"description" validate:"max=300"`
	}

	// UpdatePartRequest only changes the fields it sets.
	UpdatePartRequest struct {
		Name        *string `json:"name" validate:"omitempty,max=100"`
		Description *string `json:"description" validate:"omitempty,max=300"`
		Enabled     *bool   `json:"enabled"`
	}

	MovePartRequest struct {
		Direction string `json:"direction" validate:"required,oneof=up down"`
	}

	MovePartResponse struct {
		Moved bool          `json:"moved"`
		Parts chapter.Parts `json:"parts"`
	}
)

func registerPartAPI(dg *echo.Group, svc chapter.Service, validate *validator.Validate) {
	api := partApi{svc: svc, validate: validate}

	pg := dg.Group("/parts")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.POST("/:id/move", api.move)
}

// edit loads the chapter of the request, applies fn to its parts and saves it.
func (api *partApi) edit(ctx echo.Context, fn func(parts *chapter.Parts) error) (chapter.ChapterDocument, error) {
	key, err := getContextKey(ctx)
	if err != nil {
		return chapter.ChapterDocument{}, err
	}
	reqCtx := ctx.Request().Context()
	doc, err := api.svc.Get(reqCtx, key)
	if err != nil {
		return chapter.ChapterDocument{}, err
	}
	if err = fn(&doc.Parts); err != nil {
		return chapter.ChapterDocument{}, partError(err)
	}
	return api.save(reqCtx, doc)
}

func (api *partApi) save(ctx context.Context, doc chapter.ChapterDocument) (chapter.ChapterDocument, error) {
	saved, err := api.svc.Save(ctx, doc)
	if err != nil {
		return chapter.ChapterDocument{}, errors.Wrap(err, "saving chapter")
	}
	return saved, nil
}

// partError reports refused part edits as validation errors.
func partError(err error) error {
	switch errors.Cause(err) {
	case chapter.ErrPartNotRemovable, chapter.ErrPartNotCustom:
		return core.NewValidationError(err)
	}
	return err
}

// Handlers

func (api *partApi) query(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Get(ctx.Request().Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc.Parts.Sorted())
}

func (api *partApi) create(ctx echo.Context) error {
	var data NewPartRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPartRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	var part chapter.Part
	if _, err := api.edit(ctx, func(parts *chapter.Parts) error {
		part = parts.AddCustom(data.Name, data.Description)
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, part)
}

func (api *partApi) update(ctx echo.Context) error {
	var data UpdatePartRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePartRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	id := ctx.Param("id")
	doc, err := api.edit(ctx, func(parts *chapter.Parts) error {
		if data.Name != nil {
			if err := parts.Rename(id, *data.Name); err != nil {
				return err
			}
		}
		if data.Description != nil {
			if err := parts.Describe(id, *data.Description); err != nil {
				return err
			}
		}
		if data.Enabled != nil {
			if *data.Enabled {
				return parts.Enable(id)
			}
			return parts.Disable(id)
		}
		_, err := parts.Get(id)
		return err
	})
	if err != nil {
		return err
	}

	part, err := doc.Parts.Get(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, part)
}

func (api *partApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.edit(ctx, func(parts *chapter.Parts) error { return parts.Remove(id) }); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *partApi) move(ctx echo.Context) error {
	var data MovePartRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MovePartRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	var moved bool
	doc, err := api.edit(ctx, func(parts *chapter.Parts) error {
		var err error
		moved, err = parts.Move(ctx.Param("id"), data.Direction == "up")
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MovePartResponse{Moved: moved, Parts: doc.Parts.Sorted()})
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/importer"
)

type importApi struct {
	svc      chapter.Service
	validate *validator.Validate
}

func registerImportAPI(g *echo.Group, svc chapter.Service, validate *validator.Validate) {
	api := importApi{svc: svc, validate: validate}

	g.POST("/import", api.create)
}

// create stores an uploaded session or outline, replacing any chapter with the same key.
func (api *importApi) create(ctx echo.Context) error {
	filename, data, err := bindFile(ctx)
	if err != nil {
		return err
	}
	doc, err := importer.Parse(filename, data)
	if err != nil {
		return err
	}
	if err = doc.Key().Validate(); err != nil {
		return err
	}
	if err = doc.Validate(api.validate); err != nil {
		return err
	}

	saved, err := api.svc.Save(ctx.Request().Context(), doc)
	if err != nil {
		return errors.Wrap(err, "saving imported chapter")
	}
	return ctx.JSON(http.StatusCreated, saved)
}

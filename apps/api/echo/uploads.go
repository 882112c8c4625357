package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type uploadApi struct {
	images ImageStore
}

func registerUploadAPI(g *echo.Group, images ImageStore) {
	api := uploadApi{images: images}

	g.POST("/uploads", api.create)
	g.GET("/uploads/:name", api.retrieve)
}

func (api *uploadApi) create(ctx echo.Context) error {
	filename, data, err := bindFile(ctx)
	if err != nil {
		return err
	}
	up, err := api.images.Save(ctx.Request().Context(), filename, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, up)
}

func (api *uploadApi) retrieve(ctx echo.Context) error {
	data, contentType, err := api.images.Open(ctx.Param("name"))
	if err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, contentType, data)
}

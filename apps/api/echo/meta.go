package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/guidebook/core/chapter"
	"github.com/trezcool/guidebook/core/export"
	"github.com/trezcool/guidebook/core/style"
)

type metaApi struct {
	exportSvc export.Service
}

func registerMetaAPI(g *echo.Group, exportSvc export.Service) {
	api := metaApi{exportSvc: exportSvc}

	g.GET("/subjects", api.subjects)
	g.GET("/options", api.options)
	g.GET("/capabilities", api.capabilities)
}

func (api *metaApi) subjects(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, chapter.Subjects())
}

func (api *metaApi) options(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, chapter.FormOptions(style.PageSizeNames(), style.NumberPositions))
}

func (api *metaApi) capabilities(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.exportSvc.Capabilities())
}

package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core/chapter"
)

const ctxKeyChapter = "chapterKey"

var errKeyNotFoundInCtx = errors.New("chapter key not found in echo.Context")

// chapterKeyMiddleware validates the chapter key of detail endpoints before they run.
func chapterKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			key, err := bindKey(ctx)
			if err != nil {
				return err
			}
			ctx.Set(ctxKeyChapter, key)
			return next(ctx)
		}
	}
}

func getContextKey(ctx echo.Context) (chapter.Key, error) {
	if key, ok := ctx.Get(ctxKeyChapter).(chapter.Key); ok {
		return key, nil
	}
	return chapter.Key{}, errKeyNotFoundInCtx
}

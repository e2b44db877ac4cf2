package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/middleware"
	"github.com/reoring/recjson/value"
)

// DecodeJSON decodes request bodies into records of type t, stores them in
// the request context on success, or answers 400 with the issue payload.
func DecodeJSON(t *value.Type, opt recjson.DecodeOpt) echo.MiddlewareFunc {
	opt = middleware.WithDefaults(opt)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rec, err := middleware.DecodeBody(c.Request(), t, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithRecord(c.Request().Context(), rec)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetRecord fetches the decoded record from echo.Context.
func GetRecord(c echo.Context) (*value.Value, bool) {
	return middleware.RecordFromContext(c.Request().Context())
}

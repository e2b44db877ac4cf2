package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/middleware"
	"github.com/reoring/recjson/value"
)

// DecodeJSON decodes the request body into a record of type t with opt (or
// middleware.DefaultDecodeOpt when zero), stores it in the request context,
// and aborts with 400 and the issue payload when the body is malformed.
func DecodeJSON(t *value.Type, opt recjson.DecodeOpt) gin.HandlerFunc {
	opt = middleware.WithDefaults(opt)
	return func(c *gin.Context) {
		rec, err := middleware.DecodeBody(c.Request, t, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithRecord(c.Request.Context(), rec))
		c.Next()
	}
}

// GetRecord fetches the decoded record from gin.Context.
func GetRecord(c *gin.Context) (*value.Value, bool) {
	return middleware.RecordFromContext(c.Request.Context())
}

package ginmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/schema"
)

func TestDecodeJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	typ := schema.MustParseType("tuple<int32 n>")
	r.POST("/", DecodeJSON(typ, recjson.DecodeOpt{}), func(c *gin.Context) {
		rec, ok := GetRecord(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, recjson.Encode(rec, ""))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n":5}`)))
	if rr.Code != http.StatusOK || rr.Body.String() != `{"n":5}` {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n":1,"n":2}`)))
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "duplicate_key") {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}

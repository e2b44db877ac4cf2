// Package middleware decodes JSON request bodies into records at HTTP
// boundaries. Framework adapters live in the gin and echo subdirectories.
package middleware

import (
	"context"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/value"
)

type ctxKeyRecord struct{}

// ContextWithRecord attaches a decoded request record to the context.
func ContextWithRecord(ctx context.Context, rec *value.Value) context.Context {
	return context.WithValue(ctx, ctxKeyRecord{}, rec)
}

// RecordFromContext retrieves the decoded request record.
func RecordFromContext(ctx context.Context) (*value.Value, bool) {
	rec, ok := ctx.Value(ctxKeyRecord{}).(*value.Value)
	return rec, ok
}

// DefaultDecodeOpt returns the options used when a caller passes the zero
// value: duplicate keys are errors and bodies are capped at 1 MiB.
func DefaultDecodeOpt() recjson.DecodeOpt {
	return recjson.DecodeOpt{OnDuplicateKey: recjson.Error, MaxBytes: 1 << 20}
}

// WithDefaults replaces a zero opt with DefaultDecodeOpt.
func WithDefaults(opt recjson.DecodeOpt) recjson.DecodeOpt {
	if opt.OnDuplicateKey == recjson.Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		def := DefaultDecodeOpt()
		def.Timestamps = opt.Timestamps
		return def
	}
	return opt
}

// DecodeBody decodes the body of r into a new record of type t.
func DecodeBody(r *http.Request, t *value.Type, opt recjson.DecodeOpt) (*value.Value, error) {
	return recjson.DecodeFrom(recjson.JSONReader(r.Body), value.New(t), opt)
}

// ErrorPayload shapes a decode error for JSON responses.
func ErrorPayload(err error) map[string]any {
	if iss, ok := recjson.AsIssues(err); ok {
		out := make([]map[string]any, len(iss))
		for i, it := range iss {
			out[i] = map[string]any{"path": it.Path, "code": it.Code, "message": it.Message, "offset": it.Offset}
		}
		return map[string]any{"issues": out}
	}
	if pe, ok := recjson.AsParseError(err); ok {
		return map[string]any{"issues": []map[string]any{{
			"path": "", "code": pe.Code, "message": pe.Error(), "offset": pe.Offset,
		}}}
	}
	return map[string]any{"error": err.Error()}
}

// DecodeJSON returns net/http middleware that decodes request bodies into
// records of type t and stores them in the request context. Requests with
// malformed bodies are answered with 400 and the ErrorPayload.
func DecodeJSON(t *value.Type, opt recjson.DecodeOpt) func(http.Handler) http.Handler {
	opt = WithDefaults(opt)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := DecodeBody(r, t, opt)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorPayload(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithRecord(r.Context(), rec)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = gojson.NewEncoder(w).Encode(body)
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/api"
	"github.com/cloo-solutions/folio/internal/logger"
)

// Recover turns a panic in a handler into a 500 {"error":"Server error"}
// response. The panic value and stack are logged, never returned.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.FromContext(r.Context(), nil).Error("panic recovered",
				zap.String("panic", fmt.Sprint(v)),
				zap.ByteString("stack", debug.Stack()))

			if rec.status == 0 {
				api.Error(rec, http.StatusInternalServerError, api.ServerErrorMessage)
			}
		}()

		next.ServeHTTP(rec, r)
	})
}

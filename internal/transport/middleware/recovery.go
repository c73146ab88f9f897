package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
)

// Recovery turns a panic into a 500 without echoing the panic value.
func Recovery(lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					lg.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"trace_id", TraceIDFromContext(r.Context()),
						"stack", string(debug.Stack()))

					status, body := internal.NewInternalError("internal server error", nil).ToHTTPResponse()
					base.WriteJSON(w, status, body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

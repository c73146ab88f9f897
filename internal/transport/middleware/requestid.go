package middleware

import (
	"context"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

type traceKey struct{}

// TraceID reuses an inbound X-Trace-ID or mints one, echoes it on the
// response and attaches it to the request logger.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), traceKey{}, traceID)
		ctx = logger.With(ctx, "trace_id", traceID)

		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

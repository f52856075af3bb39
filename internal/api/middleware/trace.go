package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and echoes it in
// the X-Trace-ID response header. A valid client-supplied X-Trace-ID is
// reused. Handlers get a logger carrying the trace ID via logger.FromContext.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(shared.TraceIDHeader)
			if !shared.ValidTraceID(traceID) {
				traceID = ""
			}
			ctx := shared.SetTraceID(r.Context(), traceID)
			traceID = shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithContext(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(shared.TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	var seen string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("generates trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/1", nil))

		require.NotEmpty(t, seen)
		assert.True(t, shared.ValidTraceID(seen))
		assert.Equal(t, seen, w.Header().Get(shared.TraceIDHeader))

		entries := buf.FindEntries("inside handler")
		require.NotEmpty(t, entries)
		assert.Equal(t, seen, entries[len(entries)-1]["trace_id"])
	})

	t.Run("reuses valid client trace id", func(t *testing.T) {
		const id = "0b6f7a52-8f7e-4c55-9a1b-2f3c4d5e6f70"
		req := httptest.NewRequest(http.MethodGet, "/status/1", nil)
		req.Header.Set(shared.TraceIDHeader, id)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Equal(t, id, w.Header().Get(shared.TraceIDHeader))
	})

	t.Run("replaces invalid client trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status/1", nil)
		req.Header.Set(shared.TraceIDHeader, "<script>")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.NotEqual(t, "<script>", seen)
		assert.True(t, shared.ValidTraceID(seen))
	})
}

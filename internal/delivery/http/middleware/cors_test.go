package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{" https://dashboard.example.com/ "}, next)

	t.Run("allowed origin gets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/sedes", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://dashboard.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rr.Header().Get("Vary"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/sedes", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "http://test/visits", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.NotContains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Equal(t, corsAllowHeaders, rr.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight from unknown origin still 204 without headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "http://test/visits", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

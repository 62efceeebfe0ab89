package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sedesupport/internal/delivery/http/helpers"
	"sedesupport/internal/domain"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID string
	role   string
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.userID, f.role, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
		wantRole      string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{userID: "user-123", role: domain.RoleAdmin},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
			wantRole:      domain.RoleAdmin,
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID, gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				gotRole, _ = RoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/sedes", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, gotUserID, "user ID in context")
				assert.Equal(t, tt.wantRole, gotRole, "role in context")
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		hasRole    bool
		wantStatus int
	}{
		{name: "admin passes", role: domain.RoleAdmin, hasRole: true, wantStatus: http.StatusOK},
		{name: "staff forbidden", role: domain.RoleStaff, hasRole: true, wantStatus: http.StatusForbidden},
		{name: "no role in context", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAdmin()(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/sedes", nil)
			if tt.hasRole {
				req = req.WithContext(SetUser(req.Context(), "user-123", tt.role))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, nextCalled)
		})
	}
}

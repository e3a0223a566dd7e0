package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studyquest/internal/auth"
	"github.com/sakif/studyquest/internal/catalog"
	"github.com/sakif/studyquest/internal/repository/sqlite"
	"github.com/sakif/studyquest/internal/service"
)

// testEnv wires real services over an in-memory database.
type testEnv struct {
	db     *sqlite.DB
	tokens *auth.TokenService
	auth   *service.AuthService
	logger *slog.Logger
	clock  service.Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Seed(context.Background(), catalog.TaskTypes(), catalog.Checklists()))

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	passwords, err := auth.NewPasswordService(4)
	require.NoError(t, err)

	return &testEnv{
		db:     db,
		tokens: tokens,
		auth:   service.NewAuthService(db.Users(), tokens, passwords, logger),
		logger: logger,
		clock:  service.FixedClock(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)),
	}
}

// register creates a user through the service and returns its ID.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	res, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email:    username + "@x.com",
		Username: username,
		Password: "pw123",
	})
	require.NoError(t, err)
	return res.User.ID
}

// asUser stamps every request with userID, standing in for RequireAuth.
func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// router is a bare chi router so URL parameters resolve.
func router(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	return r
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Env:                  "test",
		Port:                 "0",
		JWTSecret:            testSecret,
		DBDriver:             "sqlite",
		DBSQLitePath:         ":memory:",
		FeatureFlags:         "index_cache=off,image_uploads=on",
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 5,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, app: srv.App(), db: db}
}

func (e *testEnv) user(t *testing.T, username string, admin bool) (*models.User, string) {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", IsAdmin: admin}
	require.NoError(t, e.db.Create(u).Error)
	token, err := middleware.IssueToken(testSecret, u.ID, u.Username)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, e.db.Create(g).Error)
	return g
}

func (e *testEnv) post(t *testing.T, author *models.User, text string, groupID *uint) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Text: text, GroupID: groupID}
	require.NoError(t, e.db.Omit("Author", "Group").Create(p).Error)
	return p
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

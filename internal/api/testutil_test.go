package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/internal/storage"
	"github.com/steemit/yatube/pkg/config"
)

const (
	pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	mediaURL  = "http://testserver/media/"
)

type testEnv struct {
	engine *gin.Engine
	db     *db.DB
	repo   *db.Repository
	store  *storage.LocalStore
	tokens *auth.TokenManager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, "ERROR")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate())

	store, err := storage.NewLocalStore(t.TempDir(), mediaURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:     "test-secret",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
		Storage: config.StorageConfig{
			Backend:      "local",
			MediaRoot:    store.Root(),
			MediaURL:     mediaURL,
			MaxImageSize: 1 << 20,
		},
	}

	engine := gin.New()
	NewRouter(database, nil, store, cfg).SetupRoutes(engine)

	return &testEnv{
		engine: engine,
		db:     database,
		repo:   db.NewRepository(database.DB),
		store:  store,
		tokens: auth.NewTokenManager(&cfg.Auth),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", IsActive: true}
	require.NoError(t, db.NewUserRepository(e.repo).Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, db.NewPostRepository(e.repo).Create(context.Background(), post))
	return post
}

func (e *testEnv) createComment(t *testing.T, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, db.NewCommentRepository(e.repo).Create(context.Background(), comment))
	return comment
}

func (e *testEnv) createGroup(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: title + " group"}
	require.NoError(t, db.NewGroupRepository(e.repo).Create(context.Background(), group))
	return group
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	pair, err := e.tokens.IssuePair(user)
	require.NoError(t, err)
	return pair.Access
}

// do sends a request; body may be nil, a string of raw JSON, or any value to marshal
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

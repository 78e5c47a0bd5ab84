package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/pkg/config"
)

func newTestRepo(t *testing.T) *db.Repository {
	t.Helper()
	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, "ERROR")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate())
	return db.NewRepository(database.DB)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	user, err := createUser(ctx, repo, userInput{Username: "leo", Password: "long-enough"}, true)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.True(t, auth.CheckPassword(user.Password, "long-enough"))

	tests := []struct {
		name string
		in   userInput
	}{
		{"duplicate", userInput{Username: "leo", Password: "long-enough"}},
		{"short password", userInput{Username: "ann", Password: "short"}},
		{"empty username", userInput{Username: "", Password: "long-enough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createUser(ctx, repo, tt.in, true)
			assert.Error(t, err)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	user, err := createUser(ctx, repo, userInput{Username: "leo", Password: "long-enough"}, true)
	require.NoError(t, err)
	require.NoError(t, db.NewPostRepository(repo).Create(ctx, &models.Post{Text: "t", AuthorID: user.ID}))

	require.NoError(t, deleteUser(ctx, repo, "leo"))
	count, err := db.NewPostRepository(repo).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Error(t, deleteUser(ctx, repo, "leo"))
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	group, err := createGroup(ctx, repo, nil, groupInput{Title: "Cats", Slug: "cats", Description: "all cats"})
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	_, err = createGroup(ctx, repo, nil, groupInput{Title: "Cats again", Slug: "cats"})
	assert.Error(t, err)
	_, err = createGroup(ctx, repo, nil, groupInput{Title: "Bad", Slug: "bad slug"})
	assert.Error(t, err)
	_, err = createGroup(ctx, repo, nil, groupInput{Slug: "untitled"})
	assert.Error(t, err)

	require.NoError(t, deleteGroup(ctx, repo, nil, "cats"))
	assert.Error(t, deleteGroup(ctx, repo, nil, "cats"))
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("YATUBE_DATABASE_DRIVER", "sqlite")
	t.Setenv("YATUBE_DATABASE_URL", filepath.Join(t.TempDir(), "yatube.db"))
	t.Setenv("YATUBE_JWT_SECRET", "test-secret")
	t.Setenv("YATUBE_LOG_LEVEL", "ERROR")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "Schema is up to date")
	assert.Error(t, current.db.Health(context.Background()), "connection should be closed")
}

func TestFailedCommandClosesConnections(t *testing.T) {
	t.Setenv("YATUBE_DATABASE_DRIVER", "sqlite")
	t.Setenv("YATUBE_DATABASE_URL", filepath.Join(t.TempDir(), "yatube.db"))
	t.Setenv("YATUBE_JWT_SECRET", "test-secret")
	t.Setenv("YATUBE_LOG_LEVEL", "ERROR")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, Execute())

	rootCmd.SetArgs([]string{"deleteuser", "ghost"})
	require.Error(t, Execute())
	require.NotNil(t, current)
	assert.Error(t, current.db.Health(context.Background()), "connection should be closed")
}

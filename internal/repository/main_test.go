package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLite returns a fresh, migrated in-memory database with foreign keys on.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// mustPosts creates n posts by author with strictly increasing creation times.
func mustPosts(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, n int) []models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := models.Post{
			Text:      fmt.Sprintf("%s post %d", author.Username, i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(author.ID*1000+uint(i)) * time.Minute),
		}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, NewPostRepository(db).Create(context.Background(), &p))
		posts = append(posts, p)
	}
	return posts
}

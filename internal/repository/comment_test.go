package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Text: "Nice post!", PostID: 1, AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPostOldestFirst(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	post := mustPosts(t, db, leo, nil, 1)[0]
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		c := &models.Comment{PostID: post.ID, AuthorID: leo.ID, Text: text, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "third", list[2].Text)
	assert.Equal(t, "leo", list[0].Author.Username)
}

func TestCommentRepository_Delete(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	post := mustPosts(t, db, leo, nil, 1)[0]
	c := &models.Comment{PostID: post.ID, AuthorID: leo.ID, Text: "bye"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "bye", got.Text)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.True(t, models.HasCode(repo.Delete(ctx, c.ID), models.CodeNotFound))
}

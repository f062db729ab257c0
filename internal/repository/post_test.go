package repository

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListOrderAndFilters(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")
	cats := mustGroup(t, db, "cats")

	leoPosts := mustPosts(t, db, leo, cats, 3)
	mustPosts(t, db, ann, nil, 2)

	all, total, err := repo.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "posts must be newest first")
	}
	assert.Equal(t, "ann", all[0].Author.Username, "author is preloaded")

	byGroup, total, err := repo.List(ctx, PostFilter{GroupID: cats.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, byGroup, 3)
	assert.Equal(t, leoPosts[2].ID, byGroup[0].ID)
	require.NotNil(t, byGroup[0].Group)
	assert.Equal(t, "cats", byGroup[0].Group.Slug)

	byAuthor, total, err := repo.List(ctx, PostFilter{AuthorID: ann.ID}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byAuthor, 1)
}

func TestPostRepository_Feed(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	reader := mustUser(t, db, "reader")
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")
	mustPosts(t, db, leo, nil, 12)
	mustPosts(t, db, ann, nil, 3)

	feed, total, err := repo.List(ctx, PostFilter{FollowerID: reader.ID}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, feed)

	_, err = follows.Create(ctx, reader.ID, leo.ID)
	require.NoError(t, err)

	feed, total, err = repo.List(ctx, PostFilter{FollowerID: reader.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, feed, 10)
	for _, p := range feed {
		assert.Equal(t, leo.ID, p.AuthorID)
	}

	// ann's feed does not include leo's posts
	annFeed, _, err := repo.List(ctx, PostFilter{FollowerID: ann.ID}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, annFeed)
}

func TestPostRepository_GetByIDCountsComments(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	post := mustPosts(t, db, leo, nil, 1)[0]
	for _, text := range []string{"first", "second"} {
		require.NoError(t, NewCommentRepository(db).Create(ctx, &models.Comment{PostID: post.ID, AuthorID: leo.ID, Text: text}))
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)
	assert.Equal(t, "leo", got.Author.Username)
	assert.Nil(t, got.Group)

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_Update(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	cats := mustGroup(t, db, "cats")
	post := mustPosts(t, db, leo, cats, 1)[0]

	post.Text = "edited"
	post.GroupID = nil
	require.NoError(t, repo.Update(ctx, &post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Nil(t, got.GroupID)

	err = repo.Update(ctx, &models.Post{ID: 9999, Text: "x"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	leo := mustUser(t, db, "leo")
	posts := mustPosts(t, db, leo, nil, 2)
	for _, p := range posts {
		require.NoError(t, comments.Create(ctx, &models.Comment{PostID: p.ID, AuthorID: leo.ID, Text: "hi"}))
	}

	require.NoError(t, repo.Delete(ctx, posts[0].ID))

	left, err := comments.ListByPost(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	other, err := comments.ListByPost(ctx, posts[1].ID)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other posts keep their comments")

	err = repo.Delete(ctx, posts[0].ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

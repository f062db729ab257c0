package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"yatube/internal/featureflags"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func newTestPostService(posts *postRepoStub, groups *groupRepoStub, images ImageStore) *PostService {
	return NewPostService(posts, groups, images, featureflags.NewManager("index_cache=on,image_uploads=on"), notAdmin)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	created := false
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, _ *models.Post) error {
		created = true
		return nil
	}
	svc := newTestPostService(posts, noopGroupRepo(), nil)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t", strings.Repeat("x", 10001)} {
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: text})
		assertValidationError(t, err)
	}
	assert.False(t, created, "invalid posts must never reach the repository")

	_, err := svc.CreatePost(ctx, CreatePostInput{Text: "anonymous"})
	assertCode(t, err, models.CodeUnauthorized)
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	var stored *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		stored = p
		return nil
	}
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		cp := *stored
		cp.ID = id
		return &cp, nil
	}
	images := &imageStoreStub{}
	svc := newTestPostService(posts, noopGroupRepo(), images)

	groupID := uint(3)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Text:     "  Hello, world  ",
		GroupID:  &groupID,
		Image:    &UploadImageInput{Filename: "cat.png", Content: []byte("png")},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, post.ID)
	assert.Equal(t, "Hello, world", post.Text)
	assert.Equal(t, &groupID, post.GroupID)
	assert.Equal(t, "posts/abc.jpg", post.Image)
	require.Len(t, images.saved, 1)
	assert.EqualValues(t, 1, images.saved[0].UserID)
}

func TestPostService_FailedWriteDiscardsNewImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbErr := models.NewInternalError(errors.New("insert failed"))

	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, _ *models.Post) error { return dbErr }
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Text: "original"}, nil
	}
	posts.updateFn = func(_ context.Context, _ *models.Post) error { return dbErr }

	t.Run("create", func(t *testing.T) {
		images := &imageStoreStub{}
		svc := newTestPostService(posts, noopGroupRepo(), images)
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "hi", Image: &UploadImageInput{Content: []byte("png")}})
		assertCode(t, err, models.CodeInternal)
		assert.Equal(t, []string{"posts/abc.jpg"}, images.removed)
	})

	t.Run("update", func(t *testing.T) {
		images := &imageStoreStub{}
		svc := newTestPostService(posts, noopGroupRepo(), images)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "hi", Image: &UploadImageInput{Content: []byte("png")}})
		assertCode(t, err, models.CodeInternal)
		assert.Equal(t, []string{"posts/abc.jpg"}, images.removed)
	})

	t.Run("shared file is kept", func(t *testing.T) {
		images := &imageStoreStub{existing: true}
		svc := newTestPostService(posts, noopGroupRepo(), images)
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "hi", Image: &UploadImageInput{Content: []byte("png")}})
		assertCode(t, err, models.CodeInternal)
		assert.Empty(t, images.removed)
	})
}

func TestPostService_CreatePost_UnknownGroup(t *testing.T) {
	t.Parallel()

	groups := noopGroupRepo()
	groups.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
		return nil, models.NewNotFoundError("Group", id)
	}
	svc := newTestPostService(noopPostRepo(), groups, nil)

	missing := uint(99)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "hi", GroupID: &missing})
	assertValidationError(t, err)
}

func TestPostService_CreatePost_ImagesDisabled(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopGroupRepo(), &imageStoreStub{}, featureflags.NewManager("image_uploads=off"), notAdmin)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Text:     "hi",
		Image:    &UploadImageInput{Content: []byte("x")},
	})
	assertValidationError(t, err)
}

func TestPostService_UpdatePost_Authorization(t *testing.T) {
	t.Parallel()

	updated := false
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Text: "original"}, nil
	}
	posts.updateFn = func(_ context.Context, p *models.Post) error {
		updated = true
		assert.Equal(t, "edited", p.Text)
		return nil
	}
	svc := newTestPostService(posts, noopGroupRepo(), nil)
	ctx := context.Background()

	_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 5, Text: "hijacked"})
	assertCode(t, err, models.CodeForbidden)
	assert.False(t, updated)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "  "})
	assertValidationError(t, err)
	assert.False(t, updated)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "edited"})
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	deleted := 0
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1}, nil
	}
	posts.deleteFn = func(_ context.Context, _ uint) error {
		deleted++
		return nil
	}
	ctx := context.Background()

	svc := newTestPostService(posts, noopGroupRepo(), nil)
	assertCode(t, svc.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 5}), models.CodeForbidden)
	require.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 1, PostID: 5}))

	admin := NewPostService(posts, noopGroupRepo(), nil, nil, alwaysAdmin)
	require.NoError(t, admin.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 5}))
	assert.Equal(t, 2, deleted)
}

func TestPostService_GroupPosts(t *testing.T) {
	t.Parallel()

	groups := noopGroupRepo()
	groups.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
		if slug != "cats" {
			return nil, models.NewNotFoundError("Group", slug)
		}
		return &models.Group{ID: 4, Slug: "cats"}, nil
	}
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, f repository.PostFilter, _, _ int) ([]models.Post, int64, error) {
		assert.EqualValues(t, 4, f.GroupID)
		return []models.Post{{ID: 1}}, 1, nil
	}
	svc := newTestPostService(posts, groups, nil)

	group, page, err := svc.GroupPosts(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "cats", group.Slug)
	assert.Len(t, page.Items, 1)

	_, _, err = svc.GroupPosts(context.Background(), "dogs", 1)
	assertCode(t, err, models.CodeNotFound)
}

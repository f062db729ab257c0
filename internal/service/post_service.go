package service

import (
	"context"
	"errors"
	"log/slog"

	"yatube/internal/cache"
	"yatube/internal/featureflags"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStore
	flags     *featureflags.Manager
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *UploadImageInput
}

// UpdatePostInput replaces text and group. A nil Image keeps the current one.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
	Image   *UploadImageInput
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageStore,
	flags *featureflags.Manager,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
		flags:     flags,
		isAdmin:   isAdmin,
	}
}

// Index lists every post, newest first. The first page is served from cache when index_cache is on.
func (s *PostService) Index(ctx context.Context, page int) (*Page[models.Post], error) {
	if page <= 1 && s.flags.On(featureflags.IndexCache) {
		return cache.Aside(ctx, cache.IndexPageKey(1), cache.IndexPageTTL, func(ctx context.Context) (*Page[models.Post], error) {
			return listPosts(ctx, s.postRepo, repository.PostFilter{}, 1)
		})
	}
	return listPosts(ctx, s.postRepo, repository.PostFilter{}, page)
}

// GroupPosts lists one group's posts. Unknown slugs are NOT_FOUND.
func (s *PostService) GroupPosts(ctx context.Context, slug string, page int) (*models.Group, *Page[models.Post], error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := listPosts(ctx, s.postRepo, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	text, err := validation.ValidateText("text", in.Text, validation.MaxPostText)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	saved, err := s.saveImage(ctx, in.AuthorID, in.Image)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
		Image:    saved.Path,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, saved)
		return nil, err
	}
	middleware.DomainEvents.WithLabelValues("post_created").Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost lets only the author edit a post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	text, err := validation.ValidateText("text", in.Text, validation.MaxPostText)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	saved, err := s.saveImage(ctx, in.UserID, in.Image)
	if err != nil {
		return nil, err
	}
	if saved.Path != "" {
		post.Image = saved.Path
	}

	post.Text = text
	post.GroupID = in.GroupID
	if err := s.postRepo.Update(ctx, post); err != nil {
		s.discardImage(ctx, saved)
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost is allowed for the author and for admins. Comments go with the post.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID != in.UserID {
		admin, err := s.checkAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Only the author can delete this post")
		}
	}
	return s.postRepo.Delete(ctx, post.ID)
}

func (s *PostService) checkAdmin(ctx context.Context, userID uint) (bool, error) {
	if s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}

// checkGroup turns an unknown group id into a validation error on the form field.
func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.NewValidationError("Selected group does not exist")
		}
		return err
	}
	return nil
}

func (s *PostService) saveImage(ctx context.Context, userID uint, in *UploadImageInput) (SavedImage, error) {
	if in == nil {
		return SavedImage{}, nil
	}
	if s.images == nil || !s.flags.Enabled(featureflags.ImageUploads, userID) {
		return SavedImage{}, models.NewValidationError("Image uploads are disabled")
	}
	in.UserID = userID
	saved, err := s.images.Save(ctx, *in)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return SavedImage{}, err
		}
		return SavedImage{}, models.NewInternalError(err)
	}
	return saved, nil
}

// discardImage removes files written for a post that was never stored.
// Files that already existed belong to other posts and stay.
func (s *PostService) discardImage(ctx context.Context, saved SavedImage) {
	if !saved.Created || s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, saved.Path); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to remove orphaned image",
			slog.String("path", saved.Path), slog.String("error", err.Error()))
	}
}

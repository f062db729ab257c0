package service

import (
	"context"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService manages follow edges and the followed-authors feed.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

// Follow subscribes userID to the author. Following twice is a no-op and
// created reports whether a new edge was stored.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (created bool, err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Follow")
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return false, err
	}
	if author.ID == userID {
		return false, models.NewValidationError("You cannot follow yourself")
	}

	created, err = s.followRepo.Create(ctx, userID, author.ID)
	if err != nil {
		return false, err
	}
	if created {
		middleware.DomainEvents.WithLabelValues("follow_created").Inc()
	}
	return created, nil
}

// Unfollow removes the subscription if present.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	_, err = s.followRepo.Delete(ctx, userID, author.ID)
	return err
}

// IsFollowing is false for anonymous viewers.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

// Feed lists posts by the authors userID follows, newest first.
func (s *FollowService) Feed(ctx context.Context, userID uint, page int) (p *Page[models.Post], err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Feed")
	defer func() { observability.EndSpan(span, err) }()

	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return listPosts(ctx, s.postRepo, repository.PostFilter{FollowerID: userID}, page)
}

// Counts returns how many users follow userID and how many authors userID follows.
func (s *FollowService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = s.followRepo.CountFollowing(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

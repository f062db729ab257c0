package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// Profile is an author's public page.
type Profile struct {
	Author     *models.User       `json:"author"`
	Posts      *Page[models.Post] `json:"posts"`
	PostsCount int64              `json:"posts_count"`
	Followers  int64              `json:"followers_count"`
	Following  int64              `json:"following_count"`
	// IsFollowing tells whether the viewer follows this author.
	IsFollowing bool `json:"following"`
}

type ProfileService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	follows  *FollowService
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository, follows *FollowService) *ProfileService {
	return &ProfileService{userRepo: userRepo, postRepo: postRepo, follows: follows}
}

// GetProfile loads an author with one page of their posts as seen by viewerID (0 when anonymous).
func (s *ProfileService) GetProfile(ctx context.Context, username string, viewerID uint, page int) (*Profile, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := listPosts(ctx, s.postRepo, repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	followers, followingCount, err := s.follows.Counts(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Author:      author,
		Posts:       posts,
		PostsCount:  posts.Total,
		Followers:   followers,
		Following:   followingCount,
		IsFollowing: following,
	}, nil
}

package repository

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	GroupID uint
	// AuthorID limits the listing to one author's posts.
	AuthorID uint
	// FollowerID limits the listing to authors that user follows.
	FollowerID uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns one page of posts, newest first, and the total matching count.
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post together with its comments.
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	if err := r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error; err != nil {
		r.log.LogError(ctx, "create", err)
		return translate(err, "Post", post.ID)
	}
	r.log.LogCreate(ctx, post.ID)
	cache.InvalidateIndex(ctx)
	return nil
}

// GetByID is cache-aside on post:<id>. Writes to the post, its comments or its group invalidate it.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return cache.Aside(ctx, cache.PostKey(id), cache.PostTTL, func(ctx context.Context) (*models.Post, error) {
		defer observability.TrackQuery("select", "posts")()
		var post models.Post
		err := r.withDetails(r.db.WithContext(ctx)).
			Where("posts.id = ?", id).
			First(&post).Error
		if err != nil {
			return nil, translate(err, "Post", id)
		}
		return &post, nil
	})
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error) {
	defer observability.TrackQuery("select", "posts")()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if total == 0 {
		return []models.Post{}, 0, nil
	}

	posts := make([]models.Post, 0, limit)
	err := r.applyFilter(r.withDetails(r.db.WithContext(ctx)), filter).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		r.log.LogError(ctx, "update", res.Error)
		return translate(res.Error, "Post", post.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return translate(err, "Post", id)
	}
	r.log.LogDelete(ctx, id, removed)
	cache.InvalidatePost(ctx, id)
	cache.InvalidateIndex(ctx)
	return nil
}

// withDetails selects the computed comments count and preloads author and group.
func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count").
		Preload("Author").
		Preload("Group")
}

func (r *postRepository) applyFilter(db *gorm.DB, f PostFilter) *gorm.DB {
	if f.GroupID != 0 {
		db = db.Where("posts.group_id = ?", f.GroupID)
	}
	if f.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FollowerID != 0 {
		db = db.Where("posts.author_id IN (?)",
			r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", f.FollowerID))
	}
	return db
}

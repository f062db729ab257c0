package repository

import (
	"context"
	"errors"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
)

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	// DeleteBySlug removes the group; its posts survive with a NULL group.
	DeleteBySlug(ctx context.Context, slug string) error
}

type groupRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGroupRepository returns a new GroupRepository implementation.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db, log: observability.NewRepoLogger("groups")}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	defer observability.TrackQuery("insert", "groups")()
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		r.log.LogError(ctx, "create", err)
		return translate(err, "Group", group.Slug)
	}
	r.log.LogCreate(ctx, group.ID)
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	defer observability.TrackQuery("select", "groups")()
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err, "Group", id)
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	group, err := cache.Aside(ctx, cache.GroupKey(slug), cache.GroupTTL, func(ctx context.Context) (*models.Group, error) {
		defer observability.TrackQuery("select", "groups")()
		var g models.Group
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
			return nil, translate(err, "Group", slug)
		}
		return &g, nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	defer observability.TrackQuery("select", "groups")()
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) DeleteBySlug(ctx context.Context, slug string) error {
	defer observability.TrackQuery("delete", "groups")()
	var group models.Group
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		// posts stay, ungrouped
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", group.ID).
			UpdateColumn("group_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, group.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.LogError(ctx, "delete", err)
		}
		return translate(err, "Group", slug)
	}
	r.log.LogDelete(ctx, group.ID, 1)
	cache.InvalidateGroup(ctx, slug)
	for _, id := range postIDs {
		cache.InvalidatePost(ctx, id)
	}
	cache.InvalidateIndex(ctx)
	return nil
}

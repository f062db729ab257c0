package seed

import (
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configure a demo data run.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	// FollowsPerUser is how many authors each generated user follows.
	FollowsPerUser int
	MaxDays        int
	Seed           int64
	Clean          bool
}

// DefaultOptions is a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:       20,
		NumPosts:       150,
		NumComments:    300,
		FollowsPerUser: 5,
		MaxDays:        90,
		Seed:           42,
	}
}

// Summary reports what a run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int64
}

// Clean removes all domain rows, children first.
func Clean(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clean %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run seeds built-in groups plus generated users, posts, comments and follows.
func Run(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Clean {
		if err := Clean(db); err != nil {
			return nil, err
		}
	}
	if err := Groups(db); err != nil {
		return nil, err
	}

	var groups []models.Group
	if err := db.Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}

	f, err := NewFactory(db, opts.Seed)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Groups: len(groups)}
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		var group *models.Group
		// roughly a third of posts stay ungrouped
		if len(groups) > 0 && f.Pick(3) > 0 {
			group = &groups[f.Pick(len(groups))]
		}
		posts = append(posts, f.BuildPost(users[f.Pick(len(users))], group, opts.MaxDays))
	}
	if err := f.CreatePosts(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	sum.Posts = len(posts)

	if len(posts) > 0 {
		for i := 0; i < opts.NumComments; i++ {
			if _, err := f.CreateComment(posts[f.Pick(len(posts))], users[f.Pick(len(users))]); err != nil {
				return nil, err
			}
			sum.Comments++
		}
	}

	for _, u := range users {
		for i := 0; i < opts.FollowsPerUser; i++ {
			if err := f.Follow(u, users[f.Pick(len(users))]); err != nil {
				return nil, fmt.Errorf("create follow: %w", err)
			}
		}
	}
	if err := db.Model(&models.Follow{}).Count(&sum.Follows).Error; err != nil {
		return nil, err
	}

	middleware.Logger.Info("seed completed",
		slog.Int("users", sum.Users),
		slog.Int("groups", sum.Groups),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int64("follows", sum.Follows),
	)
	return sum, nil
}

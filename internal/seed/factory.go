// Package seed creates built-in groups and demo data for development and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Run and by tests.
type Factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	hashed string
	seq    int
}

// NewFactory creates a Factory bound to db. The same seed yields the same data.
func NewFactory(db *gorm.DB, seed int64) (*Factory, error) {
	// MinCost keeps large seeds fast; these accounts are throwaway.
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	return &Factory{db: db, faker: gofakeit.New(seed), hashed: string(hashed)}, nil
}

// CreateUser persists a user with a unique generated username.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), f.seq)
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  f.hashed,
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildPost returns an unsaved post with text and a created_at within the last maxDays.
func (f *Factory) BuildPost(author *models.User, group *models.Group, maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 90
	}
	now := time.Now()
	post := &models.Post{
		Text:      f.faker.Paragraph(1, 4, 12, "\n\n"),
		AuthorID:  author.ID,
		CreatedAt: f.faker.DateRange(now.AddDate(0, 0, -maxDays), now),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePosts persists posts in batches.
func (f *Factory) CreatePosts(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit("Author", "Group").CreateInBatches(posts, 100).Error
}

// CreateComment adds a comment written after the post itself.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	created := post.CreatedAt.Add(time.Duration(f.faker.Number(1, 72*60)) * time.Minute)
	if created.After(time.Now()) {
		created = time.Now()
	}
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Text:      f.faker.Sentence(f.faker.Number(3, 15)),
		CreatedAt: created,
	}
	if err := f.db.Omit("Author", "Post").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Follow subscribes user to author; repeated or self follows are skipped.
func (f *Factory) Follow(user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error
}

// Pick returns a pseudo-random index below n.
func (f *Factory) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

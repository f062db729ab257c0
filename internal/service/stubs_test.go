package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostFilter, int, int) ([]models.Post, int64, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, limit, offset int) ([]models.Post, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	createFn    func(context.Context, *models.Group) error
	getByIDFn   func(context.Context, uint) (*models.Group, error)
	getBySlugFn func(context.Context, string) (*models.Group, error)
	listFn      func(context.Context) ([]models.Group, error)
	deleteFn    func(context.Context, string) error
}

func (s *groupRepoStub) Create(ctx context.Context, g *models.Group) error { return s.createFn(ctx, g) }
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) List(ctx context.Context) ([]models.Group, error) { return s.listFn(ctx) }
func (s *groupRepoStub) DeleteBySlug(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn:    func(_ context.Context, _ *models.Group) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Group, error) { return &models.Group{ID: id}, nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) { return &models.Group{ID: 1, Slug: slug}, nil },
		listFn:      func(_ context.Context) ([]models.Group, error) { return nil, nil },
		deleteFn:    func(_ context.Context, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is an in-memory repository.FollowRepository.
type followRepoStub struct {
	edges map[[2]uint]bool
}

func newFollowRepoStub() *followRepoStub {
	return &followRepoStub{edges: map[[2]uint]bool{}}
}

func (s *followRepoStub) Create(_ context.Context, userID, authorID uint) (bool, error) {
	key := [2]uint{userID, authorID}
	if s.edges[key] {
		return false, nil
	}
	s.edges[key] = true
	return true, nil
}
func (s *followRepoStub) Delete(_ context.Context, userID, authorID uint) (bool, error) {
	key := [2]uint{userID, authorID}
	existed := s.edges[key]
	delete(s.edges, key)
	return existed, nil
}
func (s *followRepoStub) Exists(_ context.Context, userID, authorID uint) (bool, error) {
	return s.edges[[2]uint{userID, authorID}], nil
}
func (s *followRepoStub) CountFollowers(_ context.Context, authorID uint) (int64, error) {
	var n int64
	for k := range s.edges {
		if k[1] == authorID {
			n++
		}
	}
	return n, nil
}
func (s *followRepoStub) CountFollowing(_ context.Context, userID uint) (int64, error) {
	var n int64
	for k := range s.edges {
		if k[0] == userID {
			n++
		}
	}
	return n, nil
}

// userRepoStub is an in-memory repository.UserRepository keyed by username.
type userRepoStub struct {
	users  map[string]*models.User
	nextID uint
}

func newUserRepoStub(users ...*models.User) *userRepoStub {
	s := &userRepoStub{users: map[string]*models.User{}}
	for _, u := range users {
		s.users[u.Username] = u
		s.nextID = max(s.nextID, u.ID)
	}
	return s
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", username)
}
func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}
func (s *userRepoStub) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.NewConflictError("User already exists")
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = user
	return nil
}
func (s *userRepoStub) SetAdmin(_ context.Context, username string, admin bool) error {
	u, ok := s.users[username]
	if !ok {
		return models.NewNotFoundError("User", username)
	}
	u.IsAdmin = admin
	return nil
}

// imageStoreStub records saves and removals and returns a fixed path.
type imageStoreStub struct {
	saved   []UploadImageInput
	removed []string
	// existing reports the upload as already on disk.
	existing bool
	err      error
}

func (s *imageStoreStub) Save(_ context.Context, in UploadImageInput) (SavedImage, error) {
	if s.err != nil {
		return SavedImage{}, s.err
	}
	s.saved = append(s.saved, in)
	return SavedImage{Path: "posts/abc.jpg", Created: !s.existing}, nil
}

func (s *imageStoreStub) Remove(_ context.Context, path string) error {
	s.removed = append(s.removed, path)
	return nil
}

func notAdmin(context.Context, uint) (bool, error) { return false, nil }
func alwaysAdmin(context.Context, uint) (bool, error) { return true, nil }

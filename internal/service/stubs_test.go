package service

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/models"
	"postboard/internal/repository"
)

type userRepoStub struct {
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	searchFn     func(context.Context, string, string, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query, excludeID string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, excludeID, limit)
}

type followRepoStub struct {
	existsFn    func(context.Context, string, string) (bool, error)
	createFn    func(context.Context, string, string) error
	deleteFn    func(context.Context, string, string) (bool, error)
	followersFn func(context.Context, string) ([]models.User, error)
	followingFn func(context.Context, string) ([]models.User, error)
}

func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Create(ctx context.Context, followerID, followingID string) error {
	return s.createFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID string) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID string) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}

type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, string) (*models.Post, error)
	listFn         func(context.Context) ([]models.Post, error)
	byAuthorFn     func(context.Context, string) ([]models.Post, error)
	likedPostsOfFn func(context.Context, string) ([]models.Post, error)
	likedByFn      func(context.Context, string) ([]models.User, error)
	likedByPostsFn func(context.Context, []string) (map[string][]models.User, error)
	toggleLikeFn   func(context.Context, string, string) (repository.LikeState, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return s.byAuthorFn(ctx, authorID)
}
func (s *postRepoStub) LikedPostsOf(ctx context.Context, userID string) ([]models.Post, error) {
	return s.likedPostsOfFn(ctx, userID)
}
func (s *postRepoStub) LikedBy(ctx context.Context, postID string) ([]models.User, error) {
	return s.likedByFn(ctx, postID)
}
func (s *postRepoStub) LikedByPosts(ctx context.Context, postIDs []string) (map[string][]models.User, error) {
	return s.likedByPostsFn(ctx, postIDs)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID string) (repository.LikeState, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		searchFn:     func(context.Context, string, string, int) ([]models.User, error) { return []models.User{}, nil },
	}
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		existsFn:    func(context.Context, string, string) (bool, error) { return false, nil },
		createFn:    func(context.Context, string, string) error { return nil },
		deleteFn:    func(context.Context, string, string) (bool, error) { return true, nil },
		followersFn: func(context.Context, string) ([]models.User, error) { return []models.User{}, nil },
		followingFn: func(context.Context, string) ([]models.User, error) { return []models.User{}, nil },
	}
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(context.Context, *models.Post) error { return nil },
		getByIDFn:      func(context.Context, string) (*models.Post, error) { return nil, nil },
		listFn:         func(context.Context) ([]models.Post, error) { return []models.Post{}, nil },
		byAuthorFn:     func(context.Context, string) ([]models.Post, error) { return []models.Post{}, nil },
		likedPostsOfFn: func(context.Context, string) ([]models.Post, error) { return []models.Post{}, nil },
		likedByFn:      func(context.Context, string) ([]models.User, error) { return []models.User{}, nil },
		likedByPostsFn: func(context.Context, []string) (map[string][]models.User, error) {
			return map[string][]models.User{}, nil
		},
		toggleLikeFn: func(context.Context, string, string) (repository.LikeState, error) {
			return repository.LikeAdded, nil
		},
	}
}

// credsStub issues predictable tokens and treats "digest:<plain>" as the hash.
type credsStub struct {
	issueErr error
}

func (credsStub) HashPassword(plain string) (string, error) { return "digest:" + plain, nil }
func (credsStub) VerifyPassword(plain, digest string) bool  { return digest == "digest:"+plain }
func (c credsStub) IssueToken(userID string) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	return "token-" + userID, nil
}

func assertAppCode(t testing.TB, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

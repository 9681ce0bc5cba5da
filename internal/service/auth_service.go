// Package service holds the business rules of postboard: accounts, the follow
// graph and posts with likes. Services depend on repository interfaces and
// return *models.AppError for hard failures and result structs for soft ones.
package service

import (
	"context"
	"errors"

	"postboard/internal/auth"
	"postboard/internal/models"
	"postboard/internal/repository"
)

// CredentialIssuer hashes passwords and issues bearer tokens.
type CredentialIssuer interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, digest string) bool
	IssueToken(userID string) (string, error)
}

// AuthService provides registration, login and the caller's own view.
type AuthService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	creds      CredentialIssuer
}

// NewAuthService returns a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	creds CredentialIssuer,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
		creds:      creds,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*models.AuthPayload, error) {
	if email == "" {
		return nil, models.NewMissingFieldError("email")
	}
	if password == "" {
		return nil, models.NewMissingFieldError("password")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateRegistrationError()
	}

	digest, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: digest,
		Name:     name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewDuplicateRegistrationError()
		}
		return nil, err
	}

	return s.signIn(user)
}

// Login checks the password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	if email == "" {
		return nil, models.NewMissingFieldError("email")
	}
	if password == "" {
		return nil, models.NewMissingFieldError("password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialError(models.MsgNoUserWithEmail)
	}
	if !s.creds.VerifyPassword(password, user.Password) {
		return nil, models.NewInvalidCredentialError(models.MsgInvalidPassword)
	}

	return s.signIn(user)
}

func (s *AuthService) signIn(user *models.User) (*models.AuthPayload, error) {
	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Me returns the caller's nested view. A caller whose account no longer
// exists resolves to nil.
func (s *AuthService) Me(ctx context.Context, caller auth.Caller) (*models.UserView, error) {
	userID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}
	return s.UserView(ctx, userID)
}

// UserView resolves a user with posts, followers, following and liked posts.
// Unknown ids return nil without an error.
func (s *AuthService) UserView(ctx context.Context, userID string) (*models.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	view := &models.UserView{User: user}
	if view.Posts, err = s.postRepo.ByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if view.Followers, err = s.followRepo.Followers(ctx, userID); err != nil {
		return nil, err
	}
	if view.Following, err = s.followRepo.Following(ctx, userID); err != nil {
		return nil, err
	}
	if view.LikedPosts, err = s.postRepo.LikedPostsOf(ctx, userID); err != nil {
		return nil, err
	}
	return view, nil
}

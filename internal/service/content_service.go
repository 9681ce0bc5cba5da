package service

import (
	"context"
	"log/slog"

	"postboard/internal/auth"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/repository"
)

// ContentService manages posts and the like relation.
type ContentService struct {
	postRepo repository.PostRepository
}

// NewContentService returns a new ContentService.
func NewContentService(postRepo repository.PostRepository) *ContentService {
	return &ContentService{postRepo: postRepo}
}

// CreatePost publishes a post authored by the caller.
func (s *ContentService) CreatePost(ctx context.Context, caller auth.Caller, title, body string) (*models.Post, error) {
	authorID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		Body:     body,
		AuthorID: authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every post, newest first, with author and likers.
func (s *ContentService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	likers, err := s.postRepo.LikedByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	// A cached list can lag the like edges; the count follows the fresh likers.
	views := make([]models.PostView, len(posts))
	for i := range posts {
		liked := likers[posts[i].ID]
		if liked == nil {
			liked = []models.User{}
		}
		posts[i].LikeCount = len(liked)
		views[i] = models.PostView{Post: &posts[i], LikedBy: liked}
	}
	return views, nil
}

// ToggleLike flips the caller's like on a post. Store failures and missing
// posts are soft outcomes.
func (s *ContentService) ToggleLike(ctx context.Context, caller auth.Caller, postID string) (*models.LikeResult, error) {
	userID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, models.NewMissingFieldError("postId")
	}

	state, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		middleware.Logger.ErrorContext(ctx, "toggle like failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		likeOutcome("failed")
		return &models.LikeResult{Success: false, Message: models.MsgToggleLikeFailed}, nil
	}

	switch state {
	case repository.LikeAdded:
		likeOutcome("liked")
		return &models.LikeResult{Success: true, Message: models.MsgPostLiked, Liked: true}, nil
	case repository.LikeRemoved:
		likeOutcome("unliked")
		return &models.LikeResult{Success: true, Message: models.MsgPostUnliked, Liked: false}, nil
	default:
		likeOutcome("missing_post")
		return &models.LikeResult{Success: false, Message: models.MsgPostNotFound}, nil
	}
}

// PostsBy returns posts authored by userID.
func (s *ContentService) PostsBy(ctx context.Context, userID string) ([]models.Post, error) {
	return s.postRepo.ByAuthor(ctx, userID)
}

// LikedPostsOf returns posts userID has liked.
func (s *ContentService) LikedPostsOf(ctx context.Context, userID string) ([]models.Post, error) {
	return s.postRepo.LikedPostsOf(ctx, userID)
}

// LikedBy returns users who liked postID.
func (s *ContentService) LikedBy(ctx context.Context, postID string) ([]models.User, error) {
	return s.postRepo.LikedBy(ctx, postID)
}

func likeOutcome(outcome string) {
	observability.LikeToggles.WithLabelValues(outcome).Inc()
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"postboard/internal/auth"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/repository"
)

// searchLimit caps user search results.
const searchLimit = 10

// GraphService maintains the directed follow graph between users.
type GraphService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *GraphService {
	return &GraphService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// FollowUser adds the edge caller -> target. Only a missing identity and a
// self follow are errors; every other outcome is reported in the result.
func (s *GraphService) FollowUser(ctx context.Context, caller auth.Caller, targetID string) (*models.FollowResult, error) {
	callerID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}
	if targetID == "" {
		return nil, models.NewMissingFieldError("userId")
	}
	if callerID == targetID {
		followOutcome("follow", "self")
		return nil, models.NewSelfFollowError()
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		s.logFailure(ctx, "follow lookup failed", callerID, targetID, err)
		return followFailure(models.MsgFollowFailed, "failed"), nil
	}
	if target == nil {
		return followFailure(models.MsgFollowTargetGone, "missing_target"), nil
	}

	exists, err := s.followRepo.Exists(ctx, callerID, targetID)
	if err != nil {
		s.logFailure(ctx, "follow lookup failed", callerID, targetID, err)
		return followFailure(models.MsgFollowFailed, "failed"), nil
	}
	if exists {
		return followFailure(models.MsgAlreadyFollowing, "duplicate"), nil
	}

	if err := s.followRepo.Create(ctx, callerID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return followFailure(models.MsgAlreadyFollowing, "duplicate"), nil
		}
		s.logFailure(ctx, "follow insert failed", callerID, targetID, err)
		return followFailure(models.MsgFollowFailed, "failed"), nil
	}

	followers, err := s.followRepo.Followers(ctx, callerID)
	if err != nil {
		s.logFailure(ctx, "follower reload failed", callerID, targetID, err)
		followers = []models.User{}
	}

	followOutcome("follow", "success")
	return &models.FollowResult{
		Success:   true,
		Message:   models.MsgFollowed,
		ID:        &callerID,
		Followers: followers,
	}, nil
}

// UnfollowUser removes the edge caller -> target if present.
func (s *GraphService) UnfollowUser(ctx context.Context, caller auth.Caller, targetID string) (*models.UnfollowResult, error) {
	callerID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}
	if targetID == "" {
		return nil, models.NewMissingFieldError("followingId")
	}

	removed, err := s.followRepo.Delete(ctx, callerID, targetID)
	if err != nil {
		s.logFailure(ctx, "unfollow failed", callerID, targetID, err)
		followOutcome("unfollow", "failed")
		return &models.UnfollowResult{Success: false, Message: models.MsgUnfollowFailed}, nil
	}
	if !removed {
		followOutcome("unfollow", "not_following")
		return &models.UnfollowResult{Success: false, Message: models.MsgUnfollowFailed}, nil
	}

	followOutcome("unfollow", "success")
	return &models.UnfollowResult{Success: true, Message: models.MsgUnfollowed}, nil
}

// FollowersOf returns users following userID, oldest edge first.
func (s *GraphService) FollowersOf(ctx context.Context, userID string) ([]models.User, error) {
	return s.followRepo.Followers(ctx, userID)
}

// FollowingOf returns users userID follows, oldest edge first.
func (s *GraphService) FollowingOf(ctx context.Context, userID string) ([]models.User, error) {
	return s.followRepo.Following(ctx, userID)
}

// SearchUsers matches query against name or email, excluding the caller.
func (s *GraphService) SearchUsers(ctx context.Context, caller auth.Caller, query string) ([]models.User, error) {
	callerID, err := auth.RequireUser(caller)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Search(ctx, query, callerID, searchLimit)
}

func (s *GraphService) logFailure(ctx context.Context, msg, followerID, followingID string, err error) {
	observability.RecordErrorInContext(ctx, err)
	middleware.Logger.ErrorContext(ctx, msg,
		slog.String("follower_id", followerID),
		slog.String("following_id", followingID),
		slog.String("error", err.Error()),
	)
}

func followFailure(message, outcome string) *models.FollowResult {
	followOutcome("follow", outcome)
	return &models.FollowResult{Success: false, Message: message, Followers: []models.User{}}
}

func followOutcome(action, outcome string) {
	observability.FollowOutcomes.WithLabelValues(action, outcome).Inc()
}

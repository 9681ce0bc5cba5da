package repository

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository persists the directed follow graph.
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// Create returns ErrDuplicate when the edge already exists.
	Create(ctx context.Context, followerID, followingID string) error
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	// Followers returns the users following userID, oldest edge first.
	Followers(ctx context.Context, userID string) ([]models.User, error)
	// Following returns the users userID follows, oldest edge first.
	Following(ctx context.Context, userID string) ([]models.User, error)
}

type followRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, metrics: observability.NewDatabaseMetrics("follows")}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	defer r.metrics.TrackQuery("exists")()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	defer r.metrics.TrackQuery("create")()

	edge := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	defer r.metrics.TrackQuery("delete")()

	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID string) ([]models.User, error) {
	defer r.metrics.TrackQuery("followers")()
	return r.edgeUsers(ctx, "follows.follower_id", "follows.following_id", userID)
}

func (r *followRepository) Following(ctx context.Context, userID string) ([]models.User, error) {
	defer r.metrics.TrackQuery("following")()
	return r.edgeUsers(ctx, "follows.following_id", "follows.follower_id", userID)
}

// edgeUsers loads the users on the joinCol end of every edge whose filterCol is userID.
func (r *followRepository) edgeUsers(ctx context.Context, joinCol, filterCol, userID string) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID).
		Order("follows.created_at ASC").
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

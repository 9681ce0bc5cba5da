package repository

import (
	"context"
	"errors"

	"postboard/internal/cache"
	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeState is the outcome of a like toggle.
type LikeState int

const (
	// LikePostMissing means the post does not exist; nothing changed.
	LikePostMissing LikeState = iota
	// LikeAdded means the user now likes the post.
	LikeAdded
	// LikeRemoved means the user no longer likes the post.
	LikeRemoved
)

// PostRepository defines the interface for post and like data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns every post with its author, newest first.
	List(ctx context.Context) ([]models.Post, error)
	ByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	// LikedPostsOf returns the posts userID likes, most recent like first.
	LikedPostsOf(ctx context.Context, userID string) ([]models.Post, error)
	// LikedBy returns the users that like postID, oldest like first.
	LikedBy(ctx context.Context, postID string) ([]models.User, error)
	// LikedByPosts resolves LikedBy for several posts in two queries.
	LikedByPosts(ctx context.Context, postIDs []string) (map[string][]models.User, error)
	// ToggleLike flips the like edge and keeps like_count equal to the edge count.
	ToggleLike(ctx context.Context, userID, postID string) (LikeState, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("create")()

	// The insert and the author load commit together so a missing author
	// never leaves a post behind.
	var author models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", post.AuthorID).First(&author).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)

	post.Author = &author
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_by_id")()

	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	defer r.metrics.TrackQuery("list")()

	posts := []models.Post{}
	err := cache.CacheAside(ctx, cache.PostsListCache, cache.PostsListKey, &posts, cache.PostsListTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Author").
			Order("created_at DESC").
			Order("id DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	defer r.metrics.TrackQuery("by_author")()

	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) LikedPostsOf(ctx context.Context, userID string) ([]models.Post, error) {
	defer r.metrics.TrackQuery("liked_posts_of")()

	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("Author").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Order("posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) LikedBy(ctx context.Context, postID string) ([]models.User, error) {
	defer r.metrics.TrackQuery("liked_by")()

	users := []models.User{}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at ASC").
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *postRepository) LikedByPosts(ctx context.Context, postIDs []string) (map[string][]models.User, error) {
	defer r.metrics.TrackQuery("liked_by_posts")()

	result := make(map[string][]models.User, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(likes) == 0 {
		return result, nil
	}

	userIDs := make([]string, 0, len(likes))
	seen := make(map[string]bool, len(likes))
	for _, l := range likes {
		if !seen[l.UserID] {
			seen[l.UserID] = true
			userIDs = append(userIDs, l.UserID)
		}
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, l := range likes {
		if u, ok := byID[l.UserID]; ok {
			result[l.PostID] = append(result[l.PostID], u)
		}
	}
	return result, nil
}

// ToggleLike runs in one transaction. The counter moves only when the edge
// mutation affected a row, so like_count can never drift from the number of
// likes even when two toggles race on the membership read.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID string) (LikeState, error) {
	ctx, span := observability.StartStoreSpan(ctx, "likes", "toggle")
	defer span.End()
	defer r.metrics.TrackQuery("toggle_like")()

	state := LikePostMissing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		q := tx.Select("id")
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("id = ?", postID).Take(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				state = LikePostMissing
				return nil
			}
			return err
		}

		removed := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 1 {
			state = LikeRemoved
			return adjustLikeCount(tx, postID, "like_count - 1")
		}

		added := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, PostID: postID})
		if added.Error != nil {
			return added.Error
		}
		// A concurrent toggle inserted the same edge first: the post is
		// liked and that toggle already counted it.
		state = LikeAdded
		if added.RowsAffected == 1 {
			return adjustLikeCount(tx, postID, "like_count + 1")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return LikePostMissing, models.NewInternalError(err)
	}

	if state != LikePostMissing {
		cache.InvalidatePostsList(ctx)
	}
	return state, nil
}

func adjustLikeCount(tx *gorm.DB, postID, expr string) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr(expr)).Error
}

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postboard/internal/middleware"
)

const (
	UserKeyPrefix = "user:%s"
	PostsListKey  = "posts:list"
)

// The posts list is invalidated on every write, so its TTL only bounds a
// refill that raced with an invalidation.
const (
	UserTTL      = 5 * time.Minute
	PostsListTTL = 30 * time.Second
)

// Cache names used in metrics.
const (
	UserCache      = "user"
	PostsListCache = "posts_list"
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Invalidate deletes key; failures are logged and otherwise ignored.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

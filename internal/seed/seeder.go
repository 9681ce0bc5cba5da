// Package seed populates a database with demo users, posts, follows and likes.
// Everything is written through the services, so seeded data obeys the same
// invariants as live traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"postboard/internal/auth"
	"postboard/internal/cache"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is used for every seeded account unless a preset overrides it.
const DefaultPassword = "password123"

// Summary counts what a run created.
type Summary struct {
	Users   int
	Posts   int
	Follows int
	Likes   int
}

// Seeder drives the services with generated content.
type Seeder struct {
	db       *gorm.DB
	accounts *service.AuthService
	graph    *service.GraphService
	content  *service.ContentService
	faker    *gofakeit.Faker
}

// NewSeeder returns a Seeder writing to db. The same seed yields the same
// names, emails and text.
func NewSeeder(db *gorm.DB, creds service.CredentialIssuer, seed int64) *Seeder {
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	posts := repository.NewPostRepository(db)

	return &Seeder{
		db:       db,
		accounts: service.NewAuthService(users, follows, posts, creds),
		graph:    service.NewGraphService(follows, users),
		content:  service.NewContentService(posts),
		faker:    gofakeit.New(seed),
	}
}

// Clean removes all rows, edges first, and drops every cached entry that
// pointed at them.
func (s *Seeder) Clean(ctx context.Context) error {
	var userIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		for _, table := range []string{"likes", "follows", "posts", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePostsList(ctx)
	for _, id := range userIDs {
		cache.InvalidateUser(ctx, id)
	}
	middleware.Logger.InfoContext(ctx, "seed data cleared", slog.Int("users", len(userIDs)))
	return nil
}

// Run creates the mesh described by p.
func (s *Seeder) Run(ctx context.Context, p Preset) (*Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Password == "" {
		p.Password = DefaultPassword
	}

	summary := &Summary{}

	callers := make([]auth.Caller, 0, p.Users)
	for i := 0; i < p.Users; i++ {
		name := s.faker.Name()
		email := fmt.Sprintf("%s.%d@%s", strings.ToLower(s.faker.FirstName()), i, s.faker.DomainName())
		payload, err := s.accounts.Register(ctx, email, p.Password, &name)
		if err != nil {
			return summary, fmt.Errorf("register %s: %w", email, err)
		}
		callers = append(callers, auth.Authenticated{UserID: payload.User.ID})
		summary.Users++
	}

	postIDs := make([]string, 0, p.Users*p.PostsPerUser)
	for _, caller := range callers {
		for j := 0; j < p.PostsPerUser; j++ {
			post, err := s.content.CreatePost(ctx, caller,
				strings.TrimSuffix(s.faker.Sentence(6), "."),
				s.faker.Paragraph(1, 3, 12, " "),
			)
			if err != nil {
				return summary, fmt.Errorf("create post: %w", err)
			}
			postIDs = append(postIDs, post.ID)
			summary.Posts++
		}
	}

	for i, caller := range callers {
		for _, j := range s.pick(len(callers), p.FollowsPerUser, i) {
			target := callers[j].(auth.Authenticated).UserID
			res, err := s.graph.FollowUser(ctx, caller, target)
			if err != nil {
				return summary, fmt.Errorf("follow: %w", err)
			}
			if res.Success {
				summary.Follows++
			}
		}
	}

	for _, caller := range callers {
		for _, j := range s.pick(len(postIDs), p.LikesPerUser, -1) {
			res, err := s.content.ToggleLike(ctx, caller, postIDs[j])
			if err != nil {
				return summary, fmt.Errorf("like: %w", err)
			}
			if res.Liked {
				summary.Likes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seed completed",
		slog.String("preset", p.Name),
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("follows", summary.Follows),
		slog.Int("likes", summary.Likes),
	)
	return summary, nil
}

// pick returns up to k distinct indexes in [0, n), never returning skip.
func (s *Seeder) pick(n, k, skip int) []int {
	pool := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != skip {
			pool = append(pool, i)
		}
	}
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := s.faker.IntRange(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// CountRows reports table sizes, for logging after a run.
func CountRows(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	counts := make(map[string]int64, 4)
	for table, model := range map[string]any{
		"users":   &models.User{},
		"posts":   &models.Post{},
		"follows": &models.Follow{},
		"likes":   &models.Like{},
	} {
		var n int64
		if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

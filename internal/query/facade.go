// Package query exposes postboard's operations behind a single named-operation
// entry point. Each operation decodes its variables, runs exactly one service
// call and wraps the result in the response envelope.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"postboard/internal/auth"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"
)

// Operation names accepted by Execute.
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpMe           = "me"
	OpPosts        = "posts"
	OpSearchUsers  = "searchUsers"
	OpUser         = "user"
	OpCreatePost   = "createPost"
	OpFollowUser   = "followUser"
	OpUnfollowUser = "unfollowUser"
	OpToggleLike   = "toggleLike"
)

// AccountEngine is the account surface used by the facade.
type AccountEngine interface {
	Register(ctx context.Context, email, password string, name *string) (*models.AuthPayload, error)
	Login(ctx context.Context, email, password string) (*models.AuthPayload, error)
	Me(ctx context.Context, caller auth.Caller) (*models.UserView, error)
	UserView(ctx context.Context, userID string) (*models.UserView, error)
}

// GraphEngine is the follow graph surface used by the facade.
type GraphEngine interface {
	FollowUser(ctx context.Context, caller auth.Caller, targetID string) (*models.FollowResult, error)
	UnfollowUser(ctx context.Context, caller auth.Caller, targetID string) (*models.UnfollowResult, error)
	SearchUsers(ctx context.Context, caller auth.Caller, query string) ([]models.User, error)
}

// ContentEngine is the post surface used by the facade.
type ContentEngine interface {
	CreatePost(ctx context.Context, caller auth.Caller, title, body string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.PostView, error)
	ToggleLike(ctx context.Context, caller auth.Caller, postID string) (*models.LikeResult, error)
}

type handlerFunc func(ctx context.Context, caller auth.Caller, vars json.RawMessage) (any, error)

// Facade dispatches named operations to the services.
type Facade struct {
	accounts AccountEngine
	graph    GraphEngine
	content  ContentEngine
	handlers map[string]handlerFunc
}

// NewFacade returns a Facade over the given services.
func NewFacade(accounts AccountEngine, graph GraphEngine, content ContentEngine) *Facade {
	f := &Facade{
		accounts: accounts,
		graph:    graph,
		content:  content,
	}
	f.handlers = map[string]handlerFunc{
		OpRegister:     f.register,
		OpLogin:        f.login,
		OpMe:           f.me,
		OpPosts:        f.posts,
		OpSearchUsers:  f.searchUsers,
		OpUser:         f.user,
		OpCreatePost:   f.createPost,
		OpFollowUser:   f.followUser,
		OpUnfollowUser: f.unfollowUser,
		OpToggleLike:   f.toggleLike,
	}
	return f
}

// Operations returns the names of every supported operation.
func (f *Facade) Operations() []string {
	ops := make([]string, 0, len(f.handlers))
	for name := range f.handlers {
		ops = append(ops, name)
	}
	return ops
}

// Execute runs one operation for caller. It never returns a Go error: hard
// failures are reported in the envelope's errors list.
func (f *Facade) Execute(ctx context.Context, caller auth.Caller, req Request) Response {
	handler, ok := f.handlers[req.Operation]
	if !ok {
		observability.RecordQueryOperation("unknown", true, time.Now())
		return Failure(models.NewUnknownOperationError(req.Operation))
	}

	start := time.Now()
	observability.NameRequestSpan(ctx, req.Operation)
	span, ctx := observability.NewSpan(ctx, "query."+req.Operation)
	defer span.End()
	span.AddAttributes(
		observability.AttrOperation.String(req.Operation),
		observability.AttrAuthenticated.Bool(isAuthenticated(caller)),
	)

	result, err := handler(ctx, caller, req.Variables)
	observability.RecordQueryOperation(req.Operation, err != nil, start)
	if err != nil {
		appErr := models.AsAppError(err)
		if appErr.Code == models.CodeInternal {
			span.SetError(err)
			middleware.Logger.ErrorContext(ctx, "query operation failed",
				slog.String("operation", req.Operation),
				slog.String("error", err.Error()),
			)
		}
		return Failure(appErr)
	}
	return Success(req.Operation, result)
}

func isAuthenticated(caller auth.Caller) bool {
	_, ok := caller.(auth.Authenticated)
	return ok
}

// decodeVars unmarshals operation variables. Absent variables decode to the
// zero value so that required-field checks report the missing name.
func decodeVars[T any](raw json.RawMessage) (T, error) {
	var vars T
	if len(raw) == 0 || string(raw) == "null" {
		return vars, nil
	}
	if err := json.Unmarshal(raw, &vars); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return vars, models.NewValidationError("Invalid variable: " + typeErr.Field)
		}
		return vars, models.NewValidationError("Invalid variables")
	}
	return vars, nil
}

func required(value *string, field string) (string, error) {
	if value == nil {
		return "", models.NewMissingFieldError(field)
	}
	return *value, nil
}

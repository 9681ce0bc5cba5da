package query

import (
	"context"
	"encoding/json"

	"postboard/internal/auth"
)

type registerVars struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginVars struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type searchVars struct {
	Query *string `json:"query"`
}

type userVars struct {
	ID *string `json:"id"`
}

type createPostVars struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type followVars struct {
	UserID *string `json:"userId"`
}

type unfollowVars struct {
	FollowingID *string `json:"followingId"`
}

type toggleLikeVars struct {
	PostID *string `json:"postId"`
}

func (f *Facade) register(ctx context.Context, _ auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[registerVars](raw)
	if err != nil {
		return nil, err
	}
	return f.accounts.Register(ctx, vars.Email, vars.Password, vars.Name)
}

func (f *Facade) login(ctx context.Context, _ auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[loginVars](raw)
	if err != nil {
		return nil, err
	}
	return f.accounts.Login(ctx, vars.Email, vars.Password)
}

func (f *Facade) me(ctx context.Context, caller auth.Caller, _ json.RawMessage) (any, error) {
	view, err := f.accounts.Me(ctx, caller)
	if err != nil || view == nil {
		return nil, err
	}
	return view, nil
}

func (f *Facade) posts(ctx context.Context, _ auth.Caller, _ json.RawMessage) (any, error) {
	return f.content.ListPosts(ctx)
}

func (f *Facade) searchUsers(ctx context.Context, caller auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[searchVars](raw)
	if err != nil {
		return nil, err
	}
	q, err := required(vars.Query, "query")
	if err != nil {
		return nil, err
	}
	return f.graph.SearchUsers(ctx, caller, q)
}

func (f *Facade) user(ctx context.Context, _ auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[userVars](raw)
	if err != nil {
		return nil, err
	}
	id, err := required(vars.ID, "id")
	if err != nil {
		return nil, err
	}
	view, err := f.accounts.UserView(ctx, id)
	if err != nil || view == nil {
		return nil, err
	}
	return view, nil
}

func (f *Facade) createPost(ctx context.Context, caller auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[createPostVars](raw)
	if err != nil {
		return nil, err
	}
	title, err := required(vars.Title, "title")
	if err != nil {
		return nil, err
	}
	body, err := required(vars.Body, "body")
	if err != nil {
		return nil, err
	}
	return f.content.CreatePost(ctx, caller, title, body)
}

func (f *Facade) followUser(ctx context.Context, caller auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[followVars](raw)
	if err != nil {
		return nil, err
	}
	target, err := required(vars.UserID, "userId")
	if err != nil {
		return nil, err
	}
	return f.graph.FollowUser(ctx, caller, target)
}

func (f *Facade) unfollowUser(ctx context.Context, caller auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[unfollowVars](raw)
	if err != nil {
		return nil, err
	}
	target, err := required(vars.FollowingID, "followingId")
	if err != nil {
		return nil, err
	}
	return f.graph.UnfollowUser(ctx, caller, target)
}

func (f *Facade) toggleLike(ctx context.Context, caller auth.Caller, raw json.RawMessage) (any, error) {
	vars, err := decodeVars[toggleLikeVars](raw)
	if err != nil {
		return nil, err
	}
	postID, err := required(vars.PostID, "postId")
	if err != nil {
		return nil, err
	}
	return f.content.ToggleLike(ctx, caller, postID)
}

package models

// Soft outcome messages. These travel as data, never as errors.
const (
	MsgFollowed         = "Successfully followed user"
	MsgAlreadyFollowing = "Already following this user"
	MsgFollowTargetGone = "User not found"
	MsgFollowFailed     = "Failed to follow user"
	MsgUnfollowed       = "Successfully unfollowed user"
	MsgUnfollowFailed   = "Failed to unfollow user"
	MsgPostLiked        = "Post liked"
	MsgPostUnliked      = "Post unliked"
	MsgPostNotFound     = "Post not found"
	MsgToggleLikeFailed = "Failed to toggle like"
)

// AuthPayload is returned by register and login.
type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// FollowResult is the outcome of a follow attempt. ID and Followers describe
// the caller after a successful follow and are empty otherwise.
type FollowResult struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	ID        *string `json:"id"`
	Followers []User  `json:"followers"`
}

// UnfollowResult is the outcome of an unfollow attempt.
type UnfollowResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LikeResult is the outcome of a like toggle; Liked is the state after the call.
type LikeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

// UserView is a user with its relational views resolved.
type UserView struct {
	*User
	Posts      []Post `json:"posts"`
	Followers  []User `json:"followers"`
	Following  []User `json:"following"`
	LikedPosts []Post `json:"likedPosts"`
}

// PostView is a post with its author and likers resolved.
type PostView struct {
	*Post
	LikedBy []User `json:"likedBy"`
}

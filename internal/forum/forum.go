// Package forum holds the hub, post-list and post-with-comments view models.
package forum

import (
	"context"
	"errors"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

var (
	ErrNotLoaded     = errors.New("post is not loaded")
	ErrItemNotFound  = errors.New("item not found in post")
	ErrEmptyContent  = errors.New("content must not be empty")
	ErrNotQuestion   = errors.New("only questions can have an accepted answer")
	ErrNotPoll       = errors.New("post is not a poll")
	ErrMissingTitle  = errors.New("thread title must not be empty")
	ErrMissingPollOp = errors.New("a poll needs at least two options")
	ErrReloadFailed  = errors.New("change was saved but the post could not be reloaded")
)

// PostAPI is the part of the backend the post view uses.
type PostAPI interface {
	GetPost(ctx context.Context, postID, userID int64) (*types.Post, error)
	CreatePost(ctx context.Context, req types.CreatePostRequest) (int64, error)
	DeletePost(ctx context.Context, postID int64) error
	VotePost(ctx context.Context, itemID, userID int64, vote types.VoteType, isComment bool) error
	VotePoll(ctx context.Context, postID, userID int64, optionIDs []int64) error
	GetUserPollVotes(ctx context.Context, postID, userID int64) ([]int64, error)
	MarkAnswered(ctx context.Context, questionID, answerID int64) error
}

// HubAPI is the part of the backend the hub and post-list hooks use.
type HubAPI interface {
	ListHubs(ctx context.Context, orgID int64) ([]types.Hub, error)
	ListPosts(ctx context.Context, hubID int64) ([]types.Post, error)
	CreatePost(ctx context.Context, req types.CreatePostRequest) (int64, error)
}

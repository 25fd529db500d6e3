package forum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/fetch"
	"go.uber.org/zap"
)

// HubsHook holds the hubs of one organization.
type HubsHook = fetch.Resource[int64, []types.Hub]

// PostsHook holds the top-level posts of one hub.
type PostsHook = fetch.Resource[int64, []types.Post]

// NewHubsHook creates a hook keyed by organization id.
func NewHubsHook(backend HubAPI, logger *zap.Logger) *HubsHook {
	return fetch.New(backend.ListHubs, logger.Named("hubs_hook"))
}

// NewPostsHook creates a hook keyed by hub id.
func NewPostsHook(backend HubAPI, logger *zap.Logger) *PostsHook {
	return fetch.New(backend.ListPosts, logger.Named("posts_hook"))
}

// ThreadInput describes a new top-level post.
type ThreadInput struct {
	HubID                int64
	Title                string
	Content              string
	PostType             types.PostType
	PollOptions          []string
	PollDurationDays     int
	AllowMultipleAnswers bool
	Category             string
	Tags                 []string
}

// createdAtLayout matches the timestamps the server sends.
const createdAtLayout = "2006-01-02 15:04:05"

// CreateThread creates a top-level post and splices it at the head of the
// posts hook when the hook shows the same hub.
func CreateThread(ctx context.Context, backend HubAPI, hook *PostsHook, in ThreadInput) (int64, error) {
	user, err := auth.Require(ctx)
	if err != nil {
		return 0, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return 0, ErrMissingTitle
	}
	if in.PostType == "" {
		in.PostType = types.PostThread
	}
	if in.PostType == types.PostReply || !in.PostType.Valid() {
		return 0, fmt.Errorf("invalid thread type %q", in.PostType)
	}
	if in.PostType == types.PostPoll && len(in.PollOptions) < 2 {
		return 0, ErrMissingPollOp
	}

	id, err := backend.CreatePost(ctx, types.CreatePostRequest{
		HubID:                in.HubID,
		UserID:               user.ID,
		Title:                in.Title,
		Content:              strings.TrimSpace(in.Content),
		PostType:             in.PostType,
		PollOptions:          in.PollOptions,
		PollDurationDays:     in.PollDurationDays,
		AllowMultipleAnswers: in.AllowMultipleAnswers,
		Category:             in.Category,
		Tags:                 in.Tags,
	})
	if err != nil {
		return 0, fmt.Errorf("create thread in hub %d: %w", in.HubID, err)
	}

	if hook != nil {
		if snap := hook.Snapshot(); snap.HasKey && snap.Key == in.HubID {
			placeholder := types.Post{
				ID:                   id,
				HubID:                in.HubID,
				Title:                in.Title,
				Content:              strings.TrimSpace(in.Content),
				PostType:             in.PostType,
				CreatedAt:            time.Now().UTC().Format(createdAtLayout),
				Author:               user.Email,
				AllowMultipleAnswers: in.AllowMultipleAnswers,
				Category:             in.Category,
				Tags:                 in.Tags,
			}
			hook.Mutate(func(posts []types.Post) []types.Post {
				return append([]types.Post{placeholder}, posts...)
			})
		}
	}

	return id, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

// ListHubs returns the hubs of an organization.
func (c *Client) ListHubs(ctx context.Context, orgID int64) ([]types.Hub, error) {
	var hubs []types.Hub
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/hubs/organization/%s", orgID),
		out:    &hubs,
	})
	return hubs, err
}

// CreateHub creates a hub and returns it.
func (c *Client) CreateHub(ctx context.Context, req types.CreateHubRequest) (*types.Hub, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: hub name is required", ErrInvalidArgument)
	}

	var hub types.Hub
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/hubs/",
		body:   req,
		out:    &hub,
	}); err != nil {
		return nil, err
	}

	return &hub, nil
}

// ListPosts returns the top-level posts of a hub.
func (c *Client) ListPosts(ctx context.Context, hubID int64) ([]types.Post, error) {
	var posts []types.Post
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/hubs/%s/posts", hubID),
		out:    &posts,
	})
	return posts, err
}

// GetPost returns a post with its comments. A non-zero userID personalises user_vote.
func (c *Client) GetPost(ctx context.Context, postID, userID int64) (*types.Post, error) {
	var query url.Values
	if userID != 0 {
		query = url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	}

	var post types.Post
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/hubs/posts/%s", postID),
		query:  query,
		out:    &post,
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

// CreatePost creates a post or, when ParentID is set, a comment.
func (c *Client) CreatePost(ctx context.Context, req types.CreatePostRequest) (int64, error) {
	if !req.PostType.Valid() {
		return 0, fmt.Errorf("%w: unknown post type %q", ErrInvalidArgument, req.PostType)
	}

	var created types.CreatedResponse
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/hubs/posts",
		body:   req,
		out:    &created,
	}); err != nil {
		return 0, err
	}

	return created.ID, nil
}

// DeletePost deletes a post or comment.
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   pathf("/hubs/posts/%s", postID),
	})
}

// VotePost submits a vote on a post or comment. VoteNone clears the vote.
func (c *Client) VotePost(ctx context.Context, itemID, userID int64, vote types.VoteType, isComment bool) error {
	req := types.VoteRequest{
		UserID:    userID,
		IsComment: isComment,
	}
	if vote != types.VoteNone {
		req.VoteType = &vote
	}

	return c.do(ctx, call{
		method: http.MethodPost,
		path:   pathf("/hubs/posts/%s/vote", itemID),
		body:   req,
		out:    &types.SuccessResponse{},
	})
}

// VotePoll records the caller's choices on a poll.
func (c *Client) VotePoll(ctx context.Context, postID, userID int64, optionIDs []int64) error {
	if len(optionIDs) == 0 {
		return fmt.Errorf("%w: at least one option is required", ErrInvalidArgument)
	}

	return c.do(ctx, call{
		method: http.MethodPost,
		path:   pathf("/hubs/polls/%s/vote", postID),
		body:   types.PollVoteRequest{UserID: userID, OptionIDs: optionIDs},
		out:    &types.SuccessResponse{},
	})
}

// GetUserPollVotes returns the option ids the user picked on a poll.
func (c *Client) GetUserPollVotes(ctx context.Context, postID, userID int64) ([]int64, error) {
	var resp types.PollVotesResponse
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/hubs/polls/%s/votes/%s", postID, userID),
		out:    &resp,
	}); err != nil {
		return nil, err
	}

	return resp.OptionIDs, nil
}

// MarkAnswered accepts a reply as the answer of a question.
func (c *Client) MarkAnswered(ctx context.Context, questionID, answerID int64) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   pathf("/hubs/questions/%s/answer", questionID),
		body:   types.AnswerRequest{AcceptedAnswerID: answerID},
		out:    &types.SuccessResponse{},
	})
}

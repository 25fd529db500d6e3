package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

const enhancedPrefix = "/enhanced-hubs"

// Search finds posts matching the query and filters.
func (c *Client) Search(ctx context.Context, req types.SearchRequest) ([]types.Post, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidArgument)
	}

	var posts []types.Post
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   enhancedPrefix + "/search",
		body:   req,
		out:    &posts,
	})
	return posts, err
}

// Leaderboard returns the top contributors for a period.
func (c *Client) Leaderboard(ctx context.Context, limit int, period types.TimePeriod) ([]types.LeaderboardEntry, error) {
	if period == "" {
		period = types.PeriodAllTime
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown time period %q", ErrInvalidArgument, period)
	}

	query := url.Values{"time_period": {string(period)}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var entries []types.LeaderboardEntry
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   enhancedPrefix + "/leaderboard",
		query:  query,
		out:    &entries,
	})
	return entries, err
}

// ReportPost flags a post for moderation and returns the report id.
func (c *Client) ReportPost(ctx context.Context, postID int64, req types.ReportRequest) (int64, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return 0, fmt.Errorf("%w: report reason is required", ErrInvalidArgument)
	}

	var created types.CreatedResponse
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   pathf(enhancedPrefix+"/posts/%s/report", postID),
		body:   req,
		out:    &created,
	}); err != nil {
		return 0, err
	}

	return created.ID, nil
}

// Feed returns a page of the user's personalized feed.
func (c *Client) Feed(ctx context.Context, req types.FeedRequest) ([]types.FeedItem, error) {
	if req.FeedType == "" {
		req.FeedType = types.FeedRecommended
	}
	if !req.FeedType.Valid() {
		return nil, fmt.Errorf("%w: unknown feed type %q", ErrInvalidArgument, req.FeedType)
	}

	var items []types.FeedItem
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   enhancedPrefix + "/feed",
		body:   req,
		out:    &items,
	})
	return items, err
}

// Reputation returns a user's reputation, across all hubs when hubID is 0.
func (c *Client) Reputation(ctx context.Context, userID, hubID int64) (*types.Reputation, error) {
	var query url.Values
	if hubID != 0 {
		query = url.Values{"hub_id": {strconv.FormatInt(hubID, 10)}}
	}

	var rep types.Reputation
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf(enhancedPrefix+"/users/%s/reputation", userID),
		query:  query,
		out:    &rep,
	}); err != nil {
		return nil, err
	}

	return &rep, nil
}

// Follow makes followerID follow followingID.
func (c *Client) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return fmt.Errorf("%w: users cannot follow themselves", ErrInvalidArgument)
	}

	return c.do(ctx, call{
		method: http.MethodPost,
		path:   enhancedPrefix + "/users/follow",
		body:   types.FollowRequest{FollowerID: followerID, FollowingID: followingID},
	})
}

// Unfollow removes a follow relation.
func (c *Client) Unfollow(ctx context.Context, followerID, followingID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   pathf(enhancedPrefix+"/users/%s/follow/%s", followerID, followingID),
	})
}

// Subscribe subscribes the user to a hub.
func (c *Client) Subscribe(ctx context.Context, userID, hubID int64) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   enhancedPrefix + "/hubs/subscribe",
		body:   types.SubscribeRequest{UserID: userID, HubID: hubID},
	})
}

// Unsubscribe removes the user's subscription to a hub.
func (c *Client) Unsubscribe(ctx context.Context, userID, hubID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   pathf(enhancedPrefix+"/hubs/%s/subscribe/%s", hubID, userID),
	})
}

// HubStats returns activity statistics of a hub.
func (c *Client) HubStats(ctx context.Context, hubID int64) (*types.HubStats, error) {
	var stats types.HubStats
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf(enhancedPrefix+"/hubs/%s/stats", hubID),
		out:    &stats,
	}); err != nil {
		return nil, err
	}

	return &stats, nil
}

// Trending returns the most active posts of a hub.
func (c *Client) Trending(ctx context.Context, hubID int64, timeframe types.Timeframe, limit int) ([]types.FeedItem, error) {
	if timeframe == "" {
		timeframe = types.TimeframeWeek
	}
	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidArgument, timeframe)
	}

	query := url.Values{"timeframe": {string(timeframe)}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var items []types.FeedItem
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf(enhancedPrefix+"/hubs/%s/trending", hubID),
		query:  query,
		out:    &items,
	})
	return items, err
}

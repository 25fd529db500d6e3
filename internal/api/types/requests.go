package types

// CreateHubRequest creates a hub in an organization.
type CreateHubRequest struct {
	OrgID       int64  `json:"org_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePostRequest creates a post, or a comment when ParentID is set.
type CreatePostRequest struct {
	HubID                int64    `json:"hub_id"`
	UserID               int64    `json:"user_id"`
	Title                string   `json:"title,omitempty"`
	Content              string   `json:"content"`
	PostType             PostType `json:"post_type"`
	ParentID             *int64   `json:"parent_id,omitempty"`
	PollOptions          []string `json:"poll_options,omitempty"`
	PollDurationDays     int      `json:"poll_duration_days,omitempty"`
	AllowMultipleAnswers bool     `json:"allow_multiple_answers,omitempty"`
	Category             string   `json:"category,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
}

// CreatedResponse carries the id of a newly created entity.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// VoteRequest submits a vote. A nil VoteType clears the caller's vote.
type VoteRequest struct {
	UserID    int64     `json:"user_id"`
	VoteType  *VoteType `json:"vote_type"`
	IsComment bool      `json:"is_comment"`
}

// PollVoteRequest submits the caller's poll choices.
type PollVoteRequest struct {
	UserID    int64   `json:"user_id"`
	OptionIDs []int64 `json:"option_ids"`
}

// PollVotesResponse lists the options the caller picked.
type PollVotesResponse struct {
	OptionIDs []int64 `json:"option_ids"`
}

// AnswerRequest marks a reply as the accepted answer of a question.
type AnswerRequest struct {
	AcceptedAnswerID int64 `json:"accepted_answer_id"`
}

// SearchRequest filters posts across hubs.
type SearchRequest struct {
	Query     string     `json:"query"`
	HubIDs    []int64    `json:"hub_ids,omitempty"`
	PostTypes []PostType `json:"post_types,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Category  string     `json:"category,omitempty"`
	SortBy    string     `json:"sort_by,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ReportRequest flags a post for moderation.
type ReportRequest struct {
	ReporterID  int64  `json:"reporter_id"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

// FeedRequest asks for a page of the caller's personalized feed.
type FeedRequest struct {
	UserID   int64    `json:"user_id"`
	FeedType FeedType `json:"feed_type"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

// FollowRequest makes FollowerID follow FollowingID.
type FollowRequest struct {
	FollowerID  int64 `json:"follower_id"`
	FollowingID int64 `json:"following_id"`
}

// SubscribeRequest subscribes a user to a hub.
type SubscribeRequest struct {
	UserID int64 `json:"user_id"`
	HubID  int64 `json:"hub_id"`
}

// InviteRequest adds members to an organization by e-mail.
type InviteRequest struct {
	Emails []string `json:"emails"`
}

// RemoveMembersRequest removes members from an organization.
type RemoveMembersRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

// SuccessResponse is the acknowledgement body of mutating calls.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body the server sends with a non-2xx status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

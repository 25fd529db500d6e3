// Package types holds the wire types of the learning-hub API.
package types

// VoteType is the caller's vote on a post or comment.
type VoteType string

const (
	VoteNone VoteType = ""
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Valid reports whether v is a real vote direction.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Opposite returns the other real vote direction.
func (v VoteType) Opposite() VoteType {
	switch v {
	case VoteUp:
		return VoteDown
	case VoteDown:
		return VoteUp
	default:
		return VoteNone
	}
}

// String returns a printable form of the vote.
func (v VoteType) String() string {
	if v == VoteNone {
		return "none"
	}
	return string(v)
}

// PostType identifies the kind of hub post.
type PostType string

const (
	PostThread   PostType = "thread"
	PostQuestion PostType = "question"
	PostNote     PostType = "note"
	PostPoll     PostType = "poll"
	PostReply    PostType = "reply"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostThread, PostQuestion, PostNote, PostPoll, PostReply:
		return true
	default:
		return false
	}
}

// Hub is a discussion space owned by an organization.
type Hub struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PollOption is one choice of a poll post.
type PollOption struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	VoteCount int64  `json:"vote_count"`
}

// Comment is a reply attached to exactly one post.
type Comment struct {
	ID        int64    `json:"id"`
	HubID     int64    `json:"hub_id"`
	Content   string   `json:"content"`
	PostType  PostType `json:"post_type"`
	CreatedAt string   `json:"created_at"`
	Author    string   `json:"author"`
	Votes     int64    `json:"votes"`
	UserVote  VoteType `json:"user_vote"`
}

// Post is a top-level hub post. Comments keep server order.
type Post struct {
	ID                   int64        `json:"id"`
	HubID                int64        `json:"hub_id"`
	Title                string       `json:"title"`
	Content              string       `json:"content"`
	PostType             PostType     `json:"post_type"`
	CreatedAt            string       `json:"created_at"`
	Author               string       `json:"author"`
	Votes                int64        `json:"votes"`
	UserVote             VoteType     `json:"user_vote"`
	CommentCount         int64        `json:"comment_count,omitempty"`
	Category             string       `json:"category,omitempty"`
	IsAnswered           bool         `json:"is_answered,omitempty"`
	PollExpiresAt        string       `json:"poll_expires_at,omitempty"`
	AllowMultipleAnswers bool         `json:"allow_multiple_answers,omitempty"`
	PollOptions          []PollOption `json:"poll_options,omitempty"`
	Tags                 []string     `json:"tags,omitempty"`
	Comments             []Comment    `json:"comments,omitempty"`
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p *Post) CommentIndex(id int64) int {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

// Organization is a school or team that owns hubs, cohorts and courses.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RoleOwner marks the member that owns the organization.
const RoleOwner = "owner"

// Member is a user belonging to an organization.
type Member struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsOwner reports whether the member owns the organization.
func (m Member) IsOwner() bool {
	return m.Role == RoleOwner
}

// Cohort is a group of learners in an organization.
type Cohort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a course offered by an organization.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LeaderboardEntry is one ranked contributor.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	PostCount    int64  `json:"post_count"`
	HelpfulVotes int64  `json:"helpful_votes"`
	Reputation   int64  `json:"reputation"`
}

// TimePeriod bounds a leaderboard query.
type TimePeriod string

const (
	PeriodAllTime TimePeriod = "all_time"
	PeriodMonth   TimePeriod = "month"
	PeriodWeek    TimePeriod = "week"
)

// Valid reports whether p is a supported leaderboard period.
func (p TimePeriod) Valid() bool {
	return p == PeriodAllTime || p == PeriodMonth || p == PeriodWeek
}

// FeedType selects how a personalized feed is assembled.
type FeedType string

const (
	FeedRecommended    FeedType = "recommended"
	FeedFollowing      FeedType = "following"
	FeedSubscribedHubs FeedType = "subscribed_hubs"
	FeedTrending       FeedType = "trending"
)

// Valid reports whether t is a supported feed type.
func (t FeedType) Valid() bool {
	switch t {
	case FeedRecommended, FeedFollowing, FeedSubscribedHubs, FeedTrending:
		return true
	}
	return false
}

// FeedItem is a post summary in a feed or trending list.
type FeedItem struct {
	ID         int64    `json:"id"`
	HubID      int64    `json:"hub_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	PostType   PostType `json:"post_type"`
	CreatedAt  string   `json:"created_at"`
	Author     string   `json:"author"`
	Votes      int64    `json:"votes"`
	ReplyCount int64    `json:"reply_count"`
}

// Reputation is a user's score with its breakdown.
type Reputation struct {
	Score             int64 `json:"score"`
	HelpfulAnswers    int64 `json:"helpful_answers"`
	AcceptedAnswers   int64 `json:"accepted_answers"`
	UpvotesReceived   int64 `json:"upvotes_received"`
	DownvotesReceived int64 `json:"downvotes_received"`
	PostsCreated      int64 `json:"posts_created"`
}

// HubStats summarizes the activity of a hub.
type HubStats struct {
	ID              int64    `json:"id"`
	PostCount       int64    `json:"post_count"`
	SubscriberCount int64    `json:"subscriber_count"`
	ActiveToday     int64    `json:"active_today"`
	Topics          []string `json:"topics"`
	Moderators      []int64  `json:"moderators"`
}

// Timeframe bounds a trending query.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// Valid reports whether t is a supported trending timeframe.
func (t Timeframe) Valid() bool {
	return t == TimeframeDay || t == TimeframeWeek || t == TimeframeMonth
}

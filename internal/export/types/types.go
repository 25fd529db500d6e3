package types

// PostRecord is one row of the posts table.
type PostRecord struct {
	ID           int64
	HubID        int64
	Title        string
	PostType     string
	Author       string
	CreatedAt    string
	Votes        int64
	IsAnswered   bool
	CommentCount int
	Content      string
}

// CommentRecord is one row of the comments table.
type CommentRecord struct {
	ID        int64
	PostID    int64
	Author    string
	CreatedAt string
	Votes     int64
	Content   string
}

// Archive holds everything exported for a single hub.
type Archive struct {
	HubID    int64
	Posts    []*PostRecord
	Comments []*CommentRecord
}

package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sensai-ai/hubkit/internal/admin"
	"github.com/sensai-ai/hubkit/internal/api/types"
)

func newTable(out io.Writer, header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

// voteMark shows the viewer's own vote next to a count.
func voteMark(v types.VoteType) string {
	switch v {
	case types.VoteUp:
		return "▲"
	case types.VoteDown:
		return "▼"
	default:
		return " "
	}
}

func renderHubs(out io.Writer, hubs []types.Hub) {
	w := newTable(out, "ID", "NAME", "DESCRIPTION")
	for _, hub := range hubs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", hub.ID, hub.Name, hub.Description)
	}
	w.Flush()
}

func renderPostList(out io.Writer, posts []types.Post) {
	w := newTable(out, "ID", "TYPE", "VOTES", "COMMENTS", "AUTHOR", "CREATED", "TITLE")
	for _, post := range posts {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			post.ID, post.PostType, post.Votes, post.CommentCount, post.Author, post.CreatedAt, post.Title)
	}
	w.Flush()
}

func renderPost(out io.Writer, post *types.Post) {
	fmt.Fprintf(out, "#%d %s\n", post.ID, post.Title)
	fmt.Fprintf(out, "%s by %s at %s", post.PostType, post.Author, post.CreatedAt)
	if post.PostType == types.PostQuestion && post.IsAnswered {
		fmt.Fprint(out, " (answered)")
	}
	fmt.Fprintf(out, "\n%s %d votes\n", voteMark(post.UserVote), post.Votes)

	if len(post.Tags) > 0 {
		fmt.Fprintf(out, "tags: %s\n", strings.Join(post.Tags, ", "))
	}

	if post.Content != "" {
		fmt.Fprintf(out, "\n%s\n", post.Content)
	}

	if len(post.PollOptions) > 0 {
		fmt.Fprintln(out)
		w := newTable(out, "OPTION", "VOTES", "TEXT")
		for _, option := range post.PollOptions {
			fmt.Fprintf(w, "%d\t%d\t%s\n", option.ID, option.VoteCount, option.Text)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "\n%d comment(s)\n", len(post.Comments))
	if len(post.Comments) == 0 {
		return
	}

	w := newTable(out, "ID", "", "VOTES", "AUTHOR", "CREATED", "CONTENT")
	for _, comment := range post.Comments {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			comment.ID, voteMark(comment.UserVote), comment.Votes, comment.Author, comment.CreatedAt,
			strings.ReplaceAll(comment.Content, "\n", " "))
	}
	w.Flush()
}

func renderLeaderboard(out io.Writer, entries []types.LeaderboardEntry) {
	w := newTable(out, "RANK", "NAME", "POSTS", "HELPFUL", "REPUTATION")
	for _, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n",
			entry.Rank, entry.Name, entry.PostCount, entry.HelpfulVotes, entry.Reputation)
	}
	w.Flush()
}

func renderFeed(out io.Writer, items []types.FeedItem) {
	w := newTable(out, "ID", "HUB", "TYPE", "VOTES", "REPLIES", "AUTHOR", "TITLE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%s\t%s\n",
			item.ID, item.HubID, item.PostType, item.Votes, item.ReplyCount, item.Author, item.Title)
	}
	w.Flush()
}

func renderReputation(out io.Writer, userID int64, rep *types.Reputation) {
	fmt.Fprintf(out, "User %d: %d points\n", userID, rep.Score)
	w := newTable(out, "HELPFUL", "ACCEPTED", "UPVOTES", "DOWNVOTES", "POSTS")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n",
		rep.HelpfulAnswers, rep.AcceptedAnswers, rep.UpvotesReceived, rep.DownvotesReceived, rep.PostsCreated)
	w.Flush()
}

func renderHubStats(out io.Writer, stats *types.HubStats) {
	fmt.Fprintf(out, "Hub %d\n", stats.ID)
	fmt.Fprintf(out, "  posts:        %d\n", stats.PostCount)
	fmt.Fprintf(out, "  subscribers:  %d\n", stats.SubscriberCount)
	fmt.Fprintf(out, "  active today: %d\n", stats.ActiveToday)
	if len(stats.Topics) > 0 {
		fmt.Fprintf(out, "  topics:       %s\n", strings.Join(stats.Topics, ", "))
	}
}

func renderDashboard(out io.Writer, dashboard *admin.Dashboard, tab admin.Tab, selfID int64) {
	fmt.Fprintf(out, "%s (%s)\n", dashboard.Organization.Name, dashboard.Organization.Slug)

	tabs := make([]string, 0, len(admin.Tabs))
	for _, t := range admin.Tabs {
		if t == tab {
			tabs = append(tabs, "["+string(t)+"]")
			continue
		}
		tabs = append(tabs, string(t))
	}
	fmt.Fprintf(out, "%s\n\n", strings.Join(tabs, "  "))

	switch tab {
	case admin.TabCourses:
		w := newTable(out, "ID", "COURSE")
		for _, course := range dashboard.Courses {
			fmt.Fprintf(w, "%d\t%s\n", course.ID, course.Name)
		}
		w.Flush()
	case admin.TabCohorts:
		w := newTable(out, "ID", "COHORT")
		for _, cohort := range dashboard.Cohorts {
			fmt.Fprintf(w, "%d\t%s\n", cohort.ID, cohort.Name)
		}
		w.Flush()
	case admin.TabMembers:
		w := newTable(out, "ID", "EMAIL", "ROLE", "REMOVABLE")
		for _, member := range dashboard.Members {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n",
				member.ID, member.Email, member.Role, admin.CanSelect(member, selfID))
		}
		w.Flush()
	case admin.TabSettings:
		fmt.Fprintf(out, "id:   %d\nname: %s\nslug: %s\n",
			dashboard.Organization.ID, dashboard.Organization.Name, dashboard.Organization.Slug)
	}
}

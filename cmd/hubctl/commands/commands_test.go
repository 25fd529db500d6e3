package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sensai-ai/hubkit/internal/admin"
	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// runArgs parses args against a command whose action captures it.
func runArgs(t *testing.T, flags []cli.Flag, args ...string) *cli.Command {
	t.Helper()

	var captured *cli.Command
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(_ context.Context, c *cli.Command) error {
			captured = c
			return nil
		},
	}

	require.NoError(t, cmd.Run(t.Context(), append([]string{"test"}, args...)))
	require.NotNil(t, captured)
	return captured
}

func TestInt64Arg(t *testing.T) {
	t.Parallel()

	c := runArgs(t, nil, "42", "abc")

	id, err := int64Arg(c, 0, "POST_ID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = int64Arg(c, 1, "COMMENT_ID")
	require.ErrorIs(t, err, ErrInvalidArg)

	_, err = int64Arg(c, 2, "OTHER")
	require.ErrorIs(t, err, ErrArgRequired)
}

func TestInt64List(t *testing.T) {
	t.Parallel()

	ids, err := int64List("3, 4,,5", "MEMBER_ID")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, ids)

	_, err = int64List("", "MEMBER_ID")
	require.ErrorIs(t, err, ErrArgRequired)

	_, err = int64List("3,x", "MEMBER_ID")
	require.ErrorIs(t, err, ErrInvalidArg)
}

func TestCommentFlag(t *testing.T) {
	t.Parallel()

	c := runArgs(t, []cli.Flag{newCommentFlag()}, "--comment", "40", "12")
	assert.Equal(t, int64(40), int64(c.Int(commentFlag)))
	assert.Equal(t, "12", c.Args().First())
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: " YES \n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		env := &Env{In: strings.NewReader(tt.input), Out: &out}

		assert.Equal(t, tt.want, confirm(env, "Remove?"), "input %q", tt.input)
		assert.Equal(t, "Remove? [y/N] ", out.String())
	}
}

func TestRenderPost(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderPost(&out, &types.Post{
		ID: 1, Title: "Why Go?", PostType: types.PostQuestion, Author: "ada@example.com",
		CreatedAt: "2025-07-20 10:00:00", Votes: 3, UserVote: types.VoteUp, IsAnswered: true,
		Content: "Tell me", Comments: []types.Comment{
			{ID: 2, Content: "because\nit is simple", Author: "bob@example.com", Votes: -1, UserVote: types.VoteDown},
		},
	})

	text := out.String()
	assert.Contains(t, text, "#1 Why Go?")
	assert.Contains(t, text, "(answered)")
	assert.Contains(t, text, "▲ 3 votes")
	assert.Contains(t, text, "1 comment(s)")
	assert.Contains(t, text, "because it is simple")
}

func TestRenderDashboardMembers(t *testing.T) {
	t.Parallel()

	dashboard := &admin.Dashboard{
		Organization: types.Organization{ID: 4, Name: "School", Slug: "school"},
		Members: []types.Member{
			{ID: 1, Email: "owner@example.com", Role: types.RoleOwner},
			{ID: 11, Email: "me@example.com", Role: "admin"},
			{ID: 12, Email: "student@example.com", Role: "member"},
		},
	}

	var out bytes.Buffer
	renderDashboard(&out, dashboard, admin.TabMembers, 11)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "[members]")
	assert.Empty(t, lines[2])
	assert.True(t, strings.HasSuffix(lines[4], "false"), lines[4])
	assert.True(t, strings.HasSuffix(lines[5], "false"), lines[5])
	assert.True(t, strings.HasSuffix(lines[6], "true"), lines[6])
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	recorder := &notice.Recorder{}
	env := &Env{Notifier: recorder}

	_, err := requireUser(t.Context(), env, "Please log in to follow users")
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.Equal(t, []notice.Notice{{Kind: notice.KindLoginRequired, Message: "Please log in to follow users"}}, recorder.Notices())

	user, err := requireUser(auth.WithUser(t.Context(), auth.User{ID: 7}), env, "unused")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Len(t, recorder.Notices(), 1)
}

func TestRenderCommunity(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderFeed(&out, []types.FeedItem{
		{ID: 5, HubID: 2, Title: "Maps", PostType: types.PostThread, Author: "ada", Votes: 4, ReplyCount: 1},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"5", "2", "thread", "4", "1", "ada", "Maps"}, strings.Fields(lines[1]))

	out.Reset()
	renderReputation(&out, 7, &types.Reputation{Score: 35, HelpfulAnswers: 1, PostsCreated: 2})
	assert.Contains(t, out.String(), "User 7: 35 points")

	out.Reset()
	renderHubStats(&out, &types.HubStats{ID: 2, PostCount: 12, SubscriberCount: 3, Topics: []string{"go", "sql"}})
	text := out.String()
	assert.Contains(t, text, "subscribers:  3")
	assert.Contains(t, text, "topics:       go, sql")
}

package forum_test

import (
	"testing"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/forum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHubsHook(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI(nil)
	fake.hubs = []types.Hub{{ID: 1, Name: "General"}}

	hook := forum.NewHubsHook(fake, zaptest.NewLogger(t))
	snap := hook.Use(t.Context(), 5)
	require.NoError(t, snap.Err)
	assert.Equal(t, fake.hubs, snap.Data)
}

func TestCreateThreadSplicesIntoHook(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI(nil)
	fake.posts = []types.Post{{ID: 50, HubID: 10, Title: "older"}}

	hook := forum.NewPostsHook(fake, zaptest.NewLogger(t))
	hook.Use(t.Context(), 10)

	ctx := auth.WithUser(t.Context(), viewer)
	id, err := forum.CreateThread(ctx, fake, hook, forum.ThreadInput{
		HubID:   10,
		Title:   " New thread ",
		Content: "body",
		Tags:    []string{"go"},
	})
	require.NoError(t, err)

	posts := hook.Snapshot().Data
	require.Len(t, posts, 2)
	assert.Equal(t, id, posts[0].ID)
	assert.Equal(t, "New thread", posts[0].Title)
	assert.Equal(t, types.PostThread, posts[0].PostType)
	assert.Equal(t, viewer.Email, posts[0].Author)
	assert.Equal(t, int64(50), posts[1].ID)

	require.Len(t, fake.created, 1)
	assert.Nil(t, fake.created[0].ParentID)
	assert.Equal(t, []string{"go"}, fake.created[0].Tags)
}

func TestCreateThreadValidation(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI(nil)
	ctx := auth.WithUser(t.Context(), viewer)

	_, err := forum.CreateThread(t.Context(), fake, nil, forum.ThreadInput{HubID: 1, Title: "x"})
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	_, err = forum.CreateThread(ctx, fake, nil, forum.ThreadInput{HubID: 1, Title: "  "})
	require.ErrorIs(t, err, forum.ErrMissingTitle)

	_, err = forum.CreateThread(ctx, fake, nil, forum.ThreadInput{
		HubID: 1, Title: "poll", PostType: types.PostPoll, PollOptions: []string{"only"},
	})
	require.ErrorIs(t, err, forum.ErrMissingPollOp)

	_, err = forum.CreateThread(ctx, fake, nil, forum.ThreadInput{HubID: 1, Title: "x", PostType: types.PostReply})
	require.Error(t, err)

	assert.Empty(t, fake.created)
}

package forum_test

import (
	"context"
	"errors"
	"sync"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

var errServer = errors.New("server unavailable")

type voteCall struct {
	ItemID    int64
	UserID    int64
	Vote      types.VoteType
	IsComment bool
}

// fakeAPI is an in-memory backend that records every call.
type fakeAPI struct {
	mu sync.Mutex

	post       *types.Post
	posts      []types.Post
	hubs       []types.Hub
	getCalls   []int64
	getUserIDs []int64
	votes      []voteCall
	created    []types.CreatePostRequest
	deleted    []int64
	pollVotes  [][]int64
	answered   []int64
	nextID     int64

	getErr    error
	voteErr   error
	createErr error
	deleteErr error

	// voteHook runs inside VotePost before it returns.
	voteHook func()
}

func newFakeAPI(post *types.Post) *fakeAPI {
	return &fakeAPI{post: post, nextID: 100}
}

func (f *fakeAPI) GetPost(_ context.Context, postID, userID int64) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls = append(f.getCalls, postID)
	f.getUserIDs = append(f.getUserIDs, userID)
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.post == nil || f.post.ID != postID {
		return nil, errServer
	}

	cp := *f.post
	cp.Comments = append([]types.Comment(nil), f.post.Comments...)
	return &cp, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, req types.CreatePostRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, req)
	if f.createErr != nil {
		return 0, f.createErr
	}

	f.nextID++
	if req.ParentID != nil && f.post != nil && *req.ParentID == f.post.ID {
		f.post.Comments = append(f.post.Comments, types.Comment{
			ID:       f.nextID,
			HubID:    req.HubID,
			Content:  req.Content,
			PostType: types.PostReply,
		})
	}
	return f.nextID, nil
}

func (f *fakeAPI) DeletePost(_ context.Context, postID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, postID)
	return f.deleteErr
}

func (f *fakeAPI) VotePost(_ context.Context, itemID, userID int64, vote types.VoteType, isComment bool) error {
	f.mu.Lock()
	f.votes = append(f.votes, voteCall{ItemID: itemID, UserID: userID, Vote: vote, IsComment: isComment})
	hook := f.voteHook
	err := f.voteErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeAPI) VotePoll(_ context.Context, _, _ int64, optionIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pollVotes = append(f.pollVotes, optionIDs)
	return nil
}

func (f *fakeAPI) GetUserPollVotes(_ context.Context, _, _ int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pollVotes) == 0 {
		return nil, nil
	}
	return f.pollVotes[len(f.pollVotes)-1], nil
}

func (f *fakeAPI) MarkAnswered(_ context.Context, _, answerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.answered = append(f.answered, answerID)
	if f.post != nil {
		f.post.IsAnswered = true
	}
	return nil
}

func (f *fakeAPI) ListHubs(_ context.Context, _ int64) ([]types.Hub, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hubs, nil
}

func (f *fakeAPI) ListPosts(_ context.Context, _ int64) ([]types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts, nil
}

func (f *fakeAPI) voteCalls() []voteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]voteCall(nil), f.votes...)
}

func (f *fakeAPI) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getCalls)
}

func samplePost() *types.Post {
	return &types.Post{
		ID:       1,
		HubID:    10,
		Title:    "How do closures work?",
		Content:  "Asking for a friend",
		PostType: types.PostQuestion,
		Author:   "ada@example.com",
		Votes:    3,
		Comments: []types.Comment{
			{ID: 2, HubID: 10, Content: "first", PostType: types.PostReply, Votes: 1, UserVote: types.VoteUp},
			{ID: 3, HubID: 10, Content: "second", PostType: types.PostReply, Votes: 0},
			{ID: 4, HubID: 10, Content: "third", PostType: types.PostReply, Votes: -2, UserVote: types.VoteDown},
		},
	}
}

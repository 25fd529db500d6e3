package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sensai-ai/hubkit/internal/api"
	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/fetch"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/sensai-ai/hubkit/internal/vote"
	"go.uber.org/zap"
)

// PostSnapshot is the tri-state view of a post and its comments.
type PostSnapshot = fetch.Snapshot[int64, *types.Post]

// DeleteResult tells the caller what to do after a deletion.
type DeleteResult struct {
	// NavigateAway is set when the post itself was deleted.
	NavigateAway bool
}

// PostView is the view model of a single post with its comments.
type PostView struct {
	api      PostAPI
	notifier notice.Notifier
	logger   *zap.Logger
	tracker  *vote.Tracker
	post     *fetch.Resource[int64, *types.Post]
}

// NewPostView creates a PostView.
func NewPostView(backend PostAPI, notifier notice.Notifier, logger *zap.Logger) *PostView {
	logger = logger.Named("post_view")

	return &PostView{
		api:      backend,
		notifier: notifier,
		logger:   logger,
		tracker:  vote.NewTracker(),
		post: fetch.New(func(ctx context.Context, postID int64) (*types.Post, error) {
			// Anonymous viewers get the same post without personalised votes
			var userID int64
			if user, ok := auth.FromContext(ctx); ok {
				userID = user.ID
			}
			return backend.GetPost(ctx, postID, userID)
		}, logger),
	}
}

// Open loads the post if postID differs from the one shown.
func (v *PostView) Open(ctx context.Context, postID int64) PostSnapshot {
	return v.post.Use(ctx, postID)
}

// Refresh reloads the shown post.
func (v *PostView) Refresh(ctx context.Context) PostSnapshot {
	return v.post.Refetch(ctx)
}

// Snapshot returns the current state.
func (v *PostView) Snapshot() PostSnapshot {
	return v.post.Snapshot()
}

// ErrorMessage returns the user-visible error of the last load, if any.
func (v *PostView) ErrorMessage() string {
	snap := v.post.Snapshot()
	if snap.Err == nil {
		return ""
	}
	if errors.Is(snap.Err, api.ErrNotFound) {
		return "Post not found"
	}
	return "Failed to load post"
}

// Vote casts, switches or clears the viewer's vote on the post or one of its
// comments. The shown state changes before the request is sent and is
// restored exactly if the request fails.
func (v *PostView) Vote(ctx context.Context, target vote.Key, requested types.VoteType) error {
	user, ok := auth.FromContext(ctx)
	if !ok {
		v.notifier.Notify(notice.LoginRequired)
		return auth.ErrNotAuthenticated
	}

	release, err := v.tracker.Acquire(target)
	if err != nil {
		return err
	}
	defer release()

	// Optimistic update
	var (
		result   vote.Result
		applyErr error
		found    bool
	)
	gen, loaded := v.post.Mutate(func(p *types.Post) *types.Post {
		state, ok := itemState(p, target)
		if !ok {
			return p
		}
		found = true

		result, applyErr = vote.Apply(state, requested)
		if applyErr != nil {
			return p
		}
		return withItemState(p, target, result.State)
	})
	if !loaded {
		return ErrNotLoaded
	}
	if applyErr != nil {
		return applyErr
	}
	if !found {
		return fmt.Errorf("%w: id %d (comment: %t)", ErrItemNotFound, target.ID, target.IsComment)
	}

	v.logger.Debug("Applied optimistic vote",
		zap.Int64("itemID", target.ID),
		zap.Bool("isComment", target.IsComment),
		zap.Stringer("kind", result.Kind),
		zap.Stringer("sent", result.Send))

	if err := v.api.VotePost(ctx, target.ID, user.ID, result.Send, target.IsComment); err != nil {
		v.logger.Error("Failed to submit vote",
			zap.Int64("itemID", target.ID),
			zap.Bool("isComment", target.IsComment),
			zap.Error(err))

		// A refetch during the request already replaced our optimistic state
		reverted := v.post.MutateAt(gen, func(p *types.Post) *types.Post {
			state, ok := itemState(p, target)
			if !ok {
				return p
			}
			return withItemState(p, target, result.Inverse.Revert(state))
		})
		if !reverted {
			v.logger.Debug("Skipped vote rollback after refetch", zap.Int64("itemID", target.ID))
		}

		v.notifier.Notify(notice.VoteFailed)
		return fmt.Errorf("vote on item %d: %w", target.ID, err)
	}

	return nil
}

// AddComment posts a reply to the shown post and reloads it.
func (v *PostView) AddComment(ctx context.Context, content string) (int64, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		v.notifier.Notify(notice.Notice{Kind: notice.KindLoginRequired, Message: "Please log in to comment"})
		return 0, auth.ErrNotAuthenticated
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrEmptyContent
	}

	post, err := v.loaded()
	if err != nil {
		return 0, err
	}

	parentID := post.ID
	id, err := v.api.CreatePost(ctx, types.CreatePostRequest{
		HubID:    post.HubID,
		UserID:   user.ID,
		Content:  content,
		PostType: types.PostReply,
		ParentID: &parentID,
	})
	if err != nil {
		v.logger.Error("Failed to add comment", zap.Int64("postID", post.ID), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to add comment"})
		return 0, fmt.Errorf("add comment to post %d: %w", post.ID, err)
	}

	// The server decides ordering and counts, so reload instead of merging
	return id, v.reload(ctx)
}

// Delete removes the post or one of its comments.
func (v *PostView) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	post, err := v.loaded()
	if err != nil {
		return DeleteResult{}, err
	}

	isPost := id == post.ID
	if !isPost && post.CommentIndex(id) < 0 {
		return DeleteResult{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}

	if err := v.api.DeletePost(ctx, id); err != nil {
		v.logger.Error("Failed to delete", zap.Int64("id", id), zap.Bool("isPost", isPost), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to delete"})
		return DeleteResult{}, fmt.Errorf("delete %d: %w", id, err)
	}

	if isPost {
		return DeleteResult{NavigateAway: true}, nil
	}

	v.post.Mutate(func(p *types.Post) *types.Post {
		return withoutComment(p, id)
	})

	return DeleteResult{}, nil
}

// VotePoll records the viewer's poll choices and reloads the post.
func (v *PostView) VotePoll(ctx context.Context, optionIDs []int64) error {
	user, ok := auth.FromContext(ctx)
	if !ok {
		v.notifier.Notify(notice.Notice{Kind: notice.KindLoginRequired, Message: "Please log in to vote"})
		return auth.ErrNotAuthenticated
	}

	post, err := v.loaded()
	if err != nil {
		return err
	}
	if post.PostType != types.PostPoll {
		return ErrNotPoll
	}

	if err := v.api.VotePoll(ctx, post.ID, user.ID, optionIDs); err != nil {
		v.logger.Error("Failed to vote on poll", zap.Int64("postID", post.ID), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to submit poll vote"})
		return fmt.Errorf("poll vote on post %d: %w", post.ID, err)
	}

	return v.reload(ctx)
}

// PollChoices returns the options the viewer picked on the shown poll.
func (v *PostView) PollChoices(ctx context.Context) ([]int64, error) {
	user, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	post, err := v.loaded()
	if err != nil {
		return nil, err
	}
	if post.PostType != types.PostPoll {
		return nil, ErrNotPoll
	}

	return v.api.GetUserPollVotes(ctx, post.ID, user.ID)
}

// MarkAnswered accepts one of the comments as the answer of the shown question.
func (v *PostView) MarkAnswered(ctx context.Context, commentID int64) error {
	if _, err := auth.Require(ctx); err != nil {
		v.notifier.Notify(notice.Notice{Kind: notice.KindLoginRequired, Message: "Please log in to accept an answer"})
		return err
	}

	post, err := v.loaded()
	if err != nil {
		return err
	}
	if post.PostType != types.PostQuestion {
		return ErrNotQuestion
	}
	if post.CommentIndex(commentID) < 0 {
		return fmt.Errorf("%w: id %d", ErrItemNotFound, commentID)
	}

	if err := v.api.MarkAnswered(ctx, post.ID, commentID); err != nil {
		v.logger.Error("Failed to mark answer", zap.Int64("postID", post.ID), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to mark answer"})
		return fmt.Errorf("mark answer of post %d: %w", post.ID, err)
	}

	return v.reload(ctx)
}

// reload refetches the post after a successful change.
func (v *PostView) reload(ctx context.Context) error {
	snap := v.post.Refetch(ctx)
	if snap.Err == nil {
		return nil
	}

	v.logger.Error("Failed to reload post", zap.Int64("postID", snap.Key), zap.Error(snap.Err))
	v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: v.ErrorMessage()})
	return fmt.Errorf("%w: %w", ErrReloadFailed, snap.Err)
}

func (v *PostView) loaded() (*types.Post, error) {
	snap := v.post.Snapshot()
	if !snap.HasData || snap.Data == nil {
		return nil, ErrNotLoaded
	}
	return snap.Data, nil
}

package export

import (
	"context"
	"fmt"

	"github.com/sensai-ai/hubkit/internal/api/types"
	exportTypes "github.com/sensai-ai/hubkit/internal/export/types"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Backend is the read side of the hub API needed to build an archive.
type Backend interface {
	ListPosts(ctx context.Context, hubID int64) ([]types.Post, error)
	GetPost(ctx context.Context, postID, userID int64) (*types.Post, error)
}

// Collect fetches every post of a hub and then each post's comments, at
// most concurrency posts at a time. The first failure cancels the rest.
func Collect(
	ctx context.Context, backend Backend, hubID int64, concurrency int, logger *zap.Logger,
) (*exportTypes.Archive, error) {
	posts, err := backend.ListPosts(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	details := make([]*types.Post, len(posts))

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(max(concurrency, 1)).
		WithCancelOnError().
		WithFirstError()

	for i, post := range posts {
		p.Go(func(ctx context.Context) error {
			full, err := backend.GetPost(ctx, post.ID, 0)
			if err != nil {
				return fmt.Errorf("failed to fetch post %d: %w", post.ID, err)
			}

			details[i] = full
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	archive := &exportTypes.Archive{
		HubID: hubID,
		Posts: make([]*exportTypes.PostRecord, 0, len(details)),
	}

	for _, post := range details {
		archive.Posts = append(archive.Posts, &exportTypes.PostRecord{
			ID:           post.ID,
			HubID:        hubID,
			Title:        post.Title,
			PostType:     string(post.PostType),
			Author:       post.Author,
			CreatedAt:    post.CreatedAt,
			Votes:        post.Votes,
			IsAnswered:   post.IsAnswered,
			CommentCount: len(post.Comments),
			Content:      post.Content,
		})

		for _, comment := range post.Comments {
			archive.Comments = append(archive.Comments, &exportTypes.CommentRecord{
				ID:        comment.ID,
				PostID:    post.ID,
				Author:    comment.Author,
				CreatedAt: comment.CreatedAt,
				Votes:     comment.Votes,
				Content:   comment.Content,
			})
		}
	}

	logger.Debug("Collected hub archive",
		zap.Int64("hubID", hubID),
		zap.Int("posts", len(archive.Posts)),
		zap.Int("comments", len(archive.Comments)))

	return archive, nil
}

package forum

import (
	"slices"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/vote"
)

// The helpers below never modify their input post. Snapshots handed out
// earlier keep seeing the values they were created with.

func itemState(p *types.Post, key vote.Key) (vote.State, bool) {
	if !key.IsComment {
		if p.ID != key.ID {
			return vote.State{}, false
		}
		return vote.State{Votes: p.Votes, UserVote: p.UserVote}, true
	}

	idx := p.CommentIndex(key.ID)
	if idx < 0 {
		return vote.State{}, false
	}
	c := p.Comments[idx]
	return vote.State{Votes: c.Votes, UserVote: c.UserVote}, true
}

func withItemState(p *types.Post, key vote.Key, s vote.State) *types.Post {
	cp := *p

	if !key.IsComment {
		cp.Votes = s.Votes
		cp.UserVote = s.UserVote
		return &cp
	}

	idx := p.CommentIndex(key.ID)
	if idx < 0 {
		return p
	}

	cp.Comments = slices.Clone(p.Comments)
	cp.Comments[idx].Votes = s.Votes
	cp.Comments[idx].UserVote = s.UserVote
	return &cp
}

func withoutComment(p *types.Post, id int64) *types.Post {
	cp := *p
	cp.Comments = slices.DeleteFunc(slices.Clone(p.Comments), func(c types.Comment) bool {
		return c.ID == id
	})
	return &cp
}

// Package vote implements optimistic vote transitions and their exact inverses.
package vote

import (
	"errors"
	"fmt"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

var (
	ErrInvalidDirection = errors.New("vote direction must be up or down")
	ErrInFlight         = errors.New("a vote on this item is already in flight")
)

// State is the vote-relevant part of a post or comment.
type State struct {
	Votes    int64
	UserVote types.VoteType
}

// Kind names the transition a vote request caused.
//
//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake
type Kind int

const (
	KindNew Kind = iota
	KindSwitch
	KindUnvote
)

// Inverse undoes one applied transition.
type Inverse struct {
	Change   int64
	Original types.VoteType
}

// Revert restores the state that existed before the transition.
func (inv Inverse) Revert(s State) State {
	return State{
		Votes:    s.Votes - inv.Change,
		UserVote: inv.Original,
	}
}

// Result is the outcome of applying a vote request.
type Result struct {
	State   State
	Inverse Inverse
	Kind    Kind
	// Send is the vote to submit to the server. VoteNone means null.
	Send types.VoteType
}

// Apply computes the optimistic state for a vote request.
func Apply(s State, requested types.VoteType) (Result, error) {
	if !requested.Valid() {
		return Result{}, fmt.Errorf("%w: got %q", ErrInvalidDirection, requested)
	}

	var (
		change  int64
		newVote types.VoteType
		kind    Kind
	)

	switch s.UserVote {
	case requested:
		kind = KindUnvote
		newVote = types.VoteNone
		change = -unit(requested)
	case requested.Opposite():
		kind = KindSwitch
		newVote = requested
		change = 2 * unit(requested)
	default:
		kind = KindNew
		newVote = requested
		change = unit(requested)
	}

	return Result{
		State: State{
			Votes:    s.Votes + change,
			UserVote: newVote,
		},
		Inverse: Inverse{
			Change:   change,
			Original: s.UserVote,
		},
		Kind: kind,
		Send: newVote,
	}, nil
}

func unit(v types.VoteType) int64 {
	if v == types.VoteDown {
		return -1
	}
	return 1
}

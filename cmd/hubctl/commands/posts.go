package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/forum"
	"github.com/sensai-ai/hubkit/internal/vote"
	"github.com/urfave/cli/v3"
)

var ErrLoadFailed = errors.New("failed to load post")

const commentFlag = "comment"

func newCommentFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    commentFlag,
		Aliases: []string{"c"},
		Usage:   "Act on this comment of the post instead of the post itself",
	}
}

// PostCommands returns the post and poll commands.
func PostCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "post",
			Usage: "Read and act on a post",
			Commands: []*cli.Command{
				{
					Name:      "show",
					Usage:     "Show a post and its comments",
					ArgsUsage: "POST_ID",
					Action:    deps.Action(handleShowPost),
				},
				{
					Name:      "vote",
					Usage:     "Vote on a post or one of its comments",
					ArgsUsage: "POST_ID up|down",
					Description: `Voting the same direction again clears the vote.

Examples:
  hubctl post vote 12 up
  hubctl post vote 12 down --comment 40`,
					Flags:  []cli.Flag{newCommentFlag()},
					Action: deps.Action(handleVote),
				},
				{
					Name:      "comment",
					Usage:     "Reply to a post",
					ArgsUsage: "POST_ID TEXT",
					Action:    deps.Action(handleComment),
				},
				{
					Name:      "delete",
					Usage:     "Delete a post or one of its comments",
					ArgsUsage: "POST_ID",
					Flags:     []cli.Flag{newCommentFlag()},
					Action:    deps.Action(handleDelete),
				},
				{
					Name:      "answer",
					Usage:     "Accept a comment as the answer to a question",
					ArgsUsage: "POST_ID COMMENT_ID",
					Action:    deps.Action(handleAnswer),
				},
			},
		},
		{
			Name:  "poll",
			Usage: "Take part in polls",
			Commands: []*cli.Command{
				{
					Name:      "vote",
					Usage:     "Choose poll options",
					ArgsUsage: "POST_ID OPTION_ID[,OPTION_ID...]",
					Action:    deps.Action(handlePollVote),
				},
			},
		},
	}
}

// openPost loads a post into a fresh view, failing with the view's message.
func openPost(ctx context.Context, c *cli.Command, env *Env) (*forum.PostView, error) {
	postID, err := int64Arg(c, 0, "POST_ID")
	if err != nil {
		return nil, err
	}

	view := forum.NewPostView(env.App.API, env.Notifier, env.Logger)
	if snap := view.Open(ctx, postID); snap.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, view.ErrorMessage(), snap.Err)
	}

	return view, nil
}

func handleShowPost(ctx context.Context, c *cli.Command, env *Env) error {
	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	post := view.Snapshot().Data
	renderPost(env.Out, post)

	if post.PostType == types.PostPoll {
		choices, err := view.PollChoices(ctx)
		if err == nil && len(choices) > 0 {
			fmt.Fprintf(env.Out, "\nyour choices: %v\n", choices)
		}
	}

	return nil
}

func handleVote(ctx context.Context, c *cli.Command, env *Env) error {
	direction := types.VoteType(strings.ToLower(c.Args().Get(1)))
	if direction != types.VoteUp && direction != types.VoteDown {
		return fmt.Errorf("%w: direction must be up or down", ErrInvalidArg)
	}

	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	target := vote.Key{ID: view.Snapshot().Key}
	if commentID := c.Int(commentFlag); commentID != 0 {
		target = vote.Key{ID: commentID, IsComment: true}
	}

	if err := view.Vote(ctx, target, direction); err != nil {
		return err
	}

	post := view.Snapshot().Data
	if !target.IsComment {
		fmt.Fprintf(env.Out, "%s %d votes\n", voteMark(post.UserVote), post.Votes)
		return nil
	}

	for _, comment := range post.Comments {
		if comment.ID == target.ID {
			fmt.Fprintf(env.Out, "%s %d votes\n", voteMark(comment.UserVote), comment.Votes)
		}
	}

	return nil
}

func handleComment(ctx context.Context, c *cli.Command, env *Env) error {
	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	id, err := view.AddComment(ctx, strings.Join(c.Args().Slice()[1:], " "))
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Added comment %d\n", id)
	return nil
}

func handleDelete(ctx context.Context, c *cli.Command, env *Env) error {
	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	id := view.Snapshot().Key
	if commentID := c.Int(commentFlag); commentID != 0 {
		id = commentID
	}

	result, err := view.Delete(ctx, id)
	if err != nil {
		return err
	}

	if result.NavigateAway {
		fmt.Fprintf(env.Out, "Deleted post %d\n", id)
		return nil
	}

	fmt.Fprintf(env.Out, "Deleted comment %d, %d comment(s) left\n", id, len(view.Snapshot().Data.Comments))
	return nil
}

func handleAnswer(ctx context.Context, c *cli.Command, env *Env) error {
	commentID, err := int64Arg(c, 1, "COMMENT_ID")
	if err != nil {
		return err
	}

	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	if err := view.MarkAnswered(ctx, commentID); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Marked comment %d as the answer\n", commentID)
	return nil
}

func handlePollVote(ctx context.Context, c *cli.Command, env *Env) error {
	options, err := int64List(c.Args().Get(1), "OPTION_ID")
	if err != nil {
		return err
	}

	view, err := openPost(ctx, c, env)
	if err != nil {
		return err
	}

	if err := view.VotePoll(ctx, options); err != nil {
		return err
	}

	renderPost(env.Out, view.Snapshot().Data)
	return nil
}

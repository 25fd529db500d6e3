package commands

import (
	"context"
	"fmt"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/urfave/cli/v3"
)

// CommunityCommands returns the feed, reputation and follow commands.
func CommunityCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "feed",
			Usage: "Show your personalized feed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "type",
					Value: string(types.FeedRecommended),
					Usage: "recommended, following, subscribed_hubs or trending",
				},
				&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum number of posts"},
				&cli.IntFlag{Name: "offset", Usage: "Posts to skip"},
			},
			Action: deps.Action(handleFeed),
		},
		{
			Name:      "reputation",
			Usage:     "Show the reputation of a user, yourself by default",
			ArgsUsage: "[USER_ID]",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "hub", Usage: "Limit to one hub"},
			},
			Action: deps.Action(handleReputation),
		},
		{
			Name:      "follow",
			Usage:     "Follow a user",
			ArgsUsage: "USER_ID",
			Action:    deps.Action(handleFollow(true)),
		},
		{
			Name:      "unfollow",
			Usage:     "Stop following a user",
			ArgsUsage: "USER_ID",
			Action:    deps.Action(handleFollow(false)),
		},
	}
}

// requireUser returns the signed-in user or tells the viewer to log in.
func requireUser(ctx context.Context, env *Env, message string) (auth.User, error) {
	user, err := auth.Require(ctx)
	if err != nil {
		env.Notifier.Notify(notice.Notice{Kind: notice.KindLoginRequired, Message: message})
		return auth.User{}, err
	}
	return user, nil
}

func handleFeed(ctx context.Context, c *cli.Command, env *Env) error {
	user, err := requireUser(ctx, env, "Please log in to see your feed")
	if err != nil {
		return err
	}

	items, err := env.App.API.Feed(ctx, types.FeedRequest{
		UserID:   user.ID,
		FeedType: types.FeedType(c.String("type")),
		Limit:    int(c.Int("limit")),
		Offset:   int(c.Int("offset")),
	})
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	renderFeed(env.Out, items)
	return nil
}

func handleReputation(ctx context.Context, c *cli.Command, env *Env) error {
	var userID int64
	if c.Args().Len() > 0 {
		id, err := int64Arg(c, 0, "USER_ID")
		if err != nil {
			return err
		}
		userID = id
	} else {
		user, err := requireUser(ctx, env, "Please log in or pass a USER_ID")
		if err != nil {
			return err
		}
		userID = user.ID
	}

	rep, err := env.App.API.Reputation(ctx, userID, c.Int("hub"))
	if err != nil {
		return fmt.Errorf("failed to load reputation: %w", err)
	}

	renderReputation(env.Out, userID, rep)
	return nil
}

func handleFollow(follow bool) HandlerFunc {
	return func(ctx context.Context, c *cli.Command, env *Env) error {
		user, err := requireUser(ctx, env, "Please log in to follow users")
		if err != nil {
			return err
		}

		targetID, err := int64Arg(c, 0, "USER_ID")
		if err != nil {
			return err
		}

		if follow {
			if err := env.App.API.Follow(ctx, user.ID, targetID); err != nil {
				return fmt.Errorf("failed to follow user %d: %w", targetID, err)
			}
			fmt.Fprintf(env.Out, "Following user %d\n", targetID)
			return nil
		}

		if err := env.App.API.Unfollow(ctx, user.ID, targetID); err != nil {
			return fmt.Errorf("failed to unfollow user %d: %w", targetID, err)
		}
		fmt.Fprintf(env.Out, "Unfollowed user %d\n", targetID)
		return nil
	}
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/forum"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/urfave/cli/v3"
)

// HubCommands returns the hub and thread listing commands.
func HubCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "hubs",
			Usage:     "List the hubs of an organization",
			ArgsUsage: "ORG_ID",
			Action:    deps.Action(handleListHubs),
		},
		{
			Name:  "hub",
			Usage: "Manage hubs",
			Commands: []*cli.Command{
				{
					Name:      "create",
					Usage:     "Create a hub in an organization",
					ArgsUsage: "ORG_ID NAME",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    "description",
							Aliases: []string{"d"},
							Usage:   "Hub description",
						},
					},
					Action: deps.Action(handleCreateHub),
				},
				{
					Name:      "stats",
					Usage:     "Show activity statistics of a hub",
					ArgsUsage: "HUB_ID",
					Action:    deps.Action(handleHubStats),
				},
				{
					Name:      "trending",
					Usage:     "Show the most active posts of a hub",
					ArgsUsage: "HUB_ID",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "timeframe", Value: string(types.TimeframeWeek), Usage: "day, week or month"},
						&cli.IntFlag{Name: "limit", Value: 10, Usage: "Number of posts"},
					},
					Action: deps.Action(handleTrending),
				},
				{
					Name:      "subscribe",
					Usage:     "Subscribe to a hub",
					ArgsUsage: "HUB_ID",
					Action:    deps.Action(handleSubscribe(true)),
				},
				{
					Name:      "unsubscribe",
					Usage:     "Unsubscribe from a hub",
					ArgsUsage: "HUB_ID",
					Action:    deps.Action(handleSubscribe(false)),
				},
			},
		},
		{
			Name:      "posts",
			Usage:     "List the posts of a hub",
			ArgsUsage: "HUB_ID",
			Action:    deps.Action(handleListPosts),
		},
		{
			Name:  "thread",
			Usage: "Manage threads",
			Commands: []*cli.Command{
				{
					Name:      "create",
					Usage:     "Start a thread, question, note or poll",
					ArgsUsage: "HUB_ID TITLE",
					Description: `Create a top-level post in a hub.

Examples:
  hubctl thread create 3 "Welcome" --content "Say hello"
  hubctl thread create 3 "Which day?" --type poll --option Mon --option Tue --poll-days 3`,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Post body"},
						&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: string(types.PostThread), Usage: "thread, question, note or poll"},
						&cli.StringSliceFlag{Name: "option", Usage: "Poll option, repeat for each option"},
						&cli.IntFlag{Name: "poll-days", Value: 7, Usage: "Days the poll stays open"},
						&cli.BoolFlag{Name: "multiple", Usage: "Allow choosing several poll options"},
						&cli.StringFlag{Name: "category", Usage: "Post category"},
						&cli.StringSliceFlag{Name: "tag", Usage: "Tag, repeat for each tag"},
					},
					Action: deps.Action(handleCreateThread),
				},
			},
		},
	}
}

func handleListHubs(ctx context.Context, c *cli.Command, env *Env) error {
	orgID, err := int64Arg(c, 0, "ORG_ID")
	if err != nil {
		return err
	}

	hook := forum.NewHubsHook(env.App.API, env.Logger)

	snap := hook.Use(ctx, orgID)
	if snap.Err != nil {
		return fmt.Errorf("failed to load hubs: %w", snap.Err)
	}

	renderHubs(env.Out, snap.Data)
	return nil
}

func handleCreateHub(ctx context.Context, c *cli.Command, env *Env) error {
	orgID, err := int64Arg(c, 0, "ORG_ID")
	if err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(c.Args().Slice()[1:], " "))
	if name == "" {
		return fmt.Errorf("%w: NAME", ErrArgRequired)
	}

	hub, err := env.App.API.CreateHub(ctx, types.CreateHubRequest{
		OrgID:       orgID,
		Name:        name,
		Description: c.String("description"),
	})
	if err != nil {
		return fmt.Errorf("failed to create hub: %w", err)
	}

	fmt.Fprintf(env.Out, "Created hub %d (%s)\n", hub.ID, hub.Name)
	return nil
}

func handleHubStats(ctx context.Context, c *cli.Command, env *Env) error {
	hubID, err := int64Arg(c, 0, "HUB_ID")
	if err != nil {
		return err
	}

	stats, err := env.App.API.HubStats(ctx, hubID)
	if err != nil {
		return fmt.Errorf("failed to load hub stats: %w", err)
	}

	renderHubStats(env.Out, stats)
	return nil
}

func handleTrending(ctx context.Context, c *cli.Command, env *Env) error {
	hubID, err := int64Arg(c, 0, "HUB_ID")
	if err != nil {
		return err
	}

	items, err := env.App.API.Trending(ctx, hubID, types.Timeframe(c.String("timeframe")), int(c.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to load trending posts: %w", err)
	}

	renderFeed(env.Out, items)
	return nil
}

func handleSubscribe(subscribe bool) HandlerFunc {
	return func(ctx context.Context, c *cli.Command, env *Env) error {
		user, err := requireUser(ctx, env, "Please log in to manage subscriptions")
		if err != nil {
			return err
		}

		hubID, err := int64Arg(c, 0, "HUB_ID")
		if err != nil {
			return err
		}

		if subscribe {
			if err := env.App.API.Subscribe(ctx, user.ID, hubID); err != nil {
				return fmt.Errorf("failed to subscribe to hub %d: %w", hubID, err)
			}
			fmt.Fprintf(env.Out, "Subscribed to hub %d\n", hubID)
			return nil
		}

		if err := env.App.API.Unsubscribe(ctx, user.ID, hubID); err != nil {
			return fmt.Errorf("failed to unsubscribe from hub %d: %w", hubID, err)
		}
		fmt.Fprintf(env.Out, "Unsubscribed from hub %d\n", hubID)
		return nil
	}
}

func handleListPosts(ctx context.Context, c *cli.Command, env *Env) error {
	hubID, err := int64Arg(c, 0, "HUB_ID")
	if err != nil {
		return err
	}

	hook := forum.NewPostsHook(env.App.API, env.Logger)

	snap := hook.Use(ctx, hubID)
	if snap.Err != nil {
		return fmt.Errorf("failed to load posts: %w", snap.Err)
	}

	renderPostList(env.Out, snap.Data)
	return nil
}

func handleCreateThread(ctx context.Context, c *cli.Command, env *Env) error {
	if _, err := auth.Require(ctx); err != nil {
		env.Notifier.Notify(notice.Notice{Kind: notice.KindLoginRequired, Message: "Please log in to post"})
		return err
	}

	hubID, err := int64Arg(c, 0, "HUB_ID")
	if err != nil {
		return err
	}

	in := forum.ThreadInput{
		HubID:                hubID,
		Title:                strings.Join(c.Args().Slice()[1:], " "),
		Content:              c.String("content"),
		PostType:             types.PostType(c.String("type")),
		Category:             c.String("category"),
		Tags:                 c.StringSlice("tag"),
		AllowMultipleAnswers: c.Bool("multiple"),
	}

	if in.PostType == types.PostPoll {
		in.PollOptions = c.StringSlice("option")
		in.PollDurationDays = int(c.Int("poll-days"))
	}

	hook := forum.NewPostsHook(env.App.API, env.Logger)
	hook.Use(ctx, hubID)

	id, err := forum.CreateThread(ctx, env.App.API, hook, in)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	fmt.Fprintf(env.Out, "Created %s %d\n\n", in.PostType, id)
	renderPostList(env.Out, hook.Snapshot().Data)
	return nil
}

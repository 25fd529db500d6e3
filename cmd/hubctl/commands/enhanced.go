package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/urfave/cli/v3"
)

// EnhancedCommands returns search, leaderboard and moderation commands.
func EnhancedCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "search",
			Usage:     "Search posts",
			ArgsUsage: "QUERY",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "hubs", Usage: "Comma separated hub ids to search in"},
				&cli.StringSliceFlag{Name: "type", Usage: "Post type filter, repeat for each type"},
				&cli.StringSliceFlag{Name: "tag", Usage: "Tag filter, repeat for each tag"},
				&cli.StringFlag{Name: "category", Usage: "Category filter"},
				&cli.StringFlag{Name: "sort", Value: "relevance", Usage: "relevance, newest or votes"},
				&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum number of results"},
				&cli.IntFlag{Name: "offset", Usage: "Results to skip"},
			},
			Action: deps.Action(handleSearch),
		},
		{
			Name:  "leaderboard",
			Usage: "Show the top contributors",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 10, Usage: "Number of entries"},
				&cli.StringFlag{Name: "period", Value: string(types.PeriodAllTime), Usage: "all_time, month or week"},
			},
			Action: deps.Action(handleLeaderboard),
		},
		{
			Name:      "report",
			Usage:     "Report a post to the moderators",
			ArgsUsage: "POST_ID REASON",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Additional details"},
			},
			Action: deps.Action(handleReport),
		},
	}
}

func handleSearch(ctx context.Context, c *cli.Command, env *Env) error {
	req := types.SearchRequest{
		Query:    strings.Join(c.Args().Slice(), " "),
		Tags:     c.StringSlice("tag"),
		Category: c.String("category"),
		SortBy:   c.String("sort"),
		Limit:    int(c.Int("limit")),
		Offset:   int(c.Int("offset")),
	}

	if raw := c.String("hubs"); raw != "" {
		hubIDs, err := int64List(raw, "hubs")
		if err != nil {
			return err
		}
		req.HubIDs = hubIDs
	}

	for _, raw := range c.StringSlice("type") {
		postType := types.PostType(raw)
		if !postType.Valid() {
			return fmt.Errorf("%w: unknown post type %q", ErrInvalidArg, raw)
		}
		req.PostTypes = append(req.PostTypes, postType)
	}

	posts, err := env.App.API.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	renderPostList(env.Out, posts)
	return nil
}

func handleLeaderboard(ctx context.Context, c *cli.Command, env *Env) error {
	entries, err := env.App.API.Leaderboard(ctx, int(c.Int("limit")), types.TimePeriod(c.String("period")))
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	renderLeaderboard(env.Out, entries)
	return nil
}

func handleReport(ctx context.Context, c *cli.Command, env *Env) error {
	user, err := requireUser(ctx, env, "Please log in to report posts")
	if err != nil {
		return err
	}

	postID, err := int64Arg(c, 0, "POST_ID")
	if err != nil {
		return err
	}

	id, err := env.App.API.ReportPost(ctx, postID, types.ReportRequest{
		ReporterID:  user.ID,
		Reason:      strings.Join(c.Args().Slice()[1:], " "),
		Description: c.String("description"),
	})
	if err != nil {
		return fmt.Errorf("failed to report post: %w", err)
	}

	fmt.Fprintf(env.Out, "Report %d filed\n", id)
	return nil
}

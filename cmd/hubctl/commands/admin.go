package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/sensai-ai/hubkit/internal/admin"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/urfave/cli/v3"
)

// AdminCommands returns the organization dashboard commands.
func AdminCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "admin",
			Usage: "Organization administration",
			Commands: []*cli.Command{
				{
					Name:      "show",
					Usage:     "Show an organization dashboard tab",
					ArgsUsage: "ORG_ID",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    "tab",
							Aliases: []string{"t"},
							Value:   string(admin.TabCourses),
							Usage:   "courses, cohorts, members or settings (a leading # is accepted)",
						},
					},
					Action: deps.Action(handleAdminShow),
				},
				{
					Name:      "invite",
					Usage:     "Invite members by e-mail",
					ArgsUsage: "ORG_ID EMAIL...",
					Description: `E-mails may be separated by spaces, commas or semicolons.

Examples:
  hubctl admin invite 4 ada@example.com bob@example.com
  hubctl admin invite 4 "ada@example.com, bob@example.com"`,
					Action: deps.Action(handleAdminInvite),
				},
				{
					Name:      "remove",
					Usage:     "Remove members from the organization",
					ArgsUsage: "ORG_ID [MEMBER_ID[,MEMBER_ID...]]",
					Description: `Owners and yourself can never be removed.
Use --all to select every removable member instead of listing ids.`,
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "all", Usage: "Select every removable member"},
						&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
					},
					Action: deps.Action(handleAdminRemove),
				},
			},
		},
	}
}

// loadDashboard loads the organization named by the first argument.
func loadDashboard(ctx context.Context, c *cli.Command, env *Env) (*admin.DashboardView, admin.Snapshot, error) {
	orgID, err := int64Arg(c, 0, "ORG_ID")
	if err != nil {
		return nil, admin.Snapshot{}, err
	}

	view := admin.NewDashboardView(env.App.API, env.Notifier, env.Logger)

	snap := view.Load(ctx, orgID)
	if snap.Err != nil {
		return nil, snap, fmt.Errorf("failed to load organization %d: %w", orgID, snap.Err)
	}

	return view, snap, nil
}

func handleAdminShow(ctx context.Context, c *cli.Command, env *Env) error {
	_, snap, err := loadDashboard(ctx, c, env)
	if err != nil {
		return err
	}

	user, _ := auth.FromContext(ctx)
	renderDashboard(env.Out, snap.Dashboard, admin.ParseTab(c.String("tab")), user.ID)
	return nil
}

func handleAdminInvite(ctx context.Context, c *cli.Command, env *Env) error {
	view, _, err := loadDashboard(ctx, c, env)
	if err != nil {
		return err
	}

	invited, err := view.Invite(ctx, c.Args().Slice()[1:]...)
	if err != nil {
		return err
	}

	for _, email := range invited {
		fmt.Fprintf(env.Out, "  %s\n", email)
	}
	return nil
}

func handleAdminRemove(ctx context.Context, c *cli.Command, env *Env) error {
	view, _, err := loadDashboard(ctx, c, env)
	if err != nil {
		return err
	}

	var ids []int64

	if c.Bool("all") {
		if err := view.SelectAll(ctx); err != nil {
			return err
		}
	} else {
		ids, err = int64List(c.Args().Get(1), "MEMBER_ID")
		if err != nil {
			return err
		}
	}

	pending, err := view.RequestRemoval(ctx, ids...)
	if err != nil {
		return err
	}

	if !c.Bool("yes") && !confirm(env, fmt.Sprintf("Remove %d member(s) %v?", len(pending), pending)) {
		view.CancelRemoval()
		fmt.Fprintln(env.Out, "Cancelled")
		return nil
	}

	if err := view.ConfirmRemoval(ctx); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Removed %d member(s), %d remaining\n", len(pending), len(view.Snapshot().Dashboard.Members))
	return nil
}

// confirm asks a yes/no question on the input reader.
func confirm(env *Env, question string) bool {
	fmt.Fprintf(env.Out, "%s [y/N] ", question)

	reader := bufio.NewReader(env.In)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

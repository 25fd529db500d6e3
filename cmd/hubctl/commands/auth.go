package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/urfave/cli/v3"
)

// AuthCommands returns the session commands.
func AuthCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "login",
			Usage:     "Store a session from a provider-issued token",
			ArgsUsage: "TOKEN",
			Action:    deps.Action(handleLogin),
		},
		{
			Name:   "logout",
			Usage:  "Forget the stored session",
			Action: deps.Action(handleLogout),
		},
		{
			Name:   "whoami",
			Usage:  "Show the signed in user",
			Action: deps.Action(handleWhoami),
		},
	}
}

func handleLogin(ctx context.Context, c *cli.Command, env *Env) error {
	token := strings.TrimSpace(c.Args().First())
	if token == "" {
		return fmt.Errorf("%w: TOKEN", ErrArgRequired)
	}

	sess, err := env.App.Sessions.Login(ctx, env.Profile, token, []byte(env.App.Config.Session.JWTSecret), time.Now())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(env.Out, "Logged in as %s (user %d) until %s\n",
		sess.Email, sess.UserID, sess.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func handleLogout(ctx context.Context, _ *cli.Command, env *Env) error {
	if err := env.App.Sessions.Delete(ctx, env.Profile); err != nil {
		return err
	}

	fmt.Fprintln(env.Out, "Logged out")
	return nil
}

func handleWhoami(ctx context.Context, _ *cli.Command, env *Env) error {
	user, ok := auth.FromContext(ctx)
	if !ok {
		fmt.Fprintf(env.Out, "Not logged in (profile %q)\n", env.Profile)
		return nil
	}

	fmt.Fprintf(env.Out, "%s (user %d, profile %q)\n", user.Email, user.ID, env.Profile)
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/sensai-ai/hubkit/internal/session"
	"github.com/sensai-ai/hubkit/internal/setup"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrArgRequired = errors.New("missing argument")
	ErrInvalidArg  = errors.New("invalid argument")
)

// CLIDependencies holds what every command shares before the app exists.
type CLIDependencies struct {
	LogDir string
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// Env is handed to a command once the app has been initialized.
type Env struct {
	App      *setup.App
	Logger   *zap.Logger
	Notifier notice.Notifier
	In       io.Reader
	Out      io.Writer
	Profile  string
}

// HandlerFunc is a command body that runs with an initialized app.
type HandlerFunc func(ctx context.Context, c *cli.Command, env *Env) error

// ProfileFlag selects which stored session a command acts as.
var ProfileFlag = &cli.StringFlag{
	Name:    "profile",
	Aliases: []string{"p"},
	Usage:   "Session profile to use (defaults to session.profile from config)",
}

// Action initializes the app, restores the stored session into the context
// and runs fn. A missing session leaves the context anonymous.
func (d *CLIDependencies) Action(fn HandlerFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		app, err := setup.InitializeApp(ctx, d.LogDir)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup(ctx)

		profile := c.String(ProfileFlag.Name)
		if profile == "" {
			profile = app.Config.Session.Profile
		}

		sess, err := app.Sessions.Load(ctx, profile)
		switch {
		case err == nil:
			ctx = auth.WithUser(ctx, sess.User())
		case errors.Is(err, session.ErrNoSession):
			app.Logger.Debug("No stored session", zap.String("profile", profile))
		default:
			app.Logger.Warn("Failed to load session, continuing anonymously",
				zap.String("profile", profile),
				zap.Error(err))
		}

		env := &Env{
			App:      app,
			Logger:   app.Logger,
			Notifier: notice.NewWriter(d.Err, app.Logger),
			In:       d.In,
			Out:      d.Out,
			Profile:  profile,
		}

		return fn(ctx, c, env)
	}
}

// int64Arg parses the positional argument at index.
func int64Arg(c *cli.Command, index int, name string) (int64, error) {
	raw := strings.TrimSpace(c.Args().Get(index))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", ErrArgRequired, name)
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidArg, name, raw)
	}

	return value, nil
}

// int64List parses a comma separated list of ids.
func int64List(raw, name string) ([]int64, error) {
	var ids []int64

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be numbers, got %q", ErrInvalidArg, name, part)
		}

		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrArgRequired, name)
	}

	return ids, nil
}

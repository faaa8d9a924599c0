package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/paydeck/console/internal/logger"
	"github.com/paydeck/console/internal/session"
)

// printNavigator reports where the engine would navigate the caller.
var printNavigator = session.NavigatorFunc(func(path string) {
	fmt.Fprintf(os.Stdout, "-> %s\n", path)
})

type LoginCmd struct {
	Identifier string `arg:"" help:"Account identifier (email)"`
	Password   string `help:"Account secret; prompted when omitted" env:"CONSOLE_PASSWORD"`
	Remember   bool   `help:"Keep the session for 30 days"`

	StateFlags `embed:""`
}

func (c *LoginCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	zlog.Logger = log
	ctx := context.Background()

	password := c.Password
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	eng, err := c.buildEngine(printNavigator, 0)
	if err != nil {
		return err
	}

	// Pick up any session persisted by another process before attempting
	// the login, a second login simply proceeds as a new attempt.
	eng.poller.Reconcile(ctx)

	if !eng.controller.Login(ctx, c.Identifier, password, c.Remember) {
		return errors.New("login failed: invalid credentials")
	}

	return printSnapshot(eng)
}

type LogoutCmd struct {
	StateFlags `embed:""`
}

func (c *LogoutCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	zlog.Logger = log
	ctx := context.Background()

	eng, err := c.buildEngine(printNavigator, 0)
	if err != nil {
		return err
	}

	eng.poller.Reconcile(ctx)
	eng.controller.Logout(ctx)

	return nil
}

type StatusCmd struct {
	StateFlags `embed:""`
}

func (c *StatusCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	zlog.Logger = log
	ctx := context.Background()

	eng, err := c.buildEngine(nil, 0)
	if err != nil {
		return err
	}

	eng.poller.Reconcile(ctx)

	return printSnapshot(eng)
}

func printSnapshot(eng *engine) error {
	out, err := json.MarshalIndent(eng.controller.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

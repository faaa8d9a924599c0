package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/paydeck/console/cmd/console/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Gateway commands.GatewayCmd `cmd:"" help:"Run the console gateway"`
		Login   commands.LoginCmd   `cmd:"" help:"Log in to the merchant console"`
		Logout  commands.LogoutCmd  `cmd:"" help:"Log out of the merchant console"`
		Status  commands.StatusCmd  `cmd:"" help:"Show the current session"`
		Debug   bool                `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}

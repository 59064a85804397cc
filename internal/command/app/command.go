// Package app 组装 envaz 根命令。
package app

import (
	"context"

	"github.com/lwmacct/251207-go-pkg-version/pkg/version"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/command"
	"github.com/lwmacct/261018-go-pkg-envaz/internal/command/check"
	"github.com/lwmacct/261018-go-pkg-envaz/internal/command/export"
	"github.com/lwmacct/261018-go-pkg-envaz/internal/command/render"
	"github.com/lwmacct/261018-go-pkg-envaz/internal/command/run"
)

// Command 根命令
var Command = &cli.Command{
	Name:  command.AppName,
	Usage: "合并 .env、Azure App Configuration 与 Key Vault 中的变量",
	Flags: command.Flags(),
	Commands: []*cli.Command{
		run.Command,
		export.Command,
		check.Command,
		render.Command,
		version.Command,
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	return cli.ShowAppHelp(cmd)
}

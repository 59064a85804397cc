// Package run 提供加载变量后执行子进程的命令。
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/command"
)

// Command run 命令
var Command = &cli.Command{
	Name:      "run",
	Usage:     "加载 .env 与 Azure 变量到环境中，然后执行命令",
	ArgsUsage: "-- COMMAND [ARGS...]",
	Action:    action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errors.New("missing command to run")
	}

	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	loadCtx, cancel := command.AzureContext(ctx, cfg)
	out, err := command.NewClient(cfg).Config(loadCtx, cfg.ConfigOptions())
	cancel()
	if err != nil {
		return err
	}
	slog.Debug("Environment prepared", "vars", len(out.Parsed), "command", args[0])

	code, err := Exec(ctx, args, Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil {
		return err
	}
	if code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// Stdio 子进程的标准输入输出
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Exec 使用当前进程环境执行 args，返回子进程退出码。
//
// 子进程启动失败时返回错误；非零退出码不视为错误。
func Exec(ctx context.Context, args []string, stdio Stdio) (int, error) {
	child := exec.CommandContext(ctx, args[0], args[1:]...)
	child.Stdin = stdio.In
	child.Stdout = stdio.Out
	child.Stderr = stdio.Err

	err := child.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", args[0], err)
	}
	return 0, nil
}

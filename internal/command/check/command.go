// Package check 提供校验示例文件中声明的变量是否齐全的命令。
package check

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/command"
	"github.com/lwmacct/261018-go-pkg-envaz/pkg/envaz"
)

// Command check 命令
var Command = &cli.Command{
	Name:   "check",
	Usage:  "加载变量并校验 .env.example 中声明的变量均已设置",
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	opts := cfg.ConfigOptions()
	opts.Safe = true

	loadCtx, cancel := command.AzureContext(ctx, cfg)
	defer cancel()

	out, err := command.NewClient(cfg).Config(loadCtx, opts)
	if report(cmd.Root().Writer, opts.Example, out, err) {
		return cli.Exit("", 1)
	}
	return err
}

// report 输出校验结果，返回是否存在缺失变量。
func report(w io.Writer, example string, out *envaz.Output, err error) bool {
	var missing *envaz.MissingEnvVarsError
	if errors.As(err, &missing) {
		_, _ = fmt.Fprintf(w, "%d variable(s) declared in %s are not set:\n", len(missing.Missing), example)
		for _, name := range missing.Missing {
			_, _ = fmt.Fprintf(w, "  - %s\n", name)
		}
		return true
	}
	if err == nil {
		_, _ = fmt.Fprintf(w, "ok: %d variables loaded, all variables declared in %s are set\n", len(out.Parsed), example)
	}
	return false
}

// Package render 提供使用合并后的变量渲染模板文件的命令。
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/command"
	"github.com/lwmacct/261018-go-pkg-envaz/pkg/tmpl"
)

// Command render 命令
var Command = &cli.Command{
	Name:      "render",
	Usage:     "加载变量后渲染模板文件，语法见 pkg/tmpl",
	ArgsUsage: "TEMPLATE",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "输出文件路径，默认输出到 stdout",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("missing template file")
	}

	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	loadCtx, cancel := command.AzureContext(ctx, cfg)
	defer cancel()

	if _, err := command.NewClient(cfg).Config(loadCtx, cfg.ConfigOptions()); err != nil {
		return err
	}

	out, err := File(cmd.Args().First(), tmpl.Environ())
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		return os.WriteFile(path, []byte(out), 0600)
	}
	_, err = fmt.Fprint(cmd.Root().Writer, out)
	return err
}

// File 使用 vars 渲染模板文件
func File(path string, vars map[string]string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	out, err := tmpl.Expand(filepath.Base(path), string(data), vars)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return out, nil
}

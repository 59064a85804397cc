// Package export 提供输出合并后变量的命令。
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/command"
	"github.com/lwmacct/261018-go-pkg-envaz/pkg/envaz"
)

// 支持的输出格式
const (
	FormatDotenv = "dotenv"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Command export 命令
var Command = &cli.Command{
	Name:  "export",
	Usage: "输出合并后的变量，不修改当前环境",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   FormatDotenv,
			Usage:   "输出格式: dotenv, json, yaml",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	loadCtx, cancel := command.AzureContext(ctx, cfg)
	defer cancel()

	vars, err := load(loadCtx, command.NewClient(cfg), cfg.Dotenv.Path)
	if err != nil {
		return err
	}

	data, err := Format(vars, cmd.String("format"))
	if err != nil {
		return err
	}

	_, err = cmd.Root().Writer.Write(data)
	return err
}

// load 本地文件存在时使用 Parse，否则仅加载 Azure 变量。
func load(ctx context.Context, client *envaz.Client, path string) (envaz.Variables, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return client.LoadFromAzure(ctx, nil)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return client.Parse(ctx, f)
}

// Format 按 format 序列化变量，dotenv 格式与 godotenv 兼容。
func Format(vars envaz.Variables, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatDotenv:
		out, err := envaz.FormatDotenv(vars)
		if err != nil {
			return nil, err
		}
		if out == "" {
			return nil, nil
		}
		return []byte(out + "\n"), nil
	case FormatJSON:
		data, err := json.Parser().Marshal(toMap(vars))
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Parser().Marshal(toMap(vars))
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func toMap(vars envaz.Variables) map[string]any {
	m := make(map[string]any, len(vars))
	for k, v := range vars {
		m[k] = v
	}
	return m
}

// Package command 提供 envaz 子命令共用的 flags 与配置加载。
package command

import (
	"context"
	"log/slog"

	"github.com/lwmacct/251207-go-pkg-version/pkg/version"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/internal/config"
	"github.com/lwmacct/261018-go-pkg-envaz/pkg/envaz"
)

// AppName 未通过构建注入应用名时使用的名称
const AppName = "envaz"

// Defaults 默认配置 - 单一来源 (Single Source of Truth)
var Defaults = config.DefaultConfig()

// Flags 返回配置相关的 flags，flag 名称与 koanf key 一一对应。
//
// 定义在根命令上，子命令通过继承读取。
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径，默认按 envaz.yaml, config/envaz.yaml, ~/.envaz.yaml, /etc/envaz/config.yaml 搜索",
		},
		&cli.StringFlag{
			Name:    "dotenv-path",
			Aliases: []string{"p"},
			Value:   Defaults.Dotenv.Path,
			Usage:   ".env 文件路径",
		},
		&cli.StringFlag{
			Name:  "dotenv-example",
			Value: Defaults.Dotenv.Example,
			Usage: "示例文件路径",
		},
		&cli.BoolFlag{
			Name:  "dotenv-safe",
			Value: Defaults.Dotenv.Safe,
			Usage: "加载后校验示例文件中声明的变量",
		},
		&cli.BoolFlag{
			Name:  "dotenv-allow-empty-values",
			Value: Defaults.Dotenv.AllowEmptyValues,
			Usage: "校验时允许变量值为空",
		},
		&cli.BoolFlag{
			Name:  "dotenv-override",
			Value: Defaults.Dotenv.Override,
			Usage: ".env 中的变量覆盖已存在的环境变量",
		},
		&cli.StringFlag{
			Name:  "azure-connection-string",
			Usage: "App Configuration 连接字符串",
		},
		&cli.StringFlag{
			Name:  "azure-url",
			Usage: "App Configuration endpoint",
		},
		&cli.StringFlag{
			Name:  "azure-tenant-id",
			Usage: "service principal tenant ID",
		},
		&cli.StringFlag{
			Name:  "azure-client-id",
			Usage: "service principal client ID",
		},
		&cli.StringFlag{
			Name:  "azure-client-secret",
			Usage: "service principal client secret",
		},
		&cli.StringFlag{
			Name:    "azure-labels",
			Aliases: []string{"l"},
			Usage:   "label 过滤条件，多个以逗号分隔",
		},
		&cli.Float64Flag{
			Name:  "azure-rate-limit",
			Value: Defaults.Azure.RateLimit,
			Usage: "Key Vault 每秒请求上限，<= 0 不限速",
		},
		&cli.DurationFlag{
			Name:  "azure-timeout",
			Value: Defaults.Azure.Timeout,
			Usage: "加载 Azure 配置的超时时间，0 表示不限制",
		},
	}
}

// LoadConfig 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
func LoadConfig(cmd *cli.Command) (*config.Config, error) {
	paths := config.DefaultPaths(appName())
	if path := cmd.String("config"); path != "" {
		paths = []string{path}
	}

	return config.Load(
		config.WithCommand(cmd),
		config.WithConfigPaths(paths...),
		config.WithEnvPrefix(config.EnvPrefix),
	)
}

// NewClient 根据配置创建 [envaz.Client]，opts 追加在配置生成的选项之后。
func NewClient(cfg *config.Config, opts ...envaz.Option) *envaz.Client {
	all := append(cfg.ClientOptions(), envaz.WithLogger(slog.Default()))
	return envaz.New(append(all, opts...)...)
}

// AzureContext 为加载 Azure 配置设置超时
func AzureContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Azure.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Azure.Timeout)
}

func appName() string {
	if name := version.GetAppRawName(); name != "" {
		return name
	}
	return AppName
}

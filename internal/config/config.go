// Package config 提供 envaz 命令行工具自身的配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 通过 WithConfigPaths 选项设置，支持模板语法
//  3. 环境变量 - 通过 WithEnvPrefix 选项启用，每个配置项自动绑定
//  4. CLI flags - 通过 WithCommand 选项设置
package config

import (
	"time"

	"github.com/lwmacct/261018-go-pkg-envaz/pkg/envaz"
)

// Config 应用配置
type Config struct {
	Dotenv DotenvConfig `koanf:"dotenv" desc:"本地 .env 文件"`
	Azure  AzureConfig  `koanf:"azure" desc:"Azure App Configuration 与 Key Vault"`
}

// DotenvConfig 本地文件配置
type DotenvConfig struct {
	Path             string `koanf:"path" desc:".env 文件路径"`
	Example          string `koanf:"example" desc:"示例文件路径，safe 模式下用于校验"`
	Safe             bool   `koanf:"safe" desc:"加载后校验示例文件中声明的变量"`
	AllowEmptyValues bool   `koanf:"allow_empty_values" desc:"校验时允许变量值为空"`
	Override         bool   `koanf:"override" desc:".env 中的变量覆盖已存在的环境变量"`
}

// AzureConfig Azure 连接配置
//
// 留空的认证字段回退到 AZURE_* 环境变量与 .env 文件。
type AzureConfig struct {
	ConnectionString string        `koanf:"connection_string" desc:"App Configuration 连接字符串"`
	URL              string        `koanf:"url" desc:"App Configuration endpoint"`
	TenantID         string        `koanf:"tenant_id" desc:"service principal tenant ID"`
	ClientID         string        `koanf:"client_id" desc:"service principal client ID"`
	ClientSecret     string        `koanf:"client_secret" desc:"service principal client secret"`
	Labels           string        `koanf:"labels" desc:"label 过滤条件，多个以逗号分隔"`
	RateLimit        float64       `koanf:"rate_limit" desc:"Key Vault 每秒请求上限，<= 0 不限速"`
	Timeout          time.Duration `koanf:"timeout" desc:"加载 Azure 配置的超时时间，0 表示不限制"`
}

// DefaultConfig 返回默认配置
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Dotenv: DotenvConfig{
			Path:    envaz.DefaultDotenvPath,
			Example: envaz.DefaultExamplePath,
		},
		Azure: AzureConfig{
			RateLimit: envaz.DefaultRateLimit,
			Timeout:   time.Minute,
		},
	}
}

// ConfigOptions 转换为 [envaz.Client.Config] 的参数。
func (c *Config) ConfigOptions() envaz.ConfigOptions {
	return envaz.ConfigOptions{
		Path:             c.Dotenv.Path,
		Example:          c.Dotenv.Example,
		Safe:             c.Dotenv.Safe,
		AllowEmptyValues: c.Dotenv.AllowEmptyValues,
		Override:         c.Dotenv.Override,
	}
}

// ClientOptions 转换为 [envaz.New] 的选项，空字段不生成选项。
func (c *Config) ClientOptions() []envaz.Option {
	opts := []envaz.Option{envaz.WithRateLimit(c.Azure.RateLimit)}

	set := func(value string, opt func(string) envaz.Option) {
		if value != "" {
			opts = append(opts, opt(value))
		}
	}
	set(c.Azure.ConnectionString, envaz.WithConnectionString)
	set(c.Azure.URL, envaz.WithURL)
	set(c.Azure.TenantID, envaz.WithTenantID)
	set(c.Azure.ClientID, envaz.WithClientID)
	set(c.Azure.ClientSecret, envaz.WithClientSecret)
	set(c.Azure.Labels, envaz.WithLabels)

	return opts
}

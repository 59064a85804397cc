package envaz

import "log/slog"

// Option 配置 [Client]。
type Option func(*Client)

// WithConnectionString 设置 App Configuration 连接字符串，优先于环境变量。
func WithConnectionString(cs string) Option {
	return func(c *Client) { c.explicit.ConnectionString = cs }
}

// WithURL 设置 App Configuration endpoint，未设置连接字符串时使用 Azure 凭据认证。
func WithURL(url string) Option {
	return func(c *Client) { c.explicit.URL = url }
}

// WithTenantID 设置 service principal 的 tenant ID。
func WithTenantID(id string) Option {
	return func(c *Client) { c.explicit.TenantID = id }
}

// WithClientID 设置 service principal 的 client ID。
func WithClientID(id string) Option {
	return func(c *Client) { c.explicit.ClientID = id }
}

// WithClientSecret 设置 service principal 的 client secret。
func WithClientSecret(secret string) Option {
	return func(c *Client) { c.explicit.ClientSecret = secret }
}

// WithLabels 设置 label 过滤条件，多个 label 以逗号分隔。
func WithLabels(labels string) Option {
	return func(c *Client) { c.explicit.Labels = labels }
}

// WithRateLimit 设置 Key Vault 每秒请求上限，<= 0 表示不限速。
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) { c.rateLimit = requestsPerSecond }
}

// WithEnviron 替换环境变量写入目标，默认为 [OSEnviron]。
func WithEnviron(env Environ) Option {
	return func(c *Client) {
		if env != nil {
			c.env = env
		}
	}
}

// WithLogger 设置日志记录器，默认为 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithListerFactory 替换 App Configuration 客户端的创建方式。
func WithListerFactory(f ListerFactory) Option {
	return func(c *Client) { c.listerFactory = f }
}

// WithVaultFactory 替换 Key Vault 客户端的创建方式。
func WithVaultFactory(f VaultFactory) Option {
	return func(c *Client) { c.vaultFactory = f }
}

// ConfigOptions [Client.Config] 的参数，零值使用默认路径。
type ConfigOptions struct {
	// 本地 .env 文件路径，默认 .env
	Path string
	// 示例文件路径，默认 .env.example
	Example string
	// 加载后根据示例文件校验环境变量
	Safe bool
	// 校验时允许变量值为空
	AllowEmptyValues bool
	// 本地文件变量覆盖已存在的环境变量
	Override bool
}

func (o ConfigOptions) withDefaults() ConfigOptions {
	if o.Path == "" {
		o.Path = DefaultDotenvPath
	}
	if o.Example == "" {
		o.Example = DefaultExamplePath
	}
	return o
}

func (o ConfigOptions) manifest() ManifestOptions {
	return ManifestOptions{
		Path:             o.Path,
		Example:          o.Example,
		AllowEmptyValues: o.AllowEmptyValues,
	}
}

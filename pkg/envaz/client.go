package envaz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// Client 合并本地 .env 文件与 Azure App Configuration / Key Vault 中的变量。
//
// Client 可复用。每次调用都重新解析认证信息；Azure 凭据与 Key Vault 客户端按
// tenant/client/secret 缓存，认证信息变化时使用新的凭据。所有 Key Vault 请求共享同一个限速器。
type Client struct {
	explicit      remoteConfig
	rateLimit     float64
	env           Environ
	logger        *slog.Logger
	listerFactory ListerFactory
	vaultFactory  VaultFactory

	limiter *rate.Limiter

	mu          sync.Mutex
	credentials map[Credentials]tokenCredentialFunc
	resolvers   map[Credentials]*Resolver
}

// New 创建 Client。
func New(opts ...Option) *Client {
	c := &Client{
		rateLimit: DefaultRateLimit,
		env:       OSEnviron{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limiter = newLimiter(c.rateLimit)
	c.credentials = make(map[Credentials]tokenCredentialFunc)
	c.resolvers = make(map[Credentials]*Resolver)
	return c
}

// Config 加载本地文件与 Azure 变量并写入环境。
//
// 流程：
//  1. 读取本地文件 (失败不中断，错误保存在 Output.Dotenv.Err)，变量写入环境
//  2. 从 Azure 拉取变量，只写入环境中尚不存在的变量
//  3. Safe 为 true 时根据示例文件校验
//
// 返回的 Output.Parsed 为 Azure 变量被本地文件覆盖的结果，不包含进程环境中的预设值。
func (c *Client) Config(ctx context.Context, opts ConfigOptions) (*Output, error) {
	opts = opts.withDefaults()

	dotenvOut := DotenvOutput{}
	dotenvVars, err := ReadDotenv(opts.Path)
	if err != nil {
		c.logger.Debug("Local dotenv file not loaded", "path", opts.Path, "error", err)
		dotenvOut.Err = err
	} else {
		dotenvOut.Parsed = dotenvVars
		n, err := Populate(c.env, dotenvVars, opts.Override)
		if err != nil {
			return nil, fmt.Errorf("envaz: apply %s: %w", opts.Path, err)
		}
		c.logger.Debug("Loaded dotenv file", "path", opts.Path, "vars", len(dotenvVars), "applied", n)
	}

	azureVars, err := c.LoadFromAzure(ctx, dotenvVars)
	if err != nil {
		return nil, err
	}

	n, err := Populate(c.env, azureVars, false)
	if err != nil {
		return nil, fmt.Errorf("envaz: apply azure variables: %w", err)
	}
	c.logger.Debug("Applied azure variables", "vars", len(azureVars), "applied", n)

	if opts.Safe {
		if err := ValidateManifest(c.env, opts.manifest(), dotenvOut.Err); err != nil {
			return nil, err
		}
	}

	return &Output{
		Dotenv: dotenvOut,
		Azure:  azureVars,
		Parsed: Merge(dotenvVars, azureVars),
	}, nil
}

// Parse 解析 .env 格式的 src 并与 Azure 变量合并，不修改环境。
func (c *Client) Parse(ctx context.Context, src io.Reader) (Variables, error) {
	dotenvVars, err := ParseDotenv(src)
	if err != nil {
		return nil, err
	}
	azureVars, err := c.LoadFromAzure(ctx, dotenvVars)
	if err != nil {
		return nil, err
	}
	return Merge(dotenvVars, azureVars), nil
}

// LoadFromAzure 从 App Configuration 拉取变量并解析 Key Vault 引用，不修改环境。
//
// seed 为本地文件变量，作为认证信息的最低优先级来源，可为 nil。
func (c *Client) LoadFromAzure(ctx context.Context, seed Variables) (Variables, error) {
	cfg, err := newRemoteConfigBuilder(c.explicit).
		withVariables(c.env.Environ()).
		withVariables(seed).
		build()
	if err != nil {
		return nil, err
	}

	lister, err := c.newLister(cfg.Credentials)
	if err != nil {
		return nil, err
	}
	remote, err := listRemote(ctx, lister, cfg.Labels)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Listed app configuration settings",
		"plain", len(remote.AppConfigVars), "references", len(remote.KeyVaultReferences), "labels", cfg.Labels)

	secrets, err := c.secretResolver(cfg.Credentials).Resolve(ctx, remote.KeyVaultReferences)
	if err != nil {
		return nil, err
	}
	return combineRemote(remote.AppConfigVars, secrets), nil
}

func (c *Client) newLister(creds Credentials) (SettingsLister, error) {
	if c.listerFactory != nil {
		return c.listerFactory(creds)
	}
	return newAppConfigLister(creds, c.tokenCredential(creds))
}

// identity 返回决定 Azure 凭据的字段，endpoint 不影响凭据。
func identity(creds Credentials) Credentials {
	return Credentials{
		TenantID:     creds.TenantID,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	}
}

// tokenCredential 每个身份只创建一次凭据。
func (c *Client) tokenCredential(creds Credentials) tokenCredentialFunc {
	key := identity(creds)

	c.mu.Lock()
	defer c.mu.Unlock()
	cred, ok := c.credentials[key]
	if !ok {
		cred = newTokenCredential(key)
		c.credentials[key] = cred
	}
	return cred
}

// secretResolver 每个身份一个 Resolver，各自缓存 vault 客户端。
func (c *Client) secretResolver(creds Credentials) *Resolver {
	key := identity(creds)

	c.mu.Lock()
	r, ok := c.resolvers[key]
	c.mu.Unlock()
	if ok {
		return r
	}

	factory := c.vaultFactory
	if factory == nil {
		factory = newKeyVaultFactory(c.tokenCredential(key))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.resolvers[key]; ok {
		return r
	}
	r = newResolver(factory, c.limiter, c.logger)
	c.resolvers[key] = r
	return r
}

package envaz

import "maps"

// 本库读取的环境变量。
const (
	EnvConnectionString = "AZURE_APP_CONFIG_CONNECTION_STRING"
	EnvURL              = "AZURE_APP_CONFIG_URL"
	EnvTenantID         = "AZURE_TENANT_ID"
	EnvClientID         = "AZURE_CLIENT_ID"
	EnvClientSecret     = "AZURE_CLIENT_SECRET"
	EnvLabels           = "AZURE_APP_CONFIG_LABELS"
)

const (
	// KeyVaultReferenceContentType App Configuration 中 Key Vault 引用的 content type。
	KeyVaultReferenceContentType = "application/vnd.microsoft.appconfig.keyvaultref+json;charset=utf-8"

	// DefaultRateLimit Key Vault 请求速率上限 (次/秒)。
	DefaultRateLimit = 45.0

	DefaultDotenvPath  = ".env"
	DefaultExamplePath = ".env.example"
)

// Variables 变量名到值的映射，键区分大小写。
type Variables map[string]string

// Clone 返回浅拷贝，nil 返回空 map。
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	maps.Copy(out, v)
	return out
}

// Credentials App Configuration 与 Key Vault 的认证信息。
//
// 来源优先级：显式选项 > 环境变量 > 本地 .env 文件。
type Credentials struct {
	ConnectionString string `env:"AZURE_APP_CONFIG_CONNECTION_STRING"`
	URL              string `env:"AZURE_APP_CONFIG_URL"`
	TenantID         string `env:"AZURE_TENANT_ID"`
	ClientID         string `env:"AZURE_CLIENT_ID"`
	ClientSecret     string `env:"AZURE_CLIENT_SECRET"`
}

// HasClientSecret 报告 service principal 三个字段是否齐全。
func (c Credentials) HasClientSecret() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// hasEndpoint 报告是否能连接 App Configuration。
func (c Credentials) hasEndpoint() bool {
	return c.ConnectionString != "" || c.URL != ""
}

// Setting App Configuration 中的一条配置。
type Setting struct {
	Key         string
	Value       string
	ContentType string
	Label       string
	IsReadOnly  bool
}

// KeyVaultReference 从 Key Vault 引用中解析出的定位信息。
//
// SecretVersion 为空时读取最新版本。
type KeyVaultReference struct {
	VaultOrigin   string
	SecretName    string
	SecretVersion string
}

// DotenvOutput 本地文件加载结果；文件缺失或解析失败时 Err 非空、Parsed 为 nil。
type DotenvOutput struct {
	Parsed Variables
	Err    error
}

// Output Config 的返回值。
type Output struct {
	Dotenv DotenvOutput
	// Azure App Configuration 普通配置与 Key Vault secret 合并后的结果
	Azure Variables
	// Azure 变量被本地文件变量覆盖后的结果，不受进程环境影响
	Parsed Variables
}

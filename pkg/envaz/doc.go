// Package envaz 合并本地 .env 文件、Azure App Configuration 与 Azure Key Vault 中的变量。
//
// # 变量优先级
//
// [Client.Config] 返回的 Parsed (从低到高)：
//  1. Azure App Configuration 普通配置
//  2. Azure Key Vault secret (通过 App Configuration 中的 Key Vault 引用)
//  3. 本地 .env 文件
//
// 写入进程环境时，已存在的环境变量始终保留，因此进程环境中预设的值
// 对运行中的程序优先级最高，但不会出现在 Parsed 中。
//
// # 快速开始
//
//	client := envaz.New()
//	out, err := client.Config(ctx, envaz.ConfigOptions{Safe: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.Parsed["DATABASE_URL"])
//
// # 认证
//
// 认证信息来源 (从高到低)：选项 ([WithConnectionString] 等) → 环境变量 → 本地 .env 文件。
//
// 读取的环境变量：
//   - AZURE_APP_CONFIG_CONNECTION_STRING - App Configuration 连接字符串
//   - AZURE_APP_CONFIG_URL - App Configuration endpoint，使用 Azure 凭据认证
//   - AZURE_TENANT_ID / AZURE_CLIENT_ID / AZURE_CLIENT_SECRET - service principal
//   - AZURE_APP_CONFIG_LABELS - label 过滤条件
//
// 连接字符串与 URL 均未设置时返回 [ErrMissingCredentials]，不会发起任何请求。
// Key Vault 使用 service principal (三个字段齐全时) 或 DefaultAzureCredential。
//
// # Key Vault 引用
//
// content type 为 [KeyVaultReferenceContentType] 的配置视为 Key Vault 引用，值的格式：
//
//	{"uri": "https://<vault>.vault.azure.net/secrets/<name>[/<version>]"}
//
// 省略 version 时读取最新版本。所有引用并发解析，共享一个限速器
// (默认 [DefaultRateLimit] 次/秒，见 [WithRateLimit])。
//
// # 示例文件校验
//
// ConfigOptions.Safe 为 true 时，检查 .env.example 中声明的每个变量都存在于环境中，
// 缺失时返回 [MissingEnvVarsError]。
//
// # 测试
//
// 使用 [WithEnviron] 注入 [MapEnviron]，可以在不修改进程环境的情况下测试；
// [WithListerFactory] 与 [WithVaultFactory] 用于替换 Azure 客户端。
package envaz

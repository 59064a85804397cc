package envaz

import (
	"context"
	"fmt"
	"iter"
)

// SettingsLister 列出 App Configuration 中的配置。
//
// 返回的序列按页顺序惰性拉取，只能遍历一次；每次调用都会重新请求服务端。
// labelFilter 为空表示不过滤 label。
type SettingsLister interface {
	ListSettings(ctx context.Context, labelFilter string) iter.Seq2[Setting, error]
}

// ListerFactory 根据认证信息创建 [SettingsLister]。
type ListerFactory func(creds Credentials) (SettingsLister, error)

// remoteSettings 分类后的远程配置。
type remoteSettings struct {
	AppConfigVars      Variables
	KeyVaultReferences map[string]KeyVaultReference
}

// listRemote 拉取全部配置并分为普通配置与 Key Vault 引用。
//
// 重复的 key 以最后一次出现为准，即使前后两次分属不同类别。
func listRemote(ctx context.Context, lister SettingsLister, labelFilter string) (remoteSettings, error) {
	out := remoteSettings{
		AppConfigVars:      make(Variables),
		KeyVaultReferences: make(map[string]KeyVaultReference),
	}
	for setting, err := range lister.ListSettings(ctx, labelFilter) {
		if err != nil {
			return remoteSettings{}, fmt.Errorf("list app configuration settings: %w", err)
		}
		classified, err := Classify(setting)
		if err != nil {
			return remoteSettings{}, err
		}
		switch s := classified.(type) {
		case PlainSetting:
			delete(out.KeyVaultReferences, s.Key)
			out.AppConfigVars[s.Key] = s.Value
		case SecretReferenceSetting:
			delete(out.AppConfigVars, s.Key)
			out.KeyVaultReferences[s.Key] = s.Reference
		}
	}
	return out, nil
}

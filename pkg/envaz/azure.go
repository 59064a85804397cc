package envaz

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azappconfig"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// tokenCredentialFunc 延迟创建的 Azure 凭据，只创建一次。
type tokenCredentialFunc func() (azcore.TokenCredential, error)

// newTokenCredential tenant/client/secret 齐全时使用 client secret 凭据，
// 否则使用 DefaultAzureCredential (环境、Managed Identity、Azure CLI 等)。
func newTokenCredential(creds Credentials) tokenCredentialFunc {
	return sync.OnceValues(func() (azcore.TokenCredential, error) {
		if creds.HasClientSecret() {
			return azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret, nil)
		}
		return azidentity.NewDefaultAzureCredential(nil)
	})
}

// appConfigLister 基于 azappconfig 的 [SettingsLister] 实现。
type appConfigLister struct {
	client *azappconfig.Client
}

// newAppConfigLister 优先使用连接字符串，否则通过 URL + 凭据连接。
func newAppConfigLister(creds Credentials, credential tokenCredentialFunc) (*appConfigLister, error) {
	if creds.ConnectionString != "" {
		client, err := azappconfig.NewClientFromConnectionString(creds.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create app configuration client: %w", err)
		}
		return &appConfigLister{client: client}, nil
	}
	if creds.URL == "" {
		return nil, &MissingCredentialsError{}
	}
	cred, err := credential()
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}
	client, err := azappconfig.NewClient(creds.URL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create app configuration client: %w", err)
	}
	return &appConfigLister{client: client}, nil
}

func (l *appConfigLister) ListSettings(ctx context.Context, labelFilter string) iter.Seq2[Setting, error] {
	return func(yield func(Setting, error) bool) {
		var selector azappconfig.SettingSelector
		if labelFilter != "" {
			selector.LabelFilter = &labelFilter
		}
		pager := l.client.NewListSettingsPager(selector, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				yield(Setting{}, err)
				return
			}
			for _, s := range page.Settings {
				if !yield(fromAppConfigSetting(s), nil) {
					return
				}
			}
		}
	}
}

func fromAppConfigSetting(s azappconfig.Setting) Setting {
	return Setting{
		Key:         deref(s.Key),
		Value:       deref(s.Value),
		ContentType: deref(s.ContentType),
		Label:       deref(s.Label),
		IsReadOnly:  s.IsReadOnly != nil && *s.IsReadOnly,
	}
}

// keyVaultClient 基于 azsecrets 的 [SecretGetter] 实现。
type keyVaultClient struct {
	client *azsecrets.Client
}

func (c *keyVaultClient) GetSecret(ctx context.Context, name, version string) (string, error) {
	resp, err := c.client.GetSecret(ctx, name, version, nil)
	if err != nil {
		return "", err
	}
	if resp.Value == nil {
		return "", errors.New("secret has no value")
	}
	return *resp.Value, nil
}

// newKeyVaultFactory 返回的 [VaultFactory] 共享同一个凭据。
func newKeyVaultFactory(credential tokenCredentialFunc) VaultFactory {
	return func(vaultOrigin string) (SecretGetter, error) {
		cred, err := credential()
		if err != nil {
			return nil, fmt.Errorf("create azure credential: %w", err)
		}
		client, err := azsecrets.NewClient(vaultOrigin, cred, nil)
		if err != nil {
			return nil, err
		}
		return &keyVaultClient{client: client}, nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package envaz

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testConnectionString = "Endpoint=https://test.azconfig.io;Id=id;Secret=c2VjcmV0"

// fakeLister 返回固定配置列表的 SettingsLister。
type fakeLister struct {
	settings []Setting
	err      error

	calls     atomic.Int32
	mu        sync.Mutex
	lastLabel string
}

func (f *fakeLister) ListSettings(_ context.Context, labelFilter string) iter.Seq2[Setting, error] {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastLabel = labelFilter
	f.mu.Unlock()
	return func(yield func(Setting, error) bool) {
		for _, s := range f.settings {
			if !yield(s, nil) {
				return
			}
		}
		if f.err != nil {
			yield(Setting{}, f.err)
		}
	}
}

func (f *fakeLister) label() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLabel
}

// fakeVault 按 "name" 或 "name/version" 查找 secret。
type fakeVault struct {
	secrets map[string]string
	errs    map[string]error
	calls   atomic.Int32
}

func (v *fakeVault) GetSecret(_ context.Context, name, version string) (string, error) {
	v.calls.Add(1)
	if err, ok := v.errs[name]; ok {
		return "", err
	}
	if version != "" {
		if val, ok := v.secrets[name+"/"+version]; ok {
			return val, nil
		}
	}
	if val, ok := v.secrets[name]; ok {
		return val, nil
	}
	return "", fmt.Errorf("SecretNotFound: %s", name)
}

func plain(key, value string) Setting {
	return Setting{Key: key, Value: value}
}

func vaultRef(key, uri string) Setting {
	return Setting{
		Key:         key,
		Value:       `{"uri":"` + uri + `"}`,
		ContentType: KeyVaultReferenceContentType,
	}
}

// defaultRemote 一个普通配置，一个 Key Vault 引用。
func defaultRemote() (*fakeLister, *fakeVault) {
	lister := &fakeLister{settings: []Setting{
		plain("APP_CONFIG_VAR", "ok"),
		vaultRef("KEY_VAULT_VAR", "https://key.vault.azure.net/secrets/DatabaseUrl/7091540ce97143deb08790a53fc2a75d"),
	}}
	vault := &fakeVault{secrets: map[string]string{"DatabaseUrl": "ok"}}
	return lister, vault
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(lister *fakeLister, vault *fakeVault, env Environ, opts ...Option) *Client {
	base := []Option{
		WithEnviron(env),
		WithLogger(discardLogger()),
		WithRateLimit(0),
		WithListerFactory(func(Credentials) (SettingsLister, error) { return lister, nil }),
		WithVaultFactory(func(string) (SecretGetter, error) { return vault, nil }),
	}
	return New(append(base, opts...)...)
}

// writeFile 在临时目录中写入文件并返回路径。
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

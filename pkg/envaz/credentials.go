package envaz

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// remoteConfig 连接 Azure 所需的全部参数。
type remoteConfig struct {
	Credentials
	Labels string `env:"AZURE_APP_CONFIG_LABELS"`
}

// remoteConfigBuilder 按优先级从高到低依次合并各来源，已设置的字段不会被低优先级来源覆盖。
type remoteConfigBuilder struct {
	layers []remoteConfig
	err    error
}

func newRemoteConfigBuilder(explicit remoteConfig) *remoteConfigBuilder {
	return &remoteConfigBuilder{layers: []remoteConfig{explicit}}
}

// withVariables 从变量表中解析一层配置 (进程环境或 .env 文件)。
func (b *remoteConfigBuilder) withVariables(vars Variables) *remoteConfigBuilder {
	if len(vars) == 0 {
		return b
	}
	var layer remoteConfig
	if err := env.ParseWithOptions(&layer, env.Options{Environment: vars}); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("parse azure settings: %w", err))
		return b
	}
	b.layers = append(b.layers, layer)
	return b
}

func (b *remoteConfigBuilder) build() (remoteConfig, error) {
	if b.err != nil {
		return remoteConfig{}, b.err
	}
	var cfg remoteConfig
	for _, layer := range b.layers {
		if err := mergo.Merge(&cfg, layer); err != nil {
			return remoteConfig{}, fmt.Errorf("merge azure settings: %w", err)
		}
	}
	if !cfg.hasEndpoint() {
		return remoteConfig{}, &MissingCredentialsError{}
	}
	return cfg, nil
}

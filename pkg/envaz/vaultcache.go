package envaz

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SecretGetter 读取单个 secret；version 为空时读取最新版本。
type SecretGetter interface {
	GetSecret(ctx context.Context, name, version string) (string, error)
}

// VaultFactory 为指定 vault origin (如 https://v.vault.azure.net) 创建客户端。
type VaultFactory func(vaultOrigin string) (SecretGetter, error)

// vaultCache 按 vault origin 缓存客户端，首次使用时创建，之后一直复用。
type vaultCache struct {
	factory VaultFactory

	mu      sync.RWMutex
	clients map[string]SecretGetter
	group   singleflight.Group
}

func newVaultCache(factory VaultFactory) *vaultCache {
	return &vaultCache{
		factory: factory,
		clients: make(map[string]SecretGetter),
	}
}

// get 返回 origin 对应的客户端，不存在时创建。
//
// 同一 origin 的并发创建只会调用一次 factory。
func (c *vaultCache) get(origin string) (SecretGetter, error) {
	c.mu.RLock()
	client, ok := c.clients[origin]
	c.mu.RUnlock()
	if ok {
		return client, nil
	}

	v, err, _ := c.group.Do(origin, func() (any, error) {
		c.mu.RLock()
		existing, ok := c.clients[origin]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		created, err := c.factory(origin)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.clients[origin] = created
		c.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(SecretGetter), nil
}

// len 返回已创建的客户端数量。
func (c *vaultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

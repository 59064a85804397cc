package envaz

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Resolver 并发解析 Key Vault 引用，所有请求共享同一个限速器。
//
// Resolver 持有全部 vault 客户端，生命周期内复用。限速器可与其他 Resolver 共享。
type Resolver struct {
	vaults  *vaultCache
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewResolver 创建 Resolver。
//
// requestsPerSecond <= 0 表示不限速。
func NewResolver(factory VaultFactory, requestsPerSecond float64, logger *slog.Logger) *Resolver {
	return newResolver(factory, newLimiter(requestsPerSecond), logger)
}

// newResolver limiter 可由多个 Resolver 共享。
func newResolver(factory VaultFactory, limiter *rate.Limiter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		vaults:  newVaultCache(factory),
		limiter: limiter,
		logger:  logger,
	}
}

// newLimiter burst 为 1，请求按 1/rps 的间隔依次放行。
func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}

// Resolve 解析 refs 中的全部引用，返回变量名到 secret 值的映射。
//
// 任意一个引用失败即返回第一个错误，不返回部分结果。
func (r *Resolver) Resolve(ctx context.Context, refs map[string]KeyVaultReference) (Variables, error) {
	secrets := make(Variables, len(refs))
	if len(refs) == 0 {
		return secrets, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for key, ref := range refs {
		g.Go(func() error {
			value, err := r.resolveOne(gctx, key, ref)
			if err != nil {
				return err
			}
			mu.Lock()
			secrets[key] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("Resolved Key Vault references", "count", len(secrets), "vaults", r.vaults.len())
	return secrets, nil
}

func (r *Resolver) resolveOne(ctx context.Context, key string, ref KeyVaultReference) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("envaz: rate limiter for %s: %w", key, err)
	}
	client, err := r.vaults.get(ref.VaultOrigin)
	if err != nil {
		return "", fmt.Errorf("envaz: create vault client for %s: %w", ref.VaultOrigin, err)
	}
	value, err := client.GetSecret(ctx, ref.SecretName, ref.SecretVersion)
	if err != nil {
		return "", &SecretResolutionError{Key: key, Reference: ref, Err: err}
	}
	return value, nil
}

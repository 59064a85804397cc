package envaz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenRefs() (map[string]KeyVaultReference, *fakeVault) {
	refs := make(map[string]KeyVaultReference, 10)
	vault := &fakeVault{secrets: make(map[string]string, 10)}
	for i := range 10 {
		name := fmt.Sprintf("Secret%d", i)
		refs[fmt.Sprintf("VAR_%d", i)] = KeyVaultReference{VaultOrigin: "https://v.vault.azure.net", SecretName: name}
		vault.secrets[name] = fmt.Sprintf("value-%d", i)
	}
	return refs, vault
}

func TestResolver_Resolve(t *testing.T) {
	vault := &fakeVault{secrets: map[string]string{
		"DatabaseUrl":        "latest",
		"DatabaseUrl/abc123": "pinned",
	}}
	r := NewResolver(func(string) (SecretGetter, error) { return vault, nil }, 0, discardLogger())

	got, err := r.Resolve(context.Background(), map[string]KeyVaultReference{
		"LATEST": {VaultOrigin: "https://v.vault.azure.net", SecretName: "DatabaseUrl"},
		"PINNED": {VaultOrigin: "https://v.vault.azure.net", SecretName: "DatabaseUrl", SecretVersion: "abc123"},
	})
	require.NoError(t, err)
	assert.Equal(t, Variables{"LATEST": "latest", "PINNED": "pinned"}, got)
}

func TestResolver_Empty(t *testing.T) {
	r := NewResolver(func(string) (SecretGetter, error) {
		return nil, errors.New("must not be called")
	}, 0, discardLogger())

	got, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolver_FailureReturnsNoPartialResult(t *testing.T) {
	forbidden := errors.New("403 Forbidden")
	vault := &fakeVault{
		secrets: map[string]string{"Good": "ok"},
		errs:    map[string]error{"Bad": forbidden},
	}
	r := NewResolver(func(string) (SecretGetter, error) { return vault, nil }, 0, discardLogger())

	got, err := r.Resolve(context.Background(), map[string]KeyVaultReference{
		"GOOD": {VaultOrigin: "https://v.vault.azure.net", SecretName: "Good"},
		"BAD":  {VaultOrigin: "https://v.vault.azure.net", SecretName: "Bad"},
	})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, forbidden)

	var resErr *SecretResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "BAD", resErr.Key)
	assert.Equal(t, "Bad", resErr.Reference.SecretName)
}

func TestResolver_FactoryError(t *testing.T) {
	boom := errors.New("no credential")
	r := NewResolver(func(string) (SecretGetter, error) { return nil, boom }, 0, discardLogger())

	_, err := r.Resolve(context.Background(), map[string]KeyVaultReference{
		"A": {VaultOrigin: "https://v.vault.azure.net", SecretName: "a"},
	})
	assert.ErrorIs(t, err, boom)
}

func TestResolver_VaultClientCachedPerOrigin(t *testing.T) {
	var mu sync.Mutex
	created := map[string]int{}
	vault := &fakeVault{secrets: map[string]string{"a": "1", "b": "2", "c": "3"}}
	r := NewResolver(func(origin string) (SecretGetter, error) {
		mu.Lock()
		created[origin]++
		mu.Unlock()
		return vault, nil
	}, 0, discardLogger())

	refs := map[string]KeyVaultReference{
		"A": {VaultOrigin: "https://one.vault.azure.net", SecretName: "a"},
		"B": {VaultOrigin: "https://one.vault.azure.net", SecretName: "b"},
		"C": {VaultOrigin: "https://two.vault.azure.net", SecretName: "c"},
	}
	for range 3 {
		_, err := r.Resolve(context.Background(), refs)
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]int{
		"https://one.vault.azure.net": 1,
		"https://two.vault.azure.net": 1,
	}, created)
	assert.Equal(t, 2, r.vaults.len())
	assert.Equal(t, int32(9), vault.calls.Load())
}

// timedVault 记录每次请求的开始时间。
type timedVault struct {
	mu       sync.Mutex
	starts   []time.Time
	inflight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (v *timedVault) GetSecret(_ context.Context, name, _ string) (string, error) {
	v.mu.Lock()
	v.starts = append(v.starts, time.Now())
	v.mu.Unlock()

	n := v.inflight.Add(1)
	for {
		p := v.peak.Load()
		if n <= p || v.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(v.delay)
	v.inflight.Add(-1)
	return name, nil
}

func TestResolver_RateLimit(t *testing.T) {
	const rps = 20.0
	interval := time.Duration(float64(time.Second) / rps)

	refs, _ := tenRefs()
	vault := &timedVault{delay: 3 * interval}
	r := NewResolver(func(string) (SecretGetter, error) { return vault, nil }, rps, discardLogger())

	begin := time.Now()
	got, err := r.Resolve(context.Background(), refs)
	elapsed := time.Since(begin)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	// 第一个请求立即放行，其余 9 个按间隔依次放行
	assert.GreaterOrEqual(t, elapsed, 8*interval, "10 requests at %v/s finished too fast", rps)

	vault.mu.Lock()
	starts := slices.Clone(vault.starts)
	vault.mu.Unlock()
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	// 任意 interval 窗口内开始的请求不超过 1 个 (留出调度误差)
	tolerance := interval / 5
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[0])
		assert.GreaterOrEqual(t, gap, time.Duration(i)*interval-tolerance, "request %d started too early", i)
	}

	// 请求之间允许并行
	assert.Greater(t, vault.peak.Load(), int32(1))
}

func TestResolver_Unlimited(t *testing.T) {
	refs, vault := tenRefs()
	r := NewResolver(func(string) (SecretGetter, error) { return vault, nil }, 0, discardLogger())

	begin := time.Now()
	got, err := r.Resolve(context.Background(), refs)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Less(t, time.Since(begin), 200*time.Millisecond)
}

func TestResolver_ContextCanceled(t *testing.T) {
	refs, vault := tenRefs()
	r := NewResolver(func(string) (SecretGetter, error) { return vault, nil }, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, refs)
	assert.ErrorIs(t, err, context.Canceled)
}

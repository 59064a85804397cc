package envaz

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Environ 环境变量写入目标。
//
// 默认使用 [OSEnviron]；测试或嵌入场景可注入 [MapEnviron] 避免修改进程环境。
type Environ interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	// Environ 返回当前全部变量的快照
	Environ() Variables
}

// OSEnviron 进程环境变量。
type OSEnviron struct{}

func (OSEnviron) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (OSEnviron) Set(key, value string) error { return os.Setenv(key, value) }

func (OSEnviron) Environ() Variables {
	vars := make(Variables)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			vars[parts[0]] = parts[1]
		}
	}
	return vars
}

// MapEnviron 基于 map 的隔离环境，并发安全。
type MapEnviron struct {
	mu   sync.RWMutex
	vars Variables
}

// NewMapEnviron 使用 initial 的拷贝创建环境。
func NewMapEnviron(initial Variables) *MapEnviron {
	return &MapEnviron{vars: initial.Clone()}
}

func (m *MapEnviron) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnviron) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(Variables)
	}
	m.vars[key] = value
	return nil
}

func (m *MapEnviron) Environ() Variables {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vars.Clone()
}

// Populate 将 vars 写入 env，已存在的变量保持不变 (override 为 true 时覆盖)。
//
// 返回实际写入的变量数量。
func Populate(env Environ, vars Variables, override bool) (int, error) {
	n := 0
	for key, val := range vars {
		if _, exists := env.Lookup(key); exists && !override {
			continue
		}
		if err := env.Set(key, val); err != nil {
			return n, fmt.Errorf("set %s: %w", key, err)
		}
		n++
	}
	return n, nil
}

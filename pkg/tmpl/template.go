package tmpl

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

// ═══════════════════════════════════════════════════════════════════════════
// 模板函数 (参考: Taskfile 和 Sprig)
// ═══════════════════════════════════════════════════════════════════════════

// funcMap 返回绑定到 vars 的模板函数映射表
func funcMap(vars map[string]string) template.FuncMap {
	return template.FuncMap{
		"env":      envFunc(vars),
		"required": requiredFunc(vars),
		"default":  defaultFunc,
		"coalesce": coalesceFunc,
	}
}

// envFunc 获取变量，支持可选的默认值。
//
// 使用方式：
//   - {{env "VAR"}}           获取变量，未设置时返回空字符串
//   - {{env "VAR" "default"}} 获取变量，未设置或为空时返回默认值
//   - {{env "VAR" | default "fallback"}} 管道语法
func envFunc(vars map[string]string) func(key string, defaultVal ...string) string {
	return func(key string, defaultVal ...string) string {
		if val := vars[key]; val != "" {
			return val
		}
		if len(defaultVal) > 0 {
			return defaultVal[0]
		}

		return ""
	}
}

// requiredFunc 变量不存在时模板执行失败。
//
// 使用方式：
//   - {{required "DATABASE_URL"}}
func requiredFunc(vars map[string]string) func(key string) (string, error) {
	return func(key string) (string, error) {
		val, ok := vars[key]
		if !ok {
			return "", &MissingVariableError{Name: key}
		}

		return val, nil
	}
}

// defaultFunc 提供默认值（管道友好）。
//
// 参考 Sprig 实现，参数顺序：default(默认值, 实际值)
//
// 使用方式：
//   - {{env "VAR" | default "fallback"}}
//   - {{.VAR | default .OTHER | default "final"}}
func defaultFunc(defaultVal, value any) any {
	if value == nil {
		return defaultVal
	}
	if str, ok := value.(string); ok && str == "" {
		return defaultVal
	}

	return value
}

// coalesceFunc 返回第一个非空值（类似 Taskfile/Sprig）。
//
// 使用方式：
//   - {{coalesce .VAR1 .VAR2 "default"}}
//   - {{coalesce .DATABASE_URL .POSTGRES_URL "postgres://localhost"}}
func coalesceFunc(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}

		return v
	}

	return nil
}

// MissingVariableError required 引用的变量不存在。
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return "required variable " + e.Name + " is not set"
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板数据对象 (与 Taskfile 设计对齐)
// ═══════════════════════════════════════════════════════════════════════════

// Environ 返回当前进程环境变量。
func Environ() map[string]string {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			vars[parts[0]] = parts[1]
		}
	}

	return vars
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板渲染
// ═══════════════════════════════════════════════════════════════════════════

// Expand 使用 vars 展开模板字符串。
//
// vars 中的变量位于顶级命名空间，支持的语法：
//   - {{.VAR}} - 直接访问变量（Taskfile 风格），未设置时输出空字符串
//   - {{env "VAR"}} - env 函数方式
//   - {{env "VAR" "default"}} - 带默认值
//   - {{required "VAR"}} - 变量不存在时报错
//   - {{.VAR | default "fallback"}} - 管道式默认值
//   - {{coalesce .VAR1 .VAR2 "default"}} - 多级 fallback
func Expand(name, text string, vars map[string]string) (string, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	tmpl, err := template.New(name).Funcs(funcMap(vars)).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ExpandTemplate 使用进程环境变量展开模板字符串。
//
// 等价于 Expand("config", text, Environ())。
func ExpandTemplate(text string) (string, error) {
	return Expand("config", text, Environ())
}

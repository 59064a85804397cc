package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-envaz/pkg/tmpl"
)

// EnvPrefix 配置项环境变量前缀，例如 ENVAZ_AZURE_RATE_LIMIT。
const EnvPrefix = "ENVAZ_"

// Option 配置加载选项
type Option func(*loadOptions)

type loadOptions struct {
	cmd         *cli.Command
	configPaths []string
	envPrefix   string
	envEnabled  bool
}

// WithCommand 使用 CLI flags 覆盖配置，仅用户明确指定的 flag 生效。
func WithCommand(cmd *cli.Command) Option {
	return func(o *loadOptions) { o.cmd = cmd }
}

// WithConfigPaths 设置配置文件搜索路径，找到第一个即停止。
func WithConfigPaths(paths ...string) Option {
	return func(o *loadOptions) { o.configPaths = paths }
}

// WithEnvPrefix 启用环境变量绑定，每个配置 key 映射为 prefix + 大写下划线形式。
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
		o.envEnabled = true
	}
}

// DefaultPaths 返回默认配置文件搜索路径
func DefaultPaths(appName string) []string {
	paths := []string{
		appName + ".yaml",
		filepath.Join("config", appName+".yaml"),
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appName+".yaml"))
	}

	return append(paths, "/etc/"+appName+"/config.yaml")
}

// Load 加载配置，按优先级合并：默认值 → 配置文件 → 环境变量 → CLI flags。
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if err := loadConfigFile(k, o.configPaths); err != nil {
		return nil, err
	}

	if o.envEnabled {
		if err := loadEnv(k, o.envPrefix); err != nil {
			return nil, err
		}
	}

	if o.cmd != nil {
		applyCLIFlags(o.cmd, k, reflect.TypeFor[Config](), "")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile 读取第一个存在的配置文件，先展开模板再解析。
func loadConfigFile(k *koanf.Koanf, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		expanded, err := tmpl.ExpandTemplate(string(data))
		if err != nil {
			return fmt.Errorf("failed to expand config file %s: %w", path, err)
		}

		if err := k.Load(rawbytes.Provider([]byte(expanded)), parserForPath(path)); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		slog.Debug("Loaded config from file", "path", path)
		return nil
	}

	slog.Debug("No config file found, using defaults")
	return nil
}

// parserForPath 根据扩展名选择解析器，默认 YAML。
func parserForPath(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// loadEnv 为每个已知配置 key 查找对应的环境变量。
func loadEnv(k *koanf.Koanf, prefix string) error {
	values := make(map[string]any)
	for _, key := range k.Keys() {
		if val, ok := os.LookupEnv(envKey(prefix, key)); ok {
			values[key] = val
		}
	}
	if len(values) == 0 {
		return nil
	}

	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	return nil
}

// envKey 将 koanf key 转换为环境变量名：azure.rate_limit → ENVAZ_AZURE_RATE_LIMIT
func envKey(prefix, key string) string {
	name := strings.NewReplacer(".", "_", "-", "_").Replace(key)
	return prefix + strings.ToUpper(name)
}

// applyCLIFlags 递归遍历配置结构体，将用户明确指定的 CLI flags 写入 koanf。
//
// koanf key 与 flag 名称的映射：azure.rate_limit → --azure-rate-limit
func applyCLIFlags(cmd *cli.Command, k *koanf.Koanf, typ reflect.Type, prefix string) {
	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if field.Type.Kind() == reflect.Struct {
			applyCLIFlags(cmd, k, field.Type, key)
			continue
		}

		flag := strings.NewReplacer(".", "-", "_", "-").Replace(key)
		if !cmd.IsSet(flag) {
			continue
		}

		if value, ok := flagValue(cmd, flag, field.Type); ok {
			_ = k.Set(key, value)
		}
	}
}

// flagValue 按字段类型读取 flag 值
func flagValue(cmd *cli.Command, flag string, typ reflect.Type) (any, bool) {
	if typ == reflect.TypeFor[time.Duration]() {
		return cmd.Duration(flag), true
	}

	switch typ.Kind() {
	case reflect.String:
		return cmd.String(flag), true
	case reflect.Bool:
		return cmd.Bool(flag), true
	case reflect.Int:
		return cmd.Int(flag), true
	case reflect.Float64:
		return cmd.Float64(flag), true
	default:
		return nil, false
	}
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "go.yaml.in/yaml/v3"
)

// ExampleYAML 将配置序列化为带注释的 YAML，注释来自 desc tag。
//
// 使用示例：
//
//	data := config.ExampleYAML(config.DefaultConfig())
//	os.WriteFile("config/envaz.example.yaml", data, 0644)
func ExampleYAML(cfg Config) []byte {
	node := mappingNode(reflect.ValueOf(cfg))
	node.HeadComment = "envaz 配置示例, 复制为 envaz.yaml 后按需修改\n支持模板语法, 例如 {{env \"AZURE_APP_CONFIG_URL\"}}"

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	_ = enc.Encode(node)
	_ = enc.Close()

	return buf.Bytes()
}

// mappingNode 将结构体转换为 MappingNode，嵌套结构体的注释放在 key 上方。
func mappingNode(val reflect.Value) *yamlv3.Node {
	typ := val.Type()
	node := &yamlv3.Node{Kind: yamlv3.MappingNode}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}

		keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: key}
		var valNode *yamlv3.Node
		if field.Type.Kind() == reflect.Struct {
			valNode = mappingNode(val.Field(i))
			keyNode.HeadComment = "\n" + field.Tag.Get("desc")
		} else {
			valNode = scalarNode(val.Field(i))
			valNode.LineComment = field.Tag.Get("desc")
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node
}

func scalarNode(val reflect.Value) *yamlv3.Node {
	node := &yamlv3.Node{Kind: yamlv3.ScalarNode}

	if d, ok := val.Interface().(time.Duration); ok {
		node.Value = d.String()
		return node
	}

	switch val.Kind() {
	case reflect.String:
		node.Value = val.String()
		node.Style = yamlv3.DoubleQuotedStyle
	case reflect.Bool:
		node.Value = strconv.FormatBool(val.Bool())
	case reflect.Int, reflect.Int64:
		node.Value = strconv.FormatInt(val.Int(), 10)
	case reflect.Float64:
		node.Value = strconv.FormatFloat(val.Float(), 'g', -1, 64)
	default:
		node.Value = fmt.Sprintf("%v", val.Interface())
	}

	return node
}

// ConfigTestHelper 配置测试辅助工具，保持示例文件与本地配置同步
//
//	var helper = config.ConfigTestHelper{
//	    ExamplePath: "config/envaz.example.yaml",
//	    ConfigPath:  "config/envaz.yaml",
//	}
type ConfigTestHelper struct {
	ExamplePath string // 示例文件相对路径（相对于 go.mod 所在目录）
	ConfigPath  string // 配置文件相对路径（相对于 go.mod 所在目录）
}

// WriteExampleFile 将默认配置写入示例文件
func (h *ConfigTestHelper) WriteExampleFile(t *testing.T, cfg Config) {
	t.Helper()

	projectRoot, err := FindProjectRoot(1)
	if err != nil {
		t.Fatalf("无法找到项目根目录: %v", err)
	}

	outputPath := filepath.Join(projectRoot, h.ExamplePath)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(outputPath, ExampleYAML(cfg), 0600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Logf("已生成配置示例文件: %s", outputPath)
}

// ValidateKeys 校验本地配置文件中的键名都在示例文件中定义，本地配置不存在时跳过
func (h *ConfigTestHelper) ValidateKeys(t *testing.T) {
	t.Helper()

	projectRoot, err := FindProjectRoot(1)
	if err != nil {
		t.Fatalf("无法找到项目根目录: %v", err)
	}

	configPath := filepath.Join(projectRoot, h.ConfigPath)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Skipf("%s 不存在，跳过验证", h.ConfigPath)
	}

	exampleKeys, err := fileKeys(filepath.Join(projectRoot, h.ExamplePath))
	if err != nil {
		t.Fatalf("无法加载 %s: %v", h.ExamplePath, err)
	}
	configKeys, err := fileKeys(configPath)
	if err != nil {
		t.Fatalf("无法加载 %s: %v", h.ConfigPath, err)
	}

	for _, key := range configKeys {
		if !slices.Contains(exampleKeys, key) {
			t.Errorf("%s 包含无效配置项: %s", h.ConfigPath, key)
		}
	}
}

// FindProjectRoot 通过查找 go.mod 文件定位项目根目录。
//
// skip 指定跳过的调用栈层数，0 表示调用者。
func FindProjectRoot(skip int) (string, error) {
	_, filename, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", errors.New("无法获取当前文件路径")
	}

	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("未找到 go.mod")
		}
		dir = parent
	}
}

// fileKeys 加载配置文件 (不展开模板) 并返回所有键
func fileKeys(path string) ([]string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserForPath(path)); err != nil {
		return nil, fmt.Errorf("加载文件失败: %w", err)
	}
	return k.Keys(), nil
}

package envaz

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// ReadDotenv 读取并解析 .env 格式的文件，不修改环境。
func ReadDotenv(path string) (Variables, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

// ParseDotenv 解析 .env 格式的内容。
func ParseDotenv(src io.Reader) (Variables, error) {
	vars, err := godotenv.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse dotenv: %w", err)
	}
	return vars, nil
}

// FormatDotenv 将变量序列化为 .env 格式，键按字母序排列。
//
// 输出经 [ParseDotenv] 解析后与 vars 完全一致；无法无损表示的值返回错误。
func FormatDotenv(vars Variables) (string, error) {
	lines := make([]string, 0, len(vars))
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		value, err := quoteDotenv(vars[key])
		if err != nil {
			return "", fmt.Errorf("format %s: %w", key, err)
		}
		lines = append(lines, key+"="+value)
	}
	return strings.Join(lines, "\n"), nil
}

var doubleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"$", `\$`,
)

// quoteDotenv 按 godotenv 的解析规则选择写法：
//   - 单引号：原样保留，不能含 ' 或换行
//   - 双引号：转义 \ " $ 与换行
//   - 不加引号：不能含空白首尾、换行、# 与 $
//
// godotenv 查找结束引号时跳过前面带 \ 的引号，并去掉结尾处多余的引号字符，
// 因此以 \ 结尾的值不能加引号，以 " 结尾的值不能用双引号。
func quoteDotenv(value string) (string, error) {
	endsWithBackslash := strings.HasSuffix(value, `\`)
	multiline := strings.ContainsAny(value, "\n\r")

	switch {
	case !endsWithBackslash && !multiline && !strings.Contains(value, "'"):
		return "'" + value + "'", nil
	case !endsWithBackslash && !strings.HasSuffix(value, `"`):
		return `"` + doubleQuoteEscaper.Replace(value) + `"`, nil
	case bareDotenv(value):
		return value, nil
	default:
		return "", fmt.Errorf("value cannot be represented in dotenv format")
	}
}

func bareDotenv(value string) bool {
	if value == "" || strings.TrimSpace(value) != value {
		return false
	}
	if value[0] == '\'' || value[0] == '"' {
		return false
	}
	return !strings.ContainsAny(value, "\n\r#$")
}

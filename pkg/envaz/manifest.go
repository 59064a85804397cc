package envaz

import (
	"fmt"
	"slices"
)

// ManifestOptions 示例文件校验参数。
type ManifestOptions struct {
	Path             string
	Example          string
	AllowEmptyValues bool
}

// ValidateManifest 检查示例文件中声明的每个变量都存在于 env 中。
//
// AllowEmptyValues 为 false 时，值为空的变量视为缺失。dotenvErr 为读取本地文件时的错误，
// 会附加到 [MissingEnvVarsError] 的信息中。
func ValidateManifest(env Environ, opts ManifestOptions, dotenvErr error) error {
	if opts.Path == "" {
		opts.Path = DefaultDotenvPath
	}
	if opts.Example == "" {
		opts.Example = DefaultExamplePath
	}

	required, err := ReadDotenv(opts.Example)
	if err != nil {
		return fmt.Errorf("envaz: read example file: %w", err)
	}

	present := env.Environ()
	var missing []string
	for name := range required {
		val, ok := present[name]
		if !ok || (val == "" && !opts.AllowEmptyValues) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)

	return &MissingEnvVarsError{
		Missing:          missing,
		Path:             opts.Path,
		Example:          opts.Example,
		AllowEmptyValues: opts.AllowEmptyValues,
		DotenvErr:        dotenvErr,
	}
}

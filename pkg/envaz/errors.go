package envaz

import (
	"errors"
	"fmt"
	"strings"
)

// 哨兵错误，用于 errors.Is 判断错误类别。
var (
	// ErrMissingCredentials 没有任何来源提供 App Configuration 连接信息。
	ErrMissingCredentials = errors.New("envaz: missing Azure App Configuration credentials")
	// ErrInvalidSecretReference Key Vault 引用无法解析出 secret 名称。
	ErrInvalidSecretReference = errors.New("envaz: invalid Azure Key Vault reference")
	// ErrMissingEnvVars 示例文件中声明的变量在环境中不存在。
	ErrMissingEnvVars = errors.New("envaz: missing environment variables")
)

// MissingCredentialsError 缺少连接字符串或 URL。
//
// 在任何网络请求之前返回。
type MissingCredentialsError struct{}

// Error implements the error interface.
func (e *MissingCredentialsError) Error() string {
	return "Missing Azure App Configuration credentials: set " + EnvConnectionString + " or " + EnvURL +
		", or pass WithConnectionString/WithURL"
}

// Is 使 errors.Is(err, ErrMissingCredentials) 成立。
func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials
}

// InvalidSecretReferenceError 记录无效引用所在的配置键。
type InvalidSecretReferenceError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *InvalidSecretReferenceError) Error() string {
	if e.Reason == "" {
		return "Invalid Azure Key Vault URL: " + e.Key
	}
	return fmt.Sprintf("Invalid Azure Key Vault URL: %s (%s)", e.Key, e.Reason)
}

// Is 使 errors.Is(err, ErrInvalidSecretReference) 成立。
func (e *InvalidSecretReferenceError) Is(target error) bool {
	return target == ErrInvalidSecretReference
}

// SecretResolutionError 包装 Key Vault 返回的错误，Unwrap 返回原始错误。
type SecretResolutionError struct {
	Key       string
	Reference KeyVaultReference
	Err       error
}

// Error implements the error interface.
func (e *SecretResolutionError) Error() string {
	return fmt.Sprintf("envaz: resolve %s from %s/secrets/%s: %v",
		e.Key, e.Reference.VaultOrigin, e.Reference.SecretName, e.Err)
}

// Unwrap returns the vault error.
func (e *SecretResolutionError) Unwrap() error {
	return e.Err
}

// MissingEnvVarsError 示例文件校验失败。
//
// Missing 按字母序排列；DotenvErr 为读取本地 .env 文件时的错误（若有）。
type MissingEnvVarsError struct {
	Missing          []string
	Path             string
	Example          string
	AllowEmptyValues bool
	DotenvErr        error
}

// Error implements the error interface.
func (e *MissingEnvVarsError) Error() string {
	parts := []string{
		fmt.Sprintf("The following variables were defined in %s but are not present in the environment: %s\n\n"+
			"Make sure to add them to %s or directly to the environment.",
			e.Example, strings.Join(e.Missing, ", "), e.Path),
	}
	if !e.AllowEmptyValues {
		parts = append(parts,
			"If you expect any of these variables to be empty, you can use the `allowEmptyValues` option")
	}
	if e.DotenvErr != nil {
		parts = append(parts, fmt.Sprintf(
			"Also, the following error was thrown when trying to read variables from %s:\n%s",
			e.Path, e.DotenvErr.Error()))
	}
	return strings.Join(parts, "\n\n")
}

// Is 使 errors.Is(err, ErrMissingEnvVars) 成立。
func (e *MissingEnvVarsError) Is(target error) bool {
	return target == ErrMissingEnvVars
}

// Unwrap 返回 .env 读取错误，便于 errors.Is(err, fs.ErrNotExist)。
func (e *MissingEnvVarsError) Unwrap() error {
	return e.DotenvErr
}

package envaz

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// ClassifiedSetting 分类后的配置：[PlainSetting] 或 [SecretReferenceSetting]。
type ClassifiedSetting interface {
	SettingKey() string
	classified()
}

// PlainSetting 值直接使用的配置。
type PlainSetting struct {
	Key   string
	Value string
}

// SecretReferenceSetting 值指向 Key Vault secret 的配置。
type SecretReferenceSetting struct {
	Key       string
	Reference KeyVaultReference
}

func (s PlainSetting) SettingKey() string           { return s.Key }
func (s SecretReferenceSetting) SettingKey() string { return s.Key }

func (PlainSetting) classified()           {}
func (SecretReferenceSetting) classified() {}

// IsKeyVaultReference 报告 content type 是否为 Key Vault 引用，必须与 [KeyVaultReferenceContentType] 完全一致。
func IsKeyVaultReference(contentType string) bool {
	return contentType == KeyVaultReferenceContentType
}

// Classify 在读取时对配置进行一次性分类。
func Classify(s Setting) (ClassifiedSetting, error) {
	if !IsKeyVaultReference(s.ContentType) {
		return PlainSetting{Key: s.Key, Value: s.Value}, nil
	}
	ref, err := ParseKeyVaultReference(s.Key, s.Value)
	if err != nil {
		return nil, err
	}
	return SecretReferenceSetting{Key: s.Key, Reference: ref}, nil
}

// ParseKeyVaultReference 解析形如 {"uri":"https://v.vault.azure.net/secrets/<name>[/<version>]"} 的值。
//
// key 仅用于错误信息。
func ParseKeyVaultReference(key, value string) (KeyVaultReference, error) {
	if !gjson.Valid(value) {
		return KeyVaultReference{}, &InvalidSecretReferenceError{Key: key, Reason: "value is not valid JSON"}
	}
	uri := gjson.Get(value, "uri")
	if uri.Type != gjson.String || uri.Str == "" {
		return KeyVaultReference{}, &InvalidSecretReferenceError{Key: key, Reason: "missing uri"}
	}

	u, err := url.Parse(uri.Str)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return KeyVaultReference{}, &InvalidSecretReferenceError{Key: key, Reason: "malformed uri"}
	}

	// "/secrets/<name>/<version>" → ["", "secrets", name, version]
	segments := strings.Split(u.Path, "/")
	ref := KeyVaultReference{VaultOrigin: u.Scheme + "://" + u.Host}
	if len(segments) > 2 {
		ref.SecretName = segments[2]
	}
	if len(segments) > 3 {
		ref.SecretVersion = segments[3]
	}
	if ref.SecretName == "" {
		return KeyVaultReference{}, &InvalidSecretReferenceError{Key: key, Reason: "empty secret name"}
	}
	return ref, nil
}

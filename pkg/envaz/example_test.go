package envaz_test

import (
	"fmt"

	"github.com/lwmacct/261018-go-pkg-envaz/pkg/envaz"
)

// ExampleMerge 演示本地文件变量覆盖 Azure 变量
func ExampleMerge() {
	dotenv := envaz.Variables{"DATABASE_URL": "from_dotenv"}
	azure := envaz.Variables{"DATABASE_URL": "from_appconfig", "API_KEY": "from_keyvault"}

	merged := envaz.Merge(dotenv, azure)
	fmt.Println(merged["DATABASE_URL"])
	fmt.Println(merged["API_KEY"])

	// Output:
	// from_dotenv
	// from_keyvault
}

// ExampleParseKeyVaultReference 演示解析 Key Vault 引用
func ExampleParseKeyVaultReference() {
	ref, err := envaz.ParseKeyVaultReference("DATABASE_URL",
		`{"uri":"https://v.vault.azure.net/secrets/DatabaseUrl/abc123"}`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ref.VaultOrigin)
	fmt.Println(ref.SecretName)
	fmt.Println(ref.SecretVersion)

	_, err = envaz.ParseKeyVaultReference("BROKEN", `{"uri":"https://v.vault.azure.net/secrets/"}`)
	fmt.Println(err)

	// Output:
	// https://v.vault.azure.net
	// DatabaseUrl
	// abc123
	// Invalid Azure Key Vault URL: BROKEN (empty secret name)
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_SubCommands(t *testing.T) {
	for _, name := range []string{"run", "export", "check", "render", "version"} {
		assert.NotNil(t, Command.Command(name), "sub command %s", name)
	}
}

// TestCommand_FlagsMatchConfig 每个配置 flag 都能映射到 koanf key
func TestCommand_FlagsMatchConfig(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range Command.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}

	for _, want := range []string{
		"config",
		"dotenv-path", "dotenv-example", "dotenv-safe", "dotenv-allow-empty-values", "dotenv-override",
		"azure-connection-string", "azure-url", "azure-tenant-id", "azure-client-id", "azure-client-secret",
		"azure-labels", "azure-rate-limit", "azure-timeout",
	} {
		require.True(t, names[want], "missing flag --%s", want)
	}
}

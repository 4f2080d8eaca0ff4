package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netdox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
network:
  exclusions:
    - Junk.Example.COM
  roles:
    webserver:
      domains: [App.Example.Com]
      attrs:
        tier: frontend
locations:
  dc-1: ["192.168.0.0/24"]
nat:
  192.168.0.10: 100.64.0.10
snapshot:
  path: out/network.json
database:
  path: policy.db
plugins:
  enabled: [zonefile]
  zone_dir: /etc/zones
logging:
  level: debug
api:
  enabled: true
  port: 8080
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"junk.example.com"}, cfg.Network.Exclusions, "policy names lower-cased")
	assert.Equal(t, []string{"app.example.com"}, cfg.Network.Roles["webserver"].Domains)
	assert.Equal(t, "frontend", cfg.Network.Roles["webserver"].Attrs["tier"])
	assert.Equal(t, "out/network.json", cfg.Snapshot.Path)
	assert.Equal(t, []string{"zonefile"}, cfg.Plugins.Enabled)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.API.Host, "api host defaulted")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "network: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "network.json", cfg.Snapshot.Path)
	assert.Equal(t, []string{"*"}, cfg.Plugins.Enabled)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.StructuredFormat)
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	_, err := Load(writeConfig(t, "locations:\n  dc-1: [\"192.168.0.0/33\"]\n"))
	assert.Error(t, err, "invalid location subnet")

	_, err = Load(writeConfig(t, "nat:\n  192.168.0.300: 100.64.0.10\n"))
	assert.Error(t, err, "invalid nat pair")

	_, err = Load(writeConfig(t, "api:\n  enabled: true\n  port: 0\n"))
	assert.Error(t, err, "api enabled without a port")
}

func TestAPIConfigValidate(t *testing.T) {
	// A disabled API loads with port 0, but serving it anyway (the -serve
	// flag) must still reject the unset port.
	cfg, err := Load(writeConfig(t, "api:\n  enabled: false\n  port: 0\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.API.Validate())

	assert.Error(t, (&APIConfig{Port: 65536}).Validate())
	assert.NoError(t, (&APIConfig{Port: 8080}).Validate())
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolveConfigPath("explicit.yaml"))

	t.Setenv(envConfigPath, "from-env.yaml")
	assert.Equal(t, "from-env.yaml", ResolveConfigPath(""))

	t.Setenv(envConfigPath, "")
	assert.Equal(t, "netdox.yaml", ResolveConfigPath(""))
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test_config_*.yaml")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func TestMustLoad_ValidConfig(t *testing.T) {
	configContent := `
env: test
http_server:
  address: ":8080"
  timeout: 30s
  idle_timeout: 60s
remote_api:
  base_url: "http://localhost:3000"
  timeout: 5s
cache:
  backend: redis
  redis_connection:
    addr: "localhost:6379"
    password: "redis_pass"
    user: "redis_user"
    db: 1
    max_retries: 3
    dial_timeout: 5s
    timeout: 10s
rate_limit:
  rps: 10
  burst: 20
`
	t.Setenv("CONFIG_PATH", writeConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RemoteAPI.Timeout)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, "redis_pass", cfg.Password)
	assert.Equal(t, "redis_user", cfg.User)
	assert.Equal(t, 1, cfg.DB)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 10*time.Second, cfg.RedisConnection.Timeout)
	assert.Equal(t, 10.0, cfg.RPS)
	assert.Equal(t, 20, cfg.Burst)
}

func TestMustLoad_Defaults(t *testing.T) {
	configContent := `
env: test
`
	t.Setenv("CONFIG_PATH", writeConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "https://acode.app", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.RemoteAPI.Timeout)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, 25.0, cfg.RPS)
	assert.Equal(t, 50, cfg.Burst)
}

func TestConfig_String(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "env: test\n"))

	cfg := MustLoad()

	s := cfg.String()
	assert.Contains(t, s, "Env: test")
	assert.Contains(t, s, "Backend: memory")
}

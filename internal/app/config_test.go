package app

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
ip_addr = "0.0.0.0"
port = 9999
fallback_to_loopback = true
timezone = "UTC"

[auth]
password = "test"

[database]
dsn = ":memory:"
migrations_dir = "../../migrations"

[metrics]
addr = ":9888"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Server.FallbackToLoopback)
	assert.Equal(t, "test", cfg.Auth.Password)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, DefaultReadBuffer, cfg.Server.ReadBuffer)
	assert.Equal(t, "skolklocka:auth", cfg.Auth.PasswordKey)
	assert.Equal(t, 60, cfg.Metrics.CensusIntervalSeconds)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("empty.toml", []byte(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "data/school.db", cfg.Database.DSN)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsDir)
	assert.False(t, cfg.Auth.OpenReads)
	assert.Equal(t, net.IPv4(127, 0, 0, 1), cfg.ListenIP())
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvPassword, "from-env")
	t.Setenv(EnvDSN, "postgres://u:p@db/school")
	t.Setenv(EnvIPAddr, "10.1.2.3")

	cfg, err := ParseConfig("config.toml", []byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Password)
	assert.Equal(t, "postgres://u:p@db/school", cfg.Database.DSN)
	assert.Equal(t, "10.1.2.3", cfg.ListenIP().String())
}

func TestParseConfigRejects(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "bad toml", data: "[server"},
		{name: "port out of range", data: "[server]\nport = 70000"},
		{name: "unknown timezone", data: "[server]\ntimezone = \"Mars/Olympus\""},
		{name: "both secrets", data: "[auth]\npassword = \"a\"\npassword_hash = \"b\""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig("config.toml", []byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestListenIPFallsBackOnInvalidAddress(t *testing.T) {
	var cfg Config
	cfg.Server.IPAddr = "not-an-ip"
	assert.Equal(t, "127.0.0.1", cfg.ListenIP().String())

	cfg.Server.IPAddr = "::1"
	assert.Equal(t, "::1", cfg.ListenIP().String())
}

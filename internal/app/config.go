package app

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	EnvPassword = "SKOLKLOCKA_PASSWORD"
	EnvDSN      = "SKOLKLOCKA_DSN"
	EnvIPAddr   = "SKOLKLOCKA_IP_ADDR"

	DefaultPort       = 8888
	DefaultReadBuffer = 1024
)

type Config struct {
	Server struct {
		IPAddr             string `toml:"ip_addr"`
		Port               int    `toml:"port"`
		ReadBuffer         int    `toml:"read_buffer"`
		FallbackToLoopback bool   `toml:"fallback_to_loopback"`
		Timezone           string `toml:"timezone"`
	} `toml:"server"`

	Auth struct {
		Password     string `toml:"password"`
		PasswordHash string `toml:"password_hash"`
		RedisURL     string `toml:"redis_url"`
		PasswordKey  string `toml:"password_key"`
		OpenReads    bool   `toml:"open_reads"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Metrics struct {
		Addr                  string `toml:"addr"`
		CensusIntervalSeconds int    `toml:"census_interval_seconds"`
	} `toml:"metrics"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error reading config file %s\n> Error: %w", path, err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger.Debug.Printf("Loaded server config: %+v", config.Server)

	return &config, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Auth.Password = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvIPAddr); v != "" {
		c.Server.IPAddr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadBuffer == 0 {
		c.Server.ReadBuffer = DefaultReadBuffer
	}
	if c.Auth.PasswordKey == "" {
		c.Auth.PasswordKey = "skolklocka:auth"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "data/school.db"
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "./migrations"
	}
	if c.Metrics.CensusIntervalSeconds == 0 {
		c.Metrics.CensusIntervalSeconds = 60
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	if c.Server.ReadBuffer < 0 {
		return fmt.Errorf("server read_buffer must be positive")
	}
	if c.Metrics.CensusIntervalSeconds < 0 {
		return fmt.Errorf("metrics census_interval_seconds must be positive")
	}
	if c.Auth.Password != "" && c.Auth.PasswordHash != "" {
		return fmt.Errorf("auth password and password_hash are mutually exclusive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ListenIP returns the configured address, or loopback when it is unset or invalid.
func (c *Config) ListenIP() net.IP {
	raw := strings.TrimSpace(c.Server.IPAddr)
	if ip := net.ParseIP(raw); ip != nil {
		return ip
	}
	if raw != "" {
		logger.Error.Printf("Invalid ip_addr %q, falling back to loopback", raw)
	}
	return net.IPv4(127, 0, 0, 1)
}

func (c *Config) Location() (*time.Location, error) {
	switch c.Server.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// Package config handles server configuration: defaults first, then
// environment variables, then command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend names accepted by the -storage flag.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Config holds runtime settings for the privmsg server.
type Config struct {
	Addr            string
	StorageBackend  string
	StoragePath     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RateLimit       int
	RateWindow      time.Duration
	AuthRateLimit   int
	ShowVersion     bool
}

// LoadDefaults populates Config with development defaults. The JWT secret
// must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.StorageBackend = BackendBolt
	c.StoragePath = "privmsg.db"
	c.JWTSecret = "dev-secret"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.RateLimit = 100
	c.RateWindow = time.Minute
	c.AuthRateLimit = 10
}

func (c *Config) loadEnv() {
	if v := os.Getenv("PRIVMSG_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PRIVMSG_STORAGE"); v != "" {
		c.StorageBackend = v
	}
	if v := os.Getenv("PRIVMSG_STORAGE_PATH"); v != "" {
		c.StoragePath = v
	}
	if v := os.Getenv("PRIVMSG_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("PRIVMSG_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.AccessTokenTTL = d
		}
	}
	if v := os.Getenv("PRIVMSG_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshTokenTTL = d
		}
	}
	if v := os.Getenv("PRIVMSG_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit = n
		}
	}
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("privmsg-server", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "addr", c.Addr, "address and port to listen on")
	fs.StringVar(&c.StorageBackend, "storage", c.StorageBackend, "storage backend: bolt or sqlite")
	fs.StringVar(&c.StoragePath, "path", c.StoragePath, "path to the database file")
	fs.StringVar(&c.JWTSecret, "secret", c.JWTSecret, "JWT signing secret")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "refresh token lifetime")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "requests per window per client")
	fs.DurationVar(&c.RateWindow, "rate-window", c.RateWindow, "rate limit window")
	fs.IntVar(&c.AuthRateLimit, "auth-rate-limit", c.AuthRateLimit, "requests per window for auth endpoints")
	fs.BoolVar(&c.ShowVersion, "version", false, "show version information and exit")

	return fs.Parse(args)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.StorageBackend != BackendBolt && c.StorageBackend != BackendSQLite {
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

// Load builds a Config from defaults, environment and the given
// command-line arguments, in that order of precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.loadEnv()
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Package config resolves the proxy's runtime configuration: listen
// addresses, cache dimensions, and timeouts, from environment variables
// with sane defaults, the way the teacher resolves its daemon config from
// DMR_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	units "github.com/docker/go-units"
)

const (
	envListenAddr      = "CACHE_PROXY_LISTEN_ADDR"
	envAdminAddr       = "CACHE_PROXY_ADMIN_ADDR"
	envEntries         = "CACHE_PROXY_ENTRIES"
	envMaxBytes        = "CACHE_PROXY_MAX_BYTES"
	envFollowerTimeout = "CACHE_PROXY_FOLLOWER_TIMEOUT"
	envLogLevel        = "CACHE_PROXY_LOG_LEVEL"

	// DefaultEntries is the directory size used when spec.md doesn't
	// override it: N = 3.
	DefaultEntries = 3
	// DefaultMaxBytes is the per-entry capacity default: 500 MiB.
	DefaultMaxBytes = 500 * 1024 * 1024
)

// Config is the proxy daemon's resolved runtime configuration.
type Config struct {
	ListenAddr      string
	AdminAddr       string
	Entries         int
	MaxBytes        int
	FollowerTimeout time.Duration
	LogLevel        string
}

// Default returns the configuration used when no environment overrides are
// present.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		AdminAddr:       ":8081",
		Entries:         DefaultEntries,
		MaxBytes:        DefaultMaxBytes,
		FollowerTimeout: 10 * time.Second,
		LogLevel:        "info",
	}
}

// FromEnviron layers environment-variable overrides on top of Default().
func FromEnviron() (Config, error) {
	c := Default()

	if v := os.Getenv(envListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(envAdminAddr); v != "" {
		c.AdminAddr = v
	}
	if v := os.Getenv(envEntries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: %s must be a positive integer, got %q", envEntries, v)
		}
		c.Entries = n
	}
	if v := os.Getenv(envMaxBytes); v != "" {
		n, err := units.RAMInBytes(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s is not a valid byte size (e.g. 500MiB): %w", envMaxBytes, err)
		}
		c.MaxBytes = int(n)
	}
	if v := os.Getenv(envFollowerTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s is not a valid duration (e.g. 10s): %w", envFollowerTimeout, err)
		}
		c.FollowerTimeout = d
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}

	return c, nil
}

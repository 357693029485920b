package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/icecave/webproxy/cache"
	"go.uber.org/multierr"
)

// Config holds configuration values for commands.
type Config struct {
	CacheEnabled  bool
	CacheSize     int
	ObjectSize    int
	Concurrent    bool
	ProxyProtocol bool
	CheckAddress  string
	CheckTimeout  time.Duration
}

// GetConfigFromEnvironment creates Config object based on the shell environment.
func GetConfigFromEnvironment() *Config {
	return &Config{
		CacheEnabled:  envBool("CACHE_ENABLED", true),
		CacheSize:     envBytes("CACHE_SIZE", 1049000),
		ObjectSize:    envBytes("OBJECT_SIZE", 102400),
		Concurrent:    envBool("CONCURRENT", true),
		ProxyProtocol: envBool("PROXY_PROTOCOL", false),
		CheckAddress:  env("CHECK_ADDRESS", ":8080"),
		CheckTimeout:  envDuration("CHECK_TIMEOUT", 500*time.Millisecond),
	}
}

// Validate returns an error if the cache geometry can not be used.
func (config *Config) Validate() error {
	if !config.CacheEnabled {
		return nil
	}

	var err error

	if config.ObjectSize <= 0 {
		err = multierr.Append(err, fmt.Errorf(
			"OBJECT_SIZE must be positive, got %d",
			config.ObjectSize,
		))
	}

	if config.CacheSize < config.ObjectSize+cache.EntryOverhead {
		err = multierr.Append(err, fmt.Errorf(
			"CACHE_SIZE (%s) must be at least OBJECT_SIZE (%s) plus %d bytes",
			humanize.IBytes(uint64(config.CacheSize)),
			humanize.IBytes(uint64(config.ObjectSize)),
			cache.EntryOverhead,
		))
	}

	return err
}

func env(key string, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return def
}

func envBool(key string, def bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		i, _ := strconv.ParseBool(value)
		return i
	}

	return def
}

// envBytes parses a byte size such as "102400", "100 KiB" or "1MB".
func envBytes(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		n, err := humanize.ParseBytes(value)
		if err != nil || n > uint64(maxInt) {
			return def
		}
		return int(n)
	}

	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return def
		}
		return d
	}

	return def
}

const maxInt = int(^uint(0) >> 1)

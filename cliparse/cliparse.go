package cliparse

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int    `toml:"port" env:"PORT"`
	DatabaseURL  string `toml:"database_url" env:"DATABASE_URL"`
	DatabaseType string `toml:"database_type" env:"DATABASE_TYPE"`

	// Secrets (prefer env variables)
	AdminKeySalt     string `toml:"admin_key_salt" env:"ADMIN_KEY_SALT"`
	VoterTokenSecret string `toml:"voter_token_secret" env:"VOTER_TOKEN_SECRET"`
	IPHashSalt       string `toml:"ip_hash_salt" env:"IP_HASH_SALT"`

	// Hour-of-day for voting windows is evaluated in this zone
	TimeZone string `toml:"time_zone" env:"TIME_ZONE"`

	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`

	// Ballot submissions per second per client IP
	BallotRateLimit float64 `toml:"ballot_rate_limit" env:"BALLOT_RATE_LIMIT"`
	BallotRateBurst int     `toml:"ballot_rate_burst" env:"BALLOT_RATE_BURST"`

	// Addresses or CIDR ranges of reverse proxies whose X-Forwarded-For
	// and X-Real-IP headers are believed
	TrustedProxies []string `toml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`

	// Browser origins allowed by CORS; empty allows any origin
	CORSOrigins []string `toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Port:            3318,
		DatabaseType:    "sqlite",
		TimeZone:        "Local",
		LogLevel:        "info",
		LogFormat:       "auto",
		BallotRateLimit: 1,
		BallotRateBurst: 5,
	}
}

// Load builds the configuration from defaults, then the optional TOML file
// at configPath, then the optional dotenv file at envPath, then the process
// environment. Later layers win. Missing files are skipped.
func Load(configPath, envPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// godotenv never overrides variables that are already set
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return Config{}, fmt.Errorf("failed to load env file: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.AdminKeySalt
	}

	return cfg, nil
}

// Validate checks that required values are present and well formed.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid port")
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q (sqlite or postgres)", c.DatabaseType)
	}

	// Secrets - MUST be provided
	if c.AdminKeySalt == "" {
		return errors.New("ADMIN_KEY_SALT required")
	}
	if c.VoterTokenSecret == "" {
		return errors.New("VOTER_TOKEN_SECRET required")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	if c.BallotRateLimit < 0 || c.BallotRateBurst < 0 {
		return errors.New("ballot rate limit must not be negative")
	}
	for _, p := range c.TrustedProxies {
		if _, err := parseProxy(p); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", p, err)
		}
	}
	return nil
}

// ProxyPrefixes returns TrustedProxies as prefixes. A bare address becomes
// a single-host prefix. Entries Validate would reject are skipped.
func (c Config) ProxyPrefixes() []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if prefix, err := parseProxy(p); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}

func parseProxy(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Location returns the configured time zone, falling back to the server's
// local zone when the name cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

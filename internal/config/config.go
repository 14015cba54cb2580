// Package config loads server settings from defaults, an optional YAML
// file, a .env file and SHAREIT_* environment variables, in that order.
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SHAREIT_"

// Config holds the server settings.
type Config struct {
	Addr     string `yaml:"addr"`
	DSN      string `yaml:"dsn"`
	Log      string `yaml:"log"`
	LogLevel string `yaml:"log_level"`

	// JWTSecret signs bearer tokens. When empty a secret is generated once
	// and kept in the database.
	JWTSecret string `yaml:"jwt_secret"`
	// TrustUserHeader accepts X-Sharer-User-Id as the caller's identity.
	// Only enable it behind a gateway that sets the header itself.
	TrustUserHeader bool `yaml:"trust_user_header"`

	AllowOverlappingApprovals bool `yaml:"allow_overlapping_approvals"`

	// Login attempts per second and burst, per client address.
	LoginRate  float64 `yaml:"login_rate"`
	LoginBurst int     `yaml:"login_burst"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		DSN:             "shareit.sqlite3",
		LogLevel:        "info",
		TrustUserHeader: true,
		LoginRate:       0.5,
		LoginBurst:      5,
	}
}

// Load builds the configuration. path may be empty to skip the YAML file;
// a missing .env file is not an error.
func Load(path string) (Config, error) {
	return load(path, ".env", os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		// Does not override variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":       &cfg.Addr,
		"DSN":        &cfg.DSN,
		"LOG":        &cfg.Log,
		"LOG_LEVEL":  &cfg.LogLevel,
		"JWT_SECRET": &cfg.JWTSecret,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"TRUST_USER_HEADER":           &cfg.TrustUserHeader,
		"ALLOW_OVERLAPPING_APPROVALS": &cfg.AllowOverlappingApprovals,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvPrefix + "LOGIN_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sLOGIN_RATE: %w", EnvPrefix, err)
		}
		cfg.LoginRate = f
	}
	if v, ok := lookup(EnvPrefix + "LOGIN_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sLOGIN_BURST: %w", EnvPrefix, err)
		}
		cfg.LoginBurst = n
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn must not be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if c.LoginRate <= 0 {
		errs = append(errs, errors.New("login_rate must be positive"))
	}
	if c.LoginBurst <= 0 {
		errs = append(errs, errors.New("login_burst must be positive"))
	}
	return errors.Join(errs...)
}

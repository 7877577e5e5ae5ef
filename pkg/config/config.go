// Package config loads gifdex configuration from defaults, an optional
// .gifdex.yaml file, and GIFDEX_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for gifdex
type Config struct {
	Paths Paths       `mapstructure:"paths"`
	Fetch FetchConfig `mapstructure:"fetch"`
	Git   GitConfig   `mapstructure:"git"`
}

// Paths locates the manifest, schema, and asset directory.
type Paths struct {
	GifsDir  string `mapstructure:"gifs_dir"`
	Manifest string `mapstructure:"manifest"`
	// Schema points at an external JSON Schema file; empty selects the
	// embedded gif-schema.
	Schema string `mapstructure:"schema"`
}

// FetchConfig bounds the asset download.
type FetchConfig struct {
	MaxSizeBytes  int64         `mapstructure:"max_size_bytes"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryMinWait  time.Duration `mapstructure:"retry_min_wait"`
	RetryMaxWait  time.Duration `mapstructure:"retry_max_wait"`
	ContentType   string        `mapstructure:"content_type"`
}

// GitConfig controls the staging collaborator.
type GitConfig struct {
	Commit        bool   `mapstructure:"commit"`
	MessagePrefix string `mapstructure:"message_prefix"`
}

var defaultConfig = Config{
	Paths: Paths{
		GifsDir:  "gifs",
		Manifest: "gifs/index.json",
		Schema:   "",
	},
	Fetch: FetchConfig{
		MaxSizeBytes:  5 * 1024 * 1024,
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		RetryMinWait:  500 * time.Millisecond,
		RetryMaxWait:  5 * time.Second,
		ContentType:   "image/gif",
	},
	Git: GitConfig{
		Commit:        true,
		MessagePrefix: "Add new GIF: ",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	return defaultConfig
}

// Load reads configuration from defaults, an optional .gifdex.yaml in dir
// (or the working directory when dir is empty), and GIFDEX_* env vars.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("paths.gifs_dir", defaultConfig.Paths.GifsDir)
	v.SetDefault("paths.manifest", defaultConfig.Paths.Manifest)
	v.SetDefault("paths.schema", defaultConfig.Paths.Schema)
	v.SetDefault("fetch.max_size_bytes", defaultConfig.Fetch.MaxSizeBytes)
	v.SetDefault("fetch.timeout", defaultConfig.Fetch.Timeout)
	v.SetDefault("fetch.retry_attempts", defaultConfig.Fetch.RetryAttempts)
	v.SetDefault("fetch.retry_min_wait", defaultConfig.Fetch.RetryMinWait)
	v.SetDefault("fetch.retry_max_wait", defaultConfig.Fetch.RetryMaxWait)
	v.SetDefault("fetch.content_type", defaultConfig.Fetch.ContentType)
	v.SetDefault("git.commit", defaultConfig.Git.Commit)
	v.SetDefault("git.message_prefix", defaultConfig.Git.MessagePrefix)

	v.SetConfigName(".gifdex")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GIFDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Paths.GifsDir == "" {
		return fmt.Errorf("paths.gifs_dir must not be empty")
	}
	if c.Paths.Manifest == "" {
		return fmt.Errorf("paths.manifest must not be empty")
	}
	if c.Fetch.MaxSizeBytes <= 0 {
		return fmt.Errorf("fetch.max_size_bytes must be positive, got %d", c.Fetch.MaxSizeBytes)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("fetch.retry_attempts must be at least 1, got %d", c.Fetch.RetryAttempts)
	}
	return nil
}

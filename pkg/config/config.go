// Package config provides the GitScope configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when the config is nil.
var ErrNilConfig = errors.New("nil config")

// ForgeConfig is the configuration for the remote code-hosting forge.
type ForgeConfig struct {
	// Type is the forge type. Valid values are "github" and "gitlab".
	Type string `env:"TYPE" yaml:"type"`

	// BaseURL is the base URL of the forge API.
	// Leave empty to use the forge's public endpoint.
	BaseURL string `env:"BASE_URL" yaml:"base_url"`

	// Token is the access token used to authenticate against the forge.
	Token string `env:"TOKEN" yaml:"token"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// Sync is the cron spec for the commit synchronization job.
	Sync string `env:"SYNC" yaml:"sync"`
}

// SyncConfig is the configuration for commit synchronization.
type SyncConfig struct {
	// Exclude is a list of glob patterns of repository names to skip.
	Exclude []string `env:"EXCLUDE" envSeparator:"," yaml:"exclude"`
}

// Config is the configuration for GitScope.
type Config struct {
	// Name is the name of this GitScope instance.
	Name string `env:"NAME" yaml:"name"`

	// Forge is the configuration for the remote forge.
	Forge ForgeConfig `envPrefix:"FORGE_" yaml:"forge"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Jobs is the configuration for cron jobs.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// Sync is the configuration for commit synchronization.
	Sync SyncConfig `envPrefix:"SYNC_" yaml:"sync"`

	// DataPath is the path to the directory where GitScope will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	envs := []string{}
	if c == nil {
		return envs
	}

	envs = append(envs, []string{
		fmt.Sprintf("GITSCOPE_NAME=%s", c.Name),
		fmt.Sprintf("GITSCOPE_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("GITSCOPE_FORGE_TYPE=%s", c.Forge.Type),
		fmt.Sprintf("GITSCOPE_FORGE_BASE_URL=%s", c.Forge.BaseURL),
		fmt.Sprintf("GITSCOPE_FORGE_TOKEN=%s", c.Forge.Token),
		fmt.Sprintf("GITSCOPE_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("GITSCOPE_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("GITSCOPE_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("GITSCOPE_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("GITSCOPE_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("GITSCOPE_JOBS_SYNC=%s", c.Jobs.Sync),
		fmt.Sprintf("GITSCOPE_SYNC_EXCLUDE=%s", strings.Join(c.Sync.Exclude, ",")),
	}...)

	return envs
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("GITSCOPE_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("GITSCOPE_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "GITSCOPE_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o644) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the GITSCOPE_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("GITSCOPE_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string { // nolint:revive
	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(filepath.Join(c.DataPath, "config.yaml"))
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "GitScope",
		DataPath: DefaultDataPath(),
		Forge: ForgeConfig{
			Type: "github",
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:23234",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "gitscope.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Jobs: JobsConfig{
			Sync: "@every 10m",
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}

	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.Forge.Type = strings.ToLower(c.Forge.Type)
	switch c.Forge.Type {
	case "github", "gitlab":
	default:
		return fmt.Errorf("invalid forge type %q", c.Forge.Type)
	}

	c.Forge.BaseURL = strings.TrimSuffix(c.Forge.BaseURL, "/")

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	return nil
}

package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backends.
const (
	BackendPostgREST = "postgrest"
	BackendDiskv     = "diskv"
	BackendSQLite    = "sqlite"
)

const (
	defaultTable    = "notes"
	defaultRESTPath = "/rest/v1"
	defaultPath     = "~/.calnotes"
	sqliteFile      = "calnotes.db"
)

// Config selects and configures the row store.
type Config struct {
	Backend  string        `mapstructure:"backend" json:"backend"`
	URL      string        `mapstructure:"url" json:"url"`
	Key      string        `mapstructure:"key" json:"key"`
	Table    string        `mapstructure:"table" json:"table"`
	RESTPath string        `mapstructure:"rest_path" json:"rest_path"`
	Path     string        `mapstructure:"path" json:"path"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout"`
	Log      LogConfig     `mapstructure:"log" json:"log"`
}

// LogConfig controls where and how much is logged.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file"`
}

// LoadConfig reads .env, the .calnotes config file and CALNOTES_* variables,
// later sources winning.
func LoadConfig() (*Config, error) {
	// .env plays the role of a hand-edited config file with the endpoint and key.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("backend", BackendPostgREST)
	v.SetDefault("url", "")
	v.SetDefault("key", "")
	v.SetDefault("table", defaultTable)
	v.SetDefault("rest_path", defaultRESTPath)
	v.SetDefault("path", defaultPath)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetConfigName(".calnotes") // .yaml is implicit
	v.SetEnvPrefix("CALNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("CALNOTES_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}

	// Accept the variable names a hosted project hands out.
	if cfg.URL == "" {
		cfg.URL = os.Getenv("SUPABASE_URL")
	}
	if cfg.Key == "" {
		cfg.Key = os.Getenv("SUPABASE_ANON_KEY")
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.Key = strings.TrimSpace(cfg.Key)
	return cfg, nil
}

// Validate checks the fields the selected backend needs.
func (c *Config) Validate() error {
	remote := c.Backend == BackendPostgREST
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendPostgREST, BackendDiskv, BackendSQLite)),
		validation.Field(&c.URL, validation.When(remote, validation.Required, is.URL)),
		validation.Field(&c.Key, validation.When(remote, validation.Required)),
		validation.Field(&c.Table, validation.When(remote, validation.Required)),
		validation.Field(&c.Path, validation.When(!remote, validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Configured reports whether enough is set to attempt a connection.
func (c *Config) Configured() bool {
	if c.Backend != BackendPostgREST {
		return c.Path != ""
	}
	return c.URL != "" && c.Key != ""
}

// BasePath returns the local data directory with ~ expanded.
func (c *Config) BasePath() string {
	p, err := homedir.Expand(c.Path)
	if err != nil {
		return c.Path
	}
	return p
}

// Endpoint describes where rows live, for status lines.
func (c *Config) Endpoint() string {
	if c.Backend == BackendPostgREST {
		return c.URL
	}
	return c.Backend + ":" + c.BasePath()
}

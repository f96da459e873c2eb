// Package config handles the XDG configuration directory and repository settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "ghdaily"

	// SettingsFile is the optional settings file name (without extension).
	SettingsFile = "config"

	// CredentialsFile stores cached tokens.
	CredentialsFile = "credentials.json"

	// EnvPrefix prefixes environment overrides, e.g. GHDAILY_REPOSITORY.
	EnvPrefix = "GHDAILY"
)

// Defaults for the repository the tool files issues against.
const (
	DefaultRepository = "wTaylorBickelmann/trello_chat_app"
	DefaultLabel      = "daily-input"
	DefaultWorkflow   = "nightly.yml"
	DefaultRef        = "main"
	DefaultAPIURL     = "https://api.github.com"
	DefaultWebURL     = "https://github.com"
	DefaultServeAddr  = "127.0.0.1:8000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Repository string `mapstructure:"repository"`
	Label      string `mapstructure:"label"`
	Workflow   string `mapstructure:"workflow"`
	Ref        string `mapstructure:"ref"`
	APIURL     string `mapstructure:"api_url"`
	WebURL     string `mapstructure:"web_url"`
	ServeAddr  string `mapstructure:"serve_addr"`
}

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// String returns "owner/name".
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// New creates a Config for the default or specified config directory and
// loads repository settings from config.yaml and GHDAILY_* variables.
// A missing config.yaml is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(SettingsFile)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with built-in repository settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Dir:        dir,
		Repository: DefaultRepository,
		Label:      DefaultLabel,
		Workflow:   DefaultWorkflow,
		Ref:        DefaultRef,
		APIURL:     DefaultAPIURL,
		WebURL:     DefaultWebURL,
		ServeAddr:  DefaultServeAddr,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repository", DefaultRepository)
	v.SetDefault("label", DefaultLabel)
	v.SetDefault("workflow", DefaultWorkflow)
	v.SetDefault("ref", DefaultRef)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("web_url", DefaultWebURL)
	v.SetDefault("serve_addr", DefaultServeAddr)
}

// Validate checks the repository settings.
func (c *Config) Validate() error {
	if _, err := c.Repo(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if strings.TrimSpace(c.Workflow) == "" {
		return fmt.Errorf("workflow is required")
	}
	if strings.TrimSpace(c.Ref) == "" {
		return fmt.Errorf("ref is required")
	}
	for _, f := range []struct{ name, raw string }{
		{"api_url", c.APIURL},
		{"web_url", c.WebURL},
	} {
		u, err := url.Parse(f.raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", f.name, f.raw)
		}
	}
	return nil
}

// Repo parses Repository as "owner/name".
func (c *Config) Repo() (Repo, error) {
	parts := strings.Split(strings.TrimSpace(c.Repository), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository %q (want owner/name)", c.Repository)
	}
	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// CredentialsPath returns the path to the cached token file.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Dir, CredentialsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

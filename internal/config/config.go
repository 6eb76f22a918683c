// Package config handles the XDG configuration directory, the optional
// config file and environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the optional settings filename inside Dir.
	ConfigFile = "config.json"

	// DefaultEndpoint is the task collection URL used when nothing else is set.
	DefaultEndpoint = "http://localhost:3000/todos"

	endpointEnv       = "TODOCTL_ENDPOINT"
	requestTimeoutEnv = "TODOCTL_REQUEST_TIMEOUT"
	traceEnv          = "TODOCTL_TRACE"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Endpoint is the task collection URL.
	Endpoint string

	// RequestTimeout bounds each store request. Zero leaves it to the transport.
	RequestTimeout time.Duration

	// Trace prints OpenTelemetry spans to stderr.
	Trace bool
}

// fileConfig is the on-disk shape of config.json.
type fileConfig struct {
	Endpoint       string `json:"endpoint"`
	RequestTimeout string `json:"request_timeout"`
	Trace          bool   `json:"trace"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Endpoint: DefaultEndpoint}, nil
}

// Load builds a Config from defaults, then config.json in the config
// directory (if present), then TODOCTL_* environment variables, and
// validates the result.
func Load(configDir string) (*Config, error) {
	cfg, err := Read(configDir)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Read is Load without validation, for callers that layer more overrides
// on top before calling Validate.
func Read(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
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

// FilePath returns the path to the optional config file.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Save writes the endpoint, timeout and trace settings to config.json.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	fc := fileConfig{Endpoint: c.Endpoint, Trace: c.Trace}
	if c.RequestTimeout > 0 {
		fc.RequestTimeout = c.RequestTimeout.String()
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.FilePath(), append(data, '\n'), 0600)
}

// Validate checks that the settings can be used to reach a store.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrEndpointInvalid)
	}
	if err := validateServiceURL(c.Endpoint, ErrEndpointInvalid); err != nil {
		return err
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: must not be negative, got %s", ErrRequestTimeoutInvalid, c.RequestTimeout)
	}
	return nil
}

func (c *Config) readFile() error {
	data, err := os.ReadFile(c.FilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigFileInvalid, err)
	}

	if fc.Endpoint != "" {
		c.Endpoint = strings.TrimSpace(fc.Endpoint)
	}
	if fc.RequestTimeout != "" {
		d, err := parseTimeout(fc.RequestTimeout)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
	}
	c.Trace = c.Trace || fc.Trace
	return nil
}

func (c *Config) applyEnv() error {
	c.Endpoint = getEnv(endpointEnv, c.Endpoint)

	if raw := getEnv(requestTimeoutEnv, ""); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
	}

	if raw := getEnv(traceEnv, ""); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", traceEnv, raw, err)
		}
		c.Trace = on
	}
	return nil
}

func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequestTimeoutInvalid, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: must not be negative, got %s", ErrRequestTimeoutInvalid, d)
	}
	return d, nil
}

func validateServiceURL(urlStr string, baseErr error) error {
	if urlStr == "" {
		return fmt.Errorf("%w: service URL is empty", baseErr)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", baseErr, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got: %s",
			baseErr, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%w: host is empty", baseErr)
	}

	// Item URLs are built by appending the id to the path.
	if parsedURL.RawQuery != "" || parsedURL.ForceQuery || parsedURL.Fragment != "" {
		return fmt.Errorf("%w: query and fragment are not supported", baseErr)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return strings.TrimSpace(val)
	}

	return defaultVal
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/hoodscan/internal/neighborhood"
	"github.com/dshills/hoodscan/internal/retry"
)

// DefaultThreadURL is the discussion analyzed when no URL is given.
const DefaultThreadURL = "https://www.reddit.com/r/MovingToLosAngeles/comments/1kzwad1/moving_to_la_with_two_salaries_of_150k_working_in/"

// Config represents the hoodscan configuration.
type Config struct {
	ThreadURL     string                      `yaml:"threadURL"`
	Provider      string                      `yaml:"provider"`
	Model         string                      `yaml:"model"`
	DataDir       string                      `yaml:"dataDir"`
	Format        string                      `yaml:"format"`
	Audience      string                      `yaml:"audience"`
	Neighborhoods []neighborhood.Neighborhood `yaml:"neighborhoods,omitempty"`
	Fetch         FetchConfig                 `yaml:"fetch"`
	Summarize     SummarizeConfig             `yaml:"summarize"`
	Cache         CacheConfig                 `yaml:"cache"`
	Privacy       PrivacyConfig               `yaml:"privacy"`
	History       HistoryConfig               `yaml:"history"`
}

// FetchConfig controls how the thread is downloaded.
type FetchConfig struct {
	RetryDelay  time.Duration `yaml:"retryDelay"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"userAgent"`
}

// SummarizeConfig controls LLM requests.
type SummarizeConfig struct {
	RetryDelay  time.Duration `yaml:"retryDelay"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Multiplier  float64       `yaml:"multiplier"`
	MaxDelay    time.Duration `yaml:"maxDelay,omitempty"`
	MaxTokens   int           `yaml:"maxTokens"`
	Temperature float64       `yaml:"temperature"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

// PrivacyConfig controls redaction behavior.
type PrivacyConfig struct {
	RedactPII bool `yaml:"redactPII"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Formats lists the accepted report formats.
var Formats = []string{"text", "json", "markdown"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		ThreadURL: DefaultThreadURL,
		Provider:  "gemini",
		Model:     "gemini-2.0-flash-lite",
		DataDir:   "data",
		Format:    "text",
		Audience:  "two young professionals moving from Paris",
		Fetch: FetchConfig{
			RetryDelay: 10 * time.Second,
			Timeout:    30 * time.Second,
			UserAgent:  "hoodscan/1.0 (neighborhood research)",
		},
		Summarize: SummarizeConfig{
			RetryDelay: time.Second,
			Multiplier: 1,
			MaxTokens:  4096,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 86400,
		},
		Privacy: PrivacyConfig{
			RedactPII: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// FetchPolicy returns the retry policy for thread downloads.
func (c Config) FetchPolicy() retry.Policy {
	p := retry.Fixed(c.Fetch.RetryDelay)
	p.MaxAttempts = c.Fetch.MaxAttempts
	return p
}

// SummarizePolicy returns the retry policy for LLM requests.
func (c Config) SummarizePolicy() retry.Policy {
	return retry.Policy{
		Delay:       c.Summarize.RetryDelay,
		Multiplier:  c.Summarize.Multiplier,
		MaxDelay:    c.Summarize.MaxDelay,
		MaxAttempts: c.Summarize.MaxAttempts,
	}
}

// Table builds the alias table, falling back to the built-in neighborhoods
// when the config carries none.
func (c Config) Table() (*neighborhood.Table, error) {
	if len(c.Neighborhoods) == 0 {
		return neighborhood.NewTable(neighborhood.Defaults())
	}
	return neighborhood.NewTable(c.Neighborhoods)
}

// HistoryPath returns the run history database path, defaulting to a file
// next to the config file.
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.ThreadURL == "" {
		errs = append(errs, errors.New("threadURL must be set"))
	}
	if c.Provider == "" {
		errs = append(errs, errors.New("provider must be set"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("dataDir must be set"))
	}
	if !validFormat(c.Format) {
		errs = append(errs, fmt.Errorf("format must be one of %v, got %q", Formats, c.Format))
	}
	if c.Fetch.RetryDelay < 0 || c.Summarize.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}
	if c.Fetch.MaxAttempts < 0 || c.Summarize.MaxAttempts < 0 {
		errs = append(errs, errors.New("maxAttempts must not be negative"))
	}
	if _, err := c.Table(); err != nil {
		errs = append(errs, fmt.Errorf("neighborhoods: %w", err))
	}
	return errors.Join(errs...)
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// ConfigDir returns the platform-appropriate config directory for hoodscan.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hoodscan"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "hoodscan"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "hoodscan"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "hoodscan"), nil
	default:
		return filepath.Join(home, ".config", "hoodscan"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile decodes the file at path over base. A missing file leaves base
// unchanged. An empty path means the default config path.
func LoadFile(path string, base Config) (Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return base, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("reading config file: %w", err)
	}
	// Fields absent from the file keep their value from base.
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or to the default path when path is empty.
func Save(path string, cfg Config) (string, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set)
// and uses the same keys as SetField.
func Load(path string, overrides map[string]string) (Config, error) {
	cfg, err := LoadFile(path, Default())
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKeys maps environment variables to config keys.
var envKeys = []struct{ env, key string }{
	{"HOODSCAN_THREAD_URL", "threadURL"},
	{"HOODSCAN_PROVIDER", "provider"},
	{"HOODSCAN_MODEL", "model"},
	{"HOODSCAN_DATA_DIR", "dataDir"},
	{"HOODSCAN_FORMAT", "format"},
	{"HOODSCAN_AUDIENCE", "audience"},
	{"HOODSCAN_REDACT_PII", "privacy.redactPII"},
	{"HOODSCAN_CACHE", "cache.enabled"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the names accepted by SetField.
var Keys = []string{
	"threadURL", "provider", "model", "dataDir", "format", "audience",
	"fetch.retryDelay", "fetch.maxAttempts", "fetch.timeout", "fetch.userAgent",
	"summarize.retryDelay", "summarize.maxAttempts", "summarize.multiplier",
	"summarize.maxDelay", "summarize.maxTokens", "summarize.temperature",
	"cache.enabled", "cache.dir", "cache.ttlSeconds",
	"privacy.redactPII",
	"history.enabled", "history.path",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "threadURL":
		cfg.ThreadURL = value
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "dataDir":
		cfg.DataDir = value
	case "format":
		if !validFormat(value) {
			return fmt.Errorf("format must be one of %v", Formats)
		}
		cfg.Format = value
	case "audience":
		cfg.Audience = value
	case "fetch.retryDelay":
		cfg.Fetch.RetryDelay, err = parseDuration(key, value)
	case "fetch.maxAttempts":
		cfg.Fetch.MaxAttempts, err = parseInt(key, value)
	case "fetch.timeout":
		cfg.Fetch.Timeout, err = parseDuration(key, value)
	case "fetch.userAgent":
		cfg.Fetch.UserAgent = value
	case "summarize.retryDelay":
		cfg.Summarize.RetryDelay, err = parseDuration(key, value)
	case "summarize.maxAttempts":
		cfg.Summarize.MaxAttempts, err = parseInt(key, value)
	case "summarize.multiplier":
		cfg.Summarize.Multiplier, err = parseFloat(key, value)
	case "summarize.maxDelay":
		cfg.Summarize.MaxDelay, err = parseDuration(key, value)
	case "summarize.maxTokens":
		cfg.Summarize.MaxTokens, err = parseInt(key, value)
	case "summarize.temperature":
		cfg.Summarize.Temperature, err = parseFloat(key, value)
	case "cache.enabled":
		cfg.Cache.Enabled, err = parseBool(key, value)
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		cfg.Cache.TTLSeconds, err = parseInt(key, value)
	case "privacy.redactPII":
		cfg.Privacy.RedactPII, err = parseBool(key, value)
	case "history.enabled":
		cfg.History.Enabled, err = parseBool(key, value)
	case "history.path":
		cfg.History.Path = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return err
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false: %w", key, err)
	}
	return b, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 10s: %w", key, err)
	}
	return d, nil
}

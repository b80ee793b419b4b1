package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"github.com/joho/godotenv"
	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxLength caps the bytes of text a single tool call accepts.
	DefaultMaxLength = 1 << 20
	// DefaultPasswordLength is used when a password is requested without a length.
	DefaultPasswordLength = 16
)

// Config holds the static settings the conversions run with.
type Config struct {
	DefaultEncoding string `yaml:"default_encoding"`
	TabSize         int    `yaml:"tab_size"`
	URLSafe         string `yaml:"url_safe"`
	Timezone        string `yaml:"timezone"`
	MaxLength       int    `yaml:"max_length"`
	PasswordLength  int    `yaml:"password_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultEncoding: convert.DefaultCharset,
		TabSize:         convert.DefaultTabSize,
		URLSafe:         convert.DefaultURLSafe,
		Timezone:        "Local",
		MaxLength:       DefaultMaxLength,
		PasswordLength:  DefaultPasswordLength,
	}
}

var (
	global     *Config
	globalOnce sync.Once
	globalMu   sync.RWMutex
)

// Init loads the configuration and makes it available through Get.
func Init(logger *logrus.Logger) *Config {
	cfg := Load(logger)
	globalMu.Lock()
	global = cfg
	globalMu.Unlock()
	globalOnce.Do(func() {})
	return cfg
}

// Get returns the process configuration, loading it quietly on first use if Init
// was never called.
func Get() *Config {
	globalOnce.Do(func() {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		cfg := Load(quiet)
		globalMu.Lock()
		global = cfg
		globalMu.Unlock()
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Load builds a configuration from the defaults, the YAML config file, an optional
// .env file and finally the process environment. Problems are logged and the
// offending value keeps its previous setting.
func Load(logger *logrus.Logger) *Config {
	cfg := Default()

	path := FilePath()
	if err := cfg.mergeFile(path); err != nil {
		logger.WithError(err).WithField("path", path).Warn("Ignoring config file")
	}

	dotenv, err := readDotEnv(envFilePath())
	if err != nil {
		logger.WithError(err).Warn("Ignoring .env file")
	}
	cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, logger)

	cfg.validate(logger)
	logger.WithFields(logrus.Fields{
		"encoding": cfg.DefaultEncoding,
		"tab_size": cfg.TabSize,
		"timezone": cfg.Timezone,
	}).Debug("Configuration loaded")
	return cfg
}

// FilePath returns the YAML config location, ~/.mcp-stringutils/config.yaml unless
// STRINGUTILS_CONFIG overrides it.
func FilePath() string {
	if custom := os.Getenv("STRINGUTILS_CONFIG"); custom != "" {
		return custom
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".mcp-stringutils", "config.yaml")
}

func envFilePath() string {
	if custom := os.Getenv("STRINGUTILS_ENV_FILE"); custom != "" {
		return custom
	}
	return ".env"
}

// mergeFile overlays the fields present in the YAML file at path. A missing file
// is not an error. An explicit empty url_safe is kept.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return godotenv.Read(path)
}

func (c *Config) applyEnv(lookup func(string) (string, bool), logger *logrus.Logger) {
	if v, ok := lookup("STRINGUTILS_DEFAULT_ENCODING"); ok && v != "" {
		c.DefaultEncoding = strings.TrimSpace(v)
	}
	if v, ok := lookup("STRINGUTILS_URL_SAFE"); ok {
		c.URLSafe = v
	}
	if v, ok := lookup("STRINGUTILS_TIMEZONE"); ok && v != "" {
		c.Timezone = strings.TrimSpace(v)
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"STRINGUTILS_TAB_SIZE", &c.TabSize},
		{"STRINGUTILS_MAX_LENGTH", &c.MaxLength},
		{"STRINGUTILS_PASSWORD_LENGTH", &c.PasswordLength},
	}
	for _, field := range ints {
		v, ok := lookup(field.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			logger.WithField("key", field.key).WithField("value", v).Warn("Ignoring invalid integer setting")
			continue
		}
		*field.target = n
	}
}

// validate resets settings that cannot be used to their defaults.
func (c *Config) validate(logger *logrus.Logger) {
	def := Default()
	if c.TabSize <= 0 {
		logger.WithField("tab_size", c.TabSize).Warn("Invalid tab size, using default")
		c.TabSize = def.TabSize
	}
	if c.MaxLength <= 0 {
		logger.WithField("max_length", c.MaxLength).Warn("Invalid max length, using default")
		c.MaxLength = def.MaxLength
	}
	if c.PasswordLength <= 0 {
		logger.WithField("password_length", c.PasswordLength).Warn("Invalid password length, using default")
		c.PasswordLength = def.PasswordLength
	}
	if c.DefaultEncoding == "" {
		c.DefaultEncoding = def.DefaultEncoding
	}
	if _, err := c.Location(); err != nil {
		logger.WithError(err).WithField("timezone", c.Timezone).Warn("Unknown timezone, using local time")
		c.Timezone = def.Timezone
	}
}

// Location resolves Timezone. Empty and "Local" mean the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	return LoadLocation(c.Timezone)
}

// LoadLocation resolves a timezone name. Empty and "Local" mean time.Local.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Options returns the conversion options implied by the configuration.
func (c *Config) Options() convert.Options {
	opts := convert.DefaultOptions()
	opts.Charset = c.DefaultEncoding
	opts.URLSafe = c.URLSafe
	opts.TabSize = c.TabSize
	if loc, err := c.Location(); err == nil {
		opts.Location = loc
	}
	return opts
}

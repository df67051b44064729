package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env        string `yaml:"env"`
	BaseURL    string `yaml:"base_url"`
	Shortener  `yaml:"shortener"`
	Log        `yaml:"log"`
	EventSink  `yaml:"event_sink"`
	Reaper     `yaml:"reaper"`
	HTTPServer `yaml:"http_server"`
}

type Shortener struct {
	DefaultValidityMinutes int `yaml:"default_validity_minutes"`
}

var defaultShortener = Shortener{
	DefaultValidityMinutes: 30,
}

type Log struct {
	Level   string `yaml:"level"`
	JSON    bool   `yaml:"json"`
	Concise bool   `yaml:"concise"`
}

var defaultLog = Log{
	Level:   "info",
	Concise: true,
}

// SlogLevel parses Level. Unknown values fall back to info.
func (l *Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type EventSink struct {
	BufferSize int `yaml:"buffer_size"`
}

var defaultEventSink = EventSink{
	BufferSize: 256,
}

// Reaper controls eviction of URLs that expired more than Retention ago.
type Reaper struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"`
}

var defaultReaper = Reaper{
	Interval:  time.Minute,
	Retention: 24 * time.Hour,
}

type HTTPServer struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CertFile        string        `yaml:"cert_file"`
	KeyFile         string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:            8080,
	ReadTimeout:     5 * time.Second,
	WriteTimeout:    10 * time.Second,
	IdleTimeout:     time.Minute,
	MaxHeaderBytes:  1 << 20,
	ShutdownTimeout: 10 * time.Second,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Load reads the YAML file at path on top of the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPServer.Port)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("%w: unknown env %q", ErrInvalidConfig, c.Env)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}

	if c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.HTTPServer.Port)
	}

	if c.Env == EnvProd && (c.HTTPServer.CertFile == "" || c.HTTPServer.KeyFile == "") {
		return fmt.Errorf("%w: cert_file and key_file are required in prod", ErrInvalidConfig)
	}

	if c.Shortener.DefaultValidityMinutes <= 0 {
		return fmt.Errorf("%w: default validity must be positive", ErrInvalidConfig)
	}

	if c.EventSink.BufferSize <= 0 {
		return fmt.Errorf("%w: event sink buffer size must be positive", ErrInvalidConfig)
	}

	if c.Reaper.Enabled && c.Reaper.Interval <= 0 {
		return fmt.Errorf("%w: reaper interval must be positive", ErrInvalidConfig)
	}

	if c.Reaper.Retention < 0 {
		return fmt.Errorf("%w: reaper retention must not be negative", ErrInvalidConfig)
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.Shortener = defaultShortener
	cfg.Log = defaultLog
	cfg.EventSink = defaultEventSink
	cfg.Reaper = defaultReaper
	cfg.HTTPServer = defaultHTTPServer
}

// Package config loads the mathpop YAML configuration file and applies
// MATHPOP_* environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

// Flag storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Quiz   Quiz   `yaml:"quiz"`
	Log    Log    `yaml:"log"`
	DB     DB     `yaml:"db"`
	Flags  Flags  `yaml:"flags"`
	Server Server `yaml:"server"`
}

type Quiz struct {
	Mode           string `yaml:"mode"`
	StartLevel     int    `yaml:"start_level"`
	WrapLevel      int    `yaml:"wrap_level"`
	CorrectDelay   string `yaml:"correct_delay"`
	IncorrectDelay string `yaml:"incorrect_delay"`
	TickInterval   string `yaml:"tick_interval"`
	NoticeDuration string `yaml:"notice_duration"`
	HistoryWindow  int    `yaml:"history_window"`
	MaxAttempts    int    `yaml:"max_attempts"`
	RetryBackoff   string `yaml:"retry_backoff"`
	NoRepeat       *bool  `yaml:"no_repeat"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type DB struct {
	Path string `yaml:"path"`
}

type Flags struct {
	Backend string `yaml:"backend"`
	Redis   Redis  `yaml:"redis"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	TTL      string `yaml:"ttl"`
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Quiz: Quiz{
			Mode:       "adaptive",
			StartLevel: 1,
			WrapLevel:  6,
		},
		Log:   Log{Level: "info"},
		Flags: Flags{Backend: BackendSQLite, Redis: Redis{Addr: "localhost:6379", Prefix: "mathpop"}},
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load reads the YAML file at path over Default and applies environment
// overrides. An empty path resolves via DefaultPath; a missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns $MATHPOP_CONFIG or $XDG_CONFIG_HOME/mathpop/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("MATHPOP_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathpop", "config.yaml")
}

// Validate checks the values that cannot fall back to a default.
func (c Config) Validate() error {
	if _, err := session.ParseMode(c.Quiz.Mode); err != nil {
		return fmt.Errorf("quiz.mode: %w", err)
	}
	switch c.Flags.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("flags.backend: unknown backend %q (want sqlite, redis or memory)", c.Flags.Backend)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"MATHPOP_MODE":           &c.Quiz.Mode,
		"MATHPOP_LOG_LEVEL":      &c.Log.Level,
		"MATHPOP_LOG_PATH":       &c.Log.Path,
		"MATHPOP_DB":             &c.DB.Path,
		"MATHPOP_FLAGS_BACKEND":  &c.Flags.Backend,
		"MATHPOP_REDIS_ADDR":     &c.Flags.Redis.Addr,
		"MATHPOP_REDIS_PASSWORD": &c.Flags.Redis.Password,
		"MATHPOP_SERVER_ADDR":    &c.Server.Addr,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MATHPOP_START_LEVEL": &c.Quiz.StartLevel,
		"MATHPOP_REDIS_DB":    &c.Flags.Redis.DB,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("MATHPOP_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	return nil
}

// Duration parses a duration string or returns the fallback if it is
// empty or malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}

// SessionConfig maps the quiz section onto controller tunables.
func (c Config) SessionConfig() session.Config {
	sc := session.DefaultConfig()
	if m, err := session.ParseMode(c.Quiz.Mode); err == nil {
		sc.Mode = m
	}
	if c.Quiz.StartLevel > 0 {
		sc.StartLevel = c.Quiz.StartLevel
	}
	if c.Quiz.WrapLevel > 0 {
		sc.WrapLevel = c.Quiz.WrapLevel
	}
	sc.CorrectDelay = Duration(c.Quiz.CorrectDelay, sc.CorrectDelay)
	sc.IncorrectDelay = Duration(c.Quiz.IncorrectDelay, sc.IncorrectDelay)
	sc.TickInterval = Duration(c.Quiz.TickInterval, sc.TickInterval)
	sc.NoticeDuration = Duration(c.Quiz.NoticeDuration, sc.NoticeDuration)
	return sc
}

// ProducerConfig maps the quiz section onto the generative producer.
func (c Config) ProducerConfig() problemgen.Config {
	pc := problemgen.DefaultConfig()
	if c.Quiz.HistoryWindow > 0 {
		pc.HistoryWindow = c.Quiz.HistoryWindow
	}
	if c.Quiz.MaxAttempts > 0 {
		pc.MaxAttempts = c.Quiz.MaxAttempts
	}
	pc.RetryBackoff = Duration(c.Quiz.RetryBackoff, pc.RetryBackoff)
	return pc
}

// BankOptions maps the quiz section onto the static bank producer.
func (c Config) BankOptions() problemgen.BankOptions {
	opts := problemgen.DefaultBankOptions()
	if c.Quiz.NoRepeat != nil {
		opts.NoRepeat = *c.Quiz.NoRepeat
	}
	return opts
}

// RedisTTL is how long a flag key lives; zero keeps it forever.
func (c Config) RedisTTL() time.Duration {
	return Duration(c.Flags.Redis.TTL, 0)
}

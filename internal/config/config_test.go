package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathpop/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
quiz:
  mode: standard
  start_level: 4
  correct_delay: 1s
  tick_interval: bogus
  max_attempts: 5
  no_repeat: false
flags:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 24h
server:
  allowed_origins: [https://quiz.example]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	sc := cfg.SessionConfig()
	assert.Equal(t, session.ModeStandard, sc.Mode)
	assert.Equal(t, 4, sc.StartLevel)
	assert.Equal(t, time.Second, sc.CorrectDelay)
	assert.Equal(t, session.DefaultConfig().TickInterval, sc.TickInterval, "malformed duration falls back")

	assert.Equal(t, 5, cfg.ProducerConfig().MaxAttempts)
	assert.False(t, cfg.BankOptions().NoRepeat)
	assert.Equal(t, BackendRedis, cfg.Flags.Backend)
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL())
	assert.Equal(t, []string{"https://quiz.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.Server.Addr, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "quiz:\n  mode: standard\n")
	t.Setenv("MATHPOP_MODE", "ai")
	t.Setenv("MATHPOP_START_LEVEL", "7")
	t.Setenv("MATHPOP_FLAGS_BACKEND", "memory")
	t.Setenv("MATHPOP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, session.ModeAdaptive, cfg.SessionConfig().Mode)
	assert.Equal(t, 7, cfg.Quiz.StartLevel)
	assert.Equal(t, BackendMemory, cfg.Flags.Backend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"bad yaml", "quiz: [", nil},
		{"bad mode", "quiz:\n  mode: turbo\n", nil},
		{"bad backend", "flags:\n  backend: etcd\n", nil},
		{"bad int env", "", map[string]string{"MATHPOP_START_LEVEL": "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("MATHPOP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/mathpop/config.yaml", DefaultPath())

	t.Setenv("MATHPOP_CONFIG", "/etc/mathpop.yaml")
	assert.Equal(t, "/etc/mathpop.yaml", DefaultPath())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, Duration("", 3*time.Second))
	assert.Equal(t, 3*time.Second, Duration("-1s", 3*time.Second))
	assert.Equal(t, 150*time.Millisecond, Duration("150ms", 3*time.Second))
}

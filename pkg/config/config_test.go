package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brickingsoft/fio/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Driver.Backend)
	assert.Equal(t, 1, cfg.Driver.Drivers)
	assert.Equal(t, "round_robin", cfg.Driver.Balancer)
	assert.Equal(t, 1024, cfg.Driver.Queue)
	assert.False(t, cfg.Metrics.Enabled)

	uring, err := cfg.UringOptions()
	require.NoError(t, err)
	assert.Equal(t, uint32(config.DefaultEntries), uring.Entries)
	assert.Equal(t, config.DefaultIdleTimeout, uring.IdleTimeout)

	legacy, err := cfg.LegacyOptions()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPollEvents, legacy.Events)
	assert.Equal(t, config.DefaultRetryInitial, legacy.RetryInitial)
	assert.Equal(t, config.DefaultRetryMax, legacy.RetryMax)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, "fio.yaml", `
logging:
  level: warn
driver:
  backend: legacy
  drivers: 4
  balancer: least
  uring:
    entries: 512
    curve:
      - n: 1
        timeout: 5us
      - n: 16
        timeout: 1ms
  legacy:
    events: 32
    retry_initial: 1ms
    retry_max: 20ms
metrics:
  enabled: true
  addr: 127.0.0.1:9200
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, "legacy", cfg.Driver.Backend)
	assert.Equal(t, 4, cfg.Driver.Drivers)
	assert.Equal(t, "least", cfg.Driver.Balancer)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9200", cfg.Metrics.Addr)

	uring, err := cfg.UringOptions()
	require.NoError(t, err)
	assert.Equal(t, uint32(512), uring.Entries)
	assert.Equal(t, []config.CurvePoint{
		{N: 1, Timeout: 5 * time.Microsecond},
		{N: 16, Timeout: time.Millisecond},
	}, uring.Curve)

	legacy, err := cfg.LegacyOptions()
	require.NoError(t, err)
	assert.Equal(t, 32, legacy.Events)
	assert.Equal(t, time.Millisecond, legacy.RetryInitial)
	assert.Equal(t, 20*time.Millisecond, legacy.RetryMax)
	assert.Equal(t, config.DefaultIdleTimeout, legacy.IdleTimeout)

	options, err := cfg.Options(nil, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, options, 3)

	driverOptions, err := cfg.DriverOptions(nil, prometheus.NewRegistry())
	require.NoError(t, err)
	// kind, queue, entries, idle, events, poll idle, retry, curve, metrics
	assert.Len(t, driverOptions, 9)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FIO_LOGGING_LEVEL", "debug")
	t.Setenv("FIO_DRIVER_BACKEND", "uring")
	t.Setenv("FIO_DRIVER_LEGACY_EVENTS", "64")
	t.Setenv("FIO_DRIVER_URING_IDLE_TIMEOUT", "3s")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "uring", cfg.Driver.Backend)

	legacy, err := cfg.LegacyOptions()
	require.NoError(t, err)
	assert.Equal(t, 64, legacy.Events)

	uring, err := cfg.UringOptions()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, uring.IdleTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	path := writeConfig(t, ".env", "FIO_DRIVER_DRIVERS=3\nFIO_DRIVER_BALANCER=random\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("FIO_DRIVER_DRIVERS")
		_ = os.Unsetenv("FIO_DRIVER_BALANCER")
	})

	cfg, err := config.Load("", path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Driver.Drivers)
	assert.Equal(t, "random", cfg.Driver.Balancer)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("FIO_DRIVER_BACKEND", "kqueue")
	_, err := config.Load("")
	require.Error(t, err)
	assert.True(t, config.IsInvalid(err))
}

func TestLoad_InvalidRetry(t *testing.T) {
	path := writeConfig(t, "fio.yaml", `
driver:
  legacy:
    retry_initial: 10ms
    retry_max: 1ms
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, config.IsInvalid(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

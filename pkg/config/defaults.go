package config

import (
	"strings"
	"time"
)

const (
	DefaultLogLevel     = "INFO"
	DefaultBackend      = "auto"
	DefaultDrivers      = 1
	DefaultBalancer     = "round_robin"
	DefaultQueue        = 1024
	DefaultEntries      = 256
	DefaultIdleTimeout  = 15 * time.Second
	DefaultPollEvents   = 128
	DefaultRetryInitial = 50 * time.Microsecond
	DefaultRetryMax     = 10 * time.Millisecond
	DefaultMetricsAddr  = ":9100"
)

func defaultValues() map[string]any {
	return map[string]any{
		"logging.level":               DefaultLogLevel,
		"driver.backend":              DefaultBackend,
		"driver.drivers":              DefaultDrivers,
		"driver.balancer":             DefaultBalancer,
		"driver.queue":                DefaultQueue,
		"driver.cpu_affinity":         false,
		"driver.uring.entries":        DefaultEntries,
		"driver.uring.idle_timeout":   DefaultIdleTimeout,
		"driver.legacy.events":        DefaultPollEvents,
		"driver.legacy.idle_timeout":  DefaultIdleTimeout,
		"driver.legacy.retry_initial": DefaultRetryInitial,
		"driver.legacy.retry_max":     DefaultRetryMax,
		"metrics.enabled":             false,
		"metrics.addr":                DefaultMetricsAddr,
	}
}

// ApplyDefaults fills zero values and normalizes case.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	d := &cfg.Driver
	if d.Backend == "" {
		d.Backend = DefaultBackend
	}
	d.Backend = strings.ToLower(d.Backend)
	if d.Drivers == 0 {
		d.Drivers = DefaultDrivers
	}
	if d.Balancer == "" {
		d.Balancer = DefaultBalancer
	}
	d.Balancer = strings.ToLower(d.Balancer)
	if d.Queue == 0 {
		d.Queue = DefaultQueue
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
}

func applyUringDefaults(cfg *UringConfig) {
	if cfg.Entries == 0 {
		cfg.Entries = DefaultEntries
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
}

func applyLegacyDefaults(cfg *LegacyConfig) {
	if cfg.Events == 0 {
		cfg.Events = DefaultPollEvents
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.RetryInitial == 0 {
		cfg.RetryInitial = DefaultRetryInitial
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = DefaultRetryMax
	}
}

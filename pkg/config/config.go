// Package config loads fio settings from a file, .env files and FIO_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "FIO"

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Driver  DriverConfig  `mapstructure:"driver"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`
}

type DriverConfig struct {
	Backend     string `mapstructure:"backend" validate:"required,oneof=auto uring legacy"`
	Drivers     int    `mapstructure:"drivers" validate:"min=1,max=256"`
	Balancer    string `mapstructure:"balancer" validate:"required,oneof=round_robin random least"`
	Queue       int    `mapstructure:"queue" validate:"min=1,max=65536"`
	CPUAffinity bool   `mapstructure:"cpu_affinity"`

	// Uring and Legacy are decoded by UringOptions and LegacyOptions.
	Uring  map[string]any `mapstructure:"uring"`
	Legacy map[string]any `mapstructure:"legacy"`
}

// UringConfig tunes the io_uring backend.
type UringConfig struct {
	Entries     uint32        `mapstructure:"entries" validate:"min=1,max=32768"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	Curve       []CurvePoint  `mapstructure:"curve" validate:"dive"`
}

type CurvePoint struct {
	N       uint32        `mapstructure:"n" validate:"min=1"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LegacyConfig tunes the epoll backend.
type LegacyConfig struct {
	Events       int           `mapstructure:"events" validate:"min=1,max=4096"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	RetryInitial time.Duration `mapstructure:"retry_initial" validate:"gt=0"`
	RetryMax     time.Duration `mapstructure:"retry_max" validate:"gtefield=RetryInitial"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// Load
// read configPath (optional) and envFiles (optional) into a validated Config.
// Environment variables win over the file, e.g. FIO_DRIVER_BACKEND=legacy.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, errors.New(
				"load env files failed",
				errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
				errors.WithWrap(err),
			)
		}
	}

	v := viper.New()
	setupViper(v, configPath)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(
				"read config file failed",
				errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
				errors.WithMeta("path", configPath),
				errors.WithWrap(err),
			)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(
			"unmarshal config failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithWrap(err),
		)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys must be known for AutomaticEnv to reach them through Unmarshal
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	}
}

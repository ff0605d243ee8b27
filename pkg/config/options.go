package config

import (
	"log/slog"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio"
	"github.com/brickingsoft/fio/pkg/driver"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
)

// UringOptions decodes and validates the driver.uring section.
func (cfg *Config) UringOptions() (*UringConfig, error) {
	var uring UringConfig
	if err := decode(cfg.Driver.Uring, &uring); err != nil {
		return nil, err
	}
	applyUringDefaults(&uring)
	if err := validate.Struct(&uring); err != nil {
		return nil, validationError(err)
	}
	return &uring, nil
}

// LegacyOptions decodes and validates the driver.legacy section.
func (cfg *Config) LegacyOptions() (*LegacyConfig, error) {
	var legacy LegacyConfig
	if err := decode(cfg.Driver.Legacy, &legacy); err != nil {
		return nil, err
	}
	applyLegacyDefaults(&legacy)
	if err := validate.Struct(&legacy); err != nil {
		return nil, validationError(err)
	}
	return &legacy, nil
}

func decode(input map[string]any, output any) error {
	if len(input) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return errors.New(
			"decode options failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithWrap(err),
		)
	}
	if err = decoder.Decode(input); err != nil {
		return errors.New(
			"decode options failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithWrap(errors.Join(ErrInvalid, err)),
		)
	}
	return nil
}

// DriverOptions maps the driver section to driver options. reg may be nil, logger may be nil.
func (cfg *Config) DriverOptions(logger *slog.Logger, reg prometheus.Registerer) ([]driver.Option, error) {
	kind, err := driver.ParseKind(cfg.Driver.Backend)
	if err != nil {
		return nil, err
	}
	uring, err := cfg.UringOptions()
	if err != nil {
		return nil, err
	}
	legacy, err := cfg.LegacyOptions()
	if err != nil {
		return nil, err
	}
	options := []driver.Option{
		driver.WithKind(kind),
		driver.WithQueueSize(cfg.Driver.Queue),
		driver.WithEntries(uring.Entries),
		driver.WithWaitCQEIdleTimeout(uring.IdleTimeout),
		driver.WithPollEvents(legacy.Events),
		driver.WithPollIdleTimeout(legacy.IdleTimeout),
		driver.WithRetryInterval(legacy.RetryInitial, legacy.RetryMax),
	}
	if len(uring.Curve) > 0 {
		curve := make(driver.Curve, 0, len(uring.Curve))
		for _, point := range uring.Curve {
			curve = append(curve, driver.CurvePoint{N: point.N, Timeout: point.Timeout})
		}
		options = append(options, driver.WithWaitCQETimeoutCurve(curve))
	}
	if cfg.Driver.CPUAffinity {
		options = append(options, driver.WithCPUAffinity(true))
	}
	if logger != nil {
		options = append(options, driver.WithLogger(logger))
	}
	if reg != nil && cfg.Metrics.Enabled {
		options = append(options, driver.WithMetrics(reg))
	}
	return options, nil
}

// Options maps the whole configuration to fio.Startup options.
func (cfg *Config) Options(logger *slog.Logger, reg prometheus.Registerer) ([]fio.Option, error) {
	driverOptions, err := cfg.DriverOptions(logger, reg)
	if err != nil {
		return nil, err
	}
	lb, err := driver.ParseLoadBalancer(cfg.Driver.Balancer)
	if err != nil {
		return nil, err
	}
	return []fio.Option{
		fio.WithDrivers(cfg.Driver.Drivers),
		fio.WithLoadBalancer(lb),
		fio.WithDriverOptions(driverOptions...),
	}, nil
}

package driver

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Kind                 Kind
	Entries              uint32
	QueueSize            int
	WaitCQEIdleTimeout   time.Duration
	WaitCQETimeoutCurve  Curve
	PollEvents           int
	PollIdleTimeout      time.Duration
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	InterruptRetries     int
	DrainTimeout         time.Duration
	CPUAffinity          bool
	Logger               *slog.Logger
	Registerer           prometheus.Registerer

	index int
}

func defaultOptions() Options {
	return Options{
		Kind:                 KindAuto,
		Entries:              256,
		QueueSize:            1024,
		WaitCQEIdleTimeout:   15 * time.Second,
		WaitCQETimeoutCurve:  defaultCurve,
		PollEvents:           128,
		PollIdleTimeout:      15 * time.Second,
		RetryInitialInterval: 50 * time.Microsecond,
		RetryMaxInterval:     10 * time.Millisecond,
		InterruptRetries:     8,
		DrainTimeout:         time.Second,
		CPUAffinity:          false,
		Logger:               nil,
		Registerer:           nil,
	}
}

type Option func(*Options)

// WithKind
// setup backend kind, default is KindAuto.
func WithKind(kind Kind) Option {
	return func(o *Options) {
		o.Kind = kind
	}
}

// WithEntries
// setup iouring's entries.
func WithEntries(entries uint32) Option {
	return func(o *Options) {
		if entries > 0 {
			o.Entries = entries
		}
	}
}

// WithQueueSize
// setup capacity of the submission queue shared by submitters and the loop.
// a full queue makes submissions fail with ErrBusy.
func WithQueueSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.QueueSize = size
		}
	}
}

// WithWaitCQEIdleTimeout
// setup how long an idle completion loop sleeps before checking itself.
func WithWaitCQEIdleTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.WaitCQEIdleTimeout = timeout
		}
	}
}

// WithWaitCQETimeoutCurve
// setup the wait-n-completions curve of the completion loop.
func WithWaitCQETimeoutCurve(curve Curve) Option {
	return func(o *Options) {
		if len(curve) > 0 {
			o.WaitCQETimeoutCurve = curve
		}
	}
}

// WithPollEvents
// setup epoll_wait batch size.
func WithPollEvents(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.PollEvents = n
		}
	}
}

// WithPollIdleTimeout
// setup how long an idle readiness loop sleeps before checking itself.
func WithPollIdleTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.PollIdleTimeout = timeout
		}
	}
}

// WithRetryInterval
// setup the exponential backoff used to re-attempt would-block operations
// that declare no readiness interest.
func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(o *Options) {
		if initial > 0 {
			o.RetryInitialInterval = initial
		}
		if maxInterval >= initial && maxInterval > 0 {
			o.RetryMaxInterval = maxInterval
		}
	}
}

// WithInterruptRetries
// setup how many times an interrupted attempt is repeated at once.
func WithInterruptRetries(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.InterruptRetries = n
		}
	}
}

// WithDrainTimeout
// setup how long Close waits for in-flight operations.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.DrainTimeout = timeout
		}
	}
}

// WithCPUAffinity
// pin the loop thread of a driver to one CPU. Drivers of a Group take consecutive CPUs.
func WithCPUAffinity(enabled bool) Option {
	return func(o *Options) {
		o.CPUAffinity = enabled
	}
}

// withIndex is the position of the driver in its Group.
func withIndex(index int) Option {
	return func(o *Options) {
		o.index = index
	}
}

// WithLogger
// setup logger, default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics
// register driver metrics into reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

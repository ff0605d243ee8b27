package driver

import (
	"log/slog"
	"sync/atomic"

	"github.com/brickingsoft/errors"
	"github.com/google/uuid"
)

// correlation ids below userDataReserved tag the driver's own submissions.
const (
	userDataNone uint64 = iota
	userDataWakeup
	userDataCancel
	userDataClose
	userDataReserved
)

// backend is the strategy a Driver runs, chosen once in New.
type backend interface {
	submit(op operation) error
	cancel(op operation)
	closeFd(fd int)
	pending() int
	shutdown() error
}

// Driver runs operations on one backend. A Driver owns one loop goroutine; use a Group for
// more workers.
type Driver struct {
	id      string
	kind    Kind
	backend backend
	logger  *slog.Logger
	metrics *metrics
	seq     atomic.Uint64
	closed  atomic.Bool
}

// New
// create a driver. KindAuto uses io_uring when the kernel supports IORING_OP_STATX and the ring
// can be set up, and falls back to epoll otherwise.
func New(options ...Option) (d *Driver, err error) {
	opts := defaultOptions()
	for _, option := range options {
		option(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d = &Driver{
		id:      uuid.NewString(),
		metrics: noopMetrics,
	}

	kind := opts.Kind
	if kind == KindAuto {
		kind = autoKind()
	}

	b, bErr := d.start(logger, kind, opts)
	if bErr != nil && opts.Kind == KindAuto && kind == KindUring {
		d.logger.Warn("io_uring backend unavailable, fall back to legacy", "err", bErr)
		kind = KindLegacy
		b, bErr = d.start(logger, kind, opts)
	}
	if bErr != nil {
		d = nil
		err = errors.New(
			"new driver failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpNew),
			errors.WithMeta(errMetaBackendKey, kind.String()),
			errors.WithWrap(bErr),
		)
		return
	}
	d.backend = b

	d.logger.Debug("driver started")
	return
}

// start sets up metrics and the backend of kind, the backend loop reads both from its first
// iteration.
func (d *Driver) start(logger *slog.Logger, kind Kind, opts Options) (b backend, err error) {
	d.kind = kind
	d.logger = logger.With("driver", d.id, "backend", kind.String())
	d.metrics = noopMetrics
	if opts.Registerer != nil {
		m, mErr := newMetrics(opts.Registerer, d.id, kind)
		if mErr != nil {
			err = mErr
			return
		}
		d.metrics = m
	}
	if b, err = newBackend(d, kind, opts); err != nil {
		d.metrics.unregister()
		d.metrics = noopMetrics
	}
	return
}

func (d *Driver) ID() string {
	return d.id
}

func (d *Driver) Kind() Kind {
	return d.kind
}

// Pending returns the number of operations the backend still tracks, abandoned ones included.
func (d *Driver) Pending() int {
	return d.backend.pending()
}

func (d *Driver) Logger() *slog.Logger {
	return d.logger
}

// Close
// stop the backend. In-flight operations are canceled and fail with ErrClosed or ErrCanceled.
func (d *Driver) Close() (err error) {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	err = d.backend.shutdown()
	d.metrics.unregister()
	d.logger.Debug("driver closed")
	return
}

func (d *Driver) nextId() uint64 {
	return d.seq.Add(1) + userDataReserved
}

func (d *Driver) submit(op operation) error {
	if d.closed.Load() {
		return ErrClosed
	}
	name := op.able().Name()
	// counted before the loop can complete it
	d.metrics.submitted(name)
	if err := d.backend.submit(op); err != nil {
		d.metrics.rejected(name, err)
		return err
	}
	d.metrics.accepted(name)
	return nil
}

func (d *Driver) cancel(op operation) {
	d.metrics.canceled(op.able().Name())
	d.backend.cancel(op)
}

func (d *Driver) closeFd(fd int) {
	if d.closed.Load() {
		closeFdNow(d.logger, fd)
		return
	}
	d.backend.closeFd(fd)
}

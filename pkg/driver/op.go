package driver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/brickingsoft/errors"
)

type Result struct {
	N   int
	Err error
}

// Completion is the terminal value of a successful operation.
type Completion[T OpAble] struct {
	Data T
	N    int
}

const (
	statusProcessing int32 = iota
	statusCompleted
	statusAbandoned
)

// operation is the backend side view of an Op.
type operation interface {
	id() uint64
	able() OpAble
	complete(n int, err error)
}

// Op is one submitted operation. It yields exactly one terminal result.
//
// An Op abandoned before its result arrives, by Cancel or by the context passed to Await,
// stays registered with the backend until the kernel is done with its payload.
type Op[T OpAble] struct {
	data    T
	seq     uint64
	driver  *Driver
	status  atomic.Int32
	settled atomic.Bool
	awaited atomic.Bool
	ch      chan Result
	dropped chan struct{}
	start   time.Time
}

// SubmitWith
// hand data to the driver's backend. Submission failures (closed or busy driver, released
// descriptor) are returned at once and nothing is queued.
func SubmitWith[T OpAble](d *Driver, data T) (op *Op[T], err error) {
	if d == nil {
		err = errors.New(
			"submit failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpSubmit),
			errors.WithWrap(ErrClosed),
		)
		return
	}
	fd := data.Fd()
	if fd == nil {
		err = errors.New(
			"submit failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpSubmit),
			errors.WithWrap(ErrInvalidFd),
		)
		return
	}
	if acquireErr := fd.acquire(); acquireErr != nil {
		err = errors.New(
			"submit failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpSubmit),
			errors.WithWrap(acquireErr),
		)
		return
	}
	op = &Op[T]{
		data:    data,
		driver:  d,
		ch:      make(chan Result, 1),
		dropped: make(chan struct{}),
		start:   time.Now(),
	}
	op.seq = d.nextId()
	op.status.Store(statusProcessing)
	if submitErr := d.submit(op); submitErr != nil {
		fd.settle()
		op = nil
		err = errors.New(
			"submit failed",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaOpKey, errMetaOpSubmit),
			errors.WithWrap(submitErr),
		)
		return
	}
	return
}

// Id returns the correlation id.
func (op *Op[T]) Id() uint64 {
	return op.seq
}

func (op *Op[T]) Data() T {
	return op.data
}

// Await
// wait for the terminal result. When ctx is done first the operation is abandoned and
// ErrUncompleted is returned, unless the result already arrived.
func (op *Op[T]) Await(ctx context.Context) (c Completion[T], err error) {
	if !op.awaited.CompareAndSwap(false, true) {
		err = errors.From(ErrAwaited)
		return
	}
	select {
	case r := <-op.ch:
		c, err = op.deliver(r)
		break
	case <-op.dropped:
		err = errors.From(ErrUncompleted, errors.WithWrap(ErrCanceled))
		break
	case <-ctx.Done():
		if op.abandon() {
			err = errors.From(ErrUncompleted, errors.WithWrap(ctx.Err()))
			break
		}
		// result has been sent, so continue to fetch it
		r := <-op.ch
		c, err = op.deliver(r)
		break
	}
	return
}

// Cancel drops the operation. Await returns ErrUncompleted afterward unless the result
// already arrived.
func (op *Op[T]) Cancel() {
	op.abandon()
}

func (op *Op[T]) abandon() bool {
	if !op.status.CompareAndSwap(statusProcessing, statusAbandoned) {
		return false
	}
	close(op.dropped)
	op.driver.cancel(op)
	return true
}

func (op *Op[T]) deliver(r Result) (c Completion[T], err error) {
	if r.Err != nil {
		err = r.Err
		return
	}
	c = Completion[T]{Data: op.data, N: r.N}
	return
}

func (op *Op[T]) id() uint64 {
	return op.seq
}

func (op *Op[T]) able() OpAble {
	return op.data
}

// complete is called by the backend once the kernel no longer touches the payload.
func (op *Op[T]) complete(n int, err error) {
	if !op.settled.CompareAndSwap(false, true) {
		return
	}
	op.data.Fd().settle()
	op.driver.metrics.completed(op.data.Name(), time.Since(op.start), err)
	if op.status.CompareAndSwap(statusProcessing, statusCompleted) {
		op.ch <- Result{N: n, Err: err}
	}
}

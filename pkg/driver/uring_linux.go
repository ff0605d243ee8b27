//go:build linux

package driver

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/pawelgaczynski/giouring"
)

type requestKind uint8

const (
	requestSubmit requestKind = iota
	requestCancel
	requestClose
	requestStop
)

type request struct {
	kind requestKind
	op   operation
	fd   int
}

// uring is the completion backend. One goroutine, locked to its thread, owns the ring and the
// pending table; submitters reach it through ready.
type uring struct {
	driver       *Driver
	ring         *giouring.Ring
	entries      uint32
	ready        chan request
	wakeup       *wakeup
	wakeupArmed  bool
	table        *pendingTable[operation]
	orphan       *request
	leaked       []operation
	idleTimeout  time.Duration
	curve        Curve
	drainTimeout time.Duration
	mu           sync.RWMutex
	running      atomic.Bool
	wg           sync.WaitGroup
	err          error
}

func newUring(d *Driver, opts Options) (b backend, err error) {
	ch := make(chan *uring)
	go func(d *Driver, opts Options, ch chan<- *uring) {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if opts.CPUAffinity {
			pinThread(d.logger, opts.index)
		}

		ring, ringErr := giouring.CreateRing(opts.Entries)
		if ringErr != nil {
			ch <- &uring{err: syscallError("io_uring_setup", ringErr)}
			return
		}
		w, wakeupErr := newWakeup(false)
		if wakeupErr != nil {
			ring.QueueExit()
			ch <- &uring{err: wakeupErr}
			return
		}
		u := &uring{
			driver:       d,
			ring:         ring,
			entries:      opts.Entries,
			ready:        make(chan request, opts.QueueSize),
			wakeup:       w,
			table:        newPendingTable[operation](int(opts.Entries)),
			idleTimeout:  opts.WaitCQEIdleTimeout,
			curve:        opts.WaitCQETimeoutCurve,
			drainTimeout: opts.DrainTimeout,
		}
		u.running.Store(true)
		u.wg.Add(1)
		ch <- u
		u.process()
	}(d, opts, ch)

	u := <-ch
	if u.err != nil {
		err = u.err
		return
	}
	b = u
	return
}

func (u *uring) submit(op operation) error {
	return u.push(request{kind: requestSubmit, op: op})
}

// cancel asks the kernel to cancel op. When the queue is full the request is dropped, the op
// then completes normally and is released by its completion.
func (u *uring) cancel(op operation) {
	if err := u.push(request{kind: requestCancel, op: op}); err != nil {
		u.driver.logger.Debug("cancel not queued", "id", op.id(), "err", err)
	}
}

func (u *uring) closeFd(fd int) {
	if err := u.push(request{kind: requestClose, fd: fd}); err != nil {
		closeFdNow(u.driver.logger, fd)
	}
}

func (u *uring) pending() int {
	return u.table.len()
}

func (u *uring) push(req request) error {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if !u.running.Load() {
		return ErrClosed
	}
	select {
	case u.ready <- req:
		u.wakeup.notify()
		return nil
	default:
		return ErrBusy
	}
}

func (u *uring) shutdown() error {
	u.mu.Lock()
	if !u.running.CompareAndSwap(true, false) {
		u.mu.Unlock()
		return nil
	}
	u.mu.Unlock()

	u.wakeup.signal()
	u.ready <- request{kind: requestStop}
	u.wakeup.signal()
	u.wg.Wait()
	u.wakeup.close()

	// evict remain
	for len(u.ready) > 0 {
		u.evict(<-u.ready)
	}
	return u.err
}

func (u *uring) evict(req request) {
	switch req.kind {
	case requestSubmit:
		req.op.complete(0, ErrClosed)
		break
	case requestClose:
		closeFdNow(u.driver.logger, req.fd)
		break
	default:
		break
	}
}

func (u *uring) process() {
	defer u.wg.Done()

	var (
		stopped             bool
		prepared            uint32
		completed           uint32
		waitIdleTime        = syscall.NsecToTimespec(u.idleTimeout.Nanoseconds())
		transmission        = NewCurveTransmission(u.curve)
		waitNr, waitTimeout = transmission.Up()
		cqes                = make([]*giouring.CompletionQueueEvent, u.entries*2)
	)

	for !stopped {
		if !u.wakeupArmed {
			u.armWakeup()
		}
		// prepare
		prepared, stopped = u.prepareReady()
		// submit
		if _, submitErr := u.ring.Submit(); submitErr != nil {
			if submitErr != syscall.EINTR && submitErr != syscall.EAGAIN && submitErr != syscall.EBUSY {
				u.driver.logger.Error("io_uring submit failed", "err", submitErr)
			}
		}
		if stopped {
			break
		}
		// wait
		if prepared == 0 && completed == 0 {
			u.wakeup.idle.Store(true)
			if len(u.ready) > 0 {
				u.wakeup.idle.Store(false)
				continue
			}
			_, _ = u.ring.WaitCQEs(1, &waitIdleTime, nil)
		} else if _, waitErr := u.ring.WaitCQEs(waitNr, waitTimeout, nil); waitErr != nil {
			// fewer than waitNr arrived in time
			waitNr, waitTimeout = transmission.Down()
		} else {
			waitNr, waitTimeout = transmission.Up()
		}
		u.wakeup.idle.Store(false)
		// complete
		completed = u.completeCQE(cqes)
	}

	u.drain(cqes)
}

// prepareReady moves queued requests into ring slots until the ring or the queue is empty.
func (u *uring) prepareReady() (prepared uint32, stopped bool) {
	if u.orphan != nil {
		if !u.prepareSQE(*u.orphan) {
			return
		}
		u.orphan = nil
		prepared++
	}
	for n := len(u.ready); n > 0; n-- {
		req := <-u.ready
		if req.kind == requestStop {
			stopped = true
			return
		}
		if !u.prepareSQE(req) {
			u.orphan = &req
			return
		}
		prepared++
	}
	return
}

func (u *uring) prepareSQE(req request) bool {
	sqe := u.ring.GetSQE()
	if sqe == nil {
		return false
	}
	switch req.kind {
	case requestSubmit:
		req.op.able().Entry().pack(sqe, req.op.id())
		u.table.add(req.op.id(), req.op)
		break
	case requestCancel:
		sqe.PrepareCancel64(req.op.id(), 0)
		sqe.UserData = userDataCancel
		break
	case requestClose:
		Entry{OpCode: OpClose, Fd: int32(req.fd)}.pack(sqe, userDataClose)
		break
	default:
		sqe.PrepareNop()
		break
	}
	return true
}

func (u *uring) armWakeup() {
	sqe := u.ring.GetSQE()
	if sqe == nil {
		return
	}
	entry := Entry{
		OpCode: OpRead,
		Fd:     int32(u.wakeup.fd),
		Addr:   uint64(uintptr(unsafe.Pointer(&u.wakeup.buf[0]))),
		Len:    uint32(len(u.wakeup.buf)),
	}
	entry.pack(sqe, userDataWakeup)
	u.wakeupArmed = true
}

func (u *uring) completeCQE(cqes []*giouring.CompletionQueueEvent) (completed uint32) {
	peeked := u.ring.PeekBatchCQE(cqes)
	if peeked == 0 {
		return
	}
	for i := uint32(0); i < peeked; i++ {
		cqe := cqes[i]
		cqes[i] = nil

		switch cqe.UserData {
		case userDataNone, userDataCancel, userDataClose:
			continue
		case userDataWakeup:
			u.wakeupArmed = false
			continue
		default:
			break
		}

		op, ok := u.table.take(cqe.UserData)
		if !ok {
			continue
		}
		var (
			opN   = int(cqe.Res)
			opErr error
		)
		if opN < 0 {
			if -opN == int(syscall.ECANCELED) {
				opErr = ErrCanceled
			} else {
				opErr = os.NewSyscallError(op.able().Name(), syscall.Errno(-opN))
			}
			opN = 0
		}
		op.complete(opN, opErr)
		completed++
	}
	u.ring.CQAdvance(peeked)
	return
}

// drain cancels what is still in flight and waits for the kernel to give the payloads back.
func (u *uring) drain(cqes []*giouring.CompletionQueueEvent) {
	deadline := time.Now().Add(u.drainTimeout)
	if u.orphan != nil {
		u.evict(*u.orphan)
		u.orphan = nil
	}
	u.table.each(func(id uint64, _ operation) {
		if sqe := u.ring.GetSQE(); sqe != nil {
			sqe.PrepareCancel64(id, 0)
			sqe.UserData = userDataCancel
		}
	})
	waitTime := syscall.NsecToTimespec((10 * time.Millisecond).Nanoseconds())
	for u.table.len() > 0 && time.Now().Before(deadline) {
		_, _ = u.ring.Submit()
		_, _ = u.ring.WaitCQEs(1, &waitTime, nil)
		u.completeCQE(cqes)
	}
	u.ring.QueueExit()
	// the kernel may still own these buffers, keep them reachable
	u.table.drain(func(_ uint64, op operation) {
		u.leaked = append(u.leaked, op)
		op.complete(0, ErrClosed)
	})
	if n := len(u.leaked); n > 0 {
		u.driver.logger.Warn("operations still in flight at shutdown", "count", n)
	}
}

func (e Entry) pack(sqe *giouring.SubmissionQueueEntry, userData uint64) {
	sqe.PrepareNop()
	sqe.OpCode = e.OpCode
	sqe.Flags = e.Flags
	sqe.Fd = e.Fd
	sqe.Off = e.Off
	sqe.Addr = e.Addr
	sqe.Len = e.Len
	sqe.OpcodeFlags = e.OpcodeFlags
	sqe.UserData = userData
}

//go:build linux

package driver

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sys/unix"
)

// task is a readiness backend entry.
type task struct {
	op       operation
	dir      Direction
	fd       int
	backoff  *backoff.ExponentialBackOff
	due      time.Time
	deferred bool
	watching bool
}

// legacy is the readiness backend: attempt directly, wait on epoll (or a backoff timer when the
// operation declares no interest) and attempt again.
type legacy struct {
	driver           *Driver
	poller           *poller
	wakeup           *wakeup
	ready            chan request
	table            *pendingTable[*task]
	waiters          map[int][]*task
	deferred         []*task
	pollEvents       int
	idleTimeout      time.Duration
	retryInitial     time.Duration
	retryMax         time.Duration
	interruptRetries int
	mu               sync.RWMutex
	running          atomic.Bool
	wg               sync.WaitGroup
}

func newLegacy(d *Driver, opts Options) (b backend, err error) {
	p, pollerErr := newPoller()
	if pollerErr != nil {
		err = pollerErr
		return
	}
	w, wakeupErr := newWakeup(true)
	if wakeupErr != nil {
		p.close()
		err = wakeupErr
		return
	}
	if watchErr := p.watch(w.fd, unix.EPOLLIN); watchErr != nil {
		w.close()
		p.close()
		err = watchErr
		return
	}
	l := &legacy{
		driver:           d,
		poller:           p,
		wakeup:           w,
		ready:            make(chan request, opts.QueueSize),
		table:            newPendingTable[*task](opts.QueueSize),
		waiters:          make(map[int][]*task),
		pollEvents:       opts.PollEvents,
		idleTimeout:      opts.PollIdleTimeout,
		retryInitial:     opts.RetryInitialInterval,
		retryMax:         opts.RetryMaxInterval,
		interruptRetries: opts.InterruptRetries,
	}
	l.running.Store(true)
	l.wg.Add(1)
	go l.process(opts.CPUAffinity, opts.index)
	b = l
	return
}

func (l *legacy) submit(op operation) error {
	return l.push(request{kind: requestSubmit, op: op})
}

// cancel removes op. Attempts only run on the loop goroutine, so once removed nothing touches
// the payload any more.
func (l *legacy) cancel(op operation) {
	if err := l.push(request{kind: requestCancel, op: op}); err != nil {
		l.driver.logger.Debug("cancel not queued", "id", op.id(), "err", err)
	}
}

func (l *legacy) closeFd(fd int) {
	closeFdNow(l.driver.logger, fd)
}

func (l *legacy) pending() int {
	return l.table.len()
}

func (l *legacy) push(req request) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.running.Load() {
		return ErrClosed
	}
	select {
	case l.ready <- req:
		l.wakeup.notify()
		return nil
	default:
		return ErrBusy
	}
}

func (l *legacy) shutdown() error {
	l.mu.Lock()
	if !l.running.CompareAndSwap(true, false) {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	l.wakeup.signal()
	l.ready <- request{kind: requestStop}
	l.wakeup.signal()
	l.wg.Wait()
	l.wakeup.close()

	for len(l.ready) > 0 {
		req := <-l.ready
		if req.kind == requestSubmit {
			req.op.complete(0, ErrClosed)
		}
	}
	return nil
}

func (l *legacy) process(affinity bool, index int) {
	defer l.wg.Done()
	if affinity {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		pinThread(l.driver.logger, index)
	}

	var (
		stopped bool
		events  = make([]unix.EpollEvent, l.pollEvents)
	)
	for !stopped {
		if stopped = l.accept(); stopped {
			break
		}
		l.retryDue(time.Now())

		l.wakeup.idle.Store(true)
		if len(l.ready) > 0 {
			l.wakeup.idle.Store(false)
			continue
		}
		n, waitErr := l.poller.wait(events, l.waitMillis(time.Now()))
		l.wakeup.idle.Store(false)
		if waitErr != nil {
			l.driver.logger.Error("epoll wait failed", "err", waitErr)
			continue
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == l.wakeup.fd {
				l.wakeup.consume()
				continue
			}
			l.wake(fd)
		}
	}

	l.table.drain(func(_ uint64, t *task) {
		t.op.complete(0, ErrClosed)
	})
	l.waiters = nil
	l.deferred = nil
	l.poller.close()
}

// accept handles queued requests, reports whether a stop was requested.
func (l *legacy) accept() (stopped bool) {
	for n := len(l.ready); n > 0; n-- {
		req := <-l.ready
		switch req.kind {
		case requestSubmit:
			able := req.op.able()
			t := &task{
				op:  req.op,
				dir: able.Interest(),
				fd:  able.Fd().Raw(),
			}
			l.table.add(req.op.id(), t)
			l.attempt(t)
			break
		case requestCancel:
			if t, ok := l.table.take(req.op.id()); ok {
				l.forget(t)
				t.op.complete(0, ErrCanceled)
			}
			break
		case requestClose:
			closeFdNow(l.driver.logger, req.fd)
			break
		case requestStop:
			stopped = true
			return
		}
	}
	return
}

func (l *legacy) attempt(t *task) {
	able := t.op.able()
	for i := 0; ; i++ {
		n, err := able.Attempt()
		switch classify(err) {
		case outcomeSuccess:
			l.finish(t, n, nil)
			return
		case outcomeInterrupted:
			if i < l.interruptRetries {
				l.driver.metrics.retried(able.Name())
				continue
			}
			l.postpone(t)
			return
		case outcomeWouldBlock:
			if t.dir == DirectionNone {
				l.postpone(t)
				return
			}
			if watchErr := l.watch(t); watchErr != nil {
				l.finish(t, 0, watchErr)
			}
			return
		default:
			l.finish(t, 0, syscallError(able.Name(), err))
			return
		}
	}
}

func (l *legacy) finish(t *task, n int, err error) {
	if _, ok := l.table.take(t.op.id()); !ok {
		return
	}
	l.forget(t)
	t.op.complete(n, err)
}

// postpone schedules a retry of an operation without readiness interest.
func (l *legacy) postpone(t *task) {
	if t.backoff == nil {
		t.backoff = newRetryBackOff(l.retryInitial, l.retryMax)
	}
	t.due = time.Now().Add(t.backoff.NextBackOff())
	if !t.deferred {
		t.deferred = true
		l.deferred = append(l.deferred, t)
	}
	l.driver.metrics.retried(t.op.able().Name())
}

func (l *legacy) watch(t *task) error {
	if err := l.poller.watch(t.fd, directionEvents(t.dir)); err != nil {
		return err
	}
	if !t.watching {
		t.watching = true
		l.waiters[t.fd] = append(l.waiters[t.fd], t)
	}
	l.driver.metrics.retried(t.op.able().Name())
	return nil
}

// wake re-attempts every task waiting on fd.
func (l *legacy) wake(fd int) {
	waiting := l.waiters[fd]
	delete(l.waiters, fd)
	l.poller.unwatch(fd)
	for _, t := range waiting {
		t.watching = false
		if _, ok := l.table.get(t.op.id()); !ok {
			continue
		}
		l.attempt(t)
	}
}

func (l *legacy) retryDue(now time.Time) {
	if len(l.deferred) == 0 {
		return
	}
	due := make([]*task, 0, len(l.deferred))
	remain := l.deferred[:0]
	for _, t := range l.deferred {
		if !t.due.After(now) {
			t.deferred = false
			due = append(due, t)
			continue
		}
		remain = append(remain, t)
	}
	l.deferred = remain
	for _, t := range due {
		if _, ok := l.table.get(t.op.id()); !ok {
			continue
		}
		l.attempt(t)
	}
}

// waitMillis is the epoll timeout: until the earliest deferred retry, or the idle timeout.
func (l *legacy) waitMillis(now time.Time) int {
	wait := l.idleTimeout
	for _, t := range l.deferred {
		if d := t.due.Sub(now); d < wait {
			wait = d
		}
	}
	if wait <= 0 {
		return 0
	}
	msec := int(wait / time.Millisecond)
	if wait%time.Millisecond != 0 {
		msec++
	}
	return msec
}

// forget drops t from the retry and readiness sets.
func (l *legacy) forget(t *task) {
	if t.deferred {
		t.deferred = false
		for i, d := range l.deferred {
			if d == t {
				l.deferred = append(l.deferred[:i], l.deferred[i+1:]...)
				break
			}
		}
	}
	if t.watching {
		t.watching = false
		waiting := l.waiters[t.fd]
		for i, w := range waiting {
			if w == t {
				waiting = append(waiting[:i], waiting[i+1:]...)
				break
			}
		}
		if len(waiting) == 0 {
			delete(l.waiters, t.fd)
			l.poller.unwatch(t.fd)
		} else {
			l.waiters[t.fd] = waiting
		}
	}
}

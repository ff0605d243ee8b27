//go:build linux

package driver

import (
	"encoding/binary"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// wakeup is an eventfd the loop sleeps on. Submitters signal it only while the loop is idle.
type wakeup struct {
	fd   int
	idle atomic.Bool
	buf  [8]byte
}

func newWakeup(nonblock bool) (w *wakeup, err error) {
	flags := unix.EFD_CLOEXEC
	if nonblock {
		flags |= unix.EFD_NONBLOCK
	}
	fd, fdErr := unix.Eventfd(0, flags)
	if fdErr != nil {
		err = syscallError("eventfd", fdErr)
		return
	}
	w = &wakeup{fd: fd}
	return
}

// notify wakes the loop if it is idle.
func (w *wakeup) notify() {
	if w.idle.CompareAndSwap(true, false) {
		w.signal()
	}
}

func (w *wakeup) signal() {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], 1)
	for {
		if _, err := unix.Write(w.fd, b[:]); err == unix.EINTR {
			continue
		}
		return
	}
}

// consume resets the counter, the eventfd must be non-blocking.
func (w *wakeup) consume() {
	_, _ = unix.Read(w.fd, w.buf[:])
}

func (w *wakeup) close() {
	_ = unix.Close(w.fd)
}

package driver

import (
	"sync"
	"sync/atomic"
	"syscall"
)

// NewSharedFd
// wrap fd, the returned handle owns it. The descriptor is released through d once every
// handle is released and no operation references it.
func NewSharedFd(d *Driver, fd int) *SharedFd {
	return &SharedFd{
		inner: &sharedFd{
			fd:     fd,
			shares: 1,
			driver: d,
		},
	}
}

// SharedFd is a reference counted descriptor handle. Each handle is released once; the
// descriptor outlives it while clones or in-flight operations remain.
type SharedFd struct {
	inner    *sharedFd
	released atomic.Bool
}

type sharedFd struct {
	mu      sync.Mutex
	fd      int
	shares  int64
	pending int64
	closed  bool
	driver  *Driver
}

// Clone returns a new handle to the same descriptor. Cloning a released handle returns a
// released handle.
func (fd *SharedFd) Clone() *SharedFd {
	inner := fd.inner
	clone := &SharedFd{inner: inner}
	inner.mu.Lock()
	if fd.released.Load() || inner.closed {
		inner.mu.Unlock()
		clone.released.Store(true)
		return clone
	}
	inner.shares++
	inner.mu.Unlock()
	return clone
}

// Raw returns the descriptor, or -1 once it has been released. It stays valid while any handle
// or in-flight operation references it.
func (fd *SharedFd) Raw() int {
	inner := fd.inner
	inner.mu.Lock()
	defer inner.mu.Unlock()
	if inner.closed {
		return -1
	}
	return inner.fd
}

// Release drops this handle. Errors closing the descriptor are not reported.
func (fd *SharedFd) Release() {
	if !fd.released.CompareAndSwap(false, true) {
		return
	}
	inner := fd.inner
	inner.mu.Lock()
	inner.shares--
	release := inner.tryClose()
	inner.mu.Unlock()
	if release {
		inner.release()
	}
}

// Shares returns the number of live handles, operation references included.
func (fd *SharedFd) Shares() int64 {
	fd.inner.mu.Lock()
	defer fd.inner.mu.Unlock()
	return fd.inner.shares
}

// Pending returns the number of in-flight operations on the descriptor.
func (fd *SharedFd) Pending() int64 {
	fd.inner.mu.Lock()
	defer fd.inner.mu.Unlock()
	return fd.inner.pending
}

// Closed reports whether the descriptor has been released.
func (fd *SharedFd) Closed() bool {
	fd.inner.mu.Lock()
	defer fd.inner.mu.Unlock()
	return fd.inner.closed
}

// acquire pins the descriptor for an operation.
func (fd *SharedFd) acquire() error {
	if fd.released.Load() {
		return ErrInvalidFd
	}
	inner := fd.inner
	inner.mu.Lock()
	defer inner.mu.Unlock()
	if inner.closed || inner.fd < 0 {
		return ErrInvalidFd
	}
	inner.shares++
	inner.pending++
	return nil
}

// settle unpins the descriptor once the backend is done with an operation.
func (fd *SharedFd) settle() {
	inner := fd.inner
	inner.mu.Lock()
	inner.shares--
	inner.pending--
	release := inner.tryClose()
	inner.mu.Unlock()
	if release {
		inner.release()
	}
}

func (inner *sharedFd) tryClose() bool {
	if inner.closed || inner.shares > 0 || inner.pending > 0 {
		return false
	}
	inner.closed = true
	return true
}

func (inner *sharedFd) release() {
	if inner.fd < 0 {
		return
	}
	if inner.driver == nil {
		_ = syscall.Close(inner.fd)
		return
	}
	inner.driver.closeFd(inner.fd)
}

//go:build linux

package driver

import (
	"golang.org/x/sys/unix"
)

// poller is a thin epoll set. It is used from the readiness loop goroutine only.
type poller struct {
	epfd   int
	events map[int]uint32
}

func newPoller() (p *poller, err error) {
	fd, fdErr := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if fdErr != nil {
		err = syscallError("epoll_create1", fdErr)
		return
	}
	p = &poller{
		epfd:   fd,
		events: make(map[int]uint32),
	}
	return
}

func directionEvents(dir Direction) uint32 {
	switch dir {
	case DirectionRead:
		return unix.EPOLLIN | unix.EPOLLRDHUP
	case DirectionWrite:
		return unix.EPOLLOUT
	default:
		return 0
	}
}

// watch adds events to the interest of fd, persistent registrations are level triggered.
func (p *poller) watch(fd int, events uint32) error {
	current, exists := p.events[fd]
	merged := current | events
	if exists && merged == current {
		return nil
	}
	ev := unix.EpollEvent{Events: merged, Fd: int32(fd)}
	op := unix.EPOLL_CTL_ADD
	if exists {
		op = unix.EPOLL_CTL_MOD
	}
	if err := unix.EpollCtl(p.epfd, op, fd, &ev); err != nil {
		return syscallError("epoll_ctl", err)
	}
	p.events[fd] = merged
	return nil
}

func (p *poller) unwatch(fd int) {
	if _, exists := p.events[fd]; !exists {
		return
	}
	delete(p.events, fd)
	_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *poller) wait(events []unix.EpollEvent, msec int) (int, error) {
	n, err := unix.EpollWait(p.epfd, events, msec)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, syscallError("epoll_wait", err)
	}
	return n, nil
}

func (p *poller) close() {
	for fd := range p.events {
		_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	}
	p.events = nil
	_ = unix.Close(p.epfd)
}

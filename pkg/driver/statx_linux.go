//go:build linux

package driver

import (
	"unsafe"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio/pkg/attr"
	"golang.org/x/sys/unix"
)

const (
	statxFlags = unix.AT_EMPTY_PATH | unix.AT_STATX_SYNC_AS_STAT
	statxMask  = unix.STATX_ALL
)

// emptyPath is the NUL terminated path statx resolves against the descriptor itself.
var emptyPath = [1]byte{0}

// Statx queries the attributes of an open descriptor.
//
// The kernel writes into a heap buffer owned by the operation, its address is stable until the
// operation completes or is confirmed canceled.
type Statx struct {
	fd       *SharedFd
	statx    *unix.Statx_t
	stat     *unix.Stat_t
	fallback bool
}

func NewStatx(fd *SharedFd) *Statx {
	return &Statx{
		fd:    fd,
		statx: new(unix.Statx_t),
	}
}

func (s *Statx) Name() string {
	return "statx"
}

func (s *Statx) Fd() *SharedFd {
	return s.fd
}

func (s *Statx) Entry() Entry {
	return Entry{
		OpCode:      OpStatx,
		Fd:          int32(s.fd.Raw()),
		Addr:        uint64(uintptr(unsafe.Pointer(&emptyPath[0]))),
		Len:         statxMask,
		Off:         uint64(uintptr(unsafe.Pointer(s.statx))),
		OpcodeFlags: statxFlags,
	}
}

func (s *Statx) Interest() Direction {
	return DirectionNone
}

// Attempt runs statx(2), falling back to fstat(2) when the kernel has no statx.
func (s *Statx) Attempt() (int, error) {
	fd := s.fd.Raw()
	err := unix.Statx(fd, "", statxFlags, statxMask, s.statx)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, unix.ENOSYS) {
		return 0, err
	}
	if s.stat == nil {
		s.stat = new(unix.Stat_t)
	}
	if err = unix.Fstat(fd, s.stat); err != nil {
		return 0, err
	}
	s.fallback = true
	return 0, nil
}

// Read translates the kernel output, call it after a successful completion only.
func (s *Statx) Read() attr.FileAttr {
	if s.fallback {
		return attr.FromStat(s.stat)
	}
	return attr.FromStatx(s.statx)
}

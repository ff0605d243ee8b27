//go:build linux

package driver

import (
	"log/slog"

	"github.com/brickingsoft/fio/pkg/kernel"
	"golang.org/x/sys/unix"
)

// autoKind picks io_uring from 5.6, the first release with IORING_OP_STATX.
func autoKind() Kind {
	if kernel.Enable(5, 6, 0) {
		return KindUring
	}
	return KindLegacy
}

func newBackend(d *Driver, kind Kind, opts Options) (backend, error) {
	switch kind {
	case KindUring:
		return newUring(d, opts)
	case KindLegacy:
		return newLegacy(d, opts)
	default:
		return nil, ErrUnsupported
	}
}

func closeFdNow(logger *slog.Logger, fd int) {
	if err := unix.Close(fd); err != nil {
		logger.Debug("close descriptor failed", "fd", fd, "err", err)
	}
}

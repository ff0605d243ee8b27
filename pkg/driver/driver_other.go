//go:build unix && !linux

package driver

import (
	"log/slog"
	"syscall"
)

func autoKind() Kind {
	return KindLegacy
}

func newBackend(_ *Driver, _ Kind, _ Options) (backend, error) {
	return nil, ErrUnsupported
}

func closeFdNow(logger *slog.Logger, fd int) {
	if err := syscall.Close(fd); err != nil {
		logger.Debug("close descriptor failed", "fd", fd, "err", err)
	}
}

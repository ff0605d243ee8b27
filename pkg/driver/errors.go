package driver

import (
	"github.com/brickingsoft/errors"
)

var (
	ErrClosed      = errors.Define("driver closed")
	ErrBusy        = errors.Define("driver busy")
	ErrInvalidFd   = errors.Define("invalid file descriptor")
	ErrCanceled    = errors.Define("operation canceled")
	ErrUncompleted = errors.Define("uncompleted")
	ErrAwaited     = errors.Define("operation already awaited")
	ErrUnsupported = errors.Define("backend unsupported")
)

func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

func IsInvalidFd(err error) bool {
	return errors.Is(err, ErrInvalidFd)
}

// IsUncompleted
// the caller gave up before the operation finished, see Op.Await.
func IsUncompleted(err error) bool {
	return errors.Is(err, ErrUncompleted)
}

func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "driver"
)

const (
	errMetaOpKey      = "op"
	errMetaOpNew      = "new"
	errMetaOpSubmit   = "submit"
	errMetaBackendKey = "backend"
)

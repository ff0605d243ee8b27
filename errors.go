package fio

import (
	"io/fs"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio/pkg/driver"
)

var (
	ErrClosed  = fs.ErrClosed
	ErrStarted = errors.Define("fio: already started")
)

// IsClosed reports whether err comes from a closed file or a closed driver.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed) || driver.IsClosed(err)
}

func IsBusy(err error) bool {
	return driver.IsBusy(err)
}

// IsInvalidFd reports whether the descriptor was released before the operation could use it.
func IsInvalidFd(err error) bool {
	return driver.IsInvalidFd(err)
}

// IsUncompleted reports whether the caller gave up before the operation finished.
func IsUncompleted(err error) bool {
	return driver.IsUncompleted(err)
}

func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "fio"
)

package fio

import (
	"context"
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio/pkg/driver"
	"golang.org/x/sys/unix"
)

// File is an open descriptor whose metadata is queried through a driver.
//
// A File may be used from several goroutines. Close does not wait for pending Metadata calls,
// the descriptor is released once they complete.
type File struct {
	name   string
	fd     *driver.SharedFd
	driver *driver.Driver
	closed atomic.Bool
}

// Open
// open the named file read only on a driver of the default group.
func Open(name string) (*File, error) {
	g, err := Drivers()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return OpenWith(g.Next(), name)
}

// OpenWith
// open the named file read only on d.
func OpenWith(d *driver.Driver, name string) (*File, error) {
	var (
		fd  int
		err error
	)
	for {
		fd, err = unix.Open(name, unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return NewFile(d, fd, name), nil
}

// NewFile
// take ownership of fd. It is closed once the File is closed and no operation uses it.
func NewFile(d *driver.Driver, fd int, name string) *File {
	return &File{
		name:   name,
		fd:     driver.NewSharedFd(d, fd),
		driver: d,
	}
}

func (f *File) Name() string {
	return f.name
}

// Fd returns the descriptor, or -1 once it has been released.
func (f *File) Fd() int {
	return f.fd.Raw()
}

func (f *File) Driver() *driver.Driver {
	return f.driver
}

// Metadata
// query the attributes of the file. Each call reaches the kernel, nothing is cached.
func (f *File) Metadata(ctx context.Context) (*Metadata, error) {
	if f.closed.Load() {
		return nil, f.pathError("statx", ErrClosed)
	}
	op, err := driver.SubmitWith(f.driver, driver.NewStatx(f.fd))
	if err != nil {
		return nil, f.pathError("statx", err)
	}
	c, err := op.Await(ctx)
	if err != nil {
		return nil, f.pathError("statx", err)
	}
	return newMetadata(f.name, c.Data.Read()), nil
}

// Stat is Metadata without a deadline, for fs.File compatibility.
func (f *File) Stat() (fs.FileInfo, error) {
	m, err := f.Metadata(context.Background())
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Close releases this File's reference to the descriptor. Release errors are not reported.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return f.pathError("close", ErrClosed)
	}
	f.fd.Release()
	return nil
}

// pathError strips the syscall layer so that the Errno sits right under the PathError like
// the os package does.
func (f *File) pathError(op string, err error) error {
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		err = sysErr.Err
	}
	return &fs.PathError{Op: op, Path: f.name, Err: err}
}

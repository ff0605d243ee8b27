package driver

import (
	"os"
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/cenkalti/backoff/v5"
)

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeInterrupted
	outcomeWouldBlock
	outcomeFatal
)

// classify sorts the result of a direct attempt.
func classify(err error) outcome {
	if err == nil {
		return outcomeSuccess
	}
	if errors.Is(err, syscall.EINTR) {
		return outcomeInterrupted
	}
	if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
		return outcomeWouldBlock
	}
	return outcomeFatal
}

// syscallError gives a failed syscall its generic form.
func syscallError(name string, err error) error {
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return err
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return os.NewSyscallError(name, errno)
	}
	return err
}

func newRetryBackOff(initial, maxInterval time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	b.Reset()
	return b
}

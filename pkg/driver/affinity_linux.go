//go:build linux

package driver

import (
	"log/slog"
	"runtime"

	"golang.org/x/sys/unix"
)

// pinThread binds the calling OS thread to CPU index modulo the CPU count. The caller must have
// locked the goroutine to its thread. Failure only costs locality, it is logged.
func pinThread(logger *slog.Logger, index int) {
	var set unix.CPUSet
	set.Zero()
	cpu := index % runtime.NumCPU()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logger.Warn("pin loop thread failed", "cpu", cpu, "err", syscallError("sched_setaffinity", err))
		return
	}
	logger.Debug("loop thread pinned", "cpu", cpu)
}

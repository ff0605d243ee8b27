//go:build linux

package kernel

import (
	"bytes"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	version     = Version{}
	versionOnce = sync.Once{}
)

// Get
// get running kernel version, cached after the first call.
func Get() Version {
	versionOnce.Do(func() {
		uts := &unix.Utsname{}
		if err := unix.Uname(uts); err != nil {
			version.validate = false
			return
		}
		release := uts.Release[:]
		if n := bytes.IndexByte(release, 0); n > -1 {
			release = release[:n]
		}
		parsed, parseErr := Parse(string(release))
		if parseErr != nil {
			version.validate = false
			return
		}
		version = parsed
	})
	return version
}

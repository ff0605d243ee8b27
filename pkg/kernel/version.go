package kernel

import (
	"fmt"
)

type Version struct {
	Major    int
	Minor    int
	Patch    int
	Flavor   string
	validate bool
}

func (v Version) Validate() bool {
	return v.validate
}

func (v Version) Invalidate() bool {
	return !v.validate
}

func (v Version) Compare(o Version) int {
	if v.Major > o.Major {
		return 1
	} else if v.Major < o.Major {
		return -1
	}

	if v.Minor > o.Minor {
		return 1
	} else if v.Minor < o.Minor {
		return -1
	}

	if v.Patch > o.Patch {
		return 1
	} else if v.Patch < o.Patch {
		return -1
	}
	return 0
}

func (v Version) GTE(major, minor, patch int) bool {
	return v.Compare(Version{Major: major, Minor: minor, Patch: patch}) >= 0
}

func (v Version) LT(major, minor, patch int) bool {
	return v.Compare(Version{Major: major, Minor: minor, Patch: patch}) < 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Flavor)
}

// Parse
// parse a kernel release string such as "6.8.0-45-generic".
func Parse(release string) (v Version, err error) {
	major, minor, patch, flavor, parseErr := parseKernelVersion(release)
	if parseErr != nil {
		err = parseErr
		return
	}
	v = Version{
		Major:    major,
		Minor:    minor,
		Patch:    patch,
		Flavor:   flavor,
		validate: true,
	}
	return
}

// Enable
// reports whether the running kernel is at least major.minor.patch.
func Enable(major, minor, patch int) bool {
	v := Get()
	if v.Invalidate() {
		return false
	}
	return v.GTE(major, minor, patch)
}

const (
	firstNumberOfParts  = 2
	secondNumberOfParts = 1
)

func parseKernelVersion(kernelVersionStr string) (major int, minor int, patch int, flavor string, err error) {
	var (
		parsed  int
		partial string
	)

	parsed, _ = fmt.Sscanf(kernelVersionStr, "%d.%d%s", &major, &minor, &partial)
	if parsed < firstNumberOfParts {
		err = fmt.Errorf("cannot parse kernel version: %s", kernelVersionStr)
		return
	}

	parsed, _ = fmt.Sscanf(partial, ".%d%s", &patch, &flavor)
	if parsed < secondNumberOfParts {
		flavor = partial
	}

	return
}

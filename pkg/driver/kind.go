package driver

import (
	"strings"

	"github.com/brickingsoft/errors"
)

// Kind selects the backend of a Driver.
type Kind int

const (
	// KindAuto picks KindUring when the kernel supports it, otherwise KindLegacy.
	KindAuto Kind = iota
	// KindUring is the io_uring completion backend.
	KindUring
	// KindLegacy is the epoll readiness backend.
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindUring:
		return "uring"
	case KindLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "uring", "io_uring", "iouring", "completion":
		return KindUring, nil
	case "legacy", "epoll", "readiness":
		return KindLegacy, nil
	default:
		return KindAuto, errors.New(
			"invalid backend kind",
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithMeta(errMetaBackendKey, s),
		)
	}
}

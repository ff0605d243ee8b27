package attr

import (
	"golang.org/x/exp/constraints"
)

// assign stores v into dst, converting between integer widths. The kernel structures change
// field widths per architecture, assign keeps the conversion code identical on all of them.
func assign[T constraints.Integer, V constraints.Integer](dst *T, v V) {
	*dst = T(v)
}

func widenUnsigned[V constraints.Integer](v V) uint64 {
	return uint64(v)
}

func widenSigned[V constraints.Integer](v V) int64 {
	return int64(v)
}

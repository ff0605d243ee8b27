//go:build !(386 || arm || mips || mipsle)

package attr

// TimeT is the width of time_t on this target.
type TimeT = int64

// NarrowTime reports whether TimeT cannot hold every statx timestamp.
const NarrowTime = false

// ExtraFields carries what struct stat cannot.
type ExtraFields struct {
	Mask  uint32
	Btime Timestamp
}

func newExtraFields(mask uint32, btime, _, _, _ Timestamp) *ExtraFields {
	return &ExtraFields{
		Mask:  mask,
		Btime: btime,
	}
}

func (a *FileAttr) accessed() Timestamp {
	return a.Atime.Timestamp()
}

func (a *FileAttr) modified() Timestamp {
	return a.Mtime.Timestamp()
}

func (a *FileAttr) changed() Timestamp {
	return a.Ctime.Timestamp()
}

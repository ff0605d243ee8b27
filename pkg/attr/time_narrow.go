//go:build 386 || arm || mips || mipsle

package attr

// TimeT is the width of time_t on this target.
type TimeT = int32

// NarrowTime reports whether TimeT cannot hold every statx timestamp.
const NarrowTime = true

// ExtraFields carries what struct stat cannot. On narrow-time targets it also keeps full width
// copies of the access, modify and change times.
type ExtraFields struct {
	Mask  uint32
	Btime Timestamp
	Atime Timestamp
	Mtime Timestamp
	Ctime Timestamp
}

func newExtraFields(mask uint32, btime, atime, mtime, ctime Timestamp) *ExtraFields {
	return &ExtraFields{
		Mask:  mask,
		Btime: btime,
		Atime: atime,
		Mtime: mtime,
		Ctime: ctime,
	}
}

func (a *FileAttr) accessed() Timestamp {
	if a.Extra != nil {
		return a.Extra.Atime
	}
	return a.Atime.Timestamp()
}

func (a *FileAttr) modified() Timestamp {
	if a.Extra != nil {
		return a.Extra.Mtime
	}
	return a.Mtime.Timestamp()
}

func (a *FileAttr) changed() Timestamp {
	if a.Extra != nil {
		return a.Extra.Ctime
	}
	return a.Ctime.Timestamp()
}

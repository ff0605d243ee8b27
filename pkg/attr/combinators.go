package attr

import (
	"time"
)

// Makedev combines major and minor numbers into a dev_t using the glibc encoding:
//
//	bits  0-7  minor[0:8]
//	bits  8-19 major[0:12]
//	bits 20-43 minor[8:32]
//	bits 44-63 major[12:32]
func Makedev(major, minor uint32) uint64 {
	dev := uint64(minor & 0x000000ff)
	dev |= uint64(major&0x00000fff) << 8
	dev |= uint64(minor&0xffffff00) << 12
	dev |= uint64(major&0xfffff000) << 32
	return dev
}

// Major is the inverse of Makedev for the major number.
func Major(dev uint64) uint32 {
	major := uint32((dev & 0x00000000000fff00) >> 8)
	major |= uint32((dev & 0xfffff00000000000) >> 32)
	return major
}

// Minor is the inverse of Makedev for the minor number.
func Minor(dev uint64) uint32 {
	minor := uint32(dev & 0x00000000000000ff)
	minor |= uint32((dev & 0x00000ffffff00000) >> 12)
	return minor
}

// Timestamp is a full width instant, the layout of statx_timestamp without its padding.
type Timestamp struct {
	Sec  int64
	Nsec uint32
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}

func (ts Timestamp) IsZero() bool {
	return ts.Sec == 0 && ts.Nsec == 0
}

// Timespec is the primary timestamp form, seconds in the target's native time_t width.
type Timespec struct {
	Sec  TimeT
	Nsec int64
}

// Timestamp widens ts. The result is only authoritative when the seconds fit TimeT.
func (ts Timespec) Timestamp() Timestamp {
	return Timestamp{Sec: int64(ts.Sec), Nsec: uint32(ts.Nsec)}
}

// SplitTimestamp narrows ts into seconds and nanoseconds. Seconds outside the TimeT range are
// truncated the way a C cast to time_t would truncate them.
func SplitTimestamp(ts Timestamp) Timespec {
	return Timespec{Sec: TimeT(ts.Sec), Nsec: int64(ts.Nsec)}
}

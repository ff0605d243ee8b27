//go:build linux

package attr

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func statxTimestamp(ts unix.StatxTimestamp) Timestamp {
	return Timestamp{Sec: ts.Sec, Nsec: ts.Nsec}
}

// FromStatx converts a populated statx buffer. Only documented fields are read.
func FromStatx(stx *unix.Statx_t) FileAttr {
	atime := statxTimestamp(stx.Atime)
	mtime := statxTimestamp(stx.Mtime)
	ctime := statxTimestamp(stx.Ctime)
	btime := statxTimestamp(stx.Btime)
	return FileAttr{
		Dev:     Makedev(stx.Dev_major, stx.Dev_minor),
		Ino:     widenUnsigned(stx.Ino),
		Nlink:   widenUnsigned(stx.Nlink),
		Mode:    uint32(stx.Mode),
		Uid:     stx.Uid,
		Gid:     stx.Gid,
		Rdev:    Makedev(stx.Rdev_major, stx.Rdev_minor),
		Size:    widenSigned(stx.Size),
		Blksize: widenSigned(stx.Blksize),
		Blocks:  widenSigned(stx.Blocks),
		Atime:   SplitTimestamp(atime),
		Mtime:   SplitTimestamp(mtime),
		Ctime:   SplitTimestamp(ctime),
		Extra:   newExtraFields(stx.Mask, btime, atime, mtime, ctime),
	}
}

// FromStat converts a legacy stat buffer. The result has no ExtraFields.
func FromStat(st *unix.Stat_t) FileAttr {
	return FileAttr{
		Dev:     widenUnsigned(st.Dev),
		Ino:     widenUnsigned(st.Ino),
		Nlink:   widenUnsigned(st.Nlink),
		Mode:    uint32(st.Mode),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    widenUnsigned(st.Rdev),
		Size:    widenSigned(st.Size),
		Blksize: widenSigned(st.Blksize),
		Blocks:  widenSigned(st.Blocks),
		Atime:   Timespec{Sec: TimeT(st.Atim.Sec), Nsec: widenSigned(st.Atim.Nsec)},
		Mtime:   Timespec{Sec: TimeT(st.Mtim.Sec), Nsec: widenSigned(st.Mtim.Nsec)},
		Ctime:   Timespec{Sec: TimeT(st.Ctim.Sec), Nsec: widenSigned(st.Ctim.Nsec)},
	}
}

// ToStat fills the legacy stat layout, leaving its padding zeroed.
func ToStat(a *FileAttr) *syscall.Stat_t {
	st := &syscall.Stat_t{}
	assign(&st.Dev, a.Dev)
	assign(&st.Ino, a.Ino)
	assign(&st.Nlink, a.Nlink)
	assign(&st.Mode, a.Mode)
	st.Uid = a.Uid
	st.Gid = a.Gid
	assign(&st.Rdev, a.Rdev)
	assign(&st.Size, a.Size)
	assign(&st.Blksize, a.Blksize)
	assign(&st.Blocks, a.Blocks)
	assign(&st.Atim.Sec, a.Atime.Sec)
	assign(&st.Atim.Nsec, a.Atime.Nsec)
	assign(&st.Mtim.Sec, a.Mtime.Sec)
	assign(&st.Mtim.Nsec, a.Mtime.Nsec)
	assign(&st.Ctim.Sec, a.Ctime.Sec)
	assign(&st.Ctim.Nsec, a.Ctime.Nsec)
	return st
}

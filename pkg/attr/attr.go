// Package attr holds the portable file attribute value produced by the statx operation.
//
// FileAttr is rebuilt field by field from the raw kernel structure, so it never depends on the
// private padding or the per-architecture layout of struct statx / struct stat.
package attr

import (
	"io/fs"
	"time"
)

// Version of the FileAttr layout.
const Version = 1

// Statx validity mask bits (include/uapi/linux/stat.h).
const (
	MaskType       uint32 = 0x00000001
	MaskMode       uint32 = 0x00000002
	MaskNlink      uint32 = 0x00000004
	MaskUid        uint32 = 0x00000008
	MaskGid        uint32 = 0x00000010
	MaskAtime      uint32 = 0x00000020
	MaskMtime      uint32 = 0x00000040
	MaskCtime      uint32 = 0x00000080
	MaskIno        uint32 = 0x00000100
	MaskSize       uint32 = 0x00000200
	MaskBlocks     uint32 = 0x00000400
	MaskBasicStats uint32 = 0x000007ff
	MaskBtime      uint32 = 0x00000800
	MaskMntId      uint32 = 0x00001000
	MaskAll        uint32 = 0x00000fff
)

// stat(2) reports the basic stats only.
const maskStatCompat = MaskBasicStats

// file type bits of st_mode.
const (
	modeTypeMask uint32 = 0o170000
	modeSocket   uint32 = 0o140000
	modeSymlink  uint32 = 0o120000
	modeRegular  uint32 = 0o100000
	modeBlock    uint32 = 0o060000
	modeDir      uint32 = 0o040000
	modeChar     uint32 = 0o020000
	modeFifo     uint32 = 0o010000
	modeSetuid   uint32 = 0o4000
	modeSetgid   uint32 = 0o2000
	modeSticky   uint32 = 0o1000
	modePerm     uint32 = 0o777
)

// FileAttr is the portable attribute value.
//
// Atime, Mtime and Ctime use the target's native time_t width. On narrow-time targets use
// Accessed, Modified and Changed for full precision, they read Extra.
type FileAttr struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atime   Timespec
	Mtime   Timespec
	Ctime   Timespec
	// Extra is nil when the attributes came from the legacy stat call.
	Extra *ExtraFields
}

// Len returns the file size in bytes.
func (a *FileAttr) Len() uint64 {
	if a.Size < 0 {
		return 0
	}
	return uint64(a.Size)
}

// Mask returns the statx validity mask, or the basic stats mask when the value came from stat.
func (a *FileAttr) Mask() uint32 {
	if a.Extra == nil {
		return maskStatCompat
	}
	return a.Extra.Mask
}

// Has reports whether every bit of mask was populated by the filesystem.
func (a *FileAttr) Has(mask uint32) bool {
	return a.Mask()&mask == mask
}

func (a *FileAttr) FileMode() fs.FileMode {
	return FileMode(a.Mode)
}

func (a *FileAttr) IsDir() bool {
	return a.Mode&modeTypeMask == modeDir
}

func (a *FileAttr) IsRegular() bool {
	return a.Mode&modeTypeMask == modeRegular
}

func (a *FileAttr) IsSymlink() bool {
	return a.Mode&modeTypeMask == modeSymlink
}

func (a *FileAttr) Accessed() time.Time {
	return a.accessed().Time()
}

func (a *FileAttr) Modified() time.Time {
	return a.modified().Time()
}

func (a *FileAttr) Changed() time.Time {
	return a.changed().Time()
}

// Created returns the birth time. A filesystem that does not report it (MaskBtime unset)
// yields the zero timestamp, the Unix epoch.
func (a *FileAttr) Created() time.Time {
	return a.created().Time()
}

func (a *FileAttr) AccessedTimestamp() Timestamp {
	return a.accessed()
}

func (a *FileAttr) ModifiedTimestamp() Timestamp {
	return a.modified()
}

func (a *FileAttr) ChangedTimestamp() Timestamp {
	return a.changed()
}

func (a *FileAttr) CreatedTimestamp() Timestamp {
	return a.created()
}

func (a *FileAttr) created() Timestamp {
	if a.Extra == nil {
		return Timestamp{}
	}
	return a.Extra.Btime
}

// FileMode converts a unix st_mode into fs.FileMode the way os.Stat does.
func FileMode(mode uint32) fs.FileMode {
	m := fs.FileMode(mode & modePerm)
	switch mode & modeTypeMask {
	case modeBlock:
		m |= fs.ModeDevice
	case modeChar:
		m |= fs.ModeDevice | fs.ModeCharDevice
	case modeDir:
		m |= fs.ModeDir
	case modeFifo:
		m |= fs.ModeNamedPipe
	case modeSymlink:
		m |= fs.ModeSymlink
	case modeSocket:
		m |= fs.ModeSocket
	}
	if mode&modeSetgid != 0 {
		m |= fs.ModeSetgid
	}
	if mode&modeSetuid != 0 {
		m |= fs.ModeSetuid
	}
	if mode&modeSticky != 0 {
		m |= fs.ModeSticky
	}
	return m
}

package fio

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/brickingsoft/fio/pkg/attr"
)

// Metadata is the result of File.Metadata. It implements fs.FileInfo.
type Metadata struct {
	name string
	attr attr.FileAttr
}

func newMetadata(name string, a attr.FileAttr) *Metadata {
	return &Metadata{
		name: filepath.Base(name),
		attr: a,
	}
}

func (m *Metadata) Name() string {
	return m.name
}

func (m *Metadata) Size() int64 {
	return m.attr.Size
}

// Len returns the size in bytes.
func (m *Metadata) Len() uint64 {
	return m.attr.Len()
}

func (m *Metadata) Mode() fs.FileMode {
	return m.attr.FileMode()
}

func (m *Metadata) ModTime() time.Time {
	return m.attr.Modified()
}

func (m *Metadata) IsDir() bool {
	return m.attr.IsDir()
}

// Sys returns a *syscall.Stat_t like os.Stat.
func (m *Metadata) Sys() any {
	return attr.ToStat(&m.attr)
}

func (m *Metadata) Accessed() time.Time {
	return m.attr.Accessed()
}

func (m *Metadata) Modified() time.Time {
	return m.attr.Modified()
}

func (m *Metadata) Changed() time.Time {
	return m.attr.Changed()
}

// Created returns the birth time, the Unix epoch when the filesystem does not report it.
func (m *Metadata) Created() time.Time {
	return m.attr.Created()
}

// Mask returns the statx bits the filesystem populated.
func (m *Metadata) Mask() uint32 {
	return m.attr.Mask()
}

func (m *Metadata) Inode() uint64 {
	return m.attr.Ino
}

func (m *Metadata) Nlink() uint64 {
	return m.attr.Nlink
}

func (m *Metadata) Uid() uint32 {
	return m.attr.Uid
}

func (m *Metadata) Gid() uint32 {
	return m.attr.Gid
}

func (m *Metadata) Dev() uint64 {
	return m.attr.Dev
}

func (m *Metadata) Rdev() uint64 {
	return m.attr.Rdev
}

func (m *Metadata) Blocks() int64 {
	return m.attr.Blocks
}

func (m *Metadata) Blksize() int64 {
	return m.attr.Blksize
}

// Attr returns a copy of the underlying attribute value.
func (m *Metadata) Attr() attr.FileAttr {
	return m.attr
}

//go:build linux

package attr_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickingsoft/fio/pkg/attr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMakedev_Mkdev(t *testing.T) {
	t.Parallel()

	for _, pair := range [][2]uint32{{8, 0}, {253, 17}, {4095, 255}, {4096, 256}, {0xabcde, 0x12345678}} {
		assert.Equal(t, unix.Mkdev(pair[0], pair[1]), attr.Makedev(pair[0], pair[1]))
		assert.Equal(t, unix.Major(attr.Makedev(pair[0], pair[1])), pair[0])
		assert.Equal(t, unix.Minor(attr.Makedev(pair[0], pair[1])), pair[1])
	}
}

func TestFromStatx(t *testing.T) {
	t.Parallel()

	stx := &unix.Statx_t{
		Mask:       unix.STATX_BASIC_STATS | unix.STATX_BTIME,
		Blksize:    4096,
		Nlink:      2,
		Uid:        1000,
		Gid:        100,
		Mode:       unix.S_IFREG | 0o640,
		Ino:        1 << 40,
		Size:       1 << 35,
		Blocks:     1 << 26,
		Atime:      unix.StatxTimestamp{Sec: 1 << 33, Nsec: 11},
		Btime:      unix.StatxTimestamp{Sec: 1600000000, Nsec: 22},
		Ctime:      unix.StatxTimestamp{Sec: 1700000000, Nsec: 33},
		Mtime:      unix.StatxTimestamp{Sec: 1 << 34, Nsec: 44},
		Rdev_major: 0,
		Rdev_minor: 0,
		Dev_major:  259,
		Dev_minor:  2,
	}
	a := attr.FromStatx(stx)

	assert.Equal(t, unix.Mkdev(259, 2), a.Dev)
	assert.Equal(t, uint64(1<<40), a.Ino)
	assert.Equal(t, uint64(2), a.Nlink)
	assert.Equal(t, uint32(unix.S_IFREG|0o640), a.Mode)
	assert.Equal(t, uint64(1<<35), a.Len())
	assert.Equal(t, int64(4096), a.Blksize)
	assert.Equal(t, int64(1<<26), a.Blocks)
	assert.True(t, a.Has(attr.MaskBtime))
	require.NotNil(t, a.Extra)
	if diff := cmp.Diff(attr.Timestamp{Sec: 1600000000, Nsec: 22}, a.Extra.Btime); diff != "" {
		t.Errorf("btime mismatch (-want +got):\n%s", diff)
	}

	// full precision regardless of time_t width
	assert.Equal(t, int64(1<<33), a.Accessed().Unix())
	assert.Equal(t, int64(1<<34), a.Modified().Unix())
	assert.Equal(t, int64(44), int64(a.Modified().Nanosecond()))
	assert.Equal(t, int64(1700000000), a.Changed().Unix())
	assert.Equal(t, int64(1600000000), a.Created().Unix())
	atime := stx.Atime.Sec
	if attr.NarrowTime {
		assert.Equal(t, int64(int32(atime)), int64(a.Atime.Sec))
	} else {
		assert.Equal(t, atime, int64(a.Atime.Sec))
	}
}

func TestFromStatx_MaskUnset(t *testing.T) {
	t.Parallel()

	stx := &unix.Statx_t{
		Mask: unix.STATX_BASIC_STATS,
		Mode: unix.S_IFDIR | 0o755,
	}
	a := attr.FromStatx(stx)
	assert.False(t, a.Has(attr.MaskBtime))
	assert.True(t, a.CreatedTimestamp().IsZero())
	assert.True(t, a.IsDir())
}

func TestFromStat(t *testing.T) {
	t.Parallel()

	st := &unix.Stat_t{}
	st.Dev = 0x801
	st.Ino = 42
	st.Nlink = 1
	st.Mode = unix.S_IFREG | 0o600
	st.Uid = 1
	st.Gid = 2
	st.Size = 4096
	st.Blksize = 512
	st.Blocks = 8
	st.Mtim.Sec = 1700000000
	st.Mtim.Nsec = 5

	a := attr.FromStat(st)
	want := attr.FileAttr{
		Dev:     0x801,
		Ino:     42,
		Nlink:   1,
		Mode:    unix.S_IFREG | 0o600,
		Uid:     1,
		Gid:     2,
		Size:    4096,
		Blksize: 512,
		Blocks:  8,
		Mtime:   attr.Timespec{Sec: 1700000000, Nsec: 5},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("FromStat mismatch (-want +got):\n%s", diff)
	}

	back := attr.ToStat(&a)
	assert.Equal(t, int64(4096), int64(back.Size))
	assert.Equal(t, int64(1700000000), int64(back.Mtim.Sec))
	assert.Equal(t, uint64(42), uint64(back.Ino))
}

func TestFromStatx_File(t *testing.T) {
	t.Parallel()

	name := filepath.Join(t.TempDir(), "4k")
	require.NoError(t, os.WriteFile(name, make([]byte, 4096), 0o644))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	stx := new(unix.Statx_t)
	err = unix.Statx(int(f.Fd()), "", unix.AT_EMPTY_PATH|unix.AT_STATX_SYNC_AS_STAT, unix.STATX_ALL, stx)
	if err == unix.ENOSYS {
		t.Skip("statx unsupported")
	}
	require.NoError(t, err)

	a := attr.FromStatx(stx)
	fi, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), a.Len())
	assert.Equal(t, fi.Mode(), a.FileMode())
	assert.True(t, fi.ModTime().Equal(a.Modified()))
	t.Log("created:", a.Created(), "mask:", a.Mask())
}

package attr_test

import (
	"io/fs"
	"math"
	"testing"
	"time"

	"github.com/brickingsoft/fio/pkg/attr"
	"github.com/stretchr/testify/assert"
)

func TestMakedev(t *testing.T) {
	t.Parallel()

	cases := []struct {
		major uint32
		minor uint32
		dev   uint64
	}{
		{0, 0, 0},
		{8, 1, 0x801},
		{259, 3, 0x10303},
		{0xfff, 0xff, 0xfffff},
		{0x1000, 0x100, 0x0000100000100000},
		{math.MaxUint32, math.MaxUint32, math.MaxUint64},
	}
	for _, c := range cases {
		dev := attr.Makedev(c.major, c.minor)
		assert.Equalf(t, c.dev, dev, "makedev(%d, %d)", c.major, c.minor)
		assert.Equal(t, c.major, attr.Major(dev))
		assert.Equal(t, c.minor, attr.Minor(dev))
	}
}

func TestSplitTimestamp(t *testing.T) {
	t.Parallel()

	small := attr.Timestamp{Sec: 1700000000, Nsec: 123456789}
	ts := attr.SplitTimestamp(small)
	assert.Equal(t, small, ts.Timestamp())
	assert.Equal(t, int64(123456789), ts.Nsec)

	large := attr.Timestamp{Sec: 1 << 33, Nsec: 7}
	ts = attr.SplitTimestamp(large)
	if attr.NarrowTime {
		assert.Equal(t, int64(int32(large.Sec)), int64(ts.Sec))
		assert.NotEqual(t, large, ts.Timestamp())
	} else {
		assert.Equal(t, large, ts.Timestamp())
	}
}

func TestTimestamp_Time(t *testing.T) {
	t.Parallel()

	ts := attr.Timestamp{Sec: 1, Nsec: 500}
	assert.Equal(t, time.Unix(1, 500), ts.Time())
	assert.True(t, attr.Timestamp{}.IsZero())
	assert.False(t, ts.IsZero())
}

func TestFileMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fs.ModeDir|0o755, attr.FileMode(0o040755))
	assert.Equal(t, fs.FileMode(0o644), attr.FileMode(0o100644))
	assert.Equal(t, fs.ModeSymlink|0o777, attr.FileMode(0o120777))
	assert.Equal(t, fs.ModeDevice|fs.ModeCharDevice|0o666, attr.FileMode(0o020666))
	assert.Equal(t, fs.ModeNamedPipe|0o600, attr.FileMode(0o010600))
	assert.Equal(t, fs.ModeSetuid|fs.ModeSticky|0o755, attr.FileMode(0o105755))
}

func TestFileAttr_Legacy(t *testing.T) {
	t.Parallel()

	a := attr.FileAttr{Mode: 0o100644, Size: 4096}
	assert.Equal(t, uint64(4096), a.Len())
	assert.True(t, a.IsRegular())
	assert.False(t, a.IsDir())
	assert.Equal(t, attr.MaskBasicStats, a.Mask())
	assert.False(t, a.Has(attr.MaskBtime))
	assert.Equal(t, time.Unix(0, 0), a.Created())
}

package driver_test

import (
	"testing"
	"time"

	"github.com/brickingsoft/fio/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]driver.Kind{
		"":         driver.KindAuto,
		"auto":     driver.KindAuto,
		"uring":    driver.KindUring,
		"io_uring": driver.KindUring,
		" Legacy ": driver.KindLegacy,
		"epoll":    driver.KindLegacy,
	}
	for s, want := range cases {
		kind, err := driver.ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, kind, s)
	}
	_, err := driver.ParseKind("kqueue")
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "uring", driver.KindUring.String())
	assert.Equal(t, "legacy", driver.KindLegacy.String())
	assert.Equal(t, "unknown", driver.Kind(42).String())
}

func TestCurveTransmission_UpDown(t *testing.T) {
	tr := driver.NewCurveTransmission(driver.Curve{
		{N: 1, Timeout: time.Microsecond},
		{N: 8, Timeout: 10 * time.Microsecond},
	})
	n, ts := tr.Up()
	assert.Equal(t, uint32(1), n)
	assert.Equal(t, time.Microsecond, time.Duration(ts.Nano()))
	n, ts = tr.Up()
	assert.Equal(t, uint32(8), n)
	assert.Equal(t, 10*time.Microsecond, time.Duration(ts.Nano()))
	n, _ = tr.Up()
	assert.Equal(t, uint32(8), n)
	n, _ = tr.Down()
	assert.Equal(t, uint32(1), n)
	n, _ = tr.Down()
	assert.Equal(t, uint32(1), n)
}

func TestCurveTransmission_Empty(t *testing.T) {
	tr := driver.NewCurveTransmission(nil)
	n, ts := tr.Up()
	assert.Equal(t, uint32(1), n)
	assert.Equal(t, 15*time.Second, time.Duration(ts.Nano()))
	n, _ = tr.Down()
	assert.Equal(t, uint32(1), n)
}

func TestSharedFd_WithoutDriver(t *testing.T) {
	fd := driver.NewSharedFd(nil, -1)
	assert.Equal(t, int64(1), fd.Shares())

	clone := fd.Clone()
	assert.Equal(t, int64(2), fd.Shares())

	fd.Release()
	fd.Release()
	assert.Equal(t, int64(1), clone.Shares())
	assert.False(t, clone.Closed())

	clone.Release()
	assert.True(t, clone.Closed())
	assert.Equal(t, -1, clone.Raw())

	released := clone.Clone()
	assert.True(t, released.Closed())
}

func TestLoadBalancer(t *testing.T) {
	assert.Equal(t, -1, (&driver.RoundRobinLoadBalancer{}).Next(nil))
	assert.Equal(t, -1, (&driver.RandomLoadBalancer{}).Next(nil))
	assert.Equal(t, -1, (&driver.LeastLoadBalancer{}).Next(nil))

	for _, s := range []string{"round_robin", "random", "least", ""} {
		lb, err := driver.ParseLoadBalancer(s)
		require.NoError(t, err, s)
		assert.NotNil(t, lb)
	}
	_, err := driver.ParseLoadBalancer("fastest")
	assert.Error(t, err)
}

//go:build linux

package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/brickingsoft/fio/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	g, err := driver.NewGroup(3, &driver.RoundRobinLoadBalancer{}, driver.WithKind(driver.KindLegacy))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	seen := make(map[string]struct{})
	for i := 0; i < g.Len(); i++ {
		seen[g.Next().ID()] = struct{}{}
	}
	assert.Len(t, seen, 3)

	f := tempFile(t, 512)
	for i := 0; i < 6; i++ {
		d := g.Next()
		fd := dupFd(t, d, f)
		s, statErr := statx(context.Background(), d, fd)
		fd.Release()
		require.NoError(t, statErr)
		assert.Equal(t, int64(512), s.Read().Size)
	}
	assert.Equal(t, 0, g.Pending())

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	for _, d := range g.Drivers() {
		fd := dupFd(t, d, f)
		_, err = driver.SubmitWith(d, driver.NewStatx(fd))
		assert.True(t, driver.IsClosed(err))
		fd.Release()
		assert.True(t, fd.Closed())
	}
}

func TestGroup_Least(t *testing.T) {
	g, err := driver.NewGroup(2, &driver.LeastLoadBalancer{}, driver.WithKind(driver.KindLegacy))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, g.Close())
	}()

	busy := g.Drivers()[0]
	rfd, _ := pipe(t, busy)
	op, err := driver.SubmitWith(busy, &pipeRead{fd: rfd, buf: make([]byte, 1)})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return busy.Pending() == 1 }, 5*time.Second, time.Millisecond)

	assert.Equal(t, g.Drivers()[1].ID(), g.Next().ID())

	op.Cancel()
	rfd.Release()
}

func TestGroup_CPUAffinity(t *testing.T) {
	g, err := driver.NewGroup(2, nil, driver.WithKind(driver.KindLegacy), driver.WithCPUAffinity(true))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, g.Close())
	}()

	f := tempFile(t, 64)
	for _, d := range g.Drivers() {
		fd := dupFd(t, d, f)
		s, statErr := statx(context.Background(), d, fd)
		fd.Release()
		require.NoError(t, statErr)
		assert.Equal(t, int64(64), s.Read().Size)
	}
}

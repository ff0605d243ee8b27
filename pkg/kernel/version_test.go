package kernel_test

import (
	"testing"

	"github.com/brickingsoft/fio/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		release string
		want    string
		major   int
		minor   int
		patch   int
	}{
		{"6.8.0-45-generic", "6.8.0-45-generic", 6, 8, 0},
		{"5.15.167.4-microsoft-standard-WSL2", "5.15.167.4-microsoft-standard-WSL2", 5, 15, 167},
		{"6.1", "6.1.0", 6, 1, 0},
		{"6.10-rc1", "6.10.0-rc1", 6, 10, 0},
	}
	for _, c := range cases {
		v, err := kernel.Parse(c.release)
		require.NoError(t, err, c.release)
		assert.True(t, v.Validate())
		assert.Equal(t, c.major, v.Major)
		assert.Equal(t, c.minor, v.Minor)
		assert.Equal(t, c.patch, v.Patch)
		assert.Equal(t, c.want, v.String())
		t.Log(c.release, "->", v)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	v, err := kernel.Parse("linux")
	assert.Error(t, err)
	assert.True(t, v.Invalidate())
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	v, err := kernel.Parse("5.6.2")
	require.NoError(t, err)
	assert.True(t, v.GTE(5, 6, 0))
	assert.True(t, v.GTE(5, 6, 2))
	assert.False(t, v.GTE(5, 7, 0))
	assert.True(t, v.LT(6, 0, 0))
	assert.False(t, v.LT(4, 19, 0))
}

func TestGet(t *testing.T) {
	v := kernel.Get()
	t.Log(v, v.Validate())
}

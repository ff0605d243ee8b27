package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brickingsoft/fio/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStat_JSON(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(name, make([]byte, 4096), 0o600))

	out, err := execute(t, "--backend", "legacy", "--json", "--no-color", name)
	require.NoError(t, err)

	var r struct {
		File    string `json:"file"`
		Backend string `json:"backend"`
		Size    int64  `json:"size"`
		Mode    string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, name, r.File)
	assert.Equal(t, "legacy", r.Backend)
	assert.Equal(t, int64(4096), r.Size)
	assert.Equal(t, "-rw-------", r.Mode)
}

func TestStat_Text(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(name, make([]byte, 2048), 0o600))

	out, err := execute(t, "--backend", "legacy", "--no-color", name)
	require.NoError(t, err)
	assert.Contains(t, out, "Size: 2048 (2.0 KiB)")
	assert.Contains(t, out, "Access: (-rw-------)\tUid:")
	assert.Equal(t, 1, strings.Count(out, "Access: ("))
	assert.Contains(t, out, "Via: legacy")
}

func TestStat_Missing(t *testing.T) {
	_, err := execute(t, "--backend", "legacy", "--no-color", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestStat_InvalidBackend(t *testing.T) {
	_, err := execute(t, "--backend", "kqueue", os.Args[0])
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fiostat")
	assert.Contains(t, out, "attr:    v1")
}

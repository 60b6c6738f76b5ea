package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLocalFS_Open(t *testing.T) {
	path := writeTemp(t, "rev.0", "node data")

	f, err := Default.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, "data", string(buf[:n]))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size())
}

func TestFaultyFS_OpenFault(t *testing.T) {
	path := writeTemp(t, "rev.1", "x")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("rev.1", Fault{FailOnOpen: true})

	_, err := ffs.Open(path)
	assert.Error(t, err)
	assert.Equal(t, 0, ffs.Opens())
}

func TestFaultyFS_ReadFault(t *testing.T) {
	path := writeTemp(t, "rev.2", "payload")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("rev.2", Fault{FailOnRead: true})

	f, err := ffs.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.ReadAt(make([]byte, 1), 0)
	assert.Error(t, err)
	assert.Equal(t, 1, ffs.Opens())
}

func TestFaultyFS_PassThrough(t *testing.T) {
	path := writeTemp(t, "rev.3", "ok")

	ffs := NewFaultyFS(nil)

	f, err := ffs.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 2)
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(buf))
}

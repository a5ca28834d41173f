package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")

	require.NoError(t, WriteFile(Default, path, []byte("hello"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// Overwrites truncate.
	require.NoError(t, WriteFile(Default, path, []byte("hi"), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}

func TestFaultyFS_WriteFault(t *testing.T) {
	injected := errors.New("injected write error")

	faulty := NewFaultyFS(nil)
	faulty.AddRule("unlucky", Fault{FailOnWrite: true, Err: injected})

	dir := t.TempDir()

	err := WriteFile(faulty, filepath.Join(dir, "unlucky.bin"), []byte("x"), 0o644)
	require.ErrorIs(t, err, injected)

	// Paths not matching any rule pass through.
	require.NoError(t, WriteFile(faulty, filepath.Join(dir, "fine.bin"), []byte("x"), 0o644))
}

func TestFaultyFS_SyncAndCloseFaults(t *testing.T) {
	dir := t.TempDir()

	faulty := NewFaultyFS(Default)
	faulty.AddRule("syncfail", Fault{FailOnSync: true})
	faulty.AddRule("closefail", Fault{FailOnClose: true})

	err := WriteFile(faulty, filepath.Join(dir, "syncfail.bin"), []byte("x"), 0o644)
	require.Error(t, err)

	err = WriteFile(faulty, filepath.Join(dir, "closefail.bin"), []byte("x"), 0o644)
	require.Error(t, err)
}

func TestFaultyFS_LastRuleWins(t *testing.T) {
	dir := t.TempDir()

	faulty := NewFaultyFS(nil)
	faulty.AddRule("blob", Fault{FailOnWrite: true})
	faulty.AddRule("blob", Fault{}) // clears the fault for matching paths

	require.NoError(t, WriteFile(faulty, filepath.Join(dir, "blob.bin"), []byte("x"), 0o644))
}

func TestFaultyFS_PassThrough(t *testing.T) {
	dir := t.TempDir()
	faulty := NewFaultyFS(nil)

	require.NoError(t, faulty.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, WriteFile(faulty, filepath.Join(dir, "sub", "f"), []byte("x"), 0o644))

	entries, err := faulty.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := faulty.ReadFile(filepath.Join(dir, "sub", "f"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	info, err := faulty.Stat(filepath.Join(dir, "sub", "f"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.Size())
}

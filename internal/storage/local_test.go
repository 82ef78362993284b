package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JustinTDCT/KodiSweep/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMount(t *testing.T) (*Local, string) {
	t.Helper()
	root := t.TempDir()
	acc, err := NewLocal("smb://server/share/", root)
	require.NoError(t, err)
	return acc, root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLocalStat(t *testing.T) {
	acc, root := newTestMount(t)
	writeFile(t, root, "Show/ep1.mkv", "video bytes")

	info, err := acc.Stat("smb://server/share/Show/ep1.mkv")
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.False(t, info.IsDir)
	assert.Equal(t, int64(len("video bytes")), info.Size)

	info, err = acc.Stat("smb://server/share/Show")
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.True(t, info.IsDir)
}

func TestLocalStatMissing(t *testing.T) {
	acc, _ := newTestMount(t)

	info, err := acc.Stat("smb://server/share/Show/gone.mkv")
	require.NoError(t, err)
	assert.False(t, info.Exists)
}

func TestLocalStatUnmappable(t *testing.T) {
	acc, _ := newTestMount(t)

	_, err := acc.Stat("smb://elsewhere/share/ep1.mkv")
	require.Error(t, err)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "stat", opErr.Op)
	assert.Equal(t, "smb://elsewhere/share/ep1.mkv", opErr.Path)
}

func TestLocalDelete(t *testing.T) {
	acc, root := newTestMount(t)
	writeFile(t, root, "Show/ep1.mkv", "x")

	require.NoError(t, acc.Delete("smb://server/share/Show/ep1.mkv"))

	info, err := acc.Stat("smb://server/share/Show/ep1.mkv")
	require.NoError(t, err)
	assert.False(t, info.Exists)

	// The parent directory stays.
	info, err = acc.Stat("smb://server/share/Show")
	require.NoError(t, err)
	assert.True(t, info.Exists)
}

func TestLocalDeleteMissing(t *testing.T) {
	acc, _ := newTestMount(t)

	err := acc.Delete("smb://server/share/gone.mkv")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "delete", opErr.Op)
}

func TestLocalList(t *testing.T) {
	acc, root := newTestMount(t)
	writeFile(t, root, "Show/ep1.mkv", "x")
	writeFile(t, root, "Show/ep2.mkv", "x")

	names, err := acc.List("smb://server/share/Show")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ep1.mkv", "ep2.mkv"}, names)
}

func TestNewLocalRequiresPrefixes(t *testing.T) {
	var cfgErr *config.Error

	_, err := NewLocal("", "/mnt/media")
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "storage.mount.remote_prefix", cfgErr.Field)

	_, err = NewLocal("smb://server/share/", "")
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "storage.mount.local_prefix", cfgErr.Field)
}

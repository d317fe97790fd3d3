//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/mount"
)

// TestMountTmpfs mounts and unmounts a tmpfs with the system helpers.
func TestMountTmpfs(t *testing.T) {
	requireRoot(t)
	requireCommands(t, "mount", "umount")

	mountpoint := t.TempDir()
	m := mount.New(mount.NewRunner(&config.Options{}), nil)

	require.NoError(t, m.Mount("tmpfs", mountpoint, "tmpfs", []string{"size=1m", "mode=0700"}))

	marker := filepath.Join(mountpoint, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o600))

	require.NoError(t, m.Umount(mountpoint))

	_, err := os.Stat(marker)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestMountFailure checks the helper's stderr reaches the error.
func TestMountFailure(t *testing.T) {
	requireRoot(t)
	requireCommands(t, "mount")

	m := mount.New(mount.NewRunner(&config.Options{}), nil)

	err := m.Mount("/dev/procfilter-missing", t.TempDir(), "ext4", nil)
	require.ErrorContains(t, err, "mount failed: ")
}

// TestUmountNotMounted checks umount of a plain directory fails cleanly.
func TestUmountNotMounted(t *testing.T) {
	requireCommands(t, "umount")

	m := mount.New(mount.NewRunner(&config.Options{}), nil)

	err := m.Umount(t.TempDir())
	require.ErrorContains(t, err, "umount failed: ")
}

//go:build integration

package integration

import (
	"os"
	"os/exec"
	"testing"
)

// requireCommands skips the test when any of names is not installed.
func requireCommands(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not installed", name)
		}
	}
}

// requireRoot skips the test unless it runs with root privileges.
func requireRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}
}

// openFDs counts the descriptors open in this process.
func openFDs(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("/proc/self/fd not available")
	}

	return len(entries)
}

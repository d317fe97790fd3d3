package mount

import (
	stderrors "errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/errors"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and replays canned results.
type fakeRunner struct {
	calls  []call
	output map[string][]byte
	errs   map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{output: map[string][]byte{}, errs: map[string]error{}}
}

func (f *fakeRunner) Output(name string, args []string) ([]byte, error) {
	f.calls = append(f.calls, call{name, args})

	return f.output[name], f.errs[name]
}

func (f *fakeRunner) Check(name string, args []string) error {
	f.calls = append(f.calls, call{name, args})

	return f.errs[name]
}

func TestMounter_Exports(t *testing.T) {
	runner := newFakeRunner()
	runner.output["showmount"] = []byte("/srv/dumps\n\n/export/home\n")

	exports, err := New(runner, nil).Exports("nfs1")
	require.NoError(t, err)
	require.Equal(t, []string{"/srv/dumps", "/export/home"}, exports)
	require.Equal(t, []call{{"showmount", []string{"--directories", "nfs1"}}}, runner.calls)
}

func TestMounter_ExportsFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["showmount"] = &errors.CommandError{Name: "showmount", ExitCode: 1, Stderr: "clnt_create: RPC: Unknown host"}

	_, err := New(runner, nil).Exports("nowhere")
	require.EqualError(t, err, "showmount --directories nowhere failed: clnt_create: RPC: Unknown host")

	_, ok := stderrors.AsType[*errors.CommandError](err)
	require.True(t, ok)
}

func TestMounter_Mount(t *testing.T) {
	runner := newFakeRunner()

	err := New(runner, nil).Mount("/dev/sdb1", "/mnt", "ext4", []string{"ro", "noatime"})
	require.NoError(t, err)
	require.Equal(t, []call{{"mount", []string{"-o", "ro", "-o", "noatime", "-t", "ext4", "/dev/sdb1", "/mnt"}}}, runner.calls)
}

func TestMounter_MountFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["mount"] = &errors.CommandError{Name: "mount", ExitCode: 32, Stderr: "mount: /mnt: special device /dev/nope does not exist."}

	err := New(runner, nil).Mount("/dev/nope", "/mnt", "ext4", nil)
	require.EqualError(t, err, "mount failed: mount: /mnt: special device /dev/nope does not exist.")
}

func TestMounter_Umount(t *testing.T) {
	runner := newFakeRunner()

	m := New(runner, nil)
	require.NoError(t, m.Umount("/mnt"))
	require.Equal(t, []call{{"umount", []string{"/mnt"}}}, runner.calls)

	runner.errs["umount"] = &errors.CommandError{Name: "umount", ExitCode: 32, Stderr: "umount: /mnt: target is busy."}
	require.EqualError(t, m.Umount("/mnt"), "umount failed: umount: /mnt: target is busy.")
}

func TestMounter_NFSMount(t *testing.T) {
	tests := []struct {
		name       string
		exports    string
		dir        string
		wantExport string
		wantErr    string
	}{
		{
			name:       "first prefix wins",
			exports:    "/srv\n/srv/dumps\n",
			dir:        "/srv/dumps/host1",
			wantExport: "/srv",
		},
		{
			name:       "exact export",
			exports:    "/export/home\n/srv/dumps\n",
			dir:        "/srv/dumps",
			wantExport: "/srv/dumps",
		},
		{
			name:    "no matching export",
			exports: "/export/home\n",
			dir:     "/srv/dumps",
			wantErr: "nfs mount failed: nfs1 does not export /srv/dumps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner()
			runner.output["showmount"] = []byte(tt.exports)

			export, err := New(runner, nil).NFSMount("nfs1", tt.dir, "/mnt", []string{"vers=4"})
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.Len(t, runner.calls, 1)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantExport, export)
			require.Equal(t, call{"mount", []string{"-o", "vers=4", "-t", "nfs", "nfs1:" + tt.wantExport, "/mnt"}}, runner.calls[1])
		})
	}
}

func TestNewRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	runner := NewRunner(&config.Options{})

	out, err := runner.Output("sh", []string{"-c", "printf ok"})
	require.NoError(t, err)
	require.Equal(t, "ok", string(out))

	err = runner.Check("sh", []string{"-c", "printf nope >&2; exit 1"})
	require.ErrorContains(t, err, "nope")
}

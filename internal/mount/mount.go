package mount

import (
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/errors"
	"github.com/wagiedev/procfilter/internal/filter"
)

// Runner runs helper programs.
type Runner interface {
	// Output returns the standard output of the command. A non-zero exit
	// status is reported as an *errors.CommandError.
	Output(name string, args []string) ([]byte, error)

	// Check runs the command and reports a non-zero exit status as an
	// *errors.CommandError.
	Check(name string, args []string) error
}

// Error reports a failed helper invocation.
type Error struct {
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Op + " failed"
	}

	return e.Op + " failed: " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// filterRunner runs helpers through the filter executor.
type filterRunner struct {
	opts *config.Options
}

// NewRunner returns a Runner that executes helpers with opts.
func NewRunner(opts *config.Options) Runner {
	return &filterRunner{opts: opts}
}

func (r *filterRunner) Output(name string, args []string) ([]byte, error) {
	return filter.Output(r.opts, name, args)
}

func (r *filterRunner) Check(name string, args []string) error {
	return filter.Check(r.opts, name, args)
}

// Mounter mounts and unmounts file systems with the system helpers.
type Mounter struct {
	runner Runner
	log    *slog.Logger
}

// New creates a Mounter. A nil logger disables logging.
func New(runner Runner, log *slog.Logger) *Mounter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Mounter{runner: runner, log: log.With("component", "mount")}
}

// Exports lists the directories exported by an NFS server.
func (m *Mounter) Exports(host string) ([]string, error) {
	args := []string{"--directories", host}

	out, err := m.runner.Output("showmount", args)
	if err != nil {
		return nil, failure("showmount --directories "+host, err)
	}

	var exports []string

	for line := range strings.Lines(string(out)) {
		if line = strings.TrimSpace(line); line != "" {
			exports = append(exports, line)
		}
	}

	return exports, nil
}

// Mount mounts device on mountpoint. Each option is passed with its own
// -o flag.
func (m *Mounter) Mount(device, mountpoint, fstype string, options []string) error {
	m.log.Debug("Mounting", "device", device, "mountpoint", mountpoint, "fstype", fstype, "options", options)

	args := make([]string, 0, 2*len(options)+4)
	for _, opt := range options {
		args = append(args, "-o", opt)
	}

	args = append(args, "-t", fstype, device, mountpoint)

	if err := m.runner.Check("mount", args); err != nil {
		return failure("mount", err)
	}

	return nil
}

// Umount unmounts mountpoint.
func (m *Mounter) Umount(mountpoint string) error {
	m.log.Debug("Unmounting", "mountpoint", mountpoint)

	if err := m.runner.Check("umount", []string{mountpoint}); err != nil {
		return failure("umount", err)
	}

	return nil
}

// NFSMount mounts the export of host that contains dir on mountpoint and
// returns the export that was mounted. The first export that is a prefix
// of dir wins, in the order showmount lists them.
func (m *Mounter) NFSMount(host, dir, mountpoint string, options []string) (string, error) {
	exports, err := m.Exports(host)
	if err != nil {
		return "", err
	}

	export := ""

	for _, candidate := range exports {
		m.log.Debug("Checking export", "host", host, "export", candidate)

		if strings.HasPrefix(dir, candidate) {
			export = candidate

			break
		}
	}

	if export == "" {
		return "", &Error{Op: "nfs mount", Detail: host + " does not export " + dir}
	}

	if err := m.Mount(host+":"+export, mountpoint, "nfs", options); err != nil {
		return "", err
	}

	return export, nil
}

// failure converts a helper error into an *Error carrying the helper's
// trimmed stderr.
func failure(op string, err error) error {
	if cmdErr, ok := stderrors.AsType[*errors.CommandError](err); ok {
		return &Error{Op: op, Detail: cmdErr.Stderr, Err: err}
	}

	return &Error{Op: op, Detail: err.Error(), Err: err}
}

package filter

import (
	"bytes"
	"slices"
	"strings"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/errors"
	"github.com/wagiedev/procfilter/internal/sink"
)

// maxStderrSize caps the stderr kept for a CommandError.
const maxStderrSize = 64 << 10

// Output runs name and returns its standard output. Standard error is
// captured for the error message. A non-zero exit status yields a
// CommandError together with whatever was written to stdout.
func Output(opts *config.Options, name string, args []string) ([]byte, error) {
	o := cloneOptions(opts)

	var stdout bytes.Buffer

	stderr := sink.NewCapped(maxStderrSize)

	o.Stdout = &stdout
	o.Stderr = stderr

	res, err := Execute(o, name, args)
	if err != nil {
		return nil, err
	}

	if res.ExitCode != 0 {
		return stdout.Bytes(), commandError(name, args, res.ExitCode, stderr)
	}

	return stdout.Bytes(), nil
}

// Check runs name with only standard error captured. A non-zero exit
// status yields a CommandError.
func Check(opts *config.Options, name string, args []string) error {
	o := cloneOptions(opts)

	stderr := sink.NewCapped(maxStderrSize)
	o.Stderr = stderr

	res, err := Execute(o, name, args)
	if err != nil {
		return err
	}

	if res.ExitCode != 0 {
		return commandError(name, args, res.ExitCode, stderr)
	}

	return nil
}

func cloneOptions(opts *config.Options) *config.Options {
	if opts == nil {
		return &config.Options{}
	}

	o := *opts

	return &o
}

func commandError(name string, args []string, code int, stderr *sink.Capped) *errors.CommandError {
	return &errors.CommandError{
		Name:     name,
		Args:     slices.Clone(args),
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr.String()),
	}
}

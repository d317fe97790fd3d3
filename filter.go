package procfilter

import (
	"slices"

	"github.com/wagiedev/procfilter/internal/filter"
)

// Result describes a finished invocation.
type Result = filter.Result

// Filter holds options shared by several invocations. Options passed to
// a method are applied after the Filter's own.
type Filter struct {
	opts []Option
}

// NewFilter creates a Filter.
func NewFilter(opts ...Option) *Filter {
	return &Filter{opts: slices.Clone(opts)}
}

func (f *Filter) options(extra []Option) *Options {
	return applyOptions(slices.Concat(f.opts, extra))
}

// Execute runs name and returns its exit code.
func (f *Filter) Execute(name string, args []string, opts ...Option) (int, error) {
	res, err := f.Run(name, args, opts...)
	if err != nil {
		return -1, err
	}

	return res.ExitCode, nil
}

// Run runs name and returns the full result.
func (f *Filter) Run(name string, args []string, opts ...Option) (*Result, error) {
	return filter.Execute(f.options(opts), name, args)
}

// Output runs name and returns its standard output. A non-zero exit status
// is reported as a *CommandError carrying the trimmed standard error.
func (f *Filter) Output(name string, args []string, opts ...Option) ([]byte, error) {
	return filter.Output(f.options(opts), name, args)
}

// Check runs name with standard error captured. A non-zero exit status is
// reported as a *CommandError.
func (f *Filter) Check(name string, args []string, opts ...Option) error {
	return filter.Check(f.options(opts), name, args)
}

// Execute runs name with args and returns its exit code. A child killed by
// signal N yields 128+N.
func Execute(name string, args []string, opts ...Option) (int, error) {
	return NewFilter().Execute(name, args, opts...)
}

// Run runs name with args and returns the full result.
func Run(name string, args []string, opts ...Option) (*Result, error) {
	return NewFilter().Run(name, args, opts...)
}

// Output runs name with args and returns its standard output.
func Output(name string, args []string, opts ...Option) ([]byte, error) {
	return NewFilter().Output(name, args, opts...)
}

// Check runs name with args and fails on a non-zero exit status.
func Check(name string, args []string, opts ...Option) error {
	return NewFilter().Check(name, args, opts...)
}

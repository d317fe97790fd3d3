package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/filter"
	"github.com/wagiedev/procfilter/internal/sink"
)

// streamFlags select the endpoints and tuning of one invocation.
type streamFlags struct {
	stdin       string
	stdout      string
	stderr      string
	compress    string
	digest      bool
	bufferSize  int
	pollTimeout time.Duration
	killSignal  string
}

func (f *streamFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.stdin, "stdin", "", `Feed FILE to the child's stdin ("-" for this process's stdin)`)
	flags.StringVar(&f.stdout, "stdout", "", `Write the child's stdout to FILE ("-" for this process's stdout)`)
	flags.StringVar(&f.stderr, "stderr", "", `Write the child's stderr to FILE ("-" for this process's stderr)`)
	flags.StringVar(&f.compress, "compress", "", "Compress stdout: none, zstd or lz4 (adds .zst or .lz4 to a file name)")
	flags.BoolVar(&f.digest, "digest", false, "Print the BLAKE3 digest and size of stdout to stderr")
	flags.IntVar(&f.bufferSize, "buffer-size", 0, "Per-stream buffer size in bytes")
	flags.DurationVar(&f.pollTimeout, "poll-timeout", 0, "Upper bound of each readiness wait")
	flags.StringVar(&f.killSignal, "kill-signal", "", "Signal used to tear down the child on failure")

	flags.SetInterspersed(false)
}

func newRunCommand(c *cli) *cobra.Command {
	var flags streamFlags

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command as a filter",
		Long: `Run a command with its standard streams connected to files or to this
process's streams. Streams that are not named are inherited. procfilter
exits with the command's exit code, or 128+N if it was killed by signal N.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.invoke(&flags, args[0], args[1:])
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

// invoke runs one command and converts its exit code into an exitError.
func (c *cli) invoke(flags *streamFlags, name string, args []string) error {
	opts, cleanup, err := c.invocationOptions(flags)
	if err != nil {
		return err
	}

	var forwarder *signalForwarder

	opts.StartHook = func(pid int) {
		forwarder = forwardSignals(pid)
	}
	opts.ReapHook = func(int) {
		forwarder.stop()
	}

	res, err := filter.Execute(opts, name, args)

	if cerr := cleanup.close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if cleanup.digest != nil {
		fmt.Fprintf(c.stderr, "blake3 %s %d\n", cleanup.digest.Sum(), cleanup.digest.Size())
	}

	if res.ExitCode != 0 {
		return &exitError{code: res.ExitCode}
	}

	return nil
}

// endpoints owns the files and writers opened for an invocation.
type endpoints struct {
	closers []io.Closer
	digest  *sink.Digest
}

// close flushes writers and closes files in reverse order of opening.
func (e *endpoints) close() error {
	var errs []error

	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}

	return errors.Join(errs...)
}

func (c *cli) invocationOptions(flags *streamFlags) (*config.Options, *endpoints, error) {
	opts := &config.Options{
		Logger:      c.log,
		BufferSize:  flags.bufferSize,
		PollTimeout: flags.pollTimeout,
	}

	if flags.killSignal != "" {
		sig, err := config.ParseSignal(flags.killSignal)
		if err != nil {
			return nil, nil, fmt.Errorf("--kill-signal: %w", err)
		}

		opts.KillSignal = sig
	}

	c.file.Apply(opts)

	codec, err := sink.ParseCodec(flags.compress)
	if err != nil {
		return nil, nil, fmt.Errorf("--compress: %w", err)
	}

	if flags.stdout == "" && (codec != sink.CodecNone || flags.digest) {
		return nil, nil, errors.New("--compress and --digest require --stdout")
	}

	e := &endpoints{}

	fail := func(err error) (*config.Options, *endpoints, error) {
		_ = e.close()

		return nil, nil, err
	}

	switch flags.stdin {
	case "":
	case "-":
		opts.Stdin = c.stdin
	default:
		f, err := os.Open(flags.stdin)
		if err != nil {
			return fail(err)
		}

		e.closers = append(e.closers, f)
		opts.Stdin = f
	}

	if flags.stdout != "" {
		w, err := e.output(outputPath(flags.stdout, codec), c.stdout)
		if err != nil {
			return fail(err)
		}

		if codec != sink.CodecNone {
			compressor, err := sink.NewCompressor(w, codec)
			if err != nil {
				return fail(err)
			}

			e.closers = append(e.closers, compressor)
			w = compressor
		}

		if flags.digest {
			e.digest = sink.NewDigest(w)
			w = e.digest
		}

		opts.Stdout = w
	}

	if flags.stderr != "" {
		w, err := e.output(flags.stderr, c.stderr)
		if err != nil {
			return fail(err)
		}

		opts.Stderr = w
	}

	return opts, e, nil
}

// output opens the destination named by path.
func (e *endpoints) output(path string, self io.Writer) (io.Writer, error) {
	if path == "-" {
		return self, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	e.closers = append(e.closers, f)

	return f, nil
}

// outputPath adds the codec's file suffix to path unless it is already
// present. "-" is returned unchanged.
func outputPath(path string, codec sink.Codec) string {
	if path == "-" || strings.HasSuffix(path, codec.Extension()) {
		return path
	}

	return path + codec.Extension()
}

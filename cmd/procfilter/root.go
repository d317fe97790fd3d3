package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/mount"
)

const version = "0.1.0"

// exitError carries the exit code of a child that ran to completion.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// cli holds the state shared by all commands.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	defines    []string

	file     *config.File
	registry *config.Registry
	log      *slog.Logger

	// runner overrides the helper runner used by the mount commands.
	runner mount.Runner
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr}
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, c *cli) int {
	root := newRootCommand(c)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if exitErr, ok := errors.AsType[*exitError](err); ok {
		return exitErr.code
	}

	fmt.Fprintf(c.stderr, "procfilter: %v\n", err)

	return 1
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "procfilter",
		Short: "Run programs as filters over their standard streams",
		Long: `procfilter runs a program with any of its standard streams connected
to files or to this process's streams, copying data from a single
poll loop until the program has exited and its output is drained.

Example:
  procfilter run --stdin vmcore --stdout vmcore.zst --compress zstd -- cat
  procfilter run --stdout - -- dmesg
  procfilter --config /etc/procfilter.yaml profile vmcore`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.setup() },
	}

	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Configuration file path")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "Log format: text or json")
	flags.StringArrayVar(&c.defines, "define", nil, `Define a profile as "NAME=COMMAND [ARGS...]" (repeatable)`)

	root.AddCommand(
		newRunCommand(c),
		newProfileCommand(c),
		newProfilesCommand(c),
		newExportsCommand(c),
		newMountCommand(c),
		newNFSMountCommand(c),
		newUmountCommand(c),
		newMCPCommand(c),
	)

	return root
}

// setup loads the config file and builds the logger and profile registry.
func (c *cli) setup() error {
	c.file = &config.File{}

	if c.configPath != "" {
		file, err := config.Load(c.configPath)
		if err != nil {
			return err
		}

		c.file = file
	}

	logCfg := c.file.Log
	if c.logLevel != "" {
		logCfg.Level = c.logLevel
	}

	if c.logFormat != "" {
		logCfg.Format = c.logFormat
	}

	log, err := config.NewLogger(c.stderr, logCfg)
	if err != nil {
		return err
	}

	c.log = log
	c.registry = config.NewRegistry(c.file.Profiles)

	for _, define := range c.defines {
		name, profile, err := parseDefine(define)
		if err != nil {
			return err
		}

		if err := c.registry.Register(name, profile); err != nil {
			return fmt.Errorf("--define: %w", err)
		}
	}

	return nil
}

// parseDefine parses a --define value of the form NAME=COMMAND [ARGS...].
func parseDefine(value string) (string, config.Profile, error) {
	name, command, ok := strings.Cut(value, "=")
	if !ok {
		return "", config.Profile{}, fmt.Errorf("--define %q: expected NAME=COMMAND", value)
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return name, config.Profile{}, nil
	}

	return name, config.Profile{
		Command:     fields[0],
		Args:        fields[1:],
		Description: "defined on the command line",
	}, nil
}

// options returns invocation options with file defaults applied.
func (c *cli) options() *config.Options {
	opts := &config.Options{Logger: c.log}
	c.file.Apply(opts)

	return opts
}

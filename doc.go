// Package procfilter runs external programs as filters: data supplied by
// the caller is fed to the child's standard input while its standard
// output and standard error are drained into caller-supplied writers, all
// from a single goroutine driven by poll(2).
//
// # Basic Usage
//
// Execute runs a command and returns its exit code:
//
//	var out bytes.Buffer
//	code, err := procfilter.Execute("gzip", []string{"-c"},
//	    procfilter.WithStdin(strings.NewReader("payload")),
//	    procfilter.WithStdout(&out),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Streams without an endpoint are inherited from the calling process. A
// child terminated by signal N reports exit code 128+N.
//
// Output and Check capture the command's output for callers that only
// care about success:
//
//	exports, err := procfilter.Output("showmount", []string{"--directories", host})
//	if err := procfilter.Check("umount", []string{mountpoint}); err != nil {
//	    return err
//	}
//
// A Filter keeps a set of options for repeated invocations:
//
//	f := procfilter.NewFilter(procfilter.WithSearchPaths("/opt/kdump/sbin"))
//	res, err := f.Run("makedumpfile", args, procfilter.WithStdout(w))
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	code, err := procfilter.Execute("true", nil, procfilter.WithLogger(logger))
//
// Every invocation logs with an "invocation" attribute holding a ULID.
//
// # Error Handling
//
// Failures are reported with typed errors:
//
//	code, err := procfilter.Execute(name, args, opts...)
//	if err != nil {
//	    if nf, ok := errors.AsType[*procfilter.ExecutableNotFoundError](err); ok {
//	        log.Fatalf("%s not installed, searched: %v", nf.Name, nf.SearchedPaths)
//	    }
//	    if sysErr, ok := errors.AsType[*procfilter.SystemError](err); ok {
//	        log.Fatalf("%s: errno %d", sysErr.Op, sysErr.Errno)
//	    }
//	    log.Fatal(err)
//	}
//
// A non-zero exit code is not an error for Execute and Run. Output and
// Check report it as a *CommandError.
package procfilter

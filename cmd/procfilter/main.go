// Command procfilter runs programs as filters with their standard streams
// connected to files, this process's streams, or nothing at all.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], newCLI(os.Stdin, os.Stdout, os.Stderr)))
}

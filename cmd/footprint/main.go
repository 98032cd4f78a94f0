package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/footprint/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string) int {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

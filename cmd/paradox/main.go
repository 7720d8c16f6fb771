// Package main provides the entry point for the paradox CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatwin/paradoxdriver/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitCommandError
	}
	if exitErr.Code == cli.ExitCommandError {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitErr.Code
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Process exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // the service rejected the request or could not be reached
	exitSetup  = 2 // flags, configuration or client construction failed
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and maps its error to an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	return exitCode(rootCmd.Execute(), stderr)
}

// exitCode reports err unless report already printed it.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFailed):
		return exitFailed
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitSetup
	}
}

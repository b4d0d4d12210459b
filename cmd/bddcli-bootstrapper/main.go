// Command bddcli-bootstrapper starts an application on behalf of the test
// runner:
//
//	bddcli-bootstrapper <app-name> <app-address> [args...]
//
// runs the program at <app-address> with argv[0] set to <app-name>, passes
// stdio through and exits with the program's exit code.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
)

const (
	exitCodeUsage         = 2
	exitCodeNotExecutable = 126
	exitCodeNotFound      = 127
)

func main() {
	// The child gets the interrupt too; wait for it to decide.
	signal.Ignore(os.Interrupt)

	exitCode := run(os.Args[1:])
	os.Exit(exitCode)
}

func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bddcli-bootstrapper <app-name> <app-address> [args...]")

		return exitCodeUsage
	}

	name, address := args[0], args[1]

	path, err := resolve(address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bddcli-bootstrapper: %v\n", err)

		return exitCodeNotFound
	}

	cmd := exec.Command(path, args[2:]...)
	cmd.Args[0] = name
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	err = cmd.Run()
	if err != nil {
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}

		fmt.Fprintf(os.Stderr, "bddcli-bootstrapper: failed to execute %s: %v\n", address, err)

		if errors.Is(err, os.ErrPermission) {
			return exitCodeNotExecutable
		}

		return exitCodeNotFound
	}

	return 0
}

// resolve returns the path to execute: the address itself if it names a
// file, else the address looked up in PATH.
func resolve(address string) (string, error) {
	if strings.ContainsRune(address, os.PathSeparator) {
		return address, nil
	}

	return exec.LookPath(address)
}

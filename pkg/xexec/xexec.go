// Package xexec wraps exec.Cmd with chainable setup, an optional echo of each
// command before it runs, and output capture that does not treat a non-zero
// exit as a failure.
package xexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
	"gopkg.in/alessio/shellescape.v1"
)

// EnvVerbose makes every command echo itself to stderr before it runs
// (similar to bash -x).
const EnvVerbose = "XEXEC_VERBOSE"

// Cmd is a wrapper for exec.Cmd.
type Cmd struct {
	*exec.Cmd

	verbose bool
}

func newCmd(c *exec.Cmd) *Cmd {
	// Inherit stdio by default; Capture replaces stdout and stderr.
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	return &Cmd{
		Cmd:     c,
		verbose: os.Getenv(EnvVerbose) != "",
	}
}

// Command creates a new wrapped exec.Cmd.
func Command(args ...string) *Cmd {
	return newCmd(exec.Command(args[0], args[1:]...))
}

// CommandContext creates a new wrapped exec.Cmd that is killed when ctx is
// done.
func CommandContext(ctx context.Context, args ...string) *Cmd {
	return newCmd(exec.CommandContext(ctx, args[0], args[1:]...))
}

// String returns the command line, shell-quoted so it can be pasted into a
// terminal.
func (c *Cmd) String() string {
	return QuoteArgs(c.Args...)
}

// QuoteArgs shell-quotes and joins args.
func QuoteArgs(args ...string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, shellescape.Quote(arg))
	}

	return strings.Join(quoted, " ")
}

func (c *Cmd) echo() {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\033[1;30m+ %s\033[0m\n", c.String())
	} else {
		fmt.Fprintf(os.Stderr, "+ %s\n", c.String())
	}
}

// Run runs the command and waits for it to finish.
func (c *Cmd) Run() error {
	if c.verbose {
		c.echo()
	}

	return c.Cmd.Run()
}

// Capture is the outcome of a process that ran to completion.
type Capture struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Capture runs the command, collecting stdout and stderr. A non-zero exit is
// reported in the result, not as an error. Output still goes to any writer
// already set with WithStdout/WithStderr.
func (c *Cmd) Capture() (Capture, error) {
	var stdout, stderr bytes.Buffer

	c.Stdout = teeWriter(&stdout, c.Stdout)
	c.Stderr = teeWriter(&stderr, c.Stderr)

	err := c.Run()

	result := Capture{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if code, ok := ExitCode(err); ok {
		result.ExitCode = code

		return result, nil
	}

	return result, err
}

// ExitCode returns the exit code for the error returned by running a
// command: 0 for nil, the process's code for an *exec.ExitError. It returns
// false for any other error, i.e. the process never ran to completion.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}

	exitErr := &exec.ExitError{}
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}

	return 0, false
}

// teeWriter writes to buf and to w, unless w is nil or one of the process's
// own stdio files.
func teeWriter(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil || w == os.Stdout || w == os.Stderr {
		return buf
	}

	return io.MultiWriter(buf, w)
}

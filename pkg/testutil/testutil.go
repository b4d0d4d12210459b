// Package testutil contains helpers for tests that run processes or the CLI
// in-process.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CaptureOutput temporarily overrides os.Stdout and os.Stderr, runs the
// specified function and returns any output written. Note: if fn calls
// os.Exit, stdout/stderr stay redirected.
func CaptureOutput(fn func()) (stdout string, stderr string, err error) {
	prevStdout := os.Stdout
	prevStderr := os.Stderr

	defer func() {
		os.Stdout = prevStdout
		os.Stderr = prevStderr
	}()

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return "", "", err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return "", "", err
	}

	os.Stdout = stdoutW
	os.Stderr = stderrW

	errC := make(chan error, 2)
	stdoutC := drain(stdoutR, prevStdout, errC)
	stderrC := drain(stderrR, prevStderr, errC)

	fn()

	os.Stdout = prevStdout
	os.Stderr = prevStderr

	stdoutW.Close()
	stderrW.Close()

	stdout = <-stdoutC
	stderr = <-stderrC

	stdoutR.Close()
	stderrR.Close()

	select {
	case err := <-errC:
		return stdout, stderr, err
	default:
	}

	return stdout, stderr, nil
}

// drain copies r into a buffer (and echo) until EOF, then sends the buffer.
func drain(r io.Reader, echo io.Writer, errC chan<- error) <-chan string {
	c := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(io.MultiWriter(&buf, echo), r); err != nil {
			errC <- err
		}

		c <- buf.String()
	}()

	return c
}

// WithEnv clears the current environment and sets it to the provided vars. It
// returns a function to restore the env to it's previous values.
func WithEnv(vars ...string) func() {
	prevEnv := os.Environ()
	os.Clearenv()

	for _, v := range vars {
		os.Setenv(parseEnvVar(v))
	}

	return func() {
		os.Clearenv()
		for _, v := range prevEnv {
			os.Setenv(parseEnvVar(v))
		}
	}
}

// WithTempWorkingDir creates a temporary directory and switches to that
// directory for the duration of fn.
//
// If the test passes, the directory is cleaned up. If the test fails, the temp
// directory is left in place and the path to it is printed.
func WithTempWorkingDir(t *testing.T, fn func()) {
	tempDirPath, err := os.MkdirTemp("", "bddcli-")
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if !t.Failed() {
			if err := os.RemoveAll(tempDirPath); err != nil {
				log.Println("failed to remove temporary directory", tempDirPath)
			}
		} else {
			log.Println("test failed, not cleaning up temporary directory", tempDirPath)
		}
	}()

	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(tempDirPath); err != nil {
		t.Fatal(err)
	}

	defer os.Chdir(prevDir)

	fn()
}

// WriteScript writes an executable /bin/sh script with the given body to
// dir/name and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + strings.TrimLeft(body, "\n")

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}

	return path
}

// Bootstrapper writes a stand-in for bddcli-bootstrapper into a temp dir: it
// drops the application name and runs the application address with the
// remaining arguments. It returns the script path.
func Bootstrapper(t *testing.T) string {
	t.Helper()

	return WriteScript(t, t.TempDir(), "bddcli-bootstrapper", `
shift
address="$1"
shift
exec "$address" "$@"
`)
}

// parseEnvVar parses an env var string e.g. "foo=bar" and returns the
// key/value components. It panics if the input string is invalid.
func parseEnvVar(s string) (key, value string) {
	// Empty strings are possible in the go stdlib to represent deleted or
	// duplicate values.
	if s == "" {
		return "", ""
	}

	key, value, ok := strings.Cut(s, "=")
	if !ok {
		panic(fmt.Sprintf("invalid env var: %s", s))
	}

	return key, value
}

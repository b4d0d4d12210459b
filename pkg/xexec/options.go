package xexec

import "io"

// These options are chained so that a command reads as one expression.

func (c *Cmd) WithStdout(w io.Writer) *Cmd {
	c.Stdout = w
	return c
}

func (c *Cmd) WithStderr(w io.Writer) *Cmd {
	c.Stderr = w
	return c
}

// WithStdin sets stdin. A nil reader means no input: the process reads EOF.
func (c *Cmd) WithStdin(r io.Reader) *Cmd {
	c.Stdin = r
	return c
}

func (c *Cmd) WithWorkingDir(dir string) *Cmd {
	c.Dir = dir
	return c
}

// WithEnvVars replaces the environment with vars ("KEY=value").
func (c *Cmd) WithEnvVars(vars []string) *Cmd {
	c.Env = vars
	return c
}

// Verbose enables echoing the command to stderr before it is run.
func (c *Cmd) Verbose(enabled bool) *Cmd {
	c.verbose = enabled
	return c
}

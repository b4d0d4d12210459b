// Package runner runs calls as operating system processes through the
// bootstrapper executable.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/log"
	"github.com/dansimau/bddcli/pkg/xexec"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// BootstrapperName is the file name of the helper executable.
	BootstrapperName = "bddcli-bootstrapper"

	// EnvBootstrapper, when set, is the full path of the helper executable.
	EnvBootstrapper = "BDDCLI_BOOTSTRAPPER"

	defaultBinDir = "/usr/local/bin"

	// Shell conventions for a command that could not be executed.
	exitCodeNotExecutable = 126
	exitCodeNotFound      = 127
)

// BootstrapperPath returns the helper executable path: $BDDCLI_BOOTSTRAPPER
// if set, else the bin directory of $VIRTUAL_ENV if set, else
// /usr/local/bin.
func BootstrapperPath(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}

	if path := getenv(EnvBootstrapper); path != "" {
		return path
	}

	binDir := defaultBinDir
	if venv := getenv("VIRTUAL_ENV"); venv != "" {
		binDir = filepath.Join(venv, "bin")
	}

	return filepath.Join(binDir, BootstrapperName)
}

// SubprocessRunner runs each invocation as
//
//	<bootstrapper> <app-name> <app-address> <flags...> <positionals...>
//
// synchronously, and captures its exit code, stdout and stderr.
type SubprocessRunner struct {
	runConfig *runConfig
}

var _ bddcli.Runner = (*SubprocessRunner)(nil)

// New returns a SubprocessRunner.
func New(opts ...Option) *SubprocessRunner {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.bootstrapper == "" {
		cfg.bootstrapper = BootstrapperPath(cfg.getenv)
	}

	return &SubprocessRunner{runConfig: cfg}
}

// Bootstrapper returns the path of the helper executable in use.
func (r *SubprocessRunner) Bootstrapper() string {
	return r.runConfig.bootstrapper
}

// CommandLine returns the argv for inv.
func (r *SubprocessRunner) CommandLine(inv bddcli.Invocation) []string {
	return append([]string{
		r.runConfig.bootstrapper,
		inv.Application.Name(),
		inv.Application.Address(),
	}, inv.Args()...)
}

// Run executes inv and waits for it to exit. Whatever the process does is
// captured into the response; a process that cannot be started at all is
// reported with exit code 127 (not found) or 126 (not executable) and the
// reason on stderr. Only a done context is returned as an error.
func (r *SubprocessRunner) Run(ctx context.Context, inv bddcli.Invocation) (bddcli.Response, error) {
	cfg := r.runConfig

	var stdin io.Reader
	if s, ok := inv.Stdin.Get(); ok {
		stdin = strings.NewReader(s)
	}

	cmd := xexec.CommandContext(ctx, r.CommandLine(inv)...).
		WithStdin(stdin).
		WithEnvVars(r.environ(inv.Environ))

	// Otherwise xexec's own XEXEC_VERBOSE default applies.
	if cfg.verbose {
		cmd.Verbose(true)
	}

	if inv.WorkingDir != "" {
		cmd.WithWorkingDir(inv.WorkingDir)
	} else if cfg.workingDir != "" {
		cmd.WithWorkingDir(cfg.workingDir)
	}

	result, err := cmd.Capture()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return bddcli.Response{}, ctxErr
	}

	if err != nil {
		log.Infof("cannot execute %s: %v", cmd.String(), err)

		return bddcli.Response{
			ExitCode: startFailureExitCode(err),
			Stderr:   err.Error() + "\n",
		}, nil
	}

	log.Infow("process exited", "command", cmd.String(), "exit_code", result.ExitCode)

	return bddcli.Response{
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}, nil
}

// environ returns the base environment with extra layered on top. Entries in
// extra replace base entries with the same key.
func (r *SubprocessRunner) environ(extra map[string]string) []string {
	base := r.runConfig.environ
	if base == nil {
		base = os.Environ()
	}

	env := make([]string, 0, len(base)+len(extra))

	for _, e := range base {
		key, _, _ := strings.Cut(e, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}

		env = append(env, e)
	}

	// Sorted so the command's environment is deterministic.
	keys := maps.Keys(extra)
	slices.Sort(keys)

	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}

	return env
}

func startFailureExitCode(err error) int {
	if errors.Is(err, os.ErrPermission) {
		return exitCodeNotExecutable
	}

	return exitCodeNotFound
}

package runner

// runConfig holds the configuration shared by every Run.
type runConfig struct {
	bootstrapper string
	environ      []string
	workingDir   string
	verbose      bool
	getenv       func(string) string
}

// Option is a functional option for configuring a SubprocessRunner.
type Option func(*runConfig)

// WithBootstrapper sets the path of the helper executable that launches the
// application. Without it the path is resolved by BootstrapperPath.
func WithBootstrapper(path string) Option {
	return func(c *runConfig) {
		c.bootstrapper = path
	}
}

// WithEnviron replaces the base environment ("KEY=value" entries) that each
// call's extra environment is layered on. The default is os.Environ().
func WithEnviron(vars []string) Option {
	return func(c *runConfig) {
		c.environ = append([]string{}, vars...)
	}
}

// WithWorkingDir sets the working directory for invocations that don't set
// their own.
func WithWorkingDir(path string) Option {
	return func(c *runConfig) {
		c.workingDir = path
	}
}

// WithVerbose echoes each command line to stderr before it runs. Without it,
// commands are echoed only when XEXEC_VERBOSE is set.
func WithVerbose(enabled bool) Option {
	return func(c *runConfig) {
		c.verbose = enabled
	}
}

// WithGetenv sets the lookup used to resolve the default bootstrapper path.
func WithGetenv(getenv func(string) string) Option {
	return func(c *runConfig) {
		c.getenv = getenv
	}
}

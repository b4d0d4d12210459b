// Package bddclicli provides the command-line interface for verifying and
// recording story files.
package bddclicli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/config"
	"github.com/dansimau/bddcli/pkg/log"
	"github.com/dansimau/bddcli/pkg/runner"
	"github.com/dansimau/bddcli/pkg/story"
	"github.com/dansimau/bddcli/pkg/xexec"
	"github.com/jessevdk/go-flags"
)

var cmd *Cmd

type Cmd struct {
	Config       string `description:"Config file (default: nearest .bddcli.yaml)"              long:"config"       short:"c"`
	Bootstrapper string `description:"Path of the bddcli-bootstrapper executable"               long:"bootstrapper"`
	AppName      string `description:"Application name, overriding the story and config"       long:"app-name"`
	AppAddress   string `description:"Application address, overriding the story and config"    long:"app-address"`
	WorkDir      string `description:"Working directory for calls"                              long:"workdir"`
	DryRun       bool   `description:"Don't make any changes, just show what will happen"      long:"dry-run"`
	Verbose      bool   `description:"Verbose output"                                           long:"verbose"      short:"v"`

	ctx context.Context
	cfg *config.Config
}

func mustAddCommand(f *flags.Command, err error) *flags.Command {
	if err != nil {
		panic(err)
	}

	return f
}

// Run executes the program with the specified arguments and returns the code
// the process should exit with.
func Run(args ...string) (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Must recreate this global on each invocation to reset flag values
	// between invocations.
	cmd = &Cmd{ctx: ctx}

	parser := flags.NewParser(cmd, flags.HelpFlag)

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if cmd.Verbose {
			if err := os.Setenv(log.EnvVerbose, "1"); err != nil {
				return NewError("failed to set " + log.EnvVerbose + " environment variable")
			}

			if err := os.Setenv(xexec.EnvVerbose, "1"); err != nil {
				return NewError("failed to set " + xexec.EnvVerbose + " environment variable")
			}
		}

		cfg, err := cmd.loadConfig()
		if err != nil {
			return NewError(err.Error())
		}

		cmd.cfg = cfg

		// Run command
		return command.Execute(args)
	}

	mustAddCommand(parser.AddCommand("verify", "Run every call in the stories and compare the responses", "", &verifyCmd{}))
	mustAddCommand(parser.AddCommand("record", "Record responses for calls that have none", "", &recordCmd{}))
	mustAddCommand(parser.AddCommand("show", "List the calls in a story", "", &showCmd{})).Aliases = []string{"ls"}
	mustAddCommand(parser.AddCommand("doc", "Write Markdown documentation for a story", "", &docCmd{}))

	_, err := parser.ParseArgs(args)
	if err != nil {
		// Handle --help, which is represented as an error by the flags package
		flagsErr := &flags.Error{}
		if errors.As(err, &flagsErr) {
			fmt.Fprintf(os.Stderr, "%s\n", err)

			if flagsErr.Type == flags.ErrHelp {
				return 0
			}

			return 1
		}

		var cliErr *Error
		if errors.As(err, &cliErr) {
			// Error, just exit with a message
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		} else {
			// unexpected error so print stack trace, if there is one
			fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		}

		return 1
	}

	return 0
}

func (c *Cmd) loadConfig() (*config.Config, error) {
	if c.Config != "" {
		return config.Load(c.Config)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return config.LoadFromDir(wd)
}

// runner returns a runner configured from the config file, then flags.
func (c *Cmd) runner() *runner.SubprocessRunner {
	opts := c.cfg.RunnerOptions()

	if c.Bootstrapper != "" {
		opts = append(opts, runner.WithBootstrapper(c.Bootstrapper))
	}

	if c.WorkDir != "" {
		opts = append(opts, runner.WithWorkingDir(c.WorkDir))
	}

	return runner.New(opts...)
}

// fallbackApplication is the application for stories that don't name one:
// the config file's, with flags taking precedence.
func (c *Cmd) fallbackApplication() bddcli.Application {
	app := c.cfg.Application
	if c.AppName != "" {
		app.AppName = c.AppName
	}

	if c.AppAddress != "" {
		app.AppAddress = c.AppAddress
	}

	if app.AppName == "" && app.AppAddress == "" {
		return nil
	}

	return app
}

// loadStory loads the story at path. Application flags override whatever the
// story file names.
func (c *Cmd) loadStory(path string) (*story.Story, error) {
	s, err := story.LoadFile(path, c.runner(), c.fallbackApplication())
	if errors.Is(err, story.ErrNoApplication) {
		return nil, NewError(fmt.Sprintf("%s: no application (hint: add it to the story or %s, or specify --app-name and --app-address)", path, config.FileName))
	}

	if err != nil {
		return nil, NewError(err.Error())
	}

	if c.AppName != "" || c.AppAddress != "" {
		app := bddcli.App{AppName: s.Application.Name(), AppAddress: s.Application.Address()}
		if c.AppName != "" {
			app.AppName = c.AppName
		}

		if c.AppAddress != "" {
			app.AppAddress = c.AppAddress
		}

		s.Application = app
	}

	log.Infof("loaded %s: %d call(s) against %s (%s)", path, len(s.All()), s.Application.Name(), s.Application.Address())

	return s, nil
}

type storyArgs struct {
	Stories []string `description:"Story file(s)" positional-arg-name:"story" required:"1"`
}

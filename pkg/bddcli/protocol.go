package bddcli

import (
	"context"
	"fmt"

	"github.com/dansimau/bddcli/pkg/log"
)

// Application identifies the program a call is run against.
type Application interface {
	Name() string
	Address() string
}

// App is a plain Application.
type App struct {
	AppName    string `yaml:"name"`
	AppAddress string `yaml:"address"`
}

func (a App) Name() string {
	return a.AppName
}

func (a App) Address() string {
	return a.AppAddress
}

// Invocation is a call with inheritance resolved, ready to be run.
type Invocation struct {
	Application Application
	Flags       []string
	Positionals []string
	Stdin       Field[string]
	Environ     map[string]string

	// WorkingDir overrides the runner's working directory when not empty.
	WorkingDir string
}

// Args returns the arguments passed after the application: flags, then
// positionals.
func (inv Invocation) Args() []string {
	args := make([]string, 0, len(inv.Flags)+len(inv.Positionals))
	args = append(args, inv.Flags...)
	args = append(args, inv.Positionals...)

	return args
}

// Resolve returns the effective invocation of c against app.
func Resolve(c Call, app Application) Invocation {
	return Invocation{
		Application: app,
		Flags:       c.Flags().OrZero(),
		Positionals: c.Positionals().OrZero(),
		Stdin:       c.Stdin(),
		Environ:     c.ExtraEnviron().OrZero(),
	}
}

// Runner executes an invocation and captures its outcome. Whatever the
// process does (including exiting non-zero) is a Response, not an error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Response, error)
}

// Invoke runs c against app and returns the observed response.
func Invoke(ctx context.Context, r Runner, app Application, c Call) (Response, error) {
	if app == nil {
		return Response{}, fmt.Errorf("%w: %q", ErrNoApplication, c.Title())
	}

	log.Infof("invoking %q against %s", c.Title(), app.Name())

	resp, err := r.Run(ctx, Resolve(c, app))
	if err != nil {
		return Response{}, fmt.Errorf("invoke %q: %w", c.Title(), err)
	}

	return resp, nil
}

// Verify runs c and returns a *VerifyError if the observed response differs
// from the expected one in any field. A call with nothing to verify against
// fails with an error matching both ErrVerify and ErrNoResponse.
func Verify(ctx context.Context, r Runner, app Application, c Call) error {
	expected := c.Response()
	if expected == nil {
		return fmt.Errorf("%w: %w: %q", ErrVerify, ErrNoResponse, c.Title())
	}

	observed, err := Invoke(ctx, r, app, c)
	if err != nil {
		return err
	}

	if !expected.Equal(observed) {
		return &VerifyError{
			Title:    c.Title(),
			Expected: *expected,
			Observed: observed,
		}
	}

	return nil
}

// Conclude runs c and records the observed response as its expectation,
// unless it already has one, in which case nothing is run. It reports whether
// a response was recorded.
func Conclude(ctx context.Context, r Runner, app Application, c Call) (bool, error) {
	if c.Response() != nil {
		return false, nil
	}

	observed, err := Invoke(ctx, r, app, c)
	if err != nil {
		return false, err
	}

	return c.conclude(observed), nil
}

// Package story groups a base call and the altered calls derived from it
// into one scenario, concludes each call as it is defined, and persists the
// result as a YAML fixture.
package story

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/log"
)

var ErrDuplicateTitle = errors.New("duplicate call title")

// Story is a base call plus the calls derived from it.
type Story struct {
	Application bddcli.Application
	Base        *bddcli.BaseCall
	Calls       []*bddcli.AlteredCall

	// AutoDump and AutoDoc, when set, receive the fixture and the
	// documentation on Close.
	AutoDump Sink
	AutoDoc  Sink

	runner bddcli.Runner
}

// New returns a story over an existing base call. Nothing is run. A story
// with a nil app can be dumped but not run or documented.
func New(r bddcli.Runner, app bddcli.Application, base *bddcli.BaseCall) *Story {
	return &Story{
		Application: app,
		Base:        base,
		runner:      r,
	}
}

// Given creates the base call and concludes it: if opts carry no expected
// response, the call is run and its response recorded.
func Given(ctx context.Context, r bddcli.Runner, app bddcli.Application, title string, opts ...bddcli.CallOption) (*Story, error) {
	if app == nil {
		return nil, ErrNoApplication
	}

	base, err := bddcli.NewCall(title, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := bddcli.Conclude(ctx, r, app, base); err != nil {
		return nil, err
	}

	return New(r, app, base), nil
}

// SetRunner replaces the runner used by When, Verify and Conclude.
func (s *Story) SetRunner(r bddcli.Runner) {
	s.runner = r
}

// When derives a call from the base call, concludes it and records it in the
// story.
func (s *Story) When(ctx context.Context, title string, opts ...Option) (*bddcli.AlteredCall, error) {
	if s.Lookup(title) != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}

	c, err := s.WhenUnrecorded(ctx, title, opts...)
	if err != nil {
		return nil, err
	}

	s.Calls = append(s.Calls, c)

	return c, nil
}

// WhenUnrecorded is like When but does not add the call to the story.
func (s *Story) WhenUnrecorded(ctx context.Context, title string, opts ...Option) (*bddcli.AlteredCall, error) {
	var callOpts []bddcli.CallOption

	for _, opt := range opts {
		o, err := opt(s.Base)
		if err != nil {
			return nil, fmt.Errorf("call %q: %w", title, err)
		}

		callOpts = append(callOpts, o...)
	}

	c, err := bddcli.Alter(s.Base, title, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", title, err)
	}

	if _, err := bddcli.Conclude(ctx, s.runner, s.Application, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Current returns the last recorded call, or the base call if there is none.
func (s *Story) Current() bddcli.Call {
	if len(s.Calls) > 0 {
		return s.Calls[len(s.Calls)-1]
	}

	return s.Base
}

// Response returns the expected response of the current call.
func (s *Story) Response() *bddcli.Response {
	return s.Current().Response()
}

// All returns the base call followed by every recorded call.
func (s *Story) All() []bddcli.Call {
	all := make([]bddcli.Call, 0, len(s.Calls)+1)
	all = append(all, s.Base)

	for _, c := range s.Calls {
		all = append(all, c)
	}

	return all
}

// Lookup returns the call with the given title, or nil.
func (s *Story) Lookup(title string) bddcli.Call {
	for _, c := range s.All() {
		if c.Title() == title {
			return c
		}
	}

	return nil
}

// Verify verifies the base call and then each recorded call, stopping at the
// first failure.
func (s *Story) Verify(ctx context.Context) error {
	for _, c := range s.All() {
		if err := bddcli.Verify(ctx, s.runner, s.Application, c); err != nil {
			return err
		}
	}

	return nil
}

// Conclude records a response for every call that has none. It returns the
// number of responses recorded.
func (s *Story) Conclude(ctx context.Context) (int, error) {
	recorded := 0

	for _, c := range s.All() {
		ok, err := bddcli.Conclude(ctx, s.runner, s.Application, c)
		if err != nil {
			return recorded, err
		}

		if ok {
			log.Infof("recorded response for %q", c.Title())

			recorded++
		}
	}

	return recorded, nil
}

// Close writes the fixture and documentation to AutoDump and AutoDoc. A story
// whose base call has no title is not written.
func (s *Story) Close() error {
	if s.Base.Title() == "" {
		return nil
	}

	if s.AutoDump != nil {
		if err := s.writeTo(s.AutoDump, s.Dump); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}

	if s.AutoDoc != nil {
		if err := s.writeTo(s.AutoDoc, s.Document); err != nil {
			return fmt.Errorf("document: %w", err)
		}
	}

	return nil
}

func (s *Story) writeTo(sink Sink, write func(io.Writer) error) error {
	w, err := sink(s)
	if err != nil {
		return err
	}

	if err := write(w); err != nil {
		w.Close()

		return err
	}

	return w.Close()
}

// Sink opens the destination for a story's fixture or documentation.
type Sink func(s *Story) (io.WriteCloser, error)

// ToWriter writes to w, which is not closed.
func ToWriter(w io.Writer) Sink {
	return func(*Story) (io.WriteCloser, error) {
		return nopCloser{w}, nil
	}
}

// ToFile writes to the file at path, truncating it.
func ToFile(path string) Sink {
	return ToFileFunc(func(*Story) string { return path })
}

// ToFileFunc writes to the file whose path pathFn returns for the story.
func ToFileFunc(pathFn func(*Story) string) Sink {
	return func(s *Story) (io.WriteCloser, error) {
		return os.Create(pathFn(s))
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

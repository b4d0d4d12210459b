package story

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/fsutil"
	"github.com/hashicorp/go-version"
	"github.com/heimdalr/dag"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

// FormatVersion is the fixture format written by Dump.
const FormatVersion = "1.0"

var ErrNoApplication = errors.New("story names no application")

var supportedVersions = mustConstraints(">= 1.0, < 2.0")

func mustConstraints(s string) version.Constraints {
	c, err := version.NewConstraint(s)
	if err != nil {
		panic(err)
	}

	return c
}

// storyFile is the on-disk layout of a story.
type storyFile struct {
	Version     string          `yaml:"version"`
	Application *bddcli.App     `yaml:"application,omitempty"`
	Base        yaml.MapSlice   `yaml:"base"`
	Calls       []yaml.MapSlice `yaml:"calls,omitempty"`
}

// ToDict returns the story as an ordered mapping. The base call carries its
// description and extra environment in addition to its own ToDict; calls
// derived from another recorded call name it under "base".
func (s *Story) ToDict() yaml.MapSlice {
	f := s.toFile()

	d := yaml.MapSlice{{Key: "version", Value: f.Version}}
	if f.Application != nil {
		d = append(d, yaml.MapItem{Key: "application", Value: f.Application})
	}

	d = append(d, yaml.MapItem{Key: "base", Value: f.Base})
	if len(f.Calls) > 0 {
		d = append(d, yaml.MapItem{Key: "calls", Value: f.Calls})
	}

	return d
}

func (s *Story) toFile() storyFile {
	f := storyFile{
		Version: FormatVersion,
		Base:    baseDict(s.Base),
	}

	if s.Application != nil {
		f.Application = &bddcli.App{
			AppName:    s.Application.Name(),
			AppAddress: s.Application.Address(),
		}
	}

	for _, c := range s.Calls {
		d := c.ToDict()
		if c.Base() != bddcli.Call(s.Base) {
			// Right after the title.
			d = append(d[:1], append(yaml.MapSlice{{Key: "base", Value: c.Base().Title()}}, d[1:]...)...)
		}

		f.Calls = append(f.Calls, d)
	}

	return f
}

func baseDict(c *bddcli.BaseCall) yaml.MapSlice {
	d := c.ToDict()

	var extra yaml.MapSlice

	if env, ok := c.ExtraEnviron().Get(); ok {
		extra = append(extra, yaml.MapItem{Key: string(bddcli.FieldExtraEnviron), Value: env})
	}

	if c.Description() != "" {
		extra = append(extra, yaml.MapItem{Key: "description", Value: c.Description()})
	}

	if len(extra) == 0 {
		return d
	}

	// Keep response last.
	if n := len(d); n > 0 && d[n-1].Key == "response" {
		return append(append(d[:n-1:n-1], extra...), d[n-1])
	}

	return append(d, extra...)
}

// Dump writes the story as YAML.
func (s *Story) Dump(w io.Writer) error {
	b, err := yaml.Marshal(s.ToDict())
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

// Save writes the story to path.
func (s *Story) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Dump(&buf); err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// Load reads a story. app is used when the file names no application. The
// story runs its calls with r.
func Load(rd io.Reader, r bddcli.Runner, app bddcli.Application) (*Story, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	var f storyFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, err
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}

	if f.Application != nil {
		app = *f.Application
	}

	if app == nil {
		return nil, ErrNoApplication
	}

	base, err := decodeBaseCall(f.Base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}

	calls, err := decodeAlteredCalls(base, f.Calls)
	if err != nil {
		return nil, err
	}

	s := New(r, app, base)
	s.Calls = calls

	return s, nil
}

// LoadFile reads the story at path.
func LoadFile(path string, r bddcli.Runner, app bddcli.Application) (*Story, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	s, err := Load(fh, r, app)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

func checkVersion(s string) error {
	if s == "" {
		s = FormatVersion
	}

	v, err := version.NewVersion(s)
	if err != nil {
		return fmt.Errorf("invalid story version %q: %w", s, err)
	}

	if !supportedVersions.Check(v) {
		return fmt.Errorf("unsupported story version %s (supported: %s)", v, supportedVersions)
	}

	return nil
}

// pendingCall is a decoded altered call whose base is not resolved yet.
type pendingCall struct {
	index int
	base  string
	dict  yaml.MapSlice
}

// decodeAlteredCalls builds the altered calls in dependency order, so that
// each call's base exists before the call itself. The result is in file
// order.
func decodeAlteredCalls(base *bddcli.BaseCall, dicts []yaml.MapSlice) ([]*bddcli.AlteredCall, error) {
	graph := dag.NewDAG()
	if err := graph.AddVertexByID(base.Title(), base.Title()); err != nil {
		return nil, err
	}

	pending := map[string]pendingCall{}
	order := make([]string, len(dicts))

	for i, d := range dicts {
		title, baseTitle, err := callTitles(d)
		if err != nil {
			return nil, fmt.Errorf("calls[%d]: %w", i, err)
		}

		if baseTitle == "" {
			baseTitle = base.Title()
		}

		if err := graph.AddVertexByID(title, title); err != nil {
			return nil, fmt.Errorf("calls[%d]: %w: %q", i, ErrDuplicateTitle, title)
		}

		pending[title] = pendingCall{index: i, base: baseTitle, dict: d}
		order[i] = title
	}

	for _, title := range order {
		p := pending[title]
		if _, err := graph.GetVertex(p.base); err != nil {
			return nil, fmt.Errorf("call %q: unknown base %q", title, p.base)
		}

		if err := graph.AddEdge(p.base, title); err != nil {
			return nil, fmt.Errorf("call %q: invalid base %q: %w", title, p.base, err)
		}
	}

	built := map[string]bddcli.Call{base.Title(): base}
	calls := make([]*bddcli.AlteredCall, len(dicts))

	var build func(parent string) error
	build = func(parent string) error {
		children, err := graph.GetChildren(parent)
		if err != nil {
			return err
		}

		// Siblings in file order.
		indexes := make([]int, 0, len(children))
		for id := range children {
			indexes = append(indexes, pending[id].index)
		}

		slices.Sort(indexes)

		for _, i := range indexes {
			title := order[i]
			p := pending[title]

			c, err := decodeAlteredCall(built[parent], p.dict)
			if err != nil {
				return fmt.Errorf("call %q: %w", title, err)
			}

			built[title] = c
			calls[p.index] = c

			if err := build(title); err != nil {
				return err
			}
		}

		return nil
	}

	if err := build(base.Title()); err != nil {
		return nil, err
	}

	// Every call reaches the base: each has exactly one base and the graph
	// has no cycles.
	return calls, nil
}

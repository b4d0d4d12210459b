package bddcli

import (
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func mustNewCall(t *testing.T, title string, opts ...CallOption) *BaseCall {
	t.Helper()

	c, err := NewCall(title, opts...)
	assert.NilError(t, err)

	return c
}

func mustAlter(t *testing.T, base Call, title string, opts ...CallOption) *AlteredCall {
	t.Helper()

	c, err := Alter(base, title, opts...)
	assert.NilError(t, err)

	return c
}

func keys(d yaml.MapSlice) []string {
	var ks []string
	for _, item := range d {
		ks = append(ks, item.Key.(string))
	}

	return ks
}

func TestField_States(t *testing.T) {
	t.Parallel()

	var zero Field[[]string]
	assert.Assert(t, zero.IsUnchanged())

	empty := Value([]string{})
	assert.Assert(t, empty.IsSet())
	v, ok := empty.Get()
	assert.Assert(t, ok)
	assert.Equal(t, len(v), 0)

	unset := Unset[[]string]()
	assert.Assert(t, unset.IsUnset())
	assert.Assert(t, !unset.IsUnchanged())
	_, ok = unset.Get()
	assert.Assert(t, !ok)
}

func TestNewCall_DefaultsToUnset(t *testing.T) {
	t.Parallel()

	c := mustNewCall(t, "empty")

	assert.Assert(t, c.Stdin().IsUnset())
	assert.Assert(t, c.Positionals().IsUnset())
	assert.Assert(t, c.Flags().IsUnset())
	assert.Assert(t, c.ExtraEnviron().IsUnset())
	assert.Assert(t, c.Response() == nil)
}

func TestBaseCall_SetUnchangedKeepsValue(t *testing.T) {
	t.Parallel()

	c := mustNewCall(t, "list", WithStdin("in"))
	c.SetStdin(Unchanged[string]())

	got, ok := c.Stdin().Get()
	assert.Assert(t, ok)
	assert.Equal(t, got, "in")

	c.SetStdin(Unset[string]())
	assert.Assert(t, c.Stdin().IsUnset())
}

func TestBaseCall_ToDict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []CallOption
		want []string
	}{
		{
			name: "title only",
			want: []string{"title"},
		},
		{
			name: "empty lists are set",
			opts: []CallOption{WithPositionals(), WithFlags()},
			want: []string{"title", "positionals", "flags"},
		},
		{
			name: "environ and description are not serialized",
			opts: []CallOption{
				WithStdin("x"),
				WithExtraEnviron(map[string]string{"A": "1"}),
				WithDescription("desc"),
			},
			want: []string{"title", "stdin"},
		},
		{
			name: "all fields with response",
			opts: []CallOption{
				WithStdin("x"),
				WithPositionals("list"),
				WithFlags("-v"),
				WithResponse(Response{ExitCode: 0, Stdout: "a\n"}),
			},
			want: []string{"title", "stdin", "positionals", "flags", "response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNewCall(t, "call", tt.opts...)
			assert.DeepEqual(t, keys(c.ToDict()), tt.want)
		})
	}
}

func TestBaseCall_ToDictValues(t *testing.T) {
	t.Parallel()

	c := mustNewCall(t, "list",
		WithPositionals("list"),
		WithResponse(Response{ExitCode: 2, Stdout: "out", Stderr: "err"}))

	out, err := yaml.Marshal(c.ToDict())
	assert.NilError(t, err)
	assert.Equal(t, string(out), `title: list
positionals:
- list
response:
  exit_code: 2
  stdout: out
  stderr: err
`)
}

func TestAlteredCall_InheritsThroughChain(t *testing.T) {
	t.Parallel()

	base := mustNewCall(t, "base",
		WithStdin("in"),
		WithPositionals("list"),
		WithFlags("-a"),
		WithExtraEnviron(map[string]string{"K": "V"}))

	c := Call(base)
	for i := 0; i < 5; i++ {
		c = mustAlter(t, c, "altered")
	}

	assert.DeepEqual(t, c.Stdin().OrZero(), "in")
	assert.DeepEqual(t, c.Positionals().OrZero(), []string{"list"})
	assert.DeepEqual(t, c.Flags().OrZero(), []string{"-a"})
	assert.DeepEqual(t, c.ExtraEnviron().OrZero(), map[string]string{"K": "V"})
	assert.Equal(t, len(c.(*AlteredCall).Overlay()), 0)
}

func TestAlteredCall_ReadsBaseCurrentValue(t *testing.T) {
	t.Parallel()

	base := mustNewCall(t, "base", WithFlags("-a"))
	c := mustAlter(t, base, "altered")

	base.SetFlags(Value([]string{"-b"}))

	assert.DeepEqual(t, c.Flags().OrZero(), []string{"-b"})
}

func TestAlteredCall_OverrideAndRevert(t *testing.T) {
	t.Parallel()

	base := mustNewCall(t, "base", WithPositionals("list"), WithStdin("in"))
	c := mustAlter(t, base, "altered", WithPositionals("show"))

	assert.DeepEqual(t, c.Positionals().OrZero(), []string{"show"})
	assert.DeepEqual(t, c.Overlay(), []FieldName{FieldPositionals})

	c.SetPositionals(Unchanged[[]string]())
	assert.DeepEqual(t, c.Positionals().OrZero(), []string{"list"})
	assert.Equal(t, len(c.Overlay()), 0)

	c.SetStdin(Unset[string]())
	assert.Assert(t, c.Stdin().IsUnset())
	assert.DeepEqual(t, c.Overlay(), []FieldName{FieldStdin})

	c.Revert(FieldStdin)
	assert.Equal(t, c.Stdin().OrZero(), "in")

	// Reverting a field that is not overridden is a no-op.
	c.Revert(FieldFlags)
	assert.Equal(t, len(c.Overlay()), 0)

	// The base is never touched.
	assert.DeepEqual(t, base.Positionals().OrZero(), []string{"list"})
}

func TestAlteredCall_UnchangedOptionIsNotStored(t *testing.T) {
	t.Parallel()

	base := mustNewCall(t, "base", WithStdin("in"))
	c := mustAlter(t, base, "altered",
		WithField(FieldStdin, Unchanged[string]()),
		WithField(FieldFlags, Value([]string{"--bogus"})))

	assert.DeepEqual(t, c.Overlay(), []FieldName{FieldFlags})
	assert.DeepEqual(t, keys(c.ToDict()), []string{"title", "flags"})
}

func TestAlteredCall_ToDict(t *testing.T) {
	t.Parallel()

	base := mustNewCall(t, "list",
		WithPositionals("list"),
		WithStdin("in"),
		WithResponse(Response{Stdout: "a\nb\n"}))

	c := mustAlter(t, base, "list-bad-flag",
		WithFlags("--bogus"),
		WithoutStdin(),
		WithExtraEnviron(map[string]string{"DEBUG": "1"}),
		WithDescription("unknown flags are rejected"),
		WithResponse(Response{ExitCode: 2, Stderr: "unknown flag"}))

	out, err := yaml.Marshal(c.ToDict())
	assert.NilError(t, err)
	assert.Equal(t, string(out), `title: list-bad-flag
stdin: null
flags:
- --bogus
extra_environ:
  DEBUG: "1"
description: unknown flags are rejected
response:
  exit_code: 2
  stdout: ""
  stderr: unknown flag
`)
}

func TestWithField_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewCall("bad", WithField("nope", Value("x")))
	assert.ErrorContains(t, err, `unknown field "nope"`)

	_, err = NewCall("bad", WithField(FieldStdin, Value(42)))
	assert.ErrorContains(t, err, `field "stdin": unexpected type`)
}

func TestWithResponseMap(t *testing.T) {
	t.Parallel()

	c := mustNewCall(t, "list", WithResponseMap(map[string]any{
		"exit_code": 0,
		"stdout":    "a\nb\n",
		"stderr":    "",
	}))

	assert.DeepEqual(t, *c.Response(), Response{Stdout: "a\nb\n"})

	_, err := NewCall("bad", WithResponseMap(map[string]any{"status": 1}))
	assert.Assert(t, cmp.ErrorIs(err, ErrInvalidResponse))
}

func TestOptionsCopyInput(t *testing.T) {
	t.Parallel()

	args := []string{"a"}
	env := map[string]string{"K": "V"}

	c := mustNewCall(t, "copy", WithPositionals(args...), WithExtraEnviron(env))
	args[0] = "changed"
	env["K"] = "changed"

	assert.DeepEqual(t, c.Positionals().OrZero(), []string{"a"})
	assert.DeepEqual(t, c.ExtraEnviron().OrZero(), map[string]string{"K": "V"})
}

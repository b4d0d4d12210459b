// Package bddcli models invocations of a command-line application ("calls")
// and their expected outcomes ("responses") for behavior-driven tests.
//
// A BaseCall stores every field directly. An AlteredCall is defined as a sparse
// overlay over another call and reads through to it for any field it does not
// override, so one full scenario can be followed by many one-field variations.
package bddcli

import (
	"gopkg.in/yaml.v2"
)

// Call is an invocation specification plus an optional expected response.
//
// Field getters always return a resolved field: either set or unset, never
// unchanged. Setters accept the unchanged marker; see BaseCall and
// AlteredCall for what it means to each.
type Call interface {
	Title() string
	Description() string

	Stdin() Field[string]
	SetStdin(Field[string])
	Positionals() Field[[]string]
	SetPositionals(Field[[]string])
	Flags() Field[[]string]
	SetFlags(Field[[]string])
	ExtraEnviron() Field[map[string]string]
	SetExtraEnviron(Field[map[string]string])

	// Response returns the expected response, or nil if none is recorded.
	Response() *Response

	// ToDict returns the call as an ordered mapping for fixture files.
	ToDict() yaml.MapSlice

	// conclude stores r as the expected response if there is none yet.
	conclude(r Response) bool
}

// header holds what every call has regardless of how its fields are stored.
type header struct {
	title       string
	description string
	response    *Response
}

func (h *header) Title() string {
	return h.title
}

func (h *header) Description() string {
	return h.description
}

func (h *header) Response() *Response {
	return h.response
}

func (h *header) conclude(r Response) bool {
	if h.response != nil {
		return false
	}

	h.response = &r

	return true
}

// BaseCall is a call that stores all of its fields directly.
type BaseCall struct {
	header
	fields fields
}

// NewCall returns a BaseCall. Fields not given in opts are unset.
func NewCall(title string, opts ...CallOption) (*BaseCall, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	// Unchanged on a fresh BaseCall has nothing to keep, so it is unset.
	c := &BaseCall{
		header: cfg.header,
		fields: fields{
			stdin:        cfg.fields.stdin.resolved(),
			positionals:  cfg.fields.positionals.resolved(),
			flags:        cfg.fields.flags.resolved(),
			extraEnviron: cfg.fields.extraEnviron.resolved(),
		},
	}
	c.title = title

	return c, nil
}

func (c *BaseCall) Stdin() Field[string] {
	return c.fields.stdin
}

func (c *BaseCall) Positionals() Field[[]string] {
	return c.fields.positionals
}

func (c *BaseCall) Flags() Field[[]string] {
	return c.fields.flags
}

func (c *BaseCall) ExtraEnviron() Field[map[string]string] {
	return c.fields.extraEnviron
}

// SetStdin sets stdin. Unchanged leaves the current value in place.
func (c *BaseCall) SetStdin(f Field[string]) {
	if !f.IsUnchanged() {
		c.fields.stdin = f
	}
}

func (c *BaseCall) SetPositionals(f Field[[]string]) {
	if !f.IsUnchanged() {
		c.fields.positionals = f
	}
}

func (c *BaseCall) SetFlags(f Field[[]string]) {
	if !f.IsUnchanged() {
		c.fields.flags = f
	}
}

func (c *BaseCall) SetExtraEnviron(f Field[map[string]string]) {
	if !f.IsUnchanged() {
		c.fields.extraEnviron = f
	}
}

// ToDict returns the title, every set field among stdin, positionals and
// flags, and the response if there is one.
func (c *BaseCall) ToDict() yaml.MapSlice {
	d := yaml.MapSlice{{Key: "title", Value: c.title}}

	for _, name := range []FieldName{FieldStdin, FieldPositionals, FieldFlags} {
		if v := c.fields.yamlValue(name); v != nil {
			d = append(d, yaml.MapItem{Key: string(name), Value: v})
		}
	}

	if c.response != nil {
		d = append(d, yaml.MapItem{Key: "response", Value: c.response.ToDict()})
	}

	return d
}

// AlteredCall is a call defined as a sparse overlay over another call. The
// base is shared and never modified through the AlteredCall.
type AlteredCall struct {
	header
	base    Call
	overlay fields
}

// Alter returns an AlteredCall over base. Fields not given in opts, or given
// as Unchanged, are inherited.
func Alter(base Call, title string, opts ...CallOption) (*AlteredCall, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	c := &AlteredCall{
		header:  cfg.header,
		base:    base,
		overlay: cfg.fields,
	}
	c.title = title

	return c, nil
}

// Base returns the call this one is an overlay of.
func (c *AlteredCall) Base() Call {
	return c.base
}

func (c *AlteredCall) Stdin() Field[string] {
	if c.overlay.stdin.IsUnchanged() {
		return c.base.Stdin()
	}

	return c.overlay.stdin
}

func (c *AlteredCall) Positionals() Field[[]string] {
	if c.overlay.positionals.IsUnchanged() {
		return c.base.Positionals()
	}

	return c.overlay.positionals
}

func (c *AlteredCall) Flags() Field[[]string] {
	if c.overlay.flags.IsUnchanged() {
		return c.base.Flags()
	}

	return c.overlay.flags
}

func (c *AlteredCall) ExtraEnviron() Field[map[string]string] {
	if c.overlay.extraEnviron.IsUnchanged() {
		return c.base.ExtraEnviron()
	}

	return c.overlay.extraEnviron
}

// SetStdin overrides stdin. Unchanged removes the override.
func (c *AlteredCall) SetStdin(f Field[string]) {
	c.overlay.stdin = f
}

func (c *AlteredCall) SetPositionals(f Field[[]string]) {
	c.overlay.positionals = f
}

func (c *AlteredCall) SetFlags(f Field[[]string]) {
	c.overlay.flags = f
}

func (c *AlteredCall) SetExtraEnviron(f Field[map[string]string]) {
	c.overlay.extraEnviron = f
}

// Revert removes the named field from the overlay so that it reads through
// to the base again. Reverting a field that is not overridden does nothing.
func (c *AlteredCall) Revert(name FieldName) {
	c.overlay.clear(name)
}

// Overlay returns the names of the overridden fields in canonical order.
func (c *AlteredCall) Overlay() []FieldName {
	var names []FieldName

	for _, name := range FieldNames {
		if c.overlay.has(name) {
			names = append(names, name)
		}
	}

	return names
}

// ToDict returns the title, the overlay, and the description and response if
// they are set. Inherited values are never included; an override to unset is
// written as null.
func (c *AlteredCall) ToDict() yaml.MapSlice {
	d := yaml.MapSlice{{Key: "title", Value: c.title}}

	for _, name := range c.Overlay() {
		d = append(d, yaml.MapItem{Key: string(name), Value: c.overlay.yamlValue(name)})
	}

	if c.description != "" {
		d = append(d, yaml.MapItem{Key: "description", Value: c.description})
	}

	if c.response != nil {
		d = append(d, yaml.MapItem{Key: "response", Value: c.response.ToDict()})
	}

	return d
}

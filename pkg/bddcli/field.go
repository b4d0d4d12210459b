package bddcli

// FieldName identifies one of the invocation fields of a Call.
type FieldName string

const (
	FieldStdin        FieldName = "stdin"
	FieldPositionals  FieldName = "positionals"
	FieldFlags        FieldName = "flags"
	FieldExtraEnviron FieldName = "extra_environ"
)

// FieldNames lists every invocation field in canonical (serialization) order.
var FieldNames = []FieldName{FieldStdin, FieldPositionals, FieldFlags, FieldExtraEnviron}

type fieldState uint8

const (
	stateUnchanged fieldState = iota
	stateUnset
	stateSet
)

// Field is a tri-state call field: unchanged (inherit from the base call),
// explicitly unset, or set to a value. The zero value is unchanged.
//
// Unset is not the same as an empty value: an empty slice passed to Value is
// a set field.
type Field[T any] struct {
	state fieldState
	value T
}

// Value returns a field set to v.
func Value[T any](v T) Field[T] {
	return Field[T]{state: stateSet, value: v}
}

// Unset returns an explicitly unset field.
func Unset[T any]() Field[T] {
	return Field[T]{state: stateUnset}
}

// Unchanged returns the inherit-from-base marker.
func Unchanged[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether the field is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == stateSet
}

// OrZero returns the value, or the zero value of T if the field is not set.
func (f Field[T]) OrZero() T {
	return f.value
}

func (f Field[T]) IsSet() bool {
	return f.state == stateSet
}

func (f Field[T]) IsUnset() bool {
	return f.state == stateUnset
}

func (f Field[T]) IsUnchanged() bool {
	return f.state == stateUnchanged
}

// resolved turns the unchanged marker into unset. Used wherever there is no
// base to inherit from.
func (f Field[T]) resolved() Field[T] {
	if f.state == stateUnchanged {
		return Unset[T]()
	}

	return f
}

// yamlValue returns the value for serialization; unset fields become nil.
func (f Field[T]) yamlValue() any {
	if f.state != stateSet {
		return nil
	}

	return f.value
}

// fields groups the four invocation fields. BaseCall stores one directly;
// AlteredCall stores one as its overlay, where unchanged means "not in the
// overlay".
type fields struct {
	stdin        Field[string]
	positionals  Field[[]string]
	flags        Field[[]string]
	extraEnviron Field[map[string]string]
}

// has reports whether the named field is anything other than unchanged.
func (f *fields) has(name FieldName) bool {
	switch name {
	case FieldStdin:
		return !f.stdin.IsUnchanged()
	case FieldPositionals:
		return !f.positionals.IsUnchanged()
	case FieldFlags:
		return !f.flags.IsUnchanged()
	case FieldExtraEnviron:
		return !f.extraEnviron.IsUnchanged()
	}

	return false
}

// clear resets the named field to unchanged.
func (f *fields) clear(name FieldName) {
	switch name {
	case FieldStdin:
		f.stdin = Unchanged[string]()
	case FieldPositionals:
		f.positionals = Unchanged[[]string]()
	case FieldFlags:
		f.flags = Unchanged[[]string]()
	case FieldExtraEnviron:
		f.extraEnviron = Unchanged[map[string]string]()
	}
}

func (f *fields) yamlValue(name FieldName) any {
	switch name {
	case FieldStdin:
		return f.stdin.yamlValue()
	case FieldPositionals:
		return f.positionals.yamlValue()
	case FieldFlags:
		return f.flags.yamlValue()
	case FieldExtraEnviron:
		return f.extraEnviron.yamlValue()
	}

	return nil
}

package story

import (
	"fmt"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"golang.org/x/exp/slices"
)

// ListManipulator derives a new list from a copy of the base call's list.
type ListManipulator func([]string) ([]string, error)

// MapManipulator changes a copy of the base call's extra environment in
// place.
type MapManipulator func(map[string]string) error

// Append adds values to the end of the list.
func Append(values ...string) ListManipulator {
	return func(list []string) ([]string, error) {
		return append(list, values...), nil
	}
}

// Remove removes the first occurrence of each value. A value that is not in
// the list is an error.
func Remove(values ...string) ListManipulator {
	return func(list []string) ([]string, error) {
		for _, v := range values {
			i := slices.Index(list, v)
			if i < 0 {
				return nil, fmt.Errorf("cannot remove %q: not in %q", v, list)
			}

			list = slices.Delete(list, i, i+1)
		}

		return list, nil
	}
}

// Update sets the given variables, replacing existing values.
func Update(vars map[string]string) MapManipulator {
	return func(env map[string]string) error {
		for k, v := range vars {
			env[k] = v
		}

		return nil
	}
}

// Drop deletes the given variables. A variable that is not set is an error.
func Drop(keys ...string) MapManipulator {
	return func(env map[string]string) error {
		for _, k := range keys {
			if _, ok := env[k]; !ok {
				return fmt.Errorf("cannot drop %q: not set", k)
			}

			delete(env, k)
		}

		return nil
	}
}

// Option configures an altered call. It sees the call being altered, so it
// can derive a field from the base's current value.
type Option func(base bddcli.Call) ([]bddcli.CallOption, error)

// With passes plain call options through.
func With(opts ...bddcli.CallOption) Option {
	return func(bddcli.Call) ([]bddcli.CallOption, error) {
		return opts, nil
	}
}

// Positionals overrides the positional arguments with the base's list after
// ms are applied in order. An unset base list counts as empty.
func Positionals(ms ...ListManipulator) Option {
	return func(base bddcli.Call) ([]bddcli.CallOption, error) {
		list, err := manipulateList(base.Positionals(), ms)
		if err != nil {
			return nil, fmt.Errorf("positionals: %w", err)
		}

		return []bddcli.CallOption{bddcli.WithPositionals(list...)}, nil
	}
}

// Flags overrides the flags with the base's list after ms are applied.
func Flags(ms ...ListManipulator) Option {
	return func(base bddcli.Call) ([]bddcli.CallOption, error) {
		list, err := manipulateList(base.Flags(), ms)
		if err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}

		return []bddcli.CallOption{bddcli.WithFlags(list...)}, nil
	}
}

// Environ overrides the extra environment with the base's after ms are
// applied.
func Environ(ms ...MapManipulator) Option {
	return func(base bddcli.Call) ([]bddcli.CallOption, error) {
		env := map[string]string{}
		for k, v := range base.ExtraEnviron().OrZero() {
			env[k] = v
		}

		for _, m := range ms {
			if err := m(env); err != nil {
				return nil, fmt.Errorf("extra_environ: %w", err)
			}
		}

		return []bddcli.CallOption{bddcli.WithExtraEnviron(env)}, nil
	}
}

func manipulateList(f bddcli.Field[[]string], ms []ListManipulator) ([]string, error) {
	list := slices.Clone(f.OrZero())

	for _, m := range ms {
		var err error

		list, err = m(list)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

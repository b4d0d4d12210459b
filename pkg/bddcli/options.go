package bddcli

import "fmt"

type callConfig struct {
	header header
	fields fields
	errs   []error
}

// CallOption configures a call at construction time.
type CallOption func(*callConfig)

func applyOptions(opts []CallOption) (*callConfig, error) {
	cfg := &callConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.errs) > 0 {
		return nil, cfg.errs[0]
	}

	return cfg, nil
}

// WithStdin sets the text fed to the process on stdin.
func WithStdin(s string) CallOption {
	return func(c *callConfig) {
		c.fields.stdin = Value(s)
	}
}

// WithoutStdin explicitly unsets stdin, so no input is provided.
func WithoutStdin() CallOption {
	return func(c *callConfig) {
		c.fields.stdin = Unset[string]()
	}
}

// WithPositionals sets the positional arguments. Calling it with no
// arguments sets an empty list, which is not the same as unset.
func WithPositionals(args ...string) CallOption {
	return func(c *callConfig) {
		c.fields.positionals = Value(append([]string{}, args...))
	}
}

// WithFlags sets the flags, passed before the positional arguments.
func WithFlags(flags ...string) CallOption {
	return func(c *callConfig) {
		c.fields.flags = Value(append([]string{}, flags...))
	}
}

// WithExtraEnviron sets environment variables added to the process
// environment.
func WithExtraEnviron(env map[string]string) CallOption {
	return func(c *callConfig) {
		copied := make(map[string]string, len(env))
		for k, v := range env {
			copied[k] = v
		}

		c.fields.extraEnviron = Value(copied)
	}
}

// WithField sets any field from a raw tri-state value. For an AlteredCall,
// Unchanged keeps the field out of the overlay.
func WithField[T any](name FieldName, f Field[T]) CallOption {
	return func(c *callConfig) {
		var ok bool

		switch name {
		case FieldStdin:
			c.fields.stdin, ok = any(f).(Field[string])
		case FieldPositionals:
			c.fields.positionals, ok = any(f).(Field[[]string])
		case FieldFlags:
			c.fields.flags, ok = any(f).(Field[[]string])
		case FieldExtraEnviron:
			c.fields.extraEnviron, ok = any(f).(Field[map[string]string])
		default:
			c.errs = append(c.errs, fmt.Errorf("unknown field %q", name))

			return
		}

		if !ok {
			c.errs = append(c.errs, fmt.Errorf("field %q: unexpected type %T", name, f))
		}
	}
}

// WithDescription sets a human readable description of the call.
func WithDescription(s string) CallOption {
	return func(c *callConfig) {
		c.header.description = s
	}
}

// WithResponse sets the expected response.
func WithResponse(r Response) CallOption {
	return func(c *callConfig) {
		c.header.response = &r
	}
}

// WithResponseMap sets the expected response from a mapping of its fields.
func WithResponseMap(m map[string]any) CallOption {
	return func(c *callConfig) {
		r, err := ResponseFromMap(m)
		if err != nil {
			c.errs = append(c.errs, err)

			return
		}

		c.header.response = &r
	}
}
